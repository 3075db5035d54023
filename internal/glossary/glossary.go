package glossary

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry is a single source -> target terminology pair
type Entry struct {
	Source string
	Target string
}

// Glossary holds terminology pairs. A nil *Glossary is valid and empty.
type Glossary struct {
	terms   map[string]string
	ordered []Entry // longest source first, ties broken lexically
}

// New creates a glossary from a term map, dropping pairs with a blank side
func New(terms map[string]string) *Glossary {
	g := &Glossary{terms: make(map[string]string, len(terms))}
	for src, tgt := range terms {
		src = strings.TrimSpace(src)
		tgt = strings.TrimSpace(tgt)
		if src == "" || tgt == "" {
			continue
		}
		g.terms[src] = tgt
	}
	g.reorder()
	return g
}

// Default returns the minimal built-in Arkham Horror glossary
func Default() *Glossary {
	return New(map[string]string{
		"Clue":       "Pista",
		"Clues":      "Pistas",
		"Doom":       "Perdição",
		"Chaos Bag":  "Saco do Caos",
		"Skill Test": "Teste de Perícia",
		"Evade":      "Evadir",
		"Engage":     "Engajar",
		"Scenario":   "Cenário",
		"Campaign":   "Campanha",
		"Exhaust":    "Exaurir",
		"Exhausted":  "Exaurido",
	})
}

func (g *Glossary) reorder() {
	g.ordered = g.ordered[:0]
	for src, tgt := range g.terms {
		g.ordered = append(g.ordered, Entry{Source: src, Target: tgt})
	}
	sort.Slice(g.ordered, func(i, j int) bool {
		a, b := g.ordered[i].Source, g.ordered[j].Source
		la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
		if la != lb {
			return la > lb
		}
		return a < b
	})
}

// merge overlays other's terms on top of g
func (g *Glossary) merge(other map[string]string) {
	for src, tgt := range New(other).terms {
		g.terms[src] = tgt
	}
	g.reorder()
}

// Len returns the number of terms
func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.terms)
}

// Lookup returns the target term for an exact source term
func (g *Glossary) Lookup(source string) (string, bool) {
	if g == nil {
		return "", false
	}
	tgt, ok := g.terms[source]
	return tgt, ok
}

// Entries returns all pairs sorted by source term
func (g *Glossary) Entries() []Entry {
	if g == nil {
		return nil
	}
	entries := make([]Entry, 0, len(g.terms))
	for src, tgt := range g.terms {
		entries = append(entries, Entry{Source: src, Target: tgt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Source < entries[j].Source
	})
	return entries
}

// PromptLines renders the glossary as "- source -> target" lines for a prompt
func (g *Glossary) PromptLines() []string {
	entries := g.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s -> %s", e.Source, e.Target))
	}
	return lines
}

// Apply replaces every whole-word occurrence of each source term with its
// target term, longest terms first.
func (g *Glossary) Apply(text string) string {
	if g == nil || text == "" {
		return text
	}
	for _, e := range g.ordered {
		text = replaceWord(text, e.Source, e.Target)
	}
	return text
}

// Protect masks whole-word source terms with opaque [[Gn]] tokens. The
// returned restore function swaps the tokens in a translated text for the
// matching target terms.
func (g *Glossary) Protect(text string) (string, func(string) string) {
	if g == nil || text == "" {
		return text, identity
	}

	var pairs []string
	for i, e := range g.ordered {
		token := fmt.Sprintf("[[G%d]]", i)
		masked := replaceWord(text, e.Source, token)
		if masked != text {
			pairs = append(pairs, token, e.Target)
			text = masked
		}
	}
	if len(pairs) == 0 {
		return text, identity
	}

	replacer := strings.NewReplacer(pairs...)
	return text, replacer.Replace
}

func identity(s string) string { return s }

// replaceWord replaces occurrences of term that are not adjacent to a word
// rune on either side.
func replaceWord(text, term, repl string) string {
	if term == "" || !strings.Contains(text, term) {
		return text
	}

	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(text[pos:], term)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			b.WriteString(text[pos:start])
			b.WriteString(repl)
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		b.WriteString(text[pos : start+size])
		pos = start + size
	}
	b.WriteString(text[pos:])
	return b.String()
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
