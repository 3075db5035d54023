package translation

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemTemplate = `You are a professional translator for Arkham Horror: The Card Game.
Translate the card text the user sends from English into {{.Language}}.

Rules:
- Keep every bracketed token such as [action], [reaction], [willpower] or [[G0]] exactly as written.
- Keep every placeholder such as {x} or {0} exactly as written.
- Keep numbers, line breaks and HTML-like tags such as <b> unchanged.
- Use the glossary terminology whenever a glossary term appears.
- Answer with the translation only, without quotes, notes or explanations.
{{- if .Glossary}}

Glossary:
{{- range .Glossary}}
{{.}}
{{- end}}
{{- end}}
`

const batchTemplate = `{{.System}}
You receive a JSON array of objects with the fields "id" and "text".
Answer with a JSON array only: exactly one object {"id": ..., "text": ...} per input object,
with the same "id" values and "text" holding the translation. Do not add, drop or merge items.
`

var (
	systemTmpl = template.Must(template.New("system").Parse(systemTemplate))
	batchTmpl  = template.Must(template.New("batch").Parse(batchTemplate))
)

// PromptBuilder renders prompts for a fixed target language
type PromptBuilder struct {
	target   language.Tag
	language string
}

// NewPromptBuilder creates a builder for target, e.g. language.BrazilianPortuguese
func NewPromptBuilder(target language.Tag) *PromptBuilder {
	return &PromptBuilder{
		target:   target,
		language: LanguageName(target),
	}
}

// System renders the per-field system prompt with the glossary embedded
func (p *PromptBuilder) System(glossaryLines []string) (string, error) {
	var buf bytes.Buffer
	err := systemTmpl.Execute(&buf, struct {
		Language string
		Glossary []string
	}{p.language, glossaryLines})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return buf.String(), nil
}

// Batch renders the system prompt for a JSON batch request
func (p *PromptBuilder) Batch(glossaryLines []string) (string, error) {
	system, err := p.System(glossaryLines)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := batchTmpl.Execute(&buf, struct{ System string }{system}); err != nil {
		return "", fmt.Errorf("failed to render batch prompt: %w", err)
	}
	return buf.String(), nil
}

// ParseTarget parses a BCP 47 target language such as "pt-BR"
func ParseTarget(s string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return language.Und, fmt.Errorf("invalid target language %q: %w", s, err)
	}
	return tag, nil
}

// LanguageName returns the English display name of tag, e.g. "Brazilian Portuguese"
func LanguageName(tag language.Tag) string {
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

// FieldSuffix returns the output column suffix for tag, e.g. "pt" for pt-BR
func FieldSuffix(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
