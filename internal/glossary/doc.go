// Package glossary loads terminology pairs and applies them to card text.
// A glossary is embedded in the translation prompt, substituted over the
// translated text with word-boundary matching (longest terms first), and can
// optionally mask source terms with opaque tokens before translation.
package glossary
