package translation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestSystemPrompt(t *testing.T) {
	p := NewPromptBuilder(language.BrazilianPortuguese)

	withGlossary, err := p.System([]string{"- Clue -> Pista", "- Doom -> Perdição"})
	require.NoError(t, err)
	assert.Contains(t, withGlossary, "into Brazilian Portuguese")
	assert.Contains(t, withGlossary, "Glossary:\n- Clue -> Pista\n- Doom -> Perdição\n")

	without, err := p.System(nil)
	require.NoError(t, err)
	assert.NotContains(t, without, "Glossary:")
	assert.True(t, strings.HasSuffix(without, "explanations.\n"))
}

func TestSystemPromptIsDeterministic(t *testing.T) {
	p := NewPromptBuilder(language.BrazilianPortuguese)
	lines := []string{"- Clue -> Pista"}

	first, err := p.System(lines)
	require.NoError(t, err)
	second, err := p.System(lines)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBatchPrompt(t *testing.T) {
	p := NewPromptBuilder(language.BrazilianPortuguese)

	out, err := p.Batch([]string{"- Clue -> Pista"})
	require.NoError(t, err)
	assert.Contains(t, out, "- Clue -> Pista")
	assert.Contains(t, out, `"id"`)
}

func TestParseTarget(t *testing.T) {
	tag, err := ParseTarget("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "pt", FieldSuffix(tag))
	assert.Equal(t, "Brazilian Portuguese", LanguageName(tag))

	tag, err = ParseTarget("es")
	require.NoError(t, err)
	assert.Equal(t, "es", FieldSuffix(tag))

	_, err = ParseTarget("not a language!")
	assert.Error(t, err)
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"", ProviderOpenAI, false},
		{"OpenAI", ProviderOpenAI, false},
		{"gemini", ProviderGemini, false},
		{"google", ProviderGemini, false},
		{" OLLAMA ", ProviderOllama, false},
		{"deepl", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, ProviderOpenAI.NeedsAPIKey())
	assert.False(t, ProviderOllama.NeedsAPIKey())
}
