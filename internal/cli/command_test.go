package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/arkhamtr/internal/translation"
)

func newTestCommands(t *testing.T) (*Commands, *Flags) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	flags := NewFlags()
	return CreateCommands(flags), flags
}

func TestCreateCommands(t *testing.T) {
	cmds, _ := newTestCommands(t)

	if cmds.Root.Use != "arkhamtr" {
		t.Errorf("Expected Use to be 'arkhamtr', got %s", cmds.Root.Use)
	}
	if !strings.Contains(cmds.Root.Short, "Portuguese") {
		t.Errorf("Expected Short description to mention Portuguese, got %q", cmds.Root.Short)
	}

	var names []string
	for _, c := range cmds.Root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"convert", "translate-csv", "cache", "models"}, names)
	assert.Len(t, cmds.Cache.Commands(), 2)

	flagTests := []struct {
		set  *pflag.FlagSet
		name string
	}{
		{cmds.Root.PersistentFlags(), "config"},
		{cmds.Root.PersistentFlags(), "log-level"},
		{cmds.Root.PersistentFlags(), "log-format"},
		{cmds.Root.PersistentFlags(), "lang"},
		{cmds.Root.PersistentFlags(), "provider"},
		{cmds.Root.PersistentFlags(), "model"},
		{cmds.Root.PersistentFlags(), "base-url"},
		{cmds.Root.PersistentFlags(), "target"},
		{cmds.Root.PersistentFlags(), "rate"},
		{cmds.Root.PersistentFlags(), "max-retries"},
		{cmds.Root.PersistentFlags(), "retry-delay"},
		{cmds.Root.PersistentFlags(), "fields"},
		{cmds.Root.PersistentFlags(), "cache"},
		{cmds.Root.PersistentFlags(), "glossary"},
		{cmds.Root.PersistentFlags(), "glossary-mode"},
		{cmds.Root.PersistentFlags(), "metrics-file"},
		{cmds.Root.Flags(), "root"},
		{cmds.Root.Flags(), "packs"},
		{cmds.Root.Flags(), "out"},
		{cmds.Root.Flags(), "dry-run"},
		{cmds.Root.Flags(), "archive"},
		{cmds.Convert.Flags(), "source"},
		{cmds.Convert.Flags(), "output"},
		{cmds.Convert.Flags(), "columns"},
		{cmds.TranslateCSV.Flags(), "input"},
		{cmds.TranslateCSV.Flags(), "output"},
		{cmds.TranslateCSV.Flags(), "batch-size"},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			if tt.set.Lookup(tt.name) == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestApplyConfigFromFlags(t *testing.T) {
	cmds, flags := newTestCommands(t)

	err := cmds.Root.ParseFlags([]string{
		"--root", "data",
		"--packs", "core,dwl",
		"--model", "gpt-4o-mini",
		"--rate", "10",
		"--retry-delay", "500ms",
		"--fields", "name,text",
		"--dry-run",
	})
	require.NoError(t, err)

	flags.ApplyConfig()

	assert.Equal(t, "data", flags.Root)
	assert.Equal(t, []string{"core", "dwl"}, flags.Packs)
	assert.Equal(t, "gpt-4o-mini", flags.Model)
	assert.Equal(t, 10.0, flags.Rate)
	assert.Equal(t, 500*time.Millisecond, flags.RetryDelay)
	assert.Equal(t, []string{"name", "text"}, flags.Fields)
	assert.True(t, flags.DryRun)
	assert.Equal(t, "out", flags.OutputDir)
}

func TestApplyConfigFromFile(t *testing.T) {
	cmds, flags := newTestCommands(t)

	path := filepath.Join(t.TempDir(), ".arkhamtr.yaml")
	content := `translation:
  model: gemma3
  provider: ollama
  rate: 12
input:
  root: /data/arkham
  packs: [core]
glossary:
  mode: mask
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Flags beat the config file
	require.NoError(t, cmds.Root.ParseFlags([]string{"--rate", "5"}))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	flags.ApplyConfig()

	assert.Equal(t, "gemma3", flags.Model)
	assert.Equal(t, "ollama", flags.Provider)
	assert.Equal(t, 5.0, flags.Rate)
	assert.Equal(t, "/data/arkham", flags.Root)
	assert.Equal(t, []string{"core"}, flags.Packs)
	assert.Equal(t, "mask", flags.GlossaryMode)
	assert.Equal(t, ".cache.sqlite", flags.CacheDSN)
}

func TestAPIKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := APIKey("openai")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	_, err = APIKey("gemini")
	assert.ErrorIs(t, err, ErrMissingCredential)

	key, err := APIKey("ollama")
	require.NoError(t, err)
	assert.Empty(t, key)

	t.Setenv("OPENAI_API_KEY", "sk-env")
	key, err = APIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", key)

	viper.Set("translation.gemini_key", "from-config")
	key, err = APIKey("gemini")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)
}

func TestValidateTranslate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(f *Flags)
		wantErr string
	}{
		{"valid", func(f *Flags) { f.Root = "data" }, ""},
		{"missing root", func(f *Flags) {}, "--root is required"},
		{"negative rate", func(f *Flags) { f.Root = "data"; f.Rate = -1 }, "invalid --rate"},
		{"bad glossary mode", func(f *Flags) { f.Root = "data"; f.GlossaryMode = "replace" }, "invalid --glossary-mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := NewFlags()
			tt.modify(flags)

			err := flags.ValidateTranslate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestComponentConfigs(t *testing.T) {
	flags := NewFlags()
	flags.GlossaryMode = "mask"
	flags.Rate = 0

	suffix, err := flags.Suffix()
	require.NoError(t, err)
	assert.Equal(t, "pt", suffix)

	pc, err := flags.ProcessorConfig(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "pt", pc.Suffix)
	assert.Equal(t, "out", pc.OutputDir)
	assert.Equal(t, flags.Root, pc.Root)

	rc, err := flags.ResolverConfig(nil, nil)
	require.NoError(t, err)
	assert.True(t, rc.Mask)
	assert.Equal(t, "gpt-4.1", rc.Model)
	assert.NotNil(t, rc.Pacer)

	tc, err := flags.TranslatorConfig(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", tc.Target.String())
	assert.Equal(t, 5, tc.MaxRetries)

	flags.Target = "not a tag!"
	_, err = flags.TranslatorConfig(nil, nil)
	assert.Error(t, err)
}

func TestModelNameDefaults(t *testing.T) {
	flags := NewFlags()
	flags.Model = ""

	assert.Equal(t, translation.DefaultModel, flags.ModelName())

	rc, err := flags.ResolverConfig(nil, nil)
	require.NoError(t, err)
	tc, err := flags.TranslatorConfig(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rc.Model, tc.Model)

	flags.Model = "gpt-4o-mini"
	assert.Equal(t, "gpt-4o-mini", flags.ModelName())
}

func TestBackendConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("OPENAI_API_KEY", "")

	flags := NewFlags()
	_, err := flags.BackendConfig(nil)
	assert.ErrorIs(t, err, ErrMissingCredential)

	flags.Provider = "ollama"
	flags.BaseURL = "http://gpu-box:11434"
	cfg, err := flags.BackendConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.BaseURL)

	flags.Provider = "deepl"
	_, err = flags.BackendConfig(nil)
	assert.Error(t, err)
}

func TestBatchOutputPath(t *testing.T) {
	flags := NewFlags()
	flags.BatchInput = filepath.Join("out", "cards.csv")

	path, err := flags.BatchOutputPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "cards_pt.csv"), path)

	flags.BatchOutput = "custom.csv"
	path, err = flags.BatchOutputPath()
	require.NoError(t, err)
	assert.Equal(t, "custom.csv", path)
}
