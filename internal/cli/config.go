package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"codeberg.org/snonux/arkhamtr/internal"
	"codeberg.org/snonux/arkhamtr/internal/batch"
	"codeberg.org/snonux/arkhamtr/internal/metrics"
	"codeberg.org/snonux/arkhamtr/internal/processor"
	"codeberg.org/snonux/arkhamtr/internal/translation"
)

// ErrMissingCredential is returned when the selected provider has no API key
var ErrMissingCredential = errors.New("missing API credential")

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".arkhamtr" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arkhamtr")
	}

	// Environment variables, e.g. ARKHAMTR_TRANSLATION_MODEL
	viper.SetEnvPrefix("ARKHAMTR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies the viper-resolved values (flag, env, config file,
// default) back into flags
func (f *Flags) ApplyConfig() {
	f.LogLevel = viper.GetString("log.level")
	f.LogFormat = viper.GetString("log.format")
	f.Lang = viper.GetString("report.lang")

	f.Provider = viper.GetString("translation.provider")
	f.Model = viper.GetString("translation.model")
	f.BaseURL = viper.GetString("translation.base_url")
	f.Target = viper.GetString("translation.target")
	f.Rate = viper.GetFloat64("translation.rate")
	f.MaxRetries = viper.GetInt("translation.max_retries")
	f.RetryDelay = viper.GetDuration("translation.retry_delay")
	f.Fields = normalizeList(viper.GetStringSlice("translation.fields"))
	f.CacheDSN = viper.GetString("cache.dsn")
	f.GlossaryPath = viper.GetString("glossary.path")
	f.GlossaryMode = viper.GetString("glossary.mode")
	f.MetricsFile = viper.GetString("metrics.file")

	f.Root = viper.GetString("input.root")
	f.Packs = normalizeList(viper.GetStringSlice("input.packs"))
	f.OutputDir = viper.GetString("output.directory")
	f.BatchSize = viper.GetInt("batch.size")
}

// normalizeList flattens comma-separated items, e.g. ["core,dwl"] from an env var
func normalizeList(items []string) []string {
	return internal.SplitList(strings.Join(items, ","))
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("translation.gemini_key")
}

// APIKey returns the credential for provider
func APIKey(provider translation.Provider) (string, error) {
	var key, env string
	switch provider {
	case translation.ProviderOpenAI:
		key, env = GetOpenAIKey(), "OPENAI_API_KEY"
	case translation.ProviderGemini:
		key, env = GetGeminiKey(), "GEMINI_API_KEY"
	default:
		return "", nil
	}

	if key == "" && provider.NeedsAPIKey() {
		return "", fmt.Errorf("%w: set %s or configure it in .arkhamtr.yaml", ErrMissingCredential, env)
	}
	return key, nil
}

// ValidateTranslate checks the settings of the card file translation
func (f *Flags) ValidateTranslate() error {
	if strings.TrimSpace(f.Root) == "" {
		return errors.New("--root is required (or set input.root in the config file)")
	}
	if f.Rate < 0 {
		return fmt.Errorf("invalid --rate %v: must not be negative", f.Rate)
	}
	_, err := f.glossaryMask()
	return err
}

func (f *Flags) glossaryMask() (bool, error) {
	switch strings.ToLower(f.GlossaryMode) {
	case "", "prompt":
		return false, nil
	case "mask":
		return true, nil
	default:
		return false, fmt.Errorf("invalid --glossary-mode %q (supported: prompt, mask)", f.GlossaryMode)
	}
}

// Suffix returns the translated field suffix for the target language
func (f *Flags) Suffix() (string, error) {
	tag, err := translation.ParseTarget(f.Target)
	if err != nil {
		return "", err
	}
	return translation.FieldSuffix(tag), nil
}

// BackendConfig builds the backend configuration, resolving credentials
func (f *Flags) BackendConfig(logger *logrus.Logger) (translation.BackendConfig, error) {
	provider, err := translation.ParseProvider(f.Provider)
	if err != nil {
		return translation.BackendConfig{}, err
	}

	key, err := APIKey(provider)
	if err != nil {
		return translation.BackendConfig{}, err
	}

	return translation.BackendConfig{
		Provider: provider,
		APIKey:   key,
		BaseURL:  f.BaseURL,
		Logger:   logger,
	}, nil
}

// ModelName returns the configured model, or the default when unset.
// Cache keys are derived from it.
func (f *Flags) ModelName() string {
	if f.Model == "" {
		return translation.DefaultModel
	}
	return f.Model
}

// TranslatorConfig builds the translator configuration
func (f *Flags) TranslatorConfig(logger *logrus.Logger, m *metrics.Collector) (translation.Config, error) {
	tag, err := translation.ParseTarget(f.Target)
	if err != nil {
		return translation.Config{}, err
	}

	return translation.Config{
		Model:      f.ModelName(),
		Target:     tag,
		Seed:       translation.DefaultSeed,
		MaxRetries: f.MaxRetries,
		BaseDelay:  f.RetryDelay,
		Logger:     logger,
		Metrics:    m,
	}, nil
}

// ResolverConfig builds the cache resolver configuration
func (f *Flags) ResolverConfig(logger *logrus.Logger, m *metrics.Collector) (processor.ResolverConfig, error) {
	mask, err := f.glossaryMask()
	if err != nil {
		return processor.ResolverConfig{}, err
	}

	return processor.ResolverConfig{
		Model:   f.ModelName(),
		Mask:    mask,
		Pacer:   processor.NewPacer(f.Rate),
		Logger:  logger,
		Metrics: m,
	}, nil
}

// ProcessorConfig builds the card file processor configuration
func (f *Flags) ProcessorConfig(logger *logrus.Logger, m *metrics.Collector) (processor.Config, error) {
	suffix, err := f.Suffix()
	if err != nil {
		return processor.Config{}, err
	}

	return processor.Config{
		Root:      f.Root,
		OutputDir: f.OutputDir,
		Fields:    f.Fields,
		Suffix:    suffix,
		DryRun:    f.DryRun,
		Logger:    logger,
		Metrics:   m,
	}, nil
}

// BatchConfig builds the CSV batch translator configuration
func (f *Flags) BatchConfig(logger *logrus.Logger, m *metrics.Collector) (batch.Config, error) {
	suffix, err := f.Suffix()
	if err != nil {
		return batch.Config{}, err
	}

	return batch.Config{
		BatchSize: f.BatchSize,
		Fields:    f.Fields,
		Suffix:    suffix,
		Logger:    logger,
		Metrics:   m,
	}, nil
}

// BatchOutputPath returns the translate-csv output path, defaulting to
// <input stem>_<suffix>.csv next to the input
func (f *Flags) BatchOutputPath() (string, error) {
	if f.BatchOutput != "" {
		return f.BatchOutput, nil
	}
	suffix, err := f.Suffix()
	if err != nil {
		return "", err
	}
	stem := internal.FileStem(f.BatchInput)
	return filepath.Join(filepath.Dir(f.BatchInput), stem+"_"+suffix+".csv"), nil
}
