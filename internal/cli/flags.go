package cli

import (
	"time"

	"codeberg.org/snonux/arkhamtr/internal/batch"
	"codeberg.org/snonux/arkhamtr/internal/cards"
	"codeberg.org/snonux/arkhamtr/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	LogLevel  string
	LogFormat string
	Lang      string

	// Translation flags, shared by translate and translate-csv
	Provider     string
	Model        string
	BaseURL      string
	Target       string
	Rate         float64
	MaxRetries   int
	RetryDelay   time.Duration
	Fields       []string
	CacheDSN     string
	GlossaryPath string
	GlossaryMode string
	MetricsFile  string

	// translate flags
	Root      string
	Packs     []string
	OutputDir string
	DryRun    bool
	Archive   bool

	// convert flags
	ConvertSource  string
	ConvertOutput  string
	ConvertColumns []string

	// translate-csv flags
	BatchInput  string
	BatchOutput string
	BatchSize   int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:      "info",
		LogFormat:     "text",
		Lang:          "en",
		Provider:      string(translation.ProviderOpenAI),
		Model:         translation.DefaultModel,
		Target:        "pt-BR",
		Rate:          30,
		MaxRetries:    translation.DefaultMaxRetries,
		RetryDelay:    translation.DefaultBaseDelay,
		Fields:        append([]string(nil), cards.TranslatableFields...),
		CacheDSN:      ".cache.sqlite",
		GlossaryPath:  "glossary.json",
		GlossaryMode:  "prompt",
		OutputDir:     "out",
		ConvertOutput: "out/output.csv",
		BatchSize:     batch.DefaultBatchSize,
	}
}
