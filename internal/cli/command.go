package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/arkhamtr/internal"
)

// Commands holds the command tree. The root command runs the card file
// translation; main wires a RunE to each leaf.
type Commands struct {
	Root         *cobra.Command
	Convert      *cobra.Command
	TranslateCSV *cobra.Command
	Cache        *cobra.Command
	CacheStats   *cobra.Command
	CacheImport  *cobra.Command
	Models       *cobra.Command
}

// CreateCommands creates and configures the cobra command tree
func CreateCommands(flags *Flags) *Commands {
	cmds := &Commands{
		Root: &cobra.Command{
			Use:   "arkhamtr",
			Short: "Card game JSON to Brazilian Portuguese translator",
			Long: `arkhamtr translates the text fields of card game JSON files with an LLM.

Translations are cached in SQLite (or PostgreSQL), normalized with a
glossary of game terms and written next to a review CSV per input file.

Examples:
  arkhamtr --root ./arkhamdb-json-data                # Translate every pack
  arkhamtr --root ./data --packs core,dwl --dry-run   # Two packs, review CSV only
  arkhamtr convert --source ./data/pack --output cards.csv
  arkhamtr translate-csv --input cards.csv --output cards_pt.csv
  arkhamtr cache import out/csv/core_pt.csv           # Store reviewed corrections`,
			Args:          cobra.NoArgs,
			Version:       internal.Version,
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		Convert: &cobra.Command{
			Use:   "convert",
			Short: "Flatten card JSON files into one CSV",
			Args:  cobra.NoArgs,
		},
		TranslateCSV: &cobra.Command{
			Use:   "translate-csv",
			Short: "Translate a converted CSV file in batches",
			Args:  cobra.NoArgs,
		},
		Cache: &cobra.Command{
			Use:   "cache",
			Short: "Inspect and edit the translation cache",
		},
		CacheStats: &cobra.Command{
			Use:   "stats",
			Short: "Show cache entry counts per model",
			Args:  cobra.NoArgs,
		},
		CacheImport: &cobra.Command{
			Use:   "import <audit.csv>...",
			Short: "Store reviewed translations from audit CSV files",
			Args:  cobra.MinimumNArgs(1),
		},
		Models: &cobra.Command{
			Use:   "models",
			Short: "List chat models available for the OpenAI API key",
			Args:  cobra.NoArgs,
		},
	}

	setupFlags(cmds, flags)

	cmds.Cache.AddCommand(cmds.CacheStats, cmds.CacheImport)
	cmds.Root.AddCommand(cmds.Convert, cmds.TranslateCSV, cmds.Cache, cmds.Models)

	return cmds
}

func setupFlags(cmds *Commands, flags *Flags) {
	// Global flags
	pf := cmds.Root.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.arkhamtr.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	pf.StringVar(&flags.Lang, "lang", flags.Lang, "Report language: en or pt-BR")

	// Translation flags
	pf.StringVar(&flags.Provider, "provider", flags.Provider, "Translation backend: openai, gemini or ollama")
	pf.StringVarP(&flags.Model, "model", "m", flags.Model, "Model name, also the cache namespace")
	pf.StringVar(&flags.BaseURL, "base-url", "", "Override the backend endpoint (OpenAI-compatible server, remote Ollama)")
	pf.StringVar(&flags.Target, "target", flags.Target, "Target language tag")
	pf.Float64Var(&flags.Rate, "rate", flags.Rate, "Maximum backend requests per minute (0 disables pacing)")
	pf.IntVar(&flags.MaxRetries, "max-retries", flags.MaxRetries, "Attempts per request before giving up")
	pf.DurationVar(&flags.RetryDelay, "retry-delay", flags.RetryDelay, "Delay before the first retry, doubled on each further retry")
	pf.StringSliceVar(&flags.Fields, "fields", flags.Fields, "Card fields to translate")
	pf.StringVar(&flags.CacheDSN, "cache", flags.CacheDSN, "SQLite cache file or postgres:// DSN")
	pf.StringVar(&flags.GlossaryPath, "glossary", flags.GlossaryPath, "Glossary file or directory (JSON or TOML)")
	pf.StringVar(&flags.GlossaryMode, "glossary-mode", flags.GlossaryMode, "Glossary handling: prompt or mask")
	pf.StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	// translate flags
	cmds.Root.Flags().StringVar(&flags.Root, "root", "", "Card data repository root (cards are read from <root>/source)")
	cmds.Root.Flags().StringSliceVar(&flags.Packs, "packs", nil, "Only translate files whose name contains one of these")
	cmds.Root.Flags().StringVarP(&flags.OutputDir, "out", "o", flags.OutputDir, "Output directory")
	cmds.Root.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Write review CSVs only, no translated JSON")
	cmds.Root.Flags().BoolVar(&flags.Archive, "archive", false, "Move the previous output directory to <parent>/archive first")

	// convert flags
	cmds.Convert.Flags().StringVar(&flags.ConvertSource, "source", "", "Directory of card JSON files")
	cmds.Convert.Flags().StringVar(&flags.ConvertOutput, "output", flags.ConvertOutput, "Output CSV file")
	cmds.Convert.Flags().StringSliceVar(&flags.ConvertColumns, "columns", nil, "CSV columns (default code,name,subname,text,traits,flavor,back_text,back_flavor)")
	_ = cmds.Convert.MarkFlagRequired("source")

	// translate-csv flags
	cmds.TranslateCSV.Flags().StringVar(&flags.BatchInput, "input", "", "Input CSV from the convert command")
	cmds.TranslateCSV.Flags().StringVar(&flags.BatchOutput, "output", "", "Output CSV (default <input>_<suffix>.csv)")
	cmds.TranslateCSV.Flags().IntVar(&flags.BatchSize, "batch-size", flags.BatchSize, "Rows per batch request")
	_ = cmds.TranslateCSV.MarkFlagRequired("input")

	// Bind flags to viper
	bindFlagsToViper(cmds)
}

func bindFlagsToViper(cmds *Commands) {
	pf := cmds.Root.PersistentFlags()
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("report.lang", pf.Lookup("lang"))
	viper.BindPFlag("translation.provider", pf.Lookup("provider"))
	viper.BindPFlag("translation.model", pf.Lookup("model"))
	viper.BindPFlag("translation.base_url", pf.Lookup("base-url"))
	viper.BindPFlag("translation.target", pf.Lookup("target"))
	viper.BindPFlag("translation.rate", pf.Lookup("rate"))
	viper.BindPFlag("translation.max_retries", pf.Lookup("max-retries"))
	viper.BindPFlag("translation.retry_delay", pf.Lookup("retry-delay"))
	viper.BindPFlag("translation.fields", pf.Lookup("fields"))
	viper.BindPFlag("cache.dsn", pf.Lookup("cache"))
	viper.BindPFlag("glossary.path", pf.Lookup("glossary"))
	viper.BindPFlag("glossary.mode", pf.Lookup("glossary-mode"))
	viper.BindPFlag("metrics.file", pf.Lookup("metrics-file"))

	viper.BindPFlag("input.root", cmds.Root.Flags().Lookup("root"))
	viper.BindPFlag("input.packs", cmds.Root.Flags().Lookup("packs"))
	viper.BindPFlag("output.directory", cmds.Root.Flags().Lookup("out"))
	viper.BindPFlag("batch.size", cmds.TranslateCSV.Flags().Lookup("batch-size"))
}
