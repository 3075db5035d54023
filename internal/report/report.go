package report

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"codeberg.org/snonux/arkhamtr/internal/batch"
	"codeberg.org/snonux/arkhamtr/internal/cache"
	"codeberg.org/snonux/arkhamtr/internal/convert"
	"codeberg.org/snonux/arkhamtr/internal/processor"
)

//go:embed active.*.toml
var localeFS embed.FS

var (
	bold   = color.New(color.Bold, color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.Bold, color.FgRed).SprintFunc()
)

// Reporter writes localized summaries
type Reporter struct {
	out       io.Writer
	localizer *i18n.Localizer
}

// New creates a reporter writing to out in lang, falling back to English
func New(out io.Writer, lang string) *Reporter {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.pt-BR.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			panic(fmt.Sprintf("report: failed to load %s: %v", file, err))
		}
	}

	return &Reporter{
		out:       out,
		localizer: i18n.NewLocalizer(bundle, lang, language.English.String()),
	}
}

// T renders the message identified by id, or the id itself when unknown
func (r *Reporter) T(id string, data map[string]any) string {
	msg, err := r.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

func (r *Reporter) println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Run prints the summary of a card translation run
func (r *Reporter) Run(result processor.RunResult, outDir string, dryRun bool) {
	r.println()
	r.println(bold(r.T("RunHeader", nil)))
	r.println(r.T("RunFiles", map[string]any{"Count": len(result.Files)}))
	r.println(green(r.T("RunTranslated", map[string]any{
		"Translated": result.Translated,
		"CacheHits":  result.CacheHits,
		"Calls":      result.Calls,
	})))
	r.println(r.T("RunSkipped", map[string]any{"Skipped": result.Skipped}))

	if result.Ignored > 0 {
		r.println(yellow(r.T("RunIgnored", map[string]any{"Count": result.Ignored})))
	}
	if result.Failed > 0 {
		r.println(red(r.T("RunFailed", map[string]any{"Count": result.Failed})))
		for _, fr := range result.Files {
			if fr.Err == nil {
				continue
			}
			r.println(red(r.T("RunFileFailed", map[string]any{
				"File":  filepath.Base(fr.File),
				"Error": fr.Err.Error(),
			})))
		}
	}

	r.println()
	if dryRun {
		r.println(yellow(r.T("RunDryRun", nil)))
	} else {
		r.println(r.T("RunOutput", map[string]any{"Dir": outDir}))
	}
	r.println(r.T("RunAudit", map[string]any{"Dir": filepath.Join(outDir, "csv")}))
	r.println(r.T("RunReview", nil))
}

// Convert prints the summary of a JSON to CSV conversion
func (r *Reporter) Convert(result convert.ConvertResult, outFile string) {
	r.println(green(r.T("ConvertSummary", map[string]any{
		"Files":   result.Files,
		"Rows":    result.Rows,
		"Skipped": result.Skipped,
	})))
	r.println(r.T("ConvertOutput", map[string]any{"File": outFile}))
}

// Batch prints the summary of a CSV batch translation
func (r *Reporter) Batch(result batch.Result) {
	r.println(green(r.T("BatchSummary", map[string]any{
		"Translated": result.Translated,
		"Rows":       result.Rows,
		"CacheHits":  result.CacheHits,
		"Batches":    result.Batches,
		"Fallbacks":  result.Fallbacks,
	})))
	r.println(r.T("BatchOutput", map[string]any{"File": result.Output}))
}

// CacheStats prints entry counts per model
func (r *Reporter) CacheStats(stats cache.Stats) {
	r.println(bold(r.T("CacheHeader", map[string]any{
		"Backend": stats.Backend,
		"Entries": stats.Entries,
	})))

	models := make([]string, 0, len(stats.ByModel))
	for model := range stats.ByModel {
		models = append(models, model)
	}
	sort.Strings(models)

	for _, model := range models {
		r.println(r.T("CacheModel", map[string]any{
			"Model":   model,
			"Entries": stats.ByModel[model],
		}))
	}
}

// Imported prints the number of translations imported from file
func (r *Reporter) Imported(count int, file string) {
	r.println(green(r.T("CacheImported", map[string]any{"Count": count, "File": file})))
}
