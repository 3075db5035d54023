package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/arkhamtr/internal/cards"
	"codeberg.org/snonux/arkhamtr/internal/convert"
	"codeberg.org/snonux/arkhamtr/internal/metrics"
)

var (
	// ErrNoInputFiles is returned when no card file matches the input selection
	ErrNoInputFiles = errors.New("no input files found")
	// ErrUnreadableFile marks card files that could not be parsed as a card list
	ErrUnreadableFile = errors.New("unreadable card file")
)

// Config configures a Processor
type Config struct {
	// Root is the input root; audit rows name files relative to it
	Root      string
	OutputDir string
	// Fields lists the translatable fields; defaults to cards.TranslatableFields
	Fields []string
	// Suffix is appended to translated field names, e.g. "pt" gives "text_pt"
	Suffix  string
	DryRun  bool
	Logger  *logrus.Logger
	Metrics *metrics.Collector
}

// FileResult summarizes one processed card file
type FileResult struct {
	File       string
	Records    int
	Translated int
	CacheHits  int
	Calls      int
	Skipped    int
	JSONPath   string
	AuditPath  string
	Err        error
}

// RunResult summarizes a whole run
type RunResult struct {
	Files      []FileResult
	Translated int
	CacheHits  int
	Calls      int
	Skipped    int
	Ignored    int
	Failed     int
}

// Err reports whether any file failed to translate
func (r RunResult) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d file(s) failed to translate", r.Failed)
}

// Processor translates card files
type Processor struct {
	resolver *Resolver
	config   Config
}

// NewProcessor creates a processor around a resolver
func NewProcessor(resolver *Resolver, config Config) *Processor {
	if len(config.Fields) == 0 {
		config.Fields = cards.TranslatableFields
	}
	if config.Suffix == "" {
		config.Suffix = "pt"
	}
	if config.OutputDir == "" {
		config.OutputDir = "out"
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &Processor{resolver: resolver, config: config}
}

// FindInputs returns the card files to translate under root
func FindInputs(root string, packs []string) ([]string, error) {
	files, err := cards.FindFiles(root, packs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		filter := "all"
		if len(packs) > 0 {
			filter = strings.Join(packs, ",")
		}
		return nil, fmt.Errorf("%w in %s (filter=%s)", ErrNoInputFiles, root, filter)
	}
	return files, nil
}

// Run processes files one at a time. Unreadable files are skipped, a file
// whose translation fails is abandoned without output and the run moves on.
// Totals count successful files only. Only context cancellation stops the
// run early.
func (p *Processor) Run(ctx context.Context, files []string) (RunResult, error) {
	var result RunResult
	if len(files) == 0 {
		return result, ErrNoInputFiles
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := p.config.Logger.WithFields(logrus.Fields{
			"file":     filepath.Base(file),
			"progress": fmt.Sprintf("%d/%d", i+1, len(files)),
		})
		log.Info("Processing card file")

		fr, err := p.ProcessFile(ctx, file)
		switch {
		case err == nil:
			p.config.Metrics.FileDone("ok")
			log.WithFields(logrus.Fields{
				"translated": fr.Translated,
				"cache_hits": fr.CacheHits,
				"skipped":    fr.Skipped,
			}).Info("Finished card file")
			result.Translated += fr.Translated
			result.CacheHits += fr.CacheHits
			result.Calls += fr.Calls
			result.Skipped += fr.Skipped
		case errors.Is(err, ErrUnreadableFile):
			p.config.Metrics.FileDone("skipped")
			log.WithError(err).Warn("Skipping card file")
			result.Ignored++
		case ctx.Err() != nil:
			result.Files = append(result.Files, fr)
			return result, err
		default:
			p.config.Metrics.FileDone("failed")
			log.WithError(err).Error("Translation failed, abandoning card file")
			result.Failed++
		}

		result.Files = append(result.Files, fr)
	}

	return result, nil
}

// ProcessFile translates every configured field of every card in path and
// writes <out>/<name>.json (unless dry-run) and <out>/csv/<stem>_<suffix>.csv.
func (p *Processor) ProcessFile(ctx context.Context, path string) (FileResult, error) {
	result := FileResult{File: path}

	records, err := cards.ReadList(path)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		return result, result.Err
	}
	result.Records = len(records)

	p.resolver.Pacer().Reset()

	base := filepath.Base(path)
	packFile := p.packFile(path)
	out := make([]cards.Record, 0, len(records))
	var audit []convert.AuditRow

	for _, rec := range records {
		translated := rec.Clone()

		for _, field := range p.config.Fields {
			source, ok := rec.String(field)
			if !ok || strings.TrimSpace(source) == "" {
				result.Skipped++
				p.config.Metrics.FieldOutcome(field, "skipped")
				continue
			}

			target, hit, err := p.resolver.Resolve(ctx, field, source)
			if err != nil {
				result.Err = fmt.Errorf("card %s field %s: %w", rec.Code(), field, err)
				return result, result.Err
			}

			if hit {
				result.CacheHits++
				p.config.Metrics.FieldOutcome(field, "cached")
			} else {
				result.Calls++
				p.config.Metrics.FieldOutcome(field, "translated")
			}
			result.Translated++

			translated[field+"_"+p.config.Suffix] = target
			audit = append(audit, convert.AuditRow{
				Code:   rec.Code(),
				Field:  field,
				Source: source,
				Target: target,
				File:   packFile,
			})
		}

		out = append(out, translated)
	}

	if !p.config.DryRun {
		result.JSONPath = filepath.Join(p.config.OutputDir, base)
		if err := cards.WriteJSON(result.JSONPath, out); err != nil {
			result.Err = err
			return result, err
		}
	}

	result.AuditPath = convert.AuditPath(p.config.OutputDir, path, p.config.Suffix)
	if err := convert.WriteAudit(result.AuditPath, audit); err != nil {
		result.Err = err
		return result, err
	}

	return result, nil
}

// packFile names path in audit rows: relative to Root when path lies under
// it, otherwise as given.
func (p *Processor) packFile(path string) string {
	if p.config.Root == "" {
		return path
	}
	rel, err := filepath.Rel(p.config.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
