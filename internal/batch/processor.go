package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/arkhamtr/internal/cards"
	"codeberg.org/snonux/arkhamtr/internal/convert"
	"codeberg.org/snonux/arkhamtr/internal/glossary"
	"codeberg.org/snonux/arkhamtr/internal/metrics"
	"codeberg.org/snonux/arkhamtr/internal/processor"
	"codeberg.org/snonux/arkhamtr/internal/translation"
)

// DefaultBatchSize is the number of CSV rows sent per batch request
const DefaultBatchSize = 20

// Translator sends a batch of items in one request and returns the raw reply
type Translator interface {
	TranslateBatch(ctx context.Context, items []translation.BatchItem, g *glossary.Glossary) (string, error)
}

// Config configures a batch Processor
type Config struct {
	BatchSize int
	// Fields lists the columns to translate; defaults to cards.TranslatableFields
	Fields []string
	// Suffix names the added columns, e.g. "pt" gives "text_pt"
	Suffix  string
	Logger  *logrus.Logger
	Metrics *metrics.Collector
}

// Result summarizes a translated CSV file
type Result struct {
	Input      string
	Output     string
	Rows       int
	Batches    int
	Translated int
	CacheHits  int
	Skipped    int
	Fallbacks  int
}

// Processor translates converter CSV files in batches
type Processor struct {
	resolver   *processor.Resolver
	translator Translator
	config     Config
}

// pendingItem is a field awaiting a batch translation
type pendingItem struct {
	row     int
	column  int
	field   string
	source  string
	restore func(string) string
}

// NewProcessor creates a batch processor. Fallback requests go through the
// resolver's single-text translator.
func NewProcessor(resolver *processor.Resolver, translator Translator, config Config) *Processor {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if len(config.Fields) == 0 {
		config.Fields = cards.TranslatableFields
	}
	if config.Suffix == "" {
		config.Suffix = "pt"
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &Processor{
		resolver:   resolver,
		translator: translator,
		config:     config,
	}
}

// TranslateFile reads inPath, translates its fields and writes outPath with
// one "<field>_<suffix>" column added per translated field. The output has
// exactly one row per input row.
func (p *Processor) TranslateFile(ctx context.Context, inPath, outPath string) (Result, error) {
	result := Result{Input: inPath, Output: outPath}

	table, err := convert.ReadCSV(inPath)
	if err != nil {
		return result, err
	}
	result.Rows = len(table.Rows)

	out, columns := p.outputTable(table)

	for start := 0; start < len(table.Rows); start += p.config.BatchSize {
		end := min(start+p.config.BatchSize, len(table.Rows))

		p.config.Logger.WithFields(logrus.Fields{
			"file": inPath,
			"rows": fmt.Sprintf("%d-%d", start+1, end),
		}).Debug("Processing batch")

		if err := p.processBatch(ctx, table, out, columns, start, end, &result); err != nil {
			return result, err
		}
	}

	if err := convert.WriteCSV(outPath, out); err != nil {
		return result, err
	}

	p.config.Logger.WithFields(logrus.Fields{
		"file":       outPath,
		"rows":       result.Rows,
		"translated": result.Translated,
		"cached":     result.CacheHits,
		"fallbacks":  result.Fallbacks,
	}).Info("Translated CSV")

	return result, nil
}

// outputTable copies the input table and adds a translation column per
// field. The returned map gives each field's output column index.
func (p *Processor) outputTable(table *convert.Table) (*convert.Table, map[string]int) {
	out := &convert.Table{Header: append([]string(nil), table.Header...)}
	columns := make(map[string]int, len(p.config.Fields))

	for _, field := range p.config.Fields {
		if table.Index(field) < 0 {
			continue
		}
		name := field + "_" + p.config.Suffix
		if i := out.Index(name); i >= 0 {
			columns[field] = i
			continue
		}
		columns[field] = len(out.Header)
		out.Header = append(out.Header, name)
	}

	for _, row := range table.Rows {
		copied := make([]string, len(out.Header))
		copy(copied, row)
		out.Rows = append(out.Rows, copied)
	}
	return out, columns
}

func (p *Processor) processBatch(ctx context.Context, table, out *convert.Table, columns map[string]int, start, end int, result *Result) error {
	pending := make(map[string]pendingItem)
	var items []translation.BatchItem

	for r := start; r < end; r++ {
		row := table.Rows[r]
		for _, field := range p.config.Fields {
			column, ok := columns[field]
			if !ok {
				continue
			}

			source := table.Value(row, field)
			if strings.TrimSpace(source) == "" {
				result.Skipped++
				p.config.Metrics.FieldOutcome(field, "skipped")
				continue
			}

			target, hit, err := p.resolver.Lookup(ctx, field, source)
			if err != nil {
				return fmt.Errorf("failed to read cache: %w", err)
			}
			if hit {
				out.Rows[r][column] = target
				result.CacheHits++
				result.Translated++
				p.config.Metrics.FieldOutcome(field, "cached")
				continue
			}

			masked, restore := p.resolver.Prepare(source)
			id := fmt.Sprintf("%d:%s", r+1, field)
			pending[id] = pendingItem{row: r, column: column, field: field, source: source, restore: restore}
			items = append(items, translation.BatchItem{ID: id, Text: masked})
		}
	}

	if len(items) == 0 {
		return nil
	}

	translations, err := p.requestBatch(ctx, items)
	if err != nil {
		return err
	}
	result.Batches++

	for _, item := range items {
		pi := pending[item.ID]

		var final string
		if text, ok := translations[item.ID]; ok {
			final, err = p.resolver.Commit(ctx, pi.field, pi.source, pi.restore(text))
		} else {
			result.Fallbacks++
			final, err = p.resolver.Translate(ctx, pi.field, pi.source)
		}
		if err != nil {
			return fmt.Errorf("failed to translate row %d field %s: %w", pi.row+1, pi.field, err)
		}

		out.Rows[pi.row][pi.column] = final
		result.Translated++
		p.config.Metrics.FieldOutcome(pi.field, "translated")
	}
	return nil
}

// requestBatch sends items in one request. A failed or malformed reply is
// logged and yields the usable subset, leaving the rest to fallback.
func (p *Processor) requestBatch(ctx context.Context, items []translation.BatchItem) (map[string]string, error) {
	if err := p.resolver.Pacer().Wait(ctx); err != nil {
		return nil, err
	}

	raw, err := p.translator.TranslateBatch(ctx, items, p.resolver.Glossary())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		p.config.Logger.WithError(err).Warn("Batch request failed, falling back to single requests")
		return nil, nil
	}

	translations, err := decodeResponse(raw, items)
	if err != nil {
		p.config.Logger.WithError(err).WithField("items", len(items)).Warn("Batch response rejected in part")
	}
	return translations, nil
}
