package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/arkhamtr/internal/cards"
)

// DefaultFields are the columns of the flat card export
var DefaultFields = []string{"code", "name", "subname", "text", "traits", "flavor", "back_text", "back_flavor"}

// ConverterOptions configures the JSON to CSV export
type ConverterOptions struct {
	Fields []string
	Logger *logrus.Logger
}

// ConvertResult summarizes an export
type ConvertResult struct {
	Files   int
	Skipped int
	Rows    int
}

// Converter flattens card JSON files into a single CSV
type Converter struct {
	options ConverterOptions
}

// NewConverter creates a converter; nil options use DefaultFields
func NewConverter(options *ConverterOptions) *Converter {
	opts := ConverterOptions{}
	if options != nil {
		opts = *options
	}
	if len(opts.Fields) == 0 {
		opts.Fields = DefaultFields
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Converter{options: opts}
}

// ConvertDir reads every *.json file in srcDir (a single card object or a
// list of cards) and writes one CSV row per card to outFile. Files that fail
// to parse are logged and skipped; missing fields become empty cells.
func (c *Converter) ConvertDir(srcDir, outFile string) (ConvertResult, error) {
	var result ConvertResult

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return result, fmt.Errorf("failed to read source directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			files = append(files, filepath.Join(srcDir, e.Name()))
		}
	}
	sort.Strings(files)

	table := &Table{Header: append([]string(nil), c.options.Fields...)}

	for _, file := range files {
		records, err := cards.ReadFile(file)
		if err != nil {
			c.options.Logger.WithField("file", filepath.Base(file)).WithError(err).Warn("Skipping unreadable card file")
			result.Skipped++
			continue
		}
		result.Files++

		for _, rec := range records {
			row := make([]string, len(c.options.Fields))
			for i, field := range c.options.Fields {
				row[i] = rec.Text(field)
			}
			table.Rows = append(table.Rows, row)
		}
	}

	if err := WriteCSV(outFile, table); err != nil {
		return result, err
	}
	result.Rows = len(table.Rows)

	c.options.Logger.WithFields(logrus.Fields{
		"files":   result.Files,
		"skipped": result.Skipped,
		"rows":    result.Rows,
		"output":  outFile,
	}).Info("Converted card files to CSV")

	return result, nil
}
