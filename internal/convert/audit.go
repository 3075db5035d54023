package convert

import (
	"fmt"
	"path/filepath"

	"codeberg.org/snonux/arkhamtr/internal"
)

// AuditHeader is the header of the per-pack audit CSV
var AuditHeader = []string{"code", "field", "en", "pt", "pack_file"}

// AuditRow records one translated field for human review
type AuditRow struct {
	Code   string
	Field  string
	Source string
	Target string
	File   string
}

// AuditPath returns <outDir>/csv/<stem>_<suffix>.csv for an input card file
func AuditPath(outDir, inputFile, suffix string) string {
	return filepath.Join(outDir, "csv", fmt.Sprintf("%s_%s.csv", internal.FileStem(inputFile), suffix))
}

// WriteAudit writes audit rows with the AuditHeader
func WriteAudit(path string, rows []AuditRow) error {
	table := &Table{Header: AuditHeader}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{r.Code, r.Field, r.Source, r.Target, r.File})
	}
	return WriteCSV(path, table)
}

// ReadAudit reads an audit CSV, typically after manual review
func ReadAudit(path string) ([]AuditRow, error) {
	table, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{"field", "en", "pt"} {
		if table.Index(col) < 0 {
			return nil, fmt.Errorf("audit CSV %s is missing column %q", filepath.Base(path), col)
		}
	}

	rows := make([]AuditRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		rows = append(rows, AuditRow{
			Code:   table.Value(row, "code"),
			Field:  table.Value(row, "field"),
			Source: table.Value(row, "en"),
			Target: table.Value(row, "pt"),
			File:   table.Value(row, "pack_file"),
		})
	}
	return rows, nil
}
