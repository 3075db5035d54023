package convert

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Table is a CSV file with a header row
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the column index of name, or -1
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of row in column name, "" when absent
func (t *Table) Value(row []string, name string) string {
	i := t.Index(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ReadCSV reads a CSV file whose first row is the header. A UTF-8 BOM is
// stripped and short rows are padded to the header width.
func ReadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s has no header", filepath.Base(path))
	}

	table := &Table{Header: records[0]}
	for _, rec := range records[1:] {
		for len(rec) < len(table.Header) {
			rec = append(rec, "")
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

// WriteCSV writes the table, creating parent directories
func WriteCSV(path string, table *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return file.Close()
}
