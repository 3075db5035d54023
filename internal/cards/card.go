// Package cards reads and writes ArkhamDB-style card JSON files.
package cards

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TranslatableFields are the card fields translated by default
var TranslatableFields = []string{"name", "subname", "text", "flavor", "traits"}

// ErrNotList is returned when a card file's top level is not a JSON array
var ErrNotList = errors.New("top-level JSON value is not a list")

// Record is one card. Numbers are kept as json.Number so they round-trip unchanged.
type Record map[string]any

// Code returns the card code, or "" if absent
func (r Record) Code() string {
	return r.Text("code")
}

// String returns field as a string if it is present and a JSON string
func (r Record) String(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

// Text renders field as text: strings as-is, other scalars in JSON
// notation, and absent or null fields as "".
func (r Record) Text(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func decode(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: trailing data after JSON value", filepath.Base(path))
	}
	return v, nil
}

// ReadList reads a card file whose top level must be an array of objects.
// Non-object array elements are dropped.
func ReadList(path string) ([]Record, error) {
	v, err := decode(path)
	if err != nil {
		return nil, err
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotList)
	}
	return toRecords(list), nil
}

// ReadFile reads a card file holding a single object or an array of objects
func ReadFile(path string) ([]Record, error) {
	v, err := decode(path)
	if err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case map[string]any:
		return []Record{Record(val)}, nil
	case []any:
		return toRecords(val), nil
	default:
		return nil, fmt.Errorf("%s: unsupported top-level JSON value", filepath.Base(path))
	}
}

func toRecords(list []any) []Record {
	records := make([]Record, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, Record(obj))
		}
	}
	return records
}

// WriteJSON writes records as an indented JSON array, creating parent directories
func WriteJSON(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cards file: %w", err)
	}
	return nil
}

// FindFiles returns the sorted *.json files under root/source (or root when
// there is no source directory). With packs set, only file names containing
// one of the pack substrings are kept.
func FindFiles(root string, packs []string) ([]string, error) {
	dir := filepath.Join(root, "source")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = root
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read card directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		if len(packs) > 0 && !matchesPack(e.Name(), packs) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

func matchesPack(name string, packs []string) bool {
	for _, p := range packs {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
