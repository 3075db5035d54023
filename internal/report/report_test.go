package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/arkhamtr/internal/batch"
	"codeberg.org/snonux/arkhamtr/internal/cache"
	"codeberg.org/snonux/arkhamtr/internal/convert"
	"codeberg.org/snonux/arkhamtr/internal/processor"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "Files processed: 3"},
		{"pt-BR", "Arquivos processados: 3"},
		{"de", "Files processed: 3"},
		{"", "Files processed: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			r := New(&bytes.Buffer{}, tt.lang)
			assert.Equal(t, tt.want, r.T("RunFiles", map[string]any{"Count": 3}))
		})
	}
}

func TestTranslateUnknownID(t *testing.T) {
	r := New(&bytes.Buffer{}, "en")
	assert.Equal(t, "NoSuchMessage", r.T("NoSuchMessage", nil))
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, "en")

	r.Run(processor.RunResult{
		Files: []processor.FileResult{
			{File: "/cards/core.json"},
			{File: "/cards/dwl.json", Err: errors.New("quota exceeded")},
		},
		Translated: 10,
		CacheHits:  4,
		Calls:      6,
		Failed:     1,
	}, "out", false)

	out := buf.String()
	assert.Contains(t, out, "Fields translated: 10 (4 from cache, 6 API calls)")
	assert.Contains(t, out, "Files failed: 1")
	assert.Contains(t, out, "dwl.json: quota exceeded")
	assert.Contains(t, out, "Translated JSON written to: out")
	assert.Contains(t, out, "arkhamtr cache import")
}

func TestRunDryRun(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "pt-BR").Run(processor.RunResult{}, "out", true)

	assert.Contains(t, buf.String(), "Simulação")
	assert.NotContains(t, buf.String(), "JSON traduzido gravado")
}

func TestConvertAndBatch(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, "en")

	r.Convert(convert.ConvertResult{Files: 2, Rows: 7, Skipped: 1}, "cards.csv")
	r.Batch(batch.Result{Output: "cards_pt.csv", Rows: 7, Translated: 12, CacheHits: 2, Batches: 1, Fallbacks: 3})

	out := buf.String()
	assert.Contains(t, out, "Converted 2 file(s) into 7 row(s), 1 skipped")
	assert.Contains(t, out, "CSV written to: cards.csv")
	assert.Contains(t, out, "1 batch request(s), 3 fallback(s)")
	assert.Contains(t, out, "Translated CSV written to: cards_pt.csv")
}

func TestCacheStats(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, "en")

	r.CacheStats(cache.Stats{Backend: "sqlite", Entries: 5, ByModel: map[string]int{"gpt-4.1": 3, "gemma3": 2}})
	r.Imported(4, "audit.csv")

	out := buf.String()
	assert.Contains(t, out, "Cache (sqlite): 5 entries")
	assert.Contains(t, out, "  gemma3: 2\n  gpt-4.1: 3\n")
	assert.Contains(t, out, "Imported 4 translation(s) from audit.csv")
}
