package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/arkhamtr/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestConvertDir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a_single.json"), `{"code": "01001", "name": "Roland Banks", "text": "[reaction] After you defeat an enemy: Discover 1 clue.", "health": 9}`)
	writeFile(t, filepath.Join(src, "b_list.json"), `[
		{"code": "01020", "name": "Machete", "traits": "Item. Weapon. Melee.", "back_text": null},
		{"code": "01021", "name": "Guard Dog", "flavor": "Good boy."}
	]`)
	writeFile(t, filepath.Join(src, "c_broken.json"), `[{"code": `)
	writeFile(t, filepath.Join(src, "notes.txt"), `ignored`)

	out := filepath.Join(t.TempDir(), "out", "output.csv")
	converter := NewConverter(&ConverterOptions{Logger: logging.Discard()})

	result, err := converter.ConvertDir(src, out)
	require.NoError(t, err)
	assert.Equal(t, ConvertResult{Files: 2, Skipped: 1, Rows: 3}, result)

	table, err := ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, DefaultFields, table.Header)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []string{"01001", "Roland Banks", "", "[reaction] After you defeat an enemy: Discover 1 clue.", "", "", "", ""}, table.Rows[0])
	assert.Equal(t, "Item. Weapon. Melee.", table.Value(table.Rows[1], "traits"))
	assert.Equal(t, "", table.Value(table.Rows[1], "back_text"))
	assert.Equal(t, "Good boy.", table.Value(table.Rows[2], "flavor"))
}

func TestConvertDirCustomFields(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "core.json"), `[{"code": "01001", "name": "Roland Banks", "health": 9}]`)

	out := filepath.Join(t.TempDir(), "cards.csv")
	converter := NewConverter(&ConverterOptions{Fields: []string{"code", "health"}, Logger: logging.Discard()})

	_, err := converter.ConvertDir(src, out)
	require.NoError(t, err)

	table, err := ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"01001", "9"}}, table.Rows)
}

func TestConvertDirMissingSource(t *testing.T) {
	converter := NewConverter(nil)
	_, err := converter.ConvertDir(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out.csv"))
	assert.Error(t, err)
}

func TestConvertDirEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	converter := NewConverter(&ConverterOptions{Logger: logging.Discard()})

	result, err := converter.ConvertDir(t.TempDir(), out)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Rows)

	table, err := ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, DefaultFields, table.Header)
	assert.Empty(t, table.Rows)
}
