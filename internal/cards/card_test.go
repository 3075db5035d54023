package cards

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "core.json", `[
		{"code": "01001", "name": "Roland Banks", "health": 9, "cost": null},
		"stray string",
		{"code": "01002", "name": "Daisy Walker"}
	]`)

	records, err := ReadList(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "01001", records[0].Code())
	assert.Equal(t, json.Number("9"), records[0]["health"])
	assert.Equal(t, "9", records[0].Text("health"))
	assert.Equal(t, "", records[0].Text("cost"))
	assert.Equal(t, "", records[0].Text("missing"))
}

func TestReadListRejectsObject(t *testing.T) {
	path := writeFile(t, t.TempDir(), "single.json", `{"code": "01001"}`)

	_, err := ReadList(path)
	assert.True(t, errors.Is(err, ErrNotList))
}

func TestReadListMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `[{"code": `},
		{"trailing garbage", `[{"code":"01001","text":"Gain 1 resource."}] }garbage`},
		{"second value", `[] []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "broken.json", tt.content)

			records, err := ReadList(path)
			assert.Error(t, err)
			assert.Nil(t, records)
			assert.False(t, errors.Is(err, ErrNotList))
		})
	}
}

func TestReadListAllowsTrailingWhitespace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "core.json", "[{\"code\": \"01001\"}]\n\n")

	records, err := ReadList(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReadFileObjectOrList(t *testing.T) {
	dir := t.TempDir()

	records, err := ReadFile(writeFile(t, dir, "one.json", `{"code": "01001", "name": "Roland Banks"}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Roland Banks", records[0].Text("name"))

	records, err = ReadFile(writeFile(t, dir, "many.json", "\xef\xbb\xbf"+`[{"code": "a"}, {"code": "b"}]`))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = ReadFile(writeFile(t, dir, "scalar.json", `42`))
	assert.Error(t, err)
}

func TestRecordString(t *testing.T) {
	r := Record{"name": "Flashlight", "cost": json.Number("2"), "traits": nil, "is_unique": true}

	s, ok := r.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Flashlight", s)

	_, ok = r.String("cost")
	assert.False(t, ok)
	_, ok = r.String("traits")
	assert.False(t, ok)
	assert.Equal(t, "true", r.Text("is_unique"))
}

func TestCloneIsIndependent(t *testing.T) {
	r := Record{"code": "01001"}
	c := r.Clone()
	c["name_pt"] = "x"

	_, ok := r["name_pt"]
	assert.False(t, ok)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "core.json")
	records := []Record{{"code": "01001", "name_pt": "Lanterna <b>Elétrica</b>", "cost": json.Number("2")}}

	require.NoError(t, WriteJSON(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "Lanterna <b>Elétrica</b>"), "non-ASCII and HTML must be written verbatim")
	assert.True(t, strings.Contains(string(data), `"cost": 2`))

	back, err := ReadList(path)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/tcu.json", "[]")
	writeFile(t, root, "source/core.json", "[]")
	writeFile(t, root, "source/dwl.json", "[]")
	writeFile(t, root, "source/readme.md", "")
	writeFile(t, root, "top.json", "[]")

	files, err := FindFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "source", "core.json"),
		filepath.Join(root, "source", "dwl.json"),
		filepath.Join(root, "source", "tcu.json"),
	}, files)

	files, err = FindFiles(root, []string{"dw", "tc"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "source", "dwl.json"),
		filepath.Join(root, "source", "tcu.json"),
	}, files)
}

func TestFindFilesWithoutSourceDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.json", "[]")

	files, err := FindFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "core.json")}, files)

	_, err = FindFiles(filepath.Join(root, "missing"), nil)
	assert.Error(t, err)
}
