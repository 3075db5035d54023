package convert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "csv", "core_pt.csv"), AuditPath("out", "/data/source/core.json", "pt"))
}

func TestWriteReadAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv", "core_pt.csv")
	rows := []AuditRow{
		{Code: "01001", Field: "name", Source: "Roland Banks", Target: "Roland Banks", File: "core.json"},
		{Code: "01020", Field: "text", Source: "Gain 1 resource.", Target: "Ganhe 1 recurso.", File: "core.json"},
	}

	require.NoError(t, WriteAudit(path, rows))

	table, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, AuditHeader, table.Header)

	back, err := ReadAudit(path)
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestReadAuditMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	writeFile(t, path, "code,name\n01001,Roland\n")

	_, err := ReadAudit(path)
	assert.Error(t, err)
}
