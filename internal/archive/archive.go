// Package archive moves a previous output directory out of the way before a
// new run writes into it.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveDir moves dir to <parent>/archive/<name>-<timestamp> and returns the
// new path. A missing dir has nothing to archive and returns "".
func ArchiveDir(dir string, now time.Time) (string, error) {
	// Check if the directory exists
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	dir = filepath.Clean(dir)
	archiveDir := filepath.Join(filepath.Dir(dir), "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := filepath.Base(dir)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, now.Format("20060102-150405")))

	// Two runs within the same second
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, now.Format("20060102-150405.000000")))
	}

	if err := os.Rename(dir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", dir, err)
	}
	return archivePath, nil
}
