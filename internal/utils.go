package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Fingerprint returns the hex SHA-1 of the parts joined with ':'.
// Format: sha1("model:field:text")
func Fingerprint(parts ...string) string {
	hash := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(hash[:])
}

// FileStem returns the base name of path without its extension
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty items
func SplitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
