package glossary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Load reads a glossary from a JSON or TOML file, or from every such file in
// a directory (sorted by name, later files override earlier ones). A missing
// path yields the default glossary.
func Load(path string, logger *logrus.Logger) (*Glossary, error) {
	if logger == nil {
		logger = logrus.New()
	}

	info, err := os.Stat(path)
	if path == "" || errors.Is(err, os.ErrNotExist) {
		logger.WithField("path", path).Warn("Glossary not found, using default glossary")
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat glossary: %w", err)
	}

	g := New(nil)

	if !info.IsDir() {
		terms, err := readFile(path)
		if err != nil {
			return nil, err
		}
		g.merge(terms)
		logger.WithFields(logrus.Fields{"path": path, "terms": g.Len()}).Info("Loaded glossary")
		return g, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".toml":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)

	for _, file := range files {
		terms, err := readFile(file)
		if err != nil {
			return nil, err
		}
		g.merge(terms)
	}

	logger.WithFields(logrus.Fields{
		"path":  path,
		"files": len(files),
		"terms": g.Len(),
	}).Info("Loaded glossary directory")

	return g, nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}

	terms := make(map[string]string)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &terms)
	} else {
		err = json.Unmarshal(data, &terms)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse glossary %s: %w", filepath.Base(path), err)
	}

	return terms, nil
}
