// Package logging builds the logrus logger shared by every arkhamtr component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to out with the given level and format.
// Unknown levels fall back to info; format is "text" (default) or "json".
func New(level, format string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// Discard returns a logger that drops everything, for tests and dry components.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fieldsHook adds fixed fields to every entry that does not set them itself
type fieldsHook struct {
	fields logrus.Fields
}

func (h fieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h fieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}

// AddFields attaches fields such as a run ID to every entry logged through logger
func AddFields(logger *logrus.Logger, fields logrus.Fields) {
	logger.AddHook(fieldsHook{fields: fields})
}
