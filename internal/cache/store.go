package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/arkhamtr/internal"
)

// Entry is a single cached translation
type Entry struct {
	Key       string
	Source    string
	Target    string
	Model     string
	CreatedAt time.Time
}

// Stats summarizes the cache contents
type Stats struct {
	Backend string
	Entries int
	ByModel map[string]int
}

// Store is a durable key-value store for translations. Set is an upsert:
// the last write for a key wins.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, source, target, model string) error
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Key derives the cache key for a field translation
func Key(model, field, source string) string {
	return internal.Fingerprint(model, field, source)
}

// IsPostgres reports whether dsn points at a PostgreSQL server
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open opens the cache named by dsn: a postgres:// URL or a SQLite file path.
// The schema is migrated before the store is returned.
func Open(ctx context.Context, dsn string, logger *logrus.Logger) (Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("cache location is empty")
	}

	if IsPostgres(dsn) {
		return OpenPostgres(ctx, dsn, logger)
	}
	return OpenSQLite(dsn, logger)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
