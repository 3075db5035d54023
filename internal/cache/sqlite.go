package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore keeps the cache in a local SQLite file
type SQLiteStore struct {
	db     *sql.DB
	sq     sq.StatementBuilderType
	path   string
	logger *logrus.Logger
}

// OpenSQLite opens (creating if needed) the SQLite cache at path
func OpenSQLite(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := runMigrations("sqlite", "sqlite3://"+path, logger); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	logger.WithField("path", path).Debug("Opened SQLite cache")

	return &SQLiteStore{
		db:     db,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
		path:   path,
		logger: logger,
	}, nil
}

// Get returns the cached translation for key
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.sq.Select("tgt").From("cache").Where(sq.Eq{"key": key}).Limit(1).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build cache query: %w", err)
	}

	var tgt string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&tgt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache: %w", err)
	}

	return tgt, true, nil
}

// Set inserts or replaces the translation for key
func (s *SQLiteStore) Set(ctx context.Context, key, source, target, model string) error {
	query, args, err := s.sq.Insert("cache").
		Columns("key", "src", "tgt", "model", "created_at").
		Values(key, source, target, model, now()).
		Suffix("ON CONFLICT(key) DO UPDATE SET src=excluded.src, tgt=excluded.tgt, model=excluded.model, created_at=excluded.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Stats counts cached entries per model
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	query, args, err := s.sq.Select("model", "COUNT(*)").From("cache").GroupBy("model").OrderBy("model").ToSql()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to build stats query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{Backend: "sqlite", ByModel: make(map[string]int)}
	for rows.Next() {
		var model string
		var count int
		if err := rows.Scan(&model, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats.ByModel[model] = count
		stats.Entries += count
	}

	return stats, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
