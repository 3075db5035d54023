package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PostgresStore keeps the cache in a PostgreSQL table
type PostgresStore struct {
	pool   *pgxpool.Pool
	sq     sq.StatementBuilderType
	logger *logrus.Logger
}

// OpenPostgres connects to dsn, migrates the schema and returns the store
func OpenPostgres(ctx context.Context, dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if err := runMigrations("postgres", migrateURL(dsn), logger); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logger.Debug("Connected to PostgreSQL cache")

	return &PostgresStore{
		pool:   pool,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger,
	}, nil
}

// migrateURL rewrites a postgres DSN for the golang-migrate pgx/v5 driver
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// Get returns the cached translation for key
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.sq.Select("tgt").From("cache").Where(sq.Eq{"key": key}).Limit(1).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build cache query: %w", err)
	}

	var tgt string
	err = s.pool.QueryRow(ctx, query, args...).Scan(&tgt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache: %w", err)
	}

	return tgt, true, nil
}

// Set inserts or replaces the translation for key
func (s *PostgresStore) Set(ctx context.Context, key, source, target, model string) error {
	query, args, err := s.sq.Insert("cache").
		Columns("key", "src", "tgt", "model", "created_at").
		Values(key, source, target, model, now()).
		Suffix("ON CONFLICT (key) DO UPDATE SET src = EXCLUDED.src, tgt = EXCLUDED.tgt, model = EXCLUDED.model, created_at = EXCLUDED.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache upsert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Stats counts cached entries per model
func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	query, args, err := s.sq.Select("model", "COUNT(*)").From("cache").GroupBy("model").OrderBy("model").ToSql()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to build stats query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{Backend: "postgres", ByModel: make(map[string]int)}
	for rows.Next() {
		var model string
		var count int64
		if err := rows.Scan(&model, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats.ByModel[model] = int(count)
		stats.Entries += int(count)
	}

	return stats, rows.Err()
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
