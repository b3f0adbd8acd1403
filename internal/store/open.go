package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-taint/internal/schema"
)

// Handle is an opened fact store.
type Handle interface {
	schema.Source
	Close() error
}

// pgHandle closes the pool it was opened with.
type pgHandle struct {
	*Postgres
	pool *pgxpool.Pool
}

func (h pgHandle) Close() error {
	h.pool.Close()
	return nil
}

// Kind reports which backend Open selects for dsn.
func Kind(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "json:"), strings.HasSuffix(strings.ToLower(dsn), ".json"):
		return "json"
	default:
		return "sqlite"
	}
}

// Open picks a backend from the DSN: PostgreSQL URLs, JSON fixtures
// ("json:" prefix or a .json file), and SQLite for everything else. A leading
// "~" in file paths is expanded.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (Handle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dsn == "" {
		return nil, fmt.Errorf("no fact database given")
	}

	switch Kind(dsn) {
	case "postgres":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		pg, err := NewPostgres(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return pgHandle{Postgres: pg, pool: pool}, nil

	case "json":
		path, err := homedir.Expand(strings.TrimPrefix(dsn, "json:"))
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %s: %w", dsn, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open fact fixture: %w", err)
		}
		defer f.Close()
		mem, err := LoadJSON(f)
		if err != nil {
			return nil, err
		}
		return mem, nil

	default:
		path, err := homedir.Expand(strings.TrimPrefix(dsn, "sqlite:"))
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %s: %w", dsn, err)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("fact database %s: %w", path, err)
		}
		db, err := OpenSQLite(path, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}
