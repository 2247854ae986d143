package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"mentorship/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Courses  string
	Chapters string
	Modules  string
	Videos   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Courses:  prefix + "courses",
		Chapters: prefix + "chapters",
		Modules:  prefix + "modules",
		Videos:   prefix + "videos",
	}
}

// Lookup maps an unprefixed table name (as used by the kinds registry) to
// its prefixed name.
func (t *TableNames) Lookup(base string) (string, error) {
	switch base {
	case "courses":
		return t.Courses, nil
	case "chapters":
		return t.Chapters, nil
	case "modules":
		return t.Modules, nil
	case "videos":
		return t.Videos, nil
	default:
		return "", fmt.Errorf("unknown table %q", base)
	}
}

// CreateConnectionPool creates a pgx pool and pings the database.
//
// Port 6543 is a transaction-mode PgBouncer (Supabase pooler) that cannot hold
// prepared statements; for it the pool switches to QueryExecModeCacheDescribe
// unless default_query_exec_mode was set explicitly in the URL.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
