package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"reportdesk/internal/domain/repositories"

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
	Users    string
	Classes  string
	Projects string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:    fmt.Sprintf("%susers", prefix),
		Classes:  fmt.Sprintf("%sclasses", prefix),
		Projects: fmt.Sprintf("%sreport_projects", prefix),
	}
}

// All returns the tables in creation order.
func (t *TableNames) All() []string {
	return []string{t.Classes, t.Users, t.Projects}
}

// CreateConnectionPool creates a pgx pool and pings it.
//
// Supabase's transaction pooler (port 6543) does not support prepared
// statements, so on that port the pool switches to QueryExecModeCacheDescribe,
// which still uses the extended protocol that JSONB parameters need. An
// explicit default_query_exec_mode in the URL takes precedence.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each environment gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 20
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool. Repositories
// call it on every query so they join an ExecTx transaction when one is open.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
