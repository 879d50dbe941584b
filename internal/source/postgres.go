package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alnah/go-html2latex"
)

// DefaultQuery selects fragments when none is configured. Any query works as
// long as it returns two text columns: an identifier and the markup.
const DefaultQuery = "select id::text, html from fragments order by id"

// pgBouncerPort is the transaction pooler port that rejects prepared statements.
const pgBouncerPort = 6543

// Querier is the part of *pgxpool.Pool and *pgx.Conn used to load rows.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a small pool for databaseURL and checks it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse connection string: %v", ErrDatabase, err)
	}

	// One query per run; the pool only needs a single connection.
	config.MaxConns = 2
	config.MinConns = 0

	// Statement caching breaks behind PgBouncer unless the URL says otherwise.
	if config.ConnConfig.Port == pgBouncerPort && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", pgBouncerPort)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: create connection pool: %v", ErrDatabase, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrDatabase, err)
	}
	return pool, nil
}

// LoadRows runs query and turns each (id, markup) row into a fragment.
func LoadRows(ctx context.Context, q Querier, query string, format html2latex.Format) ([]html2latex.Fragment, error) {
	if query == "" {
		query = DefaultQuery
	}

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrDatabase, err)
	}

	fragments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (html2latex.Fragment, error) {
		f := html2latex.Fragment{Format: format}
		err := row.Scan(&f.ID, &f.Content)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading rows: %v", ErrDatabase, err)
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: query returned no rows", ErrNoFragments)
	}
	return fragments, nil
}

// LoadPostgres connects, loads the fragments selected by query and closes
// the pool.
func LoadPostgres(ctx context.Context, databaseURL, query string, format html2latex.Format) ([]html2latex.Fragment, error) {
	pool, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return LoadRows(ctx, pool, query, format)
}
