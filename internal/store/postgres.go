package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/resilience"
)

// defaultLimit caps list queries that arrive without a limit.
const defaultLimit = 100

var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns       int32
	MinConns       int32
	ConnectRetries int
}

// preparedStatements are prepared on each new connection for the hottest reads.
var preparedStatements = map[string]string{
	"get_contract":      `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`,
	"realized_value":    realizedValueSQL,
	"get_user_by_login": `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`,
	"get_nota_fiscal":   `SELECT ` + nfColumns + ` FROM notas_fiscais WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool. The initial
// ping is retried on transient errors.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	retries := 3
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
		if poolCfg.ConnectRetries > 0 {
			retries = poolCfg.ConnectRetries
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	err = resilience.Do(ctx, resilience.RetryConfig{
		MaxAttempts:    retries,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		ShouldRetry:    resilience.IsTransient,
		Operation:      "postgres ping",
	}, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	zap.L().Info("postgres pool ready", zap.Int32("max_conns", maxConns), zap.Int32("min_conns", minConns))
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for read models that query directly.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// collect drains rows through scan.
func collect[T any](rows pgx.Rows, what string, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", what)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "postgres: iterate %s", what)
}

// notFoundOr maps pgx.ErrNoRows to a NotFound error and anything else
// through writeErr.
func notFoundOr(err error, what string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("%s %v not found", what, id)
	}
	return writeErr(err, fmt.Sprintf("%s %v", what, id))
}

// writeErr maps constraint violations to domain errors and wraps anything else.
func writeErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.Wrap(apperr.KindConflict, err, fmt.Sprintf("%s: duplicate value violates %s", op, pgErr.ConstraintName))
		case "23503":
			return apperr.Wrap(apperr.KindNotFound, err, fmt.Sprintf("%s: referenced record does not exist", op))
		case "23514":
			return apperr.Wrap(apperr.KindValidation, err, fmt.Sprintf("%s: value violates %s", op, pgErr.ConstraintName))
		}
	}
	return eris.Wrapf(err, "postgres: %s", op)
}

// updateBuilder accumulates SET clauses with positional arguments.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// where appends the key argument and returns its placeholder.
func (b *updateBuilder) where(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// pager appends LIMIT and OFFSET placeholders after the existing args.
func pager(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		limit = defaultLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	return query, args
}

func joinSets(sets []string) string {
	return strings.Join(sets, ", ")
}
