package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meadowmath/meadowmath-backend/internal/config"
	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// pgQuerier is the slice of pgxpool.Pool the backend uses; pgxmock satisfies
// it in tests.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresKV stores profile blobs in the profile_kv table.
type PostgresKV struct {
	db      pgQuerier
	sb      sq.StatementBuilderType
	closeFn func()
}

// NewPostgresKV creates a backend over a connection pool.
func NewPostgresKV(pool *pgxpool.Pool) *PostgresKV {
	kv := newPostgresKV(pool)
	kv.closeFn = pool.Close
	return kv
}

// Connect builds a PostgresKV over a fresh connection pool. The database is
// pinged before the backend is returned, so an unreachable DSN fails here
// rather than on the first profile request.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*PostgresKV, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return NewPostgresKV(pool), nil
}

func newPostgresKV(db pgQuerier) *PostgresKV {
	return &PostgresKV{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Get returns the stored value or domain.ErrNotFound.
func (p *PostgresKV) Get(ctx context.Context, profileID uuid.UUID, key string) ([]byte, error) {
	query, args, err := p.sb.
		Select("value").
		From("profile_kv").
		Where("profile_id = ? AND key = ?", profileID, key).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kv select: %w", err)
	}

	var value []byte
	if err := pgxscan.Get(ctx, p.db, &value, query, args...); err != nil {
		return nil, mapError(err, key)
	}
	return value, nil
}

// Set upserts one key.
func (p *PostgresKV) Set(ctx context.Context, profileID uuid.UUID, key string, value []byte) error {
	query, args, err := p.sb.
		Insert("profile_kv").
		Columns("profile_id", "key", "value", "updated_at").
		Values(profileID, key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (profile_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build kv upsert: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return mapError(err, key)
	}
	return nil
}

// Delete removes one key; absent keys are not an error.
func (p *PostgresKV) Delete(ctx context.Context, profileID uuid.UUID, key string) error {
	query, args, err := p.sb.
		Delete("profile_kv").
		Where("profile_id = ? AND key = ?", profileID, key).
		ToSql()
	if err != nil {
		return fmt.Errorf("build kv delete: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return mapError(err, key)
	}
	return nil
}

// Close releases the pool.
func (p *PostgresKV) Close() {
	if p.closeFn != nil {
		p.closeFn()
	}
}

// mapError converts pgx/pgconn errors to domain errors. Context errors pass
// through unmapped.
func mapError(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("kv %s: %w", key, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("kv %s: %w", key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("kv %s: %w", key, domain.ErrConflict)
		case "23514": // check_violation
			return fmt.Errorf("kv %s: %w", key, domain.ErrValidation)
		}
	}
	return fmt.Errorf("kv %s: %w", key, err)
}
