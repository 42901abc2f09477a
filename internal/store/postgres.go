package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pointerTable = "commit_pointers"

// Postgres implements Store using PostgreSQL. Only this package and main use *pgxpool.Pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by the given pool. Caller must call Close on the pool when done.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the pointer table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS commit_pointers (
			key        TEXT PRIMARY KEY,
			sha        TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return &IOError{Op: "create table", Path: pointerTable, Err: err}
	}
	return nil
}

// ReadPointer implements Store.
func (p *Postgres) ReadPointer(ctx context.Context, key string) (string, bool, error) {
	var sha string
	err := p.pool.QueryRow(ctx, `SELECT sha FROM commit_pointers WHERE key = $1`, key).Scan(&sha)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &IOError{Op: "read", Path: pointerTable + "/" + key, Err: err}
	}
	return sha, true, nil
}

// WritePointer implements Store. Last writer wins.
func (p *Postgres) WritePointer(ctx context.Context, key, sha string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO commit_pointers (key, sha, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET sha = EXCLUDED.sha, updated_at = EXCLUDED.updated_at
	`, key, sha)
	if err != nil {
		return &IOError{Op: "write", Path: pointerTable + "/" + key, Err: err}
	}
	return nil
}

// Ping checks the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
