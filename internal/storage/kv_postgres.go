package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgInsufficientPrivilege = "42501"

var postgresQueries = sqlQueries{
	schema: `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	get: `SELECT value FROM kv WHERE key = $1`,
	set: `INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
	del: `DELETE FROM kv WHERE key = $1`,
}

func OpenPostgres(ctx context.Context, dsn string) (*SQLKV, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	s := &SQLKV{db: db, q: postgresQueries}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		if isPermissionDenied(err) {
			return nil, fmt.Errorf("kv table missing and role cannot create it: %w", err)
		}
		return nil, err
	}
	return s, nil
}

func isPermissionDenied(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege
}
