package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqlQueries struct {
	schema string
	get    string
	set    string
	del    string
}

// SQLKV keeps every key in a single two-column table. The SQLite and
// Postgres constructors only differ in placeholder syntax.
type SQLKV struct {
	db *sql.DB
	q  sqlQueries
}

func (s *SQLKV) Close() error { return s.db.Close() }

func (s *SQLKV) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLKV) migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, s.q.schema); err != nil {
			return fmt.Errorf("create kv table: %w", err)
		}
		return nil
	})
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.q.get, key).Scan(&v)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.q.set, key, value)
		return err
	})
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.q.del, key)
		return err
	})
}
