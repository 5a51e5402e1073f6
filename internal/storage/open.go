package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownDriver = errors.New("unknown store driver")

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the store selected by driver and a function releasing it.
func Open(ctx context.Context, driver, dsn string) (KV, func() error, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemKV(), func() error { return nil }, nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "fruitstore.db"
		}
		s, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverPostgres:
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}
}
