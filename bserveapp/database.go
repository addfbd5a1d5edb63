package bserveapp

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"go.uber.org/fx"

	// Registers the cgo-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// NewPool opens the sqlite-backed connection pool the server acquires
// per-request connections from. The pool is closed on app shutdown.
func NewPool(lc fx.Lifecycle, env Environment) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", env.databaseDSN())
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return errors.Wrap(pool.PingContext(ctx), "ping database")
		},
		OnStop: func(context.Context) error {
			return pool.Close()
		},
	})

	return pool, nil
}
