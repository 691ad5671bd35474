// Package store is the Postgres-backed appointment store. All access
// from the agent goes through here; the agent can also run without a
// store at all (degraded mode), so nothing in this package is assumed
// to exist by the rest of the system.
package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
