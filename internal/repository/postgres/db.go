package postgres

import (
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// New opens a connection pool against the given Postgres DSN and verifies it
// with a ping.
func New(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}
