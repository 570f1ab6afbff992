// Package db opens the configured SQL database and bootstraps its schema.
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	URL    string
	Path   string
}

// Open connects to the database named by opts and ensures the schema exists.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch opts.Driver {
	case DriverSQLite, "":
		conn, err = OpenSQLite(ctx, opts.Path)
	case DriverPostgres:
		conn, err = ConnectPostgres(ctx, opts.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	dialect := DriverSQLite
	if opts.Driver == DriverPostgres {
		dialect = DriverPostgres
	}
	if err := EnsureSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
