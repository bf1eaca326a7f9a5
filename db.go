// db.go
//
// Database setup for the commands that persist data: open SQLite and apply
// the embedded migrations.

package main

import (
	"database/sql"

	"github.com/cthoyt/pyrdle/assets"
	"github.com/cthoyt/pyrdle/internal/results"
)

// openDB opens dsn and brings its schema up to date.
func openDB(dsn string) (*sql.DB, error) {
	db, err := results.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := results.Migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
