// Package client bootstraps local client resources, currently the SQLite
// database that persists session state.
package client

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mzunohkaru/postboard/internal/client/migrations"
	"github.com/mzunohkaru/postboard/internal/client/repositories/metadata"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the local database at dsn, applies
// migrations, and returns the metadata repository bound to it.
func InitDatabase(ctx context.Context, dsn string) (metadata.Repository, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return metadata.NewSQLiteRepository(db), db, nil
}
