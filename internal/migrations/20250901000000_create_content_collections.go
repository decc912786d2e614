package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateContentCollections, downCreateContentCollections)
}

func upCreateContentCollections(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE content_collections (
		scope VARCHAR PRIMARY KEY,
		content JSONB NOT NULL DEFAULT '[]'::jsonb,
		last_updated TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	`)
	return err
}

func downCreateContentCollections(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE content_collections;`)
	return err
}
