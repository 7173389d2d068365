package tags

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `CREATE TABLE IF NOT EXISTS tags (
	guild_id TEXT NOT NULL,
	name TEXT NOT NULL,
	content TEXT NOT NULL,
	author_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (guild_id, name)
);`

// CreateTables creates the tags table.
func CreateTables(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tags table: %w", err)
	}
	return nil
}
