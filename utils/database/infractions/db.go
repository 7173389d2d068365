package infractions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS infractions (
	infraction_id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	moderator_id TEXT NOT NULL,
	infractor_id TEXT NOT NULL,
	action_type TEXT NOT NULL,
	reason TEXT NOT NULL,
	hidden BOOLEAN NOT NULL DEFAULT 0,
	inserted_at INTEGER NOT NULL,
	expires_at INTEGER,
	active BOOLEAN NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_infractions_infractor ON infractions (guild_id, infractor_id);
CREATE INDEX IF NOT EXISTS idx_infractions_expiry ON infractions (active, expires_at);`

// Init opens the infraction database and ensures the table exists.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to infraction database: %w", err)
	}
	if err := CreateTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateTables creates the infractions table and its indexes.
func CreateTables(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create infractions table: %w", err)
	}
	return nil
}
