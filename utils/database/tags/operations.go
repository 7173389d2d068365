package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"modbot/model"
)

var ErrNotFound = errors.New("tag not found")

// Store reads and writes the tags table. Names are expected to be normalized
// with model.NormalizeTagName.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Upsert creates the tag or replaces its content, keeping the original
// creation time. It reports whether the tag is new.
func (s *Store) Upsert(ctx context.Context, tag model.Tag) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin tag transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.GetContext(ctx, &existing, "SELECT COUNT(*) FROM tags WHERE guild_id = ? AND name = ?", tag.GuildID, tag.Name); err != nil {
		return false, fmt.Errorf("failed to look up tag %q: %w", tag.Name, err)
	}

	query := `INSERT INTO tags (guild_id, name, content, author_id, created_at, updated_at)
			  VALUES (:guild_id, :name, :content, :author_id, :created_at, :updated_at)
			  ON CONFLICT (guild_id, name) DO UPDATE SET
			  content = excluded.content, author_id = excluded.author_id, updated_at = excluded.updated_at`
	if _, err := tx.NamedExecContext(ctx, query, tag); err != nil {
		return false, fmt.Errorf("failed to save tag %q: %w", tag.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit tag %q: %w", tag.Name, err)
	}
	return existing == 0, nil
}

func (s *Store) Get(ctx context.Context, guildID, name string) (*model.Tag, error) {
	var tag model.Tag
	err := s.db.GetContext(ctx, &tag, "SELECT * FROM tags WHERE guild_id = ? AND name = ?", guildID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %q: %w", name, err)
	}
	return &tag, nil
}

// Names lists the guild's tag names in alphabetical order.
func (s *Store) Names(ctx context.Context, guildID string) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, "SELECT name FROM tags WHERE guild_id = ? ORDER BY name", guildID); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return names, nil
}

func (s *Store) Delete(ctx context.Context, guildID, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE guild_id = ? AND name = ?", guildID, name)
	if err != nil {
		return fmt.Errorf("failed to delete tag %q: %w", name, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
