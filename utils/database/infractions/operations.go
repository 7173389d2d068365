package infractions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"modbot/model"
)

var ErrNotFound = errors.New("infraction not found")

// Store reads and writes the infractions table.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Insert adds a new infraction record and returns the new record's ID.
func (s *Store) Insert(ctx context.Context, infraction model.Infraction) (int64, error) {
	query := `INSERT INTO infractions (guild_id, moderator_id, infractor_id, action_type, reason, hidden, inserted_at, expires_at, active)
			  VALUES (:guild_id, :moderator_id, :infractor_id, :action_type, :reason, :hidden, :inserted_at, :expires_at, :active)`

	result, err := s.db.NamedExecContext(ctx, query, infraction)
	if err != nil {
		return 0, fmt.Errorf("failed to insert infraction record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetByID retrieves a single infraction by its primary key.
func (s *Store) GetByID(ctx context.Context, id int64) (*model.Infraction, error) {
	var infraction model.Infraction
	err := s.db.GetContext(ctx, &infraction, "SELECT * FROM infractions WHERE infraction_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction by id %d: %w", id, err)
	}
	return &infraction, nil
}

// ListByInfractor retrieves a user's infractions in a guild, oldest first.
func (s *Store) ListByInfractor(ctx context.Context, guildID, userID string) ([]model.Infraction, error) {
	var records []model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ? AND infractor_id = ? ORDER BY infraction_id"
	if err := s.db.SelectContext(ctx, &records, query, guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to get infractions for user %s: %w", userID, err)
	}
	return records, nil
}

// ListExpired retrieves active temporary infractions whose expiry has passed.
func (s *Store) ListExpired(ctx context.Context, now time.Time) ([]model.Infraction, error) {
	var records []model.Infraction
	query := `SELECT * FROM infractions
			  WHERE active = 1
			  AND expires_at IS NOT NULL
			  AND expires_at <= ?
			  ORDER BY expires_at`
	if err := s.db.SelectContext(ctx, &records, query, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to get expired infractions: %w", err)
	}
	return records, nil
}

// MarkInactive flags an infraction as lifted. This is the only update made to
// a recorded infraction.
func (s *Store) MarkInactive(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE infractions SET active = 0 WHERE infraction_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to update infraction %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for infraction %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: #%d", ErrNotFound, id)
	}
	return nil
}

// CountSince returns the number of infractions in a guild since the given time.
func (s *Store) CountSince(ctx context.Context, guildID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM infractions WHERE guild_id = ? AND inserted_at >= ?`
	if err := s.db.GetContext(ctx, &count, query, guildID, since.Unix()); err != nil {
		return 0, fmt.Errorf("failed to count infractions for guild %s: %w", guildID, err)
	}
	return count, nil
}

// CountByModeratorSince returns the number of infractions each moderator
// recorded in a guild since the given time.
func (s *Store) CountByModeratorSince(ctx context.Context, guildID string, since time.Time) (map[string]int, error) {
	query := `SELECT moderator_id, COUNT(*) as count FROM infractions WHERE guild_id = ? AND inserted_at >= ? GROUP BY moderator_id ORDER BY count DESC`
	rows, err := s.db.QueryContext(ctx, query, guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator infraction stats for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var moderatorID string
		var count int
		if err := rows.Scan(&moderatorID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan moderator infraction stats row: %w", err)
		}
		stats[moderatorID] = count
	}
	return stats, rows.Err()
}
