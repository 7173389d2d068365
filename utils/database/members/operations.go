package members

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"modbot/model"
)

// Store records member joins and leaves.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, event model.MemberEvent) error {
	query := `INSERT INTO member_events (guild_id, user_id, kind, occurred_at)
			  VALUES (:guild_id, :user_id, :kind, :occurred_at)`
	if _, err := s.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to insert member event: %w", err)
	}
	return nil
}

// CountJoins returns how many times the user has joined the guild.
func (s *Store) CountJoins(ctx context.Context, guildID, userID string) (int, error) {
	var n int
	query := "SELECT COUNT(*) FROM member_events WHERE guild_id = ? AND user_id = ? AND kind = ?"
	if err := s.db.GetContext(ctx, &n, query, guildID, userID, model.MemberJoined); err != nil {
		return 0, fmt.Errorf("failed to count joins for user %s: %w", userID, err)
	}
	return n, nil
}

// CountSince returns the number of events of kind in the guild since t.
func (s *Store) CountSince(ctx context.Context, guildID string, kind model.MemberEventKind, t time.Time) (int, error) {
	var n int
	query := "SELECT COUNT(*) FROM member_events WHERE guild_id = ? AND kind = ? AND occurred_at >= ?"
	if err := s.db.GetContext(ctx, &n, query, guildID, kind, t.Unix()); err != nil {
		return 0, fmt.Errorf("failed to count member events: %w", err)
	}
	return n, nil
}
