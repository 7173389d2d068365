package members

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, CreateTables(db))
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestStore_Counts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	for _, event := range []model.MemberEvent{
		{GuildID: "g", UserID: "u", Kind: model.MemberJoined, OccurredAt: now.Add(-48 * time.Hour).Unix()},
		{GuildID: "g", UserID: "u", Kind: model.MemberLeft, OccurredAt: now.Add(-47 * time.Hour).Unix()},
		{GuildID: "g", UserID: "u", Kind: model.MemberJoined, OccurredAt: now.Add(-time.Hour).Unix()},
		{GuildID: "g", UserID: "other", Kind: model.MemberJoined, OccurredAt: now.Unix()},
		{GuildID: "elsewhere", UserID: "u", Kind: model.MemberJoined, OccurredAt: now.Unix()},
	} {
		require.NoError(t, store.Insert(ctx, event))
	}

	joins, err := store.CountJoins(ctx, "g", "u")
	require.NoError(t, err)
	assert.Equal(t, 2, joins)

	recent, err := store.CountSince(ctx, "g", model.MemberJoined, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, recent)

	left, err := store.CountSince(ctx, "g", model.MemberLeft, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, left)
}
