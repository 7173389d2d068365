package infractions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/moderation"
	"modbot/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	require.NoError(t, CreateTables(db))
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestStore_InsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, model.Infraction{
		GuildID:     "guild",
		ModeratorID: "mod",
		InfractorID: "user",
		ActionType:  model.ActionTempban,
		Reason:      "raiding",
		Hidden:      true,
		InsertedAt:  1700000000,
		ExpiresAt:   int64Ptr(1700086400),
		Active:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.InfractionID)
	assert.Equal(t, model.ActionTempban, got.ActionType)
	assert.Equal(t, "raiding", got.Reason)
	assert.True(t, got.Hidden)
	assert.True(t, got.Active)
	require.NotNil(t, got.ExpiresAt)
	assert.Equal(t, int64(1700086400), *got.ExpiresAt)
}

func TestStore_GetByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "#42")
}

func TestStore_ListByInfractor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, row := range []model.Infraction{
		{GuildID: "guild", InfractorID: "user", ModeratorID: "mod", ActionType: model.ActionKick, Reason: "a", InsertedAt: 1},
		{GuildID: "guild", InfractorID: "other", ModeratorID: "mod", ActionType: model.ActionKick, Reason: "b", InsertedAt: 2},
		{GuildID: "elsewhere", InfractorID: "user", ModeratorID: "mod", ActionType: model.ActionBan, Reason: "c", InsertedAt: 3},
		{GuildID: "guild", InfractorID: "user", ModeratorID: "mod", ActionType: model.ActionMute, Reason: "d", InsertedAt: 4, ExpiresAt: int64Ptr(10)},
	} {
		_, err := store.Insert(ctx, row)
		require.NoError(t, err)
	}

	records, err := store.ListByInfractor(ctx, "guild", "user")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Reason)
	assert.Nil(t, records[0].ExpiresAt)
	assert.Equal(t, "d", records[1].Reason)

	count, err := store.CountSince(ctx, "guild", time.Unix(2, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_CountByModeratorSince(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, row := range []model.Infraction{
		{GuildID: "guild", InfractorID: "u1", ModeratorID: "alice", ActionType: model.ActionKick, Reason: "a", InsertedAt: 1},
		{GuildID: "guild", InfractorID: "u2", ModeratorID: "alice", ActionType: model.ActionBan, Reason: "b", InsertedAt: 10},
		{GuildID: "guild", InfractorID: "u3", ModeratorID: "alice", ActionType: model.ActionBan, Reason: "c", InsertedAt: 11},
		{GuildID: "guild", InfractorID: "u4", ModeratorID: "bob", ActionType: model.ActionMute, Reason: "d", InsertedAt: 12},
		{GuildID: "elsewhere", InfractorID: "u5", ModeratorID: "bob", ActionType: model.ActionMute, Reason: "e", InsertedAt: 12},
	} {
		_, err := store.Insert(ctx, row)
		require.NoError(t, err)
	}

	stats, err := store.CountByModeratorSince(ctx, "guild", time.Unix(10, 0))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, stats)
}

func TestStore_ListExpiredAndMarkInactive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Unix(1000, 0)

	expiredID, err := store.Insert(ctx, model.Infraction{
		GuildID: "guild", InfractorID: "a", ModeratorID: "mod", ActionType: model.ActionTempban,
		Reason: "x", InsertedAt: 1, ExpiresAt: int64Ptr(999), Active: true,
	})
	require.NoError(t, err)
	_, err = store.Insert(ctx, model.Infraction{
		GuildID: "guild", InfractorID: "b", ModeratorID: "mod", ActionType: model.ActionMute,
		Reason: "x", InsertedAt: 1, ExpiresAt: int64Ptr(2000), Active: true,
	})
	require.NoError(t, err)
	_, err = store.Insert(ctx, model.Infraction{
		GuildID: "guild", InfractorID: "c", ModeratorID: "mod", ActionType: model.ActionBan,
		Reason: "x", InsertedAt: 1, Active: true,
	})
	require.NoError(t, err)

	expired, err := store.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, expiredID, expired[0].InfractionID)

	require.NoError(t, store.MarkInactive(ctx, expiredID))
	expired, err = store.ListExpired(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, expired)

	require.ErrorIs(t, store.MarkInactive(ctx, 999), ErrNotFound)
}

func TestStore_BacksLedger(t *testing.T) {
	store := newTestStore(t)
	ledger := moderation.NewLedger(store, moderation.DefaultMaxReasonLength)
	ctx := context.Background()

	id, err := ledger.Record(ctx, model.Infraction{
		GuildID:     "guild",
		ModeratorID: "mod",
		InfractorID: "user",
		ActionType:  model.ActionBan,
		Reason:      strings.Repeat("r", 600),
		InsertedAt:  1700000000,
	})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Reason, moderation.DefaultMaxReasonLength)
	assert.True(t, strings.HasSuffix(got.Reason, "..."))
	assert.True(t, got.Active)
}
