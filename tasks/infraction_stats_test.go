package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	byModerator map[string]int
	total       int
	err         error
	since       time.Time
}

func (f *fakeStats) CountSince(_ context.Context, _ string, since time.Time) (int, error) {
	f.since = since
	return f.total, f.err
}

func (f *fakeStats) CountByModeratorSince(_ context.Context, _ string, _ time.Time) (map[string]int, error) {
	return f.byModerator, f.err
}

func TestGenerateInfractionStatsEmbed(t *testing.T) {
	now := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	src := &fakeStats{
		byModerator: map[string]int{"bob": 1, "alice": 4, "carol": 1},
		total:       6,
	}

	embed, err := GenerateInfractionStatsEmbed(context.Background(), src, "guild", 24*time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, now.Add(-24*time.Hour), src.since)
	assert.Contains(t, embed.Description, "**Total: 6**")
	assert.Contains(t, embed.Description, "1. <@alice>: 4\n2. <@bob>: 1\n3. <@carol>: 1\n")
}

func TestGenerateInfractionStatsEmbed_Error(t *testing.T) {
	src := &fakeStats{err: errors.New("no such table")}

	_, err := GenerateInfractionStatsEmbed(context.Background(), src, "guild", time.Hour, time.Now())
	require.Error(t, err)
}
