package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

func TestInfractionReportEmbed(t *testing.T) {
	expires := time.Date(2024, time.June, 8, 9, 0, 0, 0, time.UTC).Unix()
	embed := InfractionReportEmbed(model.Infraction{
		InfractionID: 7,
		ModeratorID:  "mod",
		InfractorID:  "user",
		ActionType:   model.ActionTempban,
		Reason:       "raiding",
		InsertedAt:   time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC).Unix(),
		ExpiresAt:    &expires,
	})

	assert.Equal(t, "Infraction #7", embed.Title)
	require.Len(t, embed.Fields, 8)
	assert.Equal(t, "Temporary ban", embed.Fields[0].Value)
	assert.Equal(t, "<@user>", embed.Fields[1].Value)
	assert.Equal(t, "mod", embed.Fields[4].Value)
	assert.Equal(t, "Sat, 08 Jun 2024 09:00:00 UTC", embed.Fields[6].Value)
	assert.Equal(t, "raiding", embed.Fields[7].Value)
}

func TestInfractionReportEmbed_Hidden(t *testing.T) {
	embed := InfractionReportEmbed(model.Infraction{
		ActionType: model.ActionKick,
		Hidden:     true,
	})

	assert.Equal(t, "Shadow kick", embed.Fields[0].Value)
	assert.Equal(t, "Right now", embed.Fields[6].Value)
	assert.Equal(t, "-", embed.Fields[7].Value)
}

func TestSilenceReportEmbeds(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	silenced := SilenceReportEmbed("chan", "mod", now.Add(90*time.Second), now)
	assert.Equal(t, "Channel silenced", silenced.Title)
	assert.Contains(t, silenced.Fields[0].Value, "Channel: <#chan>")
	assert.Contains(t, silenced.Fields[0].Value, "Until: 1.50 minutes")

	unsilenced := UnsilenceReportEmbed("chan", "mod", now)
	assert.Equal(t, "Channel unsilenced", unsilenced.Title)
	assert.Contains(t, unsilenced.Fields[0].Value, "Moderator ID: mod")
}

func TestModLog_NoChannelsConfigured(t *testing.T) {
	modLog := NewModLog(nil, "", "")
	assert.NotPanics(t, func() {
		modLog.ReportInfraction(context.Background(), model.Infraction{ActionType: model.ActionBan})
		modLog.ReportUnsilence(context.Background(), "chan", "mod")
		modLog.LogError(context.Background(), "scanner", "sweep", "boom")
	})
}
