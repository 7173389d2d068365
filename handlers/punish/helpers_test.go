package punish

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
	"modbot/moderation"
	"modbot/utils"
)

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func TestParseOptions(t *testing.T) {
	member := &discordgo.Member{User: &discordgo.User{ID: "200000000000000001"}}
	data := discordgo.ApplicationCommandInteractionData{
		Name: "tempban",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "200000000000000001"},
			stringOption("duration", "1d"),
			stringOption("reason", "  spamming  "),
		},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users:   map[string]*discordgo.User{"200000000000000001": member.User},
			Members: map[string]*discordgo.Member{"200000000000000001": member},
		},
	}

	opts := parseOptions(data)
	assert.Equal(t, "200000000000000001", opts.TargetID)
	assert.Equal(t, "1d", opts.Duration)
	assert.Equal(t, "spamming", opts.Reason)
	assert.Same(t, member, opts.TargetMember)
}

func TestParseOptions_HackbanID(t *testing.T) {
	opts := parseOptions(discordgo.ApplicationCommandInteractionData{
		Name:    "hackban",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{stringOption("user_id", " 300000000000000001 ")},
	})
	assert.Equal(t, "300000000000000001", opts.TargetID)
	assert.Nil(t, opts.TargetMember)
	assert.Empty(t, opts.Reason)
}

func TestValidSnowflake(t *testing.T) {
	assert.True(t, validSnowflake("123456789012345678"))
	assert.False(t, validSnowflake("12345"))
	assert.False(t, validSnowflake("12345678901234567a"))
	assert.False(t, validSnowflake(""))
}

func TestErrorReply(t *testing.T) {
	cmd := actionCommands["ban"]
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "hierarchy",
			err:  moderation.CheckHierarchy(moderation.Member{ID: "a", Rank: 1}, moderation.Member{ID: "b", Rank: 2}, moderation.Member{ID: "bot", Rank: 5}),
			want: "You can only act on people with a role below yours.",
		},
		{name: "in progress", err: moderation.ErrActionInProgress, want: "Another moderator is already acting on this user. Try again in a few seconds."},
		{name: "duration", err: &utils.ParseError{Input: "soon"}, want: "Invalid duration specified. Use a format like `1d12h` or `2w`."},
		{name: "not a member", err: fmt.Errorf("%w: 42", utils.ErrMemberNotFound), want: "Invalid member specified. The user is not on the server."},
		{name: "persistence", err: fmt.Errorf("%w: disk full", moderation.ErrPersistence), want: "The ban was applied but could not be recorded. Please contact the moderation team as soon as possible."},
		{name: "other", err: errors.New("missing permissions"), want: "Failed to ban the user: missing permissions"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorReply(cmd, tc.err))
		})
	}
}

func TestSuccessReply(t *testing.T) {
	expires := time.Date(2024, time.June, 8, 9, 0, 0, 0, time.UTC).Unix()
	result := moderation.Result{
		Infraction: model.Infraction{
			InfractorID: "user",
			ActionType:  model.ActionTempban,
			Reason:      "raiding",
			ExpiresAt:   &expires,
		},
		Notification: moderation.Undeliverable,
	}

	msg := successReply(actionCommands["tempban"], result)
	assert.Contains(t, msg, "Temporarily banned <@user> for: raiding")
	assert.Contains(t, msg, fmt.Sprintf("(until <t:%d:f>)", expires))
	assert.Contains(t, msg, "could not be notified")

	result.Infraction.ExpiresAt = nil
	result.Notification = moderation.Delivered
	msg = successReply(actionCommands["ban"], result)
	assert.Equal(t, utils.SuccessMessage("Permanently banned <@user> for: raiding"), msg)
}

func TestCommandNames(t *testing.T) {
	names := CommandNames()
	sort.Strings(names)
	assert.Equal(t, []string{"ban", "kick", "mute", "shadowban", "shadowkick", "tempban"}, names)
}

func TestInfractionListEmbed(t *testing.T) {
	embed := infractionListEmbed("user", nil)
	assert.Contains(t, embed.Description, "no recorded infractions")
	assert.Empty(t, embed.Fields)

	records := []model.Infraction{
		{InfractionID: 3, ActionType: model.ActionKick, InsertedAt: 1700000000},
		{InfractionID: 7, ActionType: model.ActionBan, Hidden: true, InsertedAt: 1700000100},
	}
	embed = infractionListEmbed("user", records)
	assert.Contains(t, embed.Description, "2 recorded infraction(s)")
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Value, "`#3` Kick")
	assert.Contains(t, embed.Fields[0].Value, "`#7` Shadow permanent ban")
}
