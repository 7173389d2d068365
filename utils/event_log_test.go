package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logTime = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func TestMemberJoinEmbed(t *testing.T) {
	user := &discordgo.User{ID: "175928847299117063", Username: "newcomer"}

	embed := MemberJoinEmbed(user, 0, logTime)
	assert.Equal(t, "Member joined", embed.Title)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Name: newcomer (<@175928847299117063>)\nID: 175928847299117063\n"+
		"Account creation date: Sat, 30 Apr 2016 11:18:25 UTC\nBot: No", embed.Fields[0].Value)
	assert.NotEmpty(t, embed.Thumbnail.URL)

	embed = MemberJoinEmbed(user, 3, logTime)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "3", embed.Fields[1].Value)
}

func TestMemberLeaveEmbed_UnparsableID(t *testing.T) {
	embed := MemberLeaveEmbed(&discordgo.User{ID: "not-a-snowflake", Username: "x", Bot: true}, logTime)
	assert.Equal(t, "Member left", embed.Title)
	assert.Contains(t, embed.Fields[0].Value, "Account creation date: unknown")
	assert.Contains(t, embed.Fields[0].Value, "Bot: Yes")
}

func TestMessageDeleteEmbed(t *testing.T) {
	embed := MessageDeleteEmbed("chan", "msg", nil, logTime)
	assert.Equal(t, "Channel: <#chan>\nMessage ID: msg", embed.Fields[0].Value)
	assert.Equal(t, "The message is not in the cache.", embed.Fields[1].Value)

	embed = MessageDeleteEmbed("chan", "msg", &discordgo.Message{
		Author:      &discordgo.User{ID: "u", Username: "user"},
		Attachments: []*discordgo.MessageAttachment{{Filename: "a.png"}, {Filename: "b.txt"}},
	}, logTime)
	assert.Contains(t, embed.Fields[0].Value, "Author: user (<@u>)")
	assert.Equal(t, "Attachments: a.png, b.txt", embed.Fields[1].Value)
}

func TestMessageEditEmbed(t *testing.T) {
	after := &discordgo.Message{
		ID: "msg", ChannelID: "chan", GuildID: "guild",
		Author:  &discordgo.User{ID: "u", Username: "user"},
		Content: strings.Repeat("x", 2000),
	}

	embed := MessageEditEmbed(after, &discordgo.Message{Content: "old"}, logTime)
	require.Len(t, embed.Fields, 3)
	assert.Contains(t, embed.Fields[0].Value, "https://discord.com/channels/guild/chan/msg")
	assert.Equal(t, "old", embed.Fields[1].Value)
	assert.Len(t, embed.Fields[2].Value, maxFieldLength)
	assert.True(t, strings.HasSuffix(embed.Fields[2].Value, "..."))

	embed = MessageEditEmbed(after, nil, logTime)
	assert.Equal(t, "The message is not in the cache.", embed.Fields[1].Value)
}
