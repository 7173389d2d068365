package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	maxFieldLength = 1024
	notCached      = "The message is not in the cache."
)

// ReportMemberJoin posts a "Member joined" entry to the member log.
func (m *ModLog) ReportMemberJoin(ctx context.Context, user *discordgo.User, previousJoins int) {
	m.send(ctx, m.MemberLogChannelID, MemberJoinEmbed(user, previousJoins, m.now()))
}

// ReportMemberLeave posts a "Member left" entry to the member log.
func (m *ModLog) ReportMemberLeave(ctx context.Context, user *discordgo.User) {
	m.send(ctx, m.MemberLogChannelID, MemberLeaveEmbed(user, m.now()))
}

// ReportMessageDelete posts a "Message deleted" entry to the message log.
// before is the cached copy of the message, nil when it was not cached.
func (m *ModLog) ReportMessageDelete(ctx context.Context, channelID, messageID string, before *discordgo.Message) {
	m.send(ctx, m.MessageLogChannelID, MessageDeleteEmbed(channelID, messageID, before, m.now()))
}

// ReportMessageEdit posts a "Message edited" entry to the message log.
func (m *ModLog) ReportMessageEdit(ctx context.Context, after, before *discordgo.Message) {
	m.send(ctx, m.MessageLogChannelID, MessageEditEmbed(after, before, m.now()))
}

func MemberJoinEmbed(user *discordgo.User, previousJoins int, now time.Time) *discordgo.MessageEmbed {
	embed := memberEmbed("Member joined", colorGreen, user, now)
	if previousJoins > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Previous joins", Value: fmt.Sprintf("%d", previousJoins),
		})
	}
	return embed
}

func MemberLeaveEmbed(user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	return memberEmbed("Member left", colorRed, user, now)
}

func memberEmbed(title string, color int, user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     title,
		Color:     color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "General information", Value: userInformation(user)},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

func MessageDeleteEmbed(channelID, messageID string, before *discordgo.Message, now time.Time) *discordgo.MessageEmbed {
	info := fmt.Sprintf("Channel: <#%s>\nMessage ID: %s", channelID, messageID)
	content := notCached
	if before != nil {
		info += "\n" + authorLine(before.Author)
		content = messageContent(before)
	}
	return &discordgo.MessageEmbed{
		Title: "Message deleted",
		Color: colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Information", Value: info},
			{Name: "Content", Value: content},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

func MessageEditEmbed(after, before *discordgo.Message, now time.Time) *discordgo.MessageEmbed {
	info := fmt.Sprintf("Channel: <#%s>\nMessage ID: %s\n%s\n[Jump to message](%s)",
		after.ChannelID, after.ID, authorLine(after.Author), MessageLink(after.GuildID, after.ChannelID, after.ID))
	previous := notCached
	if before != nil {
		previous = messageContent(before)
	}
	return &discordgo.MessageEmbed{
		Title: "Message edited",
		Color: colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Information", Value: info},
			{Name: "Before", Value: previous},
			{Name: "Now", Value: messageContent(after)},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

func MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

func userInformation(user *discordgo.User) string {
	created := "unknown"
	if t, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		created = t.UTC().Format(time.RFC1123)
	}
	bot := "No"
	if user.Bot {
		bot = "Yes"
	}
	return fmt.Sprintf("Name: %s (%s)\nID: %s\nAccount creation date: %s\nBot: %s",
		user.Username, mention(user.ID), user.ID, created, bot)
}

func authorLine(author *discordgo.User) string {
	if author == nil {
		return "Author: unknown"
	}
	return fmt.Sprintf("Author: %s (%s)", author.Username, mention(author.ID))
}

// messageContent renders the text of m for an embed field, listing the
// attachment names when there is no text.
func messageContent(m *discordgo.Message) string {
	content := m.Content
	if strings.TrimSpace(content) == "" && len(m.Attachments) > 0 {
		names := make([]string, len(m.Attachments))
		for i, a := range m.Attachments {
			names[i] = a.Filename
		}
		content = "Attachments: " + strings.Join(names, ", ")
	}
	return orDash(Shorten(content, maxFieldLength))
}
