package utils

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

const (
	colorGreen  = 3066993
	colorOrange = 15105570
	colorRed    = 15158332
	colorBlue   = 3447003
)

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return colorGreen
	case Warn:
		return colorOrange
	case Error:
		return colorRed
	default:
		return colorBlue
	}
}

// ModLog posts moderation reports and system events to the staff channels.
// Posting failures are logged and never returned to the caller.
type ModLog struct {
	Session             *discordgo.Session
	ManagementChannelID string
	ModLogChannelID     string
	MemberLogChannelID  string
	MessageLogChannelID string
	now                 func() time.Time
}

func NewModLog(s *discordgo.Session, managementChannelID, modLogChannelID string) *ModLog {
	return &ModLog{
		Session:             s,
		ManagementChannelID: managementChannelID,
		ModLogChannelID:     modLogChannelID,
		now:                 time.Now,
	}
}

// ReportInfraction posts the record to the management channel and, unless it
// is hidden, to the public mod-log channel.
func (m *ModLog) ReportInfraction(ctx context.Context, infraction model.Infraction) {
	embed := InfractionReportEmbed(infraction)
	m.send(ctx, m.ManagementChannelID, embed)
	if !infraction.Hidden && m.ModLogChannelID != m.ManagementChannelID {
		m.send(ctx, m.ModLogChannelID, embed)
	}
}

// ReportSilence posts a "Channel silenced" report.
func (m *ModLog) ReportSilence(ctx context.Context, channelID, moderatorID string, until time.Time) {
	m.send(ctx, m.ManagementChannelID, SilenceReportEmbed(channelID, moderatorID, until, m.now()))
}

// ReportUnsilence posts a "Channel unsilenced" report.
func (m *ModLog) ReportUnsilence(ctx context.Context, channelID, moderatorID string) {
	m.send(ctx, m.ManagementChannelID, UnsilenceReportEmbed(channelID, moderatorID, m.now()))
}

func (m *ModLog) LogInfo(ctx context.Context, module, operation, extraInfo string) {
	m.sendLog(ctx, Info, module, operation, extraInfo)
}

func (m *ModLog) LogWarn(ctx context.Context, module, operation, extraInfo string) {
	m.sendLog(ctx, Warn, module, operation, extraInfo)
}

func (m *ModLog) LogError(ctx context.Context, module, operation, extraInfo string) {
	m.sendLog(ctx, Error, module, operation, extraInfo)
}

func (m *ModLog) sendLog(ctx context.Context, level LogLevel, module, operation, extraInfo string) {
	m.send(ctx, m.ManagementChannelID, &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module},
			{Name: "Operation", Value: operation},
			{Name: "Details", Value: orDash(extraInfo)},
		},
		Timestamp: m.now().UTC().Format(time.RFC3339),
	})
}

func (m *ModLog) send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) {
	if channelID == "" || m.Session == nil {
		return
	}
	if _, err := m.Session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		slog.Warn("Failed to post report", "channel_id", channelID, "title", embed.Title, "error", err)
	}
}

// InfractionReportEmbed builds the staff report for a recorded infraction.
func InfractionReportEmbed(infraction model.Infraction) *discordgo.MessageEmbed {
	title := infraction.ActionType.Title()
	if infraction.Hidden {
		title = "Shadow " + strings.ToLower(title)
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Infraction #%d", infraction.InfractionID),
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Type", Value: title},
			{Name: "Infractor", Value: mention(infraction.InfractorID)},
			{Name: "Infractor ID", Value: infraction.InfractorID},
			{Name: "Moderator", Value: mention(infraction.ModeratorID)},
			{Name: "Moderator ID", Value: infraction.ModeratorID},
			{Name: "Inserted at", Value: infraction.InsertedTime().UTC().Format(time.RFC1123)},
			{Name: "Expires at", Value: infraction.ExpiryText()},
			{Name: "Reason", Value: orDash(infraction.Reason)},
		},
		Timestamp: infraction.InsertedTime().UTC().Format(time.RFC3339),
	}
}

func SilenceReportEmbed(channelID, moderatorID string, until, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Channel silenced",
		Color: colorRed,
		Fields: []*discordgo.MessageEmbedField{{
			Name: "Information",
			Value: fmt.Sprintf("Channel: <#%s>\nChannel ID: %s\nModerator: %s\nModerator ID: %s\nUntil: %s minutes",
				channelID, channelID, mention(moderatorID), moderatorID, FormatMinutes(until.Sub(now))),
		}},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

func UnsilenceReportEmbed(channelID, moderatorID string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Channel unsilenced",
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{{
			Name: "Information",
			Value: fmt.Sprintf("Channel: <#%s>\nChannel ID: %s\nModerator: %s\nModerator ID: %s",
				channelID, channelID, mention(moderatorID), moderatorID),
		}},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// FormatMinutes renders d as minutes with two decimals.
func FormatMinutes(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Minutes())
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
