package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// StatsSource aggregates recorded infractions.
type StatsSource interface {
	CountSince(ctx context.Context, guildID string, since time.Time) (int, error)
	CountByModeratorSince(ctx context.Context, guildID string, since time.Time) (map[string]int, error)
}

// GenerateInfractionStatsEmbed summarises the infractions recorded in a guild
// over the last duration, busiest moderator first.
func GenerateInfractionStatsEmbed(ctx context.Context, src StatsSource, guildID string, duration time.Duration, now time.Time) (*discordgo.MessageEmbed, error) {
	since := now.Add(-duration)
	stats, err := src.CountByModeratorSince(ctx, guildID, since)
	if err != nil {
		return nil, err
	}
	total, err := src.CountSince(ctx, guildID, since)
	if err != nil {
		return nil, err
	}

	moderators := make([]string, 0, len(stats))
	for moderatorID := range stats {
		moderators = append(moderators, moderatorID)
	}
	sort.Slice(moderators, func(i, j int) bool {
		if stats[moderators[i]] != stats[moderators[j]] {
			return stats[moderators[i]] > stats[moderators[j]]
		}
		return moderators[i] < moderators[j]
	})

	var builder strings.Builder
	fmt.Fprintf(&builder, "### Infractions in the last %s\n", duration)
	fmt.Fprintf(&builder, "**Total: %d**\n\n", total)
	if len(moderators) > 0 {
		builder.WriteString("**By moderator:**\n")
	}
	for i, moderatorID := range moderators {
		fmt.Fprintf(&builder, "%d. <@%s>: %d\n", i+1, moderatorID, stats[moderatorID])
	}

	return &discordgo.MessageEmbed{
		Title:       "Infraction statistics",
		Description: builder.String(),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Color:       0x00ff00,
	}, nil
}

// PostInfractionStats sends the statistics embed for guildID to channelID.
func PostInfractionStats(ctx context.Context, s *discordgo.Session, src StatsSource, channelID, guildID string, duration time.Duration) {
	if channelID == "" {
		return
	}
	embed, err := GenerateInfractionStatsEmbed(ctx, src, guildID, duration, time.Now())
	if err != nil {
		slog.Error("Failed to generate infraction stats embed", "guild_id", guildID, "error", err)
		return
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		slog.Error("Failed to send infraction stats", "channel_id", channelID, "error", err)
	}
}
