package silence

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	lock "modbot/tasks/silence"
	"modbot/utils"
)

// HandleSilenceCommand serves /silence and /lock.
func HandleSilenceCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cfg := b.GetConfig()
	if !utils.IsStaff(i.Member, cfg.Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to silence channels.")
		return
	}

	var duration string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "duration" {
			duration = opt.StringValue()
		}
	}
	now := time.Now()
	until, err := utils.ParseUntil(duration, now, cfg.SilenceFallback())
	if err != nil {
		utils.SendErrorResponse(s, i, "Invalid duration specified. Use a format like `10m` or `1h30m`.")
		return
	}

	if err := utils.DeferResponse(s, i, false); err != nil {
		slog.Error("Failed to defer interaction", "error", err)
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	entry, err := b.Silences.Acquire(ctx, i.ChannelID, until, i.Member.User.ID)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, acquireErrorReply(err))
		if !errors.Is(err, lock.ErrAlreadyLocked) {
			slog.Error("Failed to silence channel", "channel_id", i.ChannelID, "error", err)
		}
		return
	}
	utils.SendFollowUp(s, i.Interaction, silencedReply(entry))
	b.ModLog.ReportSilence(ctx, entry.ChannelID, entry.ModeratorID, entry.ExpiresAt)
}

// HandleUnsilenceCommand serves /unsilence and /unlock.
func HandleUnsilenceCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !utils.IsStaff(i.Member, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to unsilence channels.")
		return
	}

	if err := utils.DeferResponse(s, i, false); err != nil {
		slog.Error("Failed to defer interaction", "error", err)
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	if _, err := b.Silences.Release(ctx, i.ChannelID, i.Member.User.ID); err != nil {
		utils.SendFollowUpError(s, i.Interaction, releaseErrorReply(err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, ":white_check_mark: This channel is now unsilenced.")
	b.ModLog.ReportUnsilence(ctx, i.ChannelID, i.Member.User.ID)
}

func silencedReply(entry lock.Entry) string {
	return fmt.Sprintf(":white_check_mark: This channel is silenced for %s minutes.",
		utils.FormatMinutes(entry.ExpiresAt.Sub(entry.AcquiredAt)))
}

func acquireErrorReply(err error) string {
	switch {
	case errors.Is(err, lock.ErrAlreadyLocked):
		return "This channel is already silenced."
	case errors.Is(err, lock.ErrClosed):
		return "The bot is shutting down."
	}
	return "Could not silence this channel. Check the bot's permissions."
}

func releaseErrorReply(err error) string {
	switch {
	case errors.Is(err, lock.ErrNotLocked):
		return "This channel is not silenced."
	case errors.Is(err, lock.ErrClosed):
		return "The bot is shutting down."
	}
	return "The silence was lifted but the channel permissions could not be restored. Check the bot's permissions."
}
