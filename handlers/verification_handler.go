package handlers

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/tasks/verification"
	"modbot/utils"
)

// VerifyHandler serves /verify, sending a fresh captcha by direct message.
func VerifyHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cfg := b.GetConfig()
	if !cfg.Verification.Enabled {
		utils.SendErrorResponse(s, i, "Verification is not enabled on this server.")
		return
	}
	if slices.Contains(i.Member.Roles, cfg.Roles.Human) {
		utils.SendErrorResponse(s, i, "You are already verified.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		slog.Error("Failed to defer interaction", "error", err)
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	if err := b.StartVerification(ctx, i.GuildID, i.Member.User.ID); err != nil {
		slog.Warn("Failed to start verification", "user_id", i.Member.User.ID, "error", err)
		utils.SendFollowUpError(s, i.Interaction, verifyErrorReply(err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, ":envelope: Check your direct messages for the captcha.")
}

func verifyErrorReply(err error) string {
	switch {
	case errors.Is(err, utils.ErrDirectMessagesClosed):
		return "I could not send you a direct message. Allow direct messages from server members and run `/verify` again."
	case errors.Is(err, verification.ErrClosed):
		return "The bot is shutting down."
	default:
		return "Could not start the verification, please try again later."
	}
}
