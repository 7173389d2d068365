package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"modbot/tasks/verification"
	"modbot/utils"
)

const captchaFileName = "captcha.png"

// VerificationWelcomeEmbed introduces the captcha sent to a new member.
func VerificationWelcomeEmbed(guildName string, seconds int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Welcome to " + guildName,
		Description: fmt.Sprintf("Before you can talk on the server, reply to this message with the digits "+
			"shown in the image below. You have %d seconds.", seconds),
		Color: 0x5865F2,
		Image: &discordgo.MessageEmbedImage{URL: "attachment://" + captchaFileName},
	}
}

// StartVerification sends a new captcha to the member and starts its timer.
func (b *Bot) StartVerification(ctx context.Context, guildID, userID string) error {
	cfg := b.GetConfig().Verification

	var image bytes.Buffer
	answer, err := verification.NewCaptcha(&image, verification.CaptchaOptions{
		Length: cfg.CaptchaLength,
		Width:  cfg.CaptchaWidth,
		Height: cfg.CaptchaHeight,
	})
	if err != nil {
		return err
	}

	guildName := "the server"
	if guild, err := b.Session.State.Guild(guildID); err == nil {
		guildName = guild.Name
	}

	// The challenge must exist before the member can read the image.
	if _, err := b.Verifier.Begin(guildID, userID, answer); err != nil {
		return err
	}
	err = utils.SendPrivateMessage(ctx, b.Session, userID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{VerificationWelcomeEmbed(guildName, int(cfg.Timeout.Seconds()))},
		Files:  []*discordgo.File{{Name: captchaFileName, ContentType: "image/png", Reader: &image}},
	})
	if err != nil {
		b.Verifier.Cancel(userID)
		return err
	}
	return nil
}

// AnswerVerification checks a direct message against the author's pending
// captcha. It reports whether the author had one.
func (b *Bot) AnswerVerification(ctx context.Context, userID, reply string) bool {
	challenge, ok, err := b.Verifier.Answer(userID, reply)
	if errors.Is(err, verification.ErrNoChallenge) {
		return false
	}
	if !ok {
		b.sendDirectText(ctx, userID, ":x: That is not right, try again.")
		return true
	}

	if err := b.Actions.GrantHuman(ctx, challenge.GuildID, userID); err != nil {
		slog.Error("Failed to grant human role", "guild_id", challenge.GuildID, "user_id", userID, "error", err)
		b.ModLog.LogError(ctx, "Verification", "Grant role",
			fmt.Sprintf("<@%s> solved the captcha but could not be given the human role: %v", userID, err))
		b.sendDirectText(ctx, userID, ":x: You solved the captcha, but I could not give you access. Please contact the staff.")
		return true
	}
	slog.Info("Member verified", "guild_id", challenge.GuildID, "user_id", userID)
	b.sendDirectText(ctx, userID, ":white_check_mark: Verification completed! You can now talk on the server.")
	return true
}

func (b *Bot) onVerificationTimeout(challenge verification.Challenge) {
	ctx, cancel := b.CommandContext()
	defer cancel()
	b.sendDirectText(ctx, challenge.UserID,
		":hourglass: Verification failed because you ran out of time. Run `/verify` on the server to try again.")
}

func (b *Bot) sendDirectText(ctx context.Context, userID, text string) {
	if err := utils.SendPrivateMessage(ctx, b.Session, userID, &discordgo.MessageSend{Content: text}); err != nil {
		slog.Warn("Failed to send verification message", "user_id", userID, "error", err)
	}
}
