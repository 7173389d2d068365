package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrDirectMessagesClosed means the user does not accept DMs from the bot.
	ErrDirectMessagesClosed = errors.New("user does not accept direct messages")
	ErrMemberNotFound       = errors.New("member not found")
)

// SendPrivateEmbedMessage sends a direct message with an embed to a user.
func SendPrivateEmbedMessage(ctx context.Context, s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	return SendPrivateMessage(ctx, s, userID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

// SendPrivateMessage sends msg, which may carry files, as a direct message.
func SendPrivateMessage(ctx context.Context, s *discordgo.Session, userID string, msg *discordgo.MessageSend) error {
	channel, err := s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open private channel with user %s: %w", userID, classifyDMError(err))
	}
	if _, err := s.ChannelMessageSendComplex(channel.ID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send private message to user %s: %w", userID, classifyDMError(err))
	}
	return nil
}

func classifyDMError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil &&
		restErr.Message.Code == discordgo.ErrCodeCannotSendMessagesToThisUser {
		return fmt.Errorf("%w: %w", ErrDirectMessagesClosed, err)
	}
	return err
}

// IsGone reports whether err means the ban, member or user no longer exists,
// so there is nothing left to undo.
func IsGone(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownBan, discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
		return true
	}
	return false
}
