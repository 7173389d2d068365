package moderation

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Outcome is the result of a best-effort notification.
type Outcome int

// The zero Outcome means no notification was attempted.
const (
	Delivered Outcome = iota + 1
	Undeliverable
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Undeliverable:
		return "undeliverable"
	}
	return "not attempted"
}

// Messenger sends a direct message to a user.
type Messenger interface {
	SendDirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error
}

// Dispatcher delivers direct messages. Failures are logged and reported as
// Undeliverable, never as errors.
type Dispatcher struct {
	messenger Messenger
	limiter   *rate.Limiter
}

// NewDispatcher creates a dispatcher. A nil limiter disables rate limiting.
func NewDispatcher(messenger Messenger, limiter *rate.Limiter) *Dispatcher {
	return &Dispatcher{messenger: messenger, limiter: limiter}
}

func (d *Dispatcher) Notify(ctx context.Context, userID string, embed *discordgo.MessageEmbed) Outcome {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			slog.Warn("Direct message dropped by rate limiter", "user_id", userID, "error", err)
			return Undeliverable
		}
	}
	if err := d.messenger.SendDirectMessage(ctx, userID, embed); err != nil {
		slog.Info("Direct message undeliverable", "user_id", userID, "error", err)
		return Undeliverable
	}
	return Delivered
}
