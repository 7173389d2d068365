package moderation

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestDispatcher_Notify(t *testing.T) {
	messenger := newFakeMessenger()
	dispatcher := NewDispatcher(messenger, nil)

	outcome := dispatcher.Notify(context.Background(), "user", &discordgo.MessageEmbed{Title: "hi"})
	assert.Equal(t, Delivered, outcome)
	assert.Equal(t, 1, messenger.count("user"))
}

func TestDispatcher_NotifyUndeliverable(t *testing.T) {
	messenger := newFakeMessenger()
	messenger.err = errDMsClosed
	dispatcher := NewDispatcher(messenger, nil)

	outcome := dispatcher.Notify(context.Background(), "user", &discordgo.MessageEmbed{Title: "hi"})
	assert.Equal(t, Undeliverable, outcome)
	assert.Equal(t, "undeliverable", outcome.String())
}

func TestDispatcher_NotifyRateLimited(t *testing.T) {
	messenger := newFakeMessenger()
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	dispatcher := NewDispatcher(messenger, limiter)

	assert.Equal(t, Delivered, dispatcher.Notify(context.Background(), "user", &discordgo.MessageEmbed{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, Undeliverable, dispatcher.Notify(ctx, "user", &discordgo.MessageEmbed{}))
	assert.Equal(t, 1, messenger.count("user"))
}

func TestOutcome_String(t *testing.T) {
	var zero Outcome
	assert.Equal(t, "not attempted", zero.String())
	assert.Equal(t, "delivered", Delivered.String())
}
