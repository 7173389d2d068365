package handlers

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/handlers/punish"
	"modbot/handlers/silence"
	"modbot/handlers/tags"
)

type commandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

// with binds a handler that needs the bot.
func with(b *bot.Bot, h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) commandHandler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		h(s, i, b)
	}
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	handlers := map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"silence":          with(b, silence.HandleSilenceCommand),
		"lock":             with(b, silence.HandleSilenceCommand),
		"unsilence":        with(b, silence.HandleUnsilenceCommand),
		"unlock":           with(b, silence.HandleUnsilenceCommand),
		"hackban":          with(b, punish.HandleHackBanCommand),
		"infractions":      with(b, punish.HandleInfractionsCommand),
		"infraction":       with(b, punish.HandleInfractionCommand),
		"infraction-stats": with(b, punish.HandleInfractionStatsCommand),
		"system-info":      with(b, SystemInfoHandler),
		"tag":              with(b, tags.HandleTagCommand),
		"tags":             with(b, tags.HandleTagsCommand),
		"tag-set":          with(b, tags.HandleTagSetCommand),
		"tag-delete":       with(b, tags.HandleTagDeleteCommand),
		"verify":           with(b, VerifyHandler),
	}
	for _, name := range punish.CommandNames() {
		handlers[name] = with(b, punish.HandleActionCommand)
	}
	return handlers
}

// autocompleteHandlers are keyed by command name.
func autocompleteHandlers(b *bot.Bot) map[string]commandHandler {
	return map[string]commandHandler{
		"tag":        with(b, tags.HandleTagAutocomplete),
		"tag-delete": with(b, tags.HandleTagAutocomplete),
	}
}

func addHandlers(b *bot.Bot) {
	autocomplete := autocompleteHandlers(b)

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Logged in", "user", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		// Slash commands are guild-only.
		if i.Member == nil || i.Member.User == nil {
			return
		}
		var (
			h  commandHandler
			ok bool
		)
		name := ""
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name = i.ApplicationCommandData().Name
			h, ok = b.CommandHandlers[name]
			if !ok {
				slog.Warn("No handler for command", "command", name)
				return
			}
		case discordgo.InteractionApplicationCommandAutocomplete:
			name = i.ApplicationCommandData().Name
			if h, ok = autocomplete[name]; !ok {
				return
			}
		default:
			return
		}
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Command handler panicked", "command", name, "panic", r)
				b.ModLog.LogError(context.Background(), "Commands", name, "The command handler panicked, see the logs.")
			}
		}()
		h(s, i)
	})
	addEventHandlers(b)
}
