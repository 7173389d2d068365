package bot

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"modbot/commands"
)

// Run connects to Discord, registers the slash commands and blocks until the
// process receives SIGINT or SIGTERM.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	b.RegisterCommands()
	b.scheduler.Start()

	slog.Info("Bot is now running. Press CTRL-C to exit.")
	ctx, cancel := b.CommandContext()
	b.ModLog.LogInfo(ctx, "System", "Startup", "Bot has started successfully.")
	cancel()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

// RegisterCommands overwrites the slash commands in every configured guild,
// or globally when no guild is configured.
func (b *Bot) RegisterCommands() {
	appID := b.SelfID()
	cmds := commands.GenerateCommands()
	b.RegisteredCommands = make([]*discordgo.ApplicationCommand, 0, len(cmds))

	guildIDs := b.GetConfig().GuildIDs
	if len(guildIDs) == 0 {
		guildIDs = []string{""}
	}
	for _, guildID := range guildIDs {
		ctx, cancel := b.CommandContext()
		registered, err := b.Session.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx))
		cancel()
		if err != nil {
			slog.Error("Cannot register commands", "guild_id", guildID, "error", err)
			continue
		}
		slog.Info("Registered commands", "guild_id", guildID, "count", len(registered))
		b.RegisteredCommands = append(b.RegisteredCommands, registered...)
	}
}
