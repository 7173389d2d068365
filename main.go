package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"modbot/bot"
	"modbot/config"
	"modbot/handlers"
	"modbot/utils"
	"modbot/utils/database/infractions"
	"modbot/utils/database/members"
	"modbot/utils/database/tags"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, err := utils.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("Invalid log level", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(os.Stdout, level)
	slog.SetDefault(logger)
	discordgo.Logger = utils.DiscordgoLogger(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		slog.Error("Failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := infractions.Init(cfg.DatabasePath)
	if err != nil {
		slog.Error("Error initializing database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	for _, create := range []func(*sqlx.DB) error{tags.CreateTables, members.CreateTables} {
		if err := create(db); err != nil {
			slog.Error("Error initializing database", "path", cfg.DatabasePath, "error", err)
			os.Exit(1)
		}
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		slog.Error("Error creating bot", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	handlers.Register(b)

	if err := b.Run(); err != nil {
		slog.Error("Bot stopped with error", "error", err)
	}
}
