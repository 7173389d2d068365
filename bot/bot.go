package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"golang.org/x/time/rate"

	"modbot/model"
	"modbot/moderation"
	"modbot/scanner"
	"modbot/tasks/silence"
	"modbot/tasks/verification"
	"modbot/utils"
	"modbot/utils/database/infractions"
	"modbot/utils/database/members"
	"modbot/utils/database/tags"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	DB          *sqlx.DB
	Store       *infractions.Store
	Actions     *utils.DiscordActions
	ModLog      *utils.ModLog
	Silences    *silence.Locker
	Moderation  *moderation.Service
	ActionLocks *utils.ActionLocks
	Sweeper     *scanner.ExpirySweeper
	Tags        *tags.Store
	Members     *members.Store
	Filter      *moderation.MessageFilter
	Verifier    *verification.Verifier
	StartedAt   time.Time

	scheduler *Scheduler
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetStore() *infractions.Store {
	return b.Store
}

func (b *Bot) GetSweeper() *scanner.ExpirySweeper {
	return b.Sweeper
}

func (b *Bot) GetActionLocks() *utils.ActionLocks {
	return b.ActionLocks
}

func (b *Bot) GetModLog() *utils.ModLog {
	return b.ModLog
}

// Serves reports whether events from guildID are handled. Every guild is
// served when no guild IDs are configured.
func (b *Bot) Serves(guildID string) bool {
	guildIDs := b.GetConfig().GuildIDs
	return len(guildIDs) == 0 || slices.Contains(guildIDs, guildID)
}

// SelfID returns the bot user's ID once the session is ready.
func (b *Bot) SelfID() string {
	if b.Session.State != nil && b.Session.State.User != nil {
		return b.Session.State.User.ID
	}
	return ""
}

// CommandContext returns a context bounded by the configured command timeout.
func (b *Bot) CommandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.GetConfig().CommandTimeout)
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = GatewayIntents(cfg)
	if cfg.MessageLogChannelID != "" {
		dg.State.MaxMessageCount = cfg.MessageCacheSize
	}

	filter, err := moderation.NewMessageFilter(cfg.Filter.OffensiveWordsRegex, cfg.Filter.AllowedExtensions)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Session:     dg,
		DB:          db,
		Store:       infractions.NewStore(db),
		Tags:        tags.NewStore(db),
		Members:     members.NewStore(db),
		Filter:      filter,
		Actions:     utils.NewDiscordActions(dg, cfg.Roles.Human, cfg.Roles.Muted, cfg.RankTable),
		ModLog:      utils.NewModLog(dg, cfg.ManagementChannelID, cfg.ModLogChannelID),
		ActionLocks: utils.NewActionLocks(cfg.ActionCooldown),
		StartedAt:   time.Now(),
	}
	b.ModLog.MemberLogChannelID = cfg.MemberLogChannelID
	b.ModLog.MessageLogChannelID = cfg.MessageLogChannelID
	b.config.Store(cfg)

	b.Verifier = verification.NewVerifier(cfg.Verification.Timeout,
		verification.WithTimeoutFunc(b.onVerificationTimeout),
	)

	b.Silences = silence.NewLocker(b.Actions,
		silence.WithReleaseTimeout(cfg.CommandTimeout),
		silence.WithExpireFunc(b.onSilenceExpired),
	)

	var limiter *rate.Limiter
	if cfg.DMRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.DMRatePerSecond), cfg.DMBurst)
	}
	b.Moderation = moderation.NewService(
		moderation.NewLedger(b.Store, cfg.MaxReasonLength),
		moderation.NewDispatcher(b.Actions, limiter),
		b.Actions,
		b.ModLog,
		b.ActionLocks,
	)

	b.Sweeper = scanner.NewExpirySweeper(b.Store, b.Actions)
	b.Sweeper.OnLifted = func(ctx context.Context, infraction model.Infraction) {
		b.ModLog.LogInfo(ctx, "Infractions", "Expired",
			fmt.Sprintf("Lifted %s #%d for <@%s>", infraction.ActionType.Title(), infraction.InfractionID, infraction.InfractorID))
	}

	b.scheduler = NewScheduler(b)
	return b, nil
}

func (b *Bot) onSilenceExpired(entry silence.Entry, err error) {
	ctx, cancel := b.CommandContext()
	defer cancel()

	if err != nil {
		b.ModLog.LogError(ctx, "Silence", "Auto release",
			fmt.Sprintf("Could not lift the silence on <#%s>: %v", entry.ChannelID, err))
		return
	}
	if _, err := b.Session.ChannelMessageSend(entry.ChannelID, ":white_check_mark: This channel is now unsilenced.", discordgo.WithContext(ctx)); err != nil {
		slog.Warn("Failed to announce unsilence", "channel_id", entry.ChannelID, "error", err)
	}
	b.ModLog.ReportUnsilence(ctx, entry.ChannelID, b.SelfID())
}

// Close stops background work, lifts active silences and disconnects.
func (b *Bot) Close() {
	slog.Info("Gracefully shutting down.")
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	b.Verifier.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := b.Silences.Close(ctx); err != nil {
		slog.Error("Failed to lift silences on shutdown", "error", err)
	}

	if err := b.Session.Close(); err != nil {
		slog.Error("Error closing Discord session", "error", err)
	}
	if err := b.DB.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}
}
