package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
	"modbot/scanner"
	"modbot/tasks"
	"modbot/utils"
	"modbot/utils/database/infractions"
)

const (
	lockCleanupInterval = 10 * time.Minute
	statsPeriod         = 24 * time.Hour
	// dailyReportHour is the local hour at which infraction statistics are posted.
	dailyReportHour = 5
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetSession() *discordgo.Session
	GetStore() *infractions.Store
	GetSweeper() *scanner.ExpirySweeper
	GetActionLocks() *utils.ActionLocks
	GetModLog() *utils.ModLog
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot  BotProvider
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.startScheduledTasks()
	go s.startDailyTasks()
}

// Stop terminates all scheduled tasks gracefully. It is safe to call more
// than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		slog.Info("Stopping scheduler...")
		close(s.done)
		s.wg.Wait()
		slog.Info("Scheduler stopped.")
	})
}

// context returns a context cancelled when the scheduler stops.
func (s *Scheduler) context() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (s *Scheduler) startScheduledTasks() {
	defer s.wg.Done()
	sweepTicker := time.NewTicker(s.bot.GetConfig().TempbanSweepInterval)
	lockCleanupTicker := time.NewTicker(lockCleanupInterval)
	defer sweepTicker.Stop()
	defer lockCleanupTicker.Stop()

	// Catch up on anything that expired while the bot was offline.
	s.sweepExpired()

	for {
		select {
		case <-sweepTicker.C:
			s.sweepExpired()
		case <-lockCleanupTicker.C:
			s.bot.GetActionLocks().Cleanup()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) sweepExpired() {
	ctx, cancel := s.context()
	defer cancel()

	lifted, err := s.bot.GetSweeper().Sweep(ctx)
	if err != nil {
		slog.Error("Expiry sweep finished with errors", "lifted", lifted, "error", err)
		s.bot.GetModLog().LogWarn(ctx, "Infractions", "Expiry sweep", err.Error())
		return
	}
	if lifted > 0 {
		slog.Info("Expiry sweep finished", "lifted", lifted)
	}
}

func (s *Scheduler) startDailyTasks() {
	defer s.wg.Done()
	for {
		now := time.Now()
		next := nextDailyRun(now, dailyReportHour)
		slog.Info("Next daily task scheduled", "at", next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			s.runDailyInfractionReport()
		case <-s.done:
			timer.Stop()
			return
		}
	}
}

// nextDailyRun returns the next time at hour:00 strictly after now.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) runDailyInfractionReport() {
	cfg := s.bot.GetConfig()
	if cfg.ManagementChannelID == "" {
		return
	}
	slog.Info("Running daily infraction report...")

	ctx, cancel := s.context()
	defer cancel()
	for _, guildID := range cfg.GuildIDs {
		tasks.PostInfractionStats(ctx, s.bot.GetSession(), s.bot.GetStore(), cfg.ManagementChannelID, guildID, statsPeriod)
	}
}
