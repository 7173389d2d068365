package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"modbot/model"
	"modbot/utils"
)

const defaultSweepConcurrency = 5

// ExpiredStore lists temporary infractions that have run out and flags them
// once lifted.
type ExpiredStore interface {
	ListExpired(ctx context.Context, now time.Time) ([]model.Infraction, error)
	MarkInactive(ctx context.Context, id int64) error
}

// Reverser lifts a temporary infraction on the platform.
type Reverser interface {
	Unban(ctx context.Context, guildID, userID string) error
	Unmute(ctx context.Context, guildID, userID string) error
}

// ExpirySweeper lifts expired tempbans and mutes.
type ExpirySweeper struct {
	store       ExpiredStore
	reverser    Reverser
	concurrency int
	now         func() time.Time
	// OnLifted is called for every infraction that was lifted and marked
	// inactive.
	OnLifted func(ctx context.Context, infraction model.Infraction)
}

func NewExpirySweeper(store ExpiredStore, reverser Reverser) *ExpirySweeper {
	return &ExpirySweeper{
		store:       store,
		reverser:    reverser,
		concurrency: defaultSweepConcurrency,
		now:         time.Now,
	}
}

// Sweep lifts every expired infraction and returns how many were lifted. A
// failure on one record does not stop the others; all failures are joined.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	expired, err := s.store.ListExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	results := make([]error, len(expired))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, infraction := range expired {
		i, infraction := i, infraction
		g.Go(func() error {
			results[i] = s.lift(gctx, infraction)
			return nil
		})
	}
	_ = g.Wait()

	lifted := 0
	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lifted++
	}
	return lifted, errors.Join(errs...)
}

func (s *ExpirySweeper) lift(ctx context.Context, infraction model.Infraction) error {
	var err error
	switch infraction.ActionType {
	case model.ActionTempban:
		err = s.reverser.Unban(ctx, infraction.GuildID, infraction.InfractorID)
	case model.ActionMute:
		err = s.reverser.Unmute(ctx, infraction.GuildID, infraction.InfractorID)
	default:
		slog.Warn("Skipping expiry of a permanent infraction", "infraction_id", infraction.InfractionID, "action", infraction.ActionType)
	}
	if err != nil && !utils.IsGone(err) {
		return fmt.Errorf("failed to lift infraction #%d: %w", infraction.InfractionID, err)
	}

	if err := s.store.MarkInactive(ctx, infraction.InfractionID); err != nil {
		return err
	}
	slog.Info("Lifted expired infraction",
		"infraction_id", infraction.InfractionID,
		"guild_id", infraction.GuildID,
		"user_id", infraction.InfractorID,
		"action", infraction.ActionType)
	if s.OnLifted != nil {
		s.OnLifted(ctx, infraction)
	}
	return nil
}
