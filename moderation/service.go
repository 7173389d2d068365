package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"modbot/model"
	"modbot/utils"
)

const DefaultReason = "No reason specified."

var (
	ErrActionInProgress = errors.New("another moderation action on this user is in progress")
	ErrMissingExpiry    = errors.New("temporary actions need an expiry")
)

// Enforcer performs the platform side of an infraction.
type Enforcer interface {
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Mute(ctx context.Context, guildID, userID, reason string) error
}

// Reporter publishes recorded infractions to the staff channels.
type Reporter interface {
	ReportInfraction(ctx context.Context, infraction model.Infraction)
}

// Request describes one enforcement requested by a moderator.
type Request struct {
	GuildID   string
	GuildName string
	Moderator Member
	Target    Member
	Agent     Member
	// TargetAbsent is set for users outside the guild; only self-targeting
	// is checked for them since they hold no roles.
	TargetAbsent bool
	Action       model.ActionKind
	Reason       string
	Hidden       bool
	ExpiresAt    *time.Time
}

// Result is what Enforce did.
type Result struct {
	Infraction   model.Infraction
	Notification Outcome
}

// Service runs the enforcement sequence: hierarchy check, platform action,
// ledger record, then notification and report.
type Service struct {
	ledger     *Ledger
	dispatcher *Dispatcher
	enforcer   Enforcer
	reporter   Reporter
	locks      *utils.ActionLocks
	now        func() time.Time
}

func NewService(ledger *Ledger, dispatcher *Dispatcher, enforcer Enforcer, reporter Reporter, locks *utils.ActionLocks) *Service {
	return &Service{
		ledger:     ledger,
		dispatcher: dispatcher,
		enforcer:   enforcer,
		reporter:   reporter,
		locks:      locks,
		now:        time.Now,
	}
}

func (s *Service) Enforce(ctx context.Context, req Request) (Result, error) {
	if !req.Action.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if req.Action.Temporary() && req.ExpiresAt == nil {
		return Result{}, ErrMissingExpiry
	}

	if req.TargetAbsent {
		if req.Moderator.ID == req.Target.ID {
			return Result{}, fmt.Errorf("%w: you can't target yourself", ErrHierarchyViolation)
		}
	} else if err := CheckHierarchy(req.Moderator, req.Target, req.Agent); err != nil {
		return Result{}, err
	}

	lockKey := req.GuildID + ":" + req.Target.ID
	if s.locks != nil && !s.locks.CheckAndSet(lockKey) {
		return Result{}, ErrActionInProgress
	}

	reason := req.Reason
	if reason == "" {
		reason = DefaultReason
	}
	reason = TruncateReason(reason, s.ledger.maxReasonLength)

	if err := s.apply(ctx, req, reason); err != nil {
		if s.locks != nil {
			s.locks.Release(lockKey)
		}
		return Result{}, fmt.Errorf("failed to %s user %s: %w", req.Action, req.Target.ID, err)
	}

	infraction := model.Infraction{
		GuildID:     req.GuildID,
		ModeratorID: req.Moderator.ID,
		InfractorID: req.Target.ID,
		ActionType:  req.Action,
		Reason:      reason,
		Hidden:      req.Hidden,
		InsertedAt:  s.now().Unix(),
	}
	if req.ExpiresAt != nil {
		expires := req.ExpiresAt.Unix()
		infraction.ExpiresAt = &expires
	}

	infraction = s.ledger.Normalize(infraction)

	id, err := s.ledger.Record(ctx, infraction)
	if err != nil {
		// The platform action stands; the row has to be added by hand.
		slog.Error("Infraction applied but not recorded",
			"guild_id", infraction.GuildID,
			"moderator_id", infraction.ModeratorID,
			"infractor_id", infraction.InfractorID,
			"action", infraction.ActionType,
			"reason", infraction.Reason,
			"hidden", infraction.Hidden,
			"inserted_at", infraction.InsertedAt,
			"expires_at", infraction.ExpiryText(),
			"error", err,
		)
		return Result{Infraction: infraction}, err
	}
	infraction.InfractionID = id

	result := Result{Infraction: infraction}
	if !req.Hidden && s.dispatcher != nil {
		result.Notification = s.dispatcher.Notify(ctx, req.Target.ID, InfractionNotice(req.GuildName, infraction))
	}
	if s.reporter != nil {
		s.reporter.ReportInfraction(ctx, infraction)
	}

	slog.Info("Infraction recorded",
		"infraction_id", id,
		"guild_id", infraction.GuildID,
		"action", infraction.ActionType,
		"infractor_id", infraction.InfractorID,
		"moderator_id", infraction.ModeratorID,
		"notification", result.Notification.String(),
	)
	return result, nil
}

func (s *Service) apply(ctx context.Context, req Request, reason string) error {
	switch req.Action {
	case model.ActionKick:
		return s.enforcer.Kick(ctx, req.GuildID, req.Target.ID, reason)
	case model.ActionBan, model.ActionTempban:
		return s.enforcer.Ban(ctx, req.GuildID, req.Target.ID, reason)
	case model.ActionMute:
		return s.enforcer.Mute(ctx, req.GuildID, req.Target.ID, reason)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
}
