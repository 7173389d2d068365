package moderation

import (
	"context"
	"errors"
	"fmt"

	"modbot/model"
	"modbot/utils"
)

const DefaultMaxReasonLength = 512

var (
	ErrPersistence   = errors.New("failed to persist infraction")
	ErrUnknownAction = errors.New("unknown infraction action")
)

// Store appends infraction rows.
type Store interface {
	Insert(ctx context.Context, infraction model.Infraction) (int64, error)
}

// Ledger records enforcement actions that already happened. It never
// updates or deletes a row.
type Ledger struct {
	store           Store
	maxReasonLength int
}

func NewLedger(store Store, maxReasonLength int) *Ledger {
	// Shorter limits leave no room for the "..." marker.
	if maxReasonLength <= 3 {
		maxReasonLength = DefaultMaxReasonLength
	}
	return &Ledger{store: store, maxReasonLength: maxReasonLength}
}

// Record stores the infraction and returns its ID. Store failures are
// returned wrapped in ErrPersistence and are not retried.
func (l *Ledger) Record(ctx context.Context, infraction model.Infraction) (int64, error) {
	if !infraction.ActionType.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, infraction.ActionType)
	}
	infraction = l.Normalize(infraction)

	id, err := l.store.Insert(ctx, infraction)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return id, nil
}

// Normalize returns infraction the way Record stores it: no ID, reason
// truncated and Active derived from the action.
func (l *Ledger) Normalize(infraction model.Infraction) model.Infraction {
	infraction.InfractionID = 0
	infraction.Reason = TruncateReason(infraction.Reason, l.maxReasonLength)
	// Kicks are over as soon as they happen.
	infraction.Active = infraction.ActionType != model.ActionKick
	return infraction
}

// TruncateReason shortens reason to at most max characters, ending the
// shortened text with "...".
func TruncateReason(reason string, max int) string {
	return utils.Shorten(reason, max)
}
