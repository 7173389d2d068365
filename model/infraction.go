package model

import "time"

// ActionKind is the type of enforcement recorded for an infraction.
type ActionKind string

const (
	ActionKick    ActionKind = "kick"
	ActionBan     ActionKind = "ban"
	ActionMute    ActionKind = "mute"
	ActionTempban ActionKind = "tempban"
)

// Valid reports whether k is one of the known action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionKick, ActionBan, ActionMute, ActionTempban:
		return true
	}
	return false
}

// Temporary reports whether the action is lifted once it expires.
func (k ActionKind) Temporary() bool {
	return k == ActionMute || k == ActionTempban
}

// Title is the human readable name of the action.
func (k ActionKind) Title() string {
	switch k {
	case ActionKick:
		return "Kick"
	case ActionBan:
		return "Permanent ban"
	case ActionTempban:
		return "Temporary ban"
	case ActionMute:
		return "Mute"
	}
	return string(k)
}

// Infraction represents a single row of the 'infractions' table.
// Rows are written once; only Active changes afterwards.
type Infraction struct {
	InfractionID int64      `db:"infraction_id"` // Primary Key, Auto-increment
	GuildID      string     `db:"guild_id"`
	ModeratorID  string     `db:"moderator_id"`
	InfractorID  string     `db:"infractor_id"`
	ActionType   ActionKind `db:"action_type"`
	Reason       string     `db:"reason"`
	Hidden       bool       `db:"hidden"`
	InsertedAt   int64      `db:"inserted_at"` // unix seconds
	ExpiresAt    *int64     `db:"expires_at"`  // unix seconds, nil when permanent
	Active       bool       `db:"active"`
}

// InsertedTime returns InsertedAt as a time.Time.
func (i Infraction) InsertedTime() time.Time {
	return time.Unix(i.InsertedAt, 0)
}

// ExpiresTime returns the expiry and whether one is set.
func (i Infraction) ExpiresTime() (time.Time, bool) {
	if i.ExpiresAt == nil {
		return time.Time{}, false
	}
	return time.Unix(*i.ExpiresAt, 0), true
}

// ExpiryText formats when the infraction ends.
func (i Infraction) ExpiryText() string {
	if expires, ok := i.ExpiresTime(); ok {
		return expires.UTC().Format(time.RFC1123)
	}
	if i.ActionType == ActionKick {
		return "Right now"
	}
	return "N/A"
}
