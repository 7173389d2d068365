package model

type MemberEventKind string

const (
	MemberJoined MemberEventKind = "join"
	MemberLeft   MemberEventKind = "leave"
)

// MemberEvent is one join or leave of a guild member.
type MemberEvent struct {
	EventID    int64           `db:"event_id"`
	GuildID    string          `db:"guild_id"`
	UserID     string          `db:"user_id"`
	Kind       MemberEventKind `db:"kind"`
	OccurredAt int64           `db:"occurred_at"`
}
