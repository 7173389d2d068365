package moderation

import (
	"errors"
	"fmt"
)

var ErrHierarchyViolation = errors.New("role hierarchy violation")

// Member is a guild member reduced to what the hierarchy check needs.
type Member struct {
	ID   string
	Rank int
}

// RespectsHierarchy reports whether actor may act on target through agent.
// Self-targeting is always refused, the agent must rank at least as high as
// the target and the actor strictly higher.
func RespectsHierarchy(actor, target, agent Member) bool {
	return actor.ID != target.ID &&
		agent.Rank >= target.Rank &&
		actor.Rank > target.Rank
}

// CheckHierarchy is RespectsHierarchy with an explanatory error.
func CheckHierarchy(actor, target, agent Member) error {
	switch {
	case actor.ID == target.ID:
		return fmt.Errorf("%w: you can't target yourself", ErrHierarchyViolation)
	case actor.Rank <= target.Rank:
		return fmt.Errorf("%w: you can only act on people with a role below yours", ErrHierarchyViolation)
	case agent.Rank < target.Rank:
		return fmt.Errorf("%w: I can't act on a member with a higher role than mine", ErrHierarchyViolation)
	}
	return nil
}
