package roster

import (
	"fmt"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
)

// JoinStatus is the lifecycle of a roster spot request.
type JoinStatus string

const (
	JoinPending  JoinStatus = "pending"
	JoinApproved JoinStatus = "approved"
	JoinDeclined JoinStatus = "declined"
)

// MatchPlayer is one player's spot (or spot request) on one side of a match.
// Rows are created pending, resolved by the side's captain, never deleted.
type MatchPlayer struct {
	ID         string
	MatchID    string
	PlayerID   string
	TeamSide   match.TeamSide
	JoinStatus JoinStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p MatchPlayer) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("match player id is required")
	}
	if p.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if p.PlayerID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamSide != match.SideA && p.TeamSide != match.SideB {
		return fmt.Errorf("team side %q is not valid", p.TeamSide)
	}

	return nil
}
