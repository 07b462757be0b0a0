package motm

import (
	"fmt"
	"time"
)

// Vote is one participant's Man-of-the-Match pick. At most one vote exists
// per (match, voter); rows are append-only.
type Vote struct {
	ID            string
	MatchID       string
	VoterID       string
	VotedPlayerID string
	CreatedAt     time.Time
}

func (v Vote) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vote id is required")
	}
	if v.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if v.VoterID == "" {
		return fmt.Errorf("voter id is required")
	}
	if v.VotedPlayerID == "" {
		return fmt.Errorf("voted player id is required")
	}

	return nil
}
