package rating

import (
	"fmt"
	"time"
)

const (
	// MinValue and MaxValue bound a single rating.
	MinValue = 1
	MaxValue = 10

	// BudgetPerOpponent caps the total a rater may hand out in one match:
	// opponentCount * BudgetPerOpponent. Deliberately below the naive
	// opponentCount * MaxValue so uniform-10 inflation is impossible while
	// generous scores remain.
	BudgetPerOpponent = 7

	// MaxTargetsPerSubmission bounds one submission's distinct rated players.
	MaxTargetsPerSubmission = 10
)

// Rating is one post-match peer rating of an opponent. Append-only.
type Rating struct {
	ID        string
	MatchID   string
	RaterID   string
	RatedID   string
	Value     int
	CreatedAt time.Time
}

func (r Rating) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rating id is required")
	}
	if r.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if r.RaterID == "" {
		return fmt.Errorf("rater id is required")
	}
	if r.RatedID == "" {
		return fmt.Errorf("rated player id is required")
	}
	if r.Value < MinValue || r.Value > MaxValue {
		return fmt.Errorf("rating value must be between %d and %d", MinValue, MaxValue)
	}

	return nil
}

// Budget returns the total rating points available against opponentCount.
func Budget(opponentCount int) int {
	if opponentCount < 0 {
		return 0
	}
	return opponentCount * BudgetPerOpponent
}
