package player

import "fmt"

// Player is a registered amateur footballer with season-long tallies.
// SeasonPoints carries league points (3 win / 1 draw) plus MOTM bonuses;
// TotalRatings and RatingCount aggregate received peer ratings.
type Player struct {
	ID           string
	Name         string
	SeasonPoints int
	MotmCount    int
	TotalRatings int
	RatingCount  int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

// AverageRating is the received-rating mean, zero before the first rating.
func (p Player) AverageRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.TotalRatings) / float64(p.RatingCount)
}
