package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]Player, error)

	// AddSeasonPoints adds the same point delta to every listed player.
	AddSeasonPoints(ctx context.Context, ids []string, points int) error

	// IncrementMotm bumps the player's MOTM tally by one.
	IncrementMotm(ctx context.Context, id string) error

	// AddRatingStats folds one received rating into the player's aggregates.
	AddRatingStats(ctx context.Context, id string, value int) error
}
