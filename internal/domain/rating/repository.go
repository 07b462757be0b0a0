package rating

import "context"

// Repository persists peer ratings.
type Repository interface {
	CreateAll(ctx context.Context, ratings []Rating) error
	ListByMatchAndRater(ctx context.Context, matchID, raterID string) ([]Rating, error)
	ListByMatch(ctx context.Context, matchID string) ([]Rating, error)
}
