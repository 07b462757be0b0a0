package motm

import "context"

// Repository persists MOTM votes.
type Repository interface {
	// CreateIfFirst inserts the vote unless the voter already voted in this
	// match. False means a duplicate was rejected.
	CreateIfFirst(ctx context.Context, v Vote) (bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Vote, error)
	CountByMatch(ctx context.Context, matchID string) (int, error)
}
