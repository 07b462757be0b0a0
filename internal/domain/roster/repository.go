package roster

import (
	"context"

	"github.com/dimasprk/matchday/internal/domain/match"
)

// Repository persists roster rows. The guarded writes enforce the per-side
// capacity invariant at the storage boundary: the count of approved rows for
// one (match, side) never exceeds the cap, no matter how many callers race.
type Repository interface {
	GetByID(ctx context.Context, id string) (MatchPlayer, bool, error)
	GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (MatchPlayer, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]MatchPlayer, error)
	ListApprovedByMatch(ctx context.Context, matchID string) ([]MatchPlayer, error)
	CountApprovedBySide(ctx context.Context, matchID string, side match.TeamSide) (int, error)

	// CreateIfCapacity inserts a pending row only while the side's approved
	// count is below maxApproved. False means the side is full.
	CreateIfCapacity(ctx context.Context, p MatchPlayer, maxApproved int) (bool, error)

	// ApproveIfCapacity flips a pending row to approved only while the side's
	// approved count is below maxApproved. False means the row was not
	// pending or the side is full.
	ApproveIfCapacity(ctx context.Context, id string, maxApproved int) (MatchPlayer, bool, error)

	// Decline flips a pending row to declined. False means the row was not
	// pending.
	Decline(ctx context.Context, id string) (MatchPlayer, bool, error)
}
