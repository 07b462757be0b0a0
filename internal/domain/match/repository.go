package match

import "context"

// Repository describes match persistence needs from use cases.
//
// The conditional methods (BindOpponent, UpdateStatus, CloseMotmVoting) are
// compare-and-swap writes: they report false instead of mutating when the
// guard no longer holds, so concurrent racers get a deterministic loss.
type Repository interface {
	Create(ctx context.Context, m Match) error
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Match, error)

	// BindOpponent sets TeamBID and flips the match to confirmed, only while
	// TeamBID is still empty. Returns the post-write match and whether the
	// bind happened.
	BindOpponent(ctx context.Context, matchID, teamID string) (Match, bool, error)

	// UpdateStatus moves the match from one exact status to another.
	UpdateStatus(ctx context.Context, matchID string, from, to Status) (bool, error)

	// SaveSubmission overwrites one side's pending score tuple.
	SaveSubmission(ctx context.Context, matchID string, side TeamSide, score Score) (Match, error)

	// RecordConflict clears both pending tuples and stores the new conflict
	// counters in one write.
	RecordConflict(ctx context.Context, matchID string, conflictCount int, conflict bool) (Match, error)

	// CompleteWithScore finalizes an agreed result: status completed, final
	// score stored, conflict flags cleared, MOTM voting opened. The write only
	// happens while the match still accepts scores; false means another caller
	// already finalized it.
	CompleteWithScore(ctx context.Context, matchID string, score Score) (Match, bool, error)

	// DeclareNullResult terminates the match after the second score conflict.
	DeclareNullResult(ctx context.Context, matchID string) (Match, bool, error)

	// CloseMotmVoting flips MotmVotingOpen from true to false, reporting
	// whether this caller won the flip.
	CloseMotmVoting(ctx context.Context, matchID string) (bool, error)
}

// RequestRepository persists invite/challenge negotiation rows.
type RequestRepository interface {
	Create(ctx context.Context, req Request) error
	GetByID(ctx context.Context, id string) (Request, bool, error)
	GetPendingByMatchAndTeam(ctx context.Context, matchID, teamID string) (Request, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Request, error)
	ListPendingByMatch(ctx context.Context, matchID string) ([]Request, error)

	// Resolve moves a request out of pending. False means the request was
	// already resolved (or never pending).
	Resolve(ctx context.Context, id string, to RequestStatus) (Request, bool, error)

	// RejectSiblings rejects every pending request on the match except the
	// accepted one, returning how many rows were touched.
	RejectSiblings(ctx context.Context, matchID, acceptedID string) (int, error)
}
