package match

import (
	"fmt"
	"time"
)

// Type distinguishes how a match acquires its opponent.
type Type string

const (
	TypePublic   Type = "public"
	TypeFriendly Type = "friendly"
)

// Status is the match lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNullResult Status = "null_result"
)

// TeamSide identifies one of the two rosters of a match.
type TeamSide string

const (
	SideA TeamSide = "A"
	SideB TeamSide = "B"
)

// Score is one submitted (goalsA, goalsB) tuple.
type Score struct {
	GoalsA int
	GoalsB int
}

func (s Score) Equal(other Score) bool {
	return s.GoalsA == other.GoalsA && s.GoalsB == other.GoalsB
}

// Match is a scheduled game between two amateur teams. TeamBID stays empty
// until the negotiation workflow binds an opponent; it is set exactly once.
type Match struct {
	ID                 string
	Type               Type
	TeamAID            string
	TeamBID            string
	Status             Status
	MaxPlayersPerTeam  int
	ScoreA             *int
	ScoreB             *int
	SubmittedA         *Score
	SubmittedB         *Score
	ScoreConflict      bool
	ScoreConflictCount int
	MotmVotingOpen     bool
	CreatedBy          string
	KickoffAt          time.Time
	Venue              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.Type != TypePublic && m.Type != TypeFriendly {
		return fmt.Errorf("match type %q is not valid", m.Type)
	}
	if m.TeamAID == "" {
		return fmt.Errorf("match owning team is required")
	}
	if m.MaxPlayersPerTeam < 1 {
		return fmt.Errorf("max players per team must be at least 1")
	}
	if m.CreatedBy == "" {
		return fmt.Errorf("match creator is required")
	}

	return nil
}

// IsTerminal reports whether the match can no longer change state.
func (m Match) IsTerminal() bool {
	switch m.Status {
	case StatusCompleted, StatusCancelled, StatusNullResult:
		return true
	default:
		return false
	}
}

// AcceptsJoins reports whether players may still request a roster spot.
func (m Match) AcceptsJoins() bool {
	switch m.Status {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

// AcceptsScores reports whether captains may submit a result.
func (m Match) AcceptsScores() bool {
	return m.Status == StatusConfirmed || m.Status == StatusInProgress
}

// SideOfTeam maps a team id onto A/B for this match.
func (m Match) SideOfTeam(teamID string) (TeamSide, bool) {
	switch {
	case teamID != "" && teamID == m.TeamAID:
		return SideA, true
	case teamID != "" && teamID == m.TeamBID:
		return SideB, true
	default:
		return "", false
	}
}

// Submission returns the pending score tuple for one side.
func (m Match) Submission(side TeamSide) *Score {
	if side == SideA {
		return m.SubmittedA
	}
	return m.SubmittedB
}

// RequestDirection tells which party initiated a match request.
type RequestDirection string

const (
	DirectionInvite    RequestDirection = "invite"
	DirectionChallenge RequestDirection = "challenge"
)

// RequestStatus is the lifecycle of a match request row.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Request is a friendly invite or a public challenge awaiting a decision.
// At most one accepted request ever exists per match.
type Request struct {
	ID         string
	MatchID    string
	TeamID     string
	Direction  RequestDirection
	Status     RequestStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
