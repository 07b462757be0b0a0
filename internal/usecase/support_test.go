package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func newSeqIDGenerator(prefix string) *seqIDGenerator {
	return &seqIDGenerator{prefix: prefix}
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

type notifiedEvent struct {
	UserID  string
	Kind    notification.Kind
	Payload map[string]any
}

// recordingNotifier captures dispatched events synchronously so tests can
// assert on them without draining a worker pool.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, kind notification.Kind, payload map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, notifiedEvent{UserID: userID, Kind: kind, Payload: payload})
}

func (n *recordingNotifier) countKind(kind notification.Kind) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := 0
	for _, e := range n.events {
		if e.Kind == kind {
			count++
		}
	}
	return count
}

func (n *recordingNotifier) kindsFor(userID string) []notification.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]notification.Kind, 0)
	for _, e := range n.events {
		if e.UserID == userID {
			out = append(out, e.Kind)
		}
	}
	return out
}

func fixedTime() time.Time {
	return time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
}

// confirmedMatch is a bound Garuda-vs-Rajawali match ready for play.
func confirmedMatch(id string, maxPlayers int) match.Match {
	now := fixedTime()
	return match.Match{
		ID:                id,
		Type:              match.TypePublic,
		TeamAID:           memory.TeamIDGarudaFC,
		TeamBID:           memory.TeamIDRajawali,
		Status:            match.StatusConfirmed,
		MaxPlayersPerTeam: maxPlayers,
		CreatedBy:         memory.CaptainGaruda,
		KickoffAt:         now,
		Venue:             "Lapangan Banteng",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// pendingMatch is an unbound match still waiting for an opponent.
func pendingMatch(id string, matchType match.Type, maxPlayers int) match.Match {
	m := confirmedMatch(id, maxPlayers)
	m.Type = matchType
	m.TeamBID = ""
	m.Status = match.StatusPending
	return m
}

func approvedRow(id, matchID, playerID string, side match.TeamSide) roster.MatchPlayer {
	now := fixedTime()
	return roster.MatchPlayer{
		ID:         id,
		MatchID:    matchID,
		PlayerID:   playerID,
		TeamSide:   side,
		JoinStatus: roster.JoinApproved,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func pendingRow(id, matchID, playerID string, side match.TeamSide) roster.MatchPlayer {
	row := approvedRow(id, matchID, playerID, side)
	row.JoinStatus = roster.JoinPending
	return row
}
