package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.MatchPlayer
	now   func() time.Time
}

func NewRosterRepository(rows []roster.MatchPlayer) *RosterRepository {
	items := make(map[string]roster.MatchPlayer, len(rows))
	for _, row := range rows {
		items[row.ID] = row
	}

	return &RosterRepository{items: items, now: time.Now}
}

func (r *RosterRepository) GetByID(_ context.Context, id string) (roster.MatchPlayer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.items[id]
	if !ok {
		return roster.MatchPlayer{}, false, nil
	}

	return row, true, nil
}

func (r *RosterRepository) GetByMatchAndPlayer(_ context.Context, matchID, playerID string) (roster.MatchPlayer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.items {
		if row.MatchID == matchID && row.PlayerID == playerID {
			return row, true, nil
		}
	}

	return roster.MatchPlayer{}, false, nil
}

func (r *RosterRepository) ListByMatch(_ context.Context, matchID string) ([]roster.MatchPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(matchID, false), nil
}

func (r *RosterRepository) ListApprovedByMatch(_ context.Context, matchID string) ([]roster.MatchPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(matchID, true), nil
}

func (r *RosterRepository) CountApprovedBySide(_ context.Context, matchID string, side match.TeamSide) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.approvedCount(matchID, side), nil
}

func (r *RosterRepository) CreateIfCapacity(_ context.Context, p roster.MatchPlayer, maxApproved int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.approvedCount(p.MatchID, p.TeamSide) >= maxApproved {
		return false, nil
	}

	r.items[p.ID] = p
	return true, nil
}

func (r *RosterRepository) ApproveIfCapacity(_ context.Context, id string, maxApproved int) (roster.MatchPlayer, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.items[id]
	if !ok || row.JoinStatus != roster.JoinPending {
		return roster.MatchPlayer{}, false, nil
	}
	if r.approvedCount(row.MatchID, row.TeamSide) >= maxApproved {
		return roster.MatchPlayer{}, false, nil
	}

	row.JoinStatus = roster.JoinApproved
	row.UpdatedAt = r.now().UTC()
	r.items[id] = row

	return row, true, nil
}

func (r *RosterRepository) Decline(_ context.Context, id string) (roster.MatchPlayer, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.items[id]
	if !ok || row.JoinStatus != roster.JoinPending {
		return roster.MatchPlayer{}, false, nil
	}

	row.JoinStatus = roster.JoinDeclined
	row.UpdatedAt = r.now().UTC()
	r.items[id] = row

	return row, true, nil
}

func (r *RosterRepository) approvedCount(matchID string, side match.TeamSide) int {
	count := 0
	for _, row := range r.items {
		if row.MatchID == matchID && row.TeamSide == side && row.JoinStatus == roster.JoinApproved {
			count++
		}
	}
	return count
}

func (r *RosterRepository) collect(matchID string, approvedOnly bool) []roster.MatchPlayer {
	out := make([]roster.MatchPlayer, 0)
	for _, row := range r.items {
		if row.MatchID != matchID {
			continue
		}
		if approvedOnly && row.JoinStatus != roster.JoinApproved {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}
