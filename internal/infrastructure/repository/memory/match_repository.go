package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
	now   func() time.Time
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m
	}

	return &MatchRepository{items: items, now: time.Now}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return match.Match{}, false, nil
	}

	return cloneMatch(m), true, nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if m.TeamAID == teamID || m.TeamBID == teamID {
			out = append(out, cloneMatch(m))
		}
	}

	return out, nil
}

func (r *MatchRepository) BindOpponent(_ context.Context, matchID, teamID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || m.TeamBID != "" {
		return match.Match{}, false, nil
	}

	m.TeamBID = teamID
	m.Status = match.StatusConfirmed
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return cloneMatch(m), true, nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID string, from, to match.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || m.Status != from {
		return false, nil
	}

	m.Status = to
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return true, nil
}

func (r *MatchRepository) SaveSubmission(_ context.Context, matchID string, side match.TeamSide, score match.Score) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, errMatchGone(matchID)
	}

	s := score
	if side == match.SideA {
		m.SubmittedA = &s
	} else {
		m.SubmittedB = &s
	}
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return cloneMatch(m), nil
}

func (r *MatchRepository) RecordConflict(_ context.Context, matchID string, conflictCount int, conflict bool) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, errMatchGone(matchID)
	}

	m.SubmittedA = nil
	m.SubmittedB = nil
	m.ScoreConflict = conflict
	m.ScoreConflictCount = conflictCount
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return cloneMatch(m), nil
}

func (r *MatchRepository) CompleteWithScore(_ context.Context, matchID string, score match.Score) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || !m.AcceptsScores() {
		return match.Match{}, false, nil
	}

	goalsA, goalsB := score.GoalsA, score.GoalsB
	m.Status = match.StatusCompleted
	m.ScoreA = &goalsA
	m.ScoreB = &goalsB
	m.SubmittedA = nil
	m.SubmittedB = nil
	m.ScoreConflict = false
	m.MotmVotingOpen = true
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return cloneMatch(m), true, nil
}

func (r *MatchRepository) DeclareNullResult(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || !m.AcceptsScores() {
		return match.Match{}, false, nil
	}

	m.Status = match.StatusNullResult
	m.SubmittedA = nil
	m.SubmittedB = nil
	m.ScoreConflict = false
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return cloneMatch(m), true, nil
}

func (r *MatchRepository) CloseMotmVoting(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || !m.MotmVotingOpen {
		return false, nil
	}

	m.MotmVotingOpen = false
	m.UpdatedAt = r.now().UTC()
	r.items[matchID] = m

	return true, nil
}

func errMatchGone(id string) error {
	return fmt.Errorf("match %s not found", id)
}

func cloneMatch(m match.Match) match.Match {
	copied := m
	if m.ScoreA != nil {
		v := *m.ScoreA
		copied.ScoreA = &v
	}
	if m.ScoreB != nil {
		v := *m.ScoreB
		copied.ScoreB = &v
	}
	if m.SubmittedA != nil {
		v := *m.SubmittedA
		copied.SubmittedA = &v
	}
	if m.SubmittedB != nil {
		v := *m.SubmittedB
		copied.SubmittedB = &v
	}
	return copied
}
