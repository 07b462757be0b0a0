package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dimasprk/matchday/internal/domain/motm"
)

type MotmRepository struct {
	mu    sync.RWMutex
	items map[string]motm.Vote
}

func NewMotmRepository() *MotmRepository {
	return &MotmRepository{items: make(map[string]motm.Vote)}
}

func (r *MotmRepository) CreateIfFirst(_ context.Context, v motm.Vote) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.MatchID == v.MatchID && existing.VoterID == v.VoterID {
			return false, nil
		}
	}

	r.items[v.ID] = v
	return true, nil
}

func (r *MotmRepository) ListByMatch(_ context.Context, matchID string) ([]motm.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]motm.Vote, 0)
	for _, v := range r.items {
		if v.MatchID == matchID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *MotmRepository) CountByMatch(_ context.Context, matchID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, v := range r.items {
		if v.MatchID == matchID {
			count++
		}
	}

	return count, nil
}
