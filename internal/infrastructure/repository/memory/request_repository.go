package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
)

type RequestRepository struct {
	mu    sync.RWMutex
	items map[string]match.Request
	now   func() time.Time
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{items: make(map[string]match.Request), now: time.Now}
}

func (r *RequestRepository) Create(_ context.Context, req match.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[req.ID] = req
	return nil
}

func (r *RequestRepository) GetByID(_ context.Context, id string) (match.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[id]
	if !ok {
		return match.Request{}, false, nil
	}

	return req, true, nil
}

func (r *RequestRepository) GetPendingByMatchAndTeam(_ context.Context, matchID, teamID string) (match.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.items {
		if req.MatchID == matchID && req.TeamID == teamID && req.Status == match.RequestPending {
			return req, true, nil
		}
	}

	return match.Request{}, false, nil
}

func (r *RequestRepository) ListByMatch(_ context.Context, matchID string) ([]match.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(matchID, false), nil
}

func (r *RequestRepository) ListPendingByMatch(_ context.Context, matchID string) ([]match.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(matchID, true), nil
}

func (r *RequestRepository) Resolve(_ context.Context, id string, to match.RequestStatus) (match.Request, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.items[id]
	if !ok || req.Status != match.RequestPending {
		return match.Request{}, false, nil
	}

	resolvedAt := r.now().UTC()
	req.Status = to
	req.ResolvedAt = &resolvedAt
	r.items[id] = req

	return req, true, nil
}

func (r *RequestRepository) RejectSiblings(_ context.Context, matchID, acceptedID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rejected := 0
	resolvedAt := r.now().UTC()
	for id, req := range r.items {
		if req.MatchID != matchID || id == acceptedID || req.Status != match.RequestPending {
			continue
		}
		req.Status = match.RequestRejected
		req.ResolvedAt = &resolvedAt
		r.items[id] = req
		rejected++
	}

	return rejected, nil
}

func (r *RequestRepository) collect(matchID string, pendingOnly bool) []match.Request {
	out := make([]match.Request, 0)
	for _, req := range r.items {
		if req.MatchID != matchID {
			continue
		}
		if pendingOnly && req.Status != match.RequestPending {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}
