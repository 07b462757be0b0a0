package memory

import (
	"context"
	"sync"

	"github.com/dimasprk/matchday/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = t
	}

	return &TeamRepository{items: items}
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}

func (r *TeamRepository) GetByCaptain(_ context.Context, captainID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.items {
		if t.CaptainID == captainID {
			return t, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByIDs(_ context.Context, ids []string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.items[id]; ok {
			out = append(out, t)
		}
	}

	return out, nil
}
