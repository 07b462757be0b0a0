package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dimasprk/matchday/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	for _, p := range players {
		items[p.ID] = p
	}

	return &PlayerRepository{items: items}
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return player.Player{}, false, nil
	}

	return p, true, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, ids []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PlayerRepository) AddSeasonPoints(_ context.Context, ids []string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		p, ok := r.items[id]
		if !ok {
			return fmt.Errorf("player %s not found", id)
		}
		p.SeasonPoints += points
		r.items[id] = p
	}

	return nil
}

func (r *PlayerRepository) IncrementMotm(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return fmt.Errorf("player %s not found", id)
	}
	p.MotmCount++
	r.items[id] = p

	return nil
}

func (r *PlayerRepository) AddRatingStats(_ context.Context, id string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return fmt.Errorf("player %s not found", id)
	}
	p.TotalRatings += value
	p.RatingCount++
	r.items[id] = p

	return nil
}
