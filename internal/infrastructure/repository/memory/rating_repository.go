package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dimasprk/matchday/internal/domain/rating"
)

type RatingRepository struct {
	mu    sync.RWMutex
	items map[string]rating.Rating
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{items: make(map[string]rating.Rating)}
}

func (r *RatingRepository) CreateAll(_ context.Context, ratings []rating.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range ratings {
		r.items[row.ID] = row
	}

	return nil
}

func (r *RatingRepository) ListByMatchAndRater(_ context.Context, matchID, raterID string) ([]rating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.Rating, 0)
	for _, row := range r.items {
		if row.MatchID == matchID && row.RaterID == raterID {
			out = append(out, row)
		}
	}
	sortRatings(out)

	return out, nil
}

func (r *RatingRepository) ListByMatch(_ context.Context, matchID string) ([]rating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.Rating, 0)
	for _, row := range r.items {
		if row.MatchID == matchID {
			out = append(out, row)
		}
	}
	sortRatings(out)

	return out, nil
}

func sortRatings(out []rating.Rating) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
}
