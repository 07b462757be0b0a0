package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/team"
	basecache "github.com/dimasprk/matchday/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	key := "team:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByCaptain(ctx context.Context, captainID string) (team.Team, bool, error) {
	key := "team:captain:" + captainID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByCaptain(ctx, captainID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []string) ([]team.Team, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	key := "team:ids:" + strings.Join(sorted, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerByIDKey(id), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []string) ([]player.Player, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	key := playerByIDsPrefix + strings.Join(sorted, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) AddSeasonPoints(ctx context.Context, ids []string, points int) error {
	if err := r.next.AddSeasonPoints(ctx, ids, points); err != nil {
		return err
	}

	for _, id := range ids {
		r.cache.Delete(ctx, playerByIDKey(id))
	}
	r.cache.DeletePrefix(ctx, playerByIDsPrefix)
	return nil
}

func (r *PlayerRepository) IncrementMotm(ctx context.Context, id string) error {
	if err := r.next.IncrementMotm(ctx, id); err != nil {
		return err
	}

	r.cache.Delete(ctx, playerByIDKey(id))
	r.cache.DeletePrefix(ctx, playerByIDsPrefix)
	return nil
}

func (r *PlayerRepository) AddRatingStats(ctx context.Context, id string, value int) error {
	if err := r.next.AddRatingStats(ctx, id, value); err != nil {
		return err
	}

	r.cache.Delete(ctx, playerByIDKey(id))
	r.cache.DeletePrefix(ctx, playerByIDsPrefix)
	return nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

const playerByIDsPrefix = "player:ids:"

func playerByIDKey(id string) string {
	return "player:id:" + id
}
