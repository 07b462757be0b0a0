package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dimasprk/matchday/internal/domain/player"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const playerColumns = `id, public_id, name, season_points, motm_count, total_ratings, rating_count, created_at, updated_at`

type playerTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	Name         string    `db:"name"`
	SeasonPoints int       `db:"season_points"`
	MotmCount    int       `db:"motm_count"`
	TotalRatings int       `db:"total_ratings"`
	RatingCount  int       `db:"rating_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           row.PublicID,
		Name:         row.Name,
		SeasonPoints: row.SeasonPoints,
		MotmCount:    row.MotmCount,
		TotalRatings: row.TotalRatings,
		RatingCount:  row.RatingCount,
	}
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerColumns).From("players").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []string) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select(playerColumns).From("players").
		Where(qb.In("public_id", values)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) AddSeasonPoints(ctx context.Context, ids []string, points int) error {
	if len(ids) == 0 {
		return nil
	}

	const query = `
UPDATE players
SET season_points = season_points + $1, updated_at = NOW()
WHERE public_id = ANY($2)`

	if _, err := r.db.ExecContext(ctx, query, points, pq.Array(ids)); err != nil {
		return fmt.Errorf("add season points: %w", err)
	}

	return nil
}

func (r *PlayerRepository) IncrementMotm(ctx context.Context, id string) error {
	query, args, err := qb.Update("players").
		SetExpr("motm_count", "motm_count + 1").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build increment motm query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("increment motm count: %w", err)
	}

	return nil
}

func (r *PlayerRepository) AddRatingStats(ctx context.Context, id string, value int) error {
	query, args, err := qb.Update("players").
		SetExpr("total_ratings", "total_ratings + ?", value).
		SetExpr("rating_count", "rating_count + 1").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add rating stats query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add rating stats: %w", err)
	}

	return nil
}
