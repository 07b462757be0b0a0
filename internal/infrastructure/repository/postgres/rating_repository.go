package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dimasprk/matchday/internal/domain/rating"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const ratingColumns = `id, public_id, match_public_id, rater_user_id, rated_user_id, value, created_at`

type ratingTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	RaterUserID   string    `db:"rater_user_id"`
	RatedUserID   string    `db:"rated_user_id"`
	Value         int       `db:"value"`
	CreatedAt     time.Time `db:"created_at"`
}

func (row ratingTableModel) toDomain() rating.Rating {
	return rating.Rating{
		ID:        row.PublicID,
		MatchID:   row.MatchPublicID,
		RaterID:   row.RaterUserID,
		RatedID:   row.RatedUserID,
		Value:     row.Value,
		CreatedAt: row.CreatedAt,
	}
}

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// CreateAll writes the whole slate in one transaction: a rejected row leaves
// nothing behind.
func (r *RatingRepository) CreateAll(ctx context.Context, ratings []rating.Rating) error {
	if len(ratings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for ratings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO ratings (public_id, match_public_id, rater_user_id, rated_user_id, value)
VALUES ($1, $2, $3, $4, $5)`

	for _, row := range ratings {
		if _, err := tx.ExecContext(ctx, query, row.ID, row.MatchID, row.RaterID, row.RatedID, row.Value); err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ratings: %w", err)
	}

	return nil
}

func (r *RatingRepository) ListByMatchAndRater(ctx context.Context, matchID, raterID string) ([]rating.Rating, error) {
	return r.list(ctx, qb.Select(ratingColumns).From("ratings").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("rater_user_id", raterID),
		).
		OrderBy("id"))
}

func (r *RatingRepository) ListByMatch(ctx context.Context, matchID string) ([]rating.Rating, error) {
	return r.list(ctx, qb.Select(ratingColumns).From("ratings").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id"))
}

func (r *RatingRepository) list(ctx context.Context, builder *qb.SelectBuilder) ([]rating.Rating, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ratings query: %w", err)
	}

	var rows []ratingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	out := make([]rating.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
