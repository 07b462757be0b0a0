package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dimasprk/matchday/internal/domain/motm"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const voteColumns = `id, public_id, match_public_id, voter_user_id, voted_user_id, created_at`

type voteTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	VoterUserID   string    `db:"voter_user_id"`
	VotedUserID   string    `db:"voted_user_id"`
	CreatedAt     time.Time `db:"created_at"`
}

func (row voteTableModel) toDomain() motm.Vote {
	return motm.Vote{
		ID:            row.PublicID,
		MatchID:       row.MatchPublicID,
		VoterID:       row.VoterUserID,
		VotedPlayerID: row.VotedUserID,
		CreatedAt:     row.CreatedAt,
	}
}

type MotmRepository struct {
	db *sqlx.DB
}

func NewMotmRepository(db *sqlx.DB) *MotmRepository {
	return &MotmRepository{db: db}
}

// CreateIfFirst relies on the unique (match, voter) index: the conflicting
// duplicate inserts zero rows instead of failing.
func (r *MotmRepository) CreateIfFirst(ctx context.Context, v motm.Vote) (bool, error) {
	const query = `
INSERT INTO motm_votes (public_id, match_public_id, voter_user_id, voted_user_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (match_public_id, voter_user_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, v.ID, v.MatchID, v.VoterID, v.VotedPlayerID)
	if err != nil {
		return false, fmt.Errorf("insert motm vote: %w", err)
	}

	return oneRowAffected(res)
}

func (r *MotmRepository) ListByMatch(ctx context.Context, matchID string) ([]motm.Vote, error) {
	query, args, err := qb.Select(voteColumns).From("motm_votes").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list motm votes query: %w", err)
	}

	var rows []voteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list motm votes: %w", err)
	}

	out := make([]motm.Vote, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MotmRepository) CountByMatch(ctx context.Context, matchID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("motm_votes").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count motm votes query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count motm votes: %w", err)
	}

	return count, nil
}
