package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dimasprk/matchday/internal/domain/match"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const matchColumns = `id, public_id, match_type, team_a_id, team_b_id, status, max_players_per_team,
score_a, score_b, submitted_a_goals_a, submitted_a_goals_b, submitted_b_goals_a, submitted_b_goals_b,
score_conflict, score_conflict_count, motm_voting_open, created_by, kickoff_at, venue,
created_at, updated_at, deleted_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	var teamBID any
	if m.TeamBID != "" {
		teamBID = m.TeamBID
	}

	query, args, err := qb.InsertInto("matches").
		Columns("public_id", "match_type", "team_a_id", "team_b_id", "status",
			"max_players_per_team", "created_by", "kickoff_at", "venue").
		Values(m.ID, string(m.Type), m.TeamAID, teamBID, string(m.Status),
			m.MaxPlayersPerTeam, m.CreatedBy, m.KickoffAt, m.Venue).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(
			qb.Expr("(team_a_id = ? OR team_b_id = ?)", teamID, teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by team: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// BindOpponent writes the opponent only while the slot is still NULL, so the
// first accept wins the slot at the database level even across processes.
func (r *MatchRepository) BindOpponent(ctx context.Context, matchID, teamID string) (match.Match, bool, error) {
	const query = `
UPDATE matches
SET team_b_id = $1, status = 'confirmed', updated_at = NOW()
WHERE public_id = $2
  AND team_b_id IS NULL
  AND status = 'pending'
  AND deleted_at IS NULL
RETURNING ` + matchColumns

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("bind opponent: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, from, to match.Status) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.Eq("status", string(from)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update match status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update match status: %w", err)
	}

	return oneRowAffected(res)
}

func (r *MatchRepository) SaveSubmission(ctx context.Context, matchID string, side match.TeamSide, score match.Score) (match.Match, error) {
	goalsACol, goalsBCol := "submitted_a_goals_a", "submitted_a_goals_b"
	if side == match.SideB {
		goalsACol, goalsBCol = "submitted_b_goals_a", "submitted_b_goals_b"
	}

	query := fmt.Sprintf(`
UPDATE matches
SET %s = $1, %s = $2, updated_at = NOW()
WHERE public_id = $3
  AND deleted_at IS NULL
RETURNING `+matchColumns, goalsACol, goalsBCol)

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, score.GoalsA, score.GoalsB, matchID); err != nil {
		return match.Match{}, fmt.Errorf("save score submission: %w", err)
	}

	return row.toDomain(), nil
}

func (r *MatchRepository) RecordConflict(ctx context.Context, matchID string, conflictCount int, conflict bool) (match.Match, error) {
	const query = `
UPDATE matches
SET submitted_a_goals_a = NULL,
    submitted_a_goals_b = NULL,
    submitted_b_goals_a = NULL,
    submitted_b_goals_b = NULL,
    score_conflict = $1,
    score_conflict_count = $2,
    updated_at = NOW()
WHERE public_id = $3
  AND deleted_at IS NULL
RETURNING ` + matchColumns

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, conflict, conflictCount, matchID); err != nil {
		return match.Match{}, fmt.Errorf("record score conflict: %w", err)
	}

	return row.toDomain(), nil
}

// CompleteWithScore is the one-shot finalizer: the status guard makes a
// second completion attempt miss and return false.
func (r *MatchRepository) CompleteWithScore(ctx context.Context, matchID string, score match.Score) (match.Match, bool, error) {
	const query = `
UPDATE matches
SET status = 'completed',
    score_a = $1,
    score_b = $2,
    submitted_a_goals_a = NULL,
    submitted_a_goals_b = NULL,
    submitted_b_goals_a = NULL,
    submitted_b_goals_b = NULL,
    score_conflict = FALSE,
    motm_voting_open = TRUE,
    updated_at = NOW()
WHERE public_id = $3
  AND status IN ('confirmed', 'in_progress')
  AND deleted_at IS NULL
RETURNING ` + matchColumns

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, score.GoalsA, score.GoalsB, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("complete match: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) DeclareNullResult(ctx context.Context, matchID string) (match.Match, bool, error) {
	const query = `
UPDATE matches
SET status = 'null_result',
    submitted_a_goals_a = NULL,
    submitted_a_goals_b = NULL,
    submitted_b_goals_a = NULL,
    submitted_b_goals_b = NULL,
    score_conflict = FALSE,
    updated_at = NOW()
WHERE public_id = $1
  AND status IN ('confirmed', 'in_progress')
  AND deleted_at IS NULL
RETURNING ` + matchColumns

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("declare null result: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) CloseMotmVoting(ctx context.Context, matchID string) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("motm_voting_open", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.Eq("motm_voting_open", true),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build close motm voting query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("close motm voting: %w", err)
	}

	return oneRowAffected(res)
}

func oneRowAffected(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}
