package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/roster"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const rosterColumns = `id, public_id, match_public_id, player_user_id, team_side, join_status, created_at, updated_at`

type rosterTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	PlayerUserID  string    `db:"player_user_id"`
	TeamSide      string    `db:"team_side"`
	JoinStatus    string    `db:"join_status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row rosterTableModel) toDomain() roster.MatchPlayer {
	return roster.MatchPlayer{
		ID:         row.PublicID,
		MatchID:    row.MatchPublicID,
		PlayerID:   row.PlayerUserID,
		TeamSide:   match.TeamSide(row.TeamSide),
		JoinStatus: roster.JoinStatus(row.JoinStatus),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetByID(ctx context.Context, id string) (roster.MatchPlayer, bool, error) {
	query, args, err := qb.Select(rosterColumns).From("match_players").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return roster.MatchPlayer{}, false, fmt.Errorf("build get roster row query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.MatchPlayer{}, false, nil
		}
		return roster.MatchPlayer{}, false, fmt.Errorf("get roster row by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (roster.MatchPlayer, bool, error) {
	query, args, err := qb.Select(rosterColumns).From("match_players").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("player_user_id", playerID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return roster.MatchPlayer{}, false, fmt.Errorf("build get roster row query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.MatchPlayer{}, false, nil
		}
		return roster.MatchPlayer{}, false, fmt.Errorf("get roster row by match and player: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.MatchPlayer, error) {
	return r.list(ctx, qb.Select(rosterColumns).From("match_players").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at"))
}

func (r *RosterRepository) ListApprovedByMatch(ctx context.Context, matchID string) ([]roster.MatchPlayer, error) {
	return r.list(ctx, qb.Select(rosterColumns).From("match_players").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("join_status", string(roster.JoinApproved)),
		).
		OrderBy("created_at"))
}

func (r *RosterRepository) CountApprovedBySide(ctx context.Context, matchID string, side match.TeamSide) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("match_players").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_side", string(side)),
			qb.Eq("join_status", string(roster.JoinApproved)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count approved query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count approved roster rows: %w", err)
	}

	return count, nil
}

// CreateIfCapacity gates the insert on the live approved count in the same
// statement, so two racing joins cannot both slip past a nearly-full side.
func (r *RosterRepository) CreateIfCapacity(ctx context.Context, p roster.MatchPlayer, maxApproved int) (bool, error) {
	const query = `
INSERT INTO match_players (public_id, match_public_id, player_user_id, team_side, join_status)
SELECT $1, $2, $3, $4, $5
WHERE (
    SELECT COUNT(*) FROM match_players
    WHERE match_public_id = $2 AND team_side = $4 AND join_status = 'approved'
) < $6`

	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.MatchID, p.PlayerID, string(p.TeamSide), string(p.JoinStatus), maxApproved)
	if err != nil {
		return false, fmt.Errorf("insert roster row: %w", err)
	}

	return oneRowAffected(res)
}

// ApproveIfCapacity flips pending to approved under the same count guard.
func (r *RosterRepository) ApproveIfCapacity(ctx context.Context, id string, maxApproved int) (roster.MatchPlayer, bool, error) {
	const query = `
UPDATE match_players target
SET join_status = 'approved', updated_at = NOW()
WHERE target.public_id = $1
  AND target.join_status = 'pending'
  AND (
    SELECT COUNT(*) FROM match_players peers
    WHERE peers.match_public_id = target.match_public_id
      AND peers.team_side = target.team_side
      AND peers.join_status = 'approved'
  ) < $2
RETURNING ` + rosterColumns

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, id, maxApproved); err != nil {
		if isNotFound(err) {
			return roster.MatchPlayer{}, false, nil
		}
		return roster.MatchPlayer{}, false, fmt.Errorf("approve roster row: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterRepository) Decline(ctx context.Context, id string) (roster.MatchPlayer, bool, error) {
	const query = `
UPDATE match_players
SET join_status = 'declined', updated_at = NOW()
WHERE public_id = $1
  AND join_status = 'pending'
RETURNING ` + rosterColumns

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return roster.MatchPlayer{}, false, nil
		}
		return roster.MatchPlayer{}, false, fmt.Errorf("decline roster row: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterRepository) list(ctx context.Context, builder *qb.SelectBuilder) ([]roster.MatchPlayer, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster rows query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster rows: %w", err)
	}

	out := make([]roster.MatchPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
