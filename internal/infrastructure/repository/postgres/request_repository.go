package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dimasprk/matchday/internal/domain/match"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const requestColumns = `id, public_id, match_public_id, team_public_id, direction, status, created_at, resolved_at`

type RequestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req match.Request) error {
	query, args, err := qb.InsertInto("match_requests").
		Columns("public_id", "match_public_id", "team_public_id", "direction", "status").
		Values(req.ID, req.MatchID, req.TeamID, string(req.Direction), string(req.Status)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match request query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match request: %w", err)
	}

	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (match.Request, bool, error) {
	query, args, err := qb.Select(requestColumns).From("match_requests").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return match.Request{}, false, fmt.Errorf("build get match request query: %w", err)
	}

	var row matchRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Request{}, false, nil
		}
		return match.Request{}, false, fmt.Errorf("get match request by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RequestRepository) GetPendingByMatchAndTeam(ctx context.Context, matchID, teamID string) (match.Request, bool, error) {
	query, args, err := qb.Select(requestColumns).From("match_requests").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_public_id", teamID),
			qb.Eq("status", string(match.RequestPending)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Request{}, false, fmt.Errorf("build get pending request query: %w", err)
	}

	var row matchRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Request{}, false, nil
		}
		return match.Request{}, false, fmt.Errorf("get pending request: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RequestRepository) ListByMatch(ctx context.Context, matchID string) ([]match.Request, error) {
	return r.list(ctx, qb.Select(requestColumns).From("match_requests").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at"))
}

func (r *RequestRepository) ListPendingByMatch(ctx context.Context, matchID string) ([]match.Request, error) {
	return r.list(ctx, qb.Select(requestColumns).From("match_requests").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("status", string(match.RequestPending)),
		).
		OrderBy("created_at"))
}

func (r *RequestRepository) Resolve(ctx context.Context, id string, to match.RequestStatus) (match.Request, bool, error) {
	const query = `
UPDATE match_requests
SET status = $1, resolved_at = NOW()
WHERE public_id = $2
  AND status = 'pending'
RETURNING ` + requestColumns

	var row matchRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, string(to), id); err != nil {
		if isNotFound(err) {
			return match.Request{}, false, nil
		}
		return match.Request{}, false, fmt.Errorf("resolve match request: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RequestRepository) RejectSiblings(ctx context.Context, matchID, acceptedID string) (int, error) {
	const query = `
UPDATE match_requests
SET status = 'rejected', resolved_at = NOW()
WHERE match_public_id = $1
  AND public_id <> $2
  AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, matchID, acceptedID)
	if err != nil {
		return 0, fmt.Errorf("reject sibling requests: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(affected), nil
}

func (r *RequestRepository) list(ctx context.Context, builder *qb.SelectBuilder) ([]match.Request, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match requests query: %w", err)
	}

	var rows []matchRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match requests: %w", err)
	}

	out := make([]match.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
