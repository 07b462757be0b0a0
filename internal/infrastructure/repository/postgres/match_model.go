package postgres

import (
	"database/sql"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
)

type matchTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	MatchType          string         `db:"match_type"`
	TeamAID            string         `db:"team_a_id"`
	TeamBID            sql.NullString `db:"team_b_id"`
	Status             string         `db:"status"`
	MaxPlayersPerTeam  int            `db:"max_players_per_team"`
	ScoreA             sql.NullInt64  `db:"score_a"`
	ScoreB             sql.NullInt64  `db:"score_b"`
	SubmittedAGoalsA   sql.NullInt64  `db:"submitted_a_goals_a"`
	SubmittedAGoalsB   sql.NullInt64  `db:"submitted_a_goals_b"`
	SubmittedBGoalsA   sql.NullInt64  `db:"submitted_b_goals_a"`
	SubmittedBGoalsB   sql.NullInt64  `db:"submitted_b_goals_b"`
	ScoreConflict      bool           `db:"score_conflict"`
	ScoreConflictCount int            `db:"score_conflict_count"`
	MotmVotingOpen     bool           `db:"motm_voting_open"`
	CreatedBy          string         `db:"created_by"`
	KickoffAt          time.Time      `db:"kickoff_at"`
	Venue              string         `db:"venue"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
	DeletedAt          *time.Time     `db:"deleted_at"`
}

func (row matchTableModel) toDomain() match.Match {
	m := match.Match{
		ID:                 row.PublicID,
		Type:               match.Type(row.MatchType),
		TeamAID:            row.TeamAID,
		Status:             match.Status(row.Status),
		MaxPlayersPerTeam:  row.MaxPlayersPerTeam,
		ScoreConflict:      row.ScoreConflict,
		ScoreConflictCount: row.ScoreConflictCount,
		MotmVotingOpen:     row.MotmVotingOpen,
		CreatedBy:          row.CreatedBy,
		KickoffAt:          row.KickoffAt,
		Venue:              row.Venue,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.TeamBID.Valid {
		m.TeamBID = row.TeamBID.String
	}
	m.ScoreA = nullInt(row.ScoreA)
	m.ScoreB = nullInt(row.ScoreB)
	if row.SubmittedAGoalsA.Valid && row.SubmittedAGoalsB.Valid {
		m.SubmittedA = &match.Score{GoalsA: int(row.SubmittedAGoalsA.Int64), GoalsB: int(row.SubmittedAGoalsB.Int64)}
	}
	if row.SubmittedBGoalsA.Valid && row.SubmittedBGoalsB.Valid {
		m.SubmittedB = &match.Score{GoalsA: int(row.SubmittedBGoalsA.Int64), GoalsB: int(row.SubmittedBGoalsB.Int64)}
	}
	return m
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

type matchRequestTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	MatchPublicID string     `db:"match_public_id"`
	TeamPublicID  string     `db:"team_public_id"`
	Direction     string     `db:"direction"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	ResolvedAt    *time.Time `db:"resolved_at"`
}

func (row matchRequestTableModel) toDomain() match.Request {
	return match.Request{
		ID:         row.PublicID,
		MatchID:    row.MatchPublicID,
		TeamID:     row.TeamPublicID,
		Direction:  match.RequestDirection(row.Direction),
		Status:     match.RequestStatus(row.Status),
		CreatedAt:  row.CreatedAt,
		ResolvedAt: row.ResolvedAt,
	}
}
