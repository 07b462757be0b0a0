package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/rating"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/domain/team"
	"github.com/dimasprk/matchday/internal/usecase"
)

// decodeJSONBody decodes a request body strictly: unknown fields reject the
// payload so client typos surface as 400s instead of silent drops.
func decodeJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type matchDTO struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	TeamAID            string     `json:"team_a_id"`
	TeamBID            string     `json:"team_b_id,omitempty"`
	Status             string     `json:"status"`
	MaxPlayersPerTeam  int        `json:"max_players_per_team"`
	ScoreA             *int       `json:"score_a,omitempty"`
	ScoreB             *int       `json:"score_b,omitempty"`
	ScoreConflict      bool       `json:"score_conflict"`
	ScoreConflictCount int        `json:"score_conflict_count"`
	MotmVotingOpen     bool       `json:"motm_voting_open"`
	CreatedBy          string     `json:"created_by"`
	KickoffAt          time.Time  `json:"kickoff_at"`
	Venue              string     `json:"venue,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:                 m.ID,
		Type:               string(m.Type),
		TeamAID:            m.TeamAID,
		TeamBID:            m.TeamBID,
		Status:             string(m.Status),
		MaxPlayersPerTeam:  m.MaxPlayersPerTeam,
		ScoreA:             m.ScoreA,
		ScoreB:             m.ScoreB,
		ScoreConflict:      m.ScoreConflict,
		ScoreConflictCount: m.ScoreConflictCount,
		MotmVotingOpen:     m.MotmVotingOpen,
		CreatedBy:          m.CreatedBy,
		KickoffAt:          m.KickoffAt,
		Venue:              m.Venue,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type teamDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Short     string `json:"short,omitempty"`
	CaptainID string `json:"captain_id"`
	City      string `json:"city,omitempty"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:        t.ID,
		Name:      t.Name,
		Short:     t.Short,
		CaptainID: t.CaptainID,
		City:      t.City,
	}
}

type matchPlayerDTO struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"match_id"`
	PlayerID   string    `json:"player_id"`
	TeamSide   string    `json:"team_side"`
	JoinStatus string    `json:"join_status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func matchPlayerToDTO(p roster.MatchPlayer) matchPlayerDTO {
	return matchPlayerDTO{
		ID:         p.ID,
		MatchID:    p.MatchID,
		PlayerID:   p.PlayerID,
		TeamSide:   string(p.TeamSide),
		JoinStatus: string(p.JoinStatus),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func matchPlayersToDTO(rows []roster.MatchPlayer) []matchPlayerDTO {
	items := make([]matchPlayerDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, matchPlayerToDTO(row))
	}
	return items
}

type matchRequestDTO struct {
	ID         string     `json:"id"`
	MatchID    string     `json:"match_id"`
	TeamID     string     `json:"team_id"`
	Direction  string     `json:"direction"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func matchRequestToDTO(req match.Request) matchRequestDTO {
	return matchRequestDTO{
		ID:         req.ID,
		MatchID:    req.MatchID,
		TeamID:     req.TeamID,
		Direction:  string(req.Direction),
		Status:     string(req.Status),
		CreatedAt:  req.CreatedAt,
		ResolvedAt: req.ResolvedAt,
	}
}

type matchDetailsDTO struct {
	Match        matchDTO          `json:"match"`
	TeamA        teamDTO           `json:"team_a"`
	TeamB        *teamDTO          `json:"team_b,omitempty"`
	RosterA      []matchPlayerDTO  `json:"roster_a"`
	RosterB      []matchPlayerDTO  `json:"roster_b"`
	PendingJoins []matchPlayerDTO  `json:"pending_joins"`
	CountA       int               `json:"count_a"`
	CountB       int               `json:"count_b"`
	Requests     []matchRequestDTO `json:"requests"`
}

func matchDetailsToDTO(details usecase.MatchDetails) matchDetailsDTO {
	dto := matchDetailsDTO{
		Match:        matchToDTO(details.Match),
		TeamA:        teamToDTO(details.TeamA),
		RosterA:      matchPlayersToDTO(details.RosterA),
		RosterB:      matchPlayersToDTO(details.RosterB),
		PendingJoins: matchPlayersToDTO(details.PendingJoins),
		CountA:       details.CountA,
		CountB:       details.CountB,
		Requests:     make([]matchRequestDTO, 0, len(details.Requests)),
	}
	if details.TeamB != nil {
		teamB := teamToDTO(*details.TeamB)
		dto.TeamB = &teamB
	}
	for _, req := range details.Requests {
		dto.Requests = append(dto.Requests, matchRequestToDTO(req))
	}

	return dto
}

type scoreStatusDTO struct {
	Status             string `json:"status"`
	SubmittedA         bool   `json:"submitted_a"`
	SubmittedB         bool   `json:"submitted_b"`
	ScoreConflict      bool   `json:"score_conflict"`
	ScoreConflictCount int    `json:"score_conflict_count"`
	ScoreA             *int   `json:"score_a,omitempty"`
	ScoreB             *int   `json:"score_b,omitempty"`
	MotmVotingOpen     bool   `json:"motm_voting_open"`
}

func scoreStatusToDTO(status usecase.ScoreStatus) scoreStatusDTO {
	return scoreStatusDTO{
		Status:             string(status.Status),
		SubmittedA:         status.SubmittedA,
		SubmittedB:         status.SubmittedB,
		ScoreConflict:      status.ScoreConflict,
		ScoreConflictCount: status.ScoreConflictCount,
		ScoreA:             status.ScoreA,
		ScoreB:             status.ScoreB,
		MotmVotingOpen:     status.MotmVotingOpen,
	}
}

type ratingDTO struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	RaterID   string    `json:"rater_id"`
	RatedID   string    `json:"rated_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func ratingToDTO(r rating.Rating) ratingDTO {
	return ratingDTO{
		ID:        r.ID,
		MatchID:   r.MatchID,
		RaterID:   r.RaterID,
		RatedID:   r.RatedID,
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
	}
}

type notificationDTO struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

func notificationToDTO(n notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Payload:   n.Payload,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
