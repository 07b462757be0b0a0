package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/domain/team"
	idgen "github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

// CreateMatchInput is the incoming payload for match creation.
type CreateMatchInput struct {
	CallerID          string
	Type              match.Type
	MaxPlayersPerTeam int
	KickoffAt         time.Time
	Venue             string
}

// MatchDetails is the aggregated view a single fetch returns: the match, the
// roster split by side, the pending join queue, and live counts, so captains
// see fill state without recomputation races.
type MatchDetails struct {
	Match        match.Match
	TeamA        team.Team
	TeamB        *team.Team
	RosterA      []roster.MatchPlayer
	RosterB      []roster.MatchPlayer
	PendingJoins []roster.MatchPlayer
	CountA       int
	CountB       int
	Requests     []match.Request
}

type MatchService struct {
	matchRepo   match.Repository
	requestRepo match.RequestRepository
	rosterRepo  roster.Repository
	teamRepo    team.Repository
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	requestRepo match.RequestRepository,
	rosterRepo roster.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo:   matchRepo,
		requestRepo: requestRepo,
		rosterRepo:  rosterRepo,
		teamRepo:    teamRepo,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateMatch opens a new match for the caller's team. The opponent slot
// stays empty until the negotiation workflow binds one.
func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer span.End()

	if input.Type != match.TypePublic && input.Type != match.TypeFriendly {
		return match.Match{}, fmt.Errorf("%w: match type must be public or friendly", ErrInvalidInput)
	}
	if input.MaxPlayersPerTeam < 1 {
		return match.Match{}, fmt.Errorf("%w: max players per team must be at least 1", ErrInvalidInput)
	}

	ownTeam, err := captainTeam(ctx, s.teamRepo, input.CallerID)
	if err != nil {
		return match.Match{}, err
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	m := match.Match{
		ID:                matchID,
		Type:              input.Type,
		TeamAID:           ownTeam.ID,
		Status:            match.StatusPending,
		MaxPlayersPerTeam: input.MaxPlayersPerTeam,
		CreatedBy:         input.CallerID,
		KickoffAt:         input.KickoffAt.UTC(),
		Venue:             strings.TrimSpace(input.Venue),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", m.ID,
		"match_type", string(m.Type),
		"team_a_id", m.TeamAID,
		"created_by", m.CreatedBy,
	)

	return m, nil
}

// GetByID assembles the aggregated match view. Roster rows, negotiation
// requests, and team records load concurrently.
func (s *MatchService) GetByID(ctx context.Context, matchID string) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return MatchDetails{}, err
	}

	var (
		rosterRows []roster.MatchPlayer
		requests   []match.Request
		teams      []team.Team
	)

	teamIDs := []string{m.TeamAID}
	if m.TeamBID != "" {
		teamIDs = append(teamIDs, m.TeamBID)
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		rows, err := s.rosterRepo.ListByMatch(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list roster rows: %w", err)
		}
		rosterRows = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.requestRepo.ListByMatch(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list match requests: %w", err)
		}
		requests = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.teamRepo.ListByIDs(ctx, teamIDs)
		if err != nil {
			return fmt.Errorf("list match teams: %w", err)
		}
		teams = rows
		return nil
	})
	if err := p.Wait(); err != nil {
		return MatchDetails{}, err
	}

	details := MatchDetails{Match: m, Requests: requests}
	for _, t := range teams {
		switch t.ID {
		case m.TeamAID:
			details.TeamA = t
		case m.TeamBID:
			tb := t
			details.TeamB = &tb
		}
	}

	for _, row := range rosterRows {
		switch {
		case row.JoinStatus == roster.JoinPending:
			details.PendingJoins = append(details.PendingJoins, row)
		case row.JoinStatus == roster.JoinApproved && row.TeamSide == match.SideA:
			details.RosterA = append(details.RosterA, row)
			details.CountA++
		case row.JoinStatus == roster.JoinApproved && row.TeamSide == match.SideB:
			details.RosterB = append(details.RosterB, row)
			details.CountB++
		}
	}

	return details, nil
}

// ListByTeam returns every match a team is involved in, either side.
func (s *MatchService) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByTeam")
	defer span.End()

	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list matches by team: %w", err)
	}

	return matches, nil
}

// StartMatch moves a confirmed match into play. Either captain may start it.
func (s *MatchService) StartMatch(ctx context.Context, matchID, callerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.StartMatch")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if _, err := captainOfSide(ctx, s.teamRepo, m, callerID); err != nil {
		return match.Match{}, err
	}

	moved, err := s.matchRepo.UpdateStatus(ctx, m.ID, match.StatusConfirmed, match.StatusInProgress)
	if err != nil {
		return match.Match{}, fmt.Errorf("start match: %w", err)
	}
	if !moved {
		return match.Match{}, fmt.Errorf("%w: match is not in a confirmed state", ErrConflict)
	}

	return getMatch(ctx, s.matchRepo, matchID)
}

// CancelMatch withdraws a match before play. Only the creating captain may
// cancel, and only while the match is pending or confirmed.
func (s *MatchService) CancelMatch(ctx context.Context, matchID, callerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CancelMatch")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if m.CreatedBy != callerID {
		return match.Match{}, fmt.Errorf("%w: only the creating captain may cancel the match", ErrForbidden)
	}

	moved, err := s.matchRepo.UpdateStatus(ctx, m.ID, match.StatusPending, match.StatusCancelled)
	if err != nil {
		return match.Match{}, fmt.Errorf("cancel match: %w", err)
	}
	if !moved {
		moved, err = s.matchRepo.UpdateStatus(ctx, m.ID, match.StatusConfirmed, match.StatusCancelled)
		if err != nil {
			return match.Match{}, fmt.Errorf("cancel match: %w", err)
		}
	}
	if !moved {
		return match.Match{}, fmt.Errorf("%w: match can no longer be cancelled", ErrConflict)
	}

	s.logger.InfoContext(ctx, "match cancelled", "match_id", m.ID, "by", callerID)

	return getMatch(ctx, s.matchRepo, matchID)
}
