package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/domain/team"
	idgen "github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/synclane"
)

// RosterService runs the join-request workflow under the per-side capacity
// invariant: approved rows per (match, side) never exceed the match cap, even
// when joins and approvals race at the boundary. Admission is serialized per
// (match, side) lane and backed by guarded repository writes.
type RosterService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	teamRepo   team.Repository
	idGen      idgen.Generator
	notifier   NotificationDispatcher
	logger     *logging.Logger
	now        func() time.Time
	lanes      synclane.KeyedMutex
}

func NewRosterService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	notifier NotificationDispatcher,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		idGen:      idGen,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// JoinMatch files a pending roster spot request on one side of the match.
func (s *RosterService) JoinMatch(ctx context.Context, callerID, matchID string, side match.TeamSide) (roster.MatchPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.JoinMatch")
	defer span.End()

	if side != match.SideA && side != match.SideB {
		return roster.MatchPlayer{}, fmt.Errorf("%w: team side must be A or B", ErrInvalidInput)
	}

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return roster.MatchPlayer{}, err
	}
	if !m.AcceptsJoins() {
		return roster.MatchPlayer{}, fmt.Errorf("%w: match no longer accepts joins", ErrConflict)
	}

	sideTeamID := m.TeamAID
	if side == match.SideB {
		sideTeamID = m.TeamBID
	}
	if sideTeamID == "" {
		return roster.MatchPlayer{}, fmt.Errorf("%w: match has no opponent bound for side B yet", ErrConflict)
	}

	if _, exists, err := s.rosterRepo.GetByMatchAndPlayer(ctx, m.ID, callerID); err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("check existing roster row: %w", err)
	} else if exists {
		return roster.MatchPlayer{}, fmt.Errorf("%w: player already requested to join this match", ErrConflict)
	}

	rowID, err := s.idGen.NewID()
	if err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("generate roster row id: %w", err)
	}

	now := s.now().UTC()
	row := roster.MatchPlayer{
		ID:         rowID,
		MatchID:    m.ID,
		PlayerID:   callerID,
		TeamSide:   side,
		JoinStatus: roster.JoinPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := row.Validate(); err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	unlock := s.lanes.Lock(sideLaneKey(m.ID, side))
	defer unlock()

	created, err := s.rosterRepo.CreateIfCapacity(ctx, row, m.MaxPlayersPerTeam)
	if err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("create roster row: %w", err)
	}
	if !created {
		return roster.MatchPlayer{}, fmt.Errorf("%w: team side %s is already full", ErrConflict, side)
	}

	s.notifySideCaptain(ctx, sideTeamID, notification.KindJoinRequest, map[string]any{
		"match_id":  m.ID,
		"player_id": callerID,
		"join_id":   row.ID,
		"team_side": string(side),
	})

	return row, nil
}

// ApproveJoin admits a pending player onto the caller captain's side.
func (s *RosterService) ApproveJoin(ctx context.Context, callerID, joinID string) (roster.MatchPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ApproveJoin")
	defer span.End()

	row, m, err := s.loadJoinForCaptain(ctx, callerID, joinID)
	if err != nil {
		return roster.MatchPlayer{}, err
	}

	unlock := s.lanes.Lock(sideLaneKey(m.ID, row.TeamSide))
	defer unlock()

	approved, ok, err := s.rosterRepo.ApproveIfCapacity(ctx, row.ID, m.MaxPlayersPerTeam)
	if err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("approve roster row: %w", err)
	}
	if !ok {
		count, countErr := s.rosterRepo.CountApprovedBySide(ctx, m.ID, row.TeamSide)
		if countErr == nil && count >= m.MaxPlayersPerTeam {
			return roster.MatchPlayer{}, fmt.Errorf("%w: team side %s is already full", ErrConflict, row.TeamSide)
		}
		return roster.MatchPlayer{}, fmt.Errorf("%w: join request is no longer pending", ErrConflict)
	}

	s.notifier.Notify(ctx, approved.PlayerID, notification.KindJoinApproved, map[string]any{
		"match_id":  m.ID,
		"join_id":   approved.ID,
		"team_side": string(approved.TeamSide),
	})
	s.logger.InfoContext(ctx, "join approved",
		"match_id", m.ID,
		"player_id", approved.PlayerID,
		"team_side", string(approved.TeamSide),
	)

	return approved, nil
}

// DeclineJoin turns a pending join request down.
func (s *RosterService) DeclineJoin(ctx context.Context, callerID, joinID string) (roster.MatchPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeclineJoin")
	defer span.End()

	row, m, err := s.loadJoinForCaptain(ctx, callerID, joinID)
	if err != nil {
		return roster.MatchPlayer{}, err
	}

	declined, ok, err := s.rosterRepo.Decline(ctx, row.ID)
	if err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("decline roster row: %w", err)
	}
	if !ok {
		return roster.MatchPlayer{}, fmt.Errorf("%w: join request is no longer pending", ErrConflict)
	}

	s.notifier.Notify(ctx, declined.PlayerID, notification.KindJoinDeclined, map[string]any{
		"match_id":  m.ID,
		"join_id":   declined.ID,
		"team_side": string(declined.TeamSide),
	})

	return declined, nil
}

// MyJoinStatus lets a player poll their own roster row for a match.
func (s *RosterService) MyJoinStatus(ctx context.Context, callerID, matchID string) (roster.MatchPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.MyJoinStatus")
	defer span.End()

	if matchID == "" {
		return roster.MatchPlayer{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	row, ok, err := s.rosterRepo.GetByMatchAndPlayer(ctx, matchID, callerID)
	if err != nil {
		return roster.MatchPlayer{}, fmt.Errorf("get roster row: %w", err)
	}
	if !ok {
		return roster.MatchPlayer{}, fmt.Errorf("%w: no join request for this match", ErrNotFound)
	}

	return row, nil
}

func (s *RosterService) loadJoinForCaptain(ctx context.Context, callerID, joinID string) (roster.MatchPlayer, match.Match, error) {
	if joinID == "" {
		return roster.MatchPlayer{}, match.Match{}, fmt.Errorf("%w: join id is required", ErrInvalidInput)
	}

	row, ok, err := s.rosterRepo.GetByID(ctx, joinID)
	if err != nil {
		return roster.MatchPlayer{}, match.Match{}, fmt.Errorf("get roster row: %w", err)
	}
	if !ok {
		return roster.MatchPlayer{}, match.Match{}, fmt.Errorf("%w: join request %s not found", ErrNotFound, joinID)
	}

	m, err := getMatch(ctx, s.matchRepo, row.MatchID)
	if err != nil {
		return roster.MatchPlayer{}, match.Match{}, err
	}

	side, err := captainOfSide(ctx, s.teamRepo, m, callerID)
	if err != nil {
		return roster.MatchPlayer{}, match.Match{}, err
	}
	if side != row.TeamSide {
		return roster.MatchPlayer{}, match.Match{}, fmt.Errorf("%w: caller does not captain this side", ErrForbidden)
	}

	return row, m, nil
}

// notifySideCaptain resolves the captain of one side's team and notifies them.
func (s *RosterService) notifySideCaptain(ctx context.Context, teamID string, kind notification.Kind, payload map[string]any) {
	t, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil || !ok {
		s.logger.WarnContext(ctx, "captain lookup failed for notification",
			"team_id", teamID,
			"error", err,
		)
		return
	}
	s.notifier.Notify(ctx, t.CaptainID, kind, payload)
}

func sideLaneKey(matchID string, side match.TeamSide) string {
	return "roster:" + matchID + ":" + string(side)
}
