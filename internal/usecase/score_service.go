package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/domain/team"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/synclane"
)

const (
	pointsWin  = 3
	pointsDraw = 1

	// maxScoreConflicts is the two-strike rule: one honest retry after the
	// first mismatch, then the match is declared unresolved.
	maxScoreConflicts = 2
)

// SubmitScoreInput is one captain's reported result.
type SubmitScoreInput struct {
	CallerID string
	MatchID  string
	GoalsA   int
	GoalsB   int
}

// ScoreStatus is the consensus state a captain polls while waiting on the
// other side.
type ScoreStatus struct {
	Status             match.Status
	SubmittedA         bool
	SubmittedB         bool
	ScoreConflict      bool
	ScoreConflictCount int
	ScoreA             *int
	ScoreB             *int
	MotmVotingOpen     bool
}

// ScoreService reconciles two independently submitted scores into a confirmed
// result or a declared null result. Equal tuples complete the match, award
// points, and open MOTM voting; mismatches burn one of two strikes. All
// submission handling for one match runs on a single lane so resubmission
// overwrites are atomic per side.
type ScoreService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	notifier   NotificationDispatcher
	logger     *logging.Logger
	now        func() time.Time
	lanes      synclane.KeyedMutex
}

func NewScoreService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	notifier NotificationDispatcher,
	logger *logging.Logger,
) *ScoreService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoreService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitScore records one side's result and advances the consensus machine.
func (s *ScoreService) SubmitScore(ctx context.Context, input SubmitScoreInput) (ScoreStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.SubmitScore")
	defer span.End()

	if input.GoalsA < 0 || input.GoalsB < 0 {
		return ScoreStatus{}, fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	m, err := getMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return ScoreStatus{}, err
	}
	side, err := captainOfSide(ctx, s.teamRepo, m, input.CallerID)
	if err != nil {
		return ScoreStatus{}, err
	}

	unlock := s.lanes.Lock("score:" + m.ID)
	defer unlock()

	// Reload under the lane: a concurrent submission may have advanced the
	// machine between the precondition read and here.
	m, err = getMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return ScoreStatus{}, err
	}
	if !m.AcceptsScores() {
		return ScoreStatus{}, fmt.Errorf("%w: match is not accepting score submissions", ErrConflict)
	}

	submitted := match.Score{GoalsA: input.GoalsA, GoalsB: input.GoalsB}
	m, err = s.matchRepo.SaveSubmission(ctx, m.ID, side, submitted)
	if err != nil {
		return ScoreStatus{}, fmt.Errorf("save score submission: %w", err)
	}

	otherSide := match.SideB
	if side == match.SideB {
		otherSide = match.SideA
	}
	other := m.Submission(otherSide)

	if other == nil {
		s.notifyCaptainOfSide(ctx, m, otherSide, notification.KindScoreRequest, map[string]any{
			"match_id": m.ID,
			"message":  "The opposing captain reported a score. Waiting on your submission.",
		})
		return statusOf(m), nil
	}

	if submitted.Equal(*other) {
		return s.confirmResult(ctx, m, submitted)
	}

	return s.recordMismatch(ctx, m)
}

// GetScoreStatus reports the consensus state of a match.
func (s *ScoreService) GetScoreStatus(ctx context.Context, matchID string) (ScoreStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.GetScoreStatus")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return ScoreStatus{}, err
	}

	return statusOf(m), nil
}

// confirmResult finalizes an agreed score. The completion write is one-shot:
// if another caller already completed the match, this caller loses cleanly
// and no second point award happens.
func (s *ScoreService) confirmResult(ctx context.Context, m match.Match, agreed match.Score) (ScoreStatus, error) {
	completed, ok, err := s.matchRepo.CompleteWithScore(ctx, m.ID, agreed)
	if err != nil {
		return ScoreStatus{}, fmt.Errorf("complete match: %w", err)
	}
	if !ok {
		return ScoreStatus{}, fmt.Errorf("%w: match result was already finalized", ErrConflict)
	}

	if err := s.awardMatchPoints(ctx, completed, agreed); err != nil {
		return ScoreStatus{}, err
	}

	s.notifyBothCaptains(ctx, completed, notification.KindScoreConfirmed, map[string]any{
		"match_id": completed.ID,
		"score_a":  agreed.GoalsA,
		"score_b":  agreed.GoalsB,
	})
	s.logger.InfoContext(ctx, "score confirmed",
		"match_id", completed.ID,
		"score_a", agreed.GoalsA,
		"score_b", agreed.GoalsB,
	)

	return statusOf(completed), nil
}

// recordMismatch burns a strike: the first mismatch clears both tuples for a
// fresh pair of submissions, the second declares a null result.
func (s *ScoreService) recordMismatch(ctx context.Context, m match.Match) (ScoreStatus, error) {
	newCount := m.ScoreConflictCount + 1

	if newCount < maxScoreConflicts {
		updated, err := s.matchRepo.RecordConflict(ctx, m.ID, newCount, true)
		if err != nil {
			return ScoreStatus{}, fmt.Errorf("record score conflict: %w", err)
		}

		payload := map[string]any{
			"match_id": m.ID,
			"message":  "Submitted scores did not match. Last chance: both captains must resubmit, one attempt remains.",
		}
		s.notifyBothCaptains(ctx, updated, notification.KindScoreRequest, payload)
		s.logger.WarnContext(ctx, "score conflict recorded",
			"match_id", m.ID,
			"conflict_count", newCount,
		)

		return statusOf(updated), nil
	}

	nulled, ok, err := s.matchRepo.DeclareNullResult(ctx, m.ID)
	if err != nil {
		return ScoreStatus{}, fmt.Errorf("declare null result: %w", err)
	}
	if !ok {
		return ScoreStatus{}, fmt.Errorf("%w: match result was already finalized", ErrConflict)
	}

	s.notifyBothCaptains(ctx, nulled, notification.KindScoreNull, map[string]any{
		"match_id": nulled.ID,
		"message":  "Scores could not be reconciled. The match is recorded without a result; no points are awarded.",
	})
	s.logger.WarnContext(ctx, "match declared null result", "match_id", nulled.ID)

	return statusOf(nulled), nil
}

// awardMatchPoints hands out league points for a confirmed result: 3 to each
// winner, 1 to everyone on a draw, 0 to losers. Runs exactly once per match,
// guarded by the one-shot completed transition.
func (s *ScoreService) awardMatchPoints(ctx context.Context, m match.Match, agreed match.Score) error {
	rows, err := s.rosterRepo.ListApprovedByMatch(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list approved roster: %w", err)
	}

	sideA := make([]string, 0, len(rows))
	sideB := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.TeamSide == match.SideA {
			sideA = append(sideA, row.PlayerID)
		} else {
			sideB = append(sideB, row.PlayerID)
		}
	}

	switch {
	case agreed.GoalsA == agreed.GoalsB:
		all := append(append([]string{}, sideA...), sideB...)
		if err := s.playerRepo.AddSeasonPoints(ctx, all, pointsDraw); err != nil {
			return fmt.Errorf("award draw points: %w", err)
		}
	case agreed.GoalsA > agreed.GoalsB:
		if err := s.playerRepo.AddSeasonPoints(ctx, sideA, pointsWin); err != nil {
			return fmt.Errorf("award win points: %w", err)
		}
	default:
		if err := s.playerRepo.AddSeasonPoints(ctx, sideB, pointsWin); err != nil {
			return fmt.Errorf("award win points: %w", err)
		}
	}

	return nil
}

func (s *ScoreService) notifyCaptainOfSide(ctx context.Context, m match.Match, side match.TeamSide, kind notification.Kind, payload map[string]any) {
	teamID := m.TeamAID
	if side == match.SideB {
		teamID = m.TeamBID
	}
	if teamID == "" {
		return
	}

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

func (s *ScoreService) notifyBothCaptains(ctx context.Context, m match.Match, kind notification.Kind, payload map[string]any) {
	s.notifyCaptainOfSide(ctx, m, match.SideA, kind, payload)
	s.notifyCaptainOfSide(ctx, m, match.SideB, kind, payload)
}

func statusOf(m match.Match) ScoreStatus {
	return ScoreStatus{
		Status:             m.Status,
		SubmittedA:         m.SubmittedA != nil,
		SubmittedB:         m.SubmittedB != nil,
		ScoreConflict:      m.ScoreConflict,
		ScoreConflictCount: m.ScoreConflictCount,
		ScoreA:             m.ScoreA,
		ScoreB:             m.ScoreB,
		MotmVotingOpen:     m.MotmVotingOpen,
	}
}
