package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/rating"
	"github.com/dimasprk/matchday/internal/domain/roster"
	idgen "github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/synclane"
)

// RatingItem is one opponent's score inside a submission.
type RatingItem struct {
	RatedID string
	Value   int
}

// SubmitRatingsInput is one participant's full, single-shot rating slate.
type SubmitRatingsInput struct {
	CallerID string
	MatchID  string
	Items    []RatingItem
}

// RatingService accepts post-match opponent ratings under a hard budget.
// A rater gets one submission per match; the whole slate is validated and
// persisted atomically, so a rejected slate leaves no partial rows.
type RatingService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	ratingRepo rating.Repository
	playerRepo player.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
	lanes      synclane.KeyedMutex
}

func NewRatingService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	ratingRepo rating.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RatingService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		ratingRepo: ratingRepo,
		playerRepo: playerRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit validates and stores the caller's ratings for a completed match.
func (s *RatingService) Submit(ctx context.Context, input SubmitRatingsInput) ([]rating.Rating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.Submit")
	defer span.End()

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one rating is required", ErrInvalidInput)
	}
	if len(input.Items) > rating.MaxTargetsPerSubmission {
		return nil, fmt.Errorf("%w: at most %d players may be rated per submission", ErrInvalidInput, rating.MaxTargetsPerSubmission)
	}

	m, err := getMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return nil, err
	}
	if m.Status != match.StatusCompleted {
		return nil, fmt.Errorf("%w: ratings are only accepted for completed matches", ErrConflict)
	}

	approved, err := s.rosterRepo.ListApprovedByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list approved participants: %w", err)
	}

	_, opponents, err := splitSides(approved, input.CallerID)
	if err != nil {
		return nil, err
	}

	total := 0
	seen := make(map[string]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.RatedID == input.CallerID {
			return nil, fmt.Errorf("%w: cannot rate yourself", ErrInvalidInput)
		}
		if _, dup := seen[item.RatedID]; dup {
			return nil, fmt.Errorf("%w: duplicate rated player %s", ErrInvalidInput, item.RatedID)
		}
		seen[item.RatedID] = struct{}{}

		if item.Value < rating.MinValue || item.Value > rating.MaxValue {
			return nil, fmt.Errorf("%w: rating value must be between %d and %d", ErrInvalidInput, rating.MinValue, rating.MaxValue)
		}
		if _, ok := opponents[item.RatedID]; !ok {
			return nil, fmt.Errorf("%w: cannot rate own teammates", ErrInvalidInput)
		}
		total += item.Value
	}
	if budget := rating.Budget(len(opponents)); total > budget {
		return nil, fmt.Errorf("%w: total rating budget exceeded (%d > %d)", ErrInvalidInput, total, budget)
	}

	unlock := s.lanes.Lock("rating:" + m.ID + ":" + input.CallerID)
	defer unlock()

	existing, err := s.ratingRepo.ListByMatchAndRater(ctx, m.ID, input.CallerID)
	if err != nil {
		return nil, fmt.Errorf("list existing ratings: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: ratings already submitted for this match", ErrConflict)
	}

	now := s.now().UTC()
	ratings := make([]rating.Rating, 0, len(input.Items))
	for _, item := range input.Items {
		id, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate rating id: %w", err)
		}
		r := rating.Rating{
			ID:        id,
			MatchID:   m.ID,
			RaterID:   input.CallerID,
			RatedID:   item.RatedID,
			Value:     item.Value,
			CreatedAt: now,
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		ratings = append(ratings, r)
	}

	if err := s.ratingRepo.CreateAll(ctx, ratings); err != nil {
		return nil, fmt.Errorf("store ratings: %w", err)
	}

	for _, r := range ratings {
		if err := s.playerRepo.AddRatingStats(ctx, r.RatedID, r.Value); err != nil {
			s.logger.ErrorContext(ctx, "apply rating stats",
				"match_id", m.ID,
				"rated_id", r.RatedID,
				"error", err,
			)
		}
	}

	return ratings, nil
}

// ListForMatch returns every rating recorded for a match.
func (s *RatingService) ListForMatch(ctx context.Context, matchID string) ([]rating.Rating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ListForMatch")
	defer span.End()

	if _, err := getMatch(ctx, s.matchRepo, matchID); err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	return ratings, nil
}

// splitSides locates the rater among the approved participants and returns
// the opposite side as the ratable set.
func splitSides(approved []roster.MatchPlayer, raterID string) (match.TeamSide, map[string]struct{}, error) {
	var raterSide match.TeamSide
	found := false
	for _, row := range approved {
		if row.PlayerID == raterID {
			raterSide = row.TeamSide
			found = true
			break
		}
	}
	if !found {
		return "", nil, fmt.Errorf("%w: only approved participants may submit ratings", ErrForbidden)
	}

	opponents := make(map[string]struct{})
	for _, row := range approved {
		if row.TeamSide != raterSide {
			opponents[row.PlayerID] = struct{}{}
		}
	}

	return raterSide, opponents, nil
}
