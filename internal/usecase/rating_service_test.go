package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/rating"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

func completedMatch(id string) match.Match {
	m := confirmedMatch(id, 11)
	goalsA, goalsB := 2, 1
	m.Status = match.StatusCompleted
	m.ScoreA = &goalsA
	m.ScoreB = &goalsB
	return m
}

// ratingFixture builds a completed match with the rater on side A and
// opponentCount approved opponents on side B.
func ratingFixture(m match.Match, opponentCount int) (*RatingService, *memory.PlayerRepository, []string) {
	rows := []roster.MatchPlayer{
		approvedRow("mp-rater", m.ID, memory.CaptainGaruda, match.SideA),
		approvedRow("mp-mate", m.ID, "user-garuda-01", match.SideA),
	}
	players := []player.Player{
		{ID: memory.CaptainGaruda, Name: "Bima Sakti"},
		{ID: "user-garuda-01", Name: "Andi Saputra"},
	}

	opponents := make([]string, 0, opponentCount)
	for i := 0; i < opponentCount; i++ {
		id := fmt.Sprintf("user-opp-%02d", i)
		opponents = append(opponents, id)
		rows = append(rows, approvedRow(fmt.Sprintf("mp-opp-%02d", i), m.ID, id, match.SideB))
		players = append(players, player.Player{ID: id, Name: fmt.Sprintf("Opponent %02d", i)})
	}

	playerRepo := memory.NewPlayerRepository(players)
	service := NewRatingService(
		memory.NewMatchRepository([]match.Match{m}),
		memory.NewRosterRepository(rows),
		memory.NewRatingRepository(),
		playerRepo,
		newSeqIDGenerator("rating"),
		logging.NewNop(),
	)

	return service, playerRepo, opponents
}

func TestRatingService_SubmitWithinBudget(t *testing.T) {
	m := completedMatch("match-rating")
	service, playerRepo, opponents := ratingFixture(m, 3)

	items := []RatingItem{
		{RatedID: opponents[0], Value: 9},
		{RatedID: opponents[1], Value: 7},
		{RatedID: opponents[2], Value: 5},
	}

	stored, err := service.Submit(t.Context(), SubmitRatingsInput{
		CallerID: memory.CaptainGaruda,
		MatchID:  m.ID,
		Items:    items,
	})
	if err != nil {
		t.Fatalf("submit ratings failed: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored ratings, got %d", len(stored))
	}

	rated, _, err := playerRepo.GetByID(t.Context(), opponents[0])
	if err != nil {
		t.Fatalf("get rated player: %v", err)
	}
	if rated.TotalRatings != 9 || rated.RatingCount != 1 {
		t.Fatalf("expected aggregates 9/1, got %d/%d", rated.TotalRatings, rated.RatingCount)
	}
	if got := rated.AverageRating(); got != 9 {
		t.Fatalf("expected average 9, got %v", got)
	}

	// One submission per rater per match.
	_, err = service.Submit(t.Context(), SubmitRatingsInput{
		CallerID: memory.CaptainGaruda,
		MatchID:  m.ID,
		Items:    []RatingItem{{RatedID: opponents[0], Value: 5}},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on resubmission, got %v", err)
	}
}

func TestRatingService_BudgetBoundary(t *testing.T) {
	m := completedMatch("match-budget")
	service, _, opponents := ratingFixture(m, 7)

	budget := rating.Budget(len(opponents))
	if budget != 49 {
		t.Fatalf("expected budget 49 for 7 opponents, got %d", budget)
	}

	// 7x7 = 49 spends the budget exactly.
	items := make([]RatingItem, 0, len(opponents))
	for _, id := range opponents {
		items = append(items, RatingItem{RatedID: id, Value: 7})
	}
	if _, err := service.Submit(t.Context(), SubmitRatingsInput{
		CallerID: memory.CaptainGaruda,
		MatchID:  m.ID,
		Items:    items,
	}); err != nil {
		t.Fatalf("exact-budget submission failed: %v", err)
	}

	// One extra point past the budget is rejected.
	over := make([]RatingItem, 0, len(opponents))
	for i, id := range opponents {
		value := 7
		if i == 0 {
			value = 8
		}
		over = append(over, RatingItem{RatedID: id, Value: value})
	}
	_, err := service.Submit(t.Context(), SubmitRatingsInput{
		CallerID: "user-garuda-01",
		MatchID:  m.ID,
		Items:    over,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for exceeded budget, got %v", err)
	}
}

func TestRatingService_SubmitGuards(t *testing.T) {
	m := completedMatch("match-rating-guards")
	live := confirmedMatch("match-rating-live", 11)
	service, _, opponents := ratingFixture(m, 3)

	cases := []struct {
		name  string
		input SubmitRatingsInput
		want  error
	}{
		{
			name:  "empty slate",
			input: SubmitRatingsInput{CallerID: memory.CaptainGaruda, MatchID: m.ID},
			want:  ErrInvalidInput,
		},
		{
			name: "teammate target",
			input: SubmitRatingsInput{
				CallerID: memory.CaptainGaruda,
				MatchID:  m.ID,
				Items:    []RatingItem{{RatedID: "user-garuda-01", Value: 5}},
			},
			want: ErrInvalidInput,
		},
		{
			name: "self target",
			input: SubmitRatingsInput{
				CallerID: memory.CaptainGaruda,
				MatchID:  m.ID,
				Items:    []RatingItem{{RatedID: memory.CaptainGaruda, Value: 5}},
			},
			want: ErrInvalidInput,
		},
		{
			name: "duplicate target",
			input: SubmitRatingsInput{
				CallerID: memory.CaptainGaruda,
				MatchID:  m.ID,
				Items: []RatingItem{
					{RatedID: opponents[0], Value: 5},
					{RatedID: opponents[0], Value: 6},
				},
			},
			want: ErrInvalidInput,
		},
		{
			name: "value out of range",
			input: SubmitRatingsInput{
				CallerID: memory.CaptainGaruda,
				MatchID:  m.ID,
				Items:    []RatingItem{{RatedID: opponents[0], Value: 11}},
			},
			want: ErrInvalidInput,
		},
		{
			name: "non-participant rater",
			input: SubmitRatingsInput{
				CallerID: memory.CaptainBintang,
				MatchID:  m.ID,
				Items:    []RatingItem{{RatedID: opponents[0], Value: 5}},
			},
			want: ErrForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Submit(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Ratings only open once the match completes.
	liveService, _, _ := ratingFixture(live, 3)
	_, err := liveService.Submit(t.Context(), SubmitRatingsInput{
		CallerID: memory.CaptainGaruda,
		MatchID:  live.ID,
		Items:    []RatingItem{{RatedID: "user-opp-00", Value: 5}},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for live match, got %v", err)
	}
}
