package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

func newMatchService(matches []match.Match) (*MatchService, *memory.MatchRepository) {
	matchRepo := memory.NewMatchRepository(matches)
	service := NewMatchService(
		matchRepo,
		memory.NewRequestRepository(),
		memory.NewRosterRepository(nil),
		memory.NewTeamRepository(memory.SeedTeams()),
		newSeqIDGenerator("match"),
		logging.NewNop(),
	)
	return service, matchRepo
}

func TestMatchService_CreateMatch(t *testing.T) {
	service, _ := newMatchService(nil)

	now := fixedTime()
	service.now = func() time.Time { return now }

	created, err := service.CreateMatch(t.Context(), CreateMatchInput{
		CallerID:          memory.CaptainGaruda,
		Type:              match.TypePublic,
		MaxPlayersPerTeam: 7,
		KickoffAt:         now.Add(48 * time.Hour),
		Venue:             "  Lapangan Banteng ",
	})
	if err != nil {
		t.Fatalf("create match failed: %v", err)
	}

	if created.ID != "match-001" {
		t.Fatalf("expected match id match-001, got %s", created.ID)
	}
	if created.Status != match.StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.TeamAID != memory.TeamIDGarudaFC {
		t.Fatalf("expected team A %s, got %s", memory.TeamIDGarudaFC, created.TeamAID)
	}
	if created.TeamBID != "" {
		t.Fatalf("expected empty opponent slot, got %s", created.TeamBID)
	}
	if created.Venue != "Lapangan Banteng" {
		t.Fatalf("expected trimmed venue, got %q", created.Venue)
	}
}

func TestMatchService_CreateMatch_Validation(t *testing.T) {
	service, _ := newMatchService(nil)

	_, err := service.CreateMatch(t.Context(), CreateMatchInput{
		CallerID:          memory.CaptainGaruda,
		Type:              "derby",
		MaxPlayersPerTeam: 7,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad type, got %v", err)
	}

	_, err = service.CreateMatch(t.Context(), CreateMatchInput{
		CallerID:          memory.CaptainGaruda,
		Type:              match.TypePublic,
		MaxPlayersPerTeam: 0,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero cap, got %v", err)
	}

	_, err = service.CreateMatch(t.Context(), CreateMatchInput{
		CallerID:          "user-garuda-01",
		Type:              match.TypePublic,
		MaxPlayersPerTeam: 7,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-captain, got %v", err)
	}
}

func TestMatchService_GetByID_AggregatesRosterAndCounts(t *testing.T) {
	m := confirmedMatch("match-agg", 7)
	rosterRepo := memory.NewRosterRepository([]roster.MatchPlayer{
		approvedRow("mp-1", m.ID, memory.CaptainGaruda, match.SideA),
		approvedRow("mp-2", m.ID, "user-garuda-01", match.SideA),
		approvedRow("mp-3", m.ID, memory.CaptainRajawali, match.SideB),
		pendingRow("mp-4", m.ID, "user-rajawali-01", match.SideB),
	})

	service := NewMatchService(
		memory.NewMatchRepository([]match.Match{m}),
		memory.NewRequestRepository(),
		rosterRepo,
		memory.NewTeamRepository(memory.SeedTeams()),
		newSeqIDGenerator("match"),
		logging.NewNop(),
	)

	details, err := service.GetByID(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("get match failed: %v", err)
	}

	if details.CountA != 2 || details.CountB != 1 {
		t.Fatalf("expected counts 2/1, got %d/%d", details.CountA, details.CountB)
	}
	if len(details.PendingJoins) != 1 || details.PendingJoins[0].ID != "mp-4" {
		t.Fatalf("expected one pending join mp-4, got %+v", details.PendingJoins)
	}
	if details.TeamA.ID != memory.TeamIDGarudaFC {
		t.Fatalf("expected team A %s, got %s", memory.TeamIDGarudaFC, details.TeamA.ID)
	}
	if details.TeamB == nil || details.TeamB.ID != memory.TeamIDRajawali {
		t.Fatalf("expected team B %s, got %+v", memory.TeamIDRajawali, details.TeamB)
	}

	_, err = service.GetByID(t.Context(), "match-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_StartMatch(t *testing.T) {
	m := confirmedMatch("match-start", 7)
	service, _ := newMatchService([]match.Match{m})

	started, err := service.StartMatch(t.Context(), m.ID, memory.CaptainRajawali)
	if err != nil {
		t.Fatalf("start match failed: %v", err)
	}
	if started.Status != match.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}

	_, err = service.StartMatch(t.Context(), m.ID, memory.CaptainGaruda)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on double start, got %v", err)
	}

	_, err = service.StartMatch(t.Context(), m.ID, memory.CaptainBintang)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outside captain, got %v", err)
	}
}

func TestMatchService_CancelMatch(t *testing.T) {
	m := confirmedMatch("match-cancel", 7)
	service, _ := newMatchService([]match.Match{m})

	_, err := service.CancelMatch(t.Context(), m.ID, memory.CaptainRajawali)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-creator, got %v", err)
	}

	cancelled, err := service.CancelMatch(t.Context(), m.ID, memory.CaptainGaruda)
	if err != nil {
		t.Fatalf("cancel match failed: %v", err)
	}
	if cancelled.Status != match.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	_, err = service.CancelMatch(t.Context(), m.ID, memory.CaptainGaruda)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on double cancel, got %v", err)
	}
}
