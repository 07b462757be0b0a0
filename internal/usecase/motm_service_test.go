package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

func completedMatchWithVoting(id string) match.Match {
	m := confirmedMatch(id, 7)
	goalsA, goalsB := 2, 1
	m.Status = match.StatusCompleted
	m.ScoreA = &goalsA
	m.ScoreB = &goalsB
	m.MotmVotingOpen = true
	return m
}

func motmFixture(m match.Match, participants []roster.MatchPlayer) (*MotmService, *memory.PlayerRepository, *recordingNotifier) {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	notifier := &recordingNotifier{}

	service := NewMotmService(
		memory.NewMatchRepository([]match.Match{m}),
		memory.NewRosterRepository(participants),
		memory.NewMotmRepository(),
		playerRepo,
		newSeqIDGenerator("vote"),
		notifier,
		logging.NewNop(),
	)

	return service, playerRepo, notifier
}

func fourParticipants(matchID string) []roster.MatchPlayer {
	return []roster.MatchPlayer{
		approvedRow("mp-a1", matchID, memory.CaptainGaruda, match.SideA),
		approvedRow("mp-a2", matchID, "user-garuda-01", match.SideA),
		approvedRow("mp-b1", matchID, memory.CaptainRajawali, match.SideB),
		approvedRow("mp-b2", matchID, "user-rajawali-01", match.SideB),
	}
}

func TestMotmService_QuorumFinalizesWinner(t *testing.T) {
	m := completedMatchWithVoting("match-motm")
	service, playerRepo, notifier := motmFixture(m, fourParticipants(m.ID))

	ballots := []struct {
		voter string
		pick  string
	}{
		{memory.CaptainGaruda, "user-garuda-01"},
		{"user-garuda-01", "user-garuda-01"},
		{memory.CaptainRajawali, "user-garuda-01"},
	}
	for _, b := range ballots {
		res, err := service.Vote(t.Context(), b.voter, m.ID, b.pick)
		if err != nil {
			t.Fatalf("vote by %s failed: %v", b.voter, err)
		}
		if res.Finalized {
			t.Fatalf("vote by %s must not finalize before quorum", b.voter)
		}
	}

	// The fourth vote reaches quorum and finalizes.
	final, err := service.Vote(t.Context(), "user-rajawali-01", m.ID, memory.CaptainRajawali)
	if err != nil {
		t.Fatalf("quorum vote failed: %v", err)
	}
	if !final.Finalized || final.WinnerID != "user-garuda-01" {
		t.Fatalf("expected user-garuda-01 finalized as winner, got %+v", final)
	}

	winner, _, err := playerRepo.GetByID(t.Context(), "user-garuda-01")
	if err != nil {
		t.Fatalf("get winner: %v", err)
	}
	if winner.MotmCount != 1 {
		t.Fatalf("expected motm count 1, got %d", winner.MotmCount)
	}
	if winner.SeasonPoints != motmBonusPoints {
		t.Fatalf("expected %d bonus points, got %d", motmBonusPoints, winner.SeasonPoints)
	}

	if notifier.countKind(notification.KindMotmWinner) != 4 {
		t.Fatal("expected every participant notified of the winner")
	}

	// Voting is closed after finalization.
	_, err = service.Vote(t.Context(), memory.CaptainGaruda, m.ID, "user-garuda-01")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after voting closed, got %v", err)
	}
}

func TestMotmService_VoteGuards(t *testing.T) {
	m := completedMatchWithVoting("match-motm-guards")
	service, _, _ := motmFixture(m, fourParticipants(m.ID))

	if _, err := service.Vote(t.Context(), memory.CaptainBintang, m.ID, memory.CaptainGaruda); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-participant voter, got %v", err)
	}
	if _, err := service.Vote(t.Context(), memory.CaptainGaruda, m.ID, memory.CaptainBintang); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-participant target, got %v", err)
	}

	if _, err := service.Vote(t.Context(), memory.CaptainGaruda, m.ID, memory.CaptainRajawali); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := service.Vote(t.Context(), memory.CaptainGaruda, m.ID, "user-garuda-01"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate vote, got %v", err)
	}

	closed := completedMatchWithVoting("match-motm-closed")
	closed.MotmVotingOpen = false
	closedService, _, _ := motmFixture(closed, fourParticipants(closed.ID))
	if _, err := closedService.Vote(t.Context(), memory.CaptainGaruda, closed.ID, memory.CaptainRajawali); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when voting closed, got %v", err)
	}
}

func TestMotmService_TieBreaksOnEarliestVote(t *testing.T) {
	m := completedMatchWithVoting("match-motm-tie")
	service, _, _ := motmFixture(m, fourParticipants(m.ID))

	base := fixedTime()
	clock := base
	service.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	// Two votes each for the two captains: Rajawali's first vote lands
	// earlier, so Rajawali's captain takes the tie.
	if _, err := service.Vote(t.Context(), memory.CaptainGaruda, m.ID, memory.CaptainRajawali); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := service.Vote(t.Context(), "user-garuda-01", m.ID, memory.CaptainGaruda); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := service.Vote(t.Context(), memory.CaptainRajawali, m.ID, memory.CaptainGaruda); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	final, err := service.Vote(t.Context(), "user-rajawali-01", m.ID, memory.CaptainRajawali)
	if err != nil {
		t.Fatalf("quorum vote failed: %v", err)
	}
	if !final.Finalized || final.WinnerID != memory.CaptainRajawali {
		t.Fatalf("expected tie broken by earliest vote, got %+v", final)
	}
}

func TestMotmService_ConcurrentQuorumFinalizesOnce(t *testing.T) {
	m := completedMatchWithVoting("match-motm-race")
	service, playerRepo, _ := motmFixture(m, fourParticipants(m.ID))

	voters := []string{memory.CaptainGaruda, "user-garuda-01", memory.CaptainRajawali, "user-rajawali-01"}

	var wg sync.WaitGroup
	results := make([]VoteResult, len(voters))
	errs := make([]error, len(voters))
	for i, voter := range voters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = service.Vote(t.Context(), voter, m.ID, "user-garuda-01")
		}()
	}
	wg.Wait()

	finalized := 0
	for i := range voters {
		if errs[i] != nil {
			t.Fatalf("vote by %s failed: %v", voters[i], errs[i])
		}
		if results[i].Finalized {
			finalized++
		}
	}
	if finalized != 1 {
		t.Fatalf("expected exactly one finalizing vote, got %d", finalized)
	}

	winner, _, err := playerRepo.GetByID(t.Context(), "user-garuda-01")
	if err != nil {
		t.Fatalf("get winner: %v", err)
	}
	if winner.MotmCount != 1 || winner.SeasonPoints != motmBonusPoints {
		t.Fatalf("expected single award, got motm=%d points=%d", winner.MotmCount, winner.SeasonPoints)
	}
}
