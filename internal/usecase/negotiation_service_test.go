package usecase

import (
	"errors"
	"sync"
	"testing"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

func newNegotiationService(matches []match.Match) (*NegotiationService, *memory.MatchRepository, *memory.RequestRepository, *recordingNotifier) {
	matchRepo := memory.NewMatchRepository(matches)
	requestRepo := memory.NewRequestRepository()
	notifier := &recordingNotifier{}

	service := NewNegotiationService(
		matchRepo,
		requestRepo,
		memory.NewTeamRepository(memory.SeedTeams()),
		newSeqIDGenerator("req"),
		notifier,
		logging.NewNop(),
	)

	return service, matchRepo, requestRepo, notifier
}

func TestNegotiationService_InviteThenAccept(t *testing.T) {
	m := pendingMatch("match-friendly", match.TypeFriendly, 11)
	service, matchRepo, _, notifier := newNegotiationService([]match.Match{m})

	req, err := service.InviteTeam(t.Context(), memory.CaptainGaruda, m.ID, memory.TeamIDRajawali)
	if err != nil {
		t.Fatalf("invite team failed: %v", err)
	}
	if req.Direction != match.DirectionInvite || req.Status != match.RequestPending {
		t.Fatalf("unexpected request: %+v", req)
	}

	kinds := notifier.kindsFor(memory.CaptainRajawali)
	if len(kinds) != 1 || kinds[0] != notification.KindFriendlyInvitation {
		t.Fatalf("expected invitation notification for invited captain, got %v", kinds)
	}

	// Only the invited team's captain may answer.
	if _, err := service.AcceptRequest(t.Context(), memory.CaptainGaruda, req.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for inviter accepting, got %v", err)
	}

	bound, err := service.AcceptRequest(t.Context(), memory.CaptainRajawali, req.ID)
	if err != nil {
		t.Fatalf("accept request failed: %v", err)
	}
	if bound.TeamBID != memory.TeamIDRajawali || bound.Status != match.StatusConfirmed {
		t.Fatalf("expected confirmed with bound opponent, got %+v", bound)
	}

	stored, ok, err := matchRepo.GetByID(t.Context(), m.ID)
	if err != nil || !ok {
		t.Fatalf("reload match: ok=%v err=%v", ok, err)
	}
	if stored.TeamBID != memory.TeamIDRajawali {
		t.Fatalf("expected opponent persisted, got %q", stored.TeamBID)
	}
}

func TestNegotiationService_InviteValidation(t *testing.T) {
	m := pendingMatch("match-friendly", match.TypeFriendly, 11)
	public := pendingMatch("match-public", match.TypePublic, 7)
	service, _, _, _ := newNegotiationService([]match.Match{m, public})

	if _, err := service.InviteTeam(t.Context(), memory.CaptainGaruda, public.ID, memory.TeamIDRajawali); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for public match invite, got %v", err)
	}
	if _, err := service.InviteTeam(t.Context(), memory.CaptainRajawali, m.ID, memory.TeamIDBintang); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-creator invite, got %v", err)
	}
	if _, err := service.InviteTeam(t.Context(), memory.CaptainGaruda, m.ID, memory.TeamIDGarudaFC); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-invite, got %v", err)
	}
	if _, err := service.InviteTeam(t.Context(), memory.CaptainGaruda, m.ID, "team-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown team, got %v", err)
	}

	if _, err := service.InviteTeam(t.Context(), memory.CaptainGaruda, m.ID, memory.TeamIDRajawali); err != nil {
		t.Fatalf("first invite failed: %v", err)
	}
	if _, err := service.InviteTeam(t.Context(), memory.CaptainGaruda, m.ID, memory.TeamIDRajawali); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate invite, got %v", err)
	}
}

func TestNegotiationService_ChallengeFlow(t *testing.T) {
	m := pendingMatch("match-public", match.TypePublic, 7)
	service, _, requestRepo, notifier := newNegotiationService([]match.Match{m})

	if _, err := service.RequestToPlay(t.Context(), memory.CaptainGaruda, m.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for own-team challenge, got %v", err)
	}

	req, err := service.RequestToPlay(t.Context(), memory.CaptainRajawali, m.ID)
	if err != nil {
		t.Fatalf("challenge failed: %v", err)
	}
	if _, err := service.RequestToPlay(t.Context(), memory.CaptainRajawali, m.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate challenge, got %v", err)
	}

	other, err := service.RequestToPlay(t.Context(), memory.CaptainBintang, m.ID)
	if err != nil {
		t.Fatalf("second challenge failed: %v", err)
	}

	// Only the match creator decides on challenges.
	if _, err := service.AcceptRequest(t.Context(), memory.CaptainRajawali, req.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for challenger self-accept, got %v", err)
	}

	bound, err := service.AcceptRequest(t.Context(), memory.CaptainGaruda, req.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if bound.TeamBID != memory.TeamIDRajawali {
		t.Fatalf("expected Rajawali bound, got %s", bound.TeamBID)
	}

	// Losing sibling requests are auto-rejected.
	sibling, ok, err := requestRepo.GetByID(t.Context(), other.ID)
	if err != nil || !ok {
		t.Fatalf("reload sibling: ok=%v err=%v", ok, err)
	}
	if sibling.Status != match.RequestRejected {
		t.Fatalf("expected sibling rejected, got %s", sibling.Status)
	}

	accepted := notifier.kindsFor(memory.CaptainRajawali)
	if len(accepted) == 0 || accepted[len(accepted)-1] != notification.KindPlayRequestAccepted {
		t.Fatalf("expected acceptance notification for challenger, got %v", accepted)
	}
}

func TestNegotiationService_DeclineRequest(t *testing.T) {
	m := pendingMatch("match-public", match.TypePublic, 7)
	service, _, _, notifier := newNegotiationService([]match.Match{m})

	req, err := service.RequestToPlay(t.Context(), memory.CaptainRajawali, m.ID)
	if err != nil {
		t.Fatalf("challenge failed: %v", err)
	}

	declined, err := service.DeclineRequest(t.Context(), memory.CaptainGaruda, req.ID)
	if err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if declined.Status != match.RequestRejected {
		t.Fatalf("expected rejected, got %s", declined.Status)
	}
	if _, err := service.DeclineRequest(t.Context(), memory.CaptainGaruda, req.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on double decline, got %v", err)
	}

	kinds := notifier.kindsFor(memory.CaptainRajawali)
	if len(kinds) == 0 || kinds[len(kinds)-1] != notification.KindPlayRequestDeclined {
		t.Fatalf("expected decline notification, got %v", kinds)
	}
}

func TestNegotiationService_ConcurrentAcceptsBindOneOpponent(t *testing.T) {
	m := pendingMatch("match-public", match.TypePublic, 7)
	service, matchRepo, _, _ := newNegotiationService([]match.Match{m})

	reqRajawali, err := service.RequestToPlay(t.Context(), memory.CaptainRajawali, m.ID)
	if err != nil {
		t.Fatalf("challenge failed: %v", err)
	}
	reqBintang, err := service.RequestToPlay(t.Context(), memory.CaptainBintang, m.ID)
	if err != nil {
		t.Fatalf("challenge failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, reqID := range []string{reqRajawali.ID, reqBintang.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.AcceptRequest(t.Context(), memory.CaptainGaruda, reqID)
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrConflict):
		default:
			t.Fatalf("unexpected accept error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning accept, got %d", winners)
	}

	stored, _, err := matchRepo.GetByID(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	if stored.TeamBID == "" || stored.Status != match.StatusConfirmed {
		t.Fatalf("expected one bound opponent, got %+v", stored)
	}
}
