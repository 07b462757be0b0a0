package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/user"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/usecase"
)

type stubVerifier struct {
	principals map[string]user.Principal
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := v.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type nopDispatcher struct{}

func (nopDispatcher) Notify(context.Context, string, notification.Kind, map[string]any) {}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	idGen := id.NewRandomGenerator()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	requestRepo := memory.NewRequestRepository()
	rosterRepo := memory.NewRosterRepository(memory.SeedRoster())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	voteRepo := memory.NewMotmRepository()
	ratingRepo := memory.NewRatingRepository()
	notificationRepo := memory.NewNotificationRepository()

	dispatcher := nopDispatcher{}

	handler := NewHandler(
		usecase.NewMatchService(matchRepo, requestRepo, rosterRepo, teamRepo, idGen, logger),
		usecase.NewNegotiationService(matchRepo, requestRepo, teamRepo, idGen, dispatcher, logger),
		usecase.NewRosterService(matchRepo, rosterRepo, teamRepo, idGen, dispatcher, logger),
		usecase.NewScoreService(matchRepo, rosterRepo, teamRepo, playerRepo, dispatcher, logger),
		usecase.NewMotmService(matchRepo, rosterRepo, voteRepo, playerRepo, idGen, dispatcher, logger),
		usecase.NewRatingService(matchRepo, rosterRepo, ratingRepo, playerRepo, idGen, logger),
		usecase.NewNotificationService(notificationRepo, logger),
		logger,
	)

	verifier := &stubVerifier{principals: map[string]user.Principal{
		"token-garuda":   {UserID: memory.CaptainGaruda},
		"token-rajawali": {UserID: memory.CaptainRajawali},
	}}

	return NewRouter(handler, verifier, logger, []string{"*"})
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_CreateMatchRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	body := `{"type":"public","max_players_per_team":7,"kickoff_at":"2026-04-01T19:00:00Z","venue":"Lapangan Senayan"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/matches", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_CreateMatchHappyPath(t *testing.T) {
	router := newTestRouter(t)

	body := `{"type":"public","max_players_per_team":7,"kickoff_at":"2026-04-01T19:00:00Z","venue":"Lapangan Senayan"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/matches", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-garuda")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data matchDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ID == "" {
		t.Fatal("expected generated match id")
	}
	if envelope.Data.Status != "pending" {
		t.Fatalf("expected pending status, got %s", envelope.Data.Status)
	}
	if envelope.Data.TeamAID != memory.TeamIDGarudaFC {
		t.Fatalf("expected creator team, got %s", envelope.Data.TeamAID)
	}
}

func TestRouter_CreateMatchRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	body := `{"type":"public","max_players_per_team":7,"kickoff_at":"2026-04-01T19:00:00Z","surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/matches", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-garuda")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_GetMatchIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/match-friendly-001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data matchDetailsDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Match.ID != "match-friendly-001" {
		t.Fatalf("unexpected match id: %s", envelope.Data.Match.ID)
	}
	if envelope.Data.TeamA.ID == "" {
		t.Fatal("expected team A details")
	}
}

func TestRouter_GetMatchNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/match-missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_JoinAndJoinStatus(t *testing.T) {
	router := newTestRouter(t)

	body := `{"side":"A"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/matches/match-public-001/join", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-rajawali")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/v1/matches/match-public-001/join-status", nil)
	statusReq.Header.Set("Authorization", "Bearer token-rajawali")
	statusRec := httptest.NewRecorder()
	router.ServeHTTP(statusRec, statusReq)

	if statusRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", statusRec.Code, statusRec.Body.String())
	}

	var envelope struct {
		Data matchPlayerDTO `json:"data"`
	}
	if err := sonic.Unmarshal(statusRec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.JoinStatus != "pending" {
		t.Fatalf("expected pending join, got %s", envelope.Data.JoinStatus)
	}
}

func TestRouter_SubmitScoreValidation(t *testing.T) {
	router := newTestRouter(t)

	body := `{"goals_a":-1,"goals_b":2}`
	req := httptest.NewRequest(http.MethodPost, "/v1/matches/match-public-001/score", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-garuda")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
