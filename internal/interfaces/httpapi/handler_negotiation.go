package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimasprk/matchday/internal/usecase"
)

type inviteTeamRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

func (h *Handler) InviteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InviteTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req inviteTeamRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	invite, err := h.negotiationService.InviteTeam(ctx, principal.UserID, matchID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "invite team failed", "user_id", principal.UserID, "match_id", matchID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchRequestToDTO(invite))
}

func (h *Handler) RequestToPlay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestToPlay")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	challenge, err := h.negotiationService.RequestToPlay(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "request to play failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchRequestToDTO(challenge))
}

func (h *Handler) AcceptMatchRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptMatchRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	requestID := strings.TrimSpace(r.PathValue("requestID"))

	bound, err := h.negotiationService.AcceptRequest(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept match request failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(bound))
}

func (h *Handler) DeclineMatchRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineMatchRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	requestID := strings.TrimSpace(r.PathValue("requestID"))

	declined, err := h.negotiationService.DeclineRequest(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "decline match request failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchRequestToDTO(declined))
}
