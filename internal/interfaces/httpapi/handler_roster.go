package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/usecase"
)

type joinMatchRequest struct {
	Side string `json:"side" validate:"required,oneof=A B"`
}

func (h *Handler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req joinMatchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	spot, err := h.rosterService.JoinMatch(ctx, principal.UserID, matchID, match.TeamSide(req.Side))
	if err != nil {
		h.logger.WarnContext(ctx, "join match failed", "user_id", principal.UserID, "match_id", matchID, "side", req.Side, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchPlayerToDTO(spot))
}

func (h *Handler) ApproveJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveJoin")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	joinID := strings.TrimSpace(r.PathValue("joinID"))

	approved, err := h.rosterService.ApproveJoin(ctx, principal.UserID, joinID)
	if err != nil {
		h.logger.WarnContext(ctx, "approve join failed", "user_id", principal.UserID, "join_id", joinID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPlayerToDTO(approved))
}

func (h *Handler) DeclineJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineJoin")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	joinID := strings.TrimSpace(r.PathValue("joinID"))

	declined, err := h.rosterService.DeclineJoin(ctx, principal.UserID, joinID)
	if err != nil {
		h.logger.WarnContext(ctx, "decline join failed", "user_id", principal.UserID, "join_id", joinID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPlayerToDTO(declined))
}

func (h *Handler) MyJoinStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MyJoinStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	spot, err := h.rosterService.MyJoinStatus(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "join status failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPlayerToDTO(spot))
}
