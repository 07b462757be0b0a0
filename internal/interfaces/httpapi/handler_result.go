package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimasprk/matchday/internal/usecase"
)

type submitScoreRequest struct {
	GoalsA *int `json:"goals_a" validate:"required,min=0,max=99"`
	GoalsB *int `json:"goals_b" validate:"required,min=0,max=99"`
}

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req submitScoreRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.scoreService.SubmitScore(ctx, usecase.SubmitScoreInput{
		CallerID: principal.UserID,
		MatchID:  matchID,
		GoalsA:   *req.GoalsA,
		GoalsB:   *req.GoalsB,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreStatusToDTO(status))
}

func (h *Handler) GetScoreStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreStatus")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	status, err := h.scoreService.GetScoreStatus(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "score status failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreStatusToDTO(status))
}

type motmVoteRequest struct {
	VotedPlayerID string `json:"voted_player_id" validate:"required"`
}

type motmVoteDTO struct {
	VoteID    string `json:"vote_id"`
	MatchID   string `json:"match_id"`
	VotedID   string `json:"voted_player_id"`
	Finalized bool   `json:"finalized"`
	WinnerID  string `json:"winner_id,omitempty"`
}

func (h *Handler) VoteMotm(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VoteMotm")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req motmVoteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.motmService.Vote(ctx, principal.UserID, matchID, req.VotedPlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "motm vote failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, motmVoteDTO{
		VoteID:    result.Vote.ID,
		MatchID:   result.Vote.MatchID,
		VotedID:   result.Vote.VotedPlayerID,
		Finalized: result.Finalized,
		WinnerID:  result.WinnerID,
	})
}

type submitRatingsRequest struct {
	Ratings []ratingItemRequest `json:"ratings" validate:"required,min=1,max=10,dive"`
}

type ratingItemRequest struct {
	RatedID string `json:"rated_id" validate:"required"`
	Value   int    `json:"value" validate:"required,min=1,max=10"`
}

func (h *Handler) SubmitRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRatings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req submitRatingsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]usecase.RatingItem, 0, len(req.Ratings))
	for _, item := range req.Ratings {
		items = append(items, usecase.RatingItem{RatedID: item.RatedID, Value: item.Value})
	}

	saved, err := h.ratingService.Submit(ctx, usecase.SubmitRatingsInput{
		CallerID: principal.UserID,
		MatchID:  matchID,
		Items:    items,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit ratings failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]ratingDTO, 0, len(saved))
	for _, item := range saved {
		dtos = append(dtos, ratingToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusCreated, dtos)
}

func (h *Handler) ListMatchRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchRatings")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	ratings, err := h.ratingService.ListForMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list ratings failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ratingDTO, 0, len(ratings))
	for _, item := range ratings {
		items = append(items, ratingToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
