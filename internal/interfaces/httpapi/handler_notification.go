package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dimasprk/matchday/internal/usecase"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	items, err := h.notificationService.ListMine(ctx, principal.UserID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list notifications failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]notificationDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, notificationToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkNotificationRead")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	notificationID := strings.TrimSpace(r.PathValue("notificationID"))

	if err := h.notificationService.MarkRead(ctx, principal.UserID, notificationID); err != nil {
		h.logger.WarnContext(ctx, "mark notification read failed", "user_id", principal.UserID, "notification_id", notificationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}
