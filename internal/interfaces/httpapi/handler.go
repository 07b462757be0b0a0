package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/usecase"
)

type Handler struct {
	matchService        *usecase.MatchService
	negotiationService  *usecase.NegotiationService
	rosterService       *usecase.RosterService
	scoreService        *usecase.ScoreService
	motmService         *usecase.MotmService
	ratingService       *usecase.RatingService
	notificationService *usecase.NotificationService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	negotiationService *usecase.NegotiationService,
	rosterService *usecase.RosterService,
	scoreService *usecase.ScoreService,
	motmService *usecase.MotmService,
	ratingService *usecase.RatingService,
	notificationService *usecase.NotificationService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:        matchService,
		negotiationService:  negotiationService,
		rosterService:       rosterService,
		scoreService:        scoreService,
		motmService:         motmService,
		ratingService:       ratingService,
		notificationService: notificationService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
