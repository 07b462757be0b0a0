package usecase

import (
	"context"
	"fmt"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

const defaultNotificationLimit = 50

// NotificationService reads a user's in-app feed.
type NotificationService struct {
	repo   notification.Repository
	logger *logging.Logger
}

func NewNotificationService(repo notification.Repository, logger *logging.Logger) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &NotificationService{repo: repo, logger: logger}
}

// ListMine returns the caller's most recent notifications, newest first.
func (s *NotificationService) ListMine(ctx context.Context, callerID string, limit int) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.ListMine")
	defer span.End()

	if limit <= 0 || limit > 200 {
		limit = defaultNotificationLimit
	}

	items, err := s.repo.ListByUser(ctx, callerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return items, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, callerID, notificationID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkRead")
	defer span.End()

	if notificationID == "" {
		return fmt.Errorf("%w: notification id is required", ErrInvalidInput)
	}

	ok, err := s.repo.MarkRead(ctx, notificationID, callerID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: notification not found", ErrNotFound)
	}

	return nil
}
