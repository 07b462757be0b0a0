package notification

import "context"

// Repository stores the in-app notification feed.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}
