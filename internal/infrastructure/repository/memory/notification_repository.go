package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dimasprk/matchday/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Notification
	now   func() time.Time
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]notification.Notification), now: time.Now}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[n.ID] = cloneNotification(n)
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	if n.ReadAt == nil {
		readAt := r.now().UTC()
		n.ReadAt = &readAt
		r.items[id] = n
	}

	return true, nil
}

func cloneNotification(n notification.Notification) notification.Notification {
	copied := n
	if n.Payload != nil {
		payload := make(map[string]any, len(n.Payload))
		for k, v := range n.Payload {
			payload[k] = v
		}
		copied.Payload = payload
	}
	if n.ReadAt != nil {
		readAt := *n.ReadAt
		copied.ReadAt = &readAt
	}
	return copied
}
