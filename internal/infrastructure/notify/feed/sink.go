package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/platform/id"
)

// Sink writes events into the persistent in-app notification feed.
type Sink struct {
	repo  notification.Repository
	idGen id.Generator
	now   func() time.Time
}

func NewSink(repo notification.Repository, idGen id.Generator) *Sink {
	return &Sink{
		repo:  repo,
		idGen: idGen,
		now:   time.Now,
	}
}

func (s *Sink) Create(ctx context.Context, userID string, kind notification.Kind, payload map[string]any) error {
	publicID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate notification id: %w", err)
	}

	n := notification.Notification{
		ID:        publicID,
		UserID:    userID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	return nil
}
