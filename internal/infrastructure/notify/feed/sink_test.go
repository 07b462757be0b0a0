package feed

import (
	"testing"
	"time"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/id"
)

func TestSinkCreate_StoresFeedEntry(t *testing.T) {
	t.Parallel()

	repo := memory.NewNotificationRepository()
	sink := NewSink(repo, id.NewRandomGenerator())
	sink.now = func() time.Time {
		return time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)
	}

	err := sink.Create(t.Context(), "user-garuda-01", notification.KindJoinApproved, map[string]any{
		"match_id": "match-001",
	})
	if err != nil {
		t.Fatalf("create feed entry: %v", err)
	}

	items, err := repo.ListByUser(t.Context(), "user-garuda-01", 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(items))
	}
	if items[0].Kind != notification.KindJoinApproved {
		t.Fatalf("unexpected kind: %s", items[0].Kind)
	}
	if items[0].ID == "" {
		t.Fatal("expected generated notification id")
	}
	if got := items[0].Payload["match_id"]; got != "match-001" {
		t.Fatalf("unexpected payload match_id: %v", got)
	}
	if !items[0].CreatedAt.Equal(time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", items[0].CreatedAt)
	}
}
