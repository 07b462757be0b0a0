package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

func TestNotificationService_ListMineAndMarkRead(t *testing.T) {
	repo := memory.NewNotificationRepository()
	service := NewNotificationService(repo, logging.NewNop())

	base := fixedTime()
	for i := 0; i < 3; i++ {
		err := repo.Create(t.Context(), notification.Notification{
			ID:        "notif-" + string(rune('a'+i)),
			UserID:    "user-1",
			Kind:      notification.KindJoinRequest,
			Payload:   map[string]any{"seq": i},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	items, err := service.ListMine(t.Context(), "user-1", 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected limit applied, got %d items", len(items))
	}
	if items[0].ID != "notif-c" {
		t.Fatalf("expected newest first, got %s", items[0].ID)
	}

	if err := service.MarkRead(t.Context(), "user-1", "notif-a"); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	// A user cannot read someone else's notification.
	err = service.MarkRead(t.Context(), "user-2", "notif-b")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}

	all, err := service.ListMine(t.Context(), "user-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, n := range all {
		if n.ID == "notif-a" && n.ReadAt == nil {
			t.Fatal("expected notif-a marked read")
		}
	}
}
