package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/dimasprk/matchday/internal/domain/notification"
	qb "github.com/dimasprk/matchday/internal/platform/querybuilder"
)

const notificationColumns = `id, public_id, user_id, kind, payload, created_at, read_at`

type notificationTableModel struct {
	ID        int64        `db:"id"`
	PublicID  string       `db:"public_id"`
	UserID    string       `db:"user_id"`
	Kind      string       `db:"kind"`
	Payload   []byte       `db:"payload"`
	CreatedAt time.Time    `db:"created_at"`
	ReadAt    sql.NullTime `db:"read_at"`
}

func (row notificationTableModel) toDomain() (notification.Notification, error) {
	n := notification.Notification{
		ID:        row.PublicID,
		UserID:    row.UserID,
		Kind:      notification.Kind(row.Kind),
		CreatedAt: row.CreatedAt,
	}
	if row.ReadAt.Valid {
		readAt := row.ReadAt.Time
		n.ReadAt = &readAt
	}
	if len(row.Payload) > 0 {
		if err := sonic.Unmarshal(row.Payload, &n.Payload); err != nil {
			return notification.Notification{}, fmt.Errorf("decode notification payload: %w", err)
		}
	}

	return n, nil
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	payload := []byte("{}")
	if n.Payload != nil {
		encoded, err := sonic.Marshal(n.Payload)
		if err != nil {
			return fmt.Errorf("encode notification payload: %w", err)
		}
		payload = encoded
	}

	query, args, err := qb.InsertInto("notifications").
		Columns("public_id", "user_id", "kind", "payload", "created_at").
		Values(n.ID, n.UserID, string(n.Kind), payload, n.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build create notification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	query, args, err := qb.Select(notificationColumns).From("notifications").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications by user: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	const query = `
UPDATE notifications
SET read_at = COALESCE(read_at, NOW())
WHERE public_id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}

	return oneRowAffected(res)
}
