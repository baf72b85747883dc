package postgres

import (
	"context"
	"database/sql"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	n.ID = common.NewUUID()
	n.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications (id, user_id, kind, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.UserID, n.Kind, n.Message, n.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID common.UUID, limit int) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, kind, message, created_at FROM notifications
		WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2`, userID, limit)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	defer rows.Close()
	items := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan notification", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	return items, nil
}
