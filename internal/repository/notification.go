package repository

import (
	"context"
	"fmt"

	"github.com/transfermarket/platform/internal/domain"
)

type notificationRepo struct{}

// NewNotificationRepository returns a pgx-backed NotificationRepository.
func NewNotificationRepository() NotificationRepository {
	return &notificationRepo{}
}

func (r *notificationRepo) Insert(ctx context.Context, db DBTX, n *domain.Notification) error {
	_, err := db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, details)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.UserID, n.Title, n.Message, n.Details)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepo) ListForAdmins(ctx context.Context, db DBTX, limit int) ([]domain.Notification, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, title, message, details, read_at, created_at
		FROM notifications
		WHERE user_id IS NULL
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Details,
			&n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
