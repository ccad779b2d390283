package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Create implements notification.Repository.
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (
			id, company_id, recipient_id, sender_id, type, title, message,
			entity_id, entity_type
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		n.ID,
		n.CompanyID,
		n.RecipientID,
		n.SenderID,
		n.Type,
		n.Title,
		n.Message,
		n.EntityID,
		n.EntityType,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ExistsOnDay implements notification.Repository.
func (r *notificationRepository) ExistsOnDay(ctx context.Context, recipientID string, notifType notification.NotificationType, dayStart time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM notifications
			WHERE recipient_id = $1
			  AND type = $2
			  AND created_at >= $3
			  AND created_at < $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, recipientID, notifType, dayStart, dayStart.Add(24*time.Hour)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}

	return exists, nil
}
