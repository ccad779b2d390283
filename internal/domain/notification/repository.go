package notification

import (
	"context"
	"time"
)

// Repository defines notification storage. A uniqueness constraint on
// (recipient_id, type, created day) backs the sweep's idempotency check.
type Repository interface {
	// Create inserts one notification.
	Create(ctx context.Context, n *Notification) error

	// ExistsOnDay reports whether a notification of the type was already
	// created for the recipient within [dayStart, dayStart+24h).
	ExistsOnDay(ctx context.Context, recipientID string, notifType NotificationType, dayStart time.Time) (bool, error)
}
