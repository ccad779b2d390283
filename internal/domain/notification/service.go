package notification

import (
	"context"
	"time"
)

// Service creates notifications. Fire-and-forget from the caller's
// perspective: a notification failure must never fail the attendance
// operation that triggered it, so callers discard the returned error after
// the service has logged it.
type Service interface {
	Notify(ctx context.Context, req CreateNotificationRequest) error

	// SentOnDay reports whether a notification of the type already went to
	// the recipient on the given day. Used to keep sweeps idempotent.
	SentOnDay(ctx context.Context, recipientID string, notifType NotificationType, dayStart time.Time) (bool, error)
}
