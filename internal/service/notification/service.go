package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/google/uuid"
)

type NotificationServiceImpl struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) notification.Service {
	return &NotificationServiceImpl{repo: repo}
}

// Notify implements notification.Service. Failures are logged here so
// callers can treat notification creation as fire-and-forget; an attendance
// operation never fails because its notification did.
func (s *NotificationServiceImpl) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := &notification.Notification{
		ID:          uuid.NewString(),
		CompanyID:   req.CompanyID,
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		slog.Error("Failed to create notification",
			"type", req.Type,
			"recipient_id", req.RecipientID,
			"error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// SentOnDay implements notification.Service.
func (s *NotificationServiceImpl) SentOnDay(ctx context.Context, recipientID string, notifType notification.NotificationType, dayStart time.Time) (bool, error) {
	return s.repo.ExistsOnDay(ctx, recipientID, notifType, dayStart)
}
