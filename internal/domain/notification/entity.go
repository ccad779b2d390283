package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceLate         NotificationType = "ATTENDANCE_LATE"
	TypeAttendanceManualEntry  NotificationType = "ATTENDANCE_MANUAL_ENTRY"
	TypeRegularizationApproved NotificationType = "REGULARIZATION_APPROVED"
	TypeRegularizationRejected NotificationType = "REGULARIZATION_REJECTED"
)

// Notification is a stored in-app notification. Delivery transport (email,
// push) is an external concern; this module only creates records.
type Notification struct {
	ID          string
	CompanyID   string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	EntityID    *string
	EntityType  *string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
