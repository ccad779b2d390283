package notification

// CreateNotificationRequest carries everything needed to create one
// notification record.
type CreateNotificationRequest struct {
	CompanyID   string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	EntityID    *string
	EntityType  *string
}
