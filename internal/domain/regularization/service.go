package regularization

import (
	"context"
)

// Service defines business logic for the regularization workflow.
// Approval triggers the reconciliation against attendance records.
type Service interface {
	// Create submits a new correction request (employee).
	Create(ctx context.Context, req CreateRequest) (Response, error)

	// Approve approves the request and reconciles the attendance record
	// inside a single transaction (admin).
	Approve(ctx context.Context, req ReviewRequest) (Response, error)

	// Reject rejects the request with a reason (admin). Terminal; no
	// attendance side effects beyond the status change and a notification.
	Reject(ctx context.Context, req ReviewRequest) (Response, error)

	// List retrieves requests with filters (admin).
	List(ctx context.Context, filter Filter, companyID string) ([]Response, int64, error)
}
