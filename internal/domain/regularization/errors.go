package regularization

import "errors"

// Regularization domain errors
var (
	ErrRequestNotFound  = errors.New("regularization request not found")
	ErrDuplicatePending = errors.New("a pending regularization request already exists for this date")
	ErrAlreadyProcessed = errors.New("regularization request has already been approved or rejected")
	ErrNoCorrection     = errors.New("request must correct at least one of check-in or check-out")
)
