package response

import (
	"errors"
	"net/http"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/regularization"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in found for today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoActiveBreak):
		BadRequest(w, "No break in progress", nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location is required for office check-in", nil)
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Forbidden(w, "Location is outside all office geofences")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordLocked):
		Conflict(w, "Attendance record is locked")
	case errors.Is(err, attendance.ErrVersionConflict):
		Conflict(w, "Attendance record was modified concurrently, please retry")

	// Regularization domain errors
	case errors.Is(err, regularization.ErrRequestNotFound):
		NotFound(w, "Regularization request not found")
	case errors.Is(err, regularization.ErrDuplicatePending):
		Conflict(w, "A pending regularization request already exists for this date")
	case errors.Is(err, regularization.ErrAlreadyProcessed):
		Conflict(w, "Regularization request already processed")
	case errors.Is(err, regularization.ErrNoCorrection):
		BadRequest(w, "At least one corrected time is required", nil)

	// Directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
