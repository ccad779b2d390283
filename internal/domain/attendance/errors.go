package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrLocationRequired = errors.New("location is required for office check-in")
	ErrOutsideGeofence  = errors.New("you are outside all registered office locations; check in as REMOTE or FIELD instead")

	// Check-out errors
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")

	// Break errors
	ErrBreakAlreadyOpen = errors.New("a break is already in progress")
	ErrNoActiveBreak    = errors.New("no break is in progress")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrRecordLocked       = errors.New("attendance record is locked")
	ErrVersionConflict    = errors.New("attendance record was modified concurrently")
)
