package company

import (
	"context"
	"errors"
)

var ErrCompanyNotFound = errors.New("company not found")

// Repository reads company settings and office locations. Company CRUD is
// owned by an external collaborator; this module only consumes the settings.
type Repository interface {
	// GetSettings retrieves one company's attendance-relevant settings.
	GetSettings(ctx context.Context, companyID string) (Settings, error)

	// ListActive returns settings of all active companies. Used by the
	// late check-in sweep.
	ListActive(ctx context.Context) ([]Settings, error)

	// ListActiveOfficeLocations returns the company's active geofence
	// locations; an empty slice means geofencing is not enforced.
	ListActiveOfficeLocations(ctx context.Context, companyID string) ([]OfficeLocation, error)
}
