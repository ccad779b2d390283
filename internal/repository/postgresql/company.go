package postgresql

import (
	"context"
	"fmt"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.Repository {
	return &companyRepository{db: db}
}

const companyColumns = `
	id, name, timezone, grace_time_minutes, overtime_threshold_minutes,
	require_gps_tracking, is_active`

// GetSettings implements company.Repository.
func (r *companyRepository) GetSettings(ctx context.Context, companyID string) (company.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE id = $1 AND is_active = TRUE
	`

	var s company.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.Name, &s.Timezone, &s.GraceTimeMinutes, &s.OvertimeThresholdMinutes,
		&s.RequireGpsTracking, &s.IsActive,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Settings{}, company.ErrCompanyNotFound
		}
		return company.Settings{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	return s, nil
}

// ListActive implements company.Repository.
func (r *companyRepository) ListActive(ctx context.Context) ([]company.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active companies: %w", err)
	}
	defer rows.Close()

	var companies []company.Settings
	for rows.Next() {
		var s company.Settings
		err := rows.Scan(
			&s.ID, &s.Name, &s.Timezone, &s.GraceTimeMinutes, &s.OvertimeThresholdMinutes,
			&s.RequireGpsTracking, &s.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, s)
	}

	return companies, rows.Err()
}

// ListActiveOfficeLocations implements company.Repository.
func (r *companyRepository) ListActiveOfficeLocations(ctx context.Context, companyID string) ([]company.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, latitude, longitude, radius_meters, is_active
		FROM office_locations
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query office locations: %w", err)
	}
	defer rows.Close()

	var locations []company.OfficeLocation
	for rows.Next() {
		var loc company.OfficeLocation
		err := rows.Scan(
			&loc.ID, &loc.CompanyID, &loc.Name, &loc.Latitude, &loc.Longitude,
			&loc.RadiusMeters, &loc.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office location: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}
