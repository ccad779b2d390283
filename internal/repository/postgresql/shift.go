package postgresql

import (
	"context"
	"fmt"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, company_id, name, start_time, end_time, grace_time_in,
	working_days, half_day_threshold_minutes, is_default, is_active`

func scanShift(row pgx.Row, s *shift.Shift) error {
	return row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.StartTime, &s.EndTime, &s.GraceTimeIn,
		&s.WorkingDays, &s.HalfDayThresholdMinutes, &s.IsDefault, &s.IsActive,
	)
}

// GetByID implements shift.Repository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE id = $1 AND company_id = $2
	`

	var s shift.Shift
	if err := scanShift(q.QueryRow(ctx, query, id, companyID), &s); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return &s, nil
}

// GetDefault implements shift.Repository.
func (r *shiftRepository) GetDefault(ctx context.Context, companyID string) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE company_id = $1
		  AND is_default = TRUE
		  AND is_active = TRUE
		LIMIT 1
	`

	var s shift.Shift
	if err := scanShift(q.QueryRow(ctx, query, companyID), &s); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default shift: %w", err)
	}

	return &s, nil
}

// ListActive implements shift.Repository.
func (r *shiftRepository) ListActive(ctx context.Context, companyID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var s shift.Shift
		if err := scanShift(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}
