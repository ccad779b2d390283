package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/leave"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

// GetApprovedLeaveOn implements leave.Repository.
func (r *leaveRepository) GetApprovedLeaveOn(ctx context.Context, employeeID string, date time.Time, companyID string) (*leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, type, start_date, end_date
		FROM leaves
		WHERE employee_id = $1
		  AND company_id = $2
		  AND status = 'APPROVED'
		  AND start_date <= $3
		  AND end_date >= $3
		LIMIT 1
	`

	var lv leave.Leave
	err := q.QueryRow(ctx, query, employeeID, companyID, date).Scan(
		&lv.ID, &lv.EmployeeID, &lv.CompanyID, &lv.Type, &lv.StartDate, &lv.EndDate,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approved leave: %w", err)
	}

	return &lv, nil
}

// GetHolidayOn implements leave.Repository.
func (r *leaveRepository) GetHolidayOn(ctx context.Context, companyID string, date time.Time) (*leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, date
		FROM holidays
		WHERE company_id = $1 AND date = $2
		LIMIT 1
	`

	var h leave.Holiday
	err := q.QueryRow(ctx, query, companyID, date).Scan(&h.ID, &h.CompanyID, &h.Name, &h.Date)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}

	return &h, nil
}

// CountHolidaysInRange implements leave.Repository.
func (r *leaveRepository) CountHolidaysInRange(ctx context.Context, companyID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM holidays
		WHERE company_id = $1
		  AND date >= $2
		  AND date <= $3
	`

	var count int
	if err := q.QueryRow(ctx, query, companyID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	return count, nil
}
