package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/history"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
)

type historyRepository struct {
	db *database.DB
}

func NewHistoryRepository(db *database.DB) history.Repository {
	return &historyRepository{db: db}
}

// CountStatuses implements history.Repository.
func (r *historyRepository) CountStatuses(ctx context.Context, companyID string, from, to time.Time) (history.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM attendances
		WHERE company_id = $1
		  AND date >= $2
		  AND date <= $3
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return history.StatusCounts{}, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	var counts history.StatusCounts
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return history.StatusCounts{}, fmt.Errorf("failed to scan status count: %w", err)
		}
		switch status {
		case attendance.StatusPresent:
			counts.Present = count
		case attendance.StatusHalfDay:
			counts.HalfDay = count
		case attendance.StatusAbsent:
			counts.Absent = count
		case attendance.StatusOnLeave:
			counts.OnLeave = count
		}
	}

	return counts, rows.Err()
}

// ListRows implements history.Repository.
func (r *historyRepository) ListRows(ctx context.Context, companyID string, from, to time.Time) ([]history.RecordRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.check_in_time, a.status, e.shift_id
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.company_id = $1
		  AND a.date >= $2
		  AND a.date <= $3
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance rows: %w", err)
	}
	defer rows.Close()

	var result []history.RecordRow
	for rows.Next() {
		var row history.RecordRow
		err := rows.Scan(&row.AttendanceID, &row.EmployeeID, &row.Date, &row.CheckInTime, &row.Status, &row.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
