package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date,
	a.check_in_time, a.check_in_latitude, a.check_in_longitude, a.check_in_ip, a.check_in_device, a.check_in_note,
	a.check_out_time, a.check_out_latitude, a.check_out_longitude, a.check_out_ip, a.check_out_device, a.check_out_note,
	a.status, a.type, a.work_location,
	a.breaks, a.total_break_minutes, a.total_work_minutes, a.late_minutes, a.overtime_minutes, a.early_leave_minutes,
	a.is_manual_entry, a.manual_reason,
	a.is_approved, a.approved_by, a.approved_at,
	a.is_locked, a.locked_at,
	a.version, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, att *attendance.Attendance) error {
	var breaksJSON []byte
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
		&att.CheckInTime, &att.CheckInLat, &att.CheckInLng, &att.CheckInIP, &att.CheckInDevice, &att.CheckInNote,
		&att.CheckOutTime, &att.CheckOutLat, &att.CheckOutLng, &att.CheckOutIP, &att.CheckOutDevice, &att.CheckOutNote,
		&att.Status, &att.Type, &att.WorkLocation,
		&breaksJSON, &att.TotalBreakMinutes, &att.TotalWorkMinutes, &att.LateMinutes, &att.OvertimeMinutes, &att.EarlyLeaveMinutes,
		&att.IsManualEntry, &att.ManualReason,
		&att.IsApproved, &att.ApprovedBy, &att.ApprovedAt,
		&att.IsLocked, &att.LockedAt,
		&att.Version, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &att.Breaks); err != nil {
			return fmt.Errorf("failed to decode breaks: %w", err)
		}
	}
	return nil
}

func marshalBreaks(breaks []attendance.Break) ([]byte, error) {
	if breaks == nil {
		breaks = []attendance.Break{}
	}
	return json.Marshal(breaks)
}

// UpsertCheckIn implements attendance.Repository.
//
// The insert-or-update is a single statement racing on the
// (employee_id, date) unique constraint. The DO UPDATE only fires while the
// stored record has no check-in and is not locked; when the condition fails
// no row comes back and the existing record decides which sentinel applies.
func (a *attendanceRepository) UpsertCheckIn(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	breaksJSON, err := marshalBreaks(att.Breaks)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode breaks: %w", err)
	}

	query := `
		INSERT INTO attendances (
			employee_id, company_id, date,
			check_in_time, check_in_latitude, check_in_longitude,
			check_in_ip, check_in_device, check_in_note,
			status, type, work_location, breaks, late_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			check_in_ip = EXCLUDED.check_in_ip,
			check_in_device = EXCLUDED.check_in_device,
			check_in_note = EXCLUDED.check_in_note,
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			work_location = EXCLUDED.work_location,
			late_minutes = EXCLUDED.late_minutes,
			version = attendances.version + 1,
			updated_at = NOW()
		WHERE attendances.check_in_time IS NULL
		  AND attendances.is_locked = FALSE
		RETURNING id, version, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		att.EmployeeID,
		att.CompanyID,
		att.Date,
		att.CheckInTime,
		att.CheckInLat,
		att.CheckInLng,
		att.CheckInIP,
		att.CheckInDevice,
		att.CheckInNote,
		att.Status,
		att.Type,
		att.WorkLocation,
		breaksJSON,
		att.LateMinutes,
	).Scan(&att.ID, &att.Version, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, a.checkInConflict(ctx, att)
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert check-in: %w", err)
	}

	return att, nil
}

// checkInConflict inspects the record that blocked the upsert to pick the
// right sentinel. Only reached on the error path; the write itself stays a
// single statement.
func (a *attendanceRepository) checkInConflict(ctx context.Context, att attendance.Attendance) error {
	existing, err := a.GetByEmployeeAndDate(ctx, att.EmployeeID, att.Date, att.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to inspect conflicting attendance: %w", err)
	}
	if existing != nil && existing.IsLocked {
		return attendance.ErrRecordLocked
	}
	return attendance.ErrAlreadyCheckedIn
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	breaksJSON, err := marshalBreaks(att.Breaks)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode breaks: %w", err)
	}

	query := `
		INSERT INTO attendances (
			employee_id, company_id, date,
			check_in_time, check_in_latitude, check_in_longitude,
			check_in_ip, check_in_device, check_in_note,
			check_out_time, check_out_latitude, check_out_longitude,
			check_out_ip, check_out_device, check_out_note,
			status, type, work_location,
			breaks, total_break_minutes, total_work_minutes,
			late_minutes, overtime_minutes, early_leave_minutes,
			is_manual_entry, manual_reason,
			is_approved, approved_by, approved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
		) RETURNING id, version, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		att.EmployeeID,
		att.CompanyID,
		att.Date,
		att.CheckInTime,
		att.CheckInLat,
		att.CheckInLng,
		att.CheckInIP,
		att.CheckInDevice,
		att.CheckInNote,
		att.CheckOutTime,
		att.CheckOutLat,
		att.CheckOutLng,
		att.CheckOutIP,
		att.CheckOutDevice,
		att.CheckOutNote,
		att.Status,
		att.Type,
		att.WorkLocation,
		breaksJSON,
		att.TotalBreakMinutes,
		att.TotalWorkMinutes,
		att.LateMinutes,
		att.OvertimeMinutes,
		att.EarlyLeaveMinutes,
		att.IsManualEntry,
		att.ManualReason,
		att.IsApproved,
		att.ApprovedBy,
		att.ApprovedAt,
	).Scan(&att.ID, &att.Version, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			e.full_name AS employee_name,
			e.shift_id
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	var att attendance.Attendance
	var breaksJSON []byte
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
		&att.CheckInTime, &att.CheckInLat, &att.CheckInLng, &att.CheckInIP, &att.CheckInDevice, &att.CheckInNote,
		&att.CheckOutTime, &att.CheckOutLat, &att.CheckOutLng, &att.CheckOutIP, &att.CheckOutDevice, &att.CheckOutNote,
		&att.Status, &att.Type, &att.WorkLocation,
		&breaksJSON, &att.TotalBreakMinutes, &att.TotalWorkMinutes, &att.LateMinutes, &att.OvertimeMinutes, &att.EarlyLeaveMinutes,
		&att.IsManualEntry, &att.ManualReason,
		&att.IsApproved, &att.ApprovedBy, &att.ApprovedAt,
		&att.IsLocked, &att.LockedAt,
		&att.Version, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.ShiftID,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &att.Breaks); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to decode breaks: %w", err)
		}
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		LIMIT 1
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID), &att)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// HasCheckedIn implements attendance.Repository.
func (a *attendanceRepository) HasCheckedIn(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendances
			WHERE employee_id = $1
			  AND date = $2
			  AND company_id = $3
			  AND check_in_time IS NOT NULL
		)
	`

	var checkedIn bool
	if err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(&checkedIn); err != nil {
		return false, fmt.Errorf("failed to check attendance existence: %w", err)
	}

	return checkedIn, nil
}

// Update implements attendance.Repository. The version predicate makes the
// write optimistic: zero rows affected means someone else updated the record
// after the caller read it.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	breaksJSON, err := marshalBreaks(att.Breaks)
	if err != nil {
		return fmt.Errorf("failed to encode breaks: %w", err)
	}

	query := `
		UPDATE attendances SET
			check_in_time = $4,
			check_in_latitude = $5,
			check_in_longitude = $6,
			check_in_ip = $7,
			check_in_device = $8,
			check_in_note = $9,
			check_out_time = $10,
			check_out_latitude = $11,
			check_out_longitude = $12,
			check_out_ip = $13,
			check_out_device = $14,
			check_out_note = $15,
			status = $16,
			type = $17,
			work_location = $18,
			breaks = $19,
			total_break_minutes = $20,
			total_work_minutes = $21,
			late_minutes = $22,
			overtime_minutes = $23,
			early_leave_minutes = $24,
			is_manual_entry = $25,
			manual_reason = $26,
			is_approved = $27,
			approved_by = $28,
			approved_at = $29,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND version = $3
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.CompanyID,
		att.Version,
		att.CheckInTime,
		att.CheckInLat,
		att.CheckInLng,
		att.CheckInIP,
		att.CheckInDevice,
		att.CheckInNote,
		att.CheckOutTime,
		att.CheckOutLat,
		att.CheckOutLng,
		att.CheckOutIP,
		att.CheckOutDevice,
		att.CheckOutNote,
		att.Status,
		att.Type,
		att.WorkLocation,
		breaksJSON,
		att.TotalBreakMinutes,
		att.TotalWorkMinutes,
		att.LateMinutes,
		att.OvertimeMinutes,
		att.EarlyLeaveMinutes,
		att.IsManualEntry,
		att.ManualReason,
		att.IsApproved,
		att.ApprovedBy,
		att.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrVersionConflict
	}

	return nil
}

// ListInRange implements attendance.Repository.
func (a *attendanceRepository) ListInRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date >= $2
		  AND a.date <= $3
		  AND a.company_id = $4
		ORDER BY a.date ASC, a.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances in range: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, rows.Err()
}

// Delete implements attendance.Repository.
func (a *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}
	if filter.DateFrom != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			e.full_name AS employee_name,
			e.shift_id
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		var breaksJSON []byte
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
			&att.CheckInTime, &att.CheckInLat, &att.CheckInLng, &att.CheckInIP, &att.CheckInDevice, &att.CheckInNote,
			&att.CheckOutTime, &att.CheckOutLat, &att.CheckOutLng, &att.CheckOutIP, &att.CheckOutDevice, &att.CheckOutNote,
			&att.Status, &att.Type, &att.WorkLocation,
			&breaksJSON, &att.TotalBreakMinutes, &att.TotalWorkMinutes, &att.LateMinutes, &att.OvertimeMinutes, &att.EarlyLeaveMinutes,
			&att.IsManualEntry, &att.ManualReason,
			&att.IsApproved, &att.ApprovedBy, &att.ApprovedAt,
			&att.IsLocked, &att.LockedAt,
			&att.Version, &att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName, &att.ShiftID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		if len(breaksJSON) > 0 {
			if err := json.Unmarshal(breaksJSON, &att.Breaks); err != nil {
				return nil, 0, fmt.Errorf("failed to decode breaks: %w", err)
			}
		}
		attendances = append(attendances, att)
	}

	return attendances, total, rows.Err()
}

// LockApprovedInRange implements attendance.Repository.
func (a *attendanceRepository) LockApprovedInRange(ctx context.Context, companyID string, from, to time.Time, lockedAt time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			is_locked = TRUE,
			locked_at = $4,
			version = version + 1,
			updated_at = NOW()
		WHERE company_id = $1
		  AND date >= $2
		  AND date <= $3
		  AND is_approved = TRUE
		  AND is_locked = FALSE
	`

	tag, err := q.Exec(ctx, query, companyID, from, to, lockedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to lock attendances: %w", err)
	}

	return tag.RowsAffected(), nil
}
