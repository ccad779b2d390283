package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/regularization"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type regularizationRepository struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.Repository {
	return &regularizationRepository{db: db}
}

// Create implements regularization.Repository.
//
// The partial unique index on (employee_id, date) WHERE status = 'PENDING'
// is the arbiter: a concurrent duplicate makes the insert a no-op and the
// missing RETURNING row maps to ErrDuplicatePending.
func (r *regularizationRepository) Create(ctx context.Context, req regularization.Request) (regularization.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO regularization_requests (
			employee_id, company_id, date, check_in_time, check_out_time, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (employee_id, date) WHERE status = 'PENDING' DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.CompanyID,
		req.Date,
		req.CheckInTime,
		req.CheckOutTime,
		req.Reason,
		regularization.StatusPending,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return regularization.Request{}, regularization.ErrDuplicatePending
		}
		return regularization.Request{}, fmt.Errorf("failed to create regularization request: %w", err)
	}

	req.Status = regularization.StatusPending
	return req, nil
}

// GetByID implements regularization.Repository.
func (r *regularizationRepository) GetByID(ctx context.Context, id string, companyID string) (regularization.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.id, r.employee_id, r.company_id, r.date,
			   r.check_in_time, r.check_out_time, r.reason, r.status,
			   r.reviewed_by, r.reviewed_at, r.review_note, r.rejection_reason,
			   r.created_at, r.updated_at,
			   e.full_name AS employee_name
		FROM regularization_requests r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1 AND r.company_id = $2
	`

	var req regularization.Request
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&req.ID, &req.EmployeeID, &req.CompanyID, &req.Date,
		&req.CheckInTime, &req.CheckOutTime, &req.Reason, &req.Status,
		&req.ReviewedBy, &req.ReviewedAt, &req.ReviewNote, &req.RejectionReason,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return regularization.Request{}, regularization.ErrRequestNotFound
		}
		return regularization.Request{}, fmt.Errorf("failed to get regularization request: %w", err)
	}

	return req, nil
}

// HasPending implements regularization.Repository.
func (r *regularizationRepository) HasPending(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM regularization_requests
			WHERE employee_id = $1
			  AND date = $2
			  AND company_id = $3
			  AND status = 'PENDING'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending regularization: %w", err)
	}

	return exists, nil
}

// Transition implements regularization.Repository. The status predicate is
// the exactly-once guard: two concurrent reviews race on it and only the
// first write sticks.
func (r *regularizationRepository) Transition(ctx context.Context, req regularization.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE regularization_requests SET
			status = $3,
			reviewed_by = $4,
			reviewed_at = $5,
			review_note = $6,
			rejection_reason = $7,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query,
		req.ID,
		req.CompanyID,
		req.Status,
		req.ReviewedBy,
		req.ReviewedAt,
		req.ReviewNote,
		req.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("failed to transition regularization request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return regularization.ErrAlreadyProcessed
	}

	return nil
}

// List implements regularization.Repository.
func (r *regularizationRepository) List(ctx context.Context, filter regularization.Filter, companyID string) ([]regularization.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "r.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND r.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM regularization_requests r WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regularization requests: %w", err)
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
		SELECT r.id, r.employee_id, r.company_id, r.date,
			   r.check_in_time, r.check_out_time, r.reason, r.status,
			   r.reviewed_by, r.reviewed_at, r.review_note, r.rejection_reason,
			   r.created_at, r.updated_at,
			   e.full_name AS employee_name
		FROM regularization_requests r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query regularization requests: %w", err)
	}
	defer rows.Close()

	var requests []regularization.Request
	for rows.Next() {
		var req regularization.Request
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.CompanyID, &req.Date,
			&req.CheckInTime, &req.CheckOutTime, &req.Reason, &req.Status,
			&req.ReviewedBy, &req.ReviewedAt, &req.ReviewNote, &req.RejectionReason,
			&req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan regularization request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}
