package postgresql

import (
	"context"
	"fmt"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// FindActive implements employee.Repository.
func (r *employeeRepository) FindActive(ctx context.Context, employeeID string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.company_id, e.user_id, e.full_name, e.shift_id, e.is_active,
			   COALESCE(u.is_active, FALSE) AS user_active
		FROM employees e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE e.id = $1
		  AND e.company_id = $2
		  AND e.is_active = TRUE
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.UserID, &emp.FullName, &emp.ShiftID, &emp.IsActive,
		&emp.UserActive,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to find employee: %w", err)
	}

	return emp, nil
}

// ListActiveOnShift implements employee.Repository.
func (r *employeeRepository) ListActiveOnShift(ctx context.Context, companyID string, shiftID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.company_id, e.user_id, e.full_name, e.shift_id, e.is_active,
			   u.is_active AS user_active
		FROM employees e
		JOIN users u ON u.id = e.user_id
		WHERE e.company_id = $1
		  AND e.is_active = TRUE
		  AND u.is_active = TRUE
	`

	args := []interface{}{companyID}
	if shiftID != nil {
		query += " AND e.shift_id = $2"
		args = append(args, *shiftID)
	} else {
		query += " AND e.shift_id IS NULL"
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees on shift: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		err := rows.Scan(
			&emp.ID, &emp.CompanyID, &emp.UserID, &emp.FullName, &emp.ShiftID, &emp.IsActive,
			&emp.UserActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// CountActive implements employee.Repository.
func (r *employeeRepository) CountActive(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE company_id = $1 AND is_active = TRUE`,
		companyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}

	return count, nil
}
