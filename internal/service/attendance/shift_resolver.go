package attendance

import (
	"context"
	"fmt"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
)

// ShiftResolver resolves the effective shift for an employee: the assigned
// shift when present and active, else the company's default shift, else nil.
// Check-in, check-out, the reconciler and the sweep all resolve through this
// one component so the fallback semantics cannot drift apart.
type ShiftResolver struct {
	shiftRepo shift.Repository
}

func NewShiftResolver(shiftRepo shift.Repository) ShiftResolver {
	return ShiftResolver{shiftRepo: shiftRepo}
}

// Resolve returns nil without error when the employee has no effective shift;
// callers treat that as "no lateness/overtime tracking", never as a failure.
func (r ShiftResolver) Resolve(ctx context.Context, emp employee.Employee) (*shift.Shift, error) {
	if emp.ShiftID != nil {
		s, err := r.shiftRepo.GetByID(ctx, *emp.ShiftID, emp.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to get assigned shift: %w", err)
		}
		if s != nil && s.IsActive {
			return s, nil
		}
	}

	s, err := r.shiftRepo.GetDefault(ctx, emp.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get default shift: %w", err)
	}
	return s, nil
}
