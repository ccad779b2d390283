package history

import (
	"context"
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/history"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/leave"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
	attendanceService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/attendance"
)

type HistoryServiceImpl struct {
	historyRepo    history.Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	companyRepo    company.Repository
	shiftRepo      shift.Repository
	leaveRepo      leave.Repository
}

func NewHistoryService(
	historyRepo history.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	companyRepo company.Repository,
	shiftRepo shift.Repository,
	leaveRepo leave.Repository,
) history.Service {
	return &HistoryServiceImpl{
		historyRepo:    historyRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		companyRepo:    companyRepo,
		shiftRepo:      shiftRepo,
		leaveRepo:      leaveRepo,
	}
}

// List implements history.Service.
func (s *HistoryServiceImpl) List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.AttendanceResponse, int64, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.ToResponse(record))
	}
	return responses, total, nil
}

// Detail implements history.Service.
func (s *HistoryServiceImpl) Detail(ctx context.Context, id string, companyID string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return attendance.ToResponse(record), nil
}

// Summary implements history.Service. Late counts are derived from stored
// check-in instants against each employee's shift start plus grace; the
// status column written at check-in is not trusted as the sole source in
// aggregate views.
func (s *HistoryServiceImpl) Summary(ctx context.Context, companyID string, filter history.SummaryFilter) (history.Summary, error) {
	settings, err := s.companyRepo.GetSettings(ctx, companyID)
	if err != nil {
		return history.Summary{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	counts, err := s.historyRepo.CountStatuses(ctx, companyID, filter.From, filter.To)
	if err != nil {
		return history.Summary{}, fmt.Errorf("failed to count statuses: %w", err)
	}

	late, err := s.countLate(ctx, companyID, settings, filter)
	if err != nil {
		return history.Summary{}, err
	}

	calculatedAbsent, err := s.calculatedAbsent(ctx, companyID, counts, filter)
	if err != nil {
		return history.Summary{}, err
	}

	return history.Summary{
		Present:          counts.Present,
		HalfDay:          counts.HalfDay,
		Absent:           counts.Absent,
		OnLeave:          counts.OnLeave,
		Late:             late,
		CalculatedAbsent: calculatedAbsent,
	}, nil
}

func (s *HistoryServiceImpl) countLate(ctx context.Context, companyID string, settings company.Settings, filter history.SummaryFilter) (int, error) {
	rows, err := s.historyRepo.ListRows(ctx, companyID, filter.From, filter.To)
	if err != nil {
		return 0, fmt.Errorf("failed to list attendance rows: %w", err)
	}

	defaultShift, err := s.shiftRepo.GetDefault(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to get default shift: %w", err)
	}

	loc := clock.LocationFor(settings.Timezone)
	shiftCache := map[string]*shift.Shift{}
	late := 0
	for _, row := range rows {
		if row.CheckInTime == nil {
			continue
		}
		effective := defaultShift
		if row.ShiftID != nil {
			cached, ok := shiftCache[*row.ShiftID]
			if !ok {
				cached, err = s.shiftRepo.GetByID(ctx, *row.ShiftID, companyID)
				if err != nil {
					return 0, fmt.Errorf("failed to get shift: %w", err)
				}
				shiftCache[*row.ShiftID] = cached
			}
			if cached != nil && cached.IsActive {
				effective = cached
			}
		}
		if effective == nil {
			continue
		}

		checkInLocal := row.CheckInTime.In(loc)
		shiftStart, _, err := attendanceService.ShiftBounds(effective, checkInLocal)
		if err != nil {
			continue
		}
		grace := attendanceService.EffectiveGrace(effective.GraceTimeIn, settings.GraceTimeMinutes)
		if attendanceService.LateMinutes(shiftStart, grace, checkInLocal) > 0 {
			late++
		}
	}
	return late, nil
}

// calculatedAbsent bridges entirely missing records (no row at all) and
// explicit ABSENT rows: expected attendance over the range minus actual.
func (s *HistoryServiceImpl) calculatedAbsent(ctx context.Context, companyID string, counts history.StatusCounts, filter history.SummaryFilter) (int, error) {
	employees, err := s.employeeRepo.CountActive(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	holidays, err := s.leaveRepo.CountHolidaysInRange(ctx, companyID, filter.From, filter.To)
	if err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	businessDays := countBusinessDays(filter.From, filter.To)
	workDays := businessDays - holidays
	if workDays < 0 {
		workDays = 0
	}

	expected := employees * workDays
	actual := counts.Present + counts.HalfDay + counts.OnLeave
	if absent := expected - actual; absent > 0 {
		return absent, nil
	}
	return 0, nil
}

// countBusinessDays counts Monday..Friday dates in [from, to].
func countBusinessDays(from, to time.Time) int {
	days := 0
	for d := clock.DayStart(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
