package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/leave"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
)

// versionRetries bounds the optimistic-concurrency retry loop on
// read-modify-write operations (check-out, breaks).
const versionRetries = 3

type AttendanceServiceImpl struct {
	attendanceRepo  attendance.Repository
	employeeRepo    employee.Repository
	companyRepo     company.Repository
	leaveRepo       leave.Repository
	notificationSvc notification.Service
	resolver        ShiftResolver
	geofence        GeofenceValidator
	clk             clock.Zoned
}

func NewAttendanceService(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	companyRepo company.Repository,
	leaveRepo leave.Repository,
	notificationSvc notification.Service,
	resolver ShiftResolver,
	clk clock.Zoned,
) attendance.Service {
	return &AttendanceServiceImpl{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		companyRepo:     companyRepo,
		leaveRepo:       leaveRepo,
		notificationSvc: notificationSvc,
		resolver:        resolver,
		clk:             clk,
	}
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	emp, err := a.employeeRepo.FindActive(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	settings, err := a.companyRepo.GetSettings(ctx, req.CompanyID)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	nowLocal := a.clk.NowIn(settings.Timezone)
	today := clock.DayStart(nowLocal)

	attType := req.Type
	if attType == "" {
		attType = attendance.TypeOffice
	}

	if attType == attendance.TypeOffice {
		offices, err := a.companyRepo.ListActiveOfficeLocations(ctx, req.CompanyID)
		if err != nil {
			return attendance.CheckInResponse{}, fmt.Errorf("failed to list office locations: %w", err)
		}
		if len(offices) > 0 {
			if req.Location == nil {
				if settings.RequireGpsTracking {
					return attendance.CheckInResponse{}, attendance.ErrLocationRequired
				}
			} else if !a.geofence.WithinAny(req.Location.Latitude, req.Location.Longitude, offices) {
				return attendance.CheckInResponse{}, attendance.ErrOutsideGeofence
			}
		}
	}

	lateMinutes := 0
	effectiveShift, err := a.resolver.Resolve(ctx, emp)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if effectiveShift != nil {
		shiftStart, _, err := ShiftBounds(effectiveShift, nowLocal)
		if err != nil {
			return attendance.CheckInResponse{}, err
		}
		grace := EffectiveGrace(effectiveShift.GraceTimeIn, settings.GraceTimeMinutes)
		lateMinutes = LateMinutes(shiftStart, grace, nowLocal)
	}

	nowUTC := nowLocal.UTC()
	record := attendance.Attendance{
		EmployeeID:    req.EmployeeID,
		CompanyID:     req.CompanyID,
		Date:          today,
		CheckInTime:   &nowUTC,
		CheckInIP:     req.IPAddress,
		CheckInDevice: req.DeviceInfo,
		CheckInNote:   req.Note,
		Status:        attendance.StatusPresent,
		Type:          attType,
		WorkLocation:  workLocationFor(attType, req.WorkLocation),
		LateMinutes:   lateMinutes,
	}
	if req.Location != nil {
		record.CheckInLat = &req.Location.Latitude
		record.CheckInLng = &req.Location.Longitude
	}

	// The upsert is the real double-check-in guard: it is a single
	// conditional write keyed by the (employee, date) uniqueness constraint,
	// so concurrent attempts cannot both succeed.
	stored, err := a.attendanceRepo.UpsertCheckIn(ctx, record)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	return attendance.CheckInResponse{
		RecordID:    stored.ID,
		CheckInTime: nowUTC.Format("2006-01-02 15:04:05"),
		Status:      stored.Status,
		LateMinutes: stored.LateMinutes,
	}, nil
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	emp, err := a.employeeRepo.FindActive(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	settings, err := a.companyRepo.GetSettings(ctx, req.CompanyID)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	effectiveShift, err := a.resolver.Resolve(ctx, emp)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	var result attendance.CheckOutResponse
	err = a.updateWithRetry(ctx, req.EmployeeID, req.CompanyID, settings.Timezone, func(record *attendance.Attendance, nowLocal time.Time) error {
		if record.CheckInTime == nil {
			return attendance.ErrNotCheckedIn
		}
		if record.CheckOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if record.IsLocked {
			return attendance.ErrRecordLocked
		}

		nowUTC := nowLocal.UTC()

		// An open break ends implicitly at check-out; breaks never extend
		// past the session.
		if open := record.OpenBreak(); open != nil {
			end := nowUTC
			open.End = &end
			open.DurationMinutes = MinutesBetween(open.Start, end)
		}
		record.TotalBreakMinutes = record.SumBreakMinutes()

		worked := MinutesBetween(*record.CheckInTime, nowUTC) - record.TotalBreakMinutes
		if worked < 0 {
			worked = 0
		}
		record.TotalWorkMinutes = worked
		record.OvertimeMinutes = OvertimeMinutes(worked, settings.OvertimeThreshold())

		if effectiveShift != nil {
			shiftStart, shiftEnd, err := ShiftBounds(effectiveShift, nowLocal)
			if err != nil {
				return err
			}
			expected := MinutesBetween(shiftStart, shiftEnd)
			record.EarlyLeaveMinutes = EarlyLeaveMinutes(nowLocal, shiftEnd, worked, expected)

			// Half-day demotion, with promotion back for a genuinely full
			// day. LateMinutes stays as recorded at check-in: strict
			// tracking, no forgiveness for working the hours back.
			if threshold := effectiveShift.HalfDayThresholdMinutes; threshold > 0 {
				if worked < threshold {
					record.Status = attendance.StatusHalfDay
				} else if record.LateMinutes == 0 && worked >= 2*threshold {
					record.Status = attendance.StatusPresent
				}
			}
		}

		record.CheckOutTime = &nowUTC
		record.CheckOutIP = req.IPAddress
		record.CheckOutDevice = req.DeviceInfo
		record.CheckOutNote = req.Note
		if req.Location != nil {
			record.CheckOutLat = &req.Location.Latitude
			record.CheckOutLng = &req.Location.Longitude
		}

		result = attendance.CheckOutResponse{
			RecordID:         record.ID,
			CheckInTime:      record.CheckInTime.Format("2006-01-02 15:04:05"),
			CheckOutTime:     nowUTC.Format("2006-01-02 15:04:05"),
			TotalWorkMinutes: record.TotalWorkMinutes,
			OvertimeMinutes:  record.OvertimeMinutes,
			Status:           record.Status,
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	return result, nil
}

// StartBreak implements attendance.Service.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, employeeID, companyID string) error {
	if _, err := a.employeeRepo.FindActive(ctx, employeeID, companyID); err != nil {
		return err
	}
	settings, err := a.companyRepo.GetSettings(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to get company settings: %w", err)
	}

	return a.updateWithRetry(ctx, employeeID, companyID, settings.Timezone, func(record *attendance.Attendance, nowLocal time.Time) error {
		if record.CheckInTime == nil {
			return attendance.ErrNotCheckedIn
		}
		if record.CheckOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if record.IsLocked {
			return attendance.ErrRecordLocked
		}
		if record.OpenBreak() != nil {
			return attendance.ErrBreakAlreadyOpen
		}
		record.Breaks = append(record.Breaks, attendance.Break{Start: nowLocal.UTC()})
		return nil
	})
}

// EndBreak implements attendance.Service.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, employeeID, companyID string) (attendance.EndBreakResponse, error) {
	if _, err := a.employeeRepo.FindActive(ctx, employeeID, companyID); err != nil {
		return attendance.EndBreakResponse{}, err
	}
	settings, err := a.companyRepo.GetSettings(ctx, companyID)
	if err != nil {
		return attendance.EndBreakResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	var result attendance.EndBreakResponse
	err = a.updateWithRetry(ctx, employeeID, companyID, settings.Timezone, func(record *attendance.Attendance, nowLocal time.Time) error {
		open := record.OpenBreak()
		if open == nil {
			return attendance.ErrNoActiveBreak
		}
		if record.IsLocked {
			return attendance.ErrRecordLocked
		}
		end := nowLocal.UTC()
		open.End = &end
		open.DurationMinutes = MinutesBetween(open.Start, end)
		record.TotalBreakMinutes = record.SumBreakMinutes()
		result = attendance.EndBreakResponse{
			DurationMinutes:   open.DurationMinutes,
			TotalBreakMinutes: record.TotalBreakMinutes,
		}
		return nil
	})
	if err != nil {
		return attendance.EndBreakResponse{}, err
	}
	return result, nil
}

// updateWithRetry loads today's record, applies fn, and writes it back under
// the version guard, retrying on concurrent modification. Two racing break
// calls or a check-out racing a break-end serialize here instead of
// corrupting the break totals.
func (a *AttendanceServiceImpl) updateWithRetry(ctx context.Context, employeeID, companyID, timezone string, fn func(record *attendance.Attendance, nowLocal time.Time) error) error {
	nowLocal := a.clk.NowIn(timezone)
	today := clock.DayStart(nowLocal)

	var lastErr error
	for attempt := 0; attempt < versionRetries; attempt++ {
		record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today, companyID)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		if record == nil {
			return attendance.ErrNotCheckedIn
		}

		if err := fn(record, nowLocal); err != nil {
			return err
		}

		err = a.attendanceRepo.Update(ctx, *record)
		if err == nil {
			return nil
		}
		if !errors.Is(err, attendance.ErrVersionConflict) {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		lastErr = err
	}
	return lastErr
}

// GetTodayStatus implements attendance.Service.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID, companyID string) (attendance.TodayStatusResponse, error) {
	if _, err := a.employeeRepo.FindActive(ctx, employeeID, companyID); err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	settings, err := a.companyRepo.GetSettings(ctx, companyID)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	today := a.clk.Today(settings.Timezone)

	resp := attendance.TodayStatusResponse{
		IsWeekend: today.Weekday() == time.Saturday || today.Weekday() == time.Sunday,
	}

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today, companyID)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record != nil {
		mapped := attendance.ToResponse(*record)
		resp.Attendance = &mapped
	}

	holiday, err := a.leaveRepo.GetHolidayOn(ctx, companyID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	if holiday != nil {
		resp.Holiday = &holiday.Name
	}

	onLeave, err := a.leaveRepo.GetApprovedLeaveOn(ctx, employeeID, today, companyID)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get leave: %w", err)
	}
	resp.OnLeave = onLeave != nil

	return resp, nil
}

// CreateManualEntry implements attendance.Service.
func (a *AttendanceServiceImpl) CreateManualEntry(ctx context.Context, companyID string, req attendance.ManualEntryRequest, actorID string) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.employeeRepo.FindActive(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	settings, err := a.companyRepo.GetSettings(ctx, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	loc := clock.LocationFor(settings.Timezone)
	day, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	checkIn, err := parseEntryTime(req.CheckInTime, day, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	checkOut, err := parseEntryTime(req.CheckOutTime, day, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, day, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	merged := attendance.Attendance{
		EmployeeID: req.EmployeeID,
		CompanyID:  companyID,
		Date:       day,
		Status:     attendance.StatusPresent,
		Type:       attendance.TypeOffice,
	}
	if record != nil {
		if record.IsLocked {
			return attendance.AttendanceResponse{}, attendance.ErrRecordLocked
		}
		merged = *record
	}
	if checkIn != nil {
		merged.CheckInTime = checkIn
	}
	if checkOut != nil {
		merged.CheckOutTime = checkOut
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}
	if req.Type != nil {
		merged.Type = *req.Type
	}
	merged.IsManualEntry = true
	merged.ManualReason = &req.Reason

	if merged.CheckInTime != nil && merged.CheckOutTime != nil {
		worked := MinutesBetween(*merged.CheckInTime, *merged.CheckOutTime) - merged.TotalBreakMinutes
		if worked < 0 {
			worked = 0
		}
		merged.TotalWorkMinutes = worked
		merged.OvertimeMinutes = OvertimeMinutes(worked, settings.OvertimeThreshold())
	}
	if merged.CheckInTime != nil {
		lateMinutes, err := a.lateMinutesFor(ctx, emp, settings, *merged.CheckInTime)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		merged.LateMinutes = lateMinutes
	}

	if record == nil {
		stored, err := a.attendanceRepo.Create(ctx, merged)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create manual entry: %w", err)
		}
		merged = stored
	} else if err := a.attendanceRepo.Update(ctx, merged); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update manual entry: %w", err)
	}

	if emp.UserID != nil {
		entityType := "attendance"
		_ = a.notificationSvc.Notify(ctx, notification.CreateNotificationRequest{
			CompanyID:   companyID,
			RecipientID: *emp.UserID,
			SenderID:    &actorID,
			Type:        notification.TypeAttendanceManualEntry,
			Title:       "Attendance Updated",
			Message:     fmt.Sprintf("Your attendance for %s was entered manually: %s", req.Date, req.Reason),
			EntityID:    &merged.ID,
			EntityType:  &entityType,
		})
	}

	return attendance.ToResponse(merged), nil
}

// lateMinutesFor recomputes lateness for a check-in instant using the same
// shift-resolution and grace rules as live check-in.
func (a *AttendanceServiceImpl) lateMinutesFor(ctx context.Context, emp employee.Employee, settings company.Settings, checkIn time.Time) (int, error) {
	effectiveShift, err := a.resolver.Resolve(ctx, emp)
	if err != nil {
		return 0, err
	}
	if effectiveShift == nil {
		return 0, nil
	}
	checkInLocal := checkIn.In(clock.LocationFor(settings.Timezone))
	shiftStart, _, err := ShiftBounds(effectiveShift, checkInLocal)
	if err != nil {
		return 0, err
	}
	grace := EffectiveGrace(effectiveShift.GraceTimeIn, settings.GraceTimeMinutes)
	return LateMinutes(shiftStart, grace, checkInLocal), nil
}

// BulkLock implements attendance.Service.
func (a *AttendanceServiceImpl) BulkLock(ctx context.Context, companyID string, req attendance.BulkLockRequest) (attendance.BulkLockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkLockResponse{}, err
	}
	settings, err := a.companyRepo.GetSettings(ctx, companyID)
	if err != nil {
		return attendance.BulkLockResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	loc := clock.LocationFor(settings.Timezone)
	from, _ := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	to, _ := time.ParseInLocation("2006-01-02", req.EndDate, loc)

	count, err := a.attendanceRepo.LockApprovedInRange(ctx, companyID, from, to, a.clk.Now())
	if err != nil {
		return attendance.BulkLockResponse{}, fmt.Errorf("failed to lock records: %w", err)
	}
	return attendance.BulkLockResponse{LockedCount: count}, nil
}

func workLocationFor(attType string, explicit *string) *string {
	if explicit != nil && *explicit != "" {
		return explicit
	}
	var loc string
	if attType == attendance.TypeOffice {
		loc = "OFFICE"
	} else {
		loc = "HOME"
	}
	return &loc
}

// parseEntryTime accepts either a full "2006-01-02 15:04:05" timestamp or a
// bare "15:04" wall-clock time combined with the entry's date.
func parseEntryTime(s *string, day time.Time, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", *s, loc); err == nil {
		u := t.UTC()
		return &u, nil
	}
	t, err := time.ParseInLocation("15:04", *s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", *s, err)
	}
	combined := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc).UTC()
	return &combined, nil
}
