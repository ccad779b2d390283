package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
	attendanceService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/attendance"
)

// alertWindow bounds how long after shift start a late check-in alert is
// still worth sending. Past this the employee is either absent or already
// handled; alerting hours later is just noise.
const alertWindow = 3 * time.Hour

// AttendanceJobs holds the recurring attendance scans. The sweep reads
// companies, shifts and employees and writes notifications only; it never
// touches attendance records.
type AttendanceJobs struct {
	attendanceRepo  attendance.Repository
	employeeRepo    employee.Repository
	shiftRepo       shift.Repository
	companyRepo     company.Repository
	notificationSvc notification.Service
	clk             clock.Zoned
	interval        time.Duration
}

func NewAttendanceJobs(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	shiftRepo shift.Repository,
	companyRepo company.Repository,
	notificationSvc notification.Service,
	clk clock.Zoned,
	interval time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		shiftRepo:       shiftRepo,
		companyRepo:     companyRepo,
		notificationSvc: notificationSvc,
		clk:             clk,
		interval:        interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("late_checkin_sweep", j.interval, j.SweepLateCheckIns)
}

// SweepLateCheckIns flags employees who have not checked in past their grace
// window and notifies each at most once per day. One company's failure never
// aborts the sweep for the others; cancellation is honored between companies.
func (j *AttendanceJobs) SweepLateCheckIns(ctx context.Context) error {
	companies, err := j.companyRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active companies: %w", err)
	}

	for _, c := range companies {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.sweepCompany(ctx, c); err != nil {
			slog.Error("Cron: Late check-in sweep failed for company",
				"company_id", c.ID,
				"error", err)
		}
	}
	return nil
}

func (j *AttendanceJobs) sweepCompany(ctx context.Context, c company.Settings) error {
	nowLocal := j.clk.NowIn(c.Timezone)
	today := clock.DayStart(nowLocal)
	weekday := attendanceService.WeekdayCode(nowLocal)

	shifts, err := j.shiftRepo.ListActive(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to list shifts: %w", err)
	}

	for i := range shifts {
		sh := &shifts[i]
		if !sh.WorksOn(weekday) {
			continue
		}

		shiftStart, _, err := attendanceService.ShiftBounds(sh, nowLocal)
		if err != nil {
			slog.Error("Cron: Skipping shift with invalid times",
				"shift_id", sh.ID, "company_id", c.ID, "error", err)
			continue
		}

		grace := time.Duration(max(sh.GraceTimeIn, 0)+max(c.GraceTimeMinutes, 0)) * time.Minute
		graceLimit := shiftStart.Add(grace)
		alertWindowEnd := shiftStart.Add(alertWindow)

		if !nowLocal.After(graceLimit) || !nowLocal.Before(alertWindowEnd) {
			continue
		}

		if err := j.sweepShift(ctx, c, sh, today); err != nil {
			return err
		}
	}
	return nil
}

func (j *AttendanceJobs) sweepShift(ctx context.Context, c company.Settings, sh *shift.Shift, today time.Time) error {
	employees, err := j.employeeRepo.ListActiveOnShift(ctx, c.ID, &sh.ID)
	if err != nil {
		return fmt.Errorf("failed to list employees on shift: %w", err)
	}

	// The default shift also covers employees with no assigned shift.
	if sh.IsDefault {
		unassigned, err := j.employeeRepo.ListActiveOnShift(ctx, c.ID, nil)
		if err != nil {
			return fmt.Errorf("failed to list unassigned employees: %w", err)
		}
		employees = append(employees, unassigned...)
	}

	notified := 0
	for _, emp := range employees {
		if emp.UserID == nil || !emp.UserActive {
			continue
		}

		checkedIn, err := j.attendanceRepo.HasCheckedIn(ctx, emp.ID, today, c.ID)
		if err != nil {
			slog.Error("Cron: Failed to check attendance", "employee_id", emp.ID, "error", err)
			continue
		}
		if checkedIn {
			continue
		}

		// Idempotency: existence query backed by a storage uniqueness
		// constraint on (recipient, type, day). Running the sweep twice in
		// the same window produces at most one notification per employee.
		alreadySent, err := j.notificationSvc.SentOnDay(ctx, *emp.UserID, notification.TypeAttendanceLate, today)
		if err != nil {
			slog.Error("Cron: Failed to check existing notification", "employee_id", emp.ID, "error", err)
			continue
		}
		if alreadySent {
			continue
		}

		entityType := "employee"
		if err := j.notificationSvc.Notify(ctx, notification.CreateNotificationRequest{
			CompanyID:   c.ID,
			RecipientID: *emp.UserID,
			Type:        notification.TypeAttendanceLate,
			Title:       "Missed Check-In",
			Message:     fmt.Sprintf("You have not checked in for your %s shift today", sh.StartTime),
			EntityID:    &emp.ID,
			EntityType:  &entityType,
		}); err != nil {
			continue
		}
		notified++
	}

	if notified > 0 {
		slog.Info("Cron: Late check-in notifications sent",
			"company_id", c.ID, "shift_id", sh.ID, "count", notified)
	}
	return nil
}
