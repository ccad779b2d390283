package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
)

type fakeCompanyRepo struct {
	company.Repository
	companies []company.Settings
}

func (f *fakeCompanyRepo) ListActive(ctx context.Context) ([]company.Settings, error) {
	return f.companies, nil
}

type fakeShiftRepo struct {
	shift.Repository
	shifts map[string][]shift.Shift
	errs   map[string]error
}

func (f *fakeShiftRepo) ListActive(ctx context.Context, companyID string) ([]shift.Shift, error) {
	if err := f.errs[companyID]; err != nil {
		return nil, err
	}
	return f.shifts[companyID], nil
}

type fakeEmployeeRepo struct {
	employee.Repository
	byShift    map[string][]employee.Employee
	unassigned map[string][]employee.Employee
}

func (f *fakeEmployeeRepo) ListActiveOnShift(ctx context.Context, companyID string, shiftID *string) ([]employee.Employee, error) {
	if shiftID == nil {
		return f.unassigned[companyID], nil
	}
	return f.byShift[*shiftID], nil
}

type fakeAttendanceRepo struct {
	attendance.Repository
	checkedIn map[string]bool
}

func (f *fakeAttendanceRepo) HasCheckedIn(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	return f.checkedIn[employeeID], nil
}

// fakeNotificationSvc records created notifications and answers SentOnDay
// from the same records, mirroring the storage-backed idempotency check.
type fakeNotificationSvc struct {
	sent []notification.CreateNotificationRequest
}

func (f *fakeNotificationSvc) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeNotificationSvc) SentOnDay(ctx context.Context, recipientID string, notifType notification.NotificationType, dayStart time.Time) (bool, error) {
	for _, req := range f.sent {
		if req.RecipientID == recipientID && req.Type == notifType {
			return true, nil
		}
	}
	return false, nil
}

func strPtr(s string) *string { return &s }

func testEmployee(id, companyID, shiftID string) employee.Employee {
	return employee.Employee{
		ID:         id,
		CompanyID:  companyID,
		UserID:     strPtr("user-" + id),
		FullName:   "Employee " + id,
		ShiftID:    strPtr(shiftID),
		IsActive:   true,
		UserActive: true,
	}
}

func sweeperAt(t *testing.T, now time.Time, companies []company.Settings, shifts *fakeShiftRepo, employees *fakeEmployeeRepo, attRepo *fakeAttendanceRepo, notifSvc *fakeNotificationSvc) *AttendanceJobs {
	t.Helper()
	clk := clock.NewZoned(clock.Fixed{T: now})
	return NewAttendanceJobs(attRepo, employees, shifts, &fakeCompanyRepo{companies: companies}, notifSvc, clk, 15*time.Minute)
}

func TestSweepLateCheckIns_NotifiesOncePerEmployeePerDay(t *testing.T) {
	// Monday, 10:00 UTC. Shift 09:00 with 15+10 grace: window is (09:25, 12:00).
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	co := company.Settings{ID: "co-1", Timezone: "UTC", GraceTimeMinutes: 10, IsActive: true}
	sh := shift.Shift{
		ID: "sh-1", CompanyID: "co-1", StartTime: "09:00", EndTime: "18:00",
		GraceTimeIn: 15, WorkingDays: []string{"MON", "TUE", "WED", "THU", "FRI"},
		IsActive: true,
	}

	shifts := &fakeShiftRepo{shifts: map[string][]shift.Shift{"co-1": {sh}}}
	employees := &fakeEmployeeRepo{byShift: map[string][]employee.Employee{
		"sh-1": {testEmployee("emp-1", "co-1", "sh-1"), testEmployee("emp-2", "co-1", "sh-1")},
	}}
	attRepo := &fakeAttendanceRepo{checkedIn: map[string]bool{"emp-2": true}}
	notifSvc := &fakeNotificationSvc{}

	jobs := sweeperAt(t, now, []company.Settings{co}, shifts, employees, attRepo, notifSvc)

	require.NoError(t, jobs.SweepLateCheckIns(context.Background()))
	require.Len(t, notifSvc.sent, 1)
	assert.Equal(t, "user-emp-1", notifSvc.sent[0].RecipientID)
	assert.Equal(t, notification.TypeAttendanceLate, notifSvc.sent[0].Type)

	// A second run in the same window must not duplicate the notification.
	require.NoError(t, jobs.SweepLateCheckIns(context.Background()))
	assert.Len(t, notifSvc.sent, 1)
}

func TestSweepLateCheckIns_OutsideAlertWindow(t *testing.T) {
	co := company.Settings{ID: "co-1", Timezone: "UTC", GraceTimeMinutes: 10, IsActive: true}
	sh := shift.Shift{
		ID: "sh-1", CompanyID: "co-1", StartTime: "09:00", EndTime: "18:00",
		GraceTimeIn: 15, WorkingDays: []string{"MON"},
		IsActive: true,
	}

	tests := []struct {
		name string
		now  time.Time
	}{
		{"before grace limit", time.Date(2026, 8, 31, 9, 20, 0, 0, time.UTC)},
		{"exactly at grace limit", time.Date(2026, 8, 31, 9, 25, 0, 0, time.UTC)},
		{"past three hour window", time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)},
		{"non working day", time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts := &fakeShiftRepo{shifts: map[string][]shift.Shift{"co-1": {sh}}}
			employees := &fakeEmployeeRepo{byShift: map[string][]employee.Employee{
				"sh-1": {testEmployee("emp-1", "co-1", "sh-1")},
			}}
			notifSvc := &fakeNotificationSvc{}

			jobs := sweeperAt(t, tt.now, []company.Settings{co}, shifts, employees,
				&fakeAttendanceRepo{checkedIn: map[string]bool{}}, notifSvc)

			require.NoError(t, jobs.SweepLateCheckIns(context.Background()))
			assert.Empty(t, notifSvc.sent)
		})
	}
}

func TestSweepLateCheckIns_DefaultShiftCoversUnassigned(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	co := company.Settings{ID: "co-1", Timezone: "UTC", IsActive: true}
	sh := shift.Shift{
		ID: "sh-default", CompanyID: "co-1", StartTime: "09:00", EndTime: "18:00",
		GraceTimeIn: 15, WorkingDays: []string{"MON"},
		IsDefault: true, IsActive: true,
	}

	unassigned := testEmployee("emp-free", "co-1", "")
	unassigned.ShiftID = nil

	shifts := &fakeShiftRepo{shifts: map[string][]shift.Shift{"co-1": {sh}}}
	employees := &fakeEmployeeRepo{
		byShift:    map[string][]employee.Employee{"sh-default": {testEmployee("emp-1", "co-1", "sh-default")}},
		unassigned: map[string][]employee.Employee{"co-1": {unassigned}},
	}
	notifSvc := &fakeNotificationSvc{}

	jobs := sweeperAt(t, now, []company.Settings{co}, shifts, employees,
		&fakeAttendanceRepo{checkedIn: map[string]bool{}}, notifSvc)

	require.NoError(t, jobs.SweepLateCheckIns(context.Background()))
	require.Len(t, notifSvc.sent, 2)

	recipients := []string{notifSvc.sent[0].RecipientID, notifSvc.sent[1].RecipientID}
	assert.Contains(t, recipients, "user-emp-1")
	assert.Contains(t, recipients, "user-emp-free")
}

func TestSweepLateCheckIns_CompanyFailureIsolated(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	broken := company.Settings{ID: "co-broken", Timezone: "UTC", IsActive: true}
	healthy := company.Settings{ID: "co-ok", Timezone: "UTC", IsActive: true}
	sh := shift.Shift{
		ID: "sh-1", CompanyID: "co-ok", StartTime: "09:00", EndTime: "18:00",
		GraceTimeIn: 15, WorkingDays: []string{"MON"},
		IsActive: true,
	}

	shifts := &fakeShiftRepo{
		shifts: map[string][]shift.Shift{"co-ok": {sh}},
		errs:   map[string]error{"co-broken": errors.New("connection refused")},
	}
	employees := &fakeEmployeeRepo{byShift: map[string][]employee.Employee{
		"sh-1": {testEmployee("emp-1", "co-ok", "sh-1")},
	}}
	notifSvc := &fakeNotificationSvc{}

	jobs := sweeperAt(t, now, []company.Settings{broken, healthy}, shifts, employees,
		&fakeAttendanceRepo{checkedIn: map[string]bool{}}, notifSvc)

	require.NoError(t, jobs.SweepLateCheckIns(context.Background()))
	require.Len(t, notifSvc.sent, 1)
	assert.Equal(t, "user-emp-1", notifSvc.sent[0].RecipientID)
}

func TestSweepLateCheckIns_SkipsEmployeesWithoutUserAccount(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	co := company.Settings{ID: "co-1", Timezone: "UTC", IsActive: true}
	sh := shift.Shift{
		ID: "sh-1", CompanyID: "co-1", StartTime: "09:00", EndTime: "18:00",
		WorkingDays: []string{"MON"}, IsActive: true,
	}

	noUser := testEmployee("emp-no-user", "co-1", "sh-1")
	noUser.UserID = nil
	deactivated := testEmployee("emp-off", "co-1", "sh-1")
	deactivated.UserActive = false

	shifts := &fakeShiftRepo{shifts: map[string][]shift.Shift{"co-1": {sh}}}
	employees := &fakeEmployeeRepo{byShift: map[string][]employee.Employee{
		"sh-1": {noUser, deactivated},
	}}
	notifSvc := &fakeNotificationSvc{}

	jobs := sweeperAt(t, now, []company.Settings{co}, shifts, employees,
		&fakeAttendanceRepo{checkedIn: map[string]bool{}}, notifSvc)

	require.NoError(t, jobs.SweepLateCheckIns(context.Background()))
	assert.Empty(t, notifSvc.sent)
}

func TestSweepLateCheckIns_HonorsCancellationBetweenCompanies(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	var companies []company.Settings
	for i := 0; i < 3; i++ {
		companies = append(companies, company.Settings{ID: fmt.Sprintf("co-%d", i), Timezone: "UTC", IsActive: true})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notifSvc := &fakeNotificationSvc{}
	jobs := sweeperAt(t, now, companies, &fakeShiftRepo{}, &fakeEmployeeRepo{},
		&fakeAttendanceRepo{}, notifSvc)

	err := jobs.SweepLateCheckIns(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, notifSvc.sent)
}
