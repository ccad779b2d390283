package regularization

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/regularization"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
	attendanceService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/attendance"
)

// passthroughTx runs the function directly. The all-or-nothing property is
// the database's job; these tests cover the orchestration around it.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRequestRepo struct {
	regularization.Repository
	requests map[string]regularization.Request
	seq      int
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]regularization.Request)}
}

func (m *memRequestRepo) Create(ctx context.Context, req regularization.Request) (regularization.Request, error) {
	for _, r := range m.requests {
		if r.EmployeeID == req.EmployeeID && r.Status == regularization.StatusPending &&
			r.Date.Format("2006-01-02") == req.Date.Format("2006-01-02") {
			return regularization.Request{}, regularization.ErrDuplicatePending
		}
	}
	m.seq++
	req.ID = fmt.Sprintf("req-%d", m.seq)
	req.CreatedAt = time.Now()
	m.requests[req.ID] = req
	return req, nil
}

func (m *memRequestRepo) GetByID(ctx context.Context, id string, companyID string) (regularization.Request, error) {
	req, ok := m.requests[id]
	if !ok || req.CompanyID != companyID {
		return regularization.Request{}, regularization.ErrRequestNotFound
	}
	return req, nil
}

func (m *memRequestRepo) HasPending(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	for _, r := range m.requests {
		if r.EmployeeID == employeeID && r.Status == regularization.StatusPending &&
			r.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRequestRepo) Transition(ctx context.Context, req regularization.Request) error {
	existing, ok := m.requests[req.ID]
	if !ok || existing.Status != regularization.StatusPending {
		return regularization.ErrAlreadyProcessed
	}
	m.requests[req.ID] = req
	return nil
}

type memAttendanceRepo struct {
	attendance.Repository
	records map[string]attendance.Attendance
	seq     int

	updateErr error
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (m *memAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	m.seq++
	att.ID = fmt.Sprintf("att-%d", m.seq)
	att.Version = 1
	m.records[att.ID] = att
	return att, nil
}

func (m *memAttendanceRepo) ListInRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range m.records {
		if att.EmployeeID != employeeID || att.CompanyID != companyID {
			continue
		}
		if att.Date.Before(from) || att.Date.After(to) {
			continue
		}
		out = append(out, att)
	}
	// Same ordering the SQL query guarantees: date ASC, created_at ASC.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.records[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	m.records[att.ID] = att
	return nil
}

func (m *memAttendanceRepo) Delete(ctx context.Context, id string, companyID string) error {
	if _, ok := m.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(m.records, id)
	return nil
}

type stubEmployeeRepo struct {
	employee.Repository
	emp employee.Employee
}

func (s *stubEmployeeRepo) FindActive(ctx context.Context, employeeID string, companyID string) (employee.Employee, error) {
	if s.emp.ID != employeeID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return s.emp, nil
}

type stubCompanyRepo struct {
	company.Repository
	settings company.Settings
}

func (s *stubCompanyRepo) GetSettings(ctx context.Context, companyID string) (company.Settings, error) {
	return s.settings, nil
}

type stubShiftRepo struct {
	shift.Repository
	sh *shift.Shift
}

func (s *stubShiftRepo) GetByID(ctx context.Context, id string, companyID string) (*shift.Shift, error) {
	return s.sh, nil
}

func (s *stubShiftRepo) GetDefault(ctx context.Context, companyID string) (*shift.Shift, error) {
	return s.sh, nil
}

type stubNotifSvc struct {
	sent []notification.CreateNotificationRequest
}

func (s *stubNotifSvc) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	s.sent = append(s.sent, req)
	return nil
}

func (s *stubNotifSvc) SentOnDay(ctx context.Context, recipientID string, notifType notification.NotificationType, dayStart time.Time) (bool, error) {
	return false, nil
}

type fixture struct {
	svc      regularization.Service
	requests *memRequestRepo
	attRepo  *memAttendanceRepo
	notifs   *stubNotifSvc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := "user-1"
	shiftID := "sh-day"
	sh := &shift.Shift{
		ID: shiftID, CompanyID: "co-1", StartTime: "09:00", EndTime: "18:00",
		GraceTimeIn: 15, WorkingDays: []string{"MON", "TUE", "WED", "THU", "FRI"},
		IsActive: true,
	}

	requests := newMemRequestRepo()
	attRepo := newMemAttendanceRepo()
	notifs := &stubNotifSvc{}

	svc := NewRegularizationService(
		passthroughTx{},
		requests,
		attRepo,
		&stubEmployeeRepo{emp: employee.Employee{
			ID: "emp-1", CompanyID: "co-1", UserID: &userID, FullName: "Jane Roe", ShiftID: &shiftID, IsActive: true, UserActive: true,
		}},
		&stubCompanyRepo{settings: company.Settings{ID: "co-1", Timezone: "UTC", IsActive: true}},
		notifs,
		attendanceService.NewShiftResolver(&stubShiftRepo{sh: sh}),
		clock.NewZoned(clock.Fixed{T: time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)}),
	)

	return &fixture{svc: svc, requests: requests, attRepo: attRepo, notifs: notifs}
}

func createReq() regularization.CreateRequest {
	in := "09:00"
	out := "17:00"
	return regularization.CreateRequest{
		EmployeeID:   "emp-1",
		CompanyID:    "co-1",
		Date:         "2026-03-10",
		CheckInTime:  &in,
		CheckOutTime: &out,
		Reason:       "forgot to check out",
	}
}

func TestCreate_RejectsSecondPending(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), createReq())
	assert.ErrorIs(t, err, regularization.ErrDuplicatePending)
}

func TestCreate_AllowsNewRequestAfterRejection(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1", Reason: "insufficient detail",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), createReq())
	assert.NoError(t, err)
}

func TestApprove_CreatesRecordWhenNoneExists(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	approved, err := f.svc.Approve(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, regularization.StatusApproved, approved.Status)

	require.Len(t, f.attRepo.records, 1)
	for _, rec := range f.attRepo.records {
		assert.Equal(t, attendance.StatusPresent, rec.Status)
		assert.True(t, rec.IsManualEntry)
		assert.Equal(t, 480, rec.TotalWorkMinutes)
		assert.Equal(t, 0, rec.LateMinutes)
	}

	require.Len(t, f.notifs.sent, 1)
	assert.Equal(t, notification.TypeRegularizationApproved, f.notifs.sent[0].Type)
}

func TestApprove_MergesWithoutNullingFields(t *testing.T) {
	f := newFixture(t)

	// Existing record has a check-in but no check-out; the request only
	// corrects the check-out. The stored check-in must survive the merge.
	existingIn := time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)
	f.attRepo.records["att-existing"] = attendance.Attendance{
		ID: "att-existing", EmployeeID: "emp-1", CompanyID: "co-1",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckInTime: &existingIn,
		Status:      attendance.StatusPresent,
		Type:        attendance.TypeOffice,
		Version:     1,
	}

	out := "17:00"
	resp, err := f.svc.Create(context.Background(), regularization.CreateRequest{
		EmployeeID:   "emp-1",
		CompanyID:    "co-1",
		Date:         "2026-03-10",
		CheckOutTime: &out,
		Reason:       "forgot to check out",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1",
	})
	require.NoError(t, err)

	rec := f.attRepo.records["att-existing"]
	require.NotNil(t, rec.CheckInTime)
	assert.Equal(t, existingIn, *rec.CheckInTime)
	require.NotNil(t, rec.CheckOutTime)
	assert.Equal(t, 475, rec.TotalWorkMinutes)
	assert.True(t, rec.IsManualEntry)
}

func TestApprove_CollapsesDuplicatesKeepingFirst(t *testing.T) {
	f := newFixture(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	in := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	f.attRepo.records["att-1"] = attendance.Attendance{
		ID: "att-1", EmployeeID: "emp-1", CompanyID: "co-1", Date: date,
		CheckInTime: &in, Status: attendance.StatusPresent, Type: attendance.TypeOffice,
		Version: 1, CreatedAt: time.Date(2026, 3, 10, 9, 0, 5, 0, time.UTC),
	}
	f.attRepo.records["att-2"] = attendance.Attendance{
		ID: "att-2", EmployeeID: "emp-1", CompanyID: "co-1", Date: date,
		Status: attendance.StatusAbsent, Type: attendance.TypeOffice,
		Version: 1, CreatedAt: time.Date(2026, 3, 10, 23, 50, 0, 0, time.UTC),
	}

	out := "17:00"
	resp, err := f.svc.Create(context.Background(), regularization.CreateRequest{
		EmployeeID:   "emp-1",
		CompanyID:    "co-1",
		Date:         "2026-03-10",
		CheckOutTime: &out,
		Reason:       "forgot to check out",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1",
	})
	require.NoError(t, err)

	// The earliest-created record for the date survives with merged fields;
	// the later duplicate is deleted.
	require.Len(t, f.attRepo.records, 1)
	rec, ok := f.attRepo.records["att-1"]
	require.True(t, ok)
	require.NotNil(t, rec.CheckInTime)
	assert.Equal(t, in, *rec.CheckInTime)
	require.NotNil(t, rec.CheckOutTime)
	assert.Equal(t, 480, rec.TotalWorkMinutes)
}

func TestApprove_Twice(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	review := regularization.ReviewRequest{ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1"}
	_, err = f.svc.Approve(context.Background(), review)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), review)
	assert.ErrorIs(t, err, regularization.ErrAlreadyProcessed)
}

func TestApprove_ReconcileFailureSurfacesError(t *testing.T) {
	f := newFixture(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	in := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	f.attRepo.records["att-1"] = attendance.Attendance{
		ID: "att-1", EmployeeID: "emp-1", CompanyID: "co-1", Date: date,
		CheckInTime: &in, Status: attendance.StatusPresent, Type: attendance.TypeOffice, Version: 1,
	}
	f.attRepo.updateErr = errors.New("connection reset")

	resp, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	// With a real transaction the Transition rolls back with the reconcile.
	// The passthrough runner cannot model that, so only the error surface
	// and the absence of a success notification are asserted here.
	_, err = f.svc.Approve(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1",
	})
	require.Error(t, err)
	assert.Empty(t, f.notifs.sent)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1",
	})
	assert.Error(t, err)
}

func TestReject_NoAttendanceSideEffects(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	rejected, err := f.svc.Reject(context.Background(), regularization.ReviewRequest{
		ID: resp.ID, CompanyID: "co-1", ActorID: "admin-1", Reason: "not justified",
	})
	require.NoError(t, err)
	assert.Equal(t, regularization.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "not justified", *rejected.RejectionReason)

	assert.Empty(t, f.attRepo.records)
	require.Len(t, f.notifs.sent, 1)
	assert.Equal(t, notification.TypeRegularizationRejected, f.notifs.sent[0].Type)
}
