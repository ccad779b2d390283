package regularization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/employee"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/notification"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/regularization"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	attendanceService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/attendance"
)

// dateDriftDays is the tolerance band around the request's date when loading
// candidate records. Records can land on a neighbouring date when timezone
// settings change between write and correction; the exact-date filter below
// decides actual matches.
const dateDriftDays = 2

type RegularizationServiceImpl struct {
	tx              database.TxRunner
	requestRepo     regularization.Repository
	attendanceRepo  attendance.Repository
	employeeRepo    employee.Repository
	companyRepo     company.Repository
	notificationSvc notification.Service
	resolver        attendanceService.ShiftResolver
	clk             clock.Zoned
}

func NewRegularizationService(
	tx database.TxRunner,
	requestRepo regularization.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	companyRepo company.Repository,
	notificationSvc notification.Service,
	resolver attendanceService.ShiftResolver,
	clk clock.Zoned,
) regularization.Service {
	return &RegularizationServiceImpl{
		tx:              tx,
		requestRepo:     requestRepo,
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		companyRepo:     companyRepo,
		notificationSvc: notificationSvc,
		resolver:        resolver,
		clk:             clk,
	}
}

// Create implements regularization.Service.
func (s *RegularizationServiceImpl) Create(ctx context.Context, req regularization.CreateRequest) (regularization.Response, error) {
	if err := req.Validate(); err != nil {
		return regularization.Response{}, err
	}

	if _, err := s.employeeRepo.FindActive(ctx, req.EmployeeID, req.CompanyID); err != nil {
		return regularization.Response{}, err
	}
	settings, err := s.companyRepo.GetSettings(ctx, req.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	loc := clock.LocationFor(settings.Timezone)
	day, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("invalid date: %w", err)
	}

	pending, err := s.requestRepo.HasPending(ctx, req.EmployeeID, day, req.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return regularization.Response{}, regularization.ErrDuplicatePending
	}

	checkIn, err := parseCorrectionTime(req.CheckInTime, day, loc)
	if err != nil {
		return regularization.Response{}, err
	}
	checkOut, err := parseCorrectionTime(req.CheckOutTime, day, loc)
	if err != nil {
		return regularization.Response{}, err
	}
	if checkIn == nil && checkOut == nil {
		return regularization.Response{}, regularization.ErrNoCorrection
	}

	created, err := s.requestRepo.Create(ctx, regularization.Request{
		EmployeeID:   req.EmployeeID,
		CompanyID:    req.CompanyID,
		Date:         day,
		CheckInTime:  checkIn,
		CheckOutTime: checkOut,
		Reason:       req.Reason,
		Status:       regularization.StatusPending,
	})
	if err != nil {
		return regularization.Response{}, err
	}

	return regularization.ToResponse(created), nil
}

// Approve implements regularization.Service. The status transition and the
// attendance reconciliation commit or roll back together: a retry after a
// failed approval finds the request still PENDING and no attendance changes.
func (s *RegularizationServiceImpl) Approve(ctx context.Context, review regularization.ReviewRequest) (regularization.Response, error) {
	req, err := s.requestRepo.GetByID(ctx, review.ID, review.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}
	if req.Status != regularization.StatusPending {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	emp, err := s.employeeRepo.FindActive(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}
	settings, err := s.companyRepo.GetSettings(ctx, req.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	now := s.clk.Now()
	req.Status = regularization.StatusApproved
	req.ReviewedBy = &review.ActorID
	req.ReviewedAt = &now
	if review.Note != "" {
		req.ReviewNote = &review.Note
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// The PENDING status guard inside Transition makes the whole
		// approval fire at most once even under concurrent approvals.
		if err := s.requestRepo.Transition(txCtx, req); err != nil {
			return err
		}
		return s.reconcile(txCtx, req, emp, settings)
	})
	if err != nil {
		return regularization.Response{}, err
	}

	if emp.UserID != nil {
		entityType := "regularization"
		_ = s.notificationSvc.Notify(ctx, notification.CreateNotificationRequest{
			CompanyID:   req.CompanyID,
			RecipientID: *emp.UserID,
			SenderID:    &review.ActorID,
			Type:        notification.TypeRegularizationApproved,
			Title:       "Regularization Approved",
			Message:     fmt.Sprintf("Your attendance correction for %s was approved", req.Date.Format("2006-01-02")),
			EntityID:    &req.ID,
			EntityType:  &entityType,
		})
	}

	return regularization.ToResponse(req), nil
}

// reconcile locates the attendance records the approved request targets,
// merges the corrected times into the first match, collapses duplicates, and
// recomputes the derived minutes. Runs inside the approval transaction.
func (s *RegularizationServiceImpl) reconcile(ctx context.Context, req regularization.Request, emp employee.Employee, settings company.Settings) error {
	windowFrom := req.Date.AddDate(0, 0, -dateDriftDays)
	windowTo := req.Date.AddDate(0, 0, dateDriftDays)

	candidates, err := s.attendanceRepo.ListInRange(ctx, req.EmployeeID, windowFrom, windowTo, req.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load attendance records: %w", err)
	}

	targetDay := req.Date.Format("2006-01-02")
	var matches []attendance.Attendance
	for _, c := range candidates {
		if c.Date.Format("2006-01-02") == targetDay {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		record := attendance.Attendance{
			EmployeeID:    req.EmployeeID,
			CompanyID:     req.CompanyID,
			Date:          req.Date,
			CheckInTime:   req.CheckInTime,
			CheckOutTime:  req.CheckOutTime,
			Status:        attendance.StatusPresent,
			Type:          attendance.TypeOffice,
			IsManualEntry: true,
			ManualReason:  &req.Reason,
		}
		if err := s.applyDerived(ctx, &record, emp, settings); err != nil {
			return err
		}
		if _, err := s.attendanceRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create reconciled record: %w", err)
		}
		return nil
	}

	// The first match survives; the request's explicit values win, existing
	// fields fill the gaps, and absent fields stay absent rather than being
	// overwritten with null.
	record := matches[0]
	if req.CheckInTime != nil {
		record.CheckInTime = req.CheckInTime
	}
	if req.CheckOutTime != nil {
		record.CheckOutTime = req.CheckOutTime
	}
	record.Status = attendance.StatusPresent
	record.IsManualEntry = true
	record.ManualReason = &req.Reason

	if err := s.applyDerived(ctx, &record, emp, settings); err != nil {
		return err
	}
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to update reconciled record: %w", err)
	}

	for _, dup := range matches[1:] {
		if err := s.attendanceRepo.Delete(ctx, dup.ID, req.CompanyID); err != nil {
			return fmt.Errorf("failed to delete duplicate record %s: %w", dup.ID, err)
		}
	}
	return nil
}

// applyDerived recomputes work and late minutes from the merged times using
// the same shift rules as live check-in.
func (s *RegularizationServiceImpl) applyDerived(ctx context.Context, record *attendance.Attendance, emp employee.Employee, settings company.Settings) error {
	if record.CheckInTime != nil && record.CheckOutTime != nil {
		worked := attendanceService.MinutesBetween(*record.CheckInTime, *record.CheckOutTime) - record.TotalBreakMinutes
		if worked < 0 {
			worked = 0
		}
		record.TotalWorkMinutes = worked
		record.OvertimeMinutes = attendanceService.OvertimeMinutes(worked, settings.OvertimeThreshold())
	}
	if record.CheckInTime == nil {
		return nil
	}

	effectiveShift, err := s.resolver.Resolve(ctx, emp)
	if err != nil {
		return err
	}
	if effectiveShift == nil {
		record.LateMinutes = 0
		return nil
	}
	checkInLocal := record.CheckInTime.In(clock.LocationFor(settings.Timezone))
	shiftStart, _, err := attendanceService.ShiftBounds(effectiveShift, checkInLocal)
	if err != nil {
		return err
	}
	grace := attendanceService.EffectiveGrace(effectiveShift.GraceTimeIn, settings.GraceTimeMinutes)
	record.LateMinutes = attendanceService.LateMinutes(shiftStart, grace, checkInLocal)
	return nil
}

// Reject implements regularization.Service.
func (s *RegularizationServiceImpl) Reject(ctx context.Context, review regularization.ReviewRequest) (regularization.Response, error) {
	if review.Reason == "" {
		return regularization.Response{}, errors.New("rejection reason is required")
	}

	req, err := s.requestRepo.GetByID(ctx, review.ID, review.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}
	if req.Status != regularization.StatusPending {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	now := s.clk.Now()
	req.Status = regularization.StatusRejected
	req.ReviewedBy = &review.ActorID
	req.ReviewedAt = &now
	req.RejectionReason = &review.Reason

	if err := s.requestRepo.Transition(ctx, req); err != nil {
		return regularization.Response{}, err
	}

	emp, err := s.employeeRepo.FindActive(ctx, req.EmployeeID, req.CompanyID)
	if err == nil && emp.UserID != nil {
		entityType := "regularization"
		_ = s.notificationSvc.Notify(ctx, notification.CreateNotificationRequest{
			CompanyID:   req.CompanyID,
			RecipientID: *emp.UserID,
			SenderID:    &review.ActorID,
			Type:        notification.TypeRegularizationRejected,
			Title:       "Regularization Rejected",
			Message:     fmt.Sprintf("Your attendance correction for %s was rejected: %s", req.Date.Format("2006-01-02"), review.Reason),
			EntityID:    &req.ID,
			EntityType:  &entityType,
		})
	}

	return regularization.ToResponse(req), nil
}

// List implements regularization.Service.
func (s *RegularizationServiceImpl) List(ctx context.Context, filter regularization.Filter, companyID string) ([]regularization.Response, int64, error) {
	requests, total, err := s.requestRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regularization requests: %w", err)
	}
	responses := make([]regularization.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, regularization.ToResponse(req))
	}
	return responses, total, nil
}

func parseCorrectionTime(s *string, day time.Time, loc *time.Location) (*time.Time, error) {
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
