package http

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	CreateManualEntry(w http.ResponseWriter, r *http.Request)
	BulkLock(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func clientIP(r *http.Request) *string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return nil
	}
	return &host
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil || claims.EmployeeID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID
	req.CompanyID = claims.CompanyID
	req.IPAddress = clientIP(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil || claims.EmployeeID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req attendance.CheckOutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.EmployeeID = claims.EmployeeID
	req.CompanyID = claims.CompanyID
	req.IPAddress = clientIP(r)

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil || claims.EmployeeID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	if err := h.attendanceService.StartBreak(r.Context(), claims.EmployeeID, claims.CompanyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", nil)
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil || claims.EmployeeID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.attendanceService.EndBreak(r.Context(), claims.EmployeeID, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil || claims.EmployeeID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.attendanceService.GetTodayStatus(r.Context(), claims.EmployeeID, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateManualEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CreateManualEntry(r.Context(), claims.CompanyID, req, claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual entry created", result)
}

// BulkLock implements AttendanceHandler.
func (h *attendanceHandlerImpl) BulkLock(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req attendance.BulkLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.BulkLock(r.Context(), claims.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance records locked", result)
}
