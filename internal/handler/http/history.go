package http

import (
	"net/http"
	"strconv"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/history"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/handler/http/response"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type HistoryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Detail(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type historyHandlerImpl struct {
	historyService history.Service
}

func NewHistoryHandler(historyService history.Service) HistoryHandler {
	return &historyHandlerImpl{
		historyService: historyService,
	}
}

// List implements HistoryHandler.
func (h *historyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	filter := attendance.Filter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("start_date"); v != "" {
		d, err := validator.ParseDate(v)
		if err != nil {
			response.BadRequest(w, "start_date must be YYYY-MM-DD", nil)
			return
		}
		filter.DateFrom = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := validator.ParseDate(v)
		if err != nil {
			response.BadRequest(w, "end_date must be YYYY-MM-DD", nil)
			return
		}
		filter.DateTo = &d
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	records, total, err := h.historyService.List(r.Context(), filter, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	response.SuccessWithMeta(w, records, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Detail implements HistoryHandler.
func (h *historyHandlerImpl) Detail(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	record, err := h.historyService.Detail(r.Context(), chi.URLParam(r, "id"), claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// Summary implements HistoryHandler.
func (h *historyHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	q := r.URL.Query()
	from, err := validator.ParseDate(q.Get("start_date"))
	if err != nil {
		response.BadRequest(w, "start_date must be YYYY-MM-DD", nil)
		return
	}
	to, err := validator.ParseDate(q.Get("end_date"))
	if err != nil {
		response.BadRequest(w, "end_date must be YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "end_date must not be before start_date", nil)
		return
	}

	summary, err := h.historyService.Summary(r.Context(), claims.CompanyID, history.SummaryFilter{From: from, To: to})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
