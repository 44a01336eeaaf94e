package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/rules"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/handler/http/response"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/cron"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/timeutil"
	"github.com/go-chi/chi/v5"
)

type AdminHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ResetSecret(w http.ResponseWriter, r *http.Request)

	Live(w http.ResponseWriter, r *http.Request)
	Timeline(w http.ResponseWriter, r *http.Request)
	Aggregate(w http.ResponseWriter, r *http.Request)
	ReportCSV(w http.ResponseWriter, r *http.Request)
	RunAutoRules(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	employeeService user.EmployeeService
	reportService   report.ReportService
	rulesService    rules.RulesService
	jobs            *cron.AttendanceJobs
}

func NewAdminHandler(
	employeeService user.EmployeeService,
	reportService report.ReportService,
	rulesService rules.RulesService,
	jobs *cron.AttendanceJobs,
) AdminHandler {
	return &adminHandlerImpl{
		employeeService: employeeService,
		reportService:   reportService,
		rulesService:    rulesService,
		jobs:            jobs,
	}
}

// ListEmployees implements AdminHandler.
func (h *adminHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := user.ListEmployeesFilter{
		Search:          q.Get("search"),
		Page:            page,
		PageSize:        pageSize,
		IncludeInactive: q.Get("include_inactive") == "true",
	}

	result, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// CreateEmployee implements AdminHandler.
func (h *adminHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req user.CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created", result)
}

// GetEmployee implements AdminHandler.
func (h *adminHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateEmployee implements AdminHandler.
func (h *adminHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employeeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated", result)
}

// DeleteEmployee implements AdminHandler.
func (h *adminHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	hard := r.URL.Query().Get("hard") == "true"

	if err := h.employeeService.Delete(r.Context(), chi.URLParam(r, "id"), hard); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted", nil)
}

// ResetSecret implements AdminHandler.
func (h *adminHandlerImpl) ResetSecret(w http.ResponseWriter, r *http.Request) {
	var req user.ResetSecretRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := h.employeeService.ResetSecret(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Credentials updated", nil)
}

// Live implements AdminHandler.
func (h *adminHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	day, ok := dayQuery(w, r, "date")
	if !ok {
		return
	}

	result, err := h.reportService.LiveOverview(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Timeline implements AdminHandler.
func (h *adminHandlerImpl) Timeline(w http.ResponseWriter, r *http.Request) {
	day, ok := dayQuery(w, r, "date")
	if !ok {
		return
	}

	result, err := h.reportService.Timeline(r.Context(), chi.URLParam(r, "id"), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Aggregate implements AdminHandler.
func (h *adminHandlerImpl) Aggregate(w http.ResponseWriter, r *http.Request) {
	rangeKind := r.URL.Query().Get("range")
	if rangeKind == "" {
		rangeKind = "week"
	}

	anchor, ok := dayQuery(w, r, "date")
	if !ok {
		return
	}

	result, err := h.reportService.Aggregate(r.Context(), chi.URLParam(r, "id"), rangeKind, anchor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ReportCSV implements AdminHandler.
func (h *adminHandlerImpl) ReportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := timeutil.ParseDay(q.Get("from"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'from' must be YYYY-MM-DD", nil)
		return
	}
	to, err := timeutil.ParseDay(q.Get("to"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'to' must be YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "'to' must not precede 'from'", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		`attachment; filename="attendance_`+timeutil.FormatDay(from)+`_`+timeutil.FormatDay(to)+`.csv"`)

	if err := h.reportService.WriteCSV(r.Context(), w, from, to, q.Get("employee_id")); err != nil {
		// Headers are already sent; the truncated body signals the failure.
		slog.Error("failed to stream attendance csv", "error", err)
	}
}

// RunAutoRules implements AdminHandler.
func (h *adminHandlerImpl) RunAutoRules(w http.ResponseWriter, r *http.Request) {
	day, ok := dayQuery(w, r, "date")
	if !ok {
		return
	}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		if err := h.rulesService.ApplyAutoRulesForDay(r.Context(), employeeID, day); err != nil {
			response.HandleError(w, err)
			return
		}
		response.SuccessWithMessage(w, "Auto rules applied", nil)
		return
	}

	if err := h.jobs.SweepDay(r.Context(), day); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto rules applied", nil)
}
