package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/rules"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/clockwise-hq/timeclock-backend-go/internal/handler/http/response"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/timeutil"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceHandler interface {
	MyDay(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	StartLunch(w http.ResponseWriter, r *http.Request)
	EndLunch(w http.ResponseWriter, r *http.Request)
	StartMiniBreak(w http.ResponseWriter, r *http.Request)
	EndMiniBreak(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	rulesService  rules.RulesService
	reportService report.ReportService
}

func NewAttendanceHandler(rulesService rules.RulesService, reportService report.ReportService) AttendanceHandler {
	return &attendanceHandlerImpl{
		rulesService:  rulesService,
		reportService: reportService,
	}
}

// transitionRequest carries an optional occurrence-time override; absent, the
// server clock is used.
type transitionRequest struct {
	At *string `json:"at"`
}

type checkoutRequest struct {
	At                *string `json:"at"`
	ManualCheckinTime *string `json:"manual_checkin_time"`
}

// MyDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyDay(w http.ResponseWriter, r *http.Request) {
	employeeID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	day, ok := dayQuery(w, r, "date")
	if !ok {
		return
	}

	result, err := h.reportService.DaySummary(r.Context(), employeeID, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, at, ok := h.transitionInput(w, r)
	if !ok {
		return
	}

	result, err := h.rulesService.CheckIn(r.Context(), employeeID, at, workday.StatusNormal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.OK {
		response.PolicyRejected(w, result.Error, result)
		return
	}

	response.Success(w, result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	at, ok := parseAt(w, req.At)
	if !ok {
		return
	}

	result, err := h.rulesService.CheckOut(r.Context(), employeeID, at, workday.StatusNormal, req.ManualCheckinTime)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.OK {
		response.PolicyRejected(w, result.Error, result)
		return
	}

	response.Success(w, result)
}

// StartLunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartLunch(w http.ResponseWriter, r *http.Request) {
	employeeID, at, ok := h.transitionInput(w, r)
	if !ok {
		return
	}

	result, err := h.rulesService.StartLunch(r.Context(), employeeID, at, workday.StatusNormal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.OK {
		response.PolicyRejected(w, result.Error, result)
		return
	}

	response.Success(w, result)
}

// EndLunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndLunch(w http.ResponseWriter, r *http.Request) {
	employeeID, at, ok := h.transitionInput(w, r)
	if !ok {
		return
	}

	result, err := h.rulesService.EndLunch(r.Context(), employeeID, at, workday.StatusNormal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.OK {
		response.PolicyRejected(w, result.Error, result)
		return
	}

	response.Success(w, result)
}

// StartMiniBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartMiniBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, at, ok := h.transitionInput(w, r)
	if !ok {
		return
	}

	result, err := h.rulesService.StartMiniBreak(r.Context(), employeeID, at, workday.StatusNormal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.OK {
		response.PolicyRejected(w, result.Error, result)
		return
	}

	response.Success(w, result)
}

// EndMiniBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndMiniBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, at, ok := h.transitionInput(w, r)
	if !ok {
		return
	}

	result, err := h.rulesService.EndMiniBreak(r.Context(), employeeID, at, workday.StatusNormal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.OK {
		response.PolicyRejected(w, result.Error, result)
		return
	}

	response.Success(w, result)
}

// transitionInput resolves the caller and occurrence time shared by the
// simple transition endpoints. It writes the error response on failure.
func (h *attendanceHandlerImpl) transitionInput(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	employeeID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return "", time.Time{}, false
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return "", time.Time{}, false
	}

	at, ok := parseAt(w, req.At)
	if !ok {
		return "", time.Time{}, false
	}

	return employeeID, at, true
}

// Shared request helpers for this package.

func currentUserID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", auth.ErrInvalidToken
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseAt(w http.ResponseWriter, raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Now(), true
	}
	at, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		response.BadRequest(w, "Field 'at' must be RFC 3339", nil)
		return time.Time{}, false
	}
	return at.Local(), true
}

// dayQuery reads a "YYYY-MM-DD" query parameter, defaulting to today.
func dayQuery(w http.ResponseWriter, r *http.Request, key string) (time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return timeutil.DayOf(time.Now()), true
	}
	day, err := timeutil.ParseDay(raw)
	if err != nil {
		response.BadRequest(w, "Query parameter '"+key+"' must be YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return day, true
}
