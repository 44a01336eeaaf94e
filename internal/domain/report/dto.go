package report

import "time"

// WorkdayView is the read-side projection of a workday record.
type WorkdayView struct {
	ID                      string     `json:"id"`
	EmployeeID              string     `json:"employee_id"`
	Day                     string     `json:"day"`
	State                   string     `json:"state"`
	CheckinAt               *time.Time `json:"checkin_at,omitempty"`
	CheckinStatus           *string    `json:"checkin_status,omitempty"`
	CheckoutAt              *time.Time `json:"checkout_at,omitempty"`
	CheckoutStatus          *string    `json:"checkout_status,omitempty"`
	LunchStart              *time.Time `json:"lunch_start,omitempty"`
	LunchEnd                *time.Time `json:"lunch_end,omitempty"`
	LunchStatus             *string    `json:"lunch_status,omitempty"`
	LateMinutes             int        `json:"late_minutes"`
	BreakTotalMinutes       int        `json:"break_total_minutes"`
	CompensationMinutes     int        `json:"compensation_minutes"`
	CompensationWorkMinutes int        `json:"compensation_work_minutes"`
	ScheduledStart          string     `json:"scheduled_start"`
	ScheduledEnd            string     `json:"scheduled_end"`
}

type UserView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	FlexMode bool   `json:"flex_mode"`
}

type EventView struct {
	At     time.Time      `json:"at"`
	Type   string         `json:"type"`
	Status string         `json:"status"`
	Label  string         `json:"label"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type IncidentView struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
}

type DaySummary struct {
	WorkedMinutes           int `json:"worked_minutes"`
	BreakMinutes            int `json:"break_minutes"`
	OvertimeMinutes         int `json:"overtime_minutes"`
	CompensationMinutes     int `json:"compensation_minutes"`
	CompensationWorkMinutes int `json:"compensation_work_minutes"`
	MiniBreakCount          int `json:"mini_break_count"`
}

// DaySummaryResponse backs GET /employee/me/day.
type DaySummaryResponse struct {
	User           UserView     `json:"user"`
	Workday        *WorkdayView `json:"workday"`
	Events         []EventView  `json:"events"`
	MiniBreakCount int          `json:"mini_break_count"`
}

// TimelineResponse backs the admin per-day timeline.
type TimelineResponse struct {
	User      UserView       `json:"user"`
	Workday   *WorkdayView   `json:"workday"`
	Timeline  []EventView    `json:"timeline"`
	Summary   DaySummary     `json:"summary"`
	Incidents []IncidentView `json:"incidents"`
}

type AggregateDay struct {
	Day                 string `json:"day"`
	WorkedMinutes       int    `json:"worked_minutes"`
	BreakMinutes        int    `json:"break_minutes"`
	OvertimeMinutes     int    `json:"overtime_minutes"`
	CompensationMinutes int    `json:"compensation_minutes"`
	MiniBreakCount      int    `json:"mini_break_count"`
	IncidentCount       int    `json:"incident_count"`
}

type AggregateTotals struct {
	WorkedMinutes       int `json:"worked_minutes"`
	BreakMinutes        int `json:"break_minutes"`
	OvertimeMinutes     int `json:"overtime_minutes"`
	CompensationMinutes int `json:"compensation_minutes"`
	MiniBreakCount      int `json:"mini_break_count"`
	IncidentCount       int `json:"incident_count"`
}

// AggregateResponse backs the weekly/monthly per-employee rollup.
type AggregateResponse struct {
	Range  string          `json:"range"`
	Anchor string          `json:"anchor"`
	Days   []AggregateDay  `json:"days"`
	Totals AggregateTotals `json:"totals"`
}

type LiveEntry struct {
	UserID     string     `json:"user_id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	FlexMode   bool       `json:"flex_mode"`
	WorkdayID  *string    `json:"workday_id,omitempty"`
	CheckinAt  *time.Time `json:"checkin_at,omitempty"`
	CheckoutAt *time.Time `json:"checkout_at,omitempty"`
	LunchStart *time.Time `json:"lunch_start,omitempty"`
	LunchEnd   *time.Time `json:"lunch_end,omitempty"`
}

// LiveOverviewResponse groups employees by their current attendance state.
type LiveOverviewResponse struct {
	NotCheckedIn []LiveEntry `json:"not_checked_in"`
	Active       []LiveEntry `json:"active"`
	Lunch        []LiveEntry `json:"lunch"`
	MiniBreak    []LiveEntry `json:"mini_break"`
	CheckedOut   []LiveEntry `json:"checked_out"`
}
