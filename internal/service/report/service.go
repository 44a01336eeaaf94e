package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/event"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/incident"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/minibreak"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/timeutil"
)

// scheduledLunchAllowance is subtracted from the scheduled window when
// deriving the required working minutes, since worked time already excludes
// breaks.
const scheduledLunchAllowance = 60

var eventLabels = map[event.Type]string{
	event.TypeCheckin:        "Check-in",
	event.TypeCheckout:       "Check-out",
	event.TypeLunchStart:     "Lunch start",
	event.TypeLunchEnd:       "Lunch end",
	event.TypeMiniBreakStart: "Mini-break start",
	event.TypeMiniBreakEnd:   "Mini-break end",
}

// ReportServiceImpl implements report.ReportService over the records the
// rules engine writes.
type ReportServiceImpl struct {
	userRepo      user.UserRepository
	workdayRepo   workday.WorkdayRepository
	eventRepo     event.EventRepository
	miniBreakRepo minibreak.MiniBreakRepository
	incidentRepo  incident.IncidentRepository
}

func NewReportService(
	userRepo user.UserRepository,
	workdayRepo workday.WorkdayRepository,
	eventRepo event.EventRepository,
	miniBreakRepo minibreak.MiniBreakRepository,
	incidentRepo incident.IncidentRepository,
) report.ReportService {
	return &ReportServiceImpl{
		userRepo:      userRepo,
		workdayRepo:   workdayRepo,
		eventRepo:     eventRepo,
		miniBreakRepo: miniBreakRepo,
		incidentRepo:  incidentRepo,
	}
}

// DaySummary implements report.ReportService.
func (s *ReportServiceImpl) DaySummary(ctx context.Context, employeeID string, day time.Time) (report.DaySummaryResponse, error) {
	u, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return report.DaySummaryResponse{}, err
	}

	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, timeutil.DayOf(day))
	if err != nil {
		return report.DaySummaryResponse{}, err
	}

	res := report.DaySummaryResponse{
		User:    toUserView(u),
		Workday: toWorkdayView(wd),
		Events:  []report.EventView{},
	}

	if wd != nil {
		events, err := s.eventRepo.ListByWorkday(ctx, wd.ID)
		if err != nil {
			return report.DaySummaryResponse{}, err
		}
		res.Events = toEventViews(events)

		count, err := s.miniBreakRepo.CountByWorkday(ctx, wd.ID)
		if err != nil {
			return report.DaySummaryResponse{}, err
		}
		res.MiniBreakCount = count
	}

	return res, nil
}

// Timeline implements report.ReportService.
func (s *ReportServiceImpl) Timeline(ctx context.Context, employeeID string, day time.Time) (report.TimelineResponse, error) {
	u, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return report.TimelineResponse{}, err
	}

	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, timeutil.DayOf(day))
	if err != nil {
		return report.TimelineResponse{}, err
	}

	res := report.TimelineResponse{
		User:      toUserView(u),
		Workday:   toWorkdayView(wd),
		Timeline:  []report.EventView{},
		Incidents: []report.IncidentView{},
	}

	if wd == nil {
		return res, nil
	}

	events, err := s.eventRepo.ListByWorkday(ctx, wd.ID)
	if err != nil {
		return report.TimelineResponse{}, err
	}
	res.Timeline = toEventViews(events)

	count, err := s.miniBreakRepo.CountByWorkday(ctx, wd.ID)
	if err != nil {
		return report.TimelineResponse{}, err
	}
	res.Summary = summarize(wd, count)

	incidents, err := s.incidentRepo.ListByWorkday(ctx, wd.ID)
	if err != nil {
		return report.TimelineResponse{}, err
	}
	for _, inc := range incidents {
		res.Incidents = append(res.Incidents, report.IncidentView{
			ID:         inc.ID,
			Code:       inc.Code,
			Message:    inc.Message,
			Severity:   string(inc.Severity),
			OccurredAt: inc.OccurredAt,
		})
	}

	return res, nil
}

// Aggregate implements report.ReportService.
func (s *ReportServiceImpl) Aggregate(ctx context.Context, employeeID string, rangeKind string, anchor time.Time) (report.AggregateResponse, error) {
	from, to, err := rangeBounds(rangeKind, timeutil.DayOf(anchor))
	if err != nil {
		return report.AggregateResponse{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, employeeID); err != nil {
		return report.AggregateResponse{}, err
	}

	workdays, err := s.workdayRepo.ListByEmployeeRange(ctx, employeeID, from, to)
	if err != nil {
		return report.AggregateResponse{}, err
	}

	ids := make([]string, 0, len(workdays))
	for _, wd := range workdays {
		ids = append(ids, wd.ID)
	}
	incidentCounts, err := s.incidentRepo.CountByWorkdayIDs(ctx, ids)
	if err != nil {
		return report.AggregateResponse{}, err
	}

	res := report.AggregateResponse{
		Range:  rangeKind,
		Anchor: timeutil.FormatDay(anchor),
		Days:   []report.AggregateDay{},
	}

	for _, wd := range workdays {
		count, err := s.miniBreakRepo.CountByWorkday(ctx, wd.ID)
		if err != nil {
			return report.AggregateResponse{}, err
		}
		sum := summarize(&wd, count)

		day := report.AggregateDay{
			Day:                 timeutil.FormatDay(wd.Day),
			WorkedMinutes:       sum.WorkedMinutes,
			BreakMinutes:        sum.BreakMinutes,
			OvertimeMinutes:     sum.OvertimeMinutes,
			CompensationMinutes: sum.CompensationMinutes,
			MiniBreakCount:      count,
			IncidentCount:       incidentCounts[wd.ID],
		}
		res.Days = append(res.Days, day)

		res.Totals.WorkedMinutes += day.WorkedMinutes
		res.Totals.BreakMinutes += day.BreakMinutes
		res.Totals.OvertimeMinutes += day.OvertimeMinutes
		res.Totals.CompensationMinutes += day.CompensationMinutes
		res.Totals.MiniBreakCount += day.MiniBreakCount
		res.Totals.IncidentCount += day.IncidentCount
	}

	return res, nil
}

// LiveOverview implements report.ReportService.
func (s *ReportServiceImpl) LiveOverview(ctx context.Context, day time.Time) (report.LiveOverviewResponse, error) {
	employees, err := s.userRepo.ListActiveEmployees(ctx)
	if err != nil {
		return report.LiveOverviewResponse{}, err
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].FullName < employees[j].FullName })

	byEmployee, err := s.workdayRepo.ListByDay(ctx, timeutil.DayOf(day))
	if err != nil {
		return report.LiveOverviewResponse{}, err
	}

	res := report.LiveOverviewResponse{
		NotCheckedIn: []report.LiveEntry{},
		Active:       []report.LiveEntry{},
		Lunch:        []report.LiveEntry{},
		MiniBreak:    []report.LiveEntry{},
		CheckedOut:   []report.LiveEntry{},
	}

	for _, u := range employees {
		entry := report.LiveEntry{
			UserID:   u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			FlexMode: u.FlexMode,
		}

		wd, ok := byEmployee[u.ID]
		if !ok || wd.CheckinAt == nil {
			res.NotCheckedIn = append(res.NotCheckedIn, entry)
			continue
		}

		entry.WorkdayID = &wd.ID
		entry.CheckinAt = wd.CheckinAt
		entry.CheckoutAt = wd.CheckoutAt
		entry.LunchStart = wd.LunchStart
		entry.LunchEnd = wd.LunchEnd

		switch {
		case wd.CheckoutAt != nil:
			res.CheckedOut = append(res.CheckedOut, entry)
		case wd.LunchStart != nil && wd.LunchEnd == nil:
			res.Lunch = append(res.Lunch, entry)
		default:
			open, err := s.miniBreakRepo.GetOpen(ctx, wd.ID)
			if err != nil {
				return report.LiveOverviewResponse{}, err
			}
			if open != nil {
				res.MiniBreak = append(res.MiniBreak, entry)
			} else {
				res.Active = append(res.Active, entry)
			}
		}
	}

	return res, nil
}

// WriteCSV implements report.ReportService.
func (s *ReportServiceImpl) WriteCSV(ctx context.Context, w io.Writer, from, to time.Time, employeeID string) error {
	var employees []user.User
	if employeeID != "" {
		u, err := s.userRepo.GetByID(ctx, employeeID)
		if err != nil {
			return err
		}
		employees = []user.User{u}
	} else {
		var err error
		employees, err = s.userRepo.ListActiveEmployees(ctx)
		if err != nil {
			return err
		}
		sort.Slice(employees, func(i, j int) bool { return employees[i].FullName < employees[j].FullName })
	}

	cw := csv.NewWriter(w)
	header := []string{
		"day", "employee_id", "full_name", "email",
		"checkin_at", "checkin_status", "checkout_at", "checkout_status",
		"lunch_start", "lunch_end",
		"late_minutes", "break_total_minutes",
		"compensation_minutes", "compensation_work_minutes",
		"worked_minutes", "overtime_minutes",
		"mini_break_count", "incident_count",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	from = timeutil.DayOf(from)
	to = timeutil.DayOf(to)

	for _, u := range employees {
		workdays, err := s.workdayRepo.ListByEmployeeRange(ctx, u.ID, from, to)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(workdays))
		for _, wd := range workdays {
			ids = append(ids, wd.ID)
		}
		incidentCounts, err := s.incidentRepo.CountByWorkdayIDs(ctx, ids)
		if err != nil {
			return err
		}

		for _, wd := range workdays {
			count, err := s.miniBreakRepo.CountByWorkday(ctx, wd.ID)
			if err != nil {
				return err
			}
			sum := summarize(&wd, count)

			row := []string{
				timeutil.FormatDay(wd.Day), u.ID, u.FullName, u.Email,
				formatStamp(wd.CheckinAt), formatStatus(wd.CheckinStatus),
				formatStamp(wd.CheckoutAt), formatStatus(wd.CheckoutStatus),
				formatStamp(wd.LunchStart), formatStamp(wd.LunchEnd),
				strconv.Itoa(wd.LateMinutes), strconv.Itoa(wd.BreakTotalMinutes),
				strconv.Itoa(wd.CompensationMinutes), strconv.Itoa(wd.CompensationWorkMinutes),
				strconv.Itoa(sum.WorkedMinutes), strconv.Itoa(sum.OvertimeMinutes),
				strconv.Itoa(count), strconv.Itoa(incidentCounts[wd.ID]),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// rangeBounds resolves the calendar window containing the anchor day. Weeks
// start on Monday.
func rangeBounds(rangeKind string, anchor time.Time) (time.Time, time.Time, error) {
	switch rangeKind {
	case "week":
		offset := (int(anchor.Weekday()) + 6) % 7
		from := anchor.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 6), nil
	case "month":
		from := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return from, from.AddDate(0, 1, -1), nil
	default:
		return time.Time{}, time.Time{}, report.ErrInvalidRange
	}
}

// summarize derives the per-day working figures from a workday record.
// Worked time runs check-in to checkout minus all recorded breaks; overtime
// is whatever exceeds the scheduled window net of the lunch allowance.
func summarize(wd *workday.Workday, miniBreakCount int) report.DaySummary {
	sum := report.DaySummary{MiniBreakCount: miniBreakCount}
	if wd == nil || wd.CheckinAt == nil {
		return sum
	}

	sum.BreakMinutes = wd.BreakTotalMinutes
	sum.CompensationMinutes = wd.CompensationMinutes
	sum.CompensationWorkMinutes = wd.CompensationWorkMinutes

	if wd.CheckoutAt != nil {
		present := timeutil.ClampMin(timeutil.MinutesBetween(*wd.CheckinAt, *wd.CheckoutAt))
		sum.WorkedMinutes = timeutil.ClampMin(present - wd.BreakTotalMinutes)
		sum.OvertimeMinutes = timeutil.ClampMin(sum.WorkedMinutes - requiredMinutes(wd))
	}

	return sum
}

// requiredMinutes is the scheduled window length minus the lunch allowance.
func requiredMinutes(wd *workday.Workday) int {
	start, err := timeutil.ParseTimeOfDay(wd.ScheduledStart)
	if err != nil {
		start = timeutil.MustTimeOfDay(workday.DefaultScheduledStart)
	}
	end, err := timeutil.ParseTimeOfDay(wd.ScheduledEnd)
	if err != nil {
		end = timeutil.MustTimeOfDay(workday.DefaultScheduledEnd)
	}

	window := timeutil.MinutesBetween(start.On(wd.Day), end.On(wd.Day))
	return timeutil.ClampMin(window - scheduledLunchAllowance)
}

func toUserView(u user.User) report.UserView {
	return report.UserView{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
		FlexMode: u.FlexMode,
	}
}

func toWorkdayView(wd *workday.Workday) *report.WorkdayView {
	if wd == nil {
		return nil
	}
	return &report.WorkdayView{
		ID:                      wd.ID,
		EmployeeID:              wd.EmployeeID,
		Day:                     timeutil.FormatDay(wd.Day),
		State:                   wd.State().String(),
		CheckinAt:               wd.CheckinAt,
		CheckinStatus:           statusPtr(wd.CheckinStatus),
		CheckoutAt:              wd.CheckoutAt,
		CheckoutStatus:          statusPtr(wd.CheckoutStatus),
		LunchStart:              wd.LunchStart,
		LunchEnd:                wd.LunchEnd,
		LunchStatus:             statusPtr(wd.LunchStatus),
		LateMinutes:             wd.LateMinutes,
		BreakTotalMinutes:       wd.BreakTotalMinutes,
		CompensationMinutes:     wd.CompensationMinutes,
		CompensationWorkMinutes: wd.CompensationWorkMinutes,
		ScheduledStart:          wd.ScheduledStart,
		ScheduledEnd:            wd.ScheduledEnd,
	}
}

func toEventViews(events []event.Event) []report.EventView {
	views := make([]report.EventView, 0, len(events))
	for _, ev := range events {
		label, ok := eventLabels[ev.Type]
		if !ok {
			label = string(ev.Type)
		}
		views = append(views, report.EventView{
			At:     ev.OccurredAt,
			Type:   string(ev.Type),
			Status: string(ev.Status),
			Label:  label,
			Meta:   ev.Meta,
		})
	}
	return views
}

func statusPtr(st *workday.Status) *string {
	if st == nil {
		return nil
	}
	s := string(*st)
	return &s
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatStatus(st *workday.Status) string {
	if st == nil {
		return ""
	}
	return string(*st)
}
