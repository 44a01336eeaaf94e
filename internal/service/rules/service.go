package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/event"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/incident"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/minibreak"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/rules"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/timeutil"
	"github.com/clockwise-hq/timeclock-backend-go/internal/repository/postgresql"
)

// RulesServiceImpl implements rules.RulesService. Every transition runs
// inside a single storage transaction so the workday row, the event log and
// the break ledger never drift apart.
type RulesServiceImpl struct {
	transact      func(ctx context.Context, fn func(ctx context.Context) error) error
	userRepo      user.UserRepository
	workdayRepo   workday.WorkdayRepository
	eventRepo     event.EventRepository
	miniBreakRepo minibreak.MiniBreakRepository
	incidentRepo  incident.IncidentRepository
}

func NewRulesService(
	db *database.DB,
	userRepo user.UserRepository,
	workdayRepo workday.WorkdayRepository,
	eventRepo event.EventRepository,
	miniBreakRepo minibreak.MiniBreakRepository,
	incidentRepo incident.IncidentRepository,
) rules.RulesService {
	return &RulesServiceImpl{
		transact: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		userRepo:      userRepo,
		workdayRepo:   workdayRepo,
		eventRepo:     eventRepo,
		miniBreakRepo: miniBreakRepo,
		incidentRepo:  incidentRepo,
	}
}

// CheckIn implements rules.RulesService.
func (s *RulesServiceImpl) CheckIn(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.CheckInResult, error) {
	var res rules.CheckInResult
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.checkIn(ctx, employeeID, at, status)
		return err
	})
	return res, err
}

func (s *RulesServiceImpl) checkIn(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.CheckInResult, error) {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return rules.CheckInResult{}, err
	}

	day := timeutil.DayOf(at)
	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return rules.CheckInResult{}, err
	}

	if wd != nil && wd.CheckinAt != nil && !flex {
		return rules.CheckInResult{Result: rules.Reject(msgAlreadyCheckedIn), Flex: flex}, nil
	}

	if wd == nil {
		created, err := s.workdayRepo.Create(ctx, workday.Workday{EmployeeID: employeeID, Day: day})
		if err != nil {
			return rules.CheckInResult{}, err
		}
		wd = &created
	}

	late := 0
	if !flex {
		late = lateMinutes(at)
	}

	if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{
		CheckinAt:     &at,
		CheckinStatus: &status,
		LateMinutes:   &late,
	}); err != nil {
		return rules.CheckInResult{}, err
	}

	meta := map[string]any{"lateMin": late}
	if flex {
		meta = map[string]any{"flex": true}
	}
	if _, err := s.eventRepo.Append(ctx, event.Event{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		Type:       event.TypeCheckin,
		OccurredAt: at,
		Status:     status,
		Meta:       meta,
	}); err != nil {
		return rules.CheckInResult{}, err
	}

	res := rules.CheckInResult{
		Result:      rules.Result{OK: true},
		LateMinutes: late,
		WorkdayID:   wd.ID,
		Flex:        flex,
	}

	if !flex && late > 0 {
		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeLateCheckin,
			Message:     fmt.Sprintf("Late check-in: %d min. Compensation: %d min.", late, late*compRatio),
			Severity:    incident.SeverityWarn,
			OccurredAt:  at,
			// Lateness is delivered immediately, not held for the evening.
			NotifyAfter: at,
		})
		res.Notice = fmt.Sprintf("You are %d minutes late and must stay %d extra minutes after working hours.", late, late*compRatio)
	}

	if _, err := s.recalcTotals(ctx, wd.ID, flex); err != nil {
		return rules.CheckInResult{}, err
	}

	return res, nil
}

// CheckOut implements rules.RulesService.
func (s *RulesServiceImpl) CheckOut(ctx context.Context, employeeID string, at time.Time, status workday.Status, manualCheckinTime *string) (rules.CheckOutResult, error) {
	var res rules.CheckOutResult
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.checkOut(ctx, employeeID, at, status, manualCheckinTime)
		return err
	})
	return res, err
}

func (s *RulesServiceImpl) checkOut(ctx context.Context, employeeID string, at time.Time, status workday.Status, manualCheckinTime *string) (rules.CheckOutResult, error) {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return rules.CheckOutResult{}, err
	}

	day := timeutil.DayOf(at)
	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return rules.CheckOutResult{}, err
	}

	if wd != nil && wd.CheckoutAt != nil && !flex {
		return rules.CheckOutResult{Result: rules.Reject(msgAlreadyCheckedOut), Flex: flex}, nil
	}

	if wd == nil || wd.CheckinAt == nil {
		if manualCheckinTime == nil && !flex {
			return rules.CheckOutResult{Result: rules.Reject(msgMissingCheckin), Flex: flex}, nil
		}

		checkinAt := at
		checkinStatus := status
		if manualCheckinTime != nil {
			tod, err := timeutil.ParseTimeOfDay(*manualCheckinTime)
			if err != nil {
				return rules.CheckOutResult{}, err
			}
			checkinAt = tod.On(day)
			checkinStatus = workday.StatusManual
		}

		late := 0
		if !flex {
			late = lateMinutes(checkinAt)
		}

		if wd == nil {
			created, err := s.workdayRepo.Create(ctx, workday.Workday{
				EmployeeID:    employeeID,
				Day:           day,
				CheckinAt:     &checkinAt,
				CheckinStatus: &checkinStatus,
				LateMinutes:   late,
			})
			if err != nil {
				return rules.CheckOutResult{}, err
			}
			wd = &created
		} else {
			if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{
				CheckinAt:     &checkinAt,
				CheckinStatus: &checkinStatus,
				LateMinutes:   &late,
			}); err != nil {
				return rules.CheckOutResult{}, err
			}
		}

		meta := map[string]any{"reason": "checkout_without_checkin"}
		if flex {
			meta = map[string]any{"flex": true, "reason": "auto_created_for_checkout"}
		}
		if _, err := s.eventRepo.Append(ctx, event.Event{
			EmployeeID: employeeID,
			WorkdayID:  wd.ID,
			Type:       event.TypeCheckin,
			OccurredAt: checkinAt,
			Status:     checkinStatus,
			Meta:       meta,
		}); err != nil {
			return rules.CheckOutResult{}, err
		}

		if !flex {
			s.raiseIncident(ctx, incident.Incident{
				EmployeeID:  employeeID,
				WorkdayID:   wd.ID,
				Code:        incident.CodeNoCheckinManualOut,
				Message:     "Checkout without check-in. Manual check-in was added.",
				Severity:    incident.SeverityWarn,
				OccurredAt:  at,
				NotifyAfter: timeutil.NotifyAfter(at),
			})
		}
	}

	if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{
		CheckoutAt:     &at,
		CheckoutStatus: &status,
	}); err != nil {
		return rules.CheckOutResult{}, err
	}

	var meta map[string]any
	if flex {
		meta = map[string]any{"flex": true}
	}
	if _, err := s.eventRepo.Append(ctx, event.Event{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		Type:       event.TypeCheckout,
		OccurredAt: at,
		Status:     status,
		Meta:       meta,
	}); err != nil {
		return rules.CheckOutResult{}, err
	}

	if _, err := s.recalcTotals(ctx, wd.ID, flex); err != nil {
		return rules.CheckOutResult{}, err
	}

	return rules.CheckOutResult{Result: rules.Result{OK: true}, Flex: flex}, nil
}

// StartLunch implements rules.RulesService.
func (s *RulesServiceImpl) StartLunch(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.LunchResult, error) {
	var res rules.LunchResult
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.startLunch(ctx, employeeID, at, status)
		return err
	})
	return res, err
}

func (s *RulesServiceImpl) startLunch(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.LunchResult, error) {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return rules.LunchResult{}, err
	}

	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, timeutil.DayOf(at))
	if err != nil {
		return rules.LunchResult{}, err
	}

	if wd == nil || wd.CheckinAt == nil {
		return rules.LunchResult{Result: rules.Reject(msgMustCheckInFirst)}, nil
	}
	if wd.LunchStart != nil && !flex {
		return rules.LunchResult{Result: rules.Reject(msgLunchAlreadyStarted)}, nil
	}
	if !flex && at.Before(wd.CheckinAt.Add(time.Hour)) {
		return rules.LunchResult{Result: rules.Reject(msgLunchTooEarly)}, nil
	}
	if wd.CheckoutAt != nil && !flex && at.After(wd.CheckoutAt.Add(-2*time.Hour)) {
		return rules.LunchResult{Result: rules.Reject(msgLunchTooLate)}, nil
	}

	if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{
		LunchStart:  &at,
		LunchStatus: &status,
	}); err != nil {
		return rules.LunchResult{}, err
	}

	var meta map[string]any
	if flex {
		meta = map[string]any{"flex": true}
	}
	if _, err := s.eventRepo.Append(ctx, event.Event{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		Type:       event.TypeLunchStart,
		OccurredAt: at,
		Status:     status,
		Meta:       meta,
	}); err != nil {
		return rules.LunchResult{}, err
	}

	if _, err := s.recalcTotals(ctx, wd.ID, flex); err != nil {
		return rules.LunchResult{}, err
	}

	return rules.LunchResult{Result: rules.Result{OK: true}}, nil
}

// EndLunch implements rules.RulesService.
func (s *RulesServiceImpl) EndLunch(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.LunchResult, error) {
	var res rules.LunchResult
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.endLunch(ctx, employeeID, at, status)
		return err
	})
	return res, err
}

func (s *RulesServiceImpl) endLunch(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.LunchResult, error) {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return rules.LunchResult{}, err
	}

	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, timeutil.DayOf(at))
	if err != nil {
		return rules.LunchResult{}, err
	}

	if wd == nil || wd.LunchStart == nil {
		return rules.LunchResult{Result: rules.Reject(msgLunchNotStarted)}, nil
	}
	if wd.LunchEnd != nil && !flex {
		return rules.LunchResult{Result: rules.Reject(msgLunchAlreadyEnded)}, nil
	}

	mins := timeutil.ClampMin(timeutil.MinutesBetween(*wd.LunchStart, at))

	if !flex && mins > lunchMaxMinutes {
		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeLunchExceed60,
			Message:     fmt.Sprintf("Lunch exceeded 60 min (%d). Compensation applies.", mins),
			Severity:    incident.SeverityWarn,
			OccurredAt:  at,
			NotifyAfter: timeutil.NotifyAfter(at),
		})
	}

	if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{LunchEnd: &at}); err != nil {
		return rules.LunchResult{}, err
	}

	var meta map[string]any
	if flex {
		meta = map[string]any{"flex": true, "durationMin": mins}
	}
	if _, err := s.eventRepo.Append(ctx, event.Event{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		Type:       event.TypeLunchEnd,
		OccurredAt: at,
		Status:     status,
		Meta:       meta,
	}); err != nil {
		return rules.LunchResult{}, err
	}

	if _, err := s.recalcTotals(ctx, wd.ID, flex); err != nil {
		return rules.LunchResult{}, err
	}

	return rules.LunchResult{Result: rules.Result{OK: true}}, nil
}

// StartMiniBreak implements rules.RulesService.
func (s *RulesServiceImpl) StartMiniBreak(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.MiniBreakStartResult, error) {
	var res rules.MiniBreakStartResult
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.startMiniBreak(ctx, employeeID, at, status)
		return err
	})
	return res, err
}

func (s *RulesServiceImpl) startMiniBreak(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.MiniBreakStartResult, error) {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return rules.MiniBreakStartResult{}, err
	}

	day := timeutil.DayOf(at)
	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return rules.MiniBreakStartResult{}, err
	}

	if wd == nil || wd.CheckinAt == nil {
		return rules.MiniBreakStartResult{Result: rules.Reject(msgMustCheckInFirst)}, nil
	}

	breaks, err := s.miniBreakRepo.ListByWorkday(ctx, wd.ID)
	if err != nil {
		return rules.MiniBreakStartResult{}, err
	}
	count := len(breaks)

	// Breaks are classified against the actual lunch start when known, else
	// the default 12:00 boundary.
	boundary := lunchWindowStart.On(day)
	if wd.LunchStart != nil {
		boundary = *wd.LunchStart
	}

	beforeCount := 0
	for _, mb := range breaks {
		if mb.StartAt.Before(boundary) {
			beforeCount++
		}
	}
	afterCount := count - beforeCount

	phase := minibreak.PhaseAfterLunch
	if at.Before(boundary) {
		phase = minibreak.PhaseBeforeLunch
	}

	if !flex && count < miniBreakMaxPerDay {
		if phase == minibreak.PhaseBeforeLunch {
			if beforeCount >= miniBreakBeforeLimit {
				return rules.MiniBreakStartResult{Result: rules.Reject(msgMiniLimitBefore)}, nil
			}
		} else {
			// The unused before-lunch quota lends one extra slot after lunch.
			afterLimit := miniBreakAfterDefault
			if beforeCount < miniBreakBeforeLimit {
				afterLimit = miniBreakAfterDefault + 1
			}
			if afterCount >= afterLimit {
				return rules.MiniBreakStartResult{Result: rules.Reject(msgMiniLimitAfter)}, nil
			}
		}
	}

	notice := ""
	if !flex && count >= miniBreakMaxPerDay {
		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeMiniBreakOver3,
			Message:     fmt.Sprintf("Mini-break over daily limit (%d). Compensation applies.", miniBreakMaxPerDay),
			Severity:    incident.SeverityWarn,
			OccurredAt:  at,
			NotifyAfter: at,
		})
		notice = "Mini-break approved, but extra time must be compensated 1:3 after working hours."
	}

	open, err := s.miniBreakRepo.GetOpen(ctx, wd.ID)
	if err != nil {
		return rules.MiniBreakStartResult{}, err
	}
	if open != nil && !flex {
		return rules.MiniBreakStartResult{Result: rules.Reject(msgMiniAlreadyRunning)}, nil
	}

	mb, err := s.miniBreakRepo.Create(ctx, minibreak.MiniBreak{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		StartAt:    at,
		Status:     status,
	})
	if err != nil {
		return rules.MiniBreakStartResult{}, err
	}

	meta := map[string]any{"miniBreakId": mb.ID, "phase": string(phase)}
	if flex {
		meta["flex"] = true
	}
	if _, err := s.eventRepo.Append(ctx, event.Event{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		Type:       event.TypeMiniBreakStart,
		OccurredAt: at,
		Status:     status,
		Meta:       meta,
	}); err != nil {
		return rules.MiniBreakStartResult{}, err
	}

	return rules.MiniBreakStartResult{
		Result:          rules.Result{OK: true},
		MiniBreakID:     mb.ID,
		MiniCountBefore: count,
		Phase:           string(phase),
		Notice:          notice,
	}, nil
}

// EndMiniBreak implements rules.RulesService.
func (s *RulesServiceImpl) EndMiniBreak(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.MiniBreakEndResult, error) {
	var res rules.MiniBreakEndResult
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.endMiniBreak(ctx, employeeID, at, status)
		return err
	})
	return res, err
}

func (s *RulesServiceImpl) endMiniBreak(ctx context.Context, employeeID string, at time.Time, status workday.Status) (rules.MiniBreakEndResult, error) {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return rules.MiniBreakEndResult{}, err
	}

	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, timeutil.DayOf(at))
	if err != nil {
		return rules.MiniBreakEndResult{}, err
	}
	if wd == nil {
		return rules.MiniBreakEndResult{Result: rules.Reject(msgNoWorkday)}, nil
	}

	open, err := s.miniBreakRepo.GetOpen(ctx, wd.ID)
	if err != nil {
		return rules.MiniBreakEndResult{}, err
	}
	if open == nil {
		return rules.MiniBreakEndResult{Result: rules.Reject(msgMiniNotRunning)}, nil
	}

	mins := timeutil.ClampMin(timeutil.MinutesBetween(open.StartAt, at))
	exceeded := 0
	if !flex {
		exceeded = timeutil.ClampMin(mins - miniBreakMaxMinutes)
	}

	if err := s.miniBreakRepo.Close(ctx, open.ID, at, mins, exceeded, status); err != nil {
		return rules.MiniBreakEndResult{}, err
	}

	meta := map[string]any{"durationMin": mins, "exceededMin": exceeded}
	if flex {
		meta["flex"] = true
	}
	if _, err := s.eventRepo.Append(ctx, event.Event{
		EmployeeID: employeeID,
		WorkdayID:  wd.ID,
		Type:       event.TypeMiniBreakEnd,
		OccurredAt: at,
		Status:     status,
		Meta:       meta,
	}); err != nil {
		return rules.MiniBreakEndResult{}, err
	}

	if !flex && exceeded > 0 {
		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeMiniBreakExceed7,
			Message:     fmt.Sprintf("Mini-break exceeded %d min by %d min. Compensation: %d min.", miniBreakMaxMinutes, exceeded, exceeded*compRatio),
			Severity:    incident.SeverityWarn,
			OccurredAt:  at,
			NotifyAfter: timeutil.NotifyAfter(at),
		})
	}

	totals, err := s.recalcTotals(ctx, wd.ID, flex)
	if err != nil {
		return rules.MiniBreakEndResult{}, err
	}

	if !flex && totals.ExceededTotalMinutes > 0 {
		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeTotalBreakExceed60,
			Message:     fmt.Sprintf("Total breaks exceeded %d min by %d min. Compensation applies.", totalBreakMaxMinutes, totals.ExceededTotalMinutes),
			Severity:    incident.SeverityWarn,
			OccurredAt:  at,
			NotifyAfter: timeutil.NotifyAfter(at),
		})
	}

	return rules.MiniBreakEndResult{
		Result:          rules.Result{OK: true},
		DurationMinutes: mins,
		ExceededMinutes: exceeded,
		Totals:          totals,
	}, nil
}

// ApplyAutoRulesForDay implements rules.RulesService.
func (s *RulesServiceImpl) ApplyAutoRulesForDay(ctx context.Context, employeeID string, day time.Time) error {
	return s.transact(ctx, func(ctx context.Context) error {
		return s.applyAutoRules(ctx, employeeID, day)
	})
}

func (s *RulesServiceImpl) applyAutoRules(ctx context.Context, employeeID string, day time.Time) error {
	flex, err := s.isFlex(ctx, employeeID)
	if err != nil {
		return err
	}
	if flex {
		return nil
	}

	day = timeutil.DayOf(day)
	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return err
	}
	if wd == nil {
		return nil
	}

	now := time.Now()
	auto := workday.StatusAuto
	changed := false

	if wd.LunchStart == nil && wd.LunchEnd == nil {
		start := lunchWindowStart.On(day)
		end := lunchWindowEnd.On(day)

		if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{
			LunchStart:  &start,
			LunchEnd:    &end,
			LunchStatus: &auto,
		}); err != nil {
			return err
		}

		for _, ev := range []event.Event{
			{Type: event.TypeLunchStart, OccurredAt: start},
			{Type: event.TypeLunchEnd, OccurredAt: end},
		} {
			ev.EmployeeID = employeeID
			ev.WorkdayID = wd.ID
			ev.Status = workday.StatusAuto
			ev.Meta = map[string]any{"auto": true}
			if _, err := s.eventRepo.Append(ctx, ev); err != nil {
				return err
			}
		}

		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeAutoLunch,
			Message:     "Lunch auto-registered (12:00-13:00) because it was not used.",
			Severity:    incident.SeverityInfo,
			OccurredAt:  now,
			NotifyAfter: timeutil.NotifyAfter(now),
		})
		changed = true
	}

	if wd.CheckoutAt == nil {
		out := autoCheckoutAt.On(day)

		if err := s.workdayRepo.Apply(ctx, wd.ID, workday.Update{
			CheckoutAt:     &out,
			CheckoutStatus: &auto,
		}); err != nil {
			return err
		}

		if _, err := s.eventRepo.Append(ctx, event.Event{
			EmployeeID: employeeID,
			WorkdayID:  wd.ID,
			Type:       event.TypeCheckout,
			OccurredAt: out,
			Status:     workday.StatusAuto,
			Meta:       map[string]any{"auto": true},
		}); err != nil {
			return err
		}

		s.raiseIncident(ctx, incident.Incident{
			EmployeeID:  employeeID,
			WorkdayID:   wd.ID,
			Code:        incident.CodeAutoCheckout,
			Message:     "Checkout auto-registered at 17:00.",
			Severity:    incident.SeverityInfo,
			OccurredAt:  now,
			NotifyAfter: timeutil.NotifyAfter(now),
		})
		changed = true
	}

	if changed {
		if _, err := s.recalcTotals(ctx, wd.ID, false); err != nil {
			return err
		}
	}

	return nil
}

func (s *RulesServiceImpl) isFlex(ctx context.Context, employeeID string) (bool, error) {
	u, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return u.FlexMode, nil
}

// recalcTotals recomputes the workday aggregates from the stored lunch window
// and the break ledger, persists them, and returns the fresh values.
func (s *RulesServiceImpl) recalcTotals(ctx context.Context, workdayID string, flex bool) (rules.Totals, error) {
	wd, err := s.workdayRepo.GetByID(ctx, workdayID)
	if err != nil {
		return rules.Totals{}, err
	}

	mb, err := s.miniBreakRepo.TotalsByWorkday(ctx, workdayID)
	if err != nil {
		return rules.Totals{}, err
	}

	lunchMin := 0
	if wd.LunchStart != nil && wd.LunchEnd != nil {
		lunchMin = timeutil.ClampMin(timeutil.MinutesBetween(*wd.LunchStart, *wd.LunchEnd))
	}
	breakTotal := lunchMin + mb.DurationMinutes

	late, mbExceeded, exceededTotal := 0, 0, 0
	if !flex {
		late = wd.LateMinutes
		mbExceeded = mb.ExceededMinutes
		exceededTotal = timeutil.ClampMin(breakTotal - totalBreakMaxMinutes)
	}

	comp := late + mbExceeded + exceededTotal
	compWork := comp * compRatio

	if err := s.workdayRepo.Apply(ctx, workdayID, workday.Update{
		BreakTotalMinutes:       &breakTotal,
		CompensationMinutes:     &comp,
		CompensationWorkMinutes: &compWork,
	}); err != nil {
		return rules.Totals{}, err
	}

	return rules.Totals{
		BreakTotalMinutes:       breakTotal,
		ExceededTotalMinutes:    exceededTotal,
		CompensationMinutes:     comp,
		CompensationWorkMinutes: compWork,
	}, nil
}

// raiseIncident records a policy incident without failing the transition.
// The unique (workday, code) index makes repeats a no-op.
func (s *RulesServiceImpl) raiseIncident(ctx context.Context, inc incident.Incident) {
	if err := s.incidentRepo.Upsert(ctx, inc); err != nil {
		slog.Warn("failed to record incident",
			"code", inc.Code,
			"workday_id", inc.WorkdayID,
			"error", err,
		)
	}
}
