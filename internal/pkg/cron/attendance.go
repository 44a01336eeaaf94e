package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/rules"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/service/notify"
)

// autoCloseHour is the local hour during which the auto-close sweep is
// allowed to act. Matches the scheduled end of the working day.
const autoCloseHour = 17

// AttendanceJobs wires the rules engine's daily sweeps into the scheduler.
type AttendanceJobs struct {
	rulesService rules.RulesService
	notifier     *notify.Notifier
	userRepo     user.UserRepository
}

func NewAttendanceJobs(rulesService rules.RulesService, notifier *notify.Notifier, userRepo user.UserRepository) *AttendanceJobs {
	return &AttendanceJobs{
		rulesService: rulesService,
		notifier:     notifier,
		userRepo:     userRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, autoCloseInterval, notifyInterval time.Duration) {
	scheduler.AddJob("auto_close_workdays", autoCloseInterval, j.AutoCloseWorkdays)
	scheduler.AddJob("deliver_incident_notifications", notifyInterval, j.DeliverIncidentNotifications)
}

// AutoCloseWorkdays applies the forced-lunch and forced-checkout defaults to
// every active employee's current day. Outside the closing hour it is a
// no-op, so the hourly tick is safe.
func (j *AttendanceJobs) AutoCloseWorkdays(ctx context.Context) error {
	if time.Now().Hour() != autoCloseHour {
		return nil
	}
	return j.SweepDay(ctx, time.Now())
}

// SweepDay runs the auto rules for every active employee on the given day.
// Also backs the manual admin trigger, which skips the hour gate.
func (j *AttendanceJobs) SweepDay(ctx context.Context, day time.Time) error {
	slog.Info("cron: starting workday auto-close sweep")

	employees, err := j.userRepo.ListActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees for auto-close: %w", err)
	}

	failures := 0
	for _, emp := range employees {
		if err := j.rulesService.ApplyAutoRulesForDay(ctx, emp.ID, day); err != nil {
			failures++
			slog.Error("cron: auto-close failed for employee", "employee_id", emp.ID, "error", err)
		}
	}

	slog.Info("cron: workday auto-close sweep finished", "employees", len(employees), "failures", failures)
	if failures > 0 {
		return fmt.Errorf("auto-close sweep had %d failures", failures)
	}
	return nil
}

// DeliverIncidentNotifications drains one batch of due incidents. The
// per-incident embargo already holds deliveries until the evening, so this
// runs unconditionally.
func (j *AttendanceJobs) DeliverIncidentNotifications(ctx context.Context) error {
	delivered, err := j.notifier.Run(ctx)
	if err != nil {
		return err
	}
	if delivered > 0 {
		slog.Info("cron: incident notifications delivered", "count", delivered)
	}
	return nil
}
