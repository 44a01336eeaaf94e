package rules

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/event"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/incident"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/minibreak"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories backing the engine tests. They mirror the
// PostgreSQL implementations' contracts, including the silent-no-op
// incident upsert and the nil result for a missing workday.

type memStore struct {
	users      map[string]user.User
	workdays   map[string]*workday.Workday
	events     []event.Event
	miniBreaks []*minibreak.MiniBreak
	incidents  map[string]incident.Incident
	seq        int
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]user.User),
		workdays:  make(map[string]*workday.Workday),
		incidents: make(map[string]incident.Incident),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type fakeUserRepo struct{ *memStore }

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = f.nextID("usr")
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListEmployees(ctx context.Context, filter user.ListEmployeesFilter) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range f.users {
		if u.Role == user.RoleEmployee {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) ListActiveEmployees(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.Role == user.RoleEmployee && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) SetSecret(ctx context.Context, id string, passwordHash, pinHash *string) error {
	u := f.users[id]
	if passwordHash != nil {
		u.PasswordHash = passwordHash
	}
	if pinHash != nil {
		u.PinHash = pinHash
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string, hard bool) error {
	if hard {
		delete(f.users, id)
		return nil
	}
	u := f.users[id]
	u.IsActive = false
	f.users[id] = u
	return nil
}

type fakeWorkdayRepo struct{ *memStore }

func (f *fakeWorkdayRepo) Create(ctx context.Context, wd workday.Workday) (workday.Workday, error) {
	wd.ID = f.nextID("wd")
	if wd.ScheduledStart == "" {
		wd.ScheduledStart = workday.DefaultScheduledStart
	}
	if wd.ScheduledEnd == "" {
		wd.ScheduledEnd = workday.DefaultScheduledEnd
	}
	wd.CreatedAt = time.Now()
	wd.UpdatedAt = wd.CreatedAt
	stored := wd
	f.workdays[wd.ID] = &stored
	return wd, nil
}

func (f *fakeWorkdayRepo) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (*workday.Workday, error) {
	for _, wd := range f.workdays {
		if wd.EmployeeID == employeeID && wd.Day.Equal(day) {
			cp := *wd
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkdayRepo) GetByID(ctx context.Context, id string) (workday.Workday, error) {
	wd, ok := f.workdays[id]
	if !ok {
		return workday.Workday{}, fmt.Errorf("workday %s not found", id)
	}
	return *wd, nil
}

func (f *fakeWorkdayRepo) Apply(ctx context.Context, id string, upd workday.Update) error {
	wd, ok := f.workdays[id]
	if !ok {
		return fmt.Errorf("workday %s not found", id)
	}
	if upd.CheckinAt != nil {
		wd.CheckinAt = upd.CheckinAt
	}
	if upd.CheckinStatus != nil {
		wd.CheckinStatus = upd.CheckinStatus
	}
	if upd.CheckoutAt != nil {
		wd.CheckoutAt = upd.CheckoutAt
	}
	if upd.CheckoutStatus != nil {
		wd.CheckoutStatus = upd.CheckoutStatus
	}
	if upd.LunchStart != nil {
		wd.LunchStart = upd.LunchStart
	}
	if upd.LunchEnd != nil {
		wd.LunchEnd = upd.LunchEnd
	}
	if upd.LunchStatus != nil {
		wd.LunchStatus = upd.LunchStatus
	}
	if upd.LateMinutes != nil {
		wd.LateMinutes = *upd.LateMinutes
	}
	if upd.BreakTotalMinutes != nil {
		wd.BreakTotalMinutes = *upd.BreakTotalMinutes
	}
	if upd.CompensationMinutes != nil {
		wd.CompensationMinutes = *upd.CompensationMinutes
	}
	if upd.CompensationWorkMinutes != nil {
		wd.CompensationWorkMinutes = *upd.CompensationWorkMinutes
	}
	wd.UpdatedAt = time.Now()
	return nil
}

func (f *fakeWorkdayRepo) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]workday.Workday, error) {
	var out []workday.Workday
	for _, wd := range f.workdays {
		if wd.EmployeeID == employeeID && !wd.Day.Before(from) && !wd.Day.After(to) {
			out = append(out, *wd)
		}
	}
	return out, nil
}

func (f *fakeWorkdayRepo) ListByDay(ctx context.Context, day time.Time) (map[string]workday.Workday, error) {
	out := make(map[string]workday.Workday)
	for _, wd := range f.workdays {
		if wd.Day.Equal(day) {
			out[wd.EmployeeID] = *wd
		}
	}
	return out, nil
}

type fakeEventRepo struct{ *memStore }

func (f *fakeEventRepo) Append(ctx context.Context, ev event.Event) (event.Event, error) {
	ev.ID = f.nextID("evt")
	ev.CreatedAt = time.Now()
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeEventRepo) ListByWorkday(ctx context.Context, workdayID string) ([]event.Event, error) {
	var out []event.Event
	for _, ev := range f.events {
		if ev.WorkdayID == workdayID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeMiniBreakRepo struct{ *memStore }

func (f *fakeMiniBreakRepo) Create(ctx context.Context, mb minibreak.MiniBreak) (minibreak.MiniBreak, error) {
	mb.ID = f.nextID("mb")
	mb.CreatedAt = time.Now()
	stored := mb
	f.miniBreaks = append(f.miniBreaks, &stored)
	return mb, nil
}

func (f *fakeMiniBreakRepo) ListByWorkday(ctx context.Context, workdayID string) ([]minibreak.MiniBreak, error) {
	var out []minibreak.MiniBreak
	for _, mb := range f.miniBreaks {
		if mb.WorkdayID == workdayID {
			out = append(out, *mb)
		}
	}
	return out, nil
}

func (f *fakeMiniBreakRepo) GetOpen(ctx context.Context, workdayID string) (*minibreak.MiniBreak, error) {
	for i := len(f.miniBreaks) - 1; i >= 0; i-- {
		mb := f.miniBreaks[i]
		if mb.WorkdayID == workdayID && mb.EndAt == nil {
			cp := *mb
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMiniBreakRepo) Close(ctx context.Context, id string, endAt time.Time, durationMinutes, exceededMinutes int, status workday.Status) error {
	for _, mb := range f.miniBreaks {
		if mb.ID == id {
			mb.EndAt = &endAt
			mb.DurationMinutes = &durationMinutes
			mb.ExceededMinutes = &exceededMinutes
			mb.Status = status
			return nil
		}
	}
	return fmt.Errorf("mini-break %s not found", id)
}

func (f *fakeMiniBreakRepo) TotalsByWorkday(ctx context.Context, workdayID string) (minibreak.Totals, error) {
	var totals minibreak.Totals
	for _, mb := range f.miniBreaks {
		if mb.WorkdayID != workdayID {
			continue
		}
		if mb.DurationMinutes != nil {
			totals.DurationMinutes += *mb.DurationMinutes
		}
		if mb.ExceededMinutes != nil {
			totals.ExceededMinutes += *mb.ExceededMinutes
		}
	}
	return totals, nil
}

func (f *fakeMiniBreakRepo) CountByWorkday(ctx context.Context, workdayID string) (int, error) {
	count := 0
	for _, mb := range f.miniBreaks {
		if mb.WorkdayID == workdayID {
			count++
		}
	}
	return count, nil
}

type fakeIncidentRepo struct{ *memStore }

func incidentKey(workdayID, code string) string {
	return workdayID + "/" + code
}

func (f *fakeIncidentRepo) Upsert(ctx context.Context, inc incident.Incident) error {
	key := incidentKey(inc.WorkdayID, inc.Code)
	if _, exists := f.incidents[key]; exists {
		return nil
	}
	inc.ID = f.nextID("inc")
	inc.CreatedAt = time.Now()
	if inc.Channel == "" {
		inc.Channel = "both"
	}
	f.incidents[key] = inc
	return nil
}

func (f *fakeIncidentRepo) ListByWorkday(ctx context.Context, workdayID string) ([]incident.Incident, error) {
	var out []incident.Incident
	for _, inc := range f.incidents {
		if inc.WorkdayID == workdayID {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (f *fakeIncidentRepo) CountByWorkdayIDs(ctx context.Context, workdayIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, inc := range f.incidents {
		for _, id := range workdayIDs {
			if inc.WorkdayID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (f *fakeIncidentRepo) ListDue(ctx context.Context, before time.Time, limit int) ([]incident.Incident, error) {
	var out []incident.Incident
	for _, inc := range f.incidents {
		if inc.NotifiedAt == nil && !inc.NotifyAfter.After(before) {
			out = append(out, inc)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeIncidentRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	for key, inc := range f.incidents {
		if inc.ID == id {
			inc.NotifiedAt = &at
			f.incidents[key] = inc
			return nil
		}
	}
	return fmt.Errorf("incident %s not found", id)
}

const (
	testEmployeeID = "emp-1"
	testFlexID     = "emp-flex"
)

func newTestEngine(t *testing.T) (*RulesServiceImpl, *memStore) {
	t.Helper()

	store := newMemStore()
	store.users[testEmployeeID] = user.User{
		ID: testEmployeeID, Email: "worker@example.com", FullName: "Test Worker",
		Role: user.RoleEmployee, IsActive: true,
	}
	store.users[testFlexID] = user.User{
		ID: testFlexID, Email: "flex@example.com", FullName: "Flex Worker",
		Role: user.RoleEmployee, IsActive: true, FlexMode: true,
	}

	svc := &RulesServiceImpl{
		transact: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		userRepo:      &fakeUserRepo{store},
		workdayRepo:   &fakeWorkdayRepo{store},
		eventRepo:     &fakeEventRepo{store},
		miniBreakRepo: &fakeMiniBreakRepo{store},
		incidentRepo:  &fakeIncidentRepo{store},
	}
	return svc, store
}

// clock returns an instant on a fixed test day.
func clock(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.Local)
}

func (m *memStore) workdayOf(t *testing.T, employeeID string) workday.Workday {
	t.Helper()
	for _, wd := range m.workdays {
		if wd.EmployeeID == employeeID {
			return *wd
		}
	}
	t.Fatalf("no workday for %s", employeeID)
	return workday.Workday{}
}

func (m *memStore) incidentByCode(code string) (incident.Incident, bool) {
	for _, inc := range m.incidents {
		if inc.Code == code {
			return inc, true
		}
	}
	return incident.Incident{}, false
}

func TestCheckInOnTime(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, 0, res.LateMinutes)
	assert.Empty(t, res.Notice)
	assert.Empty(t, store.incidents)

	wd := store.workdayOf(t, testEmployeeID)
	assert.Equal(t, workday.CheckedIn, wd.State())
	require.NotNil(t, wd.CheckinStatus)
	assert.Equal(t, workday.StatusNormal, *wd.CheckinStatus)
}

func TestCheckInLateRaisesCompensation(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 10), workday.StatusNormal)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, 5, res.LateMinutes)
	assert.Contains(t, res.Notice, "15")

	inc, ok := store.incidentByCode(incident.CodeLateCheckin)
	require.True(t, ok)
	assert.Contains(t, inc.Message, "15 min")
	assert.Equal(t, incident.SeverityWarn, inc.Severity)
	// Lateness notifies immediately rather than waiting for the 20:00 window.
	assert.True(t, inc.NotifyAfter.Equal(clock(9, 10)))

	wd := store.workdayOf(t, testEmployeeID)
	assert.Equal(t, 5, wd.LateMinutes)
	assert.Equal(t, 5, wd.CompensationMinutes)
	assert.Equal(t, 15, wd.CompensationWorkMinutes)
}

func TestCheckInTwiceRejected(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, first.OK)

	second, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 30), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, second.OK)
	assert.Equal(t, "Already checked in today", second.Error)

	// The original check-in stands.
	wd := store.workdayOf(t, testEmployeeID)
	assert.True(t, wd.CheckinAt.Equal(clock(9, 0)))
}

func TestFlexCheckInBypassesEverything(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, testFlexID, clock(10, 30), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, first.OK)
	assert.True(t, first.Flex)
	assert.Equal(t, 0, first.LateMinutes)

	second, err := svc.CheckIn(ctx, testFlexID, clock(11, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, second.OK)

	assert.Empty(t, store.incidents)
	wd := store.workdayOf(t, testFlexID)
	assert.Equal(t, 0, wd.LateMinutes)
	assert.Equal(t, 0, wd.CompensationMinutes)
}

func TestCheckOutWithoutCheckinRequiresManualTime(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := svc.CheckOut(ctx, testEmployeeID, clock(17, 0), workday.StatusNormal, nil)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "manual check-in")
}

func TestCheckOutWithManualCheckin(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	manual := "08:30:00"
	res, err := svc.CheckOut(ctx, testEmployeeID, clock(17, 0), workday.StatusNormal, &manual)
	require.NoError(t, err)
	assert.True(t, res.OK)

	wd := store.workdayOf(t, testEmployeeID)
	require.NotNil(t, wd.CheckinAt)
	assert.True(t, wd.CheckinAt.Equal(clock(8, 30)))
	require.NotNil(t, wd.CheckinStatus)
	assert.Equal(t, workday.StatusManual, *wd.CheckinStatus)
	assert.Equal(t, 0, wd.LateMinutes)
	assert.Equal(t, workday.CheckedOut, wd.State())

	_, ok := store.incidentByCode(incident.CodeNoCheckinManualOut)
	assert.True(t, ok)
}

func TestCheckOutTwiceRejected(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)
	first, err := svc.CheckOut(ctx, testEmployeeID, clock(17, 0), workday.StatusNormal, nil)
	require.NoError(t, err)
	require.True(t, first.OK)

	second, err := svc.CheckOut(ctx, testEmployeeID, clock(17, 30), workday.StatusNormal, nil)
	require.NoError(t, err)
	assert.False(t, second.OK)
	assert.Equal(t, "Already checked out", second.Error)
}

func TestLunchRequiresCheckin(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := svc.StartLunch(ctx, testEmployeeID, clock(12, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Must check in first", res.Error)
}

func TestLunchTooEarlyAfterCheckin(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	res, err := svc.StartLunch(ctx, testEmployeeID, clock(9, 30), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Lunch can start only 1 hour after check-in", res.Error)

	// Exactly one hour in is allowed.
	res, err = svc.StartLunch(ctx, testEmployeeID, clock(10, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestLunchTooCloseToCheckout(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)
	out, err := svc.CheckOut(ctx, testEmployeeID, clock(17, 0), workday.StatusNormal, nil)
	require.NoError(t, err)
	require.True(t, out.OK)

	res, err := svc.StartLunch(ctx, testEmployeeID, clock(15, 30), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Lunch must start at least 2 hours before checkout", res.Error)
}

func TestLunchOverrunRaisesIncidentAndCountsTotal(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)
	start, err := svc.StartLunch(ctx, testEmployeeID, clock(12, 0), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, start.OK)

	end, err := svc.EndLunch(ctx, testEmployeeID, clock(13, 15), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, end.OK)

	inc, ok := store.incidentByCode(incident.CodeLunchExceed60)
	require.True(t, ok)
	assert.Contains(t, inc.Message, "75")

	wd := store.workdayOf(t, testEmployeeID)
	assert.Equal(t, 75, wd.BreakTotalMinutes)
	assert.Equal(t, 15, wd.CompensationMinutes)
	assert.Equal(t, 45, wd.CompensationWorkMinutes)
}

func TestEndLunchNotStarted(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := svc.EndLunch(ctx, testEmployeeID, clock(13, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Lunch not started", res.Error)
}

func TestMiniBreakBeforeLunchLimit(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	for i, pair := range [][2]time.Time{
		{clock(9, 30), clock(9, 35)},
		{clock(10, 0), clock(10, 5)},
	} {
		start, err := svc.StartMiniBreak(ctx, testEmployeeID, pair[0], workday.StatusNormal)
		require.NoError(t, err)
		require.True(t, start.OK, "break %d", i+1)
		assert.Equal(t, string(minibreak.PhaseBeforeLunch), start.Phase)

		end, err := svc.EndMiniBreak(ctx, testEmployeeID, pair[1], workday.StatusNormal)
		require.NoError(t, err)
		require.True(t, end.OK)
		assert.Equal(t, 0, end.ExceededMinutes)
	}

	third, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(10, 30), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, third.OK)
	assert.Equal(t, "Mini-break limit reached before lunch (max 2).", third.Error)
}

func TestMiniBreakAfterLunchLimitAndFourthFlagged(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	// Exhaust the before-lunch quota.
	for _, pair := range [][2]time.Time{
		{clock(9, 30), clock(9, 35)},
		{clock(10, 0), clock(10, 5)},
	} {
		start, err := svc.StartMiniBreak(ctx, testEmployeeID, pair[0], workday.StatusNormal)
		require.NoError(t, err)
		require.True(t, start.OK)
		_, err = svc.EndMiniBreak(ctx, testEmployeeID, pair[1], workday.StatusNormal)
		require.NoError(t, err)
	}

	// One slot remains after the 12:00 boundary.
	start, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(13, 30), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, start.OK)
	assert.Equal(t, string(minibreak.PhaseAfterLunch), start.Phase)
	assert.Equal(t, 2, start.MiniCountBefore)
	_, err = svc.EndMiniBreak(ctx, testEmployeeID, clock(13, 35), workday.StatusNormal)
	require.NoError(t, err)

	// The fourth exceeds the daily cap: allowed, but flagged for compensation.
	fourth, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(15, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, fourth.OK)
	assert.NotEmpty(t, fourth.Notice)
	assert.Contains(t, fourth.Notice, "1:3")

	inc, ok := store.incidentByCode(incident.CodeMiniBreakOver3)
	require.True(t, ok)
	assert.True(t, inc.NotifyAfter.Equal(clock(15, 0)))
}

func TestMiniBreakAfterLunchOnlyOneWhenBeforeQuotaUsed(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	// No before-lunch breaks were taken, so two fit after lunch.
	for _, pair := range [][2]time.Time{
		{clock(13, 30), clock(13, 35)},
		{clock(14, 30), clock(14, 35)},
	} {
		start, err := svc.StartMiniBreak(ctx, testEmployeeID, pair[0], workday.StatusNormal)
		require.NoError(t, err)
		require.True(t, start.OK)
		_, err = svc.EndMiniBreak(ctx, testEmployeeID, pair[1], workday.StatusNormal)
		require.NoError(t, err)
	}

	third, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(15, 30), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, third.OK)
	assert.Equal(t, "Mini-break limit reached after lunch.", third.Error)
}

func TestMiniBreakAlreadyRunning(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	first, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(9, 30), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, first.OK)

	second, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(9, 32), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, second.OK)
	assert.Equal(t, "Mini-break already running", second.Error)
}

func TestEndMiniBreakWithoutOne(t *testing.T) {
	svc, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := svc.EndMiniBreak(ctx, testEmployeeID, clock(10, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "No workday found", res.Error)

	_, err = svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	res, err = svc.EndMiniBreak(ctx, testEmployeeID, clock(10, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "No mini-break running", res.Error)
}

func TestMiniBreakOverrunCompensated(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	start, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(9, 30), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, start.OK)

	end, err := svc.EndMiniBreak(ctx, testEmployeeID, clock(9, 40), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, end.OK)
	assert.Equal(t, 10, end.DurationMinutes)
	assert.Equal(t, 3, end.ExceededMinutes)
	assert.Equal(t, 10, end.Totals.BreakTotalMinutes)
	assert.Equal(t, 3, end.Totals.CompensationMinutes)
	assert.Equal(t, 9, end.Totals.CompensationWorkMinutes)

	inc, ok := store.incidentByCode(incident.CodeMiniBreakExceed7)
	require.True(t, ok)
	assert.Contains(t, inc.Message, "by 3 min")
	assert.Contains(t, inc.Message, "9 min")
}

func TestTotalsInvariantAcrossTheDay(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	// Late check-in, a long lunch and an overlong mini-break together.
	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 10), workday.StatusNormal)
	require.NoError(t, err)

	start, err := svc.StartMiniBreak(ctx, testEmployeeID, clock(10, 30), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, start.OK)
	_, err = svc.EndMiniBreak(ctx, testEmployeeID, clock(10, 40), workday.StatusNormal)
	require.NoError(t, err)

	lunch, err := svc.StartLunch(ctx, testEmployeeID, clock(12, 0), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, lunch.OK)
	_, err = svc.EndLunch(ctx, testEmployeeID, clock(13, 15), workday.StatusNormal)
	require.NoError(t, err)

	out, err := svc.CheckOut(ctx, testEmployeeID, clock(17, 0), workday.StatusNormal, nil)
	require.NoError(t, err)
	require.True(t, out.OK)

	wd := store.workdayOf(t, testEmployeeID)
	assert.Equal(t, 85, wd.BreakTotalMinutes) // 75 lunch + 10 mini

	late := wd.LateMinutes
	exceededTotal := wd.BreakTotalMinutes - 60
	assert.Equal(t, late+3+exceededTotal, wd.CompensationMinutes)
	assert.Equal(t, wd.CompensationMinutes*3, wd.CompensationWorkMinutes)
}

func TestTotalBreakOverageIncidentRaisedOnce(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)
	_, err = svc.StartLunch(ctx, testEmployeeID, clock(12, 0), workday.StatusNormal)
	require.NoError(t, err)
	_, err = svc.EndLunch(ctx, testEmployeeID, clock(13, 10), workday.StatusNormal)
	require.NoError(t, err)

	// Two mini-break ends both observe a total over 60; the register keeps
	// a single row.
	for _, pair := range [][2]time.Time{
		{clock(13, 30), clock(13, 35)},
		{clock(14, 30), clock(14, 35)},
	} {
		start, err := svc.StartMiniBreak(ctx, testEmployeeID, pair[0], workday.StatusNormal)
		require.NoError(t, err)
		require.True(t, start.OK)
		end, err := svc.EndMiniBreak(ctx, testEmployeeID, pair[1], workday.StatusNormal)
		require.NoError(t, err)
		require.True(t, end.OK)
	}

	count := 0
	for _, inc := range store.incidents {
		if inc.Code == incident.CodeTotalBreakExceed60 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAutoRulesFillLunchAndCheckout(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testEmployeeID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	require.NoError(t, svc.ApplyAutoRulesForDay(ctx, testEmployeeID, clock(23, 0)))

	wd := store.workdayOf(t, testEmployeeID)
	require.NotNil(t, wd.LunchStart)
	assert.True(t, wd.LunchStart.Equal(clock(12, 0)))
	require.NotNil(t, wd.LunchEnd)
	assert.True(t, wd.LunchEnd.Equal(clock(13, 0)))
	require.NotNil(t, wd.LunchStatus)
	assert.Equal(t, workday.StatusAuto, *wd.LunchStatus)
	require.NotNil(t, wd.CheckoutAt)
	assert.True(t, wd.CheckoutAt.Equal(clock(17, 0)))

	assert.Equal(t, 60, wd.BreakTotalMinutes)
	assert.Equal(t, 0, wd.CompensationMinutes)

	_, ok := store.incidentByCode(incident.CodeAutoLunch)
	assert.True(t, ok)
	_, ok = store.incidentByCode(incident.CodeAutoCheckout)
	assert.True(t, ok)

	// A second sweep is a no-op.
	before := len(store.events)
	require.NoError(t, svc.ApplyAutoRulesForDay(ctx, testEmployeeID, clock(23, 30)))
	assert.Equal(t, before, len(store.events))
}

func TestAutoRulesSkipFlexAndEmptyDays(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	// Flex employees are never auto-closed.
	_, err := svc.CheckIn(ctx, testFlexID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)
	require.NoError(t, svc.ApplyAutoRulesForDay(ctx, testFlexID, clock(23, 0)))
	wd := store.workdayOf(t, testFlexID)
	assert.Nil(t, wd.CheckoutAt)
	assert.Nil(t, wd.LunchStart)

	// No workday at all: nothing to do.
	require.NoError(t, svc.ApplyAutoRulesForDay(ctx, testEmployeeID, clock(23, 0)))
	assert.Empty(t, store.incidents)
}

func TestAutoRulesForceCheckoutWithoutCheckin(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	// A day row with no recorded check-in still gets the forced closure.
	repo := &fakeWorkdayRepo{store}
	_, err := repo.Create(ctx, workday.Workday{EmployeeID: testEmployeeID, Day: clock(0, 0)})
	require.NoError(t, err)

	require.NoError(t, svc.ApplyAutoRulesForDay(ctx, testEmployeeID, clock(23, 0)))

	wd := store.workdayOf(t, testEmployeeID)
	assert.Nil(t, wd.CheckinAt)
	require.NotNil(t, wd.CheckoutAt)
	assert.True(t, wd.CheckoutAt.Equal(clock(17, 0)))
	require.NotNil(t, wd.CheckoutStatus)
	assert.Equal(t, workday.StatusAuto, *wd.CheckoutStatus)

	_, ok := store.incidentByCode(incident.CodeAutoCheckout)
	assert.True(t, ok)
}

func TestFlexMiniBreakNeverExceeds(t *testing.T) {
	svc, store := newTestEngine(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testFlexID, clock(9, 0), workday.StatusNormal)
	require.NoError(t, err)

	start, err := svc.StartMiniBreak(ctx, testFlexID, clock(9, 30), workday.StatusNormal)
	require.NoError(t, err)
	require.True(t, start.OK)

	end, err := svc.EndMiniBreak(ctx, testFlexID, clock(10, 0), workday.StatusNormal)
	require.NoError(t, err)
	assert.True(t, end.OK)
	assert.Equal(t, 30, end.DurationMinutes)
	assert.Equal(t, 0, end.ExceededMinutes)
	assert.Equal(t, 0, end.Totals.CompensationMinutes)
	assert.Empty(t, store.incidents)
}

func TestRejectionMessagesAreStable(t *testing.T) {
	// Clients key off these strings; keep them fixed.
	for _, msg := range []string{
		msgAlreadyCheckedIn, msgAlreadyCheckedOut, msgMissingCheckin,
		msgMustCheckInFirst, msgLunchAlreadyStarted, msgLunchNotStarted,
		msgLunchAlreadyEnded, msgLunchTooEarly, msgLunchTooLate,
		msgMiniLimitBefore, msgMiniLimitAfter, msgMiniAlreadyRunning,
		msgMiniNotRunning, msgNoWorkday,
	} {
		assert.False(t, strings.Contains(msg, "\n"))
		assert.NotEmpty(t, msg)
	}
}
