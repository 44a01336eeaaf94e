package report

import (
	"testing"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func stamp(d time.Time, hour, minute int) *time.Time {
	t := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
	return &t
}

func TestRangeBoundsWeekStartsMonday(t *testing.T) {
	// 2026-03-04 is a Wednesday.
	from, to, err := rangeBounds("week", day(2026, time.March, 4))
	require.NoError(t, err)
	assert.True(t, from.Equal(day(2026, time.March, 2)))
	assert.True(t, to.Equal(day(2026, time.March, 8)))

	// Anchoring on a Monday keeps the same week.
	from, to, err = rangeBounds("week", day(2026, time.March, 2))
	require.NoError(t, err)
	assert.True(t, from.Equal(day(2026, time.March, 2)))
	assert.True(t, to.Equal(day(2026, time.March, 8)))

	// Sunday belongs to the week that started six days earlier.
	from, _, err = rangeBounds("week", day(2026, time.March, 8))
	require.NoError(t, err)
	assert.True(t, from.Equal(day(2026, time.March, 2)))
}

func TestRangeBoundsMonth(t *testing.T) {
	from, to, err := rangeBounds("month", day(2026, time.February, 15))
	require.NoError(t, err)
	assert.True(t, from.Equal(day(2026, time.February, 1)))
	assert.True(t, to.Equal(day(2026, time.February, 28)))

	from, to, err = rangeBounds("month", day(2026, time.December, 31))
	require.NoError(t, err)
	assert.True(t, from.Equal(day(2026, time.December, 1)))
	assert.True(t, to.Equal(day(2026, time.December, 31)))
}

func TestRangeBoundsRejectsUnknownKind(t *testing.T) {
	_, _, err := rangeBounds("quarter", day(2026, time.March, 4))
	assert.Error(t, err)
}

func TestSummarizeFullDay(t *testing.T) {
	d := day(2026, time.March, 2)
	wd := &workday.Workday{
		Day:               d,
		CheckinAt:         stamp(d, 9, 0),
		CheckoutAt:        stamp(d, 18, 0),
		BreakTotalMinutes: 60,
		ScheduledStart:    workday.DefaultScheduledStart,
		ScheduledEnd:      workday.DefaultScheduledEnd,
	}

	sum := summarize(wd, 2)
	assert.Equal(t, 480, sum.WorkedMinutes) // 9h present minus 60 break
	assert.Equal(t, 60, sum.BreakMinutes)
	assert.Equal(t, 60, sum.OvertimeMinutes) // 480 worked vs 420 required
	assert.Equal(t, 2, sum.MiniBreakCount)
}

func TestSummarizeOpenDayHasNoWorkedTime(t *testing.T) {
	d := day(2026, time.March, 2)
	wd := &workday.Workday{
		Day:            d,
		CheckinAt:      stamp(d, 9, 0),
		ScheduledStart: workday.DefaultScheduledStart,
		ScheduledEnd:   workday.DefaultScheduledEnd,
	}

	sum := summarize(wd, 0)
	assert.Equal(t, 0, sum.WorkedMinutes)
	assert.Equal(t, 0, sum.OvertimeMinutes)
}

func TestSummarizeNilWorkday(t *testing.T) {
	sum := summarize(nil, 0)
	assert.Equal(t, 0, sum.WorkedMinutes)
	assert.Equal(t, 0, sum.BreakMinutes)
}
