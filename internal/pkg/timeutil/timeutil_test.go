package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)

	tod, err = ParseTimeOfDay("17:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 17}, tod)

	_, err = ParseTimeOfDay("25:00:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("12:61:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("noon")
	assert.Error(t, err)
}

func TestTimeOfDayOn(t *testing.T) {
	ref := time.Date(2026, 3, 2, 14, 45, 12, 999, time.Local)
	at := MustTimeOfDay("09:05:00").On(ref)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 5, 0, 0, time.Local), at)
}

func TestDayOf(t *testing.T) {
	at := time.Date(2026, 3, 2, 23, 59, 59, 1, time.Local)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), DayOf(at))
}

func TestMinutesBetween(t *testing.T) {
	a := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	assert.Equal(t, 5, MinutesBetween(a, a.Add(5*time.Minute)))
	// Partial minutes floor toward zero going forward.
	assert.Equal(t, 5, MinutesBetween(a, a.Add(5*time.Minute+59*time.Second)))
	assert.Equal(t, 0, MinutesBetween(a, a))
	// And away from zero going backward.
	assert.Equal(t, -6, MinutesBetween(a, a.Add(-5*time.Minute-30*time.Second)))
	assert.Equal(t, -5, MinutesBetween(a, a.Add(-5*time.Minute)))
}

func TestClampMin(t *testing.T) {
	assert.Equal(t, 0, ClampMin(-10))
	assert.Equal(t, 0, ClampMin(0))
	assert.Equal(t, 7, ClampMin(7))
}

func TestNotifyAfterSameDay(t *testing.T) {
	occurred := time.Date(2026, 3, 2, 9, 10, 0, 0, time.Local)

	assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local), NotifyAfter(occurred))
}

func TestNotifyAfterEveningRollsToNextDay(t *testing.T) {
	atCutoff := time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2026, 3, 3, 20, 0, 0, 0, time.Local), NotifyAfter(atCutoff))

	late := time.Date(2026, 3, 2, 22, 30, 0, 0, time.Local)
	assert.Equal(t, time.Date(2026, 3, 3, 20, 0, 0, 0, time.Local), NotifyAfter(late))

	justBefore := time.Date(2026, 3, 2, 19, 59, 59, 0, time.Local)
	assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local), NotifyAfter(justBefore))
}

func TestFormatAndParseDay(t *testing.T) {
	day, err := ParseDay("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), day)
	assert.Equal(t, "2026-03-02", FormatDay(day))

	_, err = ParseDay("03/02/2026")
	assert.Error(t, err)
}
