package timeutil

import (
	"fmt"
	"time"
)

// notifyCutoffHour is the earliest hour of day incidents may be delivered.
const notifyCutoffHour = 20

// TimeOfDay is a wall-clock time without a date, e.g. "09:05:00".
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses a "HH:MM:SS" (or "HH:MM") string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	n, err := fmt.Sscanf(s, "%d:%d:%d", &tod.Hour, &tod.Minute, &tod.Second)
	if err != nil && n < 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 || tod.Second < 0 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	return tod, nil
}

// MustTimeOfDay is ParseTimeOfDay for compile-time constants.
func MustTimeOfDay(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return tod
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On projects the wall-clock time onto the calendar day of ref,
// in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, t.Second, 0, ref.Location())
}

// DayOf truncates an instant to midnight of its calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDay renders the calendar day as "YYYY-MM-DD".
func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDay parses a "YYYY-MM-DD" string into midnight local time.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// MinutesBetween returns the whole minutes from a to b, floored.
// Negative when b precedes a.
func MinutesBetween(a, b time.Time) int {
	d := b.Sub(a)
	m := int(d / time.Minute)
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}

// ClampMin clamps negative minute counts to zero.
func ClampMin(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// NotifyAfter returns the earliest permitted notification time for an
// incident: 20:00 on the occurrence day, or 20:00 the next day when the
// occurrence is already at or past 20:00.
func NotifyAfter(occurred time.Time) time.Time {
	cutoff := time.Date(occurred.Year(), occurred.Month(), occurred.Day(), notifyCutoffHour, 0, 0, 0, occurred.Location())
	if !occurred.Before(cutoff) {
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return cutoff
}
