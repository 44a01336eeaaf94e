package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("worker@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@sub.example.co"))

	assert.False(t, IsValidEmail("worker"))
	assert.False(t, IsValidEmail("worker@"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("worker@example"))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2026-03-02")
	assert.True(t, ok)
	assert.Equal(t, 2026, date.Year())

	_, ok = IsValidDate("2026-13-02")
	assert.False(t, ok)

	_, ok = IsValidDate("02-03-2026")
	assert.False(t, ok)
}

func TestIsValidTimeOfDay(t *testing.T) {
	assert.True(t, IsValidTimeOfDay("09:05"))
	assert.True(t, IsValidTimeOfDay("09:05:30"))
	assert.True(t, IsValidTimeOfDay("23:59:59"))
	assert.True(t, IsValidTimeOfDay("00:00"))

	assert.False(t, IsValidTimeOfDay("24:00"))
	assert.False(t, IsValidTimeOfDay("9:05"))
	assert.False(t, IsValidTimeOfDay("09:60"))
	assert.False(t, IsValidTimeOfDay("09:05:60"))
	assert.False(t, IsValidTimeOfDay(""))
}

func TestIsValidPIN(t *testing.T) {
	assert.True(t, IsValidPIN("4321"))
	assert.True(t, IsValidPIN("12345678"))

	assert.False(t, IsValidPIN("123"))
	assert.False(t, IsValidPIN("123456789"))
	assert.False(t, IsValidPIN("12ab"))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "Email is required"},
		{Field: "pin", Message: "PIN must be 4-8 digits"},
	}

	assert.Equal(t, "email: Email is required; pin: PIN must be 4-8 digits", errs.Error())
	assert.Equal(t, map[string]string{
		"email": "Email is required",
		"pin":   "PIN must be 4-8 digits",
	}, errs.ToMap())
}

func TestIsInSlice(t *testing.T) {
	roles := []string{"ADMIN", "EMPLOYEE"}

	assert.True(t, IsInSlice("ADMIN", roles))
	assert.False(t, IsInSlice("MANAGER", roles))
	assert.False(t, IsInSlice("ADMIN", nil))
}
