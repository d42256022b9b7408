package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayOfWeekLabel(t *testing.T) {
	assert.Equal(t, "月", Monday.Label())
	assert.Equal(t, "日", Sunday.Label())
	assert.Equal(t, "holiday", DayOfWeek("holiday").Label())
	assert.False(t, DayOfWeek("MON").Valid())
	assert.Len(t, CanonicalDays, 7)
}

func TestDayConfigPeriods(t *testing.T) {
	assert.Equal(t, 7, DayConfig{DayOfWeek: Monday, AmPeriods: 4, PmPeriods: 3}.Periods())
}

func TestAttendanceDayDefaults(t *testing.T) {
	available := true
	four := 4
	assert.Equal(t, DayConfig{DayOfWeek: Tuesday}, AttendanceDay{DayOfWeek: Tuesday}.DayConfig())
	assert.Equal(t,
		DayConfig{DayOfWeek: Monday, IsAvailable: true, AmPeriods: 4},
		AttendanceDay{DayOfWeek: Monday, IsAvailable: &available, AmPeriods: &four}.DayConfig(),
	)
}
