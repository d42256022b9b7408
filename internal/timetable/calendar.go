package timetable

import (
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const (
	defaultAmPeriods = 4
	defaultPmPeriods = 3

	// DefaultPeriodsPerDay is used when no day of the calendar is available.
	DefaultPeriodsPerDay = defaultAmPeriods + defaultPmPeriods
)

// ResolveCalendar derives the in-use days, in canonical weekday order, and the largest
// number of periods held on any of them. A day listed more than once is available if any
// of its configurations is. Unknown day codes are ignored.
func ResolveCalendar(days []models.DayConfig) dto.CalendarAxis {
	periods := availablePeriods(days)

	axis := dto.CalendarAxis{AvailableDays: make([]models.DayOfWeek, 0, len(periods))}
	for _, day := range models.CanonicalDays {
		count, ok := periods[day]
		if !ok {
			continue
		}
		axis.AvailableDays = append(axis.AvailableDays, day)
		if count > axis.MaxPeriodsPerDay {
			axis.MaxPeriodsPerDay = count
		}
	}

	if len(axis.AvailableDays) == 0 {
		axis.MaxPeriodsPerDay = DefaultPeriodsPerDay
	}
	return axis
}

// PeriodsTotal sums the periods of every available day. A duplicated day counts once, with
// the largest period count among its available configurations.
func PeriodsTotal(days []models.DayConfig) int {
	total := 0
	for _, count := range availablePeriods(days) {
		total += count
	}
	return total
}

func availablePeriods(days []models.DayConfig) map[models.DayOfWeek]int {
	periods := make(map[models.DayOfWeek]int, len(days))
	for _, day := range days {
		if !day.IsAvailable || !day.DayOfWeek.Valid() {
			continue
		}
		count := day.Periods()
		if count < 0 {
			count = 0
		}
		if current, seen := periods[day.DayOfWeek]; !seen || count > current {
			periods[day.DayOfWeek] = count
		}
	}
	return periods
}
