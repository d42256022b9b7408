package solverbridge

import (
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ReshapeCalendar renames the school calendar into solver days. Day codes pass through verbatim.
func ReshapeCalendar(days []models.DayConfig) []dto.SolverDayDTO {
	out := make([]dto.SolverDayDTO, 0, len(days))
	for _, day := range days {
		out = append(out, solverDay(day))
	}
	return out
}

// ReshapeHomerooms converts homeroom attendance calendars.
func ReshapeHomerooms(calendars []models.HomeroomCalendar) []dto.SolverHomeroomDTO {
	out := make([]dto.SolverHomeroomDTO, 0, len(calendars))
	for _, calendar := range calendars {
		out = append(out, dto.SolverHomeroomDTO{
			HomeroomID: calendar.HomeroomID,
			Days:       attendanceDays(calendar.Days),
		})
	}
	return out
}

// ReshapeInstructors converts instructor attendance calendars.
func ReshapeInstructors(calendars []models.InstructorCalendar) []dto.SolverInstructorDTO {
	out := make([]dto.SolverInstructorDTO, 0, len(calendars))
	for _, calendar := range calendars {
		out = append(out, dto.SolverInstructorDTO{
			InstructorID: calendar.InstructorID,
			Days:         attendanceDays(calendar.Days),
		})
	}
	return out
}

// attendanceDays defaults unset fields to unavailable with no periods.
func attendanceDays(days []models.AttendanceDay) []dto.SolverDayDTO {
	out := make([]dto.SolverDayDTO, 0, len(days))
	for _, day := range days {
		out = append(out, solverDay(day.DayConfig()))
	}
	return out
}

func solverDay(day models.DayConfig) dto.SolverDayDTO {
	return dto.SolverDayDTO{
		DayOfWeek:   string(day.DayOfWeek),
		IsAvailable: day.IsAvailable,
		AmPeriods:   day.AmPeriods,
		PmPeriods:   day.PmPeriods,
	}
}
