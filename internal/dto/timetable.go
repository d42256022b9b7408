package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// CalendarRequest carries inline day configurations.
type CalendarRequest struct {
	Days []models.DayConfig `json:"days" validate:"dive"`
}

// ProjectionRequest carries an inline result set to project.
type ProjectionRequest struct {
	Days    []models.DayConfig     `json:"days" validate:"dive"`
	Entries []models.ScheduleEntry `json:"entries" validate:"dive"`
}

// ExportQuery selects the view and file format of a timetable export.
type ExportQuery struct {
	View   string `form:"view" validate:"omitempty,oneof=homerooms instructors"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
