package models

// HomeroomCalendar is the attendance calendar of one homeroom.
type HomeroomCalendar struct {
	HomeroomID string          `json:"homeroomId" validate:"required"`
	Days       []AttendanceDay `json:"days" validate:"dive"`
}

// InstructorCalendar is the attendance calendar of one instructor.
type InstructorCalendar struct {
	InstructorID string          `json:"instructorId" validate:"required"`
	Days         []AttendanceDay `json:"days" validate:"dive"`
}

// SolverInput is the nested domain graph a solve request is built from.
type SolverInput struct {
	Calendar    []DayConfig            `json:"calendar" validate:"dive"`
	Homerooms   []HomeroomCalendar     `json:"homerooms" validate:"dive"`
	Instructors []InstructorCalendar   `json:"instructors" validate:"dive"`
	Subjects    []Subject              `json:"subjects" validate:"dive"`
	Constraints []ConstraintDefinition `json:"constraints" validate:"dive"`
}
