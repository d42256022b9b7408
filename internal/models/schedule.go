package models

// ScheduleEntry is one scheduled lesson occurrence of a solved timetable.
type ScheduleEntry struct {
	ID        string        `json:"id" validate:"required"`
	DayOfWeek DayOfWeek     `json:"dayOfWeek" validate:"required"`
	Period    int           `json:"period" validate:"min=1"`
	Homeroom  EntryHomeroom `json:"homeroom"`
	Course    EntryCourse   `json:"course"`
}

// EntryHomeroom is the homeroom a lesson is held for.
type EntryHomeroom struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name"`
	GradeName string `json:"gradeName,omitempty"`
}

// EntryCourse is the course taught in a lesson, possibly co-taught.
type EntryCourse struct {
	ID          string     `json:"id" validate:"required"`
	Name        string     `json:"name"`
	SubjectName string     `json:"subjectName,omitempty"`
	Credits     *float64   `json:"credits,omitempty"`
	Teachings   []Teaching `json:"teachings" validate:"dive"`
}

// DisplayName prefers the course name and falls back to the subject name.
func (c EntryCourse) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.SubjectName
}

// Teaching pairs an instructor with the room they teach a course in.
type Teaching struct {
	InstructorID   string  `json:"instructorId" validate:"required"`
	InstructorName string  `json:"instructorName"`
	RoomID         *string `json:"roomId,omitempty"`
	RoomName       *string `json:"roomName,omitempty"`
}
