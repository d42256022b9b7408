package models

// Subject is the top of the curriculum graph sent to the solver.
type Subject struct {
	ID      string   `db:"id" json:"id" validate:"required"`
	Name    string   `db:"name" json:"name"`
	Credits *float64 `db:"credits" json:"credits,omitempty" validate:"omitempty,min=0"`
	Courses []Course `db:"-" json:"courses" validate:"dive"`
}

// Course is one offering of a subject.
type Course struct {
	ID            string         `db:"id" json:"id" validate:"required"`
	Name          string         `db:"name" json:"name"`
	CourseDetails []CourseDetail `db:"-" json:"courseDetails" validate:"dive"`
}

// CourseDetail assigns one instructor, and optionally a room, to a course.
type CourseDetail struct {
	InstructorID   string  `db:"instructor_id" json:"instructorId" validate:"required"`
	InstructorName string  `db:"instructor_name" json:"instructorName,omitempty"`
	RoomID         *string `db:"room_id" json:"roomId,omitempty"`
	RoomName       *string `db:"room_name" json:"roomName,omitempty"`
}
