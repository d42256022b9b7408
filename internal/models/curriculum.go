package models

// CurriculumHomeroom is the curriculum authored for one homeroom together with the
// number of periods its calendar provides.
type CurriculumHomeroom struct {
	Homeroom              EntryHomeroom     `json:"homeroom"`
	ScheduledPeriodsTotal int               `json:"scheduledPeriodsTotal" validate:"min=0"`
	Blocks                []CurriculumBlock `json:"blocks" validate:"dive"`
}

// CurriculumBlock groups lanes that run in parallel.
type CurriculumBlock struct {
	ID    string           `json:"id,omitempty"`
	Lanes []CurriculumLane `json:"lanes" validate:"dive"`
}

// CurriculumLane is one alternative sequence of courses inside a block.
type CurriculumLane struct {
	ID      string       `json:"id,omitempty"`
	Courses []LaneCourse `json:"courses" validate:"dive"`
}

// LaneCourse is a course placed in a lane; only its subject credits matter here.
type LaneCourse struct {
	ID      string         `json:"id,omitempty"`
	Subject CreditsSubject `json:"subject"`
}

// CreditsSubject carries the weekly credit load of a subject.
type CreditsSubject struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Credits *float64 `json:"credits,omitempty" validate:"omitempty,min=0"`
}
