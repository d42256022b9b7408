package dto

import "encoding/json"

// SolverTeachingDTO is one instructor/room assignment without display names.
type SolverTeachingDTO struct {
	InstructorID string  `json:"instructorId"`
	RoomID       *string `json:"roomId,omitempty"`
}

// SolverCourseDTO is a course as the solver sees it.
type SolverCourseDTO struct {
	ID        string              `json:"id"`
	Credits   float64             `json:"credits"`
	Teachings []SolverTeachingDTO `json:"teachings"`
}

// ConstraintParameterDTO is a normalized constraint parameter.
type ConstraintParameterDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SolverConstraintDTO is a constraint definition with normalized parameters.
type SolverConstraintDTO struct {
	Code          string                   `json:"code"`
	IsSoft        bool                     `json:"isSoft"`
	PenaltyWeight *float64                 `json:"penaltyWeight,omitempty"`
	Parameters    []ConstraintParameterDTO `json:"parameters,omitempty"`
}

// SolverDayDTO is one day of a calendar in the solver vocabulary.
type SolverDayDTO struct {
	DayOfWeek   string `json:"dayOfWeek"`
	IsAvailable bool   `json:"isAvailable"`
	AmPeriods   int    `json:"amPeriods"`
	PmPeriods   int    `json:"pmPeriods"`
}

// SolverHomeroomDTO is the attendance calendar of a homeroom.
type SolverHomeroomDTO struct {
	HomeroomID string         `json:"homeroomId"`
	Days       []SolverDayDTO `json:"days"`
}

// SolverInstructorDTO is the attendance calendar of an instructor.
type SolverInstructorDTO struct {
	InstructorID string         `json:"instructorId"`
	Days         []SolverDayDTO `json:"days"`
}

// SolverRequest is the payload posted to the solver service.
type SolverRequest struct {
	TenantID    string                `json:"tenantId"`
	RequestID   string                `json:"requestId,omitempty"`
	Calendar    []SolverDayDTO        `json:"calendar"`
	Homerooms   []SolverHomeroomDTO   `json:"homerooms"`
	Instructors []SolverInstructorDTO `json:"instructors"`
	Courses     []SolverCourseDTO     `json:"courses"`
	Constraints []SolverConstraintDTO `json:"constraints"`
}

// SolverResponse is passed through from the solver without interpretation.
type SolverResponse struct {
	Schedule   json.RawMessage `json:"schedule"`
	Violations json.RawMessage `json:"violations"`
}

// SolveResult is returned by the solve endpoint.
type SolveResult struct {
	RequestID  string          `json:"requestId"`
	Schedule   json.RawMessage `json:"schedule"`
	Violations json.RawMessage `json:"violations"`
}
