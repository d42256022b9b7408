// Package solverbridge reshapes the nested curriculum and constraint graph into the flat
// request accepted by the external timetable solver.
package solverbridge

import (
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Bridge builds solver requests. It holds no state besides its logger.
type Bridge struct {
	logger *zap.Logger
}

// New constructs a Bridge.
func New(logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{logger: logger}
}

// Build assembles the solver request for a tenant. RequestID is left for the caller.
func (b *Bridge) Build(tenant models.TenantContext, input models.SolverInput) dto.SolverRequest {
	return dto.SolverRequest{
		TenantID:    tenant.TenantID,
		Calendar:    ReshapeCalendar(input.Calendar),
		Homerooms:   ReshapeHomerooms(input.Homerooms),
		Instructors: ReshapeInstructors(input.Instructors),
		Courses:     FlattenCourses(input.Subjects),
		Constraints: b.Constraints(input.Constraints),
	}
}

// Constraints normalizes every definition. Parameters that arrived in an unsupported shape
// are dropped from the request and logged.
func (b *Bridge) Constraints(defs []models.ConstraintDefinition) []dto.SolverConstraintDTO {
	out := make([]dto.SolverConstraintDTO, 0, len(defs))
	for _, def := range defs {
		params := def.Parameters
		if len(params.Unrecognized) > 0 {
			b.logger.Warn("constraint parameters dropped",
				zap.String("code", def.Code),
				zap.ByteString("parameters", params.Unrecognized),
			)
		}
		if params.SkippedItems > 0 {
			b.logger.Warn("constraint parameter items skipped",
				zap.String("code", def.Code),
				zap.Int("skipped", params.SkippedItems),
			)
		}

		out = append(out, dto.SolverConstraintDTO{
			Code:          def.Code,
			IsSoft:        def.IsSoft,
			PenaltyWeight: def.PenaltyWeight,
			Parameters:    NormalizeParameters(params),
		})
	}
	return out
}

// FlattenCourses emits one DTO per course. Credits come from the subject because courses
// carry none of their own; a subject without credits yields 0.
func FlattenCourses(subjects []models.Subject) []dto.SolverCourseDTO {
	courses := make([]dto.SolverCourseDTO, 0)
	for _, subject := range subjects {
		credits := 0.0
		if subject.Credits != nil {
			credits = *subject.Credits
		}
		for _, course := range subject.Courses {
			teachings := make([]dto.SolverTeachingDTO, 0, len(course.CourseDetails))
			for _, detail := range course.CourseDetails {
				teachings = append(teachings, dto.SolverTeachingDTO{
					InstructorID: detail.InstructorID,
					RoomID:       detail.RoomID,
				})
			}
			courses = append(courses, dto.SolverCourseDTO{
				ID:        course.ID,
				Credits:   credits,
				Teachings: teachings,
			})
		}
	}
	return courses
}
