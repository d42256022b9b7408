package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func ref[T any](v T) *T { return &v }

func assertAppStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %v", err)
	assert.Equal(t, status, appErr.Status)
}

// storeStub serves every read model from memory. A non-nil err fails the named call.
type storeStub struct {
	mu sync.Mutex

	days        []models.DayConfig
	results     map[string][]models.ScheduleEntry
	curriculum  []models.CurriculumHomeroom
	homerooms   []models.HomeroomCalendar
	instructors []models.InstructorCalendar
	subjects    []models.Subject
	constraints []models.ConstraintDefinition

	errs    map[string]error
	tenants []string
}

func (s *storeStub) record(tenant models.TenantContext, call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = append(s.tenants, tenant.TenantID)
	return s.errs[call]
}

func (s *storeStub) ListDayConfigs(_ context.Context, tenant models.TenantContext) ([]models.DayConfig, error) {
	if err := s.record(tenant, "days"); err != nil {
		return nil, err
	}
	return s.days, nil
}

func (s *storeStub) ResultExists(_ context.Context, tenant models.TenantContext, resultID string) (bool, error) {
	if err := s.record(tenant, "exists"); err != nil {
		return false, err
	}
	_, ok := s.results[resultID]
	return ok, nil
}

func (s *storeStub) ListScheduleEntries(_ context.Context, tenant models.TenantContext, resultID string) ([]models.ScheduleEntry, error) {
	if err := s.record(tenant, "entries"); err != nil {
		return nil, err
	}
	return s.results[resultID], nil
}

func (s *storeStub) ListCurriculum(_ context.Context, tenant models.TenantContext) ([]models.CurriculumHomeroom, error) {
	if err := s.record(tenant, "curriculum"); err != nil {
		return nil, err
	}
	out := make([]models.CurriculumHomeroom, len(s.curriculum))
	copy(out, s.curriculum)
	return out, nil
}

func (s *storeStub) ListHomeroomCalendars(_ context.Context, tenant models.TenantContext) ([]models.HomeroomCalendar, error) {
	if err := s.record(tenant, "homerooms"); err != nil {
		return nil, err
	}
	return s.homerooms, nil
}

func (s *storeStub) ListInstructorCalendars(_ context.Context, tenant models.TenantContext) ([]models.InstructorCalendar, error) {
	if err := s.record(tenant, "instructors"); err != nil {
		return nil, err
	}
	return s.instructors, nil
}

func (s *storeStub) ListSubjects(_ context.Context, tenant models.TenantContext) ([]models.Subject, error) {
	if err := s.record(tenant, "subjects"); err != nil {
		return nil, err
	}
	return s.subjects, nil
}

func (s *storeStub) ListConstraints(_ context.Context, tenant models.TenantContext) ([]models.ConstraintDefinition, error) {
	if err := s.record(tenant, "constraints"); err != nil {
		return nil, err
	}
	return s.constraints, nil
}

func weekdays(am, pm int) []models.DayConfig {
	return []models.DayConfig{
		{DayOfWeek: models.Monday, IsAvailable: true, AmPeriods: am, PmPeriods: pm},
		{DayOfWeek: models.Tuesday, IsAvailable: true, AmPeriods: am, PmPeriods: pm},
	}
}

func lesson(id string, day models.DayOfWeek, period int, homeroomID, homeroomName, course string, instructors ...string) models.ScheduleEntry {
	teachings := make([]models.Teaching, 0, len(instructors))
	for _, name := range instructors {
		teachings = append(teachings, models.Teaching{InstructorID: "t-" + name, InstructorName: name, RoomName: ref("101")})
	}
	return models.ScheduleEntry{
		ID:        id,
		DayOfWeek: day,
		Period:    period,
		Homeroom:  models.EntryHomeroom{ID: homeroomID, Name: homeroomName, GradeName: "1年"},
		Course:    models.EntryCourse{ID: "c-" + id, Name: course, Teachings: teachings},
	}
}

func curriculumFor(homeroomID, name string, credits ...float64) models.CurriculumHomeroom {
	courses := make([]models.LaneCourse, 0, len(credits))
	for _, c := range credits {
		courses = append(courses, models.LaneCourse{Subject: models.CreditsSubject{Credits: ref(c)}})
	}
	return models.CurriculumHomeroom{
		Homeroom: models.EntryHomeroom{ID: homeroomID, Name: name},
		Blocks:   []models.CurriculumBlock{{Lanes: []models.CurriculumLane{{Courses: courses}}}},
	}
}
