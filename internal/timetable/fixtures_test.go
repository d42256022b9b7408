package timetable

import "github.com/noah-isme/sma-timetable-api/internal/models"

func ptr[T any](v T) *T { return &v }

func teach(instructorID, instructorName string, room *string) models.Teaching {
	return models.Teaching{InstructorID: instructorID, InstructorName: instructorName, RoomName: room}
}

type entryOpt func(*models.ScheduleEntry)

func withGrade(grade string) entryOpt {
	return func(e *models.ScheduleEntry) { e.Homeroom.GradeName = grade }
}

func entry(id string, day models.DayOfWeek, period int, homeroomID, homeroomName, course string, teachings []models.Teaching, opts ...entryOpt) models.ScheduleEntry {
	e := models.ScheduleEntry{
		ID:        id,
		DayOfWeek: day,
		Period:    period,
		Homeroom:  models.EntryHomeroom{ID: homeroomID, Name: homeroomName},
		Course:    models.EntryCourse{ID: "c-" + id, Name: course, Teachings: teachings},
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
