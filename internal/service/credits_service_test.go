package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestCreditsServiceValidateInline(t *testing.T) {
	svc := NewCreditsService(&storeStub{}, nil, nil, nil)

	short := curriculumFor("hr-1", "1-A", 4, 6)
	short.ScheduledPeriodsTotal = 12
	enough := curriculumFor("hr-2", "1-B", 6, 6.5)
	enough.ScheduledPeriodsTotal = 12

	report, err := svc.ValidateInline(context.Background(), dto.CreditsRequest{Homerooms: []models.CurriculumHomeroom{short, enough}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.InvalidCount)
	assert.False(t, report.AllValid)
	require.Len(t, report.Records, 2)
	assert.Equal(t, dto.CreditsValidation{HomeroomID: "hr-1", HomeroomName: "1-A", TotalPeriods: 12, TotalCredits: 10, IsValid: false}, report.Records[0])
	assert.True(t, report.Records[1].IsValid)
}

func TestCreditsServiceValidateInlineRejectsNegativeCredits(t *testing.T) {
	svc := NewCreditsService(&storeStub{}, nil, nil, nil)

	_, err := svc.ValidateInline(context.Background(), dto.CreditsRequest{Homerooms: []models.CurriculumHomeroom{curriculumFor("hr-1", "1-A", -1)}})
	assertAppStatus(t, err, http.StatusBadRequest)
}

func TestCreditsServiceValidateStoredUsesHomeroomCalendar(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := &storeStub{
		days: weekdays(4, 2),
		curriculum: []models.CurriculumHomeroom{
			curriculumFor("hr-1", "1-A", 5),
			curriculumFor("hr-2", "1-B", 5),
		},
		homerooms: []models.HomeroomCalendar{{
			HomeroomID: "hr-2",
			Days: []models.AttendanceDay{
				{DayOfWeek: models.Monday, IsAvailable: ref(true), AmPeriods: ref(3), PmPeriods: ref(2)},
				{DayOfWeek: models.Tuesday, AmPeriods: ref(4)},
			},
		}},
	}
	svc := NewCreditsService(store, nil, zap.New(core), nil)

	report, err := svc.ValidateStored(context.Background(), schoolTenant)
	require.NoError(t, err)
	require.Len(t, report.Records, 2)

	// school calendar: two days of six periods
	assert.Equal(t, 12, report.Records[0].TotalPeriods)
	assert.False(t, report.Records[0].IsValid)
	// own calendar: tuesday is not available
	assert.Equal(t, 5, report.Records[1].TotalPeriods)
	assert.True(t, report.Records[1].IsValid)

	assert.Equal(t, 1, report.InvalidCount)
	assert.Equal(t, 1, logs.FilterMessage("credits shortfall").Len())
}

func TestCreditsServiceValidateStoredError(t *testing.T) {
	store := &storeStub{errs: map[string]error{"curriculum": errors.New("relation does not exist")}}
	svc := NewCreditsService(store, nil, nil, nil)

	_, err := svc.ValidateStored(context.Background(), schoolTenant)
	assertAppStatus(t, err, http.StatusInternalServerError)
}
