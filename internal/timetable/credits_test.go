package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func lane(credits ...*float64) models.CurriculumLane {
	l := models.CurriculumLane{}
	for _, c := range credits {
		l.Courses = append(l.Courses, models.LaneCourse{Subject: models.CreditsSubject{Credits: c}})
	}
	return l
}

func curriculum(id string, periods int, blocks ...models.CurriculumBlock) models.CurriculumHomeroom {
	return models.CurriculumHomeroom{
		Homeroom:              models.EntryHomeroom{ID: id, Name: id},
		ScheduledPeriodsTotal: periods,
		Blocks:                blocks,
	}
}

func TestValidateCreditsCountsFirstLaneOnly(t *testing.T) {
	block := models.CurriculumBlock{Lanes: []models.CurriculumLane{lane(ptr(10.0)), lane(ptr(12.0))}}

	records := ValidateCredits([]models.CurriculumHomeroom{curriculum("h1", 30, block)})
	require.Len(t, records, 1)
	assert.Equal(t, 10.0, records[0].TotalCredits)
	assert.Equal(t, 30, records[0].TotalPeriods)
	assert.False(t, records[0].IsValid)

	swapped := models.CurriculumBlock{Lanes: []models.CurriculumLane{block.Lanes[1], block.Lanes[0]}}
	records = ValidateCredits([]models.CurriculumHomeroom{curriculum("h1", 30, swapped)})
	assert.Equal(t, 12.0, records[0].TotalCredits)
}

func TestValidateCreditsSumsBlocks(t *testing.T) {
	records := ValidateCredits([]models.CurriculumHomeroom{
		curriculum("h1", 6,
			models.CurriculumBlock{Lanes: []models.CurriculumLane{lane(ptr(2.0), nil, ptr(1.5))}},
			models.CurriculumBlock{},
			models.CurriculumBlock{Lanes: []models.CurriculumLane{lane(ptr(3.0)), lane(ptr(8.0))}},
		),
	})

	assert.Equal(t, 6.5, records[0].TotalCredits)
	assert.True(t, records[0].IsValid)
}

func TestValidateCreditsWithoutBlocks(t *testing.T) {
	records := ValidateCredits([]models.CurriculumHomeroom{
		curriculum("empty", 0),
		curriculum("short", 1),
	})

	assert.True(t, records[0].IsValid)
	assert.Zero(t, records[0].TotalCredits)
	assert.False(t, records[1].IsValid)
}

func TestInvalidCreditsAndSummary(t *testing.T) {
	records := ValidateCredits([]models.CurriculumHomeroom{
		curriculum("ok", 2, models.CurriculumBlock{Lanes: []models.CurriculumLane{lane(ptr(2.0))}}),
		curriculum("bad", 30, models.CurriculumBlock{Lanes: []models.CurriculumLane{lane(ptr(10.0)), lane(ptr(12.0))}}),
	})

	invalid := InvalidCredits(records)
	require.Len(t, invalid, 1)
	assert.Equal(t, "bad", invalid[0].HomeroomID)

	report := SummarizeCredits(records)
	assert.False(t, report.AllValid)
	assert.Equal(t, 1, report.InvalidCount)
	assert.Len(t, report.Records, 2)

	assert.Empty(t, InvalidCredits(nil))
	assert.NotNil(t, InvalidCredits(nil))
}
