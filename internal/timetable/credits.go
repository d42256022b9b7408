package timetable

import (
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ValidateCredits compares each homeroom's credit load with its scheduled periods. Lanes of
// a block run in parallel, so only the first lane of each block counts. Missing credits
// count as zero.
func ValidateCredits(homerooms []models.CurriculumHomeroom) []dto.CreditsValidation {
	records := make([]dto.CreditsValidation, 0, len(homerooms))
	for _, homeroom := range homerooms {
		total := 0.0
		for _, block := range homeroom.Blocks {
			if len(block.Lanes) == 0 {
				continue
			}
			for _, course := range block.Lanes[0].Courses {
				if course.Subject.Credits != nil {
					total += *course.Subject.Credits
				}
			}
		}

		records = append(records, dto.CreditsValidation{
			HomeroomID:   homeroom.Homeroom.ID,
			HomeroomName: homeroom.Homeroom.Name,
			GradeName:    homeroom.Homeroom.GradeName,
			TotalPeriods: homeroom.ScheduledPeriodsTotal,
			TotalCredits: total,
			IsValid:      total >= float64(homeroom.ScheduledPeriodsTotal),
		})
	}
	return records
}

// InvalidCredits keeps the records that failed validation.
func InvalidCredits(records []dto.CreditsValidation) []dto.CreditsValidation {
	invalid := make([]dto.CreditsValidation, 0)
	for _, record := range records {
		if !record.IsValid {
			invalid = append(invalid, record)
		}
	}
	return invalid
}

// SummarizeCredits wraps validation records into a report.
func SummarizeCredits(records []dto.CreditsValidation) dto.CreditsReport {
	invalid := InvalidCredits(records)
	return dto.CreditsReport{
		Records:      records,
		InvalidCount: len(invalid),
		AllValid:     len(invalid) == 0,
	}
}
