package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// CreditsRequest carries an inline curriculum graph.
type CreditsRequest struct {
	Homerooms []models.CurriculumHomeroom `json:"homerooms" validate:"dive"`
}

// CreditsValidation compares the credit load of a homeroom against its scheduled periods.
type CreditsValidation struct {
	HomeroomID   string  `json:"homeroomId"`
	HomeroomName string  `json:"homeroomName"`
	GradeName    string  `json:"gradeName,omitempty"`
	TotalPeriods int     `json:"totalPeriods"`
	TotalCredits float64 `json:"totalCredits"`
	IsValid      bool    `json:"isValid"`
}

// CreditsReport lists every validation record and whether all of them passed.
type CreditsReport struct {
	Records      []CreditsValidation `json:"records"`
	InvalidCount int                 `json:"invalidCount"`
	AllValid     bool                `json:"allValid"`
}
