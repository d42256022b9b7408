package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// CalendarAxis is the day and period axis shared by every timetable view.
type CalendarAxis struct {
	AvailableDays    []models.DayOfWeek `json:"availableDays"`
	MaxPeriodsPerDay int                `json:"maxPeriodsPerDay"`
}

// CellView is the display-ready content of one occupied slot.
type CellView struct {
	PrimaryText    string   `json:"primaryText"`
	SecondaryTexts []string `json:"secondaryTexts"`
}

// ColumnHeader describes one column of a pivot. Period is zero for day-only columns.
type ColumnHeader struct {
	Key    string           `json:"key"`
	Label  string           `json:"label"`
	Day    models.DayOfWeek `json:"day"`
	Period int              `json:"period,omitempty"`
}

// PivotRow holds the occupied cells of one row keyed by column key. A missing key is an empty slot.
type PivotRow struct {
	RowKey string              `json:"rowKey"`
	Label  string              `json:"label"`
	Group  string              `json:"group,omitempty"`
	Cells  map[string]CellView `json:"cells"`
}

// PivotGrid is a two dimensional projection of schedule entries.
type PivotGrid struct {
	Key           string         `json:"key,omitempty"`
	Title         string         `json:"title"`
	Group         string         `json:"group,omitempty"`
	RowHeaders    []string       `json:"rowHeaders"`
	ColumnHeaders []ColumnHeader `json:"columnHeaders"`
	Rows          []PivotRow     `json:"rows"`
}

// ProjectionResponse wraps the output of a homeroom or instructor projection.
type ProjectionResponse struct {
	View  string       `json:"view"`
	Shape string       `json:"shape"`
	Axis  CalendarAxis `json:"axis"`
	Grids []PivotGrid  `json:"grids,omitempty"`
	List  *PivotGrid   `json:"list,omitempty"`
}
