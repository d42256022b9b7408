package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Shape selects how a projection lays out its pivots.
type Shape string

const (
	// ShapeGrid yields one day x period pivot per homeroom or instructor.
	ShapeGrid Shape = "grid"
	// ShapeList yields a single pivot with one row per homeroom or instructor.
	ShapeList Shape = "list"
)

// ParseShape accepts "grid" or "list" case-insensitively. Empty input means grid.
func ParseShape(raw string) (Shape, bool) {
	switch Shape(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ShapeGrid:
		return ShapeGrid, true
	case ShapeList:
		return ShapeList, true
	default:
		return "", false
	}
}

// View selects what a projection groups entries by.
type View string

const (
	ViewHomerooms   View = "homerooms"
	ViewInstructors View = "instructors"
)

// ParseView accepts "homerooms" or "instructors". Empty input means homerooms.
func ParseView(raw string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ViewHomerooms:
		return ViewHomerooms, true
	case ViewInstructors:
		return ViewInstructors, true
	default:
		return "", false
	}
}

// Project renders entries for the given view and shape.
func Project(view View, entries []models.ScheduleEntry, axis dto.CalendarAxis, shape Shape, opts ProjectionOptions) dto.ProjectionResponse {
	if view == ViewInstructors {
		return ProjectInstructors(entries, axis, shape, opts)
	}
	return ProjectHomerooms(entries, axis, shape, opts)
}

const (
	DefaultNameBudget     = 6
	DefaultTitleBudget    = 8
	DefaultHomeroomBudget = 8
)

// ProjectionOptions holds the text budgets used when building cells.
type ProjectionOptions struct {
	// NameBudget caps joined instructor and room names.
	NameBudget int
	// TitleBudget caps course names.
	TitleBudget int
	// HomeroomBudget caps the joined homeroom names of an instructor cell.
	HomeroomBudget int
}

// DefaultProjectionOptions returns the standard budgets.
func DefaultProjectionOptions() ProjectionOptions {
	return ProjectionOptions{
		NameBudget:     DefaultNameBudget,
		TitleBudget:    DefaultTitleBudget,
		HomeroomBudget: DefaultHomeroomBudget,
	}
}

func (o ProjectionOptions) normalized() ProjectionOptions {
	if o.NameBudget <= 0 {
		o.NameBudget = DefaultNameBudget
	}
	if o.TitleBudget <= 0 {
		o.TitleBudget = DefaultTitleBudget
	}
	if o.HomeroomBudget <= 0 {
		o.HomeroomBudget = DefaultHomeroomBudget
	}
	return o
}

// ColumnKey is the list-shape column key of a slot.
func ColumnKey(day models.DayOfWeek, period int) string {
	return fmt.Sprintf("%s-%d", day, period)
}

func periodLabel(period int) string {
	return strconv.Itoa(period) + "限"
}

type cellBuilder func(bucket []models.ScheduleEntry) dto.CellView

// slotGrid lays out one group as periods x days.
func slotGrid(group Group, axis dto.CalendarAxis, build cellBuilder) dto.PivotGrid {
	grid := dto.PivotGrid{
		Key:           group.ID,
		Title:         group.Name,
		Group:         group.GradeName,
		RowHeaders:    make([]string, 0, axis.MaxPeriodsPerDay),
		ColumnHeaders: make([]dto.ColumnHeader, 0, len(axis.AvailableDays)),
		Rows:          make([]dto.PivotRow, 0, axis.MaxPeriodsPerDay),
	}
	for _, day := range axis.AvailableDays {
		grid.ColumnHeaders = append(grid.ColumnHeaders, dto.ColumnHeader{Key: string(day), Label: day.Label(), Day: day})
	}

	for period := 1; period <= axis.MaxPeriodsPerDay; period++ {
		row := dto.PivotRow{
			RowKey: strconv.Itoa(period),
			Label:  periodLabel(period),
			Cells:  make(map[string]dto.CellView),
		}
		for _, day := range axis.AvailableDays {
			if bucket := group.Slots[SlotKey{Day: day, Period: period}]; len(bucket) > 0 {
				row.Cells[string(day)] = build(bucket)
			}
		}
		grid.RowHeaders = append(grid.RowHeaders, row.Label)
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// listGrid lays out sorted groups as rows against every (day, period) column.
func listGrid(title string, groups []Group, axis dto.CalendarAxis, build cellBuilder) dto.PivotGrid {
	columns := slotColumns(axis)
	grid := dto.PivotGrid{
		Title:         title,
		RowHeaders:    make([]string, 0, len(groups)),
		ColumnHeaders: columns,
		Rows:          make([]dto.PivotRow, 0, len(groups)),
	}

	for _, group := range groups {
		row := dto.PivotRow{
			RowKey: group.ID,
			Label:  group.Name,
			Group:  group.GradeName,
			Cells:  make(map[string]dto.CellView),
		}
		for _, column := range columns {
			if bucket := group.Slots[SlotKey{Day: column.Day, Period: column.Period}]; len(bucket) > 0 {
				row.Cells[column.Key] = build(bucket)
			}
		}
		grid.RowHeaders = append(grid.RowHeaders, group.Name)
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

func slotColumns(axis dto.CalendarAxis) []dto.ColumnHeader {
	columns := make([]dto.ColumnHeader, 0, len(axis.AvailableDays)*axis.MaxPeriodsPerDay)
	for _, day := range axis.AvailableDays {
		for period := 1; period <= axis.MaxPeriodsPerDay; period++ {
			columns = append(columns, dto.ColumnHeader{
				Key:    ColumnKey(day, period),
				Label:  day.Label() + strconv.Itoa(period),
				Day:    day,
				Period: period,
			})
		}
	}
	return columns
}
