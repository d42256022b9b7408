package timetable

import (
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// HomeroomListTitle is the title of the list-shape homeroom pivot.
const HomeroomListTitle = "Homerooms"

// HomeroomGrids renders one period x day pivot per homeroom, in index order.
func HomeroomGrids(index Index, axis dto.CalendarAxis, opts ProjectionOptions) []dto.PivotGrid {
	build := homeroomCell(opts.normalized())
	grids := make([]dto.PivotGrid, 0, len(index))
	for _, group := range index {
		grids = append(grids, slotGrid(group, axis, build))
	}
	return grids
}

// HomeroomList renders a single pivot with one row per homeroom, ordered by grade and then
// name under Japanese collation. A homeroom without a grade compares as the empty string.
func HomeroomList(index Index, axis dto.CalendarAxis, opts ProjectionOptions) dto.PivotGrid {
	groups := append([]Group(nil), index...)
	sortGroups(groups, func(a, b Group) int {
		if c := CompareJapaneseCollated(a.GradeName, b.GradeName); c != 0 {
			return c
		}
		return CompareJapaneseCollated(a.Name, b.Name)
	})
	return listGrid(HomeroomListTitle, groups, axis, homeroomCell(opts.normalized()))
}

// ProjectHomerooms indexes entries and renders them in the requested shape.
func ProjectHomerooms(entries []models.ScheduleEntry, axis dto.CalendarAxis, shape Shape, opts ProjectionOptions) dto.ProjectionResponse {
	index := IndexByHomeroom(entries)
	resp := dto.ProjectionResponse{View: string(ViewHomerooms), Shape: string(shape), Axis: axis}
	if shape == ShapeList {
		list := HomeroomList(index, axis, opts)
		resp.List = &list
		return resp
	}
	resp.Shape = string(ShapeGrid)
	resp.Grids = HomeroomGrids(index, axis, opts)
	return resp
}

// homeroomCell combines every entry of a slot, so parallel lanes share one cell.
func homeroomCell(opts ProjectionOptions) cellBuilder {
	return func(bucket []models.ScheduleEntry) dto.CellView {
		var (
			titles      []string
			seenTitles  = make(map[string]struct{}, len(bucket))
			instructors []string
			rooms       []string
		)
		for _, entry := range bucket {
			title := entry.Course.DisplayName()
			if _, dup := seenTitles[title]; !dup {
				seenTitles[title] = struct{}{}
				titles = append(titles, title)
			}
			instructors = append(instructors, InstructorNames(entry.Course.Teachings)...)
			rooms = append(rooms, RoomTokens(entry.Course.Teachings)...)
		}

		return dto.CellView{
			PrimaryText: TruncateJoined(titles, nameSeparator, opts.TitleBudget),
			SecondaryTexts: []string{
				TruncateJoined(instructors, nameSeparator, opts.NameBudget),
				TruncateJoined(rooms, nameSeparator, opts.NameBudget),
			},
		}
	}
}
