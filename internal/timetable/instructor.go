package timetable

import (
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// InstructorListTitle is the title of the list-shape instructor pivot.
const InstructorListTitle = "Instructors"

// InstructorGrids renders one period x day pivot per instructor, in index order.
func InstructorGrids(index Index, axis dto.CalendarAxis, opts ProjectionOptions) []dto.PivotGrid {
	build := instructorCell(opts.normalized())
	grids := make([]dto.PivotGrid, 0, len(index))
	for _, group := range index {
		grids = append(grids, slotGrid(group, axis, build))
	}
	return grids
}

// InstructorList renders a single pivot with one row per instructor ordered by name under
// Japanese collation. Instructors with equal names keep their index order.
func InstructorList(index Index, axis dto.CalendarAxis, opts ProjectionOptions) dto.PivotGrid {
	groups := append([]Group(nil), index...)
	sortGroups(groups, func(a, b Group) int {
		return CompareJapaneseCollated(a.Name, b.Name)
	})
	return listGrid(InstructorListTitle, groups, axis, instructorCell(opts.normalized()))
}

// ProjectInstructors indexes entries and renders them in the requested shape.
func ProjectInstructors(entries []models.ScheduleEntry, axis dto.CalendarAxis, shape Shape, opts ProjectionOptions) dto.ProjectionResponse {
	index := IndexByInstructor(entries)
	resp := dto.ProjectionResponse{View: string(ViewInstructors), Shape: string(shape), Axis: axis}
	if shape == ShapeList {
		list := InstructorList(index, axis, opts)
		resp.List = &list
		return resp
	}
	resp.Shape = string(ShapeGrid)
	resp.Grids = InstructorGrids(index, axis, opts)
	return resp
}

// instructorCell treats every entry of a bucket as the same lesson taught to several
// homerooms: the title and rooms come from the first entry, homerooms from all of them.
func instructorCell(opts ProjectionOptions) cellBuilder {
	return func(bucket []models.ScheduleEntry) dto.CellView {
		first := bucket[0]
		homerooms := make([]string, 0, len(bucket))
		for _, entry := range bucket {
			homerooms = append(homerooms, entry.Homeroom.Name)
		}

		return dto.CellView{
			PrimaryText: TruncateJoined([]string{first.Course.DisplayName()}, nameSeparator, opts.TitleBudget),
			SecondaryTexts: []string{
				TruncateJoined(homerooms, nameSeparator, opts.HomeroomBudget),
				TruncateJoined(RoomTokens(first.Course.Teachings), nameSeparator, opts.NameBudget),
			},
		}
	}
}
