package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimetableRepository reads the tenant's timetable graph from Postgres. Rows are fetched flat
// and assembled into nested models in the order fixed by each query.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListDayConfigs returns the school calendar.
func (r *TimetableRepository) ListDayConfigs(ctx context.Context, tenant models.TenantContext) ([]models.DayConfig, error) {
	const query = `SELECT day_of_week, is_available, am_periods, pm_periods
FROM day_configs WHERE tenant_id = $1 ORDER BY day_index ASC`
	var days []models.DayConfig
	if err := r.db.SelectContext(ctx, &days, query, tenant.TenantID); err != nil {
		return nil, fmt.Errorf("list day configs: %w", err)
	}
	return days, nil
}

// ResultExists reports whether a solved result set exists for the tenant.
func (r *TimetableRepository) ResultExists(ctx context.Context, tenant models.TenantContext, resultID string) (bool, error) {
	const query = `SELECT id FROM timetable_results WHERE tenant_id = $1 AND id = $2`
	var id string
	if err := r.db.GetContext(ctx, &id, query, tenant.TenantID, resultID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("find timetable result: %w", err)
	}
	return true, nil
}

type scheduleEntryRow struct {
	ID             string           `db:"id"`
	DayOfWeek      models.DayOfWeek `db:"day_of_week"`
	Period         int              `db:"period"`
	HomeroomID     string           `db:"homeroom_id"`
	HomeroomName   string           `db:"homeroom_name"`
	GradeName      *string          `db:"grade_name"`
	CourseID       string           `db:"course_id"`
	CourseName     string           `db:"course_name"`
	SubjectName    *string          `db:"subject_name"`
	Credits        *float64         `db:"credits"`
	InstructorID   *string          `db:"instructor_id"`
	InstructorName *string          `db:"instructor_name"`
	RoomID         *string          `db:"room_id"`
	RoomName       *string          `db:"room_name"`
}

// ListScheduleEntries returns the entries of a result set, one teaching per joined row.
func (r *TimetableRepository) ListScheduleEntries(ctx context.Context, tenant models.TenantContext, resultID string) ([]models.ScheduleEntry, error) {
	const query = `SELECT e.id, e.day_of_week, e.period,
       h.id AS homeroom_id, h.name AS homeroom_name, g.name AS grade_name,
       c.id AS course_id, c.name AS course_name, s.name AS subject_name, s.credits,
       cd.instructor_id, i.name AS instructor_name, cd.room_id, rm.name AS room_name
FROM schedule_entries e
JOIN homerooms h ON h.id = e.homeroom_id
LEFT JOIN grades g ON g.id = h.grade_id
JOIN courses c ON c.id = e.course_id
LEFT JOIN subjects s ON s.id = c.subject_id
LEFT JOIN course_details cd ON cd.course_id = c.id
LEFT JOIN instructors i ON i.id = cd.instructor_id
LEFT JOIN rooms rm ON rm.id = cd.room_id
WHERE e.tenant_id = $1 AND e.result_id = $2
ORDER BY e.position ASC, e.id ASC, cd.position ASC`

	var rows []scheduleEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, tenant.TenantID, resultID); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}

	entries := make([]models.ScheduleEntry, 0)
	position := make(map[string]int)
	for _, row := range rows {
		at, ok := position[row.ID]
		if !ok {
			at = len(entries)
			position[row.ID] = at
			entries = append(entries, models.ScheduleEntry{
				ID:        row.ID,
				DayOfWeek: row.DayOfWeek,
				Period:    row.Period,
				Homeroom: models.EntryHomeroom{
					ID:        row.HomeroomID,
					Name:      row.HomeroomName,
					GradeName: deref(row.GradeName),
				},
				Course: models.EntryCourse{
					ID:          row.CourseID,
					Name:        row.CourseName,
					SubjectName: deref(row.SubjectName),
					Credits:     row.Credits,
					Teachings:   []models.Teaching{},
				},
			})
		}
		if row.InstructorID == nil {
			continue
		}
		entries[at].Course.Teachings = append(entries[at].Course.Teachings, models.Teaching{
			InstructorID:   *row.InstructorID,
			InstructorName: deref(row.InstructorName),
			RoomID:         row.RoomID,
			RoomName:       row.RoomName,
		})
	}
	return entries, nil
}

type curriculumRow struct {
	HomeroomID   string   `db:"homeroom_id"`
	HomeroomName string   `db:"homeroom_name"`
	GradeName    *string  `db:"grade_name"`
	BlockID      *string  `db:"block_id"`
	LaneID       *string  `db:"lane_id"`
	CourseID     *string  `db:"course_id"`
	SubjectID    *string  `db:"subject_id"`
	SubjectName  *string  `db:"subject_name"`
	Credits      *float64 `db:"credits"`
}

// ListCurriculum returns the block/lane/course curriculum of every homeroom. The scheduled
// period total is left at zero for the caller to derive from the calendars.
func (r *TimetableRepository) ListCurriculum(ctx context.Context, tenant models.TenantContext) ([]models.CurriculumHomeroom, error) {
	const query = `SELECT h.id AS homeroom_id, h.name AS homeroom_name, g.name AS grade_name,
       b.id AS block_id, l.id AS lane_id, lc.course_id, s.id AS subject_id, s.name AS subject_name, s.credits
FROM homerooms h
LEFT JOIN grades g ON g.id = h.grade_id
LEFT JOIN curriculum_blocks b ON b.homeroom_id = h.id
LEFT JOIN curriculum_lanes l ON l.block_id = b.id
LEFT JOIN lane_courses lc ON lc.lane_id = l.id
LEFT JOIN courses c ON c.id = lc.course_id
LEFT JOIN subjects s ON s.id = c.subject_id
WHERE h.tenant_id = $1
ORDER BY h.position ASC, h.id ASC, b.position ASC, b.id ASC, l.position ASC, l.id ASC, lc.position ASC`

	var rows []curriculumRow
	if err := r.db.SelectContext(ctx, &rows, query, tenant.TenantID); err != nil {
		return nil, fmt.Errorf("list curriculum: %w", err)
	}

	homerooms := make([]models.CurriculumHomeroom, 0)
	position := make(map[string]int)
	for _, row := range rows {
		at, ok := position[row.HomeroomID]
		if !ok {
			at = len(homerooms)
			position[row.HomeroomID] = at
			homerooms = append(homerooms, models.CurriculumHomeroom{
				Homeroom: models.EntryHomeroom{ID: row.HomeroomID, Name: row.HomeroomName, GradeName: deref(row.GradeName)},
				Blocks:   []models.CurriculumBlock{},
			})
		}
		if row.BlockID == nil {
			continue
		}

		homeroom := &homerooms[at]
		block := lastOrAppendBlock(homeroom, *row.BlockID)
		if row.LaneID == nil {
			continue
		}
		lane := lastOrAppendLane(block, *row.LaneID)
		if row.CourseID == nil {
			continue
		}
		lane.Courses = append(lane.Courses, models.LaneCourse{
			ID: *row.CourseID,
			Subject: models.CreditsSubject{
				ID:      deref(row.SubjectID),
				Name:    deref(row.SubjectName),
				Credits: row.Credits,
			},
		})
	}
	return homerooms, nil
}

// Rows arrive ordered, so a block or lane continues the previous one when the id repeats.
func lastOrAppendBlock(homeroom *models.CurriculumHomeroom, id string) *models.CurriculumBlock {
	if n := len(homeroom.Blocks); n > 0 && homeroom.Blocks[n-1].ID == id {
		return &homeroom.Blocks[n-1]
	}
	homeroom.Blocks = append(homeroom.Blocks, models.CurriculumBlock{ID: id, Lanes: []models.CurriculumLane{}})
	return &homeroom.Blocks[len(homeroom.Blocks)-1]
}

func lastOrAppendLane(block *models.CurriculumBlock, id string) *models.CurriculumLane {
	if n := len(block.Lanes); n > 0 && block.Lanes[n-1].ID == id {
		return &block.Lanes[n-1]
	}
	block.Lanes = append(block.Lanes, models.CurriculumLane{ID: id, Courses: []models.LaneCourse{}})
	return &block.Lanes[len(block.Lanes)-1]
}

type subjectRow struct {
	SubjectID      string   `db:"subject_id"`
	SubjectName    string   `db:"subject_name"`
	Credits        *float64 `db:"credits"`
	CourseID       *string  `db:"course_id"`
	CourseName     *string  `db:"course_name"`
	InstructorID   *string  `db:"instructor_id"`
	InstructorName *string  `db:"instructor_name"`
	RoomID         *string  `db:"room_id"`
	RoomName       *string  `db:"room_name"`
}

// ListSubjects returns subjects with their courses and course details.
func (r *TimetableRepository) ListSubjects(ctx context.Context, tenant models.TenantContext) ([]models.Subject, error) {
	const query = `SELECT s.id AS subject_id, s.name AS subject_name, s.credits,
       c.id AS course_id, c.name AS course_name,
       cd.instructor_id, i.name AS instructor_name, cd.room_id, rm.name AS room_name
FROM subjects s
LEFT JOIN courses c ON c.subject_id = s.id
LEFT JOIN course_details cd ON cd.course_id = c.id
LEFT JOIN instructors i ON i.id = cd.instructor_id
LEFT JOIN rooms rm ON rm.id = cd.room_id
WHERE s.tenant_id = $1
ORDER BY s.position ASC, s.id ASC, c.id ASC, cd.position ASC`

	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, tenant.TenantID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	subjects := make([]models.Subject, 0)
	for _, row := range rows {
		if n := len(subjects); n == 0 || subjects[n-1].ID != row.SubjectID {
			subjects = append(subjects, models.Subject{
				ID:      row.SubjectID,
				Name:    row.SubjectName,
				Credits: row.Credits,
				Courses: []models.Course{},
			})
		}
		subject := &subjects[len(subjects)-1]
		if row.CourseID == nil {
			continue
		}

		if n := len(subject.Courses); n == 0 || subject.Courses[n-1].ID != *row.CourseID {
			subject.Courses = append(subject.Courses, models.Course{
				ID:            *row.CourseID,
				Name:          deref(row.CourseName),
				CourseDetails: []models.CourseDetail{},
			})
		}
		course := &subject.Courses[len(subject.Courses)-1]
		if row.InstructorID == nil {
			continue
		}
		course.CourseDetails = append(course.CourseDetails, models.CourseDetail{
			InstructorID:   *row.InstructorID,
			InstructorName: deref(row.InstructorName),
			RoomID:         row.RoomID,
			RoomName:       row.RoomName,
		})
	}
	return subjects, nil
}

type constraintRow struct {
	Code          string   `db:"code"`
	IsSoft        bool     `db:"is_soft"`
	PenaltyWeight *float64 `db:"penalty_weight"`
	Parameters    []byte   `db:"parameters"`
}

// ListConstraints returns the constraint definitions with parsed parameters.
func (r *TimetableRepository) ListConstraints(ctx context.Context, tenant models.TenantContext) ([]models.ConstraintDefinition, error) {
	const query = `SELECT code, is_soft, penalty_weight, parameters
FROM constraint_definitions WHERE tenant_id = $1 ORDER BY position ASC, code ASC`

	var rows []constraintRow
	if err := r.db.SelectContext(ctx, &rows, query, tenant.TenantID); err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}

	defs := make([]models.ConstraintDefinition, 0, len(rows))
	for _, row := range rows {
		params, err := models.ParseConstraintParameters(row.Parameters)
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", row.Code, err)
		}
		defs = append(defs, models.ConstraintDefinition{
			Code:          row.Code,
			IsSoft:        row.IsSoft,
			PenaltyWeight: row.PenaltyWeight,
			Parameters:    params,
		})
	}
	return defs, nil
}

type attendanceRow struct {
	OwnerID string `db:"owner_id"`
	models.AttendanceDay
}

// ListHomeroomCalendars returns per-homeroom attendance days.
func (r *TimetableRepository) ListHomeroomCalendars(ctx context.Context, tenant models.TenantContext) ([]models.HomeroomCalendar, error) {
	const query = `SELECT homeroom_id AS owner_id, day_of_week, is_available, am_periods, pm_periods
FROM homeroom_attendance_days WHERE tenant_id = $1 ORDER BY homeroom_id ASC, day_index ASC`

	rows, err := r.attendance(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("list homeroom calendars: %w", err)
	}
	calendars := make([]models.HomeroomCalendar, 0)
	for _, row := range rows {
		if n := len(calendars); n == 0 || calendars[n-1].HomeroomID != row.OwnerID {
			calendars = append(calendars, models.HomeroomCalendar{HomeroomID: row.OwnerID})
		}
		last := &calendars[len(calendars)-1]
		last.Days = append(last.Days, row.AttendanceDay)
	}
	return calendars, nil
}

// ListInstructorCalendars returns per-instructor attendance days.
func (r *TimetableRepository) ListInstructorCalendars(ctx context.Context, tenant models.TenantContext) ([]models.InstructorCalendar, error) {
	const query = `SELECT instructor_id AS owner_id, day_of_week, is_available, am_periods, pm_periods
FROM instructor_attendance_days WHERE tenant_id = $1 ORDER BY instructor_id ASC, day_index ASC`

	rows, err := r.attendance(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("list instructor calendars: %w", err)
	}
	calendars := make([]models.InstructorCalendar, 0)
	for _, row := range rows {
		if n := len(calendars); n == 0 || calendars[n-1].InstructorID != row.OwnerID {
			calendars = append(calendars, models.InstructorCalendar{InstructorID: row.OwnerID})
		}
		last := &calendars[len(calendars)-1]
		last.Days = append(last.Days, row.AttendanceDay)
	}
	return calendars, nil
}

func (r *TimetableRepository) attendance(ctx context.Context, query string, tenant models.TenantContext) ([]attendanceRow, error) {
	var rows []attendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, tenant.TenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
