package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

type rendererStub struct {
	payload []byte
	err     error
	got     export.Dataset
}

func (r *rendererStub) Render(data export.Dataset) ([]byte, error) {
	r.got = data
	return r.payload, r.err
}

func exportFixture() *TimetableService {
	store := &storeStub{
		days: []models.DayConfig{{DayOfWeek: models.Monday, IsAvailable: true, AmPeriods: 2}},
		results: map[string][]models.ScheduleEntry{
			"r-1": {
				lesson("e1", models.Monday, 1, "hr-1", "1-A", "数学", "佐藤"),
				lesson("e2", models.Monday, 2, "hr-1", "1-A", "国語"),
			},
		},
	}
	return newTimetableServiceForTest(store, nil)
}

func TestPivotDataset(t *testing.T) {
	grid := dto.PivotGrid{
		Title: "Homerooms",
		ColumnHeaders: []dto.ColumnHeader{
			{Key: "mon-1", Label: "月1"},
			{Key: "mon-2", Label: "月2"},
		},
		Rows: []dto.PivotRow{{
			RowKey: "hr-1",
			Label:  "1-A",
			Group:  "1年",
			Cells: map[string]dto.CellView{
				"mon-1": {PrimaryText: "数学", SecondaryTexts: []string{"佐藤", "101"}},
				"mon-2": {PrimaryText: "国語", SecondaryTexts: []string{"", ""}},
			},
		}},
	}

	data := PivotDataset(grid)
	assert.Equal(t, "Homerooms", data.Title)
	assert.Equal(t, []string{"Name", "Grade", "月1", "月2"}, data.Headers)
	assert.Equal(t, []map[string]string{{
		"Name":  "1-A",
		"Grade": "1年",
		"月1":    "数学 / 佐藤 / 101",
		"月2":    "国語",
	}}, data.Rows)
}

func TestPivotDatasetOmitsEmptyGrade(t *testing.T) {
	grid := dto.PivotGrid{
		ColumnHeaders: []dto.ColumnHeader{{Key: "mon-1", Label: "月1"}},
		Rows: []dto.PivotRow{
			{RowKey: "t-1", Label: "佐藤", Cells: map[string]dto.CellView{"mon-1": {PrimaryText: "数学"}}},
			{RowKey: "t-2", Label: "鈴木"},
		},
	}

	data := PivotDataset(grid)
	assert.Equal(t, []string{"Name", "月1"}, data.Headers)

	csv, err := export.NewCSVExporter(false).Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Name,月1\n佐藤,数学\n鈴木,\n", string(csv))
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), schoolTenant, "r-1", timetable.ViewHomerooms, "")
	require.NoError(t, err)
	assert.Equal(t, "timetable_r-1_homerooms_20260401_093000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("\xEF\xBB\xBF")))
	assert.Contains(t, string(file.Payload), "Name,Grade,月1,月2\n")
	assert.Contains(t, string(file.Payload), "1-A,1年,数学 / 佐藤 / 101,国語\n")
}

func TestExportServicePDFUsesRenderer(t *testing.T) {
	pdf := &rendererStub{payload: []byte("%PDF-1.3")}
	svc := NewExportService(exportFixture(), nil, &rendererStub{}, pdf)

	file, err := svc.Export(context.Background(), schoolTenant, "r-1", timetable.ViewInstructors, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, []byte("%PDF-1.3"), file.Payload)
	assert.Equal(t, timetable.InstructorListTitle, pdf.got.Title)
	require.Len(t, pdf.got.Rows, 1)
	assert.Equal(t, "佐藤", pdf.got.Rows[0]["Name"])
	assert.NotContains(t, pdf.got.Headers, "Grade")
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(exportFixture(), nil, &rendererStub{err: errors.New("disk full")}, nil)

	_, err := svc.Export(context.Background(), schoolTenant, "r-1", timetable.ViewHomerooms, "xlsx")
	assertAppStatus(t, err, http.StatusBadRequest)

	_, err = svc.Export(context.Background(), schoolTenant, "missing", timetable.ViewHomerooms, "csv")
	assertAppStatus(t, err, http.StatusNotFound)

	_, err = svc.Export(context.Background(), schoolTenant, "r-1", timetable.ViewHomerooms, "csv")
	assertAppStatus(t, err, http.StatusInternalServerError)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "term_1-2026", sanitizeFilename("term 1/2026"))
	assert.Len(t, sanitizeFilename(string(bytes.Repeat([]byte("a"), 150))), 100)

	long := sanitizeFilename(strings.Repeat("時間割", 40))
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, 100, utf8.RuneCountInString(long))
	assert.Equal(t, "時間割", long[:len("時間割")])
}
