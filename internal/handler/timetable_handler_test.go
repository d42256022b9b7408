package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

var handlerTenant = models.TenantContext{TenantID: "school-1"}

type timetableServiceMock struct {
	axis       dto.CalendarAxis
	projection *dto.ProjectionResponse
	err        error

	calendarReq dto.CalendarRequest
	lastTenant  models.TenantContext
	lastResult  string
	lastView    timetable.View
	lastShape   timetable.Shape
	lastEntries int
}

func (m *timetableServiceMock) ResolveCalendar(_ context.Context, req dto.CalendarRequest) (dto.CalendarAxis, error) {
	m.calendarReq = req
	return m.axis, m.err
}

func (m *timetableServiceMock) StoredCalendar(_ context.Context, tenant models.TenantContext) (dto.CalendarAxis, error) {
	m.lastTenant = tenant
	return m.axis, m.err
}

func (m *timetableServiceMock) ProjectInline(_ context.Context, view timetable.View, shape timetable.Shape, req dto.ProjectionRequest) (*dto.ProjectionResponse, error) {
	m.lastView, m.lastShape, m.lastEntries = view, shape, len(req.Entries)
	return m.projection, m.err
}

func (m *timetableServiceMock) ProjectResult(_ context.Context, tenant models.TenantContext, resultID string, view timetable.View, shape timetable.Shape) (*dto.ProjectionResponse, error) {
	m.lastTenant, m.lastResult, m.lastView, m.lastShape = tenant, resultID, view, shape
	return m.projection, m.err
}

type exportServiceMock struct {
	file       *service.ExportFile
	err        error
	lastView   timetable.View
	lastFormat string
}

func (m *exportServiceMock) Export(_ context.Context, _ models.TenantContext, _ string, view timetable.View, format string) (*service.ExportFile, error) {
	m.lastView, m.lastFormat = view, format
	return m.file, m.err
}

func newTestContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withTenant(c *gin.Context) {
	c.Set(middleware.ContextTenantKey, handlerTenant)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestTimetableHandlerResolveCalendar(t *testing.T) {
	svc := &timetableServiceMock{axis: dto.CalendarAxis{AvailableDays: []models.DayOfWeek{models.Monday}, MaxPeriodsPerDay: 6}}
	handler := NewTimetableHandler(svc, &exportServiceMock{})

	c, w := newTestContext(http.MethodPost, "/timetables/calendar", `{"days":[{"dayOfWeek":"mon","isAvailable":true,"amPeriods":4,"pmPeriods":2}]}`)
	handler.ResolveCalendar(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.calendarReq.Days, 1)
	assert.Equal(t, 2, svc.calendarReq.Days[0].PmPeriods)
	assert.JSONEq(t, `{"availableDays":["mon"],"maxPeriodsPerDay":6}`, string(decodeEnvelope(t, w)["data"]))
}

func TestTimetableHandlerResolveCalendarInvalidBody(t *testing.T) {
	handler := NewTimetableHandler(&timetableServiceMock{}, &exportServiceMock{})

	c, w := newTestContext(http.MethodPost, "/timetables/calendar", `{"days":`)
	handler.ResolveCalendar(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerStoredCalendarRequiresTenant(t *testing.T) {
	handler := NewTimetableHandler(&timetableServiceMock{}, &exportServiceMock{})

	c, w := newTestContext(http.MethodGet, "/timetables/calendar", "")
	handler.StoredCalendar(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc := &timetableServiceMock{}
	handler = NewTimetableHandler(svc, &exportServiceMock{})
	c, w = newTestContext(http.MethodGet, "/timetables/calendar", "")
	withTenant(c)
	handler.StoredCalendar(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handlerTenant, svc.lastTenant)
}

func TestTimetableHandlerProjectInline(t *testing.T) {
	svc := &timetableServiceMock{projection: &dto.ProjectionResponse{View: "instructors", Shape: "list"}}
	handler := NewTimetableHandler(svc, &exportServiceMock{})

	body := `{"days":[],"entries":[{"id":"e1","dayOfWeek":"mon","period":1,"homeroom":{"id":"hr-1","name":"1-A"},"course":{"id":"c-1","name":"数学","teachings":[]}}]}`
	c, w := newTestContext(http.MethodPost, "/timetables/projections/instructors?shape=LIST", body)
	handler.ProjectInstructorsInline(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, timetable.ViewInstructors, svc.lastView)
	assert.Equal(t, timetable.ShapeList, svc.lastShape)
	assert.Equal(t, 1, svc.lastEntries)
}

func TestTimetableHandlerProjectInlineUnknownShape(t *testing.T) {
	svc := &timetableServiceMock{}
	handler := NewTimetableHandler(svc, &exportServiceMock{})

	c, w := newTestContext(http.MethodPost, "/timetables/projections/homerooms?shape=pie", `{}`)
	handler.ProjectHomeroomsInline(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastView)
}

func TestTimetableHandlerProjectResult(t *testing.T) {
	svc := &timetableServiceMock{projection: &dto.ProjectionResponse{View: "homerooms", Shape: "grid"}}
	handler := NewTimetableHandler(svc, &exportServiceMock{})

	c, w := newTestContext(http.MethodGet, "/timetables/results/r-1/homerooms", "")
	c.Params = gin.Params{{Key: "resultId", Value: "r-1"}}
	withTenant(c)
	handler.ProjectHomeroomsResult(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r-1", svc.lastResult)
	assert.Equal(t, timetable.ViewHomerooms, svc.lastView)
	assert.Equal(t, timetable.ShapeGrid, svc.lastShape)
	assert.Equal(t, handlerTenant, svc.lastTenant)
}

func TestTimetableHandlerProjectResultNotFound(t *testing.T) {
	svc := &timetableServiceMock{err: appErrors.ErrResultNotFound}
	handler := NewTimetableHandler(svc, &exportServiceMock{})

	c, w := newTestContext(http.MethodGet, "/timetables/results/nope/instructors", "")
	c.Params = gin.Params{{Key: "resultId", Value: "nope"}}
	withTenant(c)
	handler.ProjectInstructorsResult(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESULT_NOT_FOUND")
}

func TestTimetableHandlerExport(t *testing.T) {
	exports := &exportServiceMock{file: &service.ExportFile{Filename: "timetable.csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("Name\n")}}
	handler := NewTimetableHandler(&timetableServiceMock{}, exports)

	c, w := newTestContext(http.MethodGet, "/timetables/results/r-1/export?view=instructors&format=csv", "")
	c.Params = gin.Params{{Key: "resultId", Value: "r-1"}}
	withTenant(c)
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, timetable.ViewInstructors, exports.lastView)
	assert.Equal(t, "csv", exports.lastFormat)
	assert.Equal(t, `attachment; filename="timetable.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Name\n", w.Body.String())
}

func TestTimetableHandlerExportInvalidQuery(t *testing.T) {
	exports := &exportServiceMock{}
	handler := NewTimetableHandler(&timetableServiceMock{}, exports)

	c, w := newTestContext(http.MethodGet, "/timetables/results/r-1/export?view=rooms", "")
	withTenant(c)
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exports.lastView)
}
