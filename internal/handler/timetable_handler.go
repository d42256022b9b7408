package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableService interface {
	ResolveCalendar(ctx context.Context, req dto.CalendarRequest) (dto.CalendarAxis, error)
	StoredCalendar(ctx context.Context, tenant models.TenantContext) (dto.CalendarAxis, error)
	ProjectInline(ctx context.Context, view timetable.View, shape timetable.Shape, req dto.ProjectionRequest) (*dto.ProjectionResponse, error)
	ProjectResult(ctx context.Context, tenant models.TenantContext, resultID string, view timetable.View, shape timetable.Shape) (*dto.ProjectionResponse, error)
}

type exportService interface {
	Export(ctx context.Context, tenant models.TenantContext, resultID string, view timetable.View, format string) (*service.ExportFile, error)
}

// TimetableHandler serves calendar axes, projections and exports.
type TimetableHandler struct {
	service   timetableService
	exports   exportService
	validator *validator.Validate
}

// NewTimetableHandler constructs a TimetableHandler.
func NewTimetableHandler(svc timetableService, exports exportService) *TimetableHandler {
	return &TimetableHandler{service: svc, exports: exports, validator: validator.New()}
}

// ResolveCalendar godoc
// @Summary Resolve a calendar axis from inline day configurations
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CalendarRequest true "Day configurations"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetables/calendar [post]
func (h *TimetableHandler) ResolveCalendar(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	axis, err := h.service.ResolveCalendar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, axis)
}

// StoredCalendar godoc
// @Summary Resolve the calendar axis of the current tenant
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /timetables/calendar [get]
func (h *TimetableHandler) StoredCalendar(c *gin.Context) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	axis, err := h.service.StoredCalendar(c.Request.Context(), tenant)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, axis)
}

// ProjectHomeroomsInline godoc
// @Summary Project inline schedule entries per homeroom
// @Tags Timetables
// @Accept json
// @Produce json
// @Param shape query string false "grid or list"
// @Param payload body dto.ProjectionRequest true "Days and entries"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetables/projections/homerooms [post]
func (h *TimetableHandler) ProjectHomeroomsInline(c *gin.Context) {
	h.projectInline(c, timetable.ViewHomerooms)
}

// ProjectInstructorsInline godoc
// @Summary Project inline schedule entries per instructor
// @Tags Timetables
// @Accept json
// @Produce json
// @Param shape query string false "grid or list"
// @Param payload body dto.ProjectionRequest true "Days and entries"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetables/projections/instructors [post]
func (h *TimetableHandler) ProjectInstructorsInline(c *gin.Context) {
	h.projectInline(c, timetable.ViewInstructors)
}

// ProjectHomeroomsResult godoc
// @Summary Project a stored timetable result per homeroom
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param resultId path string true "Timetable result ID"
// @Param shape query string false "grid or list"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/results/{resultId}/homerooms [get]
func (h *TimetableHandler) ProjectHomeroomsResult(c *gin.Context) {
	h.projectResult(c, timetable.ViewHomerooms)
}

// ProjectInstructorsResult godoc
// @Summary Project a stored timetable result per instructor
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param resultId path string true "Timetable result ID"
// @Param shape query string false "grid or list"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/results/{resultId}/instructors [get]
func (h *TimetableHandler) ProjectInstructorsResult(c *gin.Context) {
	h.projectResult(c, timetable.ViewInstructors)
}

// Export godoc
// @Summary Export a stored timetable result as CSV or PDF
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param resultId path string true "Timetable result ID"
// @Param view query string false "homerooms or instructors"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /timetables/results/{resultId}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	view, _ := timetable.ParseView(query.View)

	file, err := h.exports.Export(c.Request.Context(), tenant, c.Param("resultId"), view, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func (h *TimetableHandler) projectInline(c *gin.Context, view timetable.View) {
	shape, err := shapeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	projection, err := h.service.ProjectInline(c.Request.Context(), view, shape, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection)
}

func (h *TimetableHandler) projectResult(c *gin.Context, view timetable.View) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	shape, err := shapeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	projection, err := h.service.ProjectResult(c.Request.Context(), tenant, c.Param("resultId"), view, shape)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection)
}

func shapeFromQuery(c *gin.Context) (timetable.Shape, error) {
	raw := c.Query("shape")
	shape, ok := timetable.ParseShape(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown shape %q", raw))
	}
	return shape, nil
}
