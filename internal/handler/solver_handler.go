package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type solverService interface {
	PreviewInline(ctx context.Context, tenant models.TenantContext, input models.SolverInput) (dto.SolverRequest, error)
	PreviewStored(ctx context.Context, tenant models.TenantContext) (dto.SolverRequest, error)
	Solve(ctx context.Context, tenant models.TenantContext) (*dto.SolveResult, error)
}

// SolverHandler builds solver requests and proxies solves.
type SolverHandler struct {
	service solverService
}

// NewSolverHandler constructs a SolverHandler.
func NewSolverHandler(svc solverService) *SolverHandler {
	return &SolverHandler{service: svc}
}

// PreviewInline godoc
// @Summary Build a solver request from an inline domain graph
// @Tags Solver
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SolverInput true "Calendar, curriculum and constraints"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /solver/requests/preview [post]
func (h *SolverHandler) PreviewInline(c *gin.Context) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input models.SolverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req, err := h.service.PreviewInline(c.Request.Context(), tenant, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req)
}

// PreviewStored godoc
// @Summary Build a solver request from the tenant's stored graph
// @Tags Solver
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /solver/requests/preview [get]
func (h *SolverHandler) PreviewStored(c *gin.Context) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.service.PreviewStored(c.Request.Context(), tenant)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req)
}

// Solve godoc
// @Summary Send the tenant's stored graph to the solver
// @Tags Solver
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /solver/solve [post]
func (h *SolverHandler) Solve(c *gin.Context) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Solve(c.Request.Context(), tenant)
	if err != nil {
		var invalid *service.InvalidCreditsError
		if errors.As(err, &invalid) {
			response.Error(c, err, map[string]interface{}{"invalidCredits": invalid.Records})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
