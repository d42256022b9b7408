package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type creditsService interface {
	ValidateInline(ctx context.Context, req dto.CreditsRequest) (dto.CreditsReport, error)
	ValidateStored(ctx context.Context, tenant models.TenantContext) (dto.CreditsReport, error)
}

// CreditsHandler exposes curriculum credit validation.
type CreditsHandler struct {
	service creditsService
}

// NewCreditsHandler constructs a CreditsHandler.
func NewCreditsHandler(svc creditsService) *CreditsHandler {
	return &CreditsHandler{service: svc}
}

// ValidateInline godoc
// @Summary Validate credits of an inline curriculum
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body dto.CreditsRequest true "Curriculum per homeroom"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /curriculum/credits/validate [post]
func (h *CreditsHandler) ValidateInline(c *gin.Context) {
	var req dto.CreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.service.ValidateInline(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report.Records, creditsMeta(report))
}

// ValidateStored godoc
// @Summary Validate credits of the tenant's stored curriculum
// @Tags Curriculum
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /curriculum/credits [get]
func (h *CreditsHandler) ValidateStored(c *gin.Context) {
	tenant, err := tenantFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.ValidateStored(c.Request.Context(), tenant)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report.Records, creditsMeta(report))
}

func creditsMeta(report dto.CreditsReport) map[string]interface{} {
	return map[string]interface{}{
		"invalidCount": report.InvalidCount,
		"allValid":     report.AllValid,
	}
}
