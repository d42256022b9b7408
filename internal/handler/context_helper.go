package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func tenantFromContext(c *gin.Context) (models.TenantContext, error) {
	value, exists := c.Get(middleware.ContextTenantKey)
	if !exists {
		return models.TenantContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "tenant not resolved")
	}
	tenant, ok := value.(models.TenantContext)
	if !ok || tenant.TenantID == "" {
		return models.TenantContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "tenant not resolved")
	}
	return tenant, nil
}
