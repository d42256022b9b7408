package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// ContextTenantKey is the gin context key storing the resolved models.TenantContext.
const ContextTenantKey = "currentTenant"

type tenantResolver interface {
	Resolve(authorization string) (models.TenantContext, error)
}

// Tenant scopes the request to a tenant taken from the bearer token, or the configured
// default tenant when no Authorization header is sent.
func Tenant(resolver tenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := resolver.Resolve(c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextTenantKey, tenant)
		c.Set(logger.TenantKey, tenant.TenantID)
		c.Next()
	}
}
