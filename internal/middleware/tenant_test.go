package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

func TestTenantMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenants := service.NewTenantService(service.TenantConfig{Secret: "secret", DefaultID: "school-default"})
	token, err := tenants.IssueToken(models.TenantContext{TenantID: "school-9"}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(Tenant(tenants))
	router.GET("/whoami", func(c *gin.Context) {
		tenant := c.MustGet(ContextTenantKey).(models.TenantContext)
		c.String(http.StatusOK, tenant.TenantID+"|"+c.GetString(logger.TenantKey))
	})

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "default tenant", status: http.StatusOK, body: "school-default|school-default"},
		{name: "bearer token", header: "Bearer " + token, status: http.StatusOK, body: "school-9|school-9"},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "bad scheme", header: "Basic abc", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()

	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `path="/ping"`)
}
