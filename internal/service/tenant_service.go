package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// TenantConfig configures tenant resolution.
type TenantConfig struct {
	Secret    string
	DefaultID string
}

// TenantService resolves the tenant a request acts for.
type TenantService struct {
	secret    []byte
	defaultID string
}

// NewTenantService constructs a TenantService.
func NewTenantService(cfg TenantConfig) *TenantService {
	return &TenantService{secret: []byte(cfg.Secret), defaultID: strings.TrimSpace(cfg.DefaultID)}
}

// Resolve maps an Authorization header value to a tenant. Without a header the default
// tenant is used; a header that is present must carry a valid bearer token.
func (s *TenantService) Resolve(authorization string) (models.TenantContext, error) {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		if s.defaultID == "" {
			return models.TenantContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "tenant token required")
		}
		return models.TenantContext{TenantID: s.defaultID}, nil
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return models.TenantContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return s.ValidateToken(strings.TrimSpace(parts[1]))
}

// ValidateToken parses an HS256 token and extracts its tenant.
func (s *TenantService) ValidateToken(tokenString string) (models.TenantContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return models.TenantContext{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.TenantClaims)
	if !ok || !token.Valid {
		return models.TenantContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if strings.TrimSpace(claims.TenantID) == "" {
		return models.TenantContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "token has no tenant")
	}
	return models.TenantContext{TenantID: claims.TenantID, Subject: claims.Subject}, nil
}

// IssueToken signs a tenant token. Used by tooling and tests.
func (s *TenantService) IssueToken(tenant models.TenantContext, claims jwt.RegisteredClaims) (string, error) {
	if claims.Subject == "" {
		claims.Subject = tenant.Subject
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.TenantClaims{TenantID: tenant.TenantID, RegisteredClaims: claims})
	return token.SignedString(s.secret)
}
