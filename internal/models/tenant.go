package models

import "github.com/golang-jwt/jwt/v5"

// TenantContext scopes every upstream query to one school.
type TenantContext struct {
	TenantID string `json:"tenantId"`
	Subject  string `json:"subject,omitempty"`
}

// TenantClaims is the JWT payload accepted at the HTTP boundary.
type TenantClaims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}
