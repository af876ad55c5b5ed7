package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes portal clients from back-office admins.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleAdmin
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	ClientRef string
	Role      Role
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to portal users.
type AccessTokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	ClientRef string    `json:"client_ref,omitempty"`
	Role      Role      `json:"role"`
	jwt.RegisteredClaims
}
