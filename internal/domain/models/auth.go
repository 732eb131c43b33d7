package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims is the JWT payload issued by the identity provider.
// Roles are not trusted from the token; they come from the user profile.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *IdentityClaims) GetUserID() string {
	return c.Subject
}
