package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims represents the JWT claims structure issued by the identity
// provider. The subject claim is the owner identity every content operation
// is scoped by.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *UserClaims) GetUserID() string {
	return c.Subject
}
