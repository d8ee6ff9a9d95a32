package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set carried by bearer tokens.
// The subject is the user ID; tokens from an external JWKS issuer only need sub.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
