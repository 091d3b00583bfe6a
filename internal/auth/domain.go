// Package auth issues and verifies the bearer tokens that identify a
// principal, and provides the middleware threading the principal through
// the request context.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account is the credential-bearing view of a user row, used only during
// token issuance. The password hash never leaves this package.
type Account struct {
	ID           string
	Email        string
	Role         string
	PasswordHash string
}

// Claims is the token payload: the registered claims plus the principal's
// email and role.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Token is the issuance result returned to the caller.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
