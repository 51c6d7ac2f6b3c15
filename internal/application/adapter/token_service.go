// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"time"
)

// TokenClaims represents the claims read from the fitness API access token.
type TokenClaims struct {
	UserID    string
	Email     string
	ExpiresAt *time.Time
}

// IsExpired reports whether the token expired before now.
func (c *TokenClaims) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// TokenInspector reads the claims of an access token issued by the fitness
// API. The companion never holds the signing secret, so the signature is not
// verified; the API itself rejects forged tokens.
type TokenInspector interface {
	// Inspect decodes the token claims.
	Inspect(token string) (*TokenClaims, error)
}
