// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitness-tracker/companion/internal/application/adapter"
)

var errMissingSubject = errors.New("token carries no user id")

// CustomClaims represents the claims carried by fitness API access tokens.
type CustomClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// tokenInspector implements the adapter.TokenInspector interface.
type tokenInspector struct {
	parser *jwt.Parser
}

// NewTokenInspector creates a new token inspector instance.
func NewTokenInspector() adapter.TokenInspector {
	return &tokenInspector{
		parser: jwt.NewParser(),
	}
}

// Inspect decodes the token without verifying its signature. The user id is
// taken from the userId claim, falling back to sub.
func (s *tokenInspector) Inspect(token string) (*adapter.TokenClaims, error) {
	claims := &CustomClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, errMissingSubject
	}

	result := &adapter.TokenClaims{
		UserID: userID,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time
		result.ExpiresAt = &expiresAt
	}
	return result, nil
}

// LedgerNamespace picks the ledger namespace: an explicit override, else the
// token's user id, else "default".
func LedgerNamespace(inspector adapter.TokenInspector, override, token string) string {
	if override != "" {
		return override
	}
	if token == "" {
		return "default"
	}
	claims, err := inspector.Inspect(token)
	if err != nil {
		return "default"
	}
	return claims.UserID
}
