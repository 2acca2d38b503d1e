// Package auth validates the bearer tokens that identify study users.
// Tokens are issued by the account service; GenerateToken exists for local
// development tooling and tests.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

// JWTService signs and validates access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks signature, type and time claims and returns the
	// claims of a valid token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is what a validated token says about its bearer.
type Claims struct {
	UserID    uuid.UUID
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
