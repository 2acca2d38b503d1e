package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/service/auth"
)

// MockJWTService implements auth.JWTService with fixed results.
type MockJWTService struct {
	Token       string
	GenerateErr error
	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return m.Token, m.GenerateErr
}

func (m *MockJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.Claims, nil
}
