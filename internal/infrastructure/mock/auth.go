// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"os"

	"github.com/yiakwy/edx-platform/internal/domain/port"
	"github.com/yiakwy/edx-platform/pkg/errors"
)

// MockAuthService accepts any token and returns a fixed principal
type MockAuthService struct {
	principal string
}

// ParsePrincipal returns the configured principal (ignores token parameter)
func (m *MockAuthService) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if m.principal == "" {
		return "", errors.NewValidation("mock principal not configured in JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	}

	logger.DebugContext(ctx, "parsed principal",
		"user_id", m.principal,
	)

	return m.principal, nil
}

// NewMockAuthService creates a mock authenticator for the principal in
// JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL
func NewMockAuthService() port.Authenticator {
	return NewMockAuthServiceFor(os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"))
}

// NewMockAuthServiceFor creates a mock authenticator returning principal
func NewMockAuthServiceFor(principal string) port.Authenticator {
	return &MockAuthService{principal: principal}
}
