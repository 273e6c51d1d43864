// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yiakwy/edx-platform/internal/domain/model"
)

// MockAccessControlChecker provides a mock implementation of AccessControlChecker for testing
type MockAccessControlChecker struct {
	mu sync.Mutex
	// AllowedPrincipals contains principals that should be granted access to all courses
	AllowedPrincipals []string
	// DeniedObjects contains access check objects that should always be denied
	DeniedObjects []string
	// SimulateErrors makes CheckAccess fail
	SimulateErrors bool
	// DefaultResult is the verdict for requests no rule matches ("true" or "false")
	DefaultResult string
	// Messages records every message received
	Messages []string
}

// CheckAccess implements the AccessControlChecker interface with mock behavior
func (m *MockAccessControlChecker) CheckAccess(ctx context.Context, subj string, data []byte, timeout time.Duration) (model.AccessCheckResult, error) {
	slog.DebugContext(ctx, "executing mock access control check",
		"subject", subj,
		"timeout", timeout,
		"message", string(data),
	)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, string(data))

	if m.SimulateErrors {
		return nil, errors.New("mock access control failure")
	}

	result := make(model.AccessCheckResult)

	// Parse the input data - expecting line-separated relation tuples
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		request := string(line)

		if m.isRequestDenied(request) {
			result[request] = "false"
			continue
		}
		if m.shouldGrantAccess(request) {
			result[request] = "true"
		} else {
			result[request] = "false"
		}
	}

	slog.DebugContext(ctx, "mock access control check completed",
		"subject", subj,
		"result_count", len(result),
	)

	return result, nil
}

// Close implements the AccessControlChecker interface (no-op for mock)
func (m *MockAccessControlChecker) Close() error {
	return nil
}

// IsReady implements the AccessControlChecker interface (always ready for mock)
func (m *MockAccessControlChecker) IsReady(ctx context.Context) error {
	return nil
}

// isRequestDenied checks if the tuple object is explicitly denied
func (m *MockAccessControlChecker) isRequestDenied(request string) bool {
	object, _, _ := strings.Cut(request, "#")
	for _, denied := range m.DeniedObjects {
		if object == denied {
			return true
		}
	}
	return false
}

// shouldGrantAccess determines if access should be granted based on mock rules
func (m *MockAccessControlChecker) shouldGrantAccess(request string) bool {
	_, principal, _ := strings.Cut(request, "@user:")
	for _, allowed := range m.AllowedPrincipals {
		if principal == allowed {
			return true
		}
	}
	return m.DefaultResult == "true"
}

// NewMockAccessControlChecker creates a mock access control checker that allows everything
func NewMockAccessControlChecker() *MockAccessControlChecker {
	return &MockAccessControlChecker{
		AllowedPrincipals: []string{"admin", "test-user"},
		DefaultResult:     "true",
	}
}

// NewMockAccessControlCheckerDenyAll creates a mock that denies all access
func NewMockAccessControlCheckerDenyAll() *MockAccessControlChecker {
	return &MockAccessControlChecker{
		DefaultResult: "false",
	}
}

// NewMockAccessControlCheckerWithErrors creates a mock whose checks fail
func NewMockAccessControlCheckerWithErrors() *MockAccessControlChecker {
	return &MockAccessControlChecker{
		SimulateErrors: true,
	}
}
