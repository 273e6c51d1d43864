// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/domain/port"
)

// CourseAccessChecker asks the access responder on NATS which of the
// non-public courses of a result page the principal may view.
type CourseAccessChecker struct {
	client NATSClientInterface
}

// CheckAccess sends the newline separated course tuples in data to subj and
// returns the verdict for each tuple the responder answered. Tuples without a
// verdict are left out of the result and count as denied by the caller.
func (c *CourseAccessChecker) CheckAccess(ctx context.Context, subj string, data []byte, timeout time.Duration) (model.AccessCheckResult, error) {
	tuples := countTuples(data)
	slog.DebugContext(ctx, "checking course access",
		"subject", subj,
		"tuples", tuples,
		"timeout", timeout,
	)

	verdicts, err := c.client.CheckAccess(ctx, &AccessCheckNATSRequest{
		Subject: subj,
		Message: data,
		Timeout: timeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "course access check failed",
			"subject", subj,
			"tuples", tuples,
			"error", err,
		)
		return nil, fmt.Errorf("course access check on %s failed: %w", subj, err)
	}

	granted := 0
	for _, v := range verdicts {
		if v == "true" {
			granted++
		}
	}
	if missing := tuples - len(verdicts); missing > 0 {
		slog.WarnContext(ctx, "access responder left course tuples unanswered",
			"subject", subj,
			"missing", missing,
		)
	}
	slog.DebugContext(ctx, "course access check completed",
		"subject", subj,
		"granted", granted,
		"denied", len(verdicts)-granted,
	)

	return model.AccessCheckResult(verdicts), nil
}

// IsReady reports whether the NATS connection is usable
func (c *CourseAccessChecker) IsReady(ctx context.Context) error {
	return c.client.IsReady(ctx)
}

// Close drains and closes the NATS connection
func (c *CourseAccessChecker) Close() error {
	return c.client.Close()
}

func countTuples(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}

// NewAccessControlChecker connects to NATS and returns a checker for course tuples
func NewAccessControlChecker(ctx context.Context, config Config) (port.AccessControlChecker, error) {
	slog.InfoContext(ctx, "connecting course access checker to NATS",
		"url", config.URL,
	)

	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS client: %w", err)
	}

	return &CourseAccessChecker{client: client}, nil
}
