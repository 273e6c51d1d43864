// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const clientName = "edx-course-discovery"

// NATSClient wraps the NATS connection and provides access control operations
type NATSClient struct {
	conn    *nats.Conn
	config  Config
	timeout time.Duration
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	CheckAccess(ctx context.Context, request *AccessCheckNATSRequest) (AccessCheckNATSResponse, error)
	IsReady(ctx context.Context) error
	Close() error
}

// CheckAccess sends an access control request via NATS and waits for the response
func (c *NATSClient) CheckAccess(ctx context.Context, request *AccessCheckNATSRequest) (AccessCheckNATSResponse, error) {

	if err := validateRequest(request); err != nil {
		slog.ErrorContext(ctx, "invalid NATS access check request", "error", err)
		return nil, err
	}

	timeout := request.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Send the request and wait for response
	natsResponse, errRequest := c.conn.RequestWithContext(reqCtx, request.Subject, request.Message)
	if errRequest != nil {
		slog.ErrorContext(ctx, "NATS request failed", "error", errRequest)
		return nil, fmt.Errorf("NATS request failed: %w", errRequest)
	}

	slog.DebugContext(ctx, "received NATS response",
		"subject", request.Subject,
		"message", string(natsResponse.Data),
		"timeout", timeout,
	)

	return parseResponse(ctx, natsResponse.Data)
}

// IsReady reports whether the connection is established
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil {
		return errors.New("NATS connection not initialized")
	}
	if status := c.conn.Status(); status != nats.CONNECTED {
		slog.WarnContext(ctx, "NATS connection not ready", "status", status.String())
		return fmt.Errorf("NATS connection not ready: %s", status)
	}
	return nil
}

// Close gracefully closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

func validateRequest(request *AccessCheckNATSRequest) error {
	if request == nil {
		return errors.New("invalid NATS access check request: request cannot be nil")
	}
	if request.Subject == "" || len(request.Message) == 0 {
		return errors.New("invalid NATS access check request: subject and message must be set")
	}
	return nil
}

// parseResponse reads one "tuple<TAB>verdict" pair per line
func parseResponse(ctx context.Context, data []byte) (AccessCheckNATSResponse, error) {
	response := make(AccessCheckNATSResponse)
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		relationPart, allowedPart, found := bytes.Cut(line, []byte("\t"))
		if !found {
			slog.ErrorContext(ctx, "invalid NATS response format",
				"message", string(line),
			)
			return nil, errors.New("failed to process access check")
		}
		response[string(relationPart)] = string(allowedPart)
	}
	return response, nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	if config.URL == "" {
		return nil, errors.New("NATS URL is required")
	}

	// Configure NATS connection options
	opts := []nats.Option{
		nats.Name(clientName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	// Establish connection
	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	client := &NATSClient{
		conn:    conn,
		config:  config,
		timeout: config.Timeout,
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
