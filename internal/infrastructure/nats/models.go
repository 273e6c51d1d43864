// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"
)

// Config represents NATS configuration
type Config struct {
	// URL is the NATS server URL
	URL string `json:"url" yaml:"url"`
	// Timeout is the connection timeout duration
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// MaxReconnect is the maximum number of reconnection attempts
	MaxReconnect int `json:"max_reconnect" yaml:"max_reconnect"`
	// ReconnectWait is the time to wait between reconnection attempts
	ReconnectWait time.Duration `json:"reconnect_wait" yaml:"reconnect_wait"`
}

// DefaultConfig returns the connection settings used when none are configured
func DefaultConfig(url string) Config {
	return Config{
		URL:           url,
		Timeout:       10 * time.Second,
		MaxReconnect:  3,
		ReconnectWait: 2 * time.Second,
	}
}

// AccessCheckNATSRequest represents a NATS request for access checking
type AccessCheckNATSRequest struct {
	// Subject is the NATS subject for the request
	Subject string `json:"subject"`
	// Message holds newline separated relation tuples
	Message []byte `json:"message"`
	// Timeout is the request timeout duration
	Timeout time.Duration `json:"timeout"`
}

// AccessCheckNATSResponse maps each relation tuple to its verdict
type AccessCheckNATSResponse map[string]string
