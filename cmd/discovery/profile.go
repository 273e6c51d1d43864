// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/yiakwy/edx-platform/internal/infrastructure/courseapi"
	"github.com/yiakwy/edx-platform/pkg/constants"
)

// Profile holds the CLI settings stored in the TOML profile file
type Profile struct {
	BaseURL     string `toml:"base_url"`
	Token       string `toml:"token"`
	PageSize    int    `toml:"page_size"`
	Timeout     string `toml:"timeout"`
	MaxRetries  int    `toml:"max_retries"`
	RetryDelay  string `toml:"retry_delay"`
	HistoryFile string `toml:"history_file"`
}

// DefaultProfile returns the settings used when no profile file exists
func DefaultProfile() Profile {
	defaults := courseapi.DefaultConfig()
	return Profile{
		BaseURL:     defaults.BaseURL,
		PageSize:    constants.DefaultPageSize,
		Timeout:     defaults.Timeout.String(),
		MaxRetries:  defaults.MaxRetries,
		RetryDelay:  defaults.RetryDelay.String(),
		HistoryFile: filepath.Join(os.TempDir(), "edx-discovery.history"),
	}
}

// DefaultProfilePath returns the profile location under the user config dir
func DefaultProfilePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "edx-discovery", "profile.toml")
}

// LoadProfile reads the profile at path over the defaults. A missing file
// yields the defaults.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return profile, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	profile.HistoryFile = expandHome(profile.HistoryFile)
	return profile, nil
}

// SaveProfile writes the profile to path, creating its directory
func SaveProfile(path string, profile Profile) error {
	data, err := toml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ClientConfig converts the profile to a course API client configuration
func (p Profile) ClientConfig() (courseapi.Config, error) {
	return courseapi.NewConfig(p.BaseURL, p.Token, p.Timeout, p.MaxRetries, p.RetryDelay)
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
