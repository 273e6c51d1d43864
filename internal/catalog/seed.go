// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package catalog loads the course catalog seed file and keeps the catalog
// store and search index in sync with it.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/errors"
)

// Seed is the layout of the catalog seed file
type Seed struct {
	Courses []model.CourseDocument `yaml:"courses"`
}

// LoadSeed reads and validates the seed file at path
func LoadSeed(path string) ([]model.CourseDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document. Course keys and content numbers default
// from the id and number.
func ParseSeed(data []byte) ([]model.CourseDocument, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.NewValidation("invalid catalog seed", err)
	}

	seen := make(map[string]struct{}, len(seed.Courses))
	for i := range seed.Courses {
		doc := &seed.Courses[i]
		if doc.ID == "" {
			return nil, errors.NewValidation(fmt.Sprintf("course %d has no id", i))
		}
		if _, dup := seen[doc.ID]; dup {
			return nil, errors.NewValidation(fmt.Sprintf("duplicate course id %q", doc.ID))
		}
		seen[doc.ID] = struct{}{}

		if doc.Course.Course == "" {
			doc.Course.Course = doc.ID
		}
		if doc.Content.Number == "" {
			doc.Content.Number = doc.Number
		}
	}
	return seed.Courses, nil
}
