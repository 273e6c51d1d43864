// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Course is the course metadata carried by a single search result
type Course struct {
	// Course ID (run key), e.g. "edX/DemoX/Demo_Course"
	ID string `json:"id" yaml:"id"`
	// Course display key
	Course string `json:"course" yaml:"course"`
	// Organization offering the course
	Org string `json:"org" yaml:"org"`
	// Course number
	Number string `json:"number" yaml:"number"`
	// Course start date
	Start string `json:"start,omitempty" yaml:"start"`
	// Start of the enrollment window
	EnrollmentStart string `json:"enrollment_start,omitempty" yaml:"enrollment_start"`
	// End of the enrollment window
	EnrollmentEnd string `json:"enrollment_end,omitempty" yaml:"enrollment_end"`
	// Course card image URL
	ImageURL string `json:"image_url,omitempty" yaml:"image_url"`
	// Enrollment modes offered
	Modes []string `json:"modes,omitempty" yaml:"modes"`
	// Course language
	Language string `json:"language,omitempty" yaml:"language"`
	// Content holds the display fields
	Content CourseContent `json:"content" yaml:"content"`
}

// CourseContent holds the human-readable fields of a course
type CourseContent struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	Number      string `json:"number,omitempty" yaml:"number"`
	Overview    string `json:"overview,omitempty" yaml:"overview"`
}

// DisplayName returns the content display name, falling back to the course id.
func (c Course) DisplayName() string {
	if c.Content.DisplayName != "" {
		return c.Content.DisplayName
	}
	return c.ID
}

// FacetValues returns the values the course contributes to the given facet.
func (c Course) FacetValues(facet string) []string {
	switch facet {
	case "org":
		if c.Org == "" {
			return nil
		}
		return []string{c.Org}
	case "modes":
		return c.Modes
	case "language":
		if c.Language == "" {
			return nil
		}
		return []string{c.Language}
	}
	return nil
}

// CourseDocument is a course as stored in the catalog and indexed by searchers.
// **Ensure the fields here align to the document source includes of each searcher**.
type CourseDocument struct {
	// Course data snapshot
	Course `json:"data" yaml:",inline"`
	// Public courses are visible to anonymous viewers without an access check
	Public bool `json:"public" yaml:"public"`
	// AccessCheckObject is the object of the relation tuple, e.g. "course:edX/DemoX/Demo_Course"
	AccessCheckObject string `json:"access_check_object,omitempty" yaml:"access_check_object"`
	// AccessCheckRelation is the relation required to view the course, e.g. "viewer"
	AccessCheckRelation string `json:"access_check_relation,omitempty" yaml:"access_check_relation"`
	// NeedCheck indicates if access control check is needed
	NeedCheck bool `json:"-" yaml:"-"`
}
