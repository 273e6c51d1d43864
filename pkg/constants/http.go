// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

type requestIDHeaderType string

// RequestIDHeader is the header name for the request ID
const RequestIDHeader requestIDHeaderType = "X-REQUEST-ID"

const (
	// CourseDiscoveryPath is the search endpoint used by the discovery page
	CourseDiscoveryPath = "/search/course_discovery/"

	// ContentTypeForm is the content type of the discovery request body
	ContentTypeForm = "application/x-www-form-urlencoded"

	// AnonymousCacheControlHeader is the Cache-Control value for anonymous search responses
	AnonymousCacheControlHeader = "public, max-age=300"
)
