// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

type principalContextIDType string

const (
	// AccessCheckSubject is the subject used for access control checks
	AccessCheckSubject = "edx.course_discovery.access_check"
	// AnonymousPrincipal is the identifier for anonymous users
	AnonymousPrincipal = `_anonymous`

	// PrincipalContextID is the context key holding the authenticated principal
	PrincipalContextID principalContextIDType = "principal"
	// PrincipalAttribute is the log attribute name for the principal
	PrincipalAttribute = "principal"
)
