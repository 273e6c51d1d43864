// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paging

import (
	"fmt"
	"math"

	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/errors"
)

// Offset returns the index of the first result of the given page. It
// saturates at math.MaxInt instead of overflowing.
func Offset(pageIndex, pageSize int) int {
	if pageIndex <= 0 || pageSize <= 0 {
		return 0
	}
	if pageIndex > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return pageIndex * pageSize
}

// Validate checks a requested page against the endpoint limits.
func Validate(pageIndex, pageSize int) error {
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		return errors.NewValidation(
			"invalid page size",
			fmt.Errorf("page_size must be between 1 and %d, got %d", constants.MaxPageSize, pageSize),
		)
	}
	if pageIndex < 0 {
		return errors.NewValidation(
			"invalid page index",
			fmt.Errorf("page_index must not be negative, got %d", pageIndex),
		)
	}
	if pageIndex > (constants.MaxResultWindow-pageSize)/pageSize {
		return errors.NewValidation(
			"invalid page index",
			fmt.Errorf("page_index %d with page_size %d reaches past the first %d results",
				pageIndex, pageSize, constants.MaxResultWindow),
		)
	}
	return nil
}

// HasNext reports whether a page follows pageIndex. Denied results are
// counted in total but never returned.
func HasNext(pageIndex, pageSize, total, denied int) bool {
	if pageIndex < 0 || pageSize <= 0 {
		return false
	}
	return total-denied > (pageIndex+1)*pageSize
}
