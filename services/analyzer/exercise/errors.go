// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package exercise

import "errors"

var (
	// ErrRuleSetNotFound indicates no rule set is registered for a slug.
	ErrRuleSetNotFound = errors.New("no rule set for exercise")

	// ErrDuplicateSlug indicates two rule sets share a slug.
	ErrDuplicateSlug = errors.New("duplicate exercise slug")

	// ErrInvalidDescriptor indicates an empty slug or directory.
	ErrInvalidDescriptor = errors.New("invalid exercise descriptor")

	// ErrNotLoaded indicates Execute was called before Load.
	ErrNotLoaded = errors.New("dispatcher not loaded")

	// ErrAlreadyExecuted indicates Execute was called twice.
	ErrAlreadyExecuted = errors.New("dispatcher already executed")
)
