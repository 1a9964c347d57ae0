// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package comment defines the feedback vocabulary of the analyzer.
//
// A Comment is one observation about a submission: an ID naming the
// observation, a Severity, and free-form Params. Comments are collected
// into a Set, which keeps detection order and refuses duplicate IDs.
package comment

import (
	"errors"
	"maps"
)

var (
	// ErrInvalidID indicates a malformed comment ID.
	ErrInvalidID = errors.New("invalid comment id")

	// ErrUnknownSeverity indicates a severity label or value outside the ladder.
	ErrUnknownSeverity = errors.New("unknown severity")
)

// Shared vocabulary used by every exercise.
var (
	// NoModule is raised when the submission file does not exist.
	NoModule = NewID("general", "no_module")

	// MalformedCode is raised when the submission does not parse.
	MalformedCode = NewID("general", "malformed_code")

	// GeneralRecommendations is the fallback for exercises that only lint.
	GeneralRecommendations = NewID("general", "general_recommendations")
)

// Params carries auxiliary data for a Comment: line numbers, snippets,
// linter message text. Params never affect equality.
type Params map[string]any

// Comment is a single finding about a submission.
type Comment struct {
	ID     ID       `json:"comment"`
	Type   Severity `json:"type"`
	Params Params   `json:"params"`
}

// New builds a Comment. A nil params map is replaced with an empty one
// so the serialized form is always an object.
func New(id ID, severity Severity, params Params) Comment {
	if params == nil {
		params = Params{}
	}
	return Comment{ID: id, Type: severity, Params: params}
}

// Equal compares comments by ID only.
func (c Comment) Equal(other Comment) bool {
	return c.ID == other.ID
}

// Clone returns a copy whose Params can be modified independently.
func (c Comment) Clone() Comment {
	c.Params = maps.Clone(c.Params)
	if c.Params == nil {
		c.Params = Params{}
	}
	return c
}
