// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analysis holds the outcome of one analyzer run: the Verdict,
// the classifier that produces it, and the analysis.json document.
package analysis

import (
	"encoding/json"
	"errors"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

var (
	// ErrUnknownVerdict indicates a verdict name or value outside the ladder.
	ErrUnknownVerdict = errors.New("unknown verdict")

	// ErrUnknownPolicy indicates an unsupported classification policy.
	ErrUnknownPolicy = errors.New("unknown classification policy")

	// ErrOutputDir indicates the output directory is missing or not a directory.
	ErrOutputDir = errors.New("output directory unavailable")
)

// Result is the immutable outcome of analyzing one submission.
type Result struct {
	summary  Verdict
	comments []comment.Comment
}

// NewResult builds a Result. comments is copied.
func NewResult(summary Verdict, comments []comment.Comment) Result {
	out := make([]comment.Comment, len(comments))
	for i, c := range comments {
		out[i] = c.Clone()
	}
	return Result{summary: summary, comments: out}
}

// RequireWith builds a short-circuit Require result, used when analysis
// cannot proceed (missing file, unparseable source).
func RequireWith(comments ...comment.Comment) Result {
	return NewResult(Require, comments)
}

// Summary returns the verdict.
func (r Result) Summary() Verdict { return r.summary }

// Approvable reports whether the verdict allows approval.
func (r Result) Approvable() bool { return r.summary.Approvable() }

// Comments returns a copy of the comments in detection order.
func (r Result) Comments() []comment.Comment {
	out := make([]comment.Comment, len(r.comments))
	copy(out, r.comments)
	return out
}

// document is the analysis.json schema.
type document struct {
	Summary  Verdict           `json:"summary"`
	Comments []comment.Comment `json:"comments"`
}

// MarshalJSON encodes {"summary": ..., "comments": [...]}.
func (r Result) MarshalJSON() ([]byte, error) {
	comments := r.comments
	if comments == nil {
		comments = []comment.Comment{}
	}
	return json.Marshal(document{Summary: r.summary, Comments: comments})
}

// UnmarshalJSON decodes the analysis.json schema.
func (r *Result) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for i := range doc.Comments {
		if doc.Comments[i].Params == nil {
			doc.Comments[i].Params = comment.Params{}
		}
	}
	*r = Result{summary: doc.Summary, comments: doc.Comments}
	if r.comments == nil {
		r.comments = []comment.Comment{}
	}
	return nil
}
