// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analysis

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

// Classify maps a final comment list to a Verdict.
//
// Description:
//
//	First match wins:
//	  1. no comments and ideal  -> Celebrate
//	  2. any Essential          -> Require
//	  3. any Actionable         -> Direct
//	  4. otherwise              -> Inform
//
// Inputs:
//
//	comments - The merged, deduplicated comment list.
//	ideal    - Whether the rule set judged the solution idiomatic.
//
// Outputs:
//
//	Verdict - Never a score; the highest present severity decides.
//
// Thread Safety: Pure function.
func Classify(comments []comment.Comment, ideal bool) Verdict {
	if len(comments) == 0 && ideal {
		return Celebrate
	}
	top, ok := highest(comments)
	switch {
	case ok && top == comment.Essential:
		return Require
	case ok && top == comment.Actionable:
		return Direct
	default:
		return Inform
	}
}

func highest(comments []comment.Comment) (comment.Severity, bool) {
	if len(comments) == 0 {
		return comment.Celebratory, false
	}
	top := comments[0].Type
	for _, c := range comments[1:] {
		if c.Type > top {
			top = c.Type
		}
	}
	return top, true
}

// Policy selects a classification ladder.
//
// Two ladders have been used historically. PolicyLadder is the four-tier
// mapping implemented by Classify. PolicyBinary is the older two-tier
// mapping that only distinguishes "must change" from everything else.
type Policy string

const (
	// PolicyLadder is the four-tier classification (default).
	PolicyLadder Policy = "ladder"

	// PolicyBinary returns Require on any essential comment and Inform otherwise.
	PolicyBinary Policy = "binary"
)

// ParsePolicy validates a policy name from configuration. Empty means ladder.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyLadder:
		return PolicyLadder, nil
	case PolicyBinary:
		return PolicyBinary, nil
	default:
		return PolicyLadder, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Classify applies the policy.
func (p Policy) Classify(comments []comment.Comment, ideal bool) Verdict {
	if p == PolicyBinary {
		if top, ok := highest(comments); ok && top == comment.Essential {
			return Require
		}
		return Inform
	}
	return Classify(comments, ideal)
}
