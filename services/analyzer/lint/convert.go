// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"cmp"
	"slices"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

// Namespace is the comment namespace for linter findings.
const Namespace = "pylint"

// CommentID returns the identity of a lint comment:
// python.pylint.<category>.<symbol>.
func CommentID(m Message) comment.ID {
	key := m.Category
	if m.Symbol != "" {
		key += "." + m.Symbol
	} else if m.MessageID != "" {
		key += "." + m.MessageID
	}
	return comment.NewID(Namespace, key)
}

// Convert maps pylint messages to comments.
//
// Description:
//
//	Messages are ordered by line then column so the output does not depend
//	on pylint's checker order. Messages at the same position keep the order
//	pylint emitted them in. Suppressed messages are dropped. The first
//	message per identity becomes the comment; later ones only add their
//	line to the "lines" param.
//
// Inputs:
//
//	msgs    - Decoded pylint messages.
//	policy  - Suppression and downgrade rules. Nil means DefaultPolicy.
//	catalog - Extended documentation. Nil means none.
//
// Outputs:
//
//	[]comment.Comment - One comment per identity, ordered by first line and column.
func Convert(msgs []Message, policy *Policy, catalog *Catalog) []comment.Comment {
	if policy == nil {
		policy = &DefaultPolicy
	}

	sorted := slices.Clone(msgs)
	slices.SortStableFunc(sorted, func(a, b Message) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
	})

	var set comment.Set
	for _, m := range sorted {
		if m.Category == "" || policy.ShouldSuppress(m) {
			continue
		}
		id := CommentID(m)

		if existing, ok := set.Get(id); ok {
			lines, _ := existing.Params["lines"].([]int)
			if !slices.Contains(lines, m.Line) {
				existing.Params["lines"] = append(lines, m.Line)
			}
			set.Update(id, existing.Params)
			continue
		}

		params := comment.Params{
			"lineno":   m.Line,
			"lines":    []int{m.Line},
			"code":     m.Code(),
			"category": m.Category,
			"message":  m.Text,
		}
		for k, v := range catalog.Lookup(m.Symbol).params() {
			params[k] = v
		}
		set.Add(comment.New(id, policy.Severity(m), params))
	}
	return set.Comments()
}
