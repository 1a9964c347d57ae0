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
	"strings"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

// categorySeverity is the fixed pylint category to severity table.
var categorySeverity = map[string]comment.Severity{
	"info":          comment.Informative,
	"informational": comment.Informative,
	"convention":    comment.Actionable,
	"refactor":      comment.Actionable,
	"warning":       comment.Essential,
	"error":         comment.Essential,
	"fatal":         comment.Essential,
}

// SeverityForCategory maps a pylint category to a severity. Unknown
// categories are informative.
func SeverityForCategory(category string) (comment.Severity, bool) {
	sev, ok := categorySeverity[strings.ToLower(category)]
	if !ok {
		return comment.Informative, false
	}
	return sev, true
}

// Policy adjusts the category table for exercise feedback.
//
// Rules are matched against a message's id ("C0301") and symbol
// ("line-too-long"), case-insensitively. A rule may also be a prefix of a
// message id followed by digits, so "C03" matches "C0301".
type Policy struct {
	// Suppress drops matching messages entirely.
	Suppress []string

	// Downgrade forces matching messages to informative.
	Downgrade []string
}

// DefaultPolicy drops line-too-long and downgrades docstring and
// final-newline messages.
var DefaultPolicy = Policy{
	Suppress: []string{
		"C0301", // line-too-long
	},
	Downgrade: []string{
		"C0114", // missing-module-docstring
		"C0115", // missing-class-docstring
		"C0116", // missing-function-docstring
		"C0304", // missing-final-newline
	},
}

// ShouldSuppress reports whether m is dropped.
func (p *Policy) ShouldSuppress(m Message) bool {
	return matchesAny(m, p.Suppress)
}

// Severity returns the severity for m after downgrades.
func (p *Policy) Severity(m Message) comment.Severity {
	if matchesAny(m, p.Downgrade) {
		return comment.Informative
	}
	sev, _ := SeverityForCategory(m.Category)
	return sev
}

func matchesAny(m Message, patterns []string) bool {
	id := strings.ToLower(m.MessageID)
	symbol := strings.ToLower(m.Symbol)
	for _, pattern := range patterns {
		p := strings.ToLower(pattern)
		if matchesRule(id, p) || (symbol != "" && symbol == p) {
			return true
		}
	}
	return false
}

// matchesRule checks for an exact match or a prefix followed by a digit.
func matchesRule(rule, pattern string) bool {
	if rule == "" || pattern == "" {
		return false
	}
	if rule == pattern {
		return true
	}
	if strings.HasPrefix(rule, pattern) && len(rule) > len(pattern) {
		next := rule[len(pattern)]
		if next >= '0' && next <= '9' {
			return true
		}
	}
	return false
}
