// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package comment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the importance class of a Comment.
//
// The ordering is total: Celebratory < Informative < Actionable < Essential.
// Only the classifier compares severities.
type Severity int

const (
	// Celebratory praises an idiomatic construct.
	Celebratory Severity = iota

	// Informative is a suggestion that does not block approval.
	Informative

	// Actionable is a style or idiom problem the student should fix.
	Actionable

	// Essential is a correctness problem that blocks approval.
	Essential
)

var severityLabels = [...]string{
	Celebratory: "celebratory",
	Informative: "informative",
	Actionable:  "actionable",
	Essential:   "essential",
}

// String returns the lowercase label used in analysis.json.
func (s Severity) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityLabels[s]
}

// IsValid reports whether s is one of the four declared severities.
func (s Severity) IsValid() bool {
	return s >= Celebratory && s <= Essential
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// ParseSeverity converts a label back to a Severity, ignoring case.
func ParseSeverity(label string) (Severity, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	for i, name := range severityLabels {
		if name == l {
			return Severity(i), nil
		}
	}
	return Celebratory, fmt.Errorf("%w: %q", ErrUnknownSeverity, label)
}

// MarshalJSON encodes the severity as its label.
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeverity, int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a label.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseSeverity(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
