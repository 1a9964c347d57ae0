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
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the overall recommendation for a submission.
type Verdict int

const (
	// Celebrate means no comments and an idiomatic solution.
	Celebrate Verdict = iota

	// Inform means only informative or celebratory comments.
	Inform

	// Direct means at least one actionable comment and no essential ones.
	Direct

	// Require means at least one essential comment.
	Require
)

var verdictNames = [...]string{
	Celebrate: "celebrate",
	Inform:    "inform",
	Direct:    "direct",
	Require:   "require",
}

// String returns the lowercase name used in analysis.json.
func (v Verdict) String() string {
	if v < Celebrate || v > Require {
		return fmt.Sprintf("verdict(%d)", int(v))
	}
	return verdictNames[v]
}

// Approvable reports whether the submission can be approved without changes.
func (v Verdict) Approvable() bool {
	return v != Require
}

// ParseVerdict converts a name back to a Verdict, ignoring case.
func ParseVerdict(name string) (Verdict, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, v := range verdictNames {
		if v == n {
			return Verdict(i), nil
		}
	}
	return Require, fmt.Errorf("%w: %q", ErrUnknownVerdict, name)
}

// MarshalJSON encodes the verdict name.
func (v Verdict) MarshalJSON() ([]byte, error) {
	if v < Celebrate || v > Require {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVerdict, int(v))
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a verdict name.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseVerdict(name)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
