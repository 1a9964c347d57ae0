// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"maps"
	"slices"
)

// Flag names a boolean observation recorded during traversal.
type Flag string

// Scratch is the per-run state detectors record observations into.
//
// Flags only ever go from unset to set, so the result of a run does not
// depend on which matching node was seen last.
type Scratch struct {
	flags  map[Flag]bool
	values map[string]string
}

func newScratch() *Scratch {
	return &Scratch{
		flags:  make(map[Flag]bool),
		values: make(map[string]string),
	}
}

// Set marks f as observed.
func (s *Scratch) Set(f Flag) { s.flags[f] = true }

// Has reports whether f has been observed.
func (s *Scratch) Has(f Flag) bool { return s.flags[f] }

// SetValue records the first value seen for key. Later values are ignored.
func (s *Scratch) SetValue(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.values[key] = value
	}
}

// Value returns the value recorded for key.
func (s *Scratch) Value(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Flags returns the observed flags, sorted.
func (s *Scratch) Flags() []Flag {
	return slices.Sorted(maps.Keys(s.flags))
}
