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

// Set accumulates comments in insertion order, at most one per ID.
//
// The zero value is ready to use. A Set belongs to one analysis run and
// is not safe for concurrent use.
type Set struct {
	order []Comment
	index map[ID]int
}

// Add appends c unless a comment with the same ID is already held.
// Returns true if c was added.
func (s *Set) Add(c Comment) bool {
	if s.index == nil {
		s.index = make(map[ID]int)
	}
	if _, dup := s.index[c.ID]; dup {
		return false
	}
	if c.Params == nil {
		c.Params = Params{}
	}
	s.index[c.ID] = len(s.order)
	s.order = append(s.order, c)
	return true
}

// Has reports whether a comment with id has been added.
func (s *Set) Has(id ID) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the comment held for id.
func (s *Set) Get(id ID) (Comment, bool) {
	i, ok := s.index[id]
	if !ok {
		return Comment{}, false
	}
	return s.order[i], true
}

// Update replaces the params of the comment held for id.
// Returns false if no such comment exists.
func (s *Set) Update(id ID, params Params) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.order[i].Params = params
	return true
}

// Len returns the number of comments held.
func (s *Set) Len() int {
	return len(s.order)
}

// Comments returns a copy of the held comments in insertion order.
func (s *Set) Comments() []Comment {
	out := make([]Comment, len(s.order))
	copy(out, s.order)
	return out
}
