// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import "iter"

// Tree is a parsed submission.
//
// A Tree is read-only after Parse returns and may be traversed any number
// of times, including concurrently.
type Tree struct {
	root  *Module
	path  string
	lines int
	size  int
}

// Root returns the module node.
func (t *Tree) Root() *Module { return t.root }

// Path returns the file path given to Parse, for diagnostics.
func (t *Tree) Path() string { return t.path }

// Size returns the number of lowered nodes.
func (t *Tree) Size() int { return t.size }

// Lines returns the number of source lines.
func (t *Tree) Lines() int { return t.lines }

// Nodes yields every node in pre-order, parents before children and
// siblings in source order, including nodes inside nested scopes.
//
// Each call starts a fresh traversal from the root. Stopping early (break
// out of the range loop) is supported.
func (t *Tree) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if t == nil || t.root == nil {
			return
		}
		stack := []Node{t.root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			kids := n.Children()
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// FunctionDefs yields the function definitions of the tree in pre-order.
func (t *Tree) FunctionDefs() iter.Seq[*FunctionDef] {
	return func(yield func(*FunctionDef) bool) {
		for n := range t.Nodes() {
			if fn, ok := n.(*FunctionDef); ok && !yield(fn) {
				return
			}
		}
	}
}
