// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules evaluates exercise-specific rule sets over a syntax tree.
//
// A rule set is a list of Detectors, run against every node of a single
// pre-order traversal, followed by a list of Invariants checked once the
// traversal is complete. Detectors either emit a comment or record Flags
// that later detectors and invariants consult.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
	"github.com/AleutianAI/analyzer/services/analyzer/syntax"
)

var (
	// ErrInvalidRuleSet indicates a rule set definition failed validation.
	ErrInvalidRuleSet = errors.New("invalid rule set")
)

// MatchFunc inspects one node. It returns the params for the emitted
// comment and whether the node matched. Nodes of unexpected shape are
// simply "no match".
type MatchFunc func(node syntax.Node, s *Scratch) (comment.Params, bool)

// Detector is a per-node rule.
type Detector struct {
	// Name identifies the detector in errors and logs.
	Name string

	// Emits is the comment raised on the first match. Zero for detectors
	// that only record flags.
	Emits    comment.ID
	Severity comment.Severity

	// Kinds restricts the node kinds the detector is offered. Empty means
	// every kind.
	Kinds []syntax.Kind

	// Requires lists flags that must already be set for the detector to run.
	Requires []Flag

	// Sets lists flags recorded on a match.
	Sets []Flag

	Match MatchFunc
}

// Invariant is a whole-tree rule checked after traversal.
type Invariant struct {
	Name     string
	Emits    comment.ID
	Severity comment.Severity

	// Holds reports whether the submission satisfies the invariant. The
	// comment is emitted when it does not.
	Holds func(s *Scratch) bool
}

// Definition describes a rule set before validation.
type Definition struct {
	// Slug is the exercise identifier, e.g. "two-fer".
	Slug string

	// Namespace prefixes exercise-specific comment IDs. Defaults to Slug.
	Namespace string

	Detectors  []Detector
	Invariants []Invariant

	// Ideal reports whether the solution uses the preferred idiom. Nil
	// means never ideal.
	Ideal func(s *Scratch) bool

	// Fallback is emitted when the final comment list would otherwise be
	// empty.
	Fallback *comment.Comment

	// Lint enables secondary linter comments for this exercise.
	Lint bool
}

// Analyzer is the capability set a rule set offers to the pipeline.
type Analyzer interface {
	Evaluate(tree *syntax.Tree) *Run
	Invariants(run *Run)
	IsIdeal(run *Run) bool
}

// RuleSet is a validated, read-only Definition.
//
// Thread Safety: Safe for concurrent use; all per-run state lives in Run.
type RuleSet struct {
	def    Definition
	byKind [][]int
}

var _ Analyzer = (*RuleSet)(nil)

// NewRuleSet validates def and builds a RuleSet.
//
// Description:
//
//	Validation rejects empty or duplicate names, malformed or duplicate
//	comment IDs, detectors with neither an emitted comment nor flags, and
//	any Requires flag not set by an earlier detector. Detector order is
//	significant and preserved.
//
// Outputs:
//
//	*RuleSet - Ready for concurrent use.
//	error    - Wraps ErrInvalidRuleSet.
func NewRuleSet(def Definition) (*RuleSet, error) {
	if def.Slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrInvalidRuleSet)
	}
	if def.Namespace == "" {
		def.Namespace = def.Slug
	}

	names := make(map[string]bool)
	ids := make(map[comment.ID]string)
	setSoFar := make(map[Flag]bool)

	claim := func(owner string, id comment.ID) error {
		if err := id.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRuleSet, owner, err)
		}
		if prev, dup := ids[id]; dup {
			return fmt.Errorf("%w: %s and %s both emit %s", ErrInvalidRuleSet, prev, owner, id)
		}
		ids[id] = owner
		return nil
	}

	for _, d := range def.Detectors {
		if d.Name == "" || names[d.Name] {
			return nil, fmt.Errorf("%w: %s: empty or duplicate detector name %q", ErrInvalidRuleSet, def.Slug, d.Name)
		}
		names[d.Name] = true
		if d.Match == nil {
			return nil, fmt.Errorf("%w: detector %s has no match function", ErrInvalidRuleSet, d.Name)
		}
		if d.Emits.IsZero() && len(d.Sets) == 0 {
			return nil, fmt.Errorf("%w: detector %s neither emits nor sets flags", ErrInvalidRuleSet, d.Name)
		}
		if !d.Emits.IsZero() {
			if err := claim(d.Name, d.Emits); err != nil {
				return nil, err
			}
		}
		for _, f := range d.Requires {
			if !setSoFar[f] {
				return nil, fmt.Errorf("%w: detector %s requires flag %q before it is set", ErrInvalidRuleSet, d.Name, f)
			}
		}
		for _, f := range d.Sets {
			setSoFar[f] = true
		}
	}

	for _, inv := range def.Invariants {
		if inv.Name == "" || names[inv.Name] {
			return nil, fmt.Errorf("%w: %s: empty or duplicate invariant name %q", ErrInvalidRuleSet, def.Slug, inv.Name)
		}
		names[inv.Name] = true
		if inv.Holds == nil {
			return nil, fmt.Errorf("%w: invariant %s has no predicate", ErrInvalidRuleSet, inv.Name)
		}
		if err := claim(inv.Name, inv.Emits); err != nil {
			return nil, err
		}
	}

	if def.Fallback != nil {
		if err := claim("fallback", def.Fallback.ID); err != nil {
			return nil, err
		}
	}

	def.Detectors = slices.Clone(def.Detectors)
	def.Invariants = slices.Clone(def.Invariants)

	rs := &RuleSet{def: def, byKind: make([][]int, syntax.KindOther+1)}
	for k := range rs.byKind {
		for i, d := range def.Detectors {
			if len(d.Kinds) == 0 || slices.Contains(d.Kinds, syntax.Kind(k)) {
				rs.byKind[k] = append(rs.byKind[k], i)
			}
		}
	}
	return rs, nil
}

// MustRuleSet is NewRuleSet for package-level definitions; it panics on
// an invalid definition.
func MustRuleSet(def Definition) *RuleSet {
	rs, err := NewRuleSet(def)
	if err != nil {
		panic(err)
	}
	return rs
}

// Slug returns the exercise identifier.
func (rs *RuleSet) Slug() string { return rs.def.Slug }

// Namespace returns the comment namespace.
func (rs *RuleSet) Namespace() string { return rs.def.Namespace }

// Lint reports whether secondary linter comments apply.
func (rs *RuleSet) Lint() bool { return rs.def.Lint }

// Fallback returns the comment used when nothing else was found.
func (rs *RuleSet) Fallback() (comment.Comment, bool) {
	if rs.def.Fallback == nil {
		return comment.Comment{}, false
	}
	return rs.def.Fallback.Clone(), true
}

// Vocabulary lists every comment ID the rule set can emit, in declaration order.
func (rs *RuleSet) Vocabulary() []comment.ID {
	var out []comment.ID
	for _, d := range rs.def.Detectors {
		if !d.Emits.IsZero() {
			out = append(out, d.Emits)
		}
	}
	for _, inv := range rs.def.Invariants {
		out = append(out, inv.Emits)
	}
	if rs.def.Fallback != nil {
		out = append(out, rs.def.Fallback.ID)
	}
	return out
}

// Run is the state of one evaluation.
type Run struct {
	comments comment.Set
	scratch  *Scratch
	visited  int
}

// Comments returns the comments raised so far, in detection order.
func (r *Run) Comments() []comment.Comment { return r.comments.Comments() }

// Scratch returns the run's observations.
func (r *Run) Scratch() *Scratch { return r.scratch }

// Visited returns the number of nodes traversed.
func (r *Run) Visited() int { return r.visited }

// Evaluate runs every detector against every node in one pre-order pass.
//
// For each node, detectors are offered the node in declared order. A
// detector is skipped when its comment was already raised (checked before
// the match function runs) or when a required flag is not yet set.
func (rs *RuleSet) Evaluate(tree *syntax.Tree) *Run {
	run := &Run{scratch: newScratch()}
	if tree == nil {
		return run
	}

	for node := range tree.Nodes() {
		run.visited++
		k := node.Kind()
		if k < 0 || int(k) >= len(rs.byKind) {
			continue
		}
		for _, i := range rs.byKind[k] {
			d := &rs.def.Detectors[i]
			if !d.Emits.IsZero() && run.comments.Has(d.Emits) {
				continue
			}
			if d.Emits.IsZero() && allSet(run.scratch, d.Sets) {
				continue
			}
			if !allSet(run.scratch, d.Requires) {
				continue
			}
			params, ok := safeMatch(rs.def.Slug, d, node, run.scratch)
			if !ok {
				continue
			}
			for _, f := range d.Sets {
				run.scratch.Set(f)
			}
			if !d.Emits.IsZero() {
				run.comments.Add(comment.New(d.Emits, d.Severity, params))
			}
		}
	}
	return run
}

// Invariants evaluates the whole-tree rules in declared order, appending a
// comment for each one that does not hold.
func (rs *RuleSet) Invariants(run *Run) {
	for _, inv := range rs.def.Invariants {
		if run.comments.Has(inv.Emits) {
			continue
		}
		if !inv.Holds(run.scratch) {
			run.comments.Add(comment.New(inv.Emits, inv.Severity, nil))
		}
	}
}

// IsIdeal reports whether the run observed the preferred idiom.
func (rs *RuleSet) IsIdeal(run *Run) bool {
	if rs.def.Ideal == nil {
		return false
	}
	return rs.def.Ideal(run.scratch)
}

func allSet(s *Scratch, flags []Flag) bool {
	for _, f := range flags {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// safeMatch runs a detector, treating a panic as "no match".
func safeMatch(slug string, d *Detector, node syntax.Node, s *Scratch) (params comment.Params, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("detector panicked; treating as no match",
				slog.String("exercise", slug),
				slog.String("detector", d.Name),
				slog.String("node", node.Kind().String()),
				slog.Any("panic", r))
			params, ok = nil, false
		}
	}()
	return d.Match(node, s)
}
