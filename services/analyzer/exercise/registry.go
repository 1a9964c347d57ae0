// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package exercise

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/AleutianAI/analyzer/services/analyzer/rules"
)

// Registry maps exercise slugs to rule sets. It is closed: the set of
// exercises is fixed at construction.
//
// Thread Safety: Read-only after construction; safe for concurrent use.
type Registry struct {
	sets  map[string]*rules.RuleSet
	slugs []string
}

// NewRegistry builds a Registry from sets.
//
// Outputs:
//
//	*Registry - The registry.
//	error     - ErrDuplicateSlug for a repeated slug, or an error for a
//	            nil rule set.
func NewRegistry(sets ...*rules.RuleSet) (*Registry, error) {
	r := &Registry{sets: make(map[string]*rules.RuleSet, len(sets))}
	for i, rs := range sets {
		if rs == nil {
			return nil, fmt.Errorf("rule set %d is nil", i)
		}
		if _, dup := r.sets[rs.Slug()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, rs.Slug())
		}
		r.sets[rs.Slug()] = rs
		r.slugs = append(r.slugs, rs.Slug())
	}
	slices.Sort(r.slugs)
	return r, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry of every built-in exercise.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := NewRegistry(rules.All()...)
		if err != nil {
			panic(fmt.Sprintf("built-in exercise registry: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Lookup returns the rule set for slug.
func (r *Registry) Lookup(slug string) (*rules.RuleSet, error) {
	rs, ok := r.sets[slug]
	if !ok {
		return nil, &NotFoundError{Slug: slug, Known: r.Slugs()}
	}
	return rs, nil
}

// Has reports whether slug is registered.
func (r *Registry) Has(slug string) bool {
	_, ok := r.sets[slug]
	return ok
}

// Slugs returns the registered slugs in sorted order.
func (r *Registry) Slugs() []string {
	return slices.Clone(r.slugs)
}

// Len returns the number of registered exercises.
func (r *Registry) Len() int {
	return len(r.slugs)
}

// NotFoundError reports an unknown slug together with the known ones.
// errors.Is(err, ErrRuleSetNotFound) is true.
type NotFoundError struct {
	Slug  string
	Known []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q (one of: %v)", ErrRuleSetNotFound, e.Slug, e.Known)
}

// Is makes NotFoundError match ErrRuleSetNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrRuleSetNotFound
}

// IsNotFound reports whether err is a registry miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRuleSetNotFound)
}
