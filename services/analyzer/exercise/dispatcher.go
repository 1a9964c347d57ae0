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
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
	"github.com/AleutianAI/analyzer/services/analyzer/rules"
)

// State is the lifecycle position of a Dispatcher.
type State int

const (
	// Unresolved: the slug has not been looked up.
	Unresolved State = iota

	// Loaded: the rule set is resolved; nothing has been parsed.
	Loaded

	// Executed: the analysis ran and analysis.json was written.
	Executed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Loaded:
		return "loaded"
	case Executed:
		return "executed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dispatcher drives one submission through Unresolved → Loaded → Executed.
//
// Thread Safety: Safe for concurrent use, though a Dispatcher describes a
// single run and is normally used by one goroutine.
type Dispatcher struct {
	id       string
	registry *Registry
	desc     Descriptor
	pipeline *Pipeline

	mu      sync.Mutex
	state   State
	ruleSet *rules.RuleSet
	result  analysis.Result
	outPath string
}

// NewDispatcher creates a Dispatcher in the Unresolved state. A nil
// pipeline means NewPipeline().
func NewDispatcher(reg *Registry, desc Descriptor, p *Pipeline) *Dispatcher {
	if reg == nil {
		reg = Default()
	}
	if p == nil {
		p = NewPipeline()
	}
	return &Dispatcher{
		id:       uuid.NewString(),
		registry: reg,
		desc:     desc,
		pipeline: p,
	}
}

// ID returns the run identifier used in logs.
func (d *Dispatcher) ID() string { return d.id }

// Descriptor returns the submission being analyzed.
func (d *Dispatcher) Descriptor() Descriptor { return d.desc }

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Load resolves the exercise slug. An unknown slug returns
// ErrRuleSetNotFound before anything is read or parsed. Loading twice is a
// no-op.
func (d *Dispatcher) Load() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Unresolved {
		return nil
	}
	rs, err := d.registry.Lookup(d.desc.Slug)
	if err != nil {
		return err
	}
	d.ruleSet = rs
	d.state = Loaded
	return nil
}

// Execute analyzes the submission and writes analysis.json to the output
// directory.
//
// Outputs:
//
//	analysis.Result - The result, also persisted.
//	error           - ErrNotLoaded, ErrAlreadyExecuted, or a write error.
//	                  A failed write leaves the Dispatcher in Loaded so the
//	                  run can be retried.
func (d *Dispatcher) Execute(ctx context.Context) (analysis.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Unresolved:
		return analysis.Result{}, ErrNotLoaded
	case Executed:
		return analysis.Result{}, ErrAlreadyExecuted
	}

	logger := slog.With(
		slog.String("run_id", d.id),
		slog.String("exercise", d.desc.Slug))

	result := d.pipeline.AnalyzeFile(ctx, d.ruleSet, d.desc.InputPath)

	path, err := analysis.WriteFile(d.desc.OutputDir, result)
	if err != nil {
		logger.Error("Writing analysis failed",
			slog.String("output_dir", d.desc.OutputDir),
			slog.String("error", err.Error()))
		return result, err
	}

	d.result = result
	d.outPath = path
	d.state = Executed
	logger.Info("Analysis written",
		slog.String("path", path),
		slog.String("summary", result.Summary().String()),
		slog.Int("comments", len(result.Comments())))
	return result, nil
}

// Result returns the persisted result and its path. ok is false before a
// successful Execute.
func (d *Dispatcher) Result() (result analysis.Result, path string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Executed {
		return analysis.Result{}, "", false
	}
	return d.result, d.outPath, true
}

// Run loads and executes desc in one call.
func Run(ctx context.Context, reg *Registry, desc Descriptor, p *Pipeline) (analysis.Result, string, error) {
	d := NewDispatcher(reg, desc, p)
	if err := d.Load(); err != nil {
		return analysis.Result{}, "", err
	}
	result, err := d.Execute(ctx)
	if err != nil {
		return result, "", err
	}
	_, path, _ := d.Result()
	return result, path, nil
}
