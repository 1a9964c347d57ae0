// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package exercise resolves an exercise slug to its rule set and runs the
// analysis pipeline for one submission.
//
// # Pipeline
//
//	read file ─► parse ─► detectors ─► invariants ─► lint ─► fallback ─► classify
//	   │           │
//	   │           └─ parse failure: Require [malformed_code]
//	   └─ missing:     Require [no_module]
//
// Every recoverable condition ends as a comment in the Result; only an
// unknown exercise or misuse of the Dispatcher is an error.
package exercise

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
	"github.com/AleutianAI/analyzer/services/analyzer/comment"
	"github.com/AleutianAI/analyzer/services/analyzer/lint"
	"github.com/AleutianAI/analyzer/services/analyzer/rules"
	"github.com/AleutianAI/analyzer/services/analyzer/syntax"
)

// Linter produces secondary comments for a submission.
type Linter interface {
	// Lint lints a file on disk.
	Lint(ctx context.Context, filePath string) ([]comment.Comment, error)

	// LintContent lints source held in memory.
	LintContent(ctx context.Context, content []byte) ([]comment.Comment, error)
}

var _ Linter = (*lint.Runner)(nil)

// Pipeline runs one submission through a rule set.
//
// Thread Safety: Safe for concurrent use. A Pipeline holds configuration
// only; every Analyze call owns its own tree, scratch, and comment set.
type Pipeline struct {
	parser *syntax.Parser
	linter Linter
	policy analysis.Policy
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithParser replaces the default parser.
func WithParser(p *syntax.Parser) PipelineOption {
	return func(pl *Pipeline) {
		if p != nil {
			pl.parser = p
		}
	}
}

// WithLinter replaces the default pylint runner. Nil disables linting.
func WithLinter(l Linter) PipelineOption {
	return func(pl *Pipeline) {
		pl.linter = l
	}
}

// WithoutLint disables secondary lint comments.
func WithoutLint() PipelineOption {
	return WithLinter(nil)
}

// WithPolicy selects the classification policy.
func WithPolicy(p analysis.Policy) PipelineOption {
	return func(pl *Pipeline) {
		pl.policy = p
	}
}

// NewPipeline creates a Pipeline. The defaults are a default parser, the
// pylint runner, and the four-tier ladder.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		parser: syntax.NewParser(),
		linter: lint.NewRunner(),
		policy: analysis.PolicyLadder,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnalyzeFile reads the submission at path and analyzes it.
//
// A file that cannot be read yields Require [no_module] without parsing.
func (p *Pipeline) AnalyzeFile(ctx context.Context, rs *rules.RuleSet, path string) analysis.Result {
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Submission not found",
				slog.String("exercise", rs.Slug()),
				slog.String("path", path))
		} else {
			slog.Warn("Submission unreadable",
				slog.String("exercise", rs.Slug()),
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return analysis.RequireWith(comment.New(comment.NoModule, comment.Essential, nil))
	}
	return p.analyze(ctx, rs, source, path)
}

// Analyze analyzes source held in memory. path is used for lint and
// logging; empty means the source has no file on disk.
//
// Description:
//
//	Parses the source; a parse failure yields Require [malformed_code] and
//	the rule set is never invoked. Otherwise detectors run in one
//	traversal, then invariants, then lint comments are appended when the
//	rule set asks for them. The rule set's fallback comment is used if the
//	list is still empty. The verdict comes from the pipeline's policy.
//
// Inputs:
//
//	ctx    - Context for cancellation. Must not be nil.
//	rs     - The exercise rule set.
//	source - Python source.
//	path   - File path of source, or "".
//
// Outputs:
//
//	analysis.Result - Never an error; failures are findings.
func (p *Pipeline) Analyze(ctx context.Context, rs *rules.RuleSet, source []byte, path string) analysis.Result {
	return p.analyze(ctx, rs, source, path)
}

func (p *Pipeline) analyze(ctx context.Context, rs *rules.RuleSet, source []byte, path string) analysis.Result {
	ctx, span := startAnalyzeSpan(ctx, rs.Slug(), path)
	defer span.End()
	start := time.Now()

	result := p.evaluate(ctx, rs, source, path)

	setAnalyzeSpanResult(span, result)
	recordAnalyzeMetrics(ctx, rs.Slug(), result, time.Since(start))
	slog.Debug("Analysis complete",
		slog.String("exercise", rs.Slug()),
		slog.String("path", path),
		slog.String("summary", result.Summary().String()),
		slog.Int("comments", len(result.Comments())),
		slog.Duration("duration", time.Since(start)))
	return result
}

func (p *Pipeline) evaluate(ctx context.Context, rs *rules.RuleSet, source []byte, path string) analysis.Result {
	tree, err := p.parser.Parse(ctx, source, path)
	if err != nil {
		slog.Info("Submission does not parse",
			slog.String("exercise", rs.Slug()),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return analysis.RequireWith(comment.New(comment.MalformedCode, comment.Essential, nil))
	}

	run := rs.Evaluate(tree)
	rs.Invariants(run)
	ideal := rs.IsIdeal(run)

	var set comment.Set
	for _, c := range run.Comments() {
		set.Add(c)
	}

	if rs.Lint() && p.linter != nil {
		for _, c := range p.lint(ctx, source, path) {
			set.Add(c)
		}
	}

	if set.Len() == 0 {
		if fb, ok := rs.Fallback(); ok {
			set.Add(fb)
		}
	}

	comments := set.Comments()
	return analysis.NewResult(p.policy.Classify(comments, ideal), comments)
}

// lint returns nil on any failure; the runner has already logged why.
func (p *Pipeline) lint(ctx context.Context, source []byte, path string) []comment.Comment {
	var (
		comments []comment.Comment
		err      error
	)
	if path != "" {
		comments, err = p.linter.Lint(ctx, path)
	} else {
		comments, err = p.linter.LintContent(ctx, source)
	}
	if err != nil {
		return nil
	}
	return comments
}
