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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
	"github.com/AleutianAI/analyzer/services/analyzer/telemetry"
)

const (
	// DefaultCommand is the linter executable looked up on PATH.
	DefaultCommand = "pylint"

	// DefaultTimeout bounds one pylint invocation.
	DefaultTimeout = 30 * time.Second
)

// Runner executes pylint and converts its findings into comments.
//
// Thread Safety: Safe for concurrent use. Availability is probed once.
type Runner struct {
	command    string
	rcfile     string
	extraArgs  []string
	timeout    time.Duration
	workingDir string
	policy     *Policy
	catalog    *Catalog

	availOnce sync.Once
	available bool
	lookPath  func(string) (string, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommand overrides the linter executable.
func WithCommand(command string) Option {
	return func(r *Runner) {
		if command != "" {
			r.command = command
		}
	}
}

// WithRCFile passes --rcfile to pylint.
func WithRCFile(path string) Option {
	return func(r *Runner) {
		r.rcfile = path
	}
}

// WithArgs appends extra arguments before the file path.
func WithArgs(args ...string) Option {
	return func(r *Runner) {
		r.extraArgs = append(r.extraArgs, args...)
	}
}

// WithTimeout bounds one invocation. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithWorkingDir sets the directory pylint runs in. Default: the
// directory of the linted file.
func WithWorkingDir(dir string) Option {
	return func(r *Runner) {
		r.workingDir = dir
	}
}

// WithPolicy replaces DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(r *Runner) {
		r.policy = &p
	}
}

// WithCatalog replaces the embedded documentation catalog.
func WithCatalog(c *Catalog) Option {
	return func(r *Runner) {
		r.catalog = c
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		command:  DefaultCommand,
		timeout:  DefaultTimeout,
		policy:   &DefaultPolicy,
		catalog:  DefaultCatalog(),
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether the linter executable is on PATH. The probe
// runs once and its outcome is logged.
func (r *Runner) Available() bool {
	r.availOnce.Do(func() {
		_, err := r.lookPath(r.command)
		r.available = err == nil
		if r.available {
			slog.Info("Linter available", slog.String("command", r.command))
		} else {
			slog.Warn("Linter not installed; lint comments disabled", slog.String("command", r.command))
		}
	})
	return r.available
}

// Command returns the linter executable name.
func (r *Runner) Command() string { return r.command }

// Lint runs pylint on filePath and returns its comments.
//
// Description:
//
//	Any failure (linter missing, timeout, non-JSON output) yields nil
//	comments and an error describing why. Callers treat that as "no lint
//	comments" and carry on.
//
// Inputs:
//
//	ctx      - Context for cancellation. Must not be nil.
//	filePath - Python file to lint.
//
// Outputs:
//
//	[]comment.Comment - Converted comments in source order.
//	error             - Wraps one of the package sentinels.
func (r *Runner) Lint(ctx context.Context, filePath string) ([]comment.Comment, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}
	if filePath == "" {
		return nil, fmt.Errorf("%w: empty file path", ErrInvalidInput)
	}

	ctx, span := startLintSpan(ctx, r.command, filePath)
	defer span.End()
	start := time.Now()

	if !r.Available() {
		err := NewLinterError(r.command, ErrLinterNotInstalled)
		setLintSpanResult(span, 0, false)
		recordLintMetrics(ctx, time.Since(start), 0, false, "not_installed")
		return nil, err
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	output, err := r.execute(ctx, absPath)
	if err != nil {
		telemetry.RecordError(span, err)
		recordLintMetrics(ctx, time.Since(start), 0, false, outcomeOf(err))
		telemetry.LoggerWithTrace(ctx, nil).Warn("Lint failed; continuing without lint comments",
			slog.String("file", filePath),
			slog.String("error", err.Error()))
		return nil, err
	}

	msgs, err := ParsePylintJSON(output)
	if err != nil {
		telemetry.RecordError(span, err)
		recordLintMetrics(ctx, time.Since(start), 0, false, "parse_error")
		slog.Warn("Lint output undecodable; continuing without lint comments",
			slog.String("file", filePath),
			slog.String("error", err.Error()))
		return nil, NewLinterError(r.command, err)
	}

	comments := Convert(msgs, r.policy, r.catalog)

	setLintSpanResult(span, len(comments), true)
	telemetry.SetSpanOK(span)
	recordLintMetrics(ctx, time.Since(start), len(comments), true, "ok")
	slog.Debug("Lint completed",
		slog.String("file", filePath),
		slog.Duration("duration", time.Since(start)),
		slog.Int("messages", len(msgs)),
		slog.Int("comments", len(comments)))

	return comments, nil
}

// LintContent lints source held in memory by writing it to a temp file.
func (r *Runner) LintContent(ctx context.Context, content []byte) ([]comment.Comment, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	tmpFile, err := os.CreateTemp("", "analyzer-*.py")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	return r.Lint(ctx, tmpPath)
}

func (r *Runner) args(filePath string) []string {
	args := []string{"--output-format=json", "--score=n", "--persistent=n"}
	if r.rcfile != "" {
		args = append(args, "--rcfile="+r.rcfile)
	}
	args = append(args, r.extraArgs...)
	return append(args, filePath)
}

func (r *Runner) execute(ctx context.Context, filePath string) ([]byte, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, r.command, r.args(filePath)...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	} else {
		cmd.Dir = filepath.Dir(filePath)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, NewLinterError(r.command, ErrLinterTimeout).WithOutput(stderr.String())
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// pylint exits non-zero whenever it reports messages; only treat the
	// run as failed when nothing was written to stdout.
	if err != nil && stdout.Len() == 0 {
		return nil, NewLinterError(r.command, ErrLinterFailed).WithOutput(stderr.String())
	}

	return stdout.Bytes(), nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrLinterTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "failed"
	}
}
