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
	"errors"
	"fmt"
)

// Sentinel errors for lint operations.
var (
	// ErrLinterNotInstalled indicates pylint is not on PATH.
	ErrLinterNotInstalled = errors.New("linter not installed")

	// ErrLinterTimeout indicates pylint exceeded its time budget.
	ErrLinterTimeout = errors.New("linter timeout")

	// ErrLinterFailed indicates pylint exited without producing output.
	ErrLinterFailed = errors.New("linter execution failed")

	// ErrParseOutput indicates pylint output could not be decoded.
	ErrParseOutput = errors.New("failed to parse linter output")

	// ErrInvalidInput indicates a nil context or empty path.
	ErrInvalidInput = errors.New("invalid input")
)

// LinterError carries the linter name and captured stderr alongside the
// underlying sentinel.
type LinterError struct {
	Linter string
	Err    error
	Output string
}

func (e *LinterError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Linter, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Linter, e.Err)
}

// Unwrap returns the underlying error for errors.Is.
func (e *LinterError) Unwrap() error {
	return e.Err
}

// NewLinterError creates a LinterError.
func NewLinterError(linter string, err error) *LinterError {
	return &LinterError{Linter: linter, Err: err}
}

// WithOutput returns a copy carrying the captured output.
func (e *LinterError) WithOutput(output string) *LinterError {
	return &LinterError{Linter: e.Linter, Err: e.Err, Output: output}
}
