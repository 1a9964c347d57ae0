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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
)

func waitResult(t *testing.T, ch <-chan BatchResult) BatchResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch run")
		return BatchResult{}
	}
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "two_fer.py")
	require.NoError(t, os.WriteFile(src, []byte(
		"def two_fer(name=\"you\"):\n    return f\"One for {name}, one for me.\"\n"), 0o644))

	desc, err := NewDescriptor("two-fer", dir, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan BatchResult, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Default(), desc, NewPipeline(WithoutLint()),
			WatchOptions{Debounce: 20 * time.Millisecond, RunOnStart: true},
			func(r BatchResult) { results <- r })
	}()

	first := waitResult(t, results)
	require.NoError(t, first.Err)
	assert.Equal(t, analysis.Celebrate, first.Result.Summary())

	require.NoError(t, os.WriteFile(src, []byte("def two_fer(name=\"you\"):\n    return (\n"), 0o644))

	second := waitResult(t, results)
	require.NoError(t, second.Err)
	assert.Equal(t, analysis.Require, second.Result.Summary())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_UnknownExercise(t *testing.T) {
	desc := Descriptor{Slug: "nope", InputPath: t.TempDir(), OutputDir: t.TempDir()}
	err := Watch(context.Background(), Default(), desc, nil, WatchOptions{}, nil)
	assert.ErrorIs(t, err, ErrRuleSetNotFound)
}

func TestWatch_MissingInputDir(t *testing.T) {
	desc := Descriptor{Slug: "two-fer", InputPath: filepath.Join(t.TempDir(), "gone", "two_fer.py"), OutputDir: t.TempDir()}
	err := Watch(context.Background(), Default(), desc, nil, WatchOptions{}, nil)
	assert.Error(t, err)
}
