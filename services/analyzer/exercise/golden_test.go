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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// goldenCase is one directory under testdata/<slug>/<case>.
type goldenCase struct {
	slug   string
	name   string
	dir    string
	golden string
}

func goldenCases(t *testing.T) []goldenCase {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("testdata", "*", "*", "analysis.json"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	cases := make([]goldenCase, 0, len(matches))
	for _, golden := range matches {
		dir := filepath.Dir(golden)
		cases = append(cases, goldenCase{
			slug:   filepath.Base(filepath.Dir(dir)),
			name:   filepath.Base(dir),
			dir:    dir,
			golden: golden,
		})
	}
	return cases
}

func decodeJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), path)
	return out
}

// TestGolden runs every testdata submission through the full dispatcher
// and compares the written analysis.json with the golden file.
func TestGolden(t *testing.T) {
	p := NewPipeline(WithoutLint())

	for _, gc := range goldenCases(t) {
		t.Run(gc.slug+"/"+gc.name, func(t *testing.T) {
			desc, err := NewDescriptor(gc.slug, gc.dir, t.TempDir())
			require.NoError(t, err)

			_, path, err := Run(context.Background(), Default(), desc, p)
			require.NoError(t, err, "analysis must complete even for bad submissions")

			want := decodeJSON(t, gc.golden)
			got := decodeJSON(t, path)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("analysis.json mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeBatch(t *testing.T) {
	cases := goldenCases(t)
	descs := make([]Descriptor, 0, len(cases)+1)
	for _, gc := range cases {
		desc, err := NewDescriptor(gc.slug, gc.dir, t.TempDir())
		require.NoError(t, err)
		descs = append(descs, desc)
	}
	unknown, err := NewDescriptor("hello-world", t.TempDir(), t.TempDir())
	require.NoError(t, err)
	descs = append(descs, unknown)

	results := AnalyzeBatch(context.Background(), nil, descs, NewPipeline(WithoutLint()), 3)
	require.Len(t, results, len(descs))

	for i, gc := range cases {
		r := results[i]
		assert.Equal(t, descs[i], r.Descriptor)
		require.NoError(t, r.Err, gc.dir)
		want := decodeJSON(t, gc.golden)
		got := decodeJSON(t, r.Path)
		assert.Empty(t, cmp.Diff(want, got), gc.dir)
	}

	last := results[len(results)-1]
	assert.ErrorIs(t, last.Err, ErrRuleSetNotFound)
	assert.Empty(t, last.Path)
}

func TestAnalyzeBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	desc, err := NewDescriptor("two-fer", t.TempDir(), t.TempDir())
	require.NoError(t, err)

	results := AnalyzeBatch(ctx, nil, []Descriptor{desc, desc}, NewPipeline(WithoutLint()), 0)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
