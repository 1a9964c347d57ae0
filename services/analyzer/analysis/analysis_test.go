// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

func mk(sev comment.Severity, key string) comment.Comment {
	return comment.New(comment.NewID("two-fer", key), sev, nil)
}

// =============================================================================
// Classify Tests
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		comments []comment.Comment
		ideal    bool
		want     Verdict
	}{
		{"empty and ideal", nil, true, Celebrate},
		{"empty not ideal", nil, false, Inform},
		{"only informative", []comment.Comment{mk(comment.Informative, "a")}, true, Inform},
		{"only celebratory", []comment.Comment{mk(comment.Celebratory, "a")}, true, Inform},
		{"actionable", []comment.Comment{mk(comment.Informative, "a"), mk(comment.Actionable, "b")}, false, Direct},
		{"essential wins", []comment.Comment{mk(comment.Actionable, "a"), mk(comment.Essential, "b")}, true, Require},
		{"essential first", []comment.Comment{mk(comment.Essential, "a"), mk(comment.Informative, "b")}, false, Require},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.comments, tt.ideal))
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	// Adding a comment never lowers the verdict below the highest severity present.
	base := []comment.Comment{mk(comment.Actionable, "a")}
	for _, sev := range []comment.Severity{comment.Celebratory, comment.Informative, comment.Actionable, comment.Essential} {
		with := append([]comment.Comment{}, base...)
		with = append(with, mk(sev, "b"))
		assert.GreaterOrEqual(t, Classify(with, true), Classify(base, true), sev.String())
	}
}

func TestPolicy_Binary(t *testing.T) {
	assert.Equal(t, Inform, PolicyBinary.Classify(nil, true))
	assert.Equal(t, Inform, PolicyBinary.Classify([]comment.Comment{mk(comment.Actionable, "a")}, false))
	assert.Equal(t, Require, PolicyBinary.Classify([]comment.Comment{mk(comment.Essential, "a")}, false))
	assert.Equal(t, Celebrate, PolicyLadder.Classify(nil, true))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLadder, p)

	p, err = ParsePolicy("Binary")
	require.NoError(t, err)
	assert.Equal(t, PolicyBinary, p)

	_, err = ParsePolicy("weighted")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

// =============================================================================
// Verdict Tests
// =============================================================================

func TestVerdict_Names(t *testing.T) {
	for _, v := range []Verdict{Celebrate, Inform, Direct, Require} {
		parsed, err := ParseVerdict(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	assert.True(t, Direct.Approvable())
	assert.False(t, Require.Approvable())
	_, err := ParseVerdict("approve")
	assert.ErrorIs(t, err, ErrUnknownVerdict)
}

// =============================================================================
// Result Tests
// =============================================================================

func TestResult_JSONSchema(t *testing.T) {
	r := NewResult(Direct, []comment.Comment{
		comment.New(comment.NewID("two-fer", "conditionals"), comment.Actionable, comment.Params{"lineno": 3}),
	})

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary": "direct",
		"comments": [
			{"comment": "python.two-fer.conditionals", "type": "actionable", "params": {"lineno": 3}}
		]
	}`, string(data))
}

func TestResult_EmptyCommentsIsArray(t *testing.T) {
	data, err := json.Marshal(NewResult(Celebrate, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"celebrate","comments":[]}`, string(data))
}

func TestResult_Immutable(t *testing.T) {
	in := []comment.Comment{mk(comment.Essential, "a")}
	r := NewResult(Require, in)
	in[0] = mk(comment.Informative, "z")

	out := r.Comments()
	out[0] = mk(comment.Informative, "y")

	assert.Equal(t, "a", r.Comments()[0].ID.Key)
}

func TestRequireWith(t *testing.T) {
	r := RequireWith(comment.New(comment.MalformedCode, comment.Essential, nil))
	assert.Equal(t, Require, r.Summary())
	assert.False(t, r.Approvable())
	require.Len(t, r.Comments(), 1)
	assert.Equal(t, comment.MalformedCode, r.Comments()[0].ID)
}

// =============================================================================
// Persistence Tests
// =============================================================================

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := NewResult(Require, []comment.Comment{comment.New(comment.NoModule, comment.Essential, nil)})

	path, err := WriteFile(dir, r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"summary\": \"require\"")

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Require, back.Summary())
	require.Len(t, back.Comments(), 1)
	assert.Equal(t, comment.NoModule, back.Comments()[0].ID)
	assert.Equal(t, comment.Params{}, back.Comments()[0].Params)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	r := NewResult(Inform, []comment.Comment{mk(comment.Informative, "a")})

	p1, err := WriteFile(dir, r)
	require.NoError(t, err)
	first, _ := os.ReadFile(p1)

	p2, err := WriteFile(dir, r)
	require.NoError(t, err)
	second, _ := os.ReadFile(p2)

	assert.Equal(t, first, second)
}

func TestWriteFile_MissingDir(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "nope"), NewResult(Inform, nil))
	assert.ErrorIs(t, err, ErrOutputDir)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	_, err = WriteFile(file, NewResult(Inform, nil))
	assert.ErrorIs(t, err, ErrOutputDir)
}
