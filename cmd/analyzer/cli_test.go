// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const idealTwoFer = "def two_fer(name=\"you\"):\n    return f\"One for {name}, one for me.\"\n"

// execute runs the root command with an isolated HOME so no user config
// is picked up.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"ANALYZER_LOG_LEVEL", "ANALYZER_LINT", "ANALYZER_CLASSIFIER", "OTEL_TRACES_EXPORTER", "OTEL_METRICS_EXPORTER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeSubmission(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestRun_WritesAnalysis(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeSubmission(t, in, "two_fer.py", idealTwoFer)

	_, _, err := execute(t, "--no-lint", "run", "two-fer", in, out)
	require.NoError(t, err)

	result, err := analysis.ReadFile(filepath.Join(out, analysis.FileName))
	require.NoError(t, err)
	assert.Equal(t, analysis.Celebrate, result.Summary())
	assert.Empty(t, result.Comments())
}

func TestRun_MissingSubmissionStillSucceeds(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	_, _, err := execute(t, "--no-lint", "run", "two-fer", in, out)
	require.NoError(t, err)

	result, err := analysis.ReadFile(filepath.Join(out, analysis.FileName))
	require.NoError(t, err)
	assert.Equal(t, analysis.Require, result.Summary())
	require.Len(t, result.Comments(), 1)
	assert.Equal(t, comment.NoModule, result.Comments()[0].ID)
}

func TestRun_UnknownExercise(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	_, _, err := execute(t, "--no-lint", "run", "no-such-exercise", in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-exercise")

	_, statErr := os.Stat(filepath.Join(out, analysis.FileName))
	assert.True(t, os.IsNotExist(statErr), "nothing is written for an unknown exercise")
}

func TestRun_InputMustBeDirectory(t *testing.T) {
	out := t.TempDir()
	_, _, err := execute(t, "--no-lint", "run", "two-fer", filepath.Join(out, "missing"), out)
	assert.Error(t, err)
}

func TestRun_BinaryPolicy(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeSubmission(t, in, "two_fer.py", "def two_fer(name=\"you\"):\n    return \"One for %s, one for me.\" % name\n")

	_, _, err := execute(t, "--no-lint", "--policy", "binary", "run", "two-fer", in, out)
	require.NoError(t, err)

	result, err := analysis.ReadFile(filepath.Join(out, analysis.FileName))
	require.NoError(t, err)
	assert.Equal(t, analysis.Inform, result.Summary())
}

func TestList(t *testing.T) {
	stdout, _, err := execute(t, "--no-lint", "list")
	require.NoError(t, err)
	assert.Equal(t, "ghost-gobble-arcade-game\nprocessing-logs\ntwo-fer\n", stdout)
}

func TestList_Verbose(t *testing.T) {
	stdout, _, err := execute(t, "--no-lint", "list", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "two-fer")
	assert.Contains(t, stdout, "python.two-fer.no_method")
}

func TestShow(t *testing.T) {
	dir := t.TempDir()
	want := analysis.RequireWith(comment.New(comment.NoModule, comment.Essential, nil))
	_, err := analysis.WriteFile(dir, want)
	require.NoError(t, err)

	t.Run("rendered", func(t *testing.T) {
		stdout, _, err := execute(t, "--no-lint", "show", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "REQUIRE")
		assert.Contains(t, stdout, "python.general.no_module")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "--no-lint", "show", "--json", filepath.Join(dir, analysis.FileName))
		require.NoError(t, err)
		data, err := analysis.Encode(want)
		require.NoError(t, err)
		assert.Equal(t, string(data), stdout)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := execute(t, "--no-lint", "show", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestBatch_OutDir(t *testing.T) {
	root := t.TempDir()
	alice := filepath.Join(root, "alice")
	bob := filepath.Join(root, "bob")
	require.NoError(t, os.Mkdir(alice, 0o755))
	require.NoError(t, os.Mkdir(bob, 0o755))
	writeSubmission(t, alice, "two_fer.py", idealTwoFer)
	writeSubmission(t, bob, "two_fer.py", "def two_fer(name=\"you\"\n")

	results := filepath.Join(root, "results")
	stdout, _, err := execute(t, "--no-lint", "batch", "two-fer", alice, bob, "--out-dir", results, "-j", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "celebrate")
	assert.Contains(t, stdout, "require")

	a, err := analysis.ReadFile(filepath.Join(results, "alice", analysis.FileName))
	require.NoError(t, err)
	assert.Equal(t, analysis.Celebrate, a.Summary())

	b, err := analysis.ReadFile(filepath.Join(results, "bob", analysis.FileName))
	require.NoError(t, err)
	assert.Equal(t, analysis.Require, b.Summary())
	require.Len(t, b.Comments(), 1)
	assert.Equal(t, comment.MalformedCode, b.Comments()[0].ID)
}

func TestBatch_InPlace(t *testing.T) {
	dir := t.TempDir()
	writeSubmission(t, dir, "two_fer.py", idealTwoFer)

	_, _, err := execute(t, "--no-lint", "batch", "two-fer", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, analysis.FileName))
}

func TestConfig_InitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "analyzer.yaml")

	stdout, _, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, _, err = execute(t, "--config", path, "config", "init")
	assert.Error(t, err, "init must not overwrite an existing file")

	stdout, _, err = execute(t, "--config", path, "--policy", "binary", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "policy: binary")
}

func TestInvalidPolicyFlag(t *testing.T) {
	_, _, err := execute(t, "--policy", "lenient", "list")
	assert.Error(t, err)
}
