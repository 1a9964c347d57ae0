// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Classifier.Policy != "ladder" {
		t.Errorf("Classifier.Policy = %q, want ladder", cfg.Classifier.Policy)
	}
	if !cfg.Lint.Enabled || cfg.Lint.Command != "pylint" {
		t.Errorf("Lint = %+v, want enabled pylint", cfg.Lint)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	content := "classifier:\n  policy: binary\nlint:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Classifier.Policy != "binary" {
		t.Errorf("Classifier.Policy = %q, want binary", cfg.Classifier.Policy)
	}
	if cfg.Lint.Enabled {
		t.Error("Lint.Enabled = true, want false")
	}
	if cfg.Parser.Timeout != 5*time.Second {
		t.Errorf("Parser.Timeout = %v, want default 5s", cfg.Parser.Timeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad policy", "classifier:\n  policy: strict\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad exporter", "telemetry:\n  trace_exporter: zipkin\n"},
		{"negative concurrency", "batch:\n  concurrency: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "analyzer.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoad_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ANALYZER_CLASSIFIER", "binary")
	t.Setenv("ANALYZER_LOG_LEVEL", "DEBUG")
	t.Setenv("ANALYZER_LINT", "false")
	t.Setenv("ANALYZER_LINT_TIMEOUT", "2s")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Classifier.Policy != "binary" {
		t.Errorf("Classifier.Policy = %q, want binary", cfg.Classifier.Policy)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Lint.Enabled {
		t.Error("Lint.Enabled = true, want false")
	}
	if cfg.Lint.Timeout != 2*time.Second {
		t.Errorf("Lint.Timeout = %v, want 2s", cfg.Lint.Timeout)
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("ANALYZER_LINT", "sometimes")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".analyzer", "analyzer.yaml")

	if err := CreateDefault(path); err != nil {
		t.Fatalf("CreateDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	var cfg AnalyzerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if cfg.Lint.Command != "pylint" {
		t.Errorf("Lint.Command = %q, want pylint", cfg.Lint.Command)
	}

	if err := CreateDefault(path); err == nil {
		t.Error("CreateDefault() over an existing file should fail")
	}
}
