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
	"time"

	"github.com/AleutianAI/analyzer/services/analyzer/server"
	"github.com/AleutianAI/analyzer/services/analyzer/telemetry"
)

// AnalyzerConfig is the analyzer.yaml document.
type AnalyzerConfig struct {
	Log        LogConfig        `yaml:"log"`
	Parser     ParserConfig     `yaml:"parser"`
	Lint       LintConfig       `yaml:"lint"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Batch      BatchConfig      `yaml:"batch"`
	Server     server.Config    `yaml:"server"`
	Telemetry  telemetry.Config `yaml:"telemetry"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir,omitempty"`
}

type ParserConfig struct {
	MaxFileSize int64         `yaml:"max_file_size" validate:"gt=0"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
}

type LintConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command" validate:"required_if=Enabled true"`
	RCFile  string        `yaml:"rcfile,omitempty"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`

	// Args are passed to pylint before the file path.
	Args       []string `yaml:"args,omitempty"`
	WorkingDir string   `yaml:"working_dir,omitempty"`

	// MessagesDir overrides the built-in message documentation.
	MessagesDir string `yaml:"messages_dir,omitempty"`
}

type ClassifierConfig struct {
	// Policy is "ladder" (four-tier) or "binary".
	Policy string `yaml:"policy" validate:"oneof=ladder binary"`
}

type BatchConfig struct {
	// Concurrency bounds parallel runs; 0 means GOMAXPROCS.
	Concurrency int `yaml:"concurrency" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() AnalyzerConfig {
	tel := telemetry.DefaultConfig()
	return AnalyzerConfig{
		Log: LogConfig{
			Level: "info",
		},
		Parser: ParserConfig{
			MaxFileSize: 1 << 20,
			Timeout:     5 * time.Second,
		},
		Lint: LintConfig{
			Enabled: true,
			Command: "pylint",
			Timeout: 30 * time.Second,
		},
		Classifier: ClassifierConfig{
			Policy: "ladder",
		},
		Server:    server.DefaultConfig(),
		Telemetry: tel,
	}
}
