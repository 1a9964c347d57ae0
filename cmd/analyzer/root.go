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
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/analyzer/cmd/analyzer/config"
	"github.com/AleutianAI/analyzer/pkg/logging"
	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
	"github.com/AleutianAI/analyzer/services/analyzer/exercise"
	"github.com/AleutianAI/analyzer/services/analyzer/lint"
	"github.com/AleutianAI/analyzer/services/analyzer/syntax"
	"github.com/AleutianAI/analyzer/services/analyzer/telemetry"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	// flags
	configPath string
	logLevel   string
	noLint     bool
	policy     string

	cfg      config.AnalyzerConfig
	logger   *logging.Logger
	shutdown func(context.Context) error
	registry *exercise.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{registry: exercise.Default()}

	root := &cobra.Command{
		Use:   "analyzer",
		Short: "Automatic feedback for Python exercise submissions",
		Long: `analyzer inspects a submitted Python solution with exercise-specific
rules and pylint, then writes analysis.json with a summary verdict
(celebrate, inform, direct, require) and the comments behind it.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/.analyzer/analyzer.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.noLint, "no-lint", false, "skip pylint comments")
	flags.StringVar(&a.policy, "policy", "", "classification policy: ladder or binary")

	root.AddCommand(
		newRunCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	if a.noLint {
		cfg.Lint.Enabled = false
	}
	if a.policy != "" {
		cfg.Classifier.Policy = a.policy
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: "analyzer",
		JSON:    cfg.Log.JSON,
		Output:  cmd.ErrOrStderr(),
	}).Install()

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.shutdown != nil {
		if err := a.shutdown(context.WithoutCancel(cmd.Context())); err != nil {
			a.logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}
	if a.logger != nil {
		return a.logger.Close()
	}
	return nil
}

// linter builds the pylint runner, or nil when linting is disabled.
func (a *app) linter() (*lint.Runner, error) {
	if !a.cfg.Lint.Enabled {
		return nil, nil
	}
	opts := []lint.Option{
		lint.WithCommand(a.cfg.Lint.Command),
		lint.WithRCFile(a.cfg.Lint.RCFile),
		lint.WithTimeout(a.cfg.Lint.Timeout),
		lint.WithArgs(a.cfg.Lint.Args...),
		lint.WithWorkingDir(a.cfg.Lint.WorkingDir),
	}
	if a.cfg.Lint.MessagesDir != "" {
		catalog, err := lint.DirCatalog(a.cfg.Lint.MessagesDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lint.WithCatalog(catalog))
	}
	return lint.NewRunner(opts...), nil
}

// pipeline builds the analysis pipeline from the loaded config.
func (a *app) pipeline() (*exercise.Pipeline, *lint.Runner, error) {
	policy, err := analysis.ParsePolicy(a.cfg.Classifier.Policy)
	if err != nil {
		return nil, nil, err
	}
	runner, err := a.linter()
	if err != nil {
		return nil, nil, err
	}

	opts := []exercise.PipelineOption{
		exercise.WithParser(syntax.NewParser(
			syntax.WithMaxFileSize(a.cfg.Parser.MaxFileSize),
			syntax.WithTimeout(a.cfg.Parser.Timeout),
		)),
		exercise.WithPolicy(policy),
	}
	if runner != nil {
		opts = append(opts, exercise.WithLinter(runner))
	} else {
		opts = append(opts, exercise.WithoutLint())
	}
	return exercise.NewPipeline(opts...), runner, nil
}

// exerciseArg validates the EXERCISE positional argument against the
// registry before anything is read.
func (a *app) exerciseArg(slug string) error {
	if a.registry.Has(slug) {
		return nil
	}
	_, err := a.registry.Lookup(slug)
	return err
}
