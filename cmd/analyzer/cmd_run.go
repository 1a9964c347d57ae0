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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/analyzer/services/analyzer/exercise"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run EXERCISE IN OUT",
		Short: "Analyze one submission and write OUT/analysis.json",
		Long: `Analyze the submission IN/<exercise>.py (dashes in EXERCISE become
underscores) and write OUT/analysis.json.

The command exits 0 whenever the analysis ran, including for missing or
unparseable submissions; those are reported in analysis.json.`,
		Example: "  analyzer run two-fer ./solution ./solution/output",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, in, out := args[0], args[1], args[2]
			if err := a.exerciseArg(slug); err != nil {
				return err
			}
			for _, dir := range []string{in, out} {
				if err := requireDir(dir); err != nil {
					return err
				}
			}

			desc, err := exercise.NewDescriptor(slug, in, out)
			if err != nil {
				return err
			}
			p, _, err := a.pipeline()
			if err != nil {
				return err
			}

			result, path, err := exercise.Run(cmd.Context(), a.registry, desc, p)
			if err != nil {
				return err
			}
			a.logger.Info("Analysis complete",
				"exercise", slug,
				"summary", result.Summary().String(),
				"path", path)
			return nil
		},
	}
}

// requireDir reports a path that is not an existing directory.
func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s must be a directory: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s must be a directory", path)
	}
	return nil
}
