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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/analyzer/services/analyzer/exercise"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch EXERCISE IN OUT",
		Short: "Re-analyze a submission every time it is saved",
		Long: `Analyze IN/<exercise>.py once, then again after every change to it,
until interrupted. Each run rewrites OUT/analysis.json and prints the
rendered result.`,
		Args: cobra.ExactArgs(3),
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

			w := cmd.OutOrStdout()
			a.logger.Info("Watching submission", "path", desc.InputPath)
			return exercise.Watch(cmd.Context(), a.registry, desc, p,
				exercise.WatchOptions{Debounce: debounce, RunOnStart: true},
				func(r exercise.BatchResult) {
					if r.Err != nil {
						fmt.Fprintf(w, "analysis failed: %v\n", r.Err)
						return
					}
					renderResult(w, r.Path, r.Result)
					fmt.Fprintln(w)
				})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before re-running")
	return cmd
}
