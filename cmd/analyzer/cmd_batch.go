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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/analyzer/services/analyzer/exercise"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		outDir      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch EXERCISE DIR...",
		Short: "Analyze many submissions of one exercise concurrently",
		Long: `Analyze DIR/<exercise>.py for every DIR. Each analysis.json is written
into DIR itself, or into --out-dir/<base name of DIR> when --out-dir is set.

A failing submission is reported and does not stop the rest; the command
fails if any submission could not be analyzed.`,
		Example: "  analyzer batch two-fer ./students/alice ./students/bob --out-dir ./results",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, dirs := args[0], args[1:]
			if err := a.exerciseArg(slug); err != nil {
				return err
			}

			descs := make([]exercise.Descriptor, 0, len(dirs))
			for _, dir := range dirs {
				if err := requireDir(dir); err != nil {
					return err
				}
				out := dir
				if outDir != "" {
					out = filepath.Join(outDir, filepath.Base(filepath.Clean(dir)))
					if err := os.MkdirAll(out, 0o755); err != nil {
						return fmt.Errorf("create output directory: %w", err)
					}
				}
				desc, err := exercise.NewDescriptor(slug, dir, out)
				if err != nil {
					return err
				}
				descs = append(descs, desc)
			}

			p, _, err := a.pipeline()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.Batch.Concurrency
			}

			results := exercise.AnalyzeBatch(cmd.Context(), a.registry, descs, p, concurrency)

			failed := 0
			w := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(w, "FAIL  %s: %v\n", r.Descriptor.InputPath, r.Err)
					continue
				}
				fmt.Fprintf(w, "%-9s %s\n", r.Result.Summary(), r.Path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d submissions failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write results under this directory instead of each DIR")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "parallel analyses (default from config, 0 means GOMAXPROCS)")
	return cmd
}
