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

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the exercises that have an analyzer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, slug := range a.registry.Slugs() {
				if !verbose {
					fmt.Fprintln(out, slug)
					continue
				}
				rs, err := a.registry.Lookup(slug)
				if err != nil {
					return err
				}
				lintNote := ""
				if rs.Lint() {
					lintNote = " (+pylint)"
				}
				fmt.Fprintf(out, "%s%s\n", slug, lintNote)
				for _, id := range rs.Vocabulary() {
					fmt.Fprintf(out, "  %s\n", id)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list the comments each exercise can raise")
	return cmd
}
