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
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
	"github.com/AleutianAI/analyzer/services/analyzer/comment"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)

	verdictStyles = map[analysis.Verdict]lipgloss.Style{
		analysis.Celebrate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		analysis.Inform:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		analysis.Direct:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		analysis.Require:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}

	severityStyles = map[comment.Severity]lipgloss.Style{
		comment.Celebratory: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		comment.Informative: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		comment.Actionable:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		comment.Essential:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func newShowCmd(_ *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show PATH",
		Short: "Pretty-print an analysis.json file",
		Long: `Render an analysis.json file. PATH may be the file itself or the
directory that contains it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, analysis.FileName)
			}
			result, err := analysis.ReadFile(path)
			if err != nil {
				return err
			}
			if raw {
				data, err := analysis.Encode(result)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			renderResult(cmd.OutOrStdout(), path, result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "json", false, "print normalized JSON instead of the rendered view")
	return cmd
}

// renderResult writes a human-readable view of result.
func renderResult(w io.Writer, path string, result analysis.Result) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Analysis"), dimStyle.Render(path))
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Summary:"),
		verdictStyles[result.Summary()].Render(strings.ToUpper(result.Summary().String())))

	comments := result.Comments()
	if len(comments) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No comments."))
		return
	}

	fmt.Fprintln(w)
	for i, c := range comments {
		badge := severityStyles[c.Type].Render(fmt.Sprintf("[%s]", c.Type))
		fmt.Fprintf(w, "%2d. %s %s\n", i+1, badge, c.ID)
		for _, line := range paramLines(c.Params) {
			fmt.Fprintf(w, "      %s\n", dimStyle.Render(line))
		}
	}
}

// paramLines lists scalar params in key order. Long documentation params
// are summarized by their first line.
func paramLines(params comment.Params) []string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != nil {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprint(params[k])
		if first, _, found := strings.Cut(strings.TrimSpace(v), "\n"); found {
			v = first + " …"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", k, v))
	}
	return lines
}
