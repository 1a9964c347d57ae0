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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/analyzer/services/analyzer/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Long: `Serve POST /v1/analyzer/analyze, GET /v1/analyzer/exercises and
GET /v1/analyzer/health until interrupted. GET /metrics is added when
telemetry.metric_exporter is prometheus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			p, runner, err := a.pipeline()
			if err != nil {
				return err
			}
			var linterUp func() bool
			if runner != nil {
				linterUp = runner.Available
			}

			server.SetMode(a.cfg.Log.Level == "debug")
			srv := server.New(cfg, server.NewHandlers(a.registry, p, linterUp))
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
