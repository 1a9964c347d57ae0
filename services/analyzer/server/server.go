// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes the analysis pipeline over HTTP for tooling that
// cannot run the CLI.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/analyzer/services/analyzer/telemetry"
)

// Config controls the HTTP surface.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" validate:"required"`

	// Rate is the sustained request rate per second. Zero disables limiting.
	Rate float64 `yaml:"rate" validate:"gte=0"`

	// Burst is the token bucket size.
	Burst int `yaml:"burst" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the defaults for `analyzer serve`.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Rate:            20,
		Burst:           40,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the analyzer HTTP server.
type Server struct {
	cfg    Config
	router *gin.Engine
}

// New builds the router.
//
// Endpoints:
//
//	GET  /v1/analyzer/health    - Liveness plus linter availability
//	GET  /v1/analyzer/exercises - Registered exercise slugs
//	POST /v1/analyzer/analyze   - Analyze posted source
//	GET  /metrics               - Prometheus metrics, when enabled
func New(cfg Config, handlers *Handlers) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("analyzer"))
	router.Use(requestID())
	router.Use(accessLog())

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}

	RegisterRoutes(router.Group("/v1"), handlers, rateLimit(limiter))

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	return &Server{cfg: cfg, router: router}
}

// RegisterRoutes registers the /v1/analyzer endpoints on rg. Extra
// middleware applies to the analyze endpoint only.
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers, analyzeMiddleware ...gin.HandlerFunc) {
	analyzer := rg.Group("/analyzer")
	{
		analyzer.GET("/health", handlers.HandleHealth)
		analyzer.GET("/exercises", handlers.HandleExercises)
		analyzer.POST("/analyze", append(analyzeMiddleware, handlers.HandleAnalyze)...)
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Analyzer server listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	slog.Info("Analyzer server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// SetMode switches gin between debug and release output.
func SetMode(debug bool) {
	if debug {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
