// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/analyzer/services/analyzer/exercise"
)

// Handlers serves the analyzer API.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	registry *exercise.Registry
	pipeline *exercise.Pipeline
	linterUp func() bool
}

// NewHandlers creates handlers over reg and p. linterUp reports linter
// availability for the health check; nil means "unknown, report false".
func NewHandlers(reg *exercise.Registry, p *exercise.Pipeline, linterUp func() bool) *Handlers {
	if linterUp == nil {
		linterUp = func() bool { return false }
	}
	return &Handlers{registry: reg, pipeline: p, linterUp: linterUp}
}

// HandleHealth handles GET /v1/analyzer/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Exercises: h.registry.Len(),
		Linter:    h.linterUp(),
	})
}

// HandleExercises handles GET /v1/analyzer/exercises.
func (h *Handlers) HandleExercises(c *gin.Context) {
	c.JSON(http.StatusOK, ExercisesResponse{Exercises: h.registry.Slugs()})
}

// HandleAnalyze handles POST /v1/analyzer/analyze.
//
// Description:
//
//	Analyzes the posted source with the exercise's rule set. An empty or
//	unparseable source is not an HTTP error: the response carries the
//	Require verdict like the CLI would write.
//
// Response:
//
//	200 OK: AnalyzeResponse
//	400 Bad Request: Malformed body or failed validation
//	404 Not Found: Unknown exercise
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	requestID := getRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleAnalyze")

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("Request failed validation", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Request failed validation",
			Code:    "VALIDATION_FAILED",
			Details: err.Error(),
		})
		return
	}

	rs, err := h.registry.Lookup(req.Exercise)
	if err != nil {
		logger.Info("Unknown exercise", "exercise", req.Exercise)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   err.Error(),
			Code:    "UNKNOWN_EXERCISE",
			Details: req.Exercise,
		})
		return
	}

	result := h.pipeline.Analyze(c.Request.Context(), rs, []byte(req.Source), "")

	logger.Info("Analysis served",
		"exercise", req.Exercise,
		"summary", result.Summary().String(),
		"comments", len(result.Comments()))

	c.JSON(http.StatusOK, AnalyzeResponse{
		RequestID: requestID,
		Exercise:  req.Exercise,
		Analysis:  result,
	})
}
