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
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
)

// MaxSourceBytes caps the source accepted by POST /analyze.
const MaxSourceBytes = 256 << 10

// requestValidate validates request bodies.
var requestValidate = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxSourceBytes
	})
	return v
}()

// AnalyzeRequest is the body of POST /v1/analyzer/analyze.
type AnalyzeRequest struct {
	// Exercise is the exercise slug, e.g. "two-fer".
	Exercise string `json:"exercise" validate:"required,max=128"`

	// Source is the submission's Python source.
	Source string `json:"source" validate:"maxbytes"`
}

// Validate checks the request fields.
func (r *AnalyzeRequest) Validate() error {
	return requestValidate.Struct(r)
}

// AnalyzeResponse carries the analysis.json document plus the request ID.
type AnalyzeResponse struct {
	RequestID string          `json:"request_id"`
	Exercise  string          `json:"exercise"`
	Analysis  analysis.Result `json:"analysis"`
}

// ExercisesResponse lists the registered exercises.
type ExercisesResponse struct {
	Exercises []string `json:"exercises"`
}

// HealthResponse is returned by GET /v1/analyzer/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Exercises int    `json:"exercises"`
	Linter    bool   `json:"linter"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`

	// Details provides additional context.
	Details string `json:"details,omitempty"`
}
