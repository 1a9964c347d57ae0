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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/analyzer/services/analyzer/exercise"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(cfg Config) *Server {
	p := exercise.NewPipeline(exercise.WithoutLint())
	return New(cfg, NewHandlers(exercise.Default(), p, func() bool { return true }))
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// analyzeBody mirrors AnalyzeResponse with the analysis decoded loosely.
type analyzeBody struct {
	RequestID string `json:"request_id"`
	Exercise  string `json:"exercise"`
	Analysis  struct {
		Summary  string `json:"summary"`
		Comments []struct {
			Comment string         `json:"comment"`
			Type    string         `json:"type"`
			Params  map[string]any `json:"params"`
		} `json:"comments"`
	} `json:"analysis"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(DefaultConfig())
	rec := do(t, s, http.MethodGet, "/v1/analyzer/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, HealthResponse{Status: "ok", Exercises: 3, Linter: true}, got)

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "every response carries a request id")
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(DefaultConfig())
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/v1/analyzer/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/v1/analyzer/health", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not a uuid", rec.Header().Get(RequestIDHeader))
}

func TestExercises(t *testing.T) {
	s := newTestServer(DefaultConfig())
	rec := do(t, s, http.MethodGet, "/v1/analyzer/exercises", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got ExercisesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"ghost-gobble-arcade-game", "processing-logs", "two-fer"}, got.Exercises)
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(DefaultConfig())

	tests := []struct {
		name     string
		source   string
		summary  string
		comments []string
	}{
		{
			name:    "ideal",
			source:  "def two_fer(name=\"you\"):\n    return f\"One for {name}, one for me.\"\n",
			summary: "celebrate",
		},
		{
			name:     "percent",
			source:   "def two_fer(name=\"you\"):\n    return \"One for %s, one for me.\" % name\n",
			summary:  "direct",
			comments: []string{"python.two-fer.percent_formatting"},
		},
		{
			name:     "malformed",
			source:   "def two_fer(:\n",
			summary:  "require",
			comments: []string{"python.general.malformed_code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/analyzer/analyze", AnalyzeRequest{Exercise: "two-fer", Source: tt.source})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got analyzeBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "two-fer", got.Exercise)
			assert.NotEmpty(t, got.RequestID)
			assert.Equal(t, tt.summary, got.Analysis.Summary)

			ids := make([]string, 0, len(got.Analysis.Comments))
			for _, c := range got.Analysis.Comments {
				ids = append(ids, c.Comment)
			}
			assert.ElementsMatch(t, tt.comments, ids)
		})
	}
}

func TestAnalyze_Errors(t *testing.T) {
	s := newTestServer(DefaultConfig())

	t.Run("unknown exercise", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/analyzer/analyze", AnalyzeRequest{Exercise: "hello-world", Source: "x = 1\n"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		var got ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "UNKNOWN_EXERCISE", got.Code)
	})

	t.Run("bad json", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/analyzer/analyze", "{not json")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
	})

	t.Run("missing exercise", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/analyzer/analyze", AnalyzeRequest{Source: "x = 1\n"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	})

	t.Run("oversized source", func(t *testing.T) {
		big := strings.Repeat("x", MaxSourceBytes+1)
		rec := do(t, s, http.MethodPost, "/v1/analyzer/analyze", AnalyzeRequest{Exercise: "two-fer", Source: big})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	})
}

func TestAnalyze_RateLimited(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rate = 0.001
	cfg.Burst = 1
	s := newTestServer(cfg)

	body := AnalyzeRequest{Exercise: "two-fer", Source: "x = 1\n"}
	first := do(t, s, http.MethodPost, "/v1/analyzer/analyze", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(t, s, http.MethodPost, "/v1/analyzer/analyze", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMITED")

	health := do(t, s, http.MethodGet, "/v1/analyzer/health", nil)
	assert.Equal(t, http.StatusOK, health.Code, "only analyze is limited")
}

func TestListenAndServe_Shutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	s := newTestServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
