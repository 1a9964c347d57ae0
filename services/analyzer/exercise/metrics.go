// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package exercise

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
)

var (
	tracer = otel.Tracer("analyzer.exercise")
	meter  = otel.Meter("analyzer.exercise")
)

var (
	analyzeLatency  metric.Float64Histogram
	analyzeTotal    metric.Int64Counter
	analyzeComments metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analyzeLatency, err = meter.Float64Histogram(
			"analyzer_analysis_duration_seconds",
			metric.WithDescription("Duration of one submission analysis"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analyzeTotal, err = meter.Int64Counter(
			"analyzer_analysis_total",
			metric.WithDescription("Analyses by exercise and verdict"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analyzeComments, err = meter.Int64Histogram(
			"analyzer_analysis_comments",
			metric.WithDescription("Comments per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordAnalyzeMetrics(ctx context.Context, exercise string, result analysis.Result, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("exercise", exercise),
		attribute.String("summary", result.Summary().String()),
	)
	analyzeLatency.Record(ctx, duration.Seconds(), attrs)
	analyzeTotal.Add(ctx, 1, attrs)
	analyzeComments.Record(ctx, int64(len(result.Comments())), metric.WithAttributes(
		attribute.String("exercise", exercise),
	))
}

// startAnalyzeSpan creates a span for one analysis. The caller must end it.
func startAnalyzeSpan(ctx context.Context, exercise, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Pipeline.Analyze",
		trace.WithAttributes(
			attribute.String("analyzer.exercise", exercise),
			attribute.String("analyzer.file", path),
		),
	)
}

func setAnalyzeSpanResult(span trace.Span, result analysis.Result) {
	span.SetAttributes(
		attribute.String("analyzer.summary", result.Summary().String()),
		attribute.Int("analyzer.comments", len(result.Comments())),
	)
}
