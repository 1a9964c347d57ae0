// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("analyzer.lint")
	meter  = otel.Meter("analyzer.lint")
)

var (
	lintLatency  metric.Float64Histogram
	lintTotal    metric.Int64Counter
	lintComments metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		lintLatency, err = meter.Float64Histogram(
			"analyzer_lint_duration_seconds",
			metric.WithDescription("Duration of pylint runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		lintTotal, err = meter.Int64Counter(
			"analyzer_lint_total",
			metric.WithDescription("Total number of pylint runs by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		lintComments, err = meter.Int64Histogram(
			"analyzer_lint_comments",
			metric.WithDescription("Lint comments produced per run"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordLintMetrics records one lint run.
func recordLintMetrics(ctx context.Context, duration time.Duration, comments int, success bool, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", success),
		attribute.String("outcome", outcome),
	)
	lintLatency.Record(ctx, duration.Seconds(), attrs)
	lintTotal.Add(ctx, 1, attrs)
	if success {
		lintComments.Record(ctx, int64(comments))
	}
}

// startLintSpan creates a span for a lint operation. The caller must end it.
func startLintSpan(ctx context.Context, linter, filePath string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Runner.Lint",
		trace.WithAttributes(
			attribute.String("lint.linter", linter),
			attribute.String("lint.file", filePath),
		),
	)
}

func setLintSpanResult(span trace.Span, comments int, available bool) {
	span.SetAttributes(
		attribute.Int("lint.comments", comments),
		attribute.Bool("lint.available", available),
	)
}
