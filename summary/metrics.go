// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package summary

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for summary calculation.
var (
	tracer = otel.Tracer("tally.summary")
	meter  = otel.Meter("tally.summary")
)

// Metrics for calculator operations.
var (
	summaryCacheHits      metric.Int64Counter
	summaryCacheMisses    metric.Int64Counter
	summaryCacheEvictions metric.Int64Counter
	calcLatency           metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		summaryCacheHits, err = meter.Int64Counter(
			"summary_cache_hits_total",
			metric.WithDescription("Total number of summary cache hits"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		summaryCacheMisses, err = meter.Int64Counter(
			"summary_cache_misses_total",
			metric.WithDescription("Total number of summary cache misses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		summaryCacheEvictions, err = meter.Int64Counter(
			"summary_cache_evictions_total",
			metric.WithDescription("Total number of summary cache evictions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		calcLatency, err = meter.Float64Histogram(
			"summary_calc_duration_seconds",
			metric.WithDescription("Duration of summary calculations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordCacheHit records a cache hit metric.
func recordCacheHit(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	summaryCacheHits.Add(ctx, 1)
}

// recordCacheMiss records a cache miss metric.
func recordCacheMiss(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	summaryCacheMisses.Add(ctx, 1)
}

// recordEvictions records cache eviction metrics.
func recordEvictions(ctx context.Context, count int) {
	if err := initMetrics(); err != nil {
		return
	}
	if count > 0 {
		summaryCacheEvictions.Add(ctx, int64(count))
	}
}

// recordCalcLatency records the duration of one calculation.
func recordCalcLatency(ctx context.Context, duration time.Duration, cached bool) {
	if err := initMetrics(); err != nil {
		return
	}
	calcLatency.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("cached", cached)),
	)
}

// startCalcSpan creates a span for a calculator operation.
func startCalcSpan(ctx context.Context, operation, itemID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "summary."+operation,
		trace.WithAttributes(
			attribute.String("summary.operation", operation),
			attribute.String("summary.item_id", itemID),
		),
	)
}
