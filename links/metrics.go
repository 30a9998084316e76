// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package links

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for link parsing.
var meter = otel.Meter("tally.links")

// Metrics for parse operations.
var (
	linksParsed metric.Int64Counter
	linksBroken metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		linksParsed, err = meter.Int64Counter(
			"variable_links_parsed_total",
			metric.WithDescription("Total number of bracket references parsed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		linksBroken, err = meter.Int64Counter(
			"variable_links_broken_total",
			metric.WithDescription("Total number of unresolved bracket references"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordParse records counters for one parse pass.
func recordParse(total, broken int) {
	if err := initMetrics(); err != nil {
		return
	}
	ctx := context.Background()
	if total > 0 {
		linksParsed.Add(ctx, int64(total))
	}
	if broken > 0 {
		linksBroken.Add(ctx, int64(broken))
	}
}
