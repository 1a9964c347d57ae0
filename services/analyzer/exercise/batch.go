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
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/analyzer/services/analyzer/analysis"
)

// BatchResult is the outcome of one submission in a batch.
type BatchResult struct {
	Descriptor Descriptor
	Result     analysis.Result
	Path       string
	Err        error
}

// AnalyzeBatch runs independent submissions concurrently.
//
// Description:
//
//	Each descriptor gets its own Dispatcher. A failure in one submission
//	is recorded in its BatchResult and does not stop the others. Results
//	are returned in the order of descs.
//
// Inputs:
//
//	ctx   - Cancelling ctx stops submissions that have not started; they
//	        report ctx.Err().
//	reg   - Registry to resolve slugs against. Nil means Default().
//	descs - Submissions to analyze.
//	p     - Shared pipeline. Nil means NewPipeline().
//	limit - Maximum concurrent runs. Non-positive means GOMAXPROCS.
//
// Outputs:
//
//	[]BatchResult - One entry per descriptor.
func AnalyzeBatch(ctx context.Context, reg *Registry, descs []Descriptor, p *Pipeline, limit int) []BatchResult {
	if p == nil {
		p = NewPipeline()
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(descs))
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, desc := range descs {
		g.Go(func() error {
			results[i].Descriptor = desc
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			result, path, err := Run(ctx, reg, desc, p)
			results[i].Result = result
			results[i].Path = path
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results
}
