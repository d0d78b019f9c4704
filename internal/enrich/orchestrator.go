// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package enrich fans ranked titles out to the metadata provider and
// collects the results in request order.
//
// One goroutine is spawned per title; each writes its result into a
// preallocated slice at the title's original index, so no locking is
// needed and completion order cannot reorder the output. The join waits
// for every lookup to settle. A failed lookup occupies its slot as an
// Absent result. It never cancels or blocks its siblings, and the batch
// as a whole always succeeds structurally.
package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/reelmatch/reelmatch/internal/logging"
	"github.com/reelmatch/reelmatch/internal/metrics"
	"github.com/reelmatch/reelmatch/internal/omdb"
)

// Fetcher performs a single metadata lookup. Implementations must absorb
// their own failures and return an Absent result instead of erroring.
type Fetcher interface {
	Fetch(ctx context.Context, title string) omdb.Result
	CloseIdleConnections()
}

// Orchestrator coordinates concurrent metadata lookups over one shared
// fetcher. Safe for concurrent use.
type Orchestrator struct {
	fetcher Fetcher
}

// NewOrchestrator creates an orchestrator over the given fetcher.
func NewOrchestrator(f Fetcher) *Orchestrator {
	return &Orchestrator{fetcher: f}
}

// Enrich looks up metadata for every title concurrently and returns one
// result per input title, index-aligned with the input. The shared
// fetcher's idle connections are released when the batch completes,
// whether or not individual lookups failed.
func (o *Orchestrator) Enrich(ctx context.Context, titles []string) []omdb.Result {
	results := make([]omdb.Result, len(titles))
	if len(titles) == 0 {
		return results
	}

	start := time.Now()
	defer o.fetcher.CloseIdleConnections()

	var wg sync.WaitGroup
	for i, title := range titles {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			defer func() {
				// A panicking fetch settles as Absent; siblings keep running.
				if r := recover(); r != nil {
					logging.Ctx(ctx).Error().
						Interface("panic", r).
						Str("title", title).
						Msg("Metadata fetch panicked")
					results[i] = omdb.Result{Title: title}
				}
			}()
			results[i] = o.fetcher.Fetch(ctx, title)
		}(i, title)
	}
	wg.Wait()

	metrics.RecordEnrichBatch(len(titles), time.Since(start))

	absent := 0
	for _, r := range results {
		if r.Absent() {
			absent++
		}
	}
	logging.Ctx(ctx).Debug().
		Int("titles", len(titles)).
		Int("absent", absent).
		Dur("elapsed", time.Since(start)).
		Msg("Enrichment batch complete")

	return results
}
