// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package enrich

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reelmatch/reelmatch/internal/omdb"
)

// stubFetcher returns canned results per title and records call counts.
type stubFetcher struct {
	mu        sync.Mutex
	results   map[string]omdb.Result
	delays    map[string]time.Duration
	panics    map[string]bool
	calls     atomic.Int64
	idleCalls atomic.Int64
}

func (s *stubFetcher) Fetch(ctx context.Context, title string) omdb.Result {
	s.calls.Add(1)

	s.mu.Lock()
	delay := s.delays[title]
	shouldPanic := s.panics[title]
	res, ok := s.results[title]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if shouldPanic {
		panic("fetch exploded: " + title)
	}
	if !ok {
		return omdb.Result{Title: title} // Absent
	}
	return res
}

func (s *stubFetcher) CloseIdleConnections() {
	s.idleCalls.Add(1)
}

func populated(title string, rating float64) omdb.Result {
	return omdb.Result{
		Title: title,
		Metadata: &omdb.Metadata{
			Title:     title,
			PosterURL: "https://example.com/" + title + ".jpg",
			Rating:    rating,
		},
	}
}

func TestEnrichPreservesOrder(t *testing.T) {
	// Later titles complete first; output order must match input order.
	fetcher := &stubFetcher{
		results: map[string]omdb.Result{
			"First":  populated("First", 7.0),
			"Second": populated("Second", 8.0),
			"Third":  populated("Third", 9.0),
		},
		delays: map[string]time.Duration{
			"First":  50 * time.Millisecond,
			"Second": 20 * time.Millisecond,
			"Third":  0,
		},
	}

	titles := []string{"First", "Second", "Third"}
	results := NewOrchestrator(fetcher).Enrich(context.Background(), titles)

	if len(results) != len(titles) {
		t.Fatalf("got %d results, want %d", len(results), len(titles))
	}
	for i, title := range titles {
		if results[i].Title != title {
			t.Errorf("results[%d].Title = %q, want %q", i, results[i].Title, title)
		}
		if results[i].Absent() {
			t.Errorf("results[%d] is Absent, want metadata", i)
		}
	}
}

func TestEnrichFaultIsolation(t *testing.T) {
	// One failing lookup must not disturb the others.
	fetcher := &stubFetcher{
		results: map[string]omdb.Result{
			"Good A": populated("Good A", 7.0),
			"Good B": populated("Good B", 6.5),
		},
	}

	titles := []string{"Good A", "Broken", "Good B"}
	results := NewOrchestrator(fetcher).Enrich(context.Background(), titles)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Absent() || results[2].Absent() {
		t.Error("healthy lookups affected by failing sibling")
	}
	if !results[1].Absent() {
		t.Error("failed lookup did not settle as Absent")
	}
	if results[1].Title != "Broken" {
		t.Errorf("Absent result lost its title: %q", results[1].Title)
	}
}

func TestEnrichAllFailures(t *testing.T) {
	fetcher := &stubFetcher{} // every fetch is Absent

	titles := []string{"A", "B", "C", "D"}
	results := NewOrchestrator(fetcher).Enrich(context.Background(), titles)

	if len(results) != len(titles) {
		t.Fatalf("got %d results, want %d", len(results), len(titles))
	}
	for i, r := range results {
		if !r.Absent() {
			t.Errorf("results[%d] not Absent", i)
		}
		if r.Title != titles[i] {
			t.Errorf("results[%d].Title = %q, want %q", i, r.Title, titles[i])
		}
	}
}

func TestEnrichPanicIsolation(t *testing.T) {
	fetcher := &stubFetcher{
		results: map[string]omdb.Result{
			"Safe": populated("Safe", 8.1),
		},
		panics: map[string]bool{"Boom": true},
	}

	results := NewOrchestrator(fetcher).Enrich(context.Background(), []string{"Safe", "Boom"})

	if results[0].Absent() {
		t.Error("panicking sibling affected healthy lookup")
	}
	if !results[1].Absent() {
		t.Error("panicking fetch did not settle as Absent")
	}
	if results[1].Title != "Boom" {
		t.Errorf("panicking fetch lost its title: %q", results[1].Title)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	fetcher := &stubFetcher{}

	results := NewOrchestrator(fetcher).Enrich(context.Background(), nil)

	if results == nil {
		t.Fatal("Enrich(nil) returned nil, want empty slice")
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if fetcher.calls.Load() != 0 {
		t.Errorf("fetcher called %d times for empty batch", fetcher.calls.Load())
	}
}

func TestEnrichCallsEveryTitleOnce(t *testing.T) {
	fetcher := &stubFetcher{}

	titles := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	NewOrchestrator(fetcher).Enrich(context.Background(), titles)

	if got := fetcher.calls.Load(); got != int64(len(titles)) {
		t.Errorf("fetcher called %d times, want %d", got, len(titles))
	}
}

func TestEnrichReleasesConnections(t *testing.T) {
	fetcher := &stubFetcher{}

	NewOrchestrator(fetcher).Enrich(context.Background(), []string{"A", "B"})

	if fetcher.idleCalls.Load() != 1 {
		t.Errorf("CloseIdleConnections called %d times, want 1", fetcher.idleCalls.Load())
	}
}
