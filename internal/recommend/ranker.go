// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reelmatch/reelmatch/internal/catalog"
)

// Candidate is a ranked recommendation before enrichment.
type Candidate struct {
	// Title is the catalog title of the candidate.
	Title string `json:"title"`

	// Score is the similarity score to the query item.
	Score float64 `json:"score"`
}

// Config contains ranking configuration. The Ranker itself only reads
// these for reporting; applying DefaultK to omitted counts and rejecting
// counts above MaxK are API-layer concerns.
type Config struct {
	// DefaultK is the number of candidates requested when the caller
	// omits a count.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK is the upper bound on the requested count at the API surface.
	MaxK int `json:"max_k" koanf:"max_k"`
}

// DefaultConfig returns default ranking configuration.
// The 1..10 bounds mirror the recommendation picker in the web UI.
func DefaultConfig() Config {
	return Config{
		DefaultK: 5,
		MaxK:     10,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.DefaultK <= 0 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k %d must be >= default_k %d", c.MaxK, c.DefaultK)
	}
	return nil
}

// Ranker produces similarity-ranked candidates from the catalog store.
// It holds only immutable data and is safe for concurrent use.
type Ranker struct {
	store  *catalog.Store
	config Config
}

// NewRanker creates a Ranker over the given store.
func NewRanker(store *catalog.Store, cfg Config) (*Ranker, error) {
	if store == nil {
		return nil, fmt.Errorf("nil catalog store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Ranker{
		store:  store,
		config: cfg,
	}, nil
}

// Config returns the active ranking configuration.
func (r *Ranker) Config() Config {
	return r.config
}

// scored pairs a catalog index with its similarity to the query item.
type scored struct {
	index int
	score float64
}

// Recommend returns up to count candidates similar to title, ordered by
// descending similarity. Counts above the number of eligible candidates
// clamp silently; the result is never padded. MaxK is an API-level bound
// enforced by callers, not here.
//
// Returns ErrTitleNotFound when the title is not in the catalog and
// ErrInvalidCount when count is not positive.
func (r *Ranker) Recommend(title string, count int) ([]Candidate, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	self, ok := r.store.Index(title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTitleNotFound, title)
	}

	row := r.store.Row(self)
	pairs := make([]scored, len(row))
	for i, score := range row {
		pairs[i] = scored{index: i, score: score}
	}

	// Stable sort keeps catalog order on ties for reproducible results.
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].score > pairs[b].score
	})

	candidates := make([]Candidate, 0, count)
	seen := make(map[string]struct{}, count)
	for _, p := range pairs {
		if len(candidates) == count {
			break
		}
		if p.index == self {
			continue
		}

		t := r.store.Title(p.index)

		// Franchise-deduplication heuristic: drop candidates whose title
		// contains the query title ("Alien" also drops "Aliens"). Kept
		// byte-for-byte compatible with the offline model evaluation.
		if strings.Contains(t, title) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}

		seen[t] = struct{}{}
		candidates = append(candidates, Candidate{Title: t, Score: p.score})
	}

	return candidates, nil
}
