// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package recommend ranks catalog items by precomputed similarity.
//
// The Ranker is a pure function of the catalog store and its inputs: given
// a chosen title and a count, it reads that item's similarity row, sorts
// candidates by descending score with a stable sort (ties keep catalog
// order, so results are reproducible), and applies two exclusion rules:
//
//   - The query item itself is never returned.
//   - Any candidate whose title contains the query title as a substring is
//     skipped. This is an intentional, imprecise franchise-deduplication
//     policy inherited from the model build ("Alien" also excludes
//     "Aliens"); it is kept as-is for compatibility with the offline
//     evaluation of the similarity model.
//
// Counts larger than the number of eligible candidates clamp to what is
// available; the result is never padded.
//
// # Errors
//
//	ErrTitleNotFound: the requested title is not in the catalog.
//	ErrInvalidCount:  count is not a positive integer.
//
// Both are surfaced to the caller; everything else about ranking is
// infallible once the store is loaded.
package recommend
