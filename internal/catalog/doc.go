// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package catalog provides read-only access to the movie catalog and the
// precomputed item-item similarity matrix.
//
// Both inputs are built offline and loaded once at process start. The Store
// is immutable after Load returns, so concurrent readers need no locking.
//
// # Inputs
//
// Catalog: a CSV file with a header row containing at least a "title"
// column. Row order defines the index space used by the similarity matrix;
// the first row after the header is index 0.
//
// Similarity matrix: a square float64 matrix whose dimension equals the
// catalog row count, in one of two on-disk formats:
//
//   - Binary (default): magic "RMSIM1", uint32 little-endian dimension,
//     then dim*dim float64 little-endian values in row-major order.
//   - JSON (".json" extension): a nested array [[...], ...].
//
// A dimension mismatch between catalog and matrix is a startup error.
//
// # Usage
//
//	store, err := catalog.Load("movies.csv", "similarity.bin")
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load catalog")
//	}
//	idx, ok := store.Index("Inception")
//	row := store.Row(idx)
package catalog
