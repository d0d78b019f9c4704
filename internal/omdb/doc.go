// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package omdb provides the client for the OMDb metadata API.
//
// Each Fetch performs exactly one "find by title" lookup
// (https://www.omdbapi.com/?apikey=..&t=..) and returns a Result that is
// either populated or Absent. Failures never escape this boundary: network
// errors, non-2xx statuses, malformed payloads, "Response: False" bodies,
// and unparseable ratings all become Absent so one bad title cannot abort
// an enrichment batch. There are no retries; a failed lookup is final for
// that request.
//
// # Normalization
//
// OMDb marks missing fields with the "N/A" sentinel. On an otherwise
// successful response:
//
//   - Poster "N/A" or empty maps to the configured fallback image URL.
//   - imdbRating "N/A" or empty maps to 0.0; any other non-numeric value
//     is treated as a failed lookup (Absent), not a parse panic.
//   - imdbID "N/A" or empty maps to the empty string and no IMDb URL.
//
// # Resilience
//
// Outbound calls go through a client-side rate limiter (the OMDb free tier
// is small) and a circuit breaker. An open breaker rejects the call, which
// surfaces as Absent like any other failure; the at-most-one-attempt
// contract is unchanged.
package omdb
