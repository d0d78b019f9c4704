// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// RecommendationsRequest carries the validated query parameters of
// GET /api/v1/recommendations.
type RecommendationsRequest struct {
	// Title is the seed movie title. Required.
	Title string `validate:"required,max=512"`

	// Count is the requested number of recommendations. Zero means
	// "use the configured default".
	Count int `validate:"min=0"`
}

// MoviesRequest carries the validated query parameters of
// GET /api/v1/movies.
type MoviesRequest struct {
	// Search filters titles by case-insensitive substring match.
	Search string `validate:"max=512"`

	// Limit caps the number of returned titles. Zero means no cap.
	Limit int `validate:"min=0,max=10000"`
}

// parseRecommendationsRequest extracts and type-checks the query
// parameters. Range validation happens separately via the validation
// package and the ranker's own count bounds.
func parseRecommendationsRequest(r *http.Request) (*RecommendationsRequest, error) {
	q := r.URL.Query()

	req := &RecommendationsRequest{
		Title: strings.TrimSpace(q.Get("title")),
	}

	if raw := q.Get("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("count must be an integer, got %q", raw)
		}
		req.Count = count
	}

	return req, nil
}

// parseMoviesRequest extracts and type-checks the query parameters.
func parseMoviesRequest(r *http.Request) (*MoviesRequest, error) {
	q := r.URL.Query()

	req := &MoviesRequest{
		Search: strings.TrimSpace(q.Get("search")),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("limit must be an integer, got %q", raw)
		}
		req.Limit = limit
	}

	return req, nil
}
