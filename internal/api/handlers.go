// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/reelmatch/reelmatch/internal/catalog"
	"github.com/reelmatch/reelmatch/internal/enrich"
	"github.com/reelmatch/reelmatch/internal/logging"
	"github.com/reelmatch/reelmatch/internal/metrics"
	"github.com/reelmatch/reelmatch/internal/omdb"
	"github.com/reelmatch/reelmatch/internal/recommend"
	"github.com/reelmatch/reelmatch/internal/validation"
)

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	store          *catalog.Store
	ranker         *recommend.Ranker
	orchestrator   *enrich.Orchestrator
	fallbackPoster string
	version        string
	startTime      time.Time
}

// NewHandler creates a handler over the loaded catalog and the
// recommendation pipeline. fallbackPoster fills in for titles whose
// metadata lookup produced nothing; empty selects the built-in default.
func NewHandler(store *catalog.Store, ranker *recommend.Ranker, orchestrator *enrich.Orchestrator, fallbackPoster, version string) *Handler {
	if fallbackPoster == "" {
		fallbackPoster = omdb.DefaultFallbackPoster
	}
	return &Handler{
		store:          store,
		ranker:         ranker,
		orchestrator:   orchestrator,
		fallbackPoster: fallbackPoster,
		version:        version,
		startTime:      time.Now(),
	}
}

// Recommendation is one entry of the recommendations response:
// the ranked candidate plus its live metadata. Titles whose lookup
// failed carry fallback metadata (fallback poster, rating 0, no IMDb
// link), same as the original card rendering.
type Recommendation struct {
	Title    string         `json:"title"`
	Score    float64        `json:"score"`
	Metadata *omdb.Metadata `json:"metadata"`
}

// RecommendationsResponse is the data payload of
// GET /api/v1/recommendations.
type RecommendationsResponse struct {
	Query           string           `json:"query"`
	Count           int              `json:"count"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendations handles GET /api/v1/recommendations?title=..&count=..
//
// Ranking errors map to client errors; enrichment cannot fail the
// request, titles without metadata come back with metadata null.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	req, err := parseRecommendationsRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	// An omitted count takes the configured default; counts above the
	// configured maximum are an API-level validation failure. The ranker
	// itself clamps any positive count to the eligible candidates.
	rcfg := h.ranker.Config()
	count := req.Count
	if count == 0 {
		count = rcfg.DefaultK
	}
	if count > rcfg.MaxK {
		metrics.RecordRecommendation("invalid_count", 0, time.Since(start))
		rw.BadRequest(fmt.Sprintf("count must be at most %d, got %d", rcfg.MaxK, count))
		return
	}

	candidates, err := h.ranker.Recommend(req.Title, count)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrTitleNotFound):
			metrics.RecordRecommendation("not_found", 0, time.Since(start))
			rw.NotFound("Title not found in catalog: " + req.Title)
		case errors.Is(err, recommend.ErrInvalidCount):
			metrics.RecordRecommendation("invalid_count", 0, time.Since(start))
			rw.BadRequest(err.Error())
		default:
			logging.Ctx(r.Context()).Error().Err(err).Str("title", req.Title).Msg("Recommendation failed")
			rw.InternalError("Recommendation failed")
		}
		return
	}

	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Title
	}
	results := h.orchestrator.Enrich(r.Context(), titles)

	recs := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		md := results[i].Metadata
		if md == nil {
			md = &omdb.Metadata{
				Title:     c.Title,
				PosterURL: h.fallbackPoster,
				Rating:    0,
			}
		}
		recs[i] = Recommendation{
			Title:    c.Title,
			Score:    c.Score,
			Metadata: md,
		}
	}

	metrics.RecordRecommendation("success", len(recs), time.Since(start))

	rw.Success(RecommendationsResponse{
		Query:           req.Title,
		Count:           len(recs),
		Recommendations: recs,
	})
}

// MoviesResponse is the data payload of GET /api/v1/movies.
type MoviesResponse struct {
	Titles []string `json:"titles"`
	Total  int      `json:"total"`
}

// Movies handles GET /api/v1/movies?search=..&limit=..
// It lists catalog titles, optionally filtered by a case-insensitive
// substring, in catalog order.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := parseMoviesRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	all := h.store.Titles()

	matched := all
	if req.Search != "" {
		needle := strings.ToLower(req.Search)
		matched = make([]string, 0, len(all))
		for _, title := range all {
			if strings.Contains(strings.ToLower(title), needle) {
				matched = append(matched, title)
			}
		}
	}

	total := len(matched)
	if req.Limit > 0 && req.Limit < len(matched) {
		matched = matched[:req.Limit]
	}

	rw.Success(MoviesResponse{
		Titles: matched,
		Total:  total,
	})
}

// HealthResponse is the data payload of the health endpoints.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	CatalogTitles int    `json:"catalog_titles"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		CatalogTitles: h.store.Len(),
	})
}

// HealthLive handles GET /api/v1/health/live. Liveness only confirms
// the process answers requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. The server is ready
// once the catalog and similarity matrix are loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.store.Len() == 0 {
		NewResponseWriter(w, r).ServiceUnavailable("Catalog not loaded")
		return
	}
	WriteSuccess(w, r, map[string]string{"status": "ready"})
}
