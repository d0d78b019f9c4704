// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/reelmatch/reelmatch/internal/logging"
	"github.com/reelmatch/reelmatch/internal/metrics"
)

// DefaultBaseURL is the public OMDb API endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

// DefaultFallbackPoster is shown when OMDb has no poster for a title.
const DefaultFallbackPoster = "https://images.unsplash.com/photo-1702651250304-2d1d94d1f847?q=80&w=1887&auto=format"

// imdbTitleURL is the base for per-title IMDb links.
const imdbTitleURL = "https://www.imdb.com/title/"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20 // 1MB

// Config contains OMDb client configuration.
type Config struct {
	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates requests. Required.
	APIKey string `koanf:"api_key" validate:"required"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the maximum outbound requests per second.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the limiter burst size. Should be at least the largest
	// enrichment batch so a single batch is not serialized.
	RateBurst int `koanf:"rate_burst"`

	// FallbackPoster replaces missing poster references.
	FallbackPoster string `koanf:"fallback_poster"`
}

// DefaultConfig returns default OMDb client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        10 * time.Second,
		RateLimit:      5,
		RateBurst:      10,
		FallbackPoster: DefaultFallbackPoster,
	}
}

// Metadata is the normalized per-title lookup result.
type Metadata struct {
	// Title is the title as known to OMDb.
	Title string `json:"title"`

	// PosterURL is the poster image reference, never empty: missing
	// posters map to the fallback image.
	PosterURL string `json:"poster_url"`

	// Rating is the IMDb rating, 0.0 when OMDb reports none.
	Rating float64 `json:"rating"`

	// IMDbID is the external identifier, empty when unknown.
	IMDbID string `json:"imdb_id,omitempty"`

	// IMDbURL links to the title page, empty when IMDbID is unknown.
	IMDbURL string `json:"imdb_url,omitempty"`
}

// Result is the outcome of one lookup: a populated Metadata or Absent.
// Absent means "metadata could not be retrieved", distinct from a result
// with zero or fallback field values.
type Result struct {
	// Title is the requested catalog title.
	Title string `json:"title"`

	// Metadata is nil when the lookup failed or returned no usable data.
	Metadata *Metadata `json:"metadata"`
}

// Absent reports whether the lookup produced no usable metadata.
func (r Result) Absent() bool {
	return r.Metadata == nil
}

// payload mirrors the OMDb "find by title" response shape. Fields not
// consumed by Reelmatch are omitted.
type payload struct {
	Title      string `json:"Title"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Client handles communication with the OMDb HTTP API.
//
// Thread Safety: safe for concurrent use. One Client (and its pooled
// http.Client) is shared across all concurrent fetches of a batch.
type Client struct {
	baseURL        string
	apiKey         string
	fallbackPoster string
	httpClient     *http.Client
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[*Metadata]
}

// NewClient creates an OMDb client with rate limiting and circuit breaker
// protection.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 10
	}
	if cfg.FallbackPoster == "" {
		cfg.FallbackPoster = DefaultFallbackPoster
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		fallbackPoster: cfg.FallbackPoster,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		cb:      newBreaker("omdb-api"),
	}
}

// newBreaker builds the circuit breaker for the OMDb API.
// Opens after a 60% failure rate with at least 10 requests in a 1 minute
// window; probes again after 2 minutes.
func newBreaker(name string) *gobreaker.CircuitBreaker[*Metadata] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[*Metadata](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A well-formed "Response: False" reply is a healthy API telling us
		// the title is unknown; it must not open the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || errIsNoMatch(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

// Fetch performs a single lookup for the given title.
//
// Fetch never fails: any transport, protocol, or data-shape problem is
// observed, counted, and converted to an Absent result here so that a
// failing title cannot abort its batch.
func (c *Client) Fetch(ctx context.Context, title string) Result {
	start := time.Now()

	md, err := c.cb.Execute(func() (*Metadata, error) {
		return c.lookup(ctx, title)
	})
	if err != nil {
		outcome := "error"
		switch {
		case errIsRejection(err):
			metrics.CircuitBreakerRequests.WithLabelValues(c.cb.Name(), "rejected").Inc()
		case errIsNoMatch(err):
			outcome = "absent"
			metrics.CircuitBreakerRequests.WithLabelValues(c.cb.Name(), "success").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(c.cb.Name(), "failure").Inc()
		}
		metrics.RecordOMDbFetch(outcome, time.Since(start))

		logging.Ctx(ctx).Warn().
			Err(err).
			Str("title", title).
			Msg("OMDb lookup failed")

		return Result{Title: title}
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.cb.Name(), "success").Inc()
	metrics.RecordOMDbFetch("success", time.Since(start))

	return Result{Title: title, Metadata: md}
}

// CloseIdleConnections releases pooled connections held by the underlying
// HTTP client. Called when an enrichment batch completes.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// errNoMatch marks a well-formed "Response: False" reply.
type errNoMatch struct {
	reason string
}

func (e *errNoMatch) Error() string {
	return "no match: " + e.reason
}

func errIsNoMatch(err error) bool {
	var nm *errNoMatch
	return errors.As(err, &nm)
}

func errIsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// lookup performs the HTTP request and normalizes the response. All error
// paths are internal; Fetch converts them to Absent.
func (c *Client) lookup(ctx context.Context, title string) (*Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	reqURL := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}

	if strings.EqualFold(p.Response, "False") {
		reason := p.Error
		if reason == "" {
			reason = "unspecified"
		}
		return nil, &errNoMatch{reason: reason}
	}

	return c.normalize(title, &p)
}

// isSentinel reports whether an OMDb field value means "not available".
func isSentinel(v string) bool {
	return v == "" || v == "N/A"
}

// normalize maps the raw payload into Metadata, applying the sentinel
// rules documented on the package.
func (c *Client) normalize(requested string, p *payload) (*Metadata, error) {
	md := &Metadata{
		Title:     p.Title,
		PosterURL: p.Poster,
	}
	if md.Title == "" {
		md.Title = requested
	}
	if isSentinel(p.Poster) {
		md.PosterURL = c.fallbackPoster
	}

	if !isSentinel(p.IMDbRating) {
		rating, err := strconv.ParseFloat(p.IMDbRating, 64)
		if err != nil {
			return nil, fmt.Errorf("unparseable rating %q: %w", p.IMDbRating, err)
		}
		md.Rating = rating
	}

	if !isSentinel(p.IMDbID) {
		md.IMDbID = p.IMDbID
		md.IMDbURL = imdbTitleURL + p.IMDbID
	}

	return md, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
