// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package recommend

import "errors"

var (
	// ErrTitleNotFound indicates the requested title is absent from the
	// catalog. No recommendation is possible for that request.
	ErrTitleNotFound = errors.New("title not found in catalog")

	// ErrInvalidCount indicates a malformed recommendation count
	// (non-positive or above the configured maximum).
	ErrInvalidCount = errors.New("invalid recommendation count")
)
