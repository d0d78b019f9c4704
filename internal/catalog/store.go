// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package catalog

import (
	"fmt"
)

// Store holds the loaded catalog and similarity matrix.
// It is immutable after construction and safe for concurrent use.
type Store struct {
	titles []string
	index  map[string]int
	matrix [][]float64
}

// NewStore builds a Store from in-memory data. The matrix must be square
// with dimension equal to len(titles).
//
// Duplicate titles keep the first occurrence in the index, matching the
// row the similarity matrix was built against.
func NewStore(titles []string, matrix [][]float64) (*Store, error) {
	if len(matrix) != len(titles) {
		return nil, fmt.Errorf("matrix dimension %d does not match catalog size %d", len(matrix), len(titles))
	}
	for i, row := range matrix {
		if len(row) != len(titles) {
			return nil, fmt.Errorf("matrix row %d has %d entries, want %d", i, len(row), len(titles))
		}
	}

	index := make(map[string]int, len(titles))
	for i, title := range titles {
		if _, ok := index[title]; !ok {
			index[title] = i
		}
	}

	return &Store{
		titles: titles,
		index:  index,
		matrix: matrix,
	}, nil
}

// Len returns the number of catalog items.
func (s *Store) Len() int {
	return len(s.titles)
}

// Index returns the row index for a title and whether it exists.
func (s *Store) Index(title string) (int, bool) {
	i, ok := s.index[title]
	return i, ok
}

// Title returns the title at the given row index.
// Panics if the index is out of range, matching slice semantics.
func (s *Store) Title(i int) string {
	return s.titles[i]
}

// Titles returns a copy of all catalog titles in row order.
func (s *Store) Titles() []string {
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out
}

// Row returns the similarity scores from item i to every catalog item,
// including itself. The returned slice is shared with the Store and must
// not be modified.
func (s *Store) Row(i int) []float64 {
	return s.matrix[i]
}
