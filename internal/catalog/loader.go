// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package catalog

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelmatch/reelmatch/internal/logging"
)

// matrixMagic identifies the binary similarity matrix format.
const matrixMagic = "RMSIM1"

// Load reads the catalog CSV and similarity matrix from disk and builds
// an immutable Store. Called once at process start.
func Load(catalogPath, matrixPath string) (*Store, error) {
	start := time.Now()

	titles, err := loadCatalogCSV(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", catalogPath, err)
	}

	matrix, err := loadMatrix(matrixPath)
	if err != nil {
		return nil, fmt.Errorf("load similarity matrix %s: %w", matrixPath, err)
	}

	store, err := NewStore(titles, matrix)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("items", store.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog loaded")

	return store, nil
}

// loadCatalogCSV reads the titles from a CSV file with a header row.
// The "title" column is located case-insensitively; other columns are
// ignored.
func loadCatalogCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "title") {
			titleCol = i
			break
		}
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("no title column in header %v", header)
	}

	var titles []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(titles)+1, err)
		}
		if titleCol >= len(record) {
			return nil, fmt.Errorf("row %d has %d columns, want at least %d", len(titles)+1, len(record), titleCol+1)
		}
		titles = append(titles, record[titleCol])
	}

	if len(titles) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	return titles, nil
}

// loadMatrix reads a similarity matrix, dispatching on file extension:
// ".json" for a nested JSON array, anything else for the binary format.
func loadMatrix(path string) ([][]float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadMatrixJSON(path)
	}
	return loadMatrixBinary(path)
}

func loadMatrixJSON(path string) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var matrix [][]float64
	if err := json.Unmarshal(data, &matrix); err != nil {
		return nil, fmt.Errorf("parse JSON matrix: %w", err)
	}

	return matrix, nil
}

func loadMatrixBinary(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	magic := make([]byte, len(matrixMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != matrixMagic {
		return nil, fmt.Errorf("bad magic %q, want %q", magic, matrixMagic)
	}

	var dim uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimension: %w", err)
	}
	if dim == 0 {
		return nil, fmt.Errorf("zero matrix dimension")
	}

	n := int(dim)
	raw := make([]uint64, n)
	matrix := make([][]float64, n)
	for i := range matrix {
		if err := binary.Read(f, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		row := make([]float64, n)
		for j, bits := range raw {
			row[j] = math.Float64frombits(bits)
		}
		matrix[i] = row
	}

	return matrix, nil
}

// WriteMatrixBinary writes a square matrix in the binary format read by
// loadMatrixBinary. Used by offline tooling and tests.
func WriteMatrixBinary(w io.Writer, matrix [][]float64) error {
	if _, err := w.Write([]byte(matrixMagic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(matrix))); err != nil {
		return err
	}
	for i, row := range matrix {
		if len(row) != len(matrix) {
			return fmt.Errorf("row %d has %d entries, want %d", i, len(row), len(matrix))
		}
		bits := make([]uint64, len(row))
		for j, v := range row {
			bits[j] = math.Float64bits(v)
		}
		if err := binary.Write(w, binary.LittleEndian, bits); err != nil {
			return err
		}
	}
	return nil
}
