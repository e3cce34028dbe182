// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CountsToTPM converts a raw-count expression table to log2(TPM+1).
// Each count is divided by its gene length to a rate, rates are
// normalized per sample column to sum to 1e6, and the result is
// log2(x+1) transformed. A gene with no known length, or a zero
// length, yields NaN for that row; NaN rates are excluded from the
// column sums.
func CountsToTPM(counts *Table, lengths map[string]float64) *Table {
	out := counts.Subset(counts.RowNames, counts.ColNames)
	ncol := out.Cols()
	for i, gene := range out.RowNames {
		length, ok := lengths[gene]
		row := out.RowAt(i)
		if !ok || length <= 0 {
			for j := range row {
				row[j] = math.NaN()
			}
			continue
		}
		for j := range row {
			row[j] /= length
		}
	}
	colsum := make([]float64, ncol)
	for i := range out.RowNames {
		for j, v := range out.RowAt(i) {
			if !math.IsNaN(v) {
				colsum[j] += v
			}
		}
	}
	for i := range out.RowNames {
		row := out.RowAt(i)
		for j, v := range row {
			if colsum[j] == 0 {
				row[j] = math.NaN()
			} else {
				row[j] = math.Log2(1e6*v/colsum[j] + 1)
			}
		}
	}
	return out
}

// Log2Transform replaces every cell x with log2(x+1) in place.
func Log2Transform(t *Table) {
	for i, x := range t.Values {
		t.Values[i] = math.Log2(x + 1)
	}
}

// LoadGeneLengths reads a two-column headerless TSV of gene ID and
// length in bases.
func LoadGeneLengths(path string) (map[string]float64, error) {
	rdr, closer, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	lengths := map[string]float64{}
	scanner := bufio.NewScanner(rdr)
	scanner.Buffer(make([]byte, 1<<20), 1<<28)
	ln := 0
	for scanner.Scan() {
		ln++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: line %d: expected 2 fields", path, ln)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, ln, err)
		}
		lengths[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lengths, nil
}
