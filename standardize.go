// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"fmt"
	"math"
	"strings"
)

// DegenerateReferenceError reports rows whose reference std is zero
// or non-finite, for which z-scores would be Inf/NaN. Keys lists
// every offending row.
type DegenerateReferenceError struct {
	What string // "event" or "gene"
	Keys []string
}

func (e *DegenerateReferenceError) Error() string {
	return fmt.Sprintf("degenerate reference std for %d %s row(s): %s", len(e.Keys), e.What, strings.Join(e.Keys, ", "))
}

// StandardizeSplicing rescales each PSI row to z-scores using the
// reference event mean/std, the per-row scalars broadcast across all
// sample columns. Rows without usable reference stats are collected
// into a DegenerateReferenceError and the table is left unmodified.
func StandardizeSplicing(t *Table, ref *RefStats) error {
	return standardize(t, "event", func(row string) (float64, float64, bool) {
		return ref.EventStats(row)
	})
}

// StandardizeGenexpr rescales each expression row to z-scores using
// the reference gene mean/std.
func StandardizeGenexpr(t *Table, ref *RefStats) error {
	return standardize(t, "gene", func(row string) (float64, float64, bool) {
		return ref.GeneStats(row)
	})
}

func standardize(t *Table, what string, stats func(string) (float64, float64, bool)) error {
	var bad []string
	for _, row := range t.RowNames {
		mean, std, ok := stats(row)
		if !ok || std == 0 || math.IsNaN(std) || math.IsInf(std, 0) || math.IsNaN(mean) || math.IsInf(mean, 0) {
			bad = append(bad, row)
		}
	}
	if len(bad) > 0 {
		return &DegenerateReferenceError{What: what, Keys: bad}
	}
	for i, row := range t.RowNames {
		mean, std, _ := stats(row)
		vals := t.RowAt(i)
		for j, x := range vals {
			vals[j] = (x - mean) / std
		}
	}
	return nil
}
