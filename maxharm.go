// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"math"
)

// MaxHarm derives the max-harm score from a PSI table and the
// matching splicing-dependency table (typically the ensemble
// median). For each cell the final PSI under maximal perturbation is
// 0 when the dependency is negative (the event behaves oncogenically)
// and 100 when positive (tumor-suppressor-like), and
//
//	maxHarm = -1 * dependency * (finalPSI - PSI)
//
// Rows and columns are intersected first, in dependency-table order;
// a zero or NaN dependency yields 0 or NaN respectively.
func MaxHarm(splicing, dependency *Table) *Table {
	var rows []string
	for _, e := range dependency.RowNames {
		if splicing.HasRow(e) {
			rows = append(rows, e)
		}
	}
	var cols []string
	for _, s := range dependency.ColNames {
		if splicing.HasCol(s) {
			cols = append(cols, s)
		}
	}
	dep := dependency.Subset(rows, cols)
	psi := splicing.Subset(rows, cols)

	out := NewTable(rows, cols)
	for i := range rows {
		d := dep.RowAt(i)
		x := psi.RowAt(i)
		res := out.RowAt(i)
		for j, dv := range d {
			finalPSI := dv // keeps 0 and NaN as-is
			if dv < 0 {
				finalPSI = 0
			} else if dv > 0 {
				finalPSI = 100
			}
			if math.IsNaN(dv) || math.IsNaN(x[j]) {
				res[j] = math.NaN()
			} else {
				res[j] = -1 * dv * (finalPSI - x[j])
			}
		}
	}
	return out
}
