// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	log "github.com/sirupsen/logrus"
)

// Alignment is the result of restricting the input tables and the
// coefficient index to their shared keys. Every retained event has
// PSI values, its gene has expression values, and its pair has all
// three coefficient vectors.
type Alignment struct {
	Splicing *Table
	Genexpr  *Table
	Coefs    *CoefficientSet
	Samples  []string
}

func (a *Alignment) Empty() bool {
	return len(a.Coefs.Pairs) == 0 || len(a.Samples) == 0
}

// Align intersects event, gene, and sample keys across the PSI table,
// the expression table, and the coefficient index. Each key
// intersection is computed explicitly; the tables are subset copies
// re-indexed to the shared keys, order-preserving within the original
// table. Alignment performs no statistical filtering. An empty
// intersection is a valid (empty) result, logged but not an error.
func Align(splicing, genexpr *Table, coefs *CoefficientSet) *Alignment {
	// An event is usable when the coefficient index covers it, the
	// PSI table has it, and the expression table has its gene; a
	// gene is usable symmetrically.
	events := map[string]bool{}
	genes := map[string]bool{}
	for _, p := range coefs.Pairs {
		if splicing.HasRow(p.Event) && genexpr.HasRow(p.Ensembl) {
			events[p.Event] = true
			genes[p.Ensembl] = true
		}
	}

	var samples []string
	for _, s := range splicing.ColNames {
		if genexpr.HasCol(s) {
			samples = append(samples, s)
		}
	}

	var eventRows []string
	for _, e := range splicing.RowNames {
		if events[e] {
			eventRows = append(eventRows, e)
		}
	}
	var geneRows []string
	for _, g := range genexpr.RowNames {
		if genes[g] {
			geneRows = append(geneRows, g)
		}
	}

	a := &Alignment{
		Splicing: splicing.Subset(eventRows, samples),
		Genexpr:  genexpr.Subset(geneRows, samples),
		Coefs:    coefs.Restrict(events, genes),
		Samples:  samples,
	}
	if a.Empty() {
		log.Warnf("alignment is empty: %d events, %d genes, %d samples in common", len(eventRows), len(geneRows), len(samples))
	} else {
		log.Infof("aligned %d events, %d genes, %d samples (%d model pairs)", len(eventRows), len(geneRows), len(samples), len(a.Coefs.Pairs))
	}
	return a
}
