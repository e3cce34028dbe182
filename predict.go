// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Predictor estimates splicing dependency scores from pre-fitted
// bootstrap linear models. Exactly one of NormalizeCounts and
// LogTransform may be set; GeneLengths is required with
// NormalizeCounts.
type Predictor struct {
	NormalizeCounts bool
	LogTransform    bool
	GeneLengths     map[string]float64
	// Workers bounds the evaluation pool; <1 means all CPUs.
	Workers int
}

// Dependency holds the five event-by-sample result tables. Rows are
// the evaluated events in coefficient-index order, columns the
// aligned samples. The tables are written once by Predict and never
// mutated afterwards.
type Dependency struct {
	Mean   *Table
	Median *Table
	Std    *Table
	Q25    *Table
	Q75    *Table
}

// Predict runs the full pipeline: align the PSI and expression
// tables against the coefficient index, optionally transform
// expression, standardize both signals against the reference stats,
// evaluate the bootstrap ensemble for every (event, gene) pair on a
// bounded worker pool, and assemble the per-pair summaries into the
// five result tables.
//
// Although pairs may complete out of order, each task writes only its
// own preassigned row of each result table, so the output is
// identical for any worker count. A failing pair aborts the whole
// run with its key; no partial tables are returned.
func (p *Predictor) Predict(ctx context.Context, splicing, genexpr *Table, ref *RefStats, coefs *CoefficientSet) (*Dependency, error) {
	if p.NormalizeCounts && p.LogTransform {
		return nil, fmt.Errorf("normalize_counts and log_transform are mutually exclusive")
	}

	al := Align(splicing, genexpr, coefs)

	if p.NormalizeCounts {
		log.Info("normalizing counts to log2(TPM+1)")
		if p.GeneLengths == nil {
			return nil, fmt.Errorf("normalize_counts requires gene lengths")
		}
		al.Genexpr = CountsToTPM(al.Genexpr, p.GeneLengths)
	} else if p.LogTransform {
		log.Info("transforming TPM into log2(TPM+1)")
		Log2Transform(al.Genexpr)
	}

	if err := StandardizeSplicing(al.Splicing, ref); err != nil {
		return nil, err
	}
	if err := StandardizeGenexpr(al.Genexpr, ref); err != nil {
		return nil, err
	}

	events := make([]string, len(al.Coefs.Pairs))
	for i, pair := range al.Coefs.Pairs {
		events[i] = pair.Event
	}
	dep := &Dependency{
		Mean:   NewTable(events, al.Samples),
		Median: NewTable(events, al.Samples),
		Std:    NewTable(events, al.Samples),
		Q25:    NewTable(events, al.Samples),
		Q75:    NewTable(events, al.Samples),
	}
	if al.Empty() {
		return dep, nil
	}

	log.Infof("computing splicing dependencies for %d pairs", len(al.Coefs.Pairs))
	pool := throttle{Max: p.Workers}
	for i, pair := range al.Coefs.Pairs {
		if err := ctx.Err(); err != nil {
			pool.Report(err)
			break
		}
		i, pair := i, pair
		pool.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("evaluating pair %s: panic: %v", pair.PairKey, r)
				}
			}()
			psi := al.Splicing.Row(pair.Event)
			tpm := al.Genexpr.Row(pair.Ensembl)
			if psi == nil || tpm == nil {
				return fmt.Errorf("evaluating pair %s: aligned inputs missing", pair.PairKey)
			}
			sum := evaluatePair(pair.BEvent, pair.BGene, pair.BIntercept, psi, tpm)
			copy(dep.Mean.RowAt(i), sum.mean)
			copy(dep.Median.RowAt(i), sum.median)
			copy(dep.Std.RowAt(i), sum.std)
			copy(dep.Q25.RowAt(i), sum.q25)
			copy(dep.Q75.RowAt(i), sum.q75)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return dep, nil
}
