// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// summary holds the five per-sample distribution statistics reduced
// from one pair's bootstrap ensemble.
type summary struct {
	mean   []float64
	median []float64
	std    []float64
	q25    []float64
	q75    []float64
}

// evaluatePair evaluates the bootstrap ensemble of one (event, gene)
// pair against standardized per-sample inputs. For bootstrap draw k
// and sample s,
//
//	y[k,s] = bIntercept[k] + bEvent[k]*psi[s] + bGene[k]*tpm[s]
//
// and the K predictions per sample are reduced to mean, median,
// population std, and the 25th/75th percentiles. The reduction is
// pure and deterministic; pairs share no state.
func evaluatePair(bEvent, bGene, bIntercept, psi, tpm []float64) summary {
	nsamples := len(psi)
	sum := summary{
		mean:   make([]float64, nsamples),
		median: make([]float64, nsamples),
		std:    make([]float64, nsamples),
		q25:    make([]float64, nsamples),
		q75:    make([]float64, nsamples),
	}
	y := make([]float64, len(bIntercept))
	for s := 0; s < nsamples; s++ {
		for k := range y {
			y[k] = bIntercept[k] + bEvent[k]*psi[s] + bGene[k]*tpm[s]
		}
		sum.mean[s] = stat.Mean(y, nil)
		sum.std[s] = math.Sqrt(stat.PopVariance(y, nil))
		sort.Float64s(y)
		sum.median[s] = quantile(y, 0.5)
		sum.q25[s] = quantile(y, 0.25)
		sum.q75[s] = quantile(y, 0.75)
	}
	return sum
}

// quantile computes the p-th quantile of sorted data by linear
// interpolation between adjacent order statistics: the value at
// fractional rank (n-1)*p.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := float64(len(sorted)-1) * p
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
