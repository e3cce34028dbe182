// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

// ModelFitter is the upstream collaborator that produces the
// bootstrap coefficient tables consumed by Predictor. Fitting is not
// implemented here; implementations train one linear model per
// (event, gene) pair on gene-dependency screens, drawing iterations
// bootstrap resamples to populate the coefficient vectors.
type ModelFitter interface {
	FitModels(geneDependency, splicing, genexpr *Table, mapping *Mapping, iterations int) (*CoefficientSet, error)
}
