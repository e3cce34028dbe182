// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bufio"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// PairKey identifies one fitted model by its splicing event and the
// ensembl ID of the gene the event belongs to.
type PairKey struct {
	Event   string
	Ensembl string
}

func (k PairKey) String() string { return k.Event + "/" + k.Ensembl }

// CoefPair holds the bootstrap coefficient vectors for one
// (event, gene) pair. The three vectors have equal length K, one
// entry per bootstrap draw.
type CoefPair struct {
	PairKey
	GeneName   string
	BEvent     []float64
	BGene      []float64
	BIntercept []float64
}

// CoefficientSet is the fitted-model index: an ordered set of
// coefficient pairs. Pair order follows the event-coefficient table
// and determines output row order.
type CoefficientSet struct {
	Pairs []CoefPair
	// K is the bootstrap ensemble size shared by all vectors.
	K int
	// Skipped lists pairs present in the event-coefficient table
	// but missing from the gene or intercept table.
	Skipped []PairKey

	index map[PairKey]int
}

func (cs *CoefficientSet) reindex() {
	cs.index = make(map[PairKey]int, len(cs.Pairs))
	for i, p := range cs.Pairs {
		cs.index[p.PairKey] = i
	}
}

func (cs *CoefficientSet) Lookup(key PairKey) (CoefPair, bool) {
	i, ok := cs.index[key]
	if !ok {
		return CoefPair{}, false
	}
	return cs.Pairs[i], true
}

// Events returns the set of events covered by the coefficient index.
func (cs *CoefficientSet) Events() map[string]bool {
	out := make(map[string]bool, len(cs.Pairs))
	for _, p := range cs.Pairs {
		out[p.Event] = true
	}
	return out
}

// Genes returns the set of ensembl IDs covered by the coefficient
// index.
func (cs *CoefficientSet) Genes() map[string]bool {
	out := make(map[string]bool, len(cs.Pairs))
	for _, p := range cs.Pairs {
		out[p.Ensembl] = true
	}
	return out
}

// Restrict returns a new CoefficientSet containing only pairs whose
// event and gene appear in the given sets, preserving pair order.
func (cs *CoefficientSet) Restrict(events, genes map[string]bool) *CoefficientSet {
	out := &CoefficientSet{K: cs.K, Skipped: cs.Skipped}
	for _, p := range cs.Pairs {
		if events[p.Event] && genes[p.Ensembl] {
			out.Pairs = append(out.Pairs, p)
		}
	}
	out.reindex()
	return out
}

// LoadCoefficients reads the three bootstrap coefficient tables. Each
// is a TSV keyed by EVENT, GENE, ENSEMBL columns followed by one
// column per bootstrap iteration. The event table defines the pair
// index; a pair missing from the gene or intercept table is logged,
// recorded in Skipped, and excluded. wantK > 0 requires the ensemble
// size found in the tables to match.
func LoadCoefficients(eventPath, genePath, interceptPath string, wantK int) (*CoefficientSet, error) {
	event, err := readCoefTable(eventPath)
	if err != nil {
		return nil, err
	}
	gene, err := readCoefTable(genePath)
	if err != nil {
		return nil, err
	}
	intercept, err := readCoefTable(interceptPath)
	if err != nil {
		return nil, err
	}

	cs := &CoefficientSet{K: event.k}
	if wantK > 0 && wantK != cs.K {
		return nil, fmt.Errorf("%s: ensemble size %d does not match configured n_iterations %d", eventPath, cs.K, wantK)
	}
	if gene.k != cs.K || intercept.k != cs.K {
		return nil, fmt.Errorf("coefficient tables disagree on ensemble size: event=%d gene=%d intercept=%d", cs.K, gene.k, intercept.k)
	}
	seen := map[PairKey]bool{}
	for _, row := range event.rows {
		if seen[row.PairKey] {
			return nil, fmt.Errorf("%s: duplicate coefficient pair %s", eventPath, row.PairKey)
		}
		seen[row.PairKey] = true
		grow, ok := gene.byKey[row.PairKey]
		if !ok {
			log.Warnf("skipping pair %s: no entry in gene coefficient table", row.PairKey)
			cs.Skipped = append(cs.Skipped, row.PairKey)
			continue
		}
		irow, ok := intercept.byKey[row.PairKey]
		if !ok {
			log.Warnf("skipping pair %s: no entry in intercept coefficient table", row.PairKey)
			cs.Skipped = append(cs.Skipped, row.PairKey)
			continue
		}
		cs.Pairs = append(cs.Pairs, CoefPair{
			PairKey:    row.PairKey,
			GeneName:   row.geneName,
			BEvent:     row.values,
			BGene:      grow.values,
			BIntercept: irow.values,
		})
	}
	cs.reindex()
	return cs, nil
}

type coefRow struct {
	PairKey
	geneName string
	values   []float64
}

type coefTable struct {
	rows  []coefRow
	byKey map[PairKey]coefRow
	k     int
}

func readCoefTable(path string) (*coefTable, error) {
	rdr, closer, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	scanner := bufio.NewScanner(rdr)
	scanner.Buffer(make([]byte, 1<<20), 1<<28)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%s: empty input", path)
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	colEvent, colGene, colEnsembl := -1, -1, -1
	for i, name := range header {
		switch name {
		case "EVENT":
			colEvent = i
		case "GENE":
			colGene = i
		case "ENSEMBL":
			colEnsembl = i
		}
	}
	if colEvent < 0 || colGene < 0 || colEnsembl < 0 {
		return nil, fmt.Errorf("%s: header must contain EVENT, GENE, and ENSEMBL columns", path)
	}
	keycols := map[int]bool{colEvent: true, colGene: true, colEnsembl: true}
	t := &coefTable{byKey: map[PairKey]coefRow{}, k: len(header) - len(keycols)}
	if t.k < 1 {
		return nil, fmt.Errorf("%s: no bootstrap iteration columns", path)
	}
	ln := 1
	for scanner.Scan() {
		ln++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("%s: line %d: got %d fields, expected %d", path, ln, len(fields), len(header))
		}
		row := coefRow{
			PairKey:  PairKey{Event: fields[colEvent], Ensembl: fields[colEnsembl]},
			geneName: fields[colGene],
			values:   make([]float64, 0, t.k),
		}
		for i, field := range fields {
			if keycols[i] {
				continue
			}
			v, err := parseCell(field)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: %w", path, ln, err)
			}
			row.values = append(row.values, v)
		}
		t.rows = append(t.rows, row)
		t.byKey[row.PairKey] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
