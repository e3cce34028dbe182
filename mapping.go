// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bufio"
	"fmt"
	"strings"
)

// Mapping relates splicing events to the gene they belong to. The
// relation is many-to-one: each event maps to exactly one gene.
type Mapping struct {
	ensembl  map[string]string // event -> ensembl
	geneName map[string]string // ensembl -> display name
}

func (m *Mapping) Ensembl(event string) (string, bool) {
	g, ok := m.ensembl[event]
	return g, ok
}

func (m *Mapping) GeneName(ensembl string) string {
	return m.geneName[ensembl]
}

// Validate cross-checks a coefficient index against the mapping:
// every pair's event must map to that pair's gene.
func (m *Mapping) Validate(cs *CoefficientSet) error {
	for _, p := range cs.Pairs {
		ensembl, ok := m.ensembl[p.Event]
		if !ok {
			return fmt.Errorf("coefficient pair %s: event not in mapping", p.PairKey)
		}
		if ensembl != p.Ensembl {
			return fmt.Errorf("coefficient pair %s: mapping assigns event to gene %s", p.PairKey, ensembl)
		}
	}
	return nil
}

// LoadMapping reads an event-gene mapping table with EVENT, GENE, and
// ENSEMBL columns. An event listed with two different genes violates
// the many-to-one invariant and is an error.
func LoadMapping(path string) (*Mapping, error) {
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
	m := &Mapping{ensembl: map[string]string{}, geneName: map[string]string{}}
	ln := 1
	for scanner.Scan() {
		ln++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= colEvent || len(fields) <= colGene || len(fields) <= colEnsembl {
			return nil, fmt.Errorf("%s: line %d: short row", path, ln)
		}
		event, ensembl := fields[colEvent], fields[colEnsembl]
		if prev, ok := m.ensembl[event]; ok && prev != ensembl {
			return nil, fmt.Errorf("%s: line %d: event %s maps to both %s and %s", path, ln, event, prev, ensembl)
		}
		m.ensembl[event] = ensembl
		m.geneName[ensembl] = fields[colGene]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
