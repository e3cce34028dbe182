// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bufio"
	"fmt"
	"strings"
)

// RefStats holds reference-cohort mean/std used to standardize query
// data. PSI stats are keyed by event, expression stats by ensembl
// gene ID. Query data is always scaled against these, never against
// statistics of the query itself, so query and reference stay on the
// same scale.
type RefStats struct {
	eventMean map[string]float64
	eventStd  map[string]float64
	geneMean  map[string]float64
	geneStd   map[string]float64
}

func (r *RefStats) EventStats(event string) (mean, std float64, ok bool) {
	mean, ok = r.eventMean[event]
	if !ok {
		return 0, 0, false
	}
	return mean, r.eventStd[event], true
}

func (r *RefStats) GeneStats(ensembl string) (mean, std float64, ok bool) {
	mean, ok = r.geneMean[ensembl]
	if !ok {
		return 0, 0, false
	}
	return mean, r.geneStd[ensembl], true
}

// LoadRefStats reads a reference statistics table keyed by (EVENT,
// ENSEMBL) with event_mean, event_std, gene_mean, gene_std columns.
// Gene stats appear once per event of that gene; repeated rows must
// agree exactly. A gene whose repeated rows disagree is an error, not
// a deduplication candidate.
func LoadRefStats(path string) (*RefStats, error) {
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
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"EVENT", "ENSEMBL", "event_mean", "event_std", "gene_mean", "gene_std"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	r := &RefStats{
		eventMean: map[string]float64{},
		eventStd:  map[string]float64{},
		geneMean:  map[string]float64{},
		geneStd:   map[string]float64{},
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
		event := fields[col["EVENT"]]
		ensembl := fields[col["ENSEMBL"]]
		var vals [4]float64
		for i, name := range []string{"event_mean", "event_std", "gene_mean", "gene_std"} {
			v, err := parseCell(fields[col[name]])
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: %s: %w", path, ln, name, err)
			}
			vals[i] = v
		}
		if _, dup := r.eventMean[event]; dup {
			return nil, fmt.Errorf("%s: line %d: duplicate event %s", path, ln, event)
		}
		r.eventMean[event] = vals[0]
		r.eventStd[event] = vals[1]
		if mean, dup := r.geneMean[ensembl]; dup {
			if mean != vals[2] || r.geneStd[ensembl] != vals[3] {
				return nil, fmt.Errorf("%s: line %d: conflicting reference stats for gene %s", path, ln, ensembl)
			}
		} else {
			r.geneMean[ensembl] = vals[2]
			r.geneStd[ensembl] = vals[3]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
