// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// summarize reports the shape and value distribution of a table as
// JSON, a quick check that a prediction run produced sensible dense
// output.
type summarizeCmd struct{}

func (cmd *summarizeCmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "", "input table `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *inputFilename == "" {
		err = fmt.Errorf("-i is required")
		return 2
	}

	t, err := LoadTable(*inputFilename)
	if err != nil {
		return 1
	}
	err = json.NewEncoder(stdout).Encode(summarizeTable(t))
	if err != nil {
		return 1
	}
	return 0
}

type tableSummary struct {
	Rows        int
	Cols        int
	FiniteCells int
	MissingCells int
	Min         float64
	Q25         float64
	Median      float64
	Q75         float64
	Max         float64
	Mean        float64
}

func summarizeTable(t *Table) tableSummary {
	ret := tableSummary{Rows: t.Rows(), Cols: t.Cols()}
	finite := make([]float64, 0, len(t.Values))
	for _, v := range t.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			ret.MissingCells++
		} else {
			finite = append(finite, v)
		}
	}
	ret.FiniteCells = len(finite)
	// encoding/json rejects NaN, so an all-missing table reports
	// zeros with FiniteCells==0 as the signal.
	if len(finite) == 0 {
		return ret
	}
	ret.Mean = stat.Mean(finite, nil)
	sort.Float64s(finite)
	ret.Min = finite[0]
	ret.Max = finite[len(finite)-1]
	ret.Q25 = quantile(finite, 0.25)
	ret.Median = quantile(finite, 0.5)
	ret.Q75 = quantile(finite, 0.75)
	return ret
}
