// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/gonpy"
)

// export-numpy converts a dependency-score table (or any TSV table)
// to a numpy .npy matrix, optionally with row/column label files for
// reattaching the index downstream.
type exportNumpyCmd struct{}

func (cmd *exportNumpyCmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "", "input table `file`")
	outputFilename := flags.String("o", "-", "output .npy `file`")
	rowsFilename := flags.String("output-rows", "", "also output row labels to `file`, one per line")
	colsFilename := flags.String("output-cols", "", "also output column labels to `file`, one per line")
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

	var output io.WriteCloser
	if *outputFilename == "-" {
		output = nopCloser{stdout}
	} else {
		output, err = os.OpenFile(*outputFilename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			return 1
		}
		defer output.Close()
	}
	bufw := bufio.NewWriter(output)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return 1
	}
	npw.Shape = []int{t.Rows(), t.Cols()}
	err = npw.WriteFloat64(t.Values)
	if err != nil {
		return 1
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}

	if *rowsFilename != "" {
		err = writeLabels(*rowsFilename, t.RowNames)
		if err != nil {
			return 1
		}
	}
	if *colsFilename != "" {
		err = writeLabels(*colsFilename, t.ColNames)
		if err != nil {
			return 1
		}
	}
	return 0
}

func writeLabels(path string, labels []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	bufw := bufio.NewWriter(f)
	for _, label := range labels {
		fmt.Fprintln(bufw, label)
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
