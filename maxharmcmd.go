// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"flag"
	"fmt"
	"io"
)

// max-harm derives the worst-case perturbation score from an
// existing dependency-score table, without re-running the ensemble.
type maxHarmCmd struct{}

func (cmd *maxHarmCmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	splicingFile := flags.String("splicing", "", "PSI table `file` (events x samples)")
	depFile := flags.String("dependency", "", "splicing-dependency table `file` (typically median.tsv.gz)")
	outputFile := flags.String("o", "max_harm.tsv.gz", "output `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *splicingFile == "" || *depFile == "" {
		err = fmt.Errorf("-splicing and -dependency are required")
		return 2
	}

	splicing, err := LoadTable(*splicingFile)
	if err != nil {
		return 1
	}
	dep, err := LoadTable(*depFile)
	if err != nil {
		return 1
	}
	err = MaxHarm(splicing, dep).WriteFile(*outputFile)
	if err != nil {
		return 1
	}
	return 0
}
