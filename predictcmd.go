// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
)

type predictCmd struct {
	cfg Config
}

func (cmd *predictCmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	cmd.cfg = DefaultConfig()
	cfg := &cmd.cfg
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("config", "", "YAML run-config `file` (flags override its values)")
	flags.StringVar(&cfg.Splicing, "splicing", cfg.Splicing, "PSI table `file` (events x samples)")
	flags.StringVar(&cfg.Genexpr, "genexpr", cfg.Genexpr, "gene expression table `file` (genes x samples)")
	flags.StringVar(&cfg.RefStats, "ref-stats", cfg.RefStats, "reference statistics table `file`")
	flags.StringVar(&cfg.CoefEvent, "coef-event", cfg.CoefEvent, "event coefficient table `file`")
	flags.StringVar(&cfg.CoefGene, "coef-gene", cfg.CoefGene, "gene coefficient table `file`")
	flags.StringVar(&cfg.CoefIntercept, "coef-intercept", cfg.CoefIntercept, "intercept coefficient table `file`")
	flags.StringVar(&cfg.Mapping, "mapping", cfg.Mapping, "event-gene mapping table `file` (optional, cross-checks coefficients)")
	flags.StringVar(&cfg.GeneLengths, "gene-lengths", cfg.GeneLengths, "gene length `file` for -normalize-counts")
	flags.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output `directory`")
	flags.BoolVar(&cfg.NormalizeCounts, "normalize-counts", cfg.NormalizeCounts, "convert raw counts to log2(TPM+1) before standardizing")
	flags.BoolVar(&cfg.LogTransform, "log-transform", cfg.LogTransform, "apply log2(x+1) before standardizing")
	flags.IntVar(&cfg.NIterations, "iterations", cfg.NIterations, "expected bootstrap ensemble size `K` (0 = accept whatever the tables hold)")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker pool size `N` (0 = all CPUs)")
	flags.BoolVar(&cfg.MaxHarm, "max-harm", cfg.MaxHarm, "also compute the max-harm score table")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *configFile != "" {
		// Reload: defaults, then file, then explicit flags on top.
		*cfg = DefaultConfig()
		if err = cfg.Load(*configFile); err != nil {
			return 1
		}
		if err = flags.Parse(args); err != nil {
			return 2
		}
	}
	if err = cfg.Validate(); err != nil {
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = cmd.run(ctx)
	if err != nil {
		return 1
	}
	return 0
}

func (cmd *predictCmd) run(ctx context.Context) error {
	cfg := &cmd.cfg

	log.Info("loading data")
	splicing, err := LoadTable(cfg.Splicing)
	if err != nil {
		return err
	}
	genexpr, err := LoadTable(cfg.Genexpr)
	if err != nil {
		return err
	}
	ref, err := LoadRefStats(cfg.RefStats)
	if err != nil {
		return err
	}
	coefs, err := LoadCoefficients(cfg.CoefEvent, cfg.CoefGene, cfg.CoefIntercept, cfg.NIterations)
	if err != nil {
		return err
	}
	if cfg.Mapping != "" {
		mapping, err := LoadMapping(cfg.Mapping)
		if err != nil {
			return err
		}
		if err = mapping.Validate(coefs); err != nil {
			return err
		}
	}

	pred := &Predictor{
		NormalizeCounts: cfg.NormalizeCounts,
		LogTransform:    cfg.LogTransform,
		Workers:         cfg.Workers,
	}
	if cfg.NormalizeCounts {
		pred.GeneLengths, err = LoadGeneLengths(cfg.GeneLengths)
		if err != nil {
			return err
		}
	}

	dep, err := pred.Predict(ctx, splicing, genexpr, ref, coefs)
	if err != nil {
		return err
	}
	log.Infof("computed dependency tables: %d events x %d samples", dep.Median.Rows(), dep.Median.Cols())

	// Outputs are written only after the whole run has succeeded, so
	// an interrupted run never leaves truncated tables behind.
	if err := os.MkdirAll(cfg.OutputDir, 0777); err != nil {
		return err
	}
	log.Infof("saving results to %s", cfg.OutputDir)
	for name, t := range map[string]*Table{
		"mean":   dep.Mean,
		"median": dep.Median,
		"std":    dep.Std,
		"q25":    dep.Q25,
		"q75":    dep.Q75,
	} {
		if err := t.WriteFile(filepath.Join(cfg.OutputDir, name+".tsv.gz")); err != nil {
			return err
		}
	}
	if cfg.MaxHarm {
		harm := MaxHarm(splicing, dep.Median)
		if err := harm.WriteFile(filepath.Join(cfg.OutputDir, "max_harm.tsv.gz")); err != nil {
			return err
		}
	}
	return nil
}
