// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config carries one run's inputs and parameters. There are no
// process-wide default paths; every pipeline stage receives this
// object (or fields from it) explicitly. A YAML run file can populate
// it via Load, with command-line flags overriding afterwards.
type Config struct {
	Splicing      string `koanf:"splicing"`
	Genexpr       string `koanf:"genexpr"`
	RefStats      string `koanf:"ref_stats"`
	CoefEvent     string `koanf:"coef_event"`
	CoefGene      string `koanf:"coef_gene"`
	CoefIntercept string `koanf:"coef_intercept"`
	Mapping       string `koanf:"mapping"`
	GeneLengths   string `koanf:"gene_lengths"`
	OutputDir     string `koanf:"output_dir"`

	NormalizeCounts bool `koanf:"normalize_counts"`
	LogTransform    bool `koanf:"log_transform"`
	// NIterations, when nonzero, is the expected bootstrap ensemble
	// size; coefficient tables with a different K fail to load.
	NIterations int  `koanf:"n_iterations"`
	Workers     int  `koanf:"workers"`
	MaxHarm     bool `koanf:"max_harm"`
}

func DefaultConfig() Config {
	return Config{
		OutputDir: "splicing_dependency",
	}
}

// Load overlays values from a YAML file onto c.
func (c *Config) Load(path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.NormalizeCounts && c.LogTransform {
		return fmt.Errorf("normalize_counts and log_transform are mutually exclusive")
	}
	if c.NormalizeCounts && c.GeneLengths == "" {
		return fmt.Errorf("normalize_counts requires gene_lengths")
	}
	if c.Splicing == "" || c.Genexpr == "" {
		return fmt.Errorf("splicing and genexpr inputs are required")
	}
	if c.RefStats == "" || c.CoefEvent == "" || c.CoefGene == "" || c.CoefIntercept == "" {
		return fmt.Errorf("ref_stats and all three coefficient tables are required")
	}
	return nil
}
