// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"io/ioutil"
	"math"

	"gopkg.in/check.v1"
)

type tpmSuite struct{}

var _ = check.Suite(&tpmSuite{})

func (s *tpmSuite) TestCountsToTPM(c *check.C) {
	counts := NewTable([]string{"ENSG1", "ENSG2"}, []string{"S1", "S2"})
	copy(counts.Values, []float64{10, 100, 30, 100})
	lengths := map[string]float64{"ENSG1": 10, "ENSG2": 10}

	tpm := CountsToTPM(counts, lengths)
	// S1 rates 1 and 3 normalize to 250000 and 750000 per million
	c.Check(tpm.At("ENSG1", "S1"), check.Equals, math.Log2(250000+1))
	c.Check(tpm.At("ENSG2", "S1"), check.Equals, math.Log2(750000+1))
	c.Check(tpm.At("ENSG1", "S2"), check.Equals, math.Log2(500000+1))
	// input untouched
	c.Check(counts.At("ENSG1", "S1"), check.Equals, 10.0)
}

func (s *tpmSuite) TestUnknownLengthYieldsNaN(c *check.C) {
	counts := NewTable([]string{"ENSG1", "ENSG2"}, []string{"S1"})
	copy(counts.Values, []float64{10, 30})
	tpm := CountsToTPM(counts, map[string]float64{"ENSG2": 10})
	c.Check(math.IsNaN(tpm.At("ENSG1", "S1")), check.Equals, true)
	// the NaN row is excluded from the column sum
	c.Check(tpm.At("ENSG2", "S1"), check.Equals, math.Log2(1e6+1))
}

func (s *tpmSuite) TestLog2Transform(c *check.C) {
	t := NewTable([]string{"ENSG1"}, []string{"S1", "S2"})
	copy(t.Values, []float64{0, 7})
	Log2Transform(t)
	c.Check(t.Values, check.DeepEquals, []float64{0, 3})
}

func (s *tpmSuite) TestLoadGeneLengths(c *check.C) {
	path := c.MkDir() + "/lengths.tsv"
	c.Assert(ioutil.WriteFile(path, []byte("ENSG1\t1000\nENSG2\t2500\n"), 0644), check.IsNil)
	lengths, err := LoadGeneLengths(path)
	c.Assert(err, check.IsNil)
	c.Check(lengths, check.DeepEquals, map[string]float64{"ENSG1": 1000, "ENSG2": 2500})
}
