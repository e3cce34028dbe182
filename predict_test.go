// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bytes"
	"context"
	"io/ioutil"
	"math"
	"strings"

	"gopkg.in/check.v1"
)

type predictSuite struct{}

var _ = check.Suite(&predictSuite{})

func (s *predictSuite) TestPredictValues(c *check.C) {
	splicing, genexpr := testTables()
	pred := &Predictor{}
	dep, err := pred.Predict(context.Background(), splicing, genexpr, testRefStats(), testCoefs())
	c.Assert(err, check.IsNil)

	c.Check(dep.Median.RowNames, check.DeepEquals, []string{"E1", "E2", "E3"})
	c.Check(dep.Median.ColNames, check.DeepEquals, []string{"S1", "S2", "S3"})

	// E1/S1: psi z=(30-50)/20=-1, gene coef 0, draws -1,-2,-3
	c.Check(dep.Median.At("E1", "S1"), check.Equals, -2.0)
	c.Check(dep.Mean.At("E1", "S1"), check.Equals, -2.0)
	c.Check(dep.Q25.At("E1", "S1"), check.Equals, -2.5)
	c.Check(dep.Q75.At("E1", "S1"), check.Equals, -1.5)
	// E2/S1: psi z=-1, tpm z=(1-2)/1=-1, y=0.5*(-1)+1*(-1)=-1.5 for
	// every draw
	c.Check(dep.Median.At("E2", "S1"), check.Equals, -1.5)
	c.Check(dep.Std.At("E2", "S1"), check.Equals, 0.0)
}

func dependencyBytes(c *check.C, dep *Dependency) []byte {
	var buf bytes.Buffer
	for _, t := range []*Table{dep.Mean, dep.Median, dep.Std, dep.Q25, dep.Q75} {
		c.Assert(t.Write(&buf), check.IsNil)
	}
	return buf.Bytes()
}

func (s *predictSuite) TestOrderIndependence(c *check.C) {
	var outputs [][]byte
	for _, workers := range []int{1, 2, 8} {
		splicing, genexpr := testTables()
		pred := &Predictor{Workers: workers}
		dep, err := pred.Predict(context.Background(), splicing, genexpr, testRefStats(), testCoefs())
		c.Assert(err, check.IsNil)
		outputs = append(outputs, dependencyBytes(c, dep))
	}
	c.Check(bytes.Equal(outputs[0], outputs[1]), check.Equals, true)
	c.Check(bytes.Equal(outputs[0], outputs[2]), check.Equals, true)
}

func (s *predictSuite) TestDegenerateReferenceFailsRun(c *check.C) {
	splicing, genexpr := testTables()
	ref := testRefStats()
	ref.eventStd["E3"] = 0
	pred := &Predictor{}
	dep, err := pred.Predict(context.Background(), splicing, genexpr, ref, testCoefs())
	c.Check(dep, check.IsNil)
	degerr, ok := err.(*DegenerateReferenceError)
	c.Assert(ok, check.Equals, true)
	c.Check(degerr.Keys, check.DeepEquals, []string{"E3"})
}

func (s *predictSuite) TestTransformModesMutuallyExclusive(c *check.C) {
	splicing, genexpr := testTables()
	pred := &Predictor{NormalizeCounts: true, LogTransform: true}
	_, err := pred.Predict(context.Background(), splicing, genexpr, testRefStats(), testCoefs())
	c.Check(err, check.NotNil)
}

func (s *predictSuite) TestCancelledContext(c *check.C) {
	splicing, genexpr := testTables()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pred := &Predictor{}
	dep, err := pred.Predict(ctx, splicing, genexpr, testRefStats(), testCoefs())
	c.Check(dep, check.IsNil)
	c.Check(err, check.Equals, context.Canceled)
}

func (s *predictSuite) TestEmptyAlignmentProducesEmptyTables(c *check.C) {
	splicing := NewTable([]string{"EZ"}, []string{"S1"})
	genexpr := NewTable([]string{"ENSGZ"}, []string{"S1"})
	pred := &Predictor{}
	dep, err := pred.Predict(context.Background(), splicing, genexpr, testRefStats(), testCoefs())
	c.Assert(err, check.IsNil)
	c.Check(dep.Mean.Rows(), check.Equals, 0)
	c.Check(dep.Median.Rows(), check.Equals, 0)
}

func writeCoefFixtures(c *check.C, dropFromIntercept string) (eventPath, genePath, interceptPath string) {
	tmpdir := c.MkDir()
	header := "EVENT\tGENE\tENSEMBL\tit0\tit1\tit2\n"
	rows := map[string][3]string{
		"event": {
			"E1\tGENE1\tENSG1\t1\t2\t3\n",
			"E2\tGENE2\tENSG2\t0.5\t0.5\t0.5\n",
			"E3\tGENE1\tENSG1\t-1\t-1\t-1\n",
		},
		"gene": {
			"E1\tGENE1\tENSG1\t0\t0\t0\n",
			"E2\tGENE2\tENSG2\t1\t1\t1\n",
			"E3\tGENE1\tENSG1\t0.5\t0.5\t0.5\n",
		},
		"intercept": {
			"E1\tGENE1\tENSG1\t0\t0\t0\n",
			"E2\tGENE2\tENSG2\t0\t0\t0\n",
			"E3\tGENE1\tENSG1\t1\t1\t1\n",
		},
	}
	paths := map[string]string{}
	for name, content := range rows {
		data := header
		for _, row := range content {
			if name == "intercept" && dropFromIntercept != "" && strings.HasPrefix(row, dropFromIntercept+"\t") {
				continue
			}
			data += row
		}
		path := tmpdir + "/coef_" + name + ".tsv"
		c.Assert(ioutil.WriteFile(path, []byte(data), 0644), check.IsNil)
		paths[name] = path
	}
	return paths["event"], paths["gene"], paths["intercept"]
}

func (s *predictSuite) TestLoadCoefficients(c *check.C) {
	eventPath, genePath, interceptPath := writeCoefFixtures(c, "")
	cs, err := LoadCoefficients(eventPath, genePath, interceptPath, 3)
	c.Assert(err, check.IsNil)
	c.Check(cs.K, check.Equals, 3)
	c.Check(len(cs.Pairs), check.Equals, 3)
	c.Check(len(cs.Skipped), check.Equals, 0)
	pair, ok := cs.Lookup(PairKey{"E2", "ENSG2"})
	c.Assert(ok, check.Equals, true)
	c.Check(pair.BGene, check.DeepEquals, []float64{1, 1, 1})
	c.Check(pair.GeneName, check.Equals, "GENE2")

	_, err = LoadCoefficients(eventPath, genePath, interceptPath, 7)
	c.Check(err, check.NotNil)
}

func (s *predictSuite) TestMissingPairExcluded(c *check.C) {
	eventPath, genePath, interceptPath := writeCoefFixtures(c, "E3")
	cs, err := LoadCoefficients(eventPath, genePath, interceptPath, 0)
	c.Assert(err, check.IsNil)
	c.Check(cs.Skipped, check.DeepEquals, []PairKey{{"E3", "ENSG1"}})
	c.Check(len(cs.Pairs), check.Equals, 2)

	splicing, genexpr := testTables()
	pred := &Predictor{}
	dep, err := pred.Predict(context.Background(), splicing, genexpr, testRefStats(), cs)
	c.Assert(err, check.IsNil)
	// the skipped event is absent from every output table, not
	// present as a row of NaNs
	for _, t := range []*Table{dep.Mean, dep.Median, dep.Std, dep.Q25, dep.Q75} {
		c.Check(t.HasRow("E3"), check.Equals, false)
		c.Check(t.RowNames, check.DeepEquals, []string{"E1", "E2"})
		for _, v := range t.Values {
			c.Check(math.IsNaN(v), check.Equals, false)
		}
	}
}
