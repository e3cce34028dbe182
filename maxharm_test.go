// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"math"

	"gopkg.in/check.v1"
)

type maxHarmSuite struct{}

var _ = check.Suite(&maxHarmSuite{})

func (s *maxHarmSuite) TestSignLogic(c *check.C) {
	psi := NewTable([]string{"E1", "E2"}, []string{"S1"})
	copy(psi.Values, []float64{30, 30})
	dep := NewTable([]string{"E1", "E2"}, []string{"S1"})
	copy(dep.Values, []float64{-2, 2})

	harm := MaxHarm(psi, dep)
	// onco-like event: final PSI 0
	c.Check(harm.At("E1", "S1"), check.Equals, -60.0)
	// tumor-suppressor-like event: final PSI 100
	c.Check(harm.At("E2", "S1"), check.Equals, -140.0)
}

func (s *maxHarmSuite) TestZeroAndNaN(c *check.C) {
	psi := NewTable([]string{"E1", "E2"}, []string{"S1"})
	copy(psi.Values, []float64{30, 30})
	dep := NewTable([]string{"E1", "E2"}, []string{"S1"})
	copy(dep.Values, []float64{0, math.NaN()})

	harm := MaxHarm(psi, dep)
	c.Check(harm.At("E1", "S1"), check.Equals, 0.0)
	c.Check(math.IsNaN(harm.At("E2", "S1")), check.Equals, true)
}

func (s *maxHarmSuite) TestIntersectsKeys(c *check.C) {
	psi := NewTable([]string{"E1", "E2"}, []string{"S1", "S2"})
	copy(psi.Values, []float64{10, 20, 30, 40})
	dep := NewTable([]string{"E2", "E3"}, []string{"S2", "S3"})
	copy(dep.Values, []float64{-1, -1, -1, -1})

	harm := MaxHarm(psi, dep)
	c.Check(harm.RowNames, check.DeepEquals, []string{"E2"})
	c.Check(harm.ColNames, check.DeepEquals, []string{"S2"})
	c.Check(harm.At("E2", "S2"), check.Equals, -40.0)
}
