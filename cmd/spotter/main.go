// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"github.com/oncosplice/spotter"
)

func main() {
	spotter.Main()
}
