// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// batch
	inputFile string
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// check
	interactive bool
	// check
	hashed bool
	// check
	userInputs []string
	// batch
	threads int
	// batch
	requestsPerSecond int
	// suggest
	count int
)
