// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Command galapagos-resolve assigns GBIF biodiversity observations to
// Galápagos islands, using a coordinate resolver and a name resolver
// arbitrated by a prioritizer.
package main

import (
	"github.com/calacademy-research/galapagos-island-mapper/cmdapp"
)

func init() {
	cmdapp.Short = "resolve GBIF observations to Galápagos islands"
}

func main() {
	cmdapp.Main()
}
