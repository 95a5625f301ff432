// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package coordinate

import (
	"testing"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/calacademy-research/galapagos-island-mapper/island"
)

func newTestRegistry(t *testing.T) *island.Registry {
	t.Helper()
	r, err := island.NewRegistry()
	if err != nil {
		t.Fatalf("island.NewRegistry: %v", err)
	}
	return r
}

func TestResolveDecimalColumns(t *testing.T) {
	r := New(newTestRegistry(t), island.ArchipelagoBBox)
	row := galapagos.Row{
		"decimalLatitude":  "40.0",
		"decimalLongitude": "-74.0",
	}
	res, err := r.Resolve(row)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res) != 1 || !res[0].IsExclusion() {
		t.Errorf("got %+v, want a single high-confidence exclusion outside the bbox", res)
	}
}

func TestResolveNoCoordinatesFound(t *testing.T) {
	r := New(newTestRegistry(t), island.ArchipelagoBBox)
	res, err := r.Resolve(galapagos.Row{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("got %+v, want no candidates for an empty row", res)
	}
}

func TestResolveVerbatimSwapRecovery(t *testing.T) {
	r := New(newTestRegistry(t), island.ArchipelagoBBox)
	// Latitude/longitude values deliberately swapped between the two
	// columns; the hemisphere letters are the only way to recover.
	row := galapagos.Row{
		"verbatimLatitude":  "90.3863w",
		"verbatimLongitude": "0.6262s",
	}
	res, err := r.Resolve(row)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res) == 0 {
		t.Fatal("expected the swap-retry to recover a coordinate")
	}
}

func TestResolveMemoizesIdenticalRoundedCoordinates(t *testing.T) {
	r := New(newTestRegistry(t), island.ArchipelagoBBox)
	row1 := galapagos.Row{"decimalLatitude": "0.50001", "decimalLongitude": "-90.30001"}
	row2 := galapagos.Row{"decimalLatitude": "0.50002", "decimalLongitude": "-90.30002"}
	if _, err := r.Resolve(row1); err != nil {
		t.Fatalf("Resolve row1: %v", err)
	}
	if _, err := r.Resolve(row2); err != nil {
		t.Fatalf("Resolve row2: %v", err)
	}
	if _, loaded := r.memo.Load(roundedKey(0.5, -90.3)); !loaded {
		t.Error("expected the 3-decimal-rounded key to be memoized")
	}
}
