// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package island

import "testing"

func TestNewRegistryNoCollisions(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if len(r.Islands()) == 0 {
		t.Fatal("expected a non-empty island list")
	}
	if _, ok := r.Island("santa cruz"); !ok {
		t.Fatal("expected to find santa cruz")
	}
	if canonical, ok := r.Resolve("charles"); !ok || canonical != "floreana" {
		t.Fatalf("Resolve(%q) = %q, %v, want floreana, true", "charles", canonical, ok)
	}
	if _, ok := r.Resolve("nonexistent island"); ok {
		t.Fatal("expected Resolve to fail for an unknown name")
	}
}

func TestRegistryNamesMatchesIslands(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	names := r.Names()
	if len(names) != len(r.Islands()) {
		t.Fatalf("Names() has %d entries, Islands() has %d", len(names), len(r.Islands()))
	}
	for _, isl := range r.Islands() {
		if _, ok := names[isl.Name]; !ok {
			t.Errorf("Names() missing %q", isl.Name)
		}
	}
}

func TestHasAlias(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	isabela, ok := r.Island("isabela")
	if !ok {
		t.Fatal("expected isabela in registry")
	}
	if !isabela.HasAlias("albemarle") {
		t.Error("expected isabela to have alias albemarle")
	}
	if isabela.HasAlias("charles") {
		t.Error("did not expect isabela to have alias charles")
	}
}

func TestBBoxContains(t *testing.T) {
	if !ArchipelagoBBox.Contains(-0.74, -90.35) {
		t.Error("expected a point near Santa Cruz to be inside the archipelago bbox")
	}
	if ArchipelagoBBox.Contains(40.0, -74.0) {
		t.Error("did not expect New York to be inside the archipelago bbox")
	}
}

func TestIsValidCoord(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
	}
	for _, c := range cases {
		if got := IsValidCoord(c.lat, c.lon); got != c.want {
			t.Errorf("IsValidCoord(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
