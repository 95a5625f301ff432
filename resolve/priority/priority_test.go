// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package priority

import (
	"testing"

	"github.com/calacademy-research/galapagos-island-mapper"
)

func newStats() map[string]*galapagos.ResolverStats {
	return map[string]*galapagos.ResolverStats{
		CoordinateResolverName: galapagos.NewResolverStats(CoordinateResolverName),
		NameResolverName:       galapagos.NewResolverStats(NameResolverName),
	}
}

func TestChooseEmptyReturnsUnknown(t *testing.T) {
	p := New()
	stats := newStats()
	got := p.Choose(galapagos.Row{}, nil, stats)
	if !got.IsUnknown() {
		t.Errorf("Choose(nil) = %+v, want unknown", got)
	}
}

func TestChooseSingleResolutionAccepted(t *testing.T) {
	p := New()
	stats := newStats()
	res := galapagos.Resolution{Island: "baltra", Confidence: galapagos.High, Resolver: NameResolverName}
	got := p.Choose(galapagos.Row{}, []galapagos.Resolution{res}, stats)
	if got != res {
		t.Errorf("Choose(single) = %+v, want %+v", got, res)
	}
	if stats[NameResolverName].Agreements != 1 {
		t.Errorf("name agreements = %d, want 1", stats[NameResolverName].Agreements)
	}
}

func TestChooseUnanimousIslandShortCircuits(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "isabela", Confidence: galapagos.Moderate, Resolver: CoordinateResolverName},
		{Island: "fernandina", Confidence: galapagos.Moderate, Resolver: CoordinateResolverName},
		{Island: "isabela", Confidence: galapagos.High, Resolver: NameResolverName},
	}
	got := p.Choose(galapagos.Row{}, resolutions, stats)
	if got.Island != "isabela" {
		t.Errorf("Choose() island = %q, want isabela", got.Island)
	}
	if got.Confidence != galapagos.High {
		t.Errorf("Choose() confidence = %v, want the name resolver's isabela entry (high)", got.Confidence)
	}
}

func TestChooseEspanolaGardnerRule(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "espanola", Confidence: galapagos.High, Resolver: CoordinateResolverName},
		{Island: "gardner", Confidence: galapagos.High, Resolver: NameResolverName},
	}
	got := p.Choose(galapagos.Row{}, resolutions, stats)
	if got.Island != "espanola" || got.Resolver != CoordinateResolverName {
		t.Errorf("Choose() = %+v, want coordinate resolver's espanola", got)
	}
}

func TestChoosePre1980PrefersName(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "floreana", Confidence: galapagos.Moderate, Resolver: CoordinateResolverName},
		{Island: "santiago", Confidence: galapagos.Moderate, Resolver: NameResolverName},
	}
	row := galapagos.Row{"year": "1965"}
	got := p.Choose(row, resolutions, stats)
	if got.Island != "santiago" || got.Resolver != NameResolverName {
		t.Errorf("Choose() = %+v, want name resolver's santiago for pre-1980 row", got)
	}
}

func TestChoosePost1980DoesNotApplyYearRule(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "floreana", Confidence: galapagos.High, Resolver: CoordinateResolverName},
		{Island: "santiago", Confidence: galapagos.Moderate, Resolver: NameResolverName},
	}
	row := galapagos.Row{"year": "2005"}
	got := p.Choose(row, resolutions, stats)
	if got.Island != "floreana" {
		t.Errorf("Choose() = %+v, want the overall highest-confidence floreana entry", got)
	}
}

func TestChooseINaturalistPrefersCoordinate(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "pinzon", Confidence: galapagos.Moderate, Resolver: CoordinateResolverName},
		{Island: "santa fe", Confidence: galapagos.Moderate, Resolver: NameResolverName},
	}
	row := galapagos.Row{"publisher": "iNaturalist.org"}
	got := p.Choose(row, resolutions, stats)
	if got.Island != "pinzon" || got.Resolver != CoordinateResolverName {
		t.Errorf("Choose() = %+v, want coordinate resolver's pinzon for iNaturalist.org row", got)
	}
}

func TestChooseDefaultsToHighestConfidence(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "pinta", Confidence: galapagos.Low, Resolver: CoordinateResolverName},
		{Island: "marchena", Confidence: galapagos.High, Resolver: NameResolverName},
	}
	got := p.Choose(galapagos.Row{}, resolutions, stats)
	if got.Island != "marchena" {
		t.Errorf("Choose() = %+v, want marchena (higher confidence)", got)
	}
}

func TestChooseStatsHardDisagreement(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "pinta", Confidence: galapagos.Low, Resolver: CoordinateResolverName},
		{Island: "marchena", Confidence: galapagos.High, Resolver: NameResolverName},
	}
	p.Choose(galapagos.Row{}, resolutions, stats)
	if stats[CoordinateResolverName].HardDisagreements != 1 {
		t.Errorf("coordinate hard disagreements = %d, want 1", stats[CoordinateResolverName].HardDisagreements)
	}
	if stats[NameResolverName].Agreements != 1 {
		t.Errorf("name agreements = %d, want 1", stats[NameResolverName].Agreements)
	}
	if stats[CoordinateResolverName].SoftDisagreements != 0 {
		t.Errorf("coordinate soft disagreements = %d, want 0 (must be mutually exclusive with hard)", stats[CoordinateResolverName].SoftDisagreements)
	}
}

func TestChooseStatsSoftDisagreement(t *testing.T) {
	p := New()
	stats := newStats()
	resolutions := []galapagos.Resolution{
		{Island: "isabela", Confidence: galapagos.Moderate, Resolver: CoordinateResolverName},
		{Island: "fernandina", Confidence: galapagos.High, Resolver: CoordinateResolverName},
		{Island: "isabela", Confidence: galapagos.High, Resolver: NameResolverName},
	}
	got := p.Choose(galapagos.Row{}, resolutions, stats)
	if got.Island != "isabela" {
		t.Fatalf("Choose() island = %q, want isabela (unanimous)", got.Island)
	}
	if stats[NameResolverName].Agreements != 1 {
		t.Errorf("name agreements = %d, want 1", stats[NameResolverName].Agreements)
	}
	if stats[CoordinateResolverName].SoftDisagreements != 1 {
		t.Errorf("coordinate soft disagreements = %d, want 1 (its own best was fernandina, not the chosen isabela)", stats[CoordinateResolverName].SoftDisagreements)
	}
}
