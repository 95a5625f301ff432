// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package pipeline

import (
	"testing"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/pkg/errors"
)

// stubResolver returns a fixed result or error for every row, recording
// how many times it was called.
type stubResolver struct {
	name    string
	results []galapagos.Resolution
	err     error
	calls   int
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(row galapagos.Row) ([]galapagos.Resolution, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type firstWinsPrioritizer struct{}

func (firstWinsPrioritizer) Choose(row galapagos.Row, resolutions []galapagos.Resolution, stats map[string]*galapagos.ResolverStats) galapagos.Resolution {
	if len(resolutions) == 0 {
		return galapagos.Unknown("")
	}
	return resolutions[0]
}

var testValidIslands = map[string]struct{}{"baltra": {}, "isabela": {}, "fernandina": {}}

func TestRunSequentialCountsIdentifiedAndUnknown(t *testing.T) {
	coord := &stubResolver{name: "coordinate", results: []galapagos.Resolution{{Island: "baltra", Confidence: galapagos.High, Resolver: "coordinate"}}}
	nameR := &stubResolver{name: "name"}
	p := New([]galapagos.Resolver{coord, nameR}, firstWinsPrioritizer{}, testValidIslands)

	rows := []galapagos.Row{{"gbifID": "1"}, {"gbifID": "2"}}
	results, stats := p.Run(rows)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if stats["coordinate"].Identified != 2 {
		t.Errorf("coordinate identified = %d, want 2", stats["coordinate"].Identified)
	}
	if stats["name"].Unknown != 2 {
		t.Errorf("name unknown = %d, want 2", stats["name"].Unknown)
	}
	for _, r := range results {
		if r.Chosen.Island != "baltra" {
			t.Errorf("chosen island = %q, want baltra", r.Chosen.Island)
		}
	}
}

func TestRunIsolatesResolverErrors(t *testing.T) {
	coord := &stubResolver{name: "coordinate", err: errors.New("malformed coordinate")}
	nameR := &stubResolver{name: "name", results: []galapagos.Resolution{{Island: "isabela", Confidence: galapagos.Moderate, Resolver: "name"}}}
	p := New([]galapagos.Resolver{coord, nameR}, firstWinsPrioritizer{}, testValidIslands)

	rows := []galapagos.Row{{"gbifID": "1"}}
	results, stats := p.Run(rows)

	if len(stats["coordinate"].Errors) != 1 {
		t.Fatalf("coordinate errors = %d, want 1", len(stats["coordinate"].Errors))
	}
	if nameR.calls != 1 {
		t.Errorf("name resolver calls = %d, want 1 (must still run after coordinate errors)", nameR.calls)
	}
	if results[0].Chosen.Island != "isabela" {
		t.Errorf("chosen island = %q, want isabela (from the surviving resolver)", results[0].Chosen.Island)
	}
}

func TestRunConcurrentMatchesSequentialCounts(t *testing.T) {
	rows := make([]galapagos.Row, 250)
	for i := range rows {
		rows[i] = galapagos.Row{"gbifID": "x"}
	}
	coord := &stubResolver{name: "coordinate", results: []galapagos.Resolution{{Island: "isabela", Confidence: galapagos.High, Resolver: "coordinate"}}}
	nameR := &stubResolver{name: "name"}
	p := New([]galapagos.Resolver{coord, nameR}, firstWinsPrioritizer{}, testValidIslands)
	p.Workers = 4

	results, stats := p.Run(rows)
	if len(results) != 250 {
		t.Fatalf("got %d results, want 250", len(results))
	}
	if stats["coordinate"].Processed != 250 {
		t.Errorf("coordinate processed = %d, want 250", stats["coordinate"].Processed)
	}
	if stats["coordinate"].Identified != 250 {
		t.Errorf("coordinate identified = %d, want 250", stats["coordinate"].Identified)
	}
}

func TestRunRejectsUnregisteredIsland(t *testing.T) {
	coord := &stubResolver{name: "coordinate", results: []galapagos.Resolution{{Island: "atlantis", Confidence: galapagos.High, Resolver: "coordinate"}}}
	nameR := &stubResolver{name: "name"}
	p := New([]galapagos.Resolver{coord, nameR}, firstWinsPrioritizer{}, testValidIslands)

	rows := []galapagos.Row{{"gbifID": "1"}}
	results, stats := p.Run(rows)

	if len(results[0].ByResolver["coordinate"]) != 0 {
		t.Errorf("got %v, want the unregistered resolution discarded", results[0].ByResolver["coordinate"])
	}
	if stats["coordinate"].Unknown != 1 {
		t.Errorf("coordinate unknown = %d, want 1 (invariant violation counts as unknown)", stats["coordinate"].Unknown)
	}
	if len(stats["coordinate"].Errors) != 1 {
		t.Errorf("coordinate errors = %d, want 1", len(stats["coordinate"].Errors))
	}
	if results[0].Chosen.Island != "" {
		t.Errorf("chosen island = %q, want empty (no resolver produced a valid candidate)", results[0].Chosen.Island)
	}
}
