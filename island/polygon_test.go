// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package island

import "testing"

func sameRing(a, b []LatLon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPolygonAccumulatorClosedRing(t *testing.T) {
	acc := &polygonAccumulator{}
	ring := []LatLon{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	acc.add(ring)
	got := acc.retrieve()
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	if !sameRing(got[0], ring) {
		t.Errorf("got %v, want %v", got[0], ring)
	}
}

func TestPolygonAccumulatorChainsFragments(t *testing.T) {
	acc := &polygonAccumulator{}
	acc.add([]LatLon{{0, 0}, {0, 1}})
	acc.add([]LatLon{{0, 1}, {1, 1}, {1, 0}})
	acc.add([]LatLon{{1, 0}, {0, 0}})
	got := acc.retrieve()
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	want := []LatLon{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	if !sameRing(got[0], want) {
		t.Errorf("got %v, want %v", got[0], want)
	}
}

func TestPolygonAccumulatorDiscardsTooShort(t *testing.T) {
	acc := &polygonAccumulator{}
	acc.add([]LatLon{{0, 0}, {0, 1}, {0, 0}})
	if got := acc.retrieve(); len(got) != 0 {
		t.Errorf("got %d polygons, want 0 for a 2-vertex chain", len(got))
	}
}

func TestPolygonAccumulatorAutoClosesDanglingChain(t *testing.T) {
	acc := &polygonAccumulator{}
	acc.add([]LatLon{{0, 0}, {0, 1}, {1, 1}, {1, 0}})
	got := acc.retrieve()
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	if got[0][len(got[0])-1] != got[0][0] {
		t.Errorf("expected auto-closed ring, last point %v != first %v", got[0][len(got[0])-1], got[0][0])
	}
}

// fakeGeometrySource serves fragments from an in-memory map, for tests
// that need real polygon geometry without reading a file.
type fakeGeometrySource struct {
	byFeature map[int64][][]LatLon
}

func (f *fakeGeometrySource) Feature(id int64) ([][]LatLon, bool) {
	frags, ok := f.byFeature[id]
	return frags, ok
}

func TestRegistryLoadGeometryAndQuery(t *testing.T) {
	isl := newIsland("testisland", []int64{1})
	r := &Registry{
		islands: []*Island{isl},
		byName:  map[string]*Island{"testisland": isl},
		byAlias: map[string]string{},
	}
	square := []LatLon{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	src := &fakeGeometrySource{byFeature: map[int64][][]LatLon{1: {square}}}
	if err := r.LoadGeometry(src); err != nil {
		t.Fatalf("LoadGeometry: %v", err)
	}

	ground := r.Query(0.5, 0.5)
	if ground.Ground != "testisland" {
		t.Errorf("Query(0.5, 0.5) = %+v, want Ground=testisland", ground)
	}

	buffered := r.Query(0.5, 1.01)
	if buffered.Ground != "" || len(buffered.Buffer) != 1 || buffered.Buffer[0] != "testisland" {
		t.Errorf("Query(0.5, 1.01) = %+v, want a lone buffer hit for testisland", buffered)
	}

	far := r.Query(45.0, 45.0)
	if far.Ground != "" || len(far.Buffer) != 0 {
		t.Errorf("Query(45, 45) = %+v, want no hits", far)
	}
}
