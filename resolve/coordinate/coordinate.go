// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package coordinate implements the coordinate-based resolver: it
// extracts a (latitude, longitude) pair from a row using the fallback
// chain spec.md §4.3 describes, then queries the island registry's
// spatial index, memoising ground/buffer hits at 3-decimal precision.
package coordinate

import (
	"math"
	"strconv"
	"sync"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/calacademy-research/galapagos-island-mapper/coordgrammar"
	"github.com/calacademy-research/galapagos-island-mapper/island"
)

// resolverName identifies this resolver in statistics and Resolutions.
const resolverName = "coordinate"

// memoKey is the 3-decimal-rounded (lat, lon) key used to memoise
// point-in-polygon lookups, per spec.md §9: multiplying by 1000 and
// rounding makes equality exact, unlike comparing the floats directly.
type memoKey struct {
	lat, lon int
}

func roundedKey(lat, lon float64) memoKey {
	return memoKey{
		lat: int(math.Round(lat * 1000)),
		lon: int(math.Round(lon * 1000)),
	}
}

// Resolver is the coordinate-based Resolver implementation.
type Resolver struct {
	registry *island.Registry
	bbox     island.BBox

	memo sync.Map // memoKey -> []galapagos.Resolution
}

// New returns a coordinate Resolver backed by registry, rejecting
// anything outside bbox as an explicit high-confidence exclusion.
func New(registry *island.Registry, bbox island.BBox) *Resolver {
	return &Resolver{registry: registry, bbox: bbox}
}

// Name implements galapagos.Resolver.
func (r *Resolver) Name() string { return resolverName }

// Resolve implements galapagos.Resolver, per spec.md §4.3.
func (r *Resolver) Resolve(row galapagos.Row) ([]galapagos.Resolution, error) {
	lat, lon, ok := findCoordinates(row)
	if !ok {
		return nil, nil
	}
	return r.resolutionsFor(lat, lon), nil
}

// findCoordinates tries, in order: decimal columns, verbatim lat/lon
// columns (retrying with roles swapped on failure), then a verbatim
// combined coordinate string.
func findCoordinates(row galapagos.Row) (lat, lon float64, ok bool) {
	if lat, lon, ok := decimalColumns(row); ok {
		return lat, lon, true
	}
	if lat, lon, ok := verbatimLatLonColumns(row); ok {
		return lat, lon, true
	}
	if lat, lon, ok := verbatimCoordinates(row); ok {
		return lat, lon, true
	}
	return 0, 0, false
}

func decimalColumns(row galapagos.Row) (lat, lon float64, ok bool) {
	latStr, lonStr := row.Get("decimalLatitude"), row.Get("decimalLongitude")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func verbatimLatLonColumns(row galapagos.Row) (lat, lon float64, ok bool) {
	latStr, lonStr := row.Get("verbatimLatitude"), row.Get("verbatimLongitude")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	if lat, err := coordgrammar.ParseLatitude(latStr); err == nil {
		if lon, err := coordgrammar.ParseLongitude(lonStr); err == nil {
			return lat, lon, true
		}
	}
	// Recovery heuristic: the fields may have been swapped by the data
	// provider.
	if lat, err := coordgrammar.ParseLatitude(lonStr); err == nil {
		if lon, err := coordgrammar.ParseLongitude(latStr); err == nil {
			return lat, lon, true
		}
	}
	return 0, 0, false
}

func verbatimCoordinates(row galapagos.Row) (lat, lon float64, ok bool) {
	s := row.Get("verbatimCoordinates")
	if s == "" {
		return 0, 0, false
	}
	lat, lon, err := coordgrammar.ParseLatLon(s)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// resolutionsFor returns the resolutions for (lat, lon), consulting
// (and populating) the memo cache.
func (r *Resolver) resolutionsFor(lat, lon float64) []galapagos.Resolution {
	key := roundedKey(lat, lon)
	if cached, ok := r.memo.Load(key); ok {
		return cached.([]galapagos.Resolution)
	}

	res := r.lookup(lat, lon)
	actual, _ := r.memo.LoadOrStore(key, res)
	return actual.([]galapagos.Resolution)
}

func (r *Resolver) lookup(lat, lon float64) []galapagos.Resolution {
	if !r.bbox.Contains(lat, lon) {
		return []galapagos.Resolution{{Resolver: resolverName, Confidence: galapagos.High}}
	}

	q := r.registry.Query(lat, lon)
	if q.Ground != "" {
		return []galapagos.Resolution{{
			Island:     q.Ground,
			Confidence: galapagos.High,
			Resolver:   resolverName,
		}}
	}
	if len(q.Buffer) == 0 {
		return []galapagos.Resolution{{Resolver: resolverName, Confidence: galapagos.High}}
	}

	res := make([]galapagos.Resolution, 0, len(q.Buffer))
	for _, name := range q.Buffer {
		res = append(res, galapagos.Resolution{
			Island:     name,
			Confidence: galapagos.Moderate,
			Resolver:   resolverName,
		})
	}
	return res
}
