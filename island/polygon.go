// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package island

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// bufferMargin is the fixed buffer width in degrees (spec.md §3,
// "~1 nautical mile locally").
const bufferMargin = 0.02

// polygonAccumulator chains coastline fragments into closed polygons.
// A single island's coastline is sometimes supplied as several way
// fragments rather than one closed ring; the accumulator is the state
// machine spec.md §9 calls for, with three states: empty, an
// open chain awaiting its next fragment, and a polygon ready to be
// finished. Ported from the reference gazetteer loader's
// PolygonAccumulator.
type polygonAccumulator struct {
	finished [][]LatLon
	cur      []LatLon
}

// finish closes and stores poly if it has enough distinct vertices,
// auto-closing it first if its ends don't already match.
func (p *polygonAccumulator) finish(poly []LatLon) {
	if len(poly) <= 2 {
		return
	}
	if poly[len(poly)-1] != poly[0] {
		poly = append(poly, poly[0])
	} else if len(poly) <= 3 {
		return
	}
	p.finished = append(p.finished, poly)
}

func (p *polygonAccumulator) finishCur() {
	p.finish(p.cur)
	p.cur = nil
}

// add feeds one fragment into the accumulator.
func (p *polygonAccumulator) add(poly []LatLon) {
	if len(poly) <= 1 {
		return
	}
	if poly[len(poly)-1] == poly[0] {
		// Already a closed ring on its own: finish whatever was pending,
		// then finish this one independently.
		p.finishCur()
		p.finish(poly)
		return
	}
	if len(p.cur) != 0 {
		if poly[0] == p.cur[len(p.cur)-1] {
			p.cur = append(p.cur, poly[1:]...)
			if p.cur[len(p.cur)-1] == p.cur[0] {
				p.finishCur()
			}
		} else {
			p.finishCur()
			p.cur = poly
		}
		return
	}
	p.cur = poly
}

// retrieve finalizes any open chain and returns every closed polygon
// accumulated so far.
func (p *polygonAccumulator) retrieve() [][]LatLon {
	p.finishCur()
	return p.finished
}

// LoadGeometry populates every island's polygons from src and builds
// the ground/buffer spatial indices used by Query. Missing features
// are logged and skipped (spec.md §4.1); an island left with no
// polygons simply can never be matched by the coordinate resolver.
func (r *Registry) LoadGeometry(src GeometrySource) error {
	groundIndex := s2.NewShapeIndex()
	bufferIndex := s2.NewShapeIndex()
	groundName := make(map[s2.Shape]string)
	bufferName := make(map[s2.Shape]string)

	for _, isl := range r.islands {
		acc := &polygonAccumulator{}
		for _, id := range isl.FeatureIDs {
			fragments, ok := src.Feature(id)
			if !ok {
				log.Warn().Int64("feature_id", id).Str("island", isl.Name).
					Msg("missing geometry for feature; island assignments may be inaccurate")
				continue
			}
			for _, frag := range fragments {
				acc.add(frag)
			}
		}
		isl.Polygons = acc.retrieve()

		for _, ring := range isl.Polygons {
			groundLoop, err := loopFromRing(ring)
			if err != nil {
				return errors.Wrapf(err, "island %q", isl.Name)
			}
			bufferLoop, err := loopFromRing(bufferRing(ring, bufferMargin))
			if err != nil {
				return errors.Wrapf(err, "buffering island %q", isl.Name)
			}

			groundPoly := s2.PolygonFromLoops([]*s2.Loop{groundLoop})
			bufferPoly := s2.PolygonFromLoops([]*s2.Loop{bufferLoop})

			groundIndex.Add(groundPoly)
			bufferIndex.Add(bufferPoly)
			groundName[groundPoly] = isl.Name
			bufferName[bufferPoly] = isl.Name
		}
		log.Info().Str("island", isl.Name).Int("polygons", len(isl.Polygons)).
			Int("features", len(isl.FeatureIDs)).Msg("built island geometry")
	}

	r.groundIndex = groundIndex
	r.bufferIndex = bufferIndex
	r.groundName = groundName
	r.bufferName = bufferName
	r.groundQuery = s2.NewContainsPointQuery(groundIndex, s2.VertexModelOpen)
	r.bufferQuery = s2.NewContainsPointQuery(bufferIndex, s2.VertexModelOpen)
	return nil
}

func loopFromRing(ring []LatLon) (*s2.Loop, error) {
	if len(ring) < 4 {
		return nil, errors.Errorf("ring has fewer than 4 points (%d)", len(ring))
	}
	// s2.Loop stores vertices without a repeated closing point.
	pts := make([]s2.Point, 0, len(ring)-1)
	for _, v := range ring[:len(ring)-1] {
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(v.Lat, v.Lon)))
	}
	return s2.LoopFromPoints(pts), nil
}

// bufferRing expands ring outward by marginDegrees, scaling each
// vertex away from the ring's centroid. This is a plane approximation
// in degree space (the margin is itself specified in degrees, not
// meters, so no further projection is needed) rather than a true
// Minkowski-sum buffer: it is adequate for catching near-coast points
// within a small, fixed margin and avoids the self-intersection
// artifacts a naive per-edge offset can produce at concave vertices.
func bufferRing(ring []LatLon, marginDegrees float64) []LatLon {
	if len(ring) == 0 {
		return ring
	}
	var sumLat, sumLon float64
	for _, v := range ring {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	n := float64(len(ring))
	centroid := LatLon{Lat: sumLat / n, Lon: sumLon / n}

	out := make([]LatLon, len(ring))
	for i, v := range ring {
		dLat := v.Lat - centroid.Lat
		dLon := v.Lon - centroid.Lon
		dist := math.Hypot(dLat, dLon)
		if dist == 0 {
			out[i] = v
			continue
		}
		scale := (dist + marginDegrees) / dist
		out[i] = LatLon{
			Lat: centroid.Lat + dLat*scale,
			Lon: centroid.Lon + dLon*scale,
		}
	}
	return out
}
