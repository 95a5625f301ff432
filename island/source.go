// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package island

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeometrySource is an opaque supplier of named polygon fragments, as
// described by spec.md §4.1: a feature collection keyed by numeric
// feature id, where each feature yields zero or more coordinate
// fragments already reordered to (latitude, longitude).
type GeometrySource interface {
	// Feature returns the coordinate fragments for the given feature
	// id, and whether that id was present at all.
	Feature(id int64) (fragments [][]LatLon, ok bool)
}

// GeometryDriver contains the components of a GeometrySource driver.
type GeometryDriver struct {
	// Open opens a GeometrySource given a driver-specific parameter
	// (for the built-in "geojson" driver, a file path).
	Open func(param string) (GeometrySource, error)

	// About returns a short description of the driver.
	About func() string
}

var (
	geometryDriversMu sync.RWMutex
	geometryDrivers   = make(map[string]GeometryDriver)
)

// RegisterGeometry makes a GeometrySource driver available under name.
// It panics if called twice for the same name, or if driver.Open is
// nil.
func RegisterGeometry(name string, driver GeometryDriver) {
	geometryDriversMu.Lock()
	defer geometryDriversMu.Unlock()
	if driver.Open == nil {
		panic("island: GeometrySource driver Open is nil")
	}
	if _, dup := geometryDrivers[name]; dup {
		panic("island: RegisterGeometry called twice for driver " + name)
	}
	geometryDrivers[name] = driver
}

// GeometryDrivers returns a sorted list of registered driver names.
func GeometryDrivers() []string {
	geometryDriversMu.RLock()
	defer geometryDriversMu.RUnlock()
	var ls []string
	for name := range geometryDrivers {
		ls = append(ls, name)
	}
	sort.Strings(ls)
	return ls
}

// OpenGeometry opens a GeometrySource using the named driver.
func OpenGeometry(driver, param string) (GeometrySource, error) {
	if driver == "" {
		return nil, errors.New("island: empty GeometrySource driver")
	}
	geometryDriversMu.RLock()
	dr, ok := geometryDrivers[driver]
	geometryDriversMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("island: unknown GeometrySource driver %q", driver)
	}
	return dr.Open(param)
}

func init() {
	RegisterGeometry("geojson", GeometryDriver{
		Open:  openGeoJSONFile,
		About: func() string { return "reads feature geometry from a GeoJSON file on disk" },
	})
}

// geoJSONSource implements GeometrySource over a parsed GeoJSON
// FeatureCollection, indexed by each feature's "osm_id"/"osm_way_id"
// property.
type geoJSONSource struct {
	byFeature map[int64][][]LatLon
}

func (s *geoJSONSource) Feature(id int64) ([][]LatLon, bool) {
	frags, ok := s.byFeature[id]
	return frags, ok
}

func openGeoJSONFile(param string) (GeometrySource, error) {
	data, err := os.ReadFile(param)
	if err != nil {
		return nil, errors.Wrapf(err, "island: reading geometry file %q", param)
	}
	return parseGeoJSON(data)
}

// parseGeoJSON decodes data as a GeoJSON FeatureCollection using
// go-geom's typed geometry decoding (grounded on the reference
// reverse-geocoder's use of the same package for the same
// polygons-plus-point-query problem), rather than a generic JSON
// unmarshal, so the geometry is available as the concrete go-geom
// types (LineString, Polygon, their Multi- variants) the island
// geometry can genuinely take: a single coastline is as often an open
// LineString fragment as a closed Polygon ring.
func parseGeoJSON(data []byte) (GeometrySource, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "island: malformed geometry file")
	}

	src := &geoJSONSource{byFeature: make(map[int64][][]LatLon)}
	for _, feat := range fc.Features {
		id, err := featureID(feat.Properties)
		if err != nil {
			return nil, err
		}
		frags, err := fragmentsFromGeometry(feat.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", id)
		}
		src.byFeature[id] = append(src.byFeature[id], frags...)
	}
	return src, nil
}

// fragmentsFromGeometry extracts every ring/line from g as a []LatLon,
// reordering go-geom's (x, y) = (lon, lat) coordinate order to
// (lat, lon).
func fragmentsFromGeometry(g geom.T) ([][]LatLon, error) {
	switch t := g.(type) {
	case *geom.LineString:
		return [][]LatLon{ringFromCoords(t)}, nil
	case *geom.MultiLineString:
		frags := make([][]LatLon, 0, t.NumLineStrings())
		for i := 0; i < t.NumLineStrings(); i++ {
			frags = append(frags, ringFromCoords(t.LineString(i)))
		}
		return frags, nil
	case *geom.Polygon:
		frags := make([][]LatLon, 0, t.NumLinearRings())
		for i := 0; i < t.NumLinearRings(); i++ {
			frags = append(frags, ringFromCoords(t.LinearRing(i)))
		}
		return frags, nil
	case *geom.MultiPolygon:
		var frags [][]LatLon
		for i := 0; i < t.NumPolygons(); i++ {
			poly := t.Polygon(i)
			for j := 0; j < poly.NumLinearRings(); j++ {
				frags = append(frags, ringFromCoords(poly.LinearRing(j)))
			}
		}
		return frags, nil
	default:
		return nil, errors.Errorf("island: unsupported geometry type %T", g)
	}
}

// coordSequence is the subset of go-geom's per-ring/line types
// (*geom.LineString, *geom.LinearRing) this loader needs.
type coordSequence interface {
	NumCoords() int
	Coord(i int) geom.Coord
}

func ringFromCoords(seq coordSequence) []LatLon {
	n := seq.NumCoords()
	ring := make([]LatLon, n)
	for i := 0; i < n; i++ {
		c := seq.Coord(i)
		ring[i] = LatLon{Lat: c.Y(), Lon: c.X()}
	}
	return ring
}

func featureID(props map[string]interface{}) (int64, error) {
	for _, key := range []string{"osm_id", "osm_way_id"} {
		v, ok := props[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int64(n), nil
		case string:
			if id, err := strconv.ParseInt(n, 10, 64); err == nil {
				return id, nil
			}
		}
	}
	return 0, errors.New("island: feature missing osm_id/osm_way_id property")
}

