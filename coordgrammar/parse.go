package coordgrammar

import "github.com/pkg/errors"

// ParseMagnitude runs the single-coordinate grammar over s and returns
// the unsigned magnitude together with whichever hemisphere letter was
// attached, if any. It does not apply a sign or validate range — see
// ParseLatitude/ParseLongitude for that.
func ParseMagnitude(s string) (magnitude float64, direction Direction, ok bool) {
	v, d, rest, ok := newCur(s).degminsec()
	if !ok {
		return 0, DirNone, false
	}
	rest = rest.ws()
	if !rest.empty() {
		return 0, DirNone, false
	}
	if d.present {
		return v, d.dir, true
	}
	return v, DirNone, true
}

// ParsePair runs the two-coordinate grammar over s, returning the two
// magnitudes and their (possibly absent) directions in the order they
// appeared in the string — not yet resolved to lat/lon, since a
// mismatched direction pair (e.g. "w89, n1") means the fields were
// transposed. ParseLatLon performs that resolution.
func ParsePair(s string) (v1 float64, d1 Direction, v2 float64, d2 Direction, ok bool) {
	p, rest, ok := newCur(s).latlon()
	if !ok {
		return 0, DirNone, 0, DirNone, false
	}
	if !rest.empty() {
		return 0, DirNone, 0, DirNone, false
	}
	dir1, dir2 := DirNone, DirNone
	if p.latDir.present {
		dir1 = p.latDir.dir
	}
	if p.lonDir.present {
		dir2 = p.lonDir.dir
	}
	return p.lat, dir1, p.lon, dir2, true
}

func isLatDir(d Direction) bool { return d == DirN || d == DirS }
func isLonDir(d Direction) bool { return d == DirE || d == DirW }

// applySign signs magnitude v according to direction d, given which
// directions are acceptable for this axis (e.g. {N,S} for latitude).
// With no direction at all, v is a plain signed decimal and is used
// as-is. With a direction present, v must not already carry a sign
// (a bare number followed by a hemisphere letter is unambiguous) and
// must belong to this axis's hemisphere pair.
func applySign(v float64, d Direction, acceptable func(Direction) bool, maxAbs float64) (float64, error) {
	if d != DirNone {
		if v < 0 {
			return 0, errors.Errorf("coordinate magnitude %v is already negative", v)
		}
		if !acceptable(d) {
			return 0, errors.Errorf("direction %q is not valid for this axis", d)
		}
		if d == DirS || d == DirW {
			v = -v
		}
	}
	if v > maxAbs || v < -maxAbs {
		return 0, errors.Errorf("coordinate %v exceeds valid range of ±%v", v, maxAbs)
	}
	return v, nil
}

// ParseLatitude parses a single coordinate string as a latitude: an
// "s" direction negates, "n" keeps the sign, absence of a direction
// keeps the signed value the grammar produced, and the result must
// fall within ±90.
func ParseLatitude(s string) (float64, error) {
	v, d, ok := ParseMagnitude(s)
	if !ok {
		return 0, errors.Errorf("could not parse %q as a coordinate", s)
	}
	return applySign(v, d, isLatDir, 90)
}

// ParseLongitude parses a single coordinate string as a longitude,
// analogous to ParseLatitude with "e"/"w" and a ±180 range.
func ParseLongitude(s string) (float64, error) {
	v, d, ok := ParseMagnitude(s)
	if !ok {
		return 0, errors.Errorf("could not parse %q as a coordinate", s)
	}
	return applySign(v, d, isLonDir, 180)
}

// ParseLatLon parses a combined lat/lon string. If the first
// coordinate carries an E/W direction and the second carries an N/S
// direction, the two are transposed before interpretation — data entry
// tools sometimes emit "longitude, latitude" with the direction
// letters as the only tell.
func ParseLatLon(s string) (lat, lon float64, err error) {
	v1, d1, v2, d2, ok := ParsePair(s)
	if !ok {
		return 0, 0, errors.Errorf("could not parse %q as a coordinate pair", s)
	}
	if isLonDir(d1) && isLatDir(d2) {
		v1, d1, v2, d2 = v2, d2, v1, d1
	}
	lat, err = applySign(v1, d1, isLatDir, 90)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "latitude in %q", s)
	}
	lon, err = applySign(v2, d2, isLonDir, 180)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "longitude in %q", s)
	}
	return lat, lon, nil
}
