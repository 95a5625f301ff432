package coordgrammar

// degTok parses "num ws degmark", returning the raw degree value
// (undivided — degrees contribute at face value to a degminsec sum).
func (c cur) degTok() (float64, cur, bool) {
	v, q, ok := c.num()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	q2, ok := q.degMark()
	if !ok {
		return 0, c, false
	}
	return v, q2, true
}

// minTok parses "num ws minmark", pre-dividing by 60 so callers can
// just sum deg+min+sec directly.
func (c cur) minTok() (float64, cur, bool) {
	v, q, ok := c.num()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	q2, ok := q.minMark()
	if !ok {
		return 0, c, false
	}
	return v / 60.0, q2, true
}

// secTok parses "num ws secmark", pre-dividing by 3600.
func (c cur) secTok() (float64, cur, bool) {
	v, q, ok := c.num()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	q2, ok := q.secMark()
	if !ok {
		return 0, c, false
	}
	return v / 3600.0, q2, true
}

// degminsecStd tries, in order, the six marked/partially-marked forms
// the reference grammar accepts, then an optional trailing direction:
//
//	deg min sec | deg min num | deg min? sec? | min sec? | sec | num min? sec?
//
// The sixth alternative (a bare number, optionally followed by
// minutes/seconds) is what lets this rule also accept plain signed
// decimal degrees.
func (c cur) degminsecStd() (float64, dirResult, cur, bool) {
	type alt func(cur) (float64, cur, bool)
	alts := []alt{
		degminsecStdDegMinSec,
		degminsecStdDegMinNum,
		degminsecStdDegMinSec_,
		degminsecStdMinSec,
		degminsecStdSec,
		degminsecStdNumMinSec,
	}
	for _, fn := range alts {
		if v, q, ok := fn(c); ok {
			q = q.ws()
			if d, q2, ok2 := q.dirTok(); ok2 {
				return v, withDir(d), q2, true
			}
			return v, noDir(), q, true
		}
	}
	return 0, noDir(), c, false
}

func degminsecStdDegMinSec(c cur) (float64, cur, bool) {
	d, q, ok := c.degTok()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	m, q, ok := q.minTok()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	s, q, ok := q.secTok()
	if !ok {
		return 0, c, false
	}
	return d + m + s, q, true
}

// degminsecStdDegMinNum handles the odd but fixture-confirmed case of
// a degree and a minute token followed by a bare, unmarked trailing
// number that is added to the sum as-is (not divided) — e.g.
// `90° 19' 0 w`, whose trailing "0" contributes nothing.
func degminsecStdDegMinNum(c cur) (float64, cur, bool) {
	d, q, ok := c.degTok()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	m, q, ok := q.minTok()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	n, q, ok := q.num()
	if !ok {
		return 0, c, false
	}
	return d + m + n, q, true
}

func degminsecStdDegMinSec_(c cur) (float64, cur, bool) {
	d, q, ok := c.degTok()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	m := 0.0
	if mm, q2, ok2 := q.minTok(); ok2 {
		m = mm
		q = q2
	}
	q = q.ws()
	s := 0.0
	if ss, q2, ok2 := q.secTok(); ok2 {
		s = ss
		q = q2
	}
	return d + m + s, q, true
}

func degminsecStdMinSec(c cur) (float64, cur, bool) {
	m, q, ok := c.minTok()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	s := 0.0
	if ss, q2, ok2 := q.secTok(); ok2 {
		s = ss
		q = q2
	}
	return m + s, q, true
}

func degminsecStdSec(c cur) (float64, cur, bool) {
	s, q, ok := c.secTok()
	if !ok {
		return 0, c, false
	}
	return s, q, true
}

func degminsecStdNumMinSec(c cur) (float64, cur, bool) {
	n, q, ok := c.num()
	if !ok {
		return 0, c, false
	}
	q = q.ws()
	m := 0.0
	if mm, q2, ok2 := q.minTok(); ok2 {
		m = mm
		q = q2
	}
	q = q.ws()
	s := 0.0
	if ss, q2, ok2 := q.secTok(); ok2 {
		s = ss
		q = q2
	}
	return n + m + s, q, true
}

// degminsecPre handles the direction-first form, e.g. `s1°39′`.
func (c cur) degminsecPre() (float64, dirResult, cur, bool) {
	d, q, ok := c.dirTok()
	if !ok {
		return 0, noDir(), c, false
	}
	deg, q, ok := q.degTok()
	if !ok {
		return 0, noDir(), c, false
	}
	q = q.ws()
	m := 0.0
	if mm, q2, ok2 := q.minTok(); ok2 {
		m = mm
		q = q2
	}
	return deg + m, withDir(d), q, true
}

// degminsecMerged handles runs of 1-7 digits/dashes with no separators
// at all, sliced into deg/min/sec from the right (e.g. "0894000w" ->
// deg=089, min=40, sec=00). A run of dashes in any slice means "unknown
// digit(s)", read as zero. The digit run is matched greedily, then
// shortened until a trailing direction is found, mirroring a greedy
// regex that backtracks.
func (c cur) degminsecMerged() (float64, dirResult, cur, bool) {
	maxLen := 0
	for maxLen < len(c.r) && maxLen < 7 && (c.r[maxLen] == '-' || isASCIIDigit(c.r[maxLen])) {
		maxLen++
	}
	for length := maxLen; length >= 1; length-- {
		raw := string(c.r[:length])
		rest := cur{c.r[length:]}.ws()
		if d, q, ok := rest.dirTok(); ok {
			deg, min, sec := decodeMergedDigits(raw)
			return deg + min/60.0 + sec/3600.0, withDir(d), q, true
		}
	}
	return 0, noDir(), c, false
}

func decodeMergedDigits(raw string) (deg, min, sec float64) {
	degS, minS, secS := raw, "0", "0"
	n := len(raw)
	switch {
	case n <= 3:
		// degS already set.
	case n <= 5:
		degS, minS = raw[:n-2], raw[n-2:]
	default:
		degS, minS, secS = raw[:n-4], raw[n-4:n-2], raw[n-2:]
	}
	return intOrDashes(degS), intOrDashes(minS), intOrDashes(secS)
}

func intOrDashes(s string) float64 {
	allDash := true
	for _, r := range s {
		if r != '-' {
			allDash = false
			break
		}
	}
	if allDash {
		return 0
	}
	v, q, ok := cur{[]rune(s)}.num()
	if !ok || !q.empty() {
		return 0
	}
	return v
}

// sepColonOrWS consumes a literal ":" if present, else any amount of
// whitespace (possibly none) — it never fails.
func (c cur) sepColonOrWS() cur {
	if q, ok := c.literal(":"); ok {
		return q
	}
	return c.ws()
}

// degminsecUnmarked handles colon- or space-separated triples with no
// marks at all but a mandatory trailing direction, e.g. "0:30:0 S" or
// "91 45w" (second/third numbers and separators are individually
// optional, which is what lets "91 45w" skip the seconds field).
func (c cur) degminsecUnmarked() (float64, dirResult, cur, bool) {
	n1, q, ok := c.num()
	if !ok {
		return 0, noDir(), c, false
	}
	q = q.sepColonOrWS()
	n2 := 0.0
	if v, q2, ok2 := q.num(); ok2 {
		n2 = v
		q = q2
	}
	q = q.sepColonOrWS()
	n3 := 0.0
	if v, q2, ok2 := q.num(); ok2 {
		n3 = v
		q = q2
	}
	q = q.sepColonOrWS()
	d, q2, ok := q.dirTok()
	if !ok {
		return 0, noDir(), c, false
	}
	return n1 + n2/60.0 + n3/3600.0, withDir(d), q2, true
}

// degminsec is the single-coordinate entry point: an optional "ca."
// prefix (approximate reading), then whichever of the four forms
// matches first.
func (c cur) degminsec() (float64, dirResult, cur, bool) {
	q := c
	if q2, ok := q.literalFold("ca"); ok {
		q = q2
		if q3, ok2 := q.literal("."); ok2 {
			q = q3
		}
	}
	q = q.ws()
	if v, d, q2, ok := q.degminsecPre(); ok {
		return v, d, q2, true
	}
	if v, d, q2, ok := q.degminsecMerged(); ok {
		return v, d, q2, true
	}
	if v, d, q2, ok := q.degminsecUnmarked(); ok {
		return v, d, q2, true
	}
	if v, d, q2, ok := q.degminsecStd(); ok {
		return v, d, q2, true
	}
	return 0, noDir(), c, false
}

// pair bundles the two halves of a parsed lat/lon string, still in
// ungrammar-interpreted (magnitude, direction) form.
type pair struct {
	lat, lon       float64
	latDir, lonDir dirResult
}

// plainLatLon parses "degminsec ws sep? ws degminsec", where sep is an
// optional comma, slash, or semicolon (whitespace alone is already
// enough of a separator).
func (c cur) plainLatLon() (pair, cur, bool) {
	v1, d1, q, ok := c.degminsec()
	if !ok {
		return pair{}, c, false
	}
	q = q.ws()
	for _, sep := range []string{",", "/", ";"} {
		if q2, ok2 := q.literal(sep); ok2 {
			q = q2
			break
		}
	}
	q = q.ws()
	v2, d2, q2, ok := q.degminsec()
	if !ok {
		return pair{}, c, false
	}
	return pair{lat: v1, latDir: d1, lon: v2, lonDir: d2}, q2, true
}

// enclosedLatLon parses a parenthesized plainLatLon.
func (c cur) enclosedLatLon() (pair, cur, bool) {
	q, ok := c.literal("(")
	if !ok {
		return pair{}, c, false
	}
	p, q, ok := q.plainLatLon()
	if !ok {
		return pair{}, c, false
	}
	q2, ok := q.literal(")")
	if !ok {
		return pair{}, c, false
	}
	return p, q2, true
}

// latlon is the pair entry point: an optionally parenthesized
// plainLatLon, followed by any amount of trailing whitespace.
func (c cur) latlon() (pair, cur, bool) {
	if p, q, ok := c.enclosedLatLon(); ok {
		return p, q.ws(), true
	}
	if p, q, ok := c.plainLatLon(); ok {
		return p, q.ws(), true
	}
	return pair{}, c, false
}
