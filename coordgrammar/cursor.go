package coordgrammar

import (
	"strconv"
	"unicode"
)

// cur is an immutable cursor over the remaining runes of a coordinate
// string. Every rule function takes a cur by value and, on success,
// returns an advanced cur; on failure it reports ok=false and the
// original cur is still usable by the caller to try another
// alternative, mirroring PEG backtracking without a parser-generator.
type cur struct {
	r []rune
}

func newCur(s string) cur { return cur{r: []rune(s)} }

func (c cur) empty() bool { return len(c.r) == 0 }

// ws consumes zero or more whitespace runes. It always succeeds.
func (c cur) ws() cur {
	i := 0
	for i < len(c.r) && unicode.IsSpace(c.r[i]) {
		i++
	}
	return cur{c.r[i:]}
}

// literal consumes an exact, case-sensitive rune sequence.
func (c cur) literal(lit string) (cur, bool) {
	lr := []rune(lit)
	if len(c.r) < len(lr) {
		return c, false
	}
	for i, want := range lr {
		if c.r[i] != want {
			return c, false
		}
	}
	return cur{c.r[len(lr):]}, true
}

// literalFold consumes an exact rune sequence, ignoring case.
func (c cur) literalFold(lit string) (cur, bool) {
	lr := []rune(lit)
	if len(c.r) < len(lr) {
		return c, false
	}
	for i, want := range lr {
		if unicode.ToLower(c.r[i]) != unicode.ToLower(want) {
			return c, false
		}
	}
	return cur{c.r[len(lr):]}, true
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// digits consumes one or more ASCII digits.
func (c cur) digits() (string, cur, bool) {
	i := 0
	for i < len(c.r) && isASCIIDigit(c.r[i]) {
		i++
	}
	if i == 0 {
		return "", c, false
	}
	return string(c.r[:i]), cur{c.r[i:]}, true
}

// decimalFrac consumes a "." or "," followed by one or more digits,
// returning just the digit run.
func (c cur) decimalFrac() (string, cur, bool) {
	if c.empty() || (c.r[0] != '.' && c.r[0] != ',') {
		return "", c, false
	}
	rest := cur{c.r[1:]}
	return rest.digits()
}

// num parses the "num" production: an optionally-signed decimal
// number in any of "123", "123.45", ".45", ",45" form, or the literal
// "--" standing for zero (used by data entry tools in place of an
// unreadable digit).
func (c cur) num() (float64, cur, bool) {
	q := c
	neg := false
	if q2, ok := q.literal("-"); ok {
		neg = true
		q = q2
	}
	if whole, q2, ok := q.digits(); ok {
		text := whole
		if frac, q3, ok2 := q2.decimalFrac(); ok2 {
			text += "." + frac
			q2 = q3
		}
		v, err := strconv.ParseFloat(text, 64)
		if err == nil {
			if neg {
				v = -v
			}
			return v, q2, true
		}
	}
	if frac, q2, ok := q.decimalFrac(); ok {
		v, err := strconv.ParseFloat("0."+frac, 64)
		if err == nil {
			if neg {
				v = -v
			}
			return v, q2, true
		}
	}
	if q2, ok := c.literal("--"); ok {
		return 0, q2, true
	}
	return 0, c, false
}

// degMark consumes one of the degree-sign spellings the corpus of
// fixtures uses: the ordinal/degree symbols, the word "deg"
// (case-insensitive), or a bare "d"/"D".
func (c cur) degMark() (cur, bool) {
	if q, ok := c.literal("º"); ok {
		return q, true
	}
	if q, ok := c.literal("°"); ok {
		return q, true
	}
	if q, ok := c.literalFold("deg"); ok {
		return q, true
	}
	if q, ok := c.literal("d"); ok {
		return q, true
	}
	if q, ok := c.literal("D"); ok {
		return q, true
	}
	return c, false
}

func (c cur) minMark() (cur, bool) {
	for _, lit := range []string{"'", "’", "′", "`", "m", "M"} {
		if q, ok := c.literal(lit); ok {
			return q, true
		}
	}
	return c, false
}

func (c cur) secMark() (cur, bool) {
	// "''" before "'" would also be correct, but the reference grammar
	// tries the double-quote spellings first, then "''", then a single
	// "'" — preserved here because it changes how doubled apostrophes
	// quoting seconds get consumed.
	for _, lit := range []string{"\"", "”", "''", "'", "s", "S"} {
		if q, ok := c.literal(lit); ok {
			return q, true
		}
	}
	return c, false
}

// dirTok consumes a single hemisphere letter with an optional trailing
// period ("N", "s.", "W").
func (c cur) dirTok() (Direction, cur, bool) {
	if c.empty() {
		return DirNone, c, false
	}
	lower := unicode.ToLower(c.r[0])
	switch lower {
	case 'n', 's', 'e', 'w':
	default:
		return DirNone, c, false
	}
	q := cur{c.r[1:]}
	if q2, ok := q.literal("."); ok {
		q = q2
	}
	return Direction(lower), q, true
}
