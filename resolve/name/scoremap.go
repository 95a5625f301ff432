// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package name

import (
	"math"
	"sort"

	"github.com/calacademy-research/galapagos-island-mapper"
)

// scoreMap is a small mutable mapping from canonical island name to
// relevance score, with the mass-update operations spec.md §9 calls
// for. Ported from the reference resolver's ScoreMap.
type scoreMap map[string]int

func newScoreMap() scoreMap { return make(scoreMap) }

// add records score for name, keeping whichever of the existing and
// new score is higher.
func (m scoreMap) add(name string, score int) {
	if cur, ok := m[name]; !ok || score > cur {
		m[name] = score
	}
}

// merge folds other into m using add's max-per-key semantics.
func (m scoreMap) merge(other scoreMap) {
	for name, score := range other {
		m.add(name, score)
	}
}

// decAll shifts every entry down by amount.
func (m scoreMap) decAll(amount int) {
	for name := range m {
		m[name] -= amount
	}
}

// shiftAll shifts every entry by amount (positive or negative).
func (m scoreMap) shiftAll(amount int) {
	for name := range m {
		m[name] += amount
	}
}

// keepBest discards every entry that is not tied for the maximum
// score.
func (m scoreMap) keepBest() {
	if len(m) == 0 {
		return
	}
	hi := math.MinInt
	for _, score := range m {
		if score > hi {
			hi = score
		}
	}
	for name, score := range m {
		if score < hi {
			delete(m, name)
		}
	}
}

// resolutions renders m as Resolutions attributed to resolver, ordered
// by island name for deterministic output.
func (m scoreMap) resolutions(resolver string) []galapagos.Resolution {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	res := make([]galapagos.Resolution, 0, len(names))
	for _, name := range names {
		res = append(res, galapagos.Resolution{
			Island:     name,
			Confidence: confidenceFor(m[name]),
			Resolver:   resolver,
		})
	}
	return res
}

// confidenceFor maps a final score to a Confidence level per spec.md
// §4.4: above 7 is high, below 3 is low, otherwise moderate.
func confidenceFor(score int) galapagos.Confidence {
	switch {
	case score > 7:
		return galapagos.High
	case score < 3:
		return galapagos.Low
	default:
		return galapagos.Moderate
	}
}
