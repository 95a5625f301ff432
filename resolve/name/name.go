// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package name implements the name-based resolver: it tokenises the
// locality text columns, fuzzy-matches island names and aliases using
// a sliding word window, scores each occurrence with contextual
// heuristics, and returns the candidates from the first column, in
// priority order, that yields any candidate (spec.md §4.4).
package name

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/calacademy-research/galapagos-island-mapper/island"
)

// resolverName identifies this resolver in statistics and Resolutions.
const resolverName = "name"

// column is one of the text columns consulted, in priority order; the
// first to produce any non-empty result wins (spec.md §9).
type column struct {
	field string
	bias  int
}

var columns = []column{
	{field: "island", bias: 1},
	{field: "locality", bias: 0},
	{field: "verbatimLocality", bias: 0},
}

// Resolver is the name-based Resolver implementation.
type Resolver struct {
	dict *dictionary
}

// New builds a Resolver whose dictionary is derived from registry's
// canonical names and aliases.
func New(registry *island.Registry) *Resolver {
	return &Resolver{dict: buildDictionary(registry)}
}

// Name implements galapagos.Resolver.
func (r *Resolver) Name() string { return resolverName }

// Resolve implements galapagos.Resolver, per spec.md §4.4.
func (r *Resolver) Resolve(row galapagos.Row) ([]galapagos.Resolution, error) {
	for _, col := range columns {
		val := row.Get(col.field)
		if val == "" {
			continue
		}
		sm := r.dict.resolveColumn(val)
		if len(sm) == 0 {
			continue
		}
		sm.keepBest()
		sm.shiftAll(col.bias)
		return sm.resolutions(resolverName), nil
	}
	return nil, nil
}

// resolveColumn scores every phrase in val and merges them into one
// column-level scoreMap.
func (d *dictionary) resolveColumn(val string) scoreMap {
	col := newScoreMap()
	for _, phrase := range splitPhrases(normalize(val)) {
		col.merge(d.scorePhrase(phrase))
	}
	return col
}

// occurrence is one island name found while walking a phrase's words.
type occurrence struct {
	island  string
	prefix  []string
	suffix  []string
	penalty int
}

// scorePhrase parses phrase for island occurrences and scores each,
// applying the multi-island-phrase ambiguity penalty (spec.md §9)
// before returning the phrase's contribution to its column.
func (d *dictionary) scorePhrase(phrase string) scoreMap {
	sm := newScoreMap()
	for _, occ := range d.parsePhrase(phrase) {
		canonical, final := occ.island, scoreOccurrence(occ.prefix, occ.suffix)+occ.penalty
		if canonical == "darwin" && containsWord(occ.suffix, "station") {
			canonical = "santa cruz"
			final += 2
		}
		if final > 0 {
			sm.add(canonical, final)
		}
	}
	if len(sm) > 1 {
		sm.decAll(1)
	}
	return sm
}

// parsePhrase walks phrase's words left to right, greedily matching
// the longest dictionary entry (edit distance ≤ 1) at each position.
// Ported from the reference resolver's parse_phrase.
func (d *dictionary) parsePhrase(phrase string) []occurrence {
	words := splitWords(phrase)
	if len(words) == 0 {
		return nil
	}

	var occurrences []occurrence
	var interstitial []string
	i := 0
	for i < len(words) {
		entry, dist, ok := d.matchAt(words, i)
		if !ok {
			interstitial = append(interstitial, words[i])
			i++
			continue
		}
		if len(occurrences) > 0 {
			last := &occurrences[len(occurrences)-1]
			last.suffix = append(last.suffix, interstitial...)
		}
		occurrences = append(occurrences, occurrence{
			island:  entry.canonical,
			prefix:  interstitial,
			penalty: -2 * dist,
		})
		interstitial = nil
		i += len(entry.words)
	}
	if len(occurrences) == 0 {
		return nil
	}
	last := &occurrences[len(occurrences)-1]
	last.suffix = append(last.suffix, interstitial...)
	return occurrences
}

// matchAt looks for a dictionary entry whose word count fits at
// position i in words, skipping any window that is itself a bare
// place-modifier word, and returns the first entry within edit
// distance 1 (dictionary entries are tried longest-first, so this is
// also the longest match).
func (d *dictionary) matchAt(words []string, i int) (dictEntry, int, bool) {
	for _, entry := range d.entries {
		n := len(entry.words)
		if i+n > len(words) {
			continue
		}
		window := words[i : i+n]
		windowJoined := strings.Join(window, " ")
		if isPlaceModifier(windowJoined) {
			continue
		}
		dist := levenshtein.ComputeDistance(windowJoined, strings.Join(entry.words, " "))
		if dist <= 1 {
			return entry, dist, true
		}
	}
	return dictEntry{}, 0, false
}

// scoreOccurrence implements spec.md §4.4's occurrence scoring: trim
// island-denoting words touching the match, reject if a place
// modifier remains touching it, then score by context.
func scoreOccurrence(prefix, suffix []string) int {
	prefix = trimTrailing(prefix, isIslandWord)
	if len(prefix) > 0 && isPlaceModifier(prefix[len(prefix)-1]) {
		return 0
	}
	suffix = trimLeading(suffix, isIslandWord)
	if len(suffix) > 0 && isPlaceModifier(suffix[0]) {
		return 0
	}

	if len(prefix) == 0 && len(suffix) == 0 {
		return 8
	}
	for _, w := range prefix {
		if isSuspiciousPreposition(w) {
			return 2
		}
	}
	if len(suffix) != 0 {
		return 4
	}
	return 6
}

func trimTrailing(words []string, pred func(string) bool) []string {
	if len(words) > 0 && pred(words[len(words)-1]) {
		return words[:len(words)-1]
	}
	return words
}

func trimLeading(words []string, pred func(string) bool) []string {
	if len(words) > 0 && pred(words[0]) {
		return words[1:]
	}
	return words
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if w == target {
			return true
		}
	}
	return false
}
