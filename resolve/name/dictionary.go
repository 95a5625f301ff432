// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package name

import (
	"regexp"
	"sort"
	"strings"

	"github.com/calacademy-research/galapagos-island-mapper/island"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// islandWords denote the generic "island" suffix/prefix words that
// should not themselves count as part of an occurrence's context.
var islandWords = set("island", "islet", "isla", "isl", "is", "id", "i", "roca")

// placeModifiers are generic geographic-feature words that must never
// be matched as an island name, nor survive as the word immediately
// touching a matched occurrence.
var placeModifiers = set(
	"bay", "punta", "point", "bahia", "playa", "beach", "volcano",
	"volcan", "barrio", "cerro", "canal", "harbor",
)

// suspiciousPrepositions mark a prefix as describing proximity to,
// rather than identity with, the matched island.
var suspiciousPrepositions = set("off", "also", "by", "near", "toward", "to")

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func isIslandWord(w string) bool          { _, ok := islandWords[w]; return ok }
func isPlaceModifier(w string) bool       { _, ok := placeModifiers[w]; return ok }
func isSuspiciousPreposition(w string) bool { _, ok := suspiciousPrepositions[w]; return ok }

// dictEntry is one canonical name or alias, split into words.
type dictEntry struct {
	words     []string
	canonical string
}

// dictionary is the name resolver's word-sequence lookup table, sorted
// by descending word count so longer phrases are tried first.
type dictionary struct {
	entries []dictEntry
}

// buildDictionary assembles the dictionary from every island's
// canonical name and aliases in registry.
func buildDictionary(registry *island.Registry) *dictionary {
	d := &dictionary{}
	for _, isl := range registry.Islands() {
		d.entries = append(d.entries, dictEntry{words: strings.Split(isl.Name, " "), canonical: isl.Name})
		aliases := make([]string, 0, len(isl.Aliases))
		for alias := range isl.Aliases {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases) // deterministic entry order for equal-length aliases
		for _, alias := range aliases {
			d.entries = append(d.entries, dictEntry{words: strings.Split(alias, " "), canonical: isl.Name})
		}
	}
	sort.SliceStable(d.entries, func(i, j int) bool {
		return len(d.entries[i].words) > len(d.entries[j].words)
	})
	return d
}

var phraseSplitter = regexp.MustCompile(`[,.;()\[\]|]+`)
var wordSplitter = regexp.MustCompile(`\W+`)

// splitPhrases splits s on the phrase-separator punctuation spec.md
// §4.4 names, trimming and discarding empty parts.
func splitPhrases(s string) []string {
	var phrases []string
	for _, part := range phraseSplitter.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		phrases = append(phrases, part)
	}
	return phrases
}

// splitWords splits a phrase into words on runs of non-word
// characters.
func splitWords(s string) []string {
	return wordSplitter.Split(s, -1)
}

var caseFolder = cases.Fold()

// normalize applies the matcher normalisation spec.md §3 requires:
// case-folding, NFKD (compatibility) decomposition, then dropping
// every non-ASCII byte so accented letters collapse to their base
// form ("Española" and "espanola" become equal).
func normalize(s string) string {
	s = caseFolder.String(s)
	s = norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < utf8RuneSelf {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

const utf8RuneSelf = 0x80
