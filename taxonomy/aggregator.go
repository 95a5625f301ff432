// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package taxonomy

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// defaultClassesOfInterest restricts the aggregator to birds, as in
// the reference ObservationMapper.
var defaultClassesOfInterest = map[string]struct{}{"Aves": {}}

// observationKey identifies one species-island pair.
type observationKey struct {
	species, island string
}

// Aggregator accumulates an observation-count table keyed by
// (species, island), restricted to a configurable set of classes,
// deduplicating repeat gbifIDs for the same pair.
type Aggregator struct {
	hierarchy *Hierarchy
	classes   map[string]struct{}
	gbifIDs   map[observationKey]map[string]struct{}
}

// NewAggregator returns an Aggregator over hierarchy, restricted to
// classes (nil selects the default, {"Aves"}).
func NewAggregator(hierarchy *Hierarchy, classes map[string]struct{}) *Aggregator {
	if classes == nil {
		classes = defaultClassesOfInterest
	}
	return &Aggregator{hierarchy: hierarchy, classes: classes, gbifIDs: make(map[observationKey]map[string]struct{})}
}

// shouldInclude reports whether row's class is one of interest.
func (a *Aggregator) shouldInclude(row galapagos.Row) bool {
	_, ok := a.classes[row.Get("class")]
	return ok
}

// Add records one observation, if row's class is of interest, row's
// species column is non-empty, and resolution names an island.
func (a *Aggregator) Add(row galapagos.Row, resolution galapagos.Resolution) {
	if !a.shouldInclude(row) {
		return
	}
	species := row.Get("species")
	if species == "" || resolution.Island == "" {
		return
	}
	species = Canonicalize(species)

	key := observationKey{species: species, island: resolution.Island}
	ids, ok := a.gbifIDs[key]
	if !ok {
		ids = make(map[string]struct{})
		a.gbifIDs[key] = ids
	}
	ids[row.Get("gbifID")] = struct{}{}
}

// WriteTable writes the observation-count table to path: rows are
// species (ordered per the taxonomic hierarchy), columns are islands
// (alphabetical), cells are the count of distinct gbifIDs observed for
// that pair, or empty when zero. Species not present in the hierarchy
// are logged and excluded, matching the reference aggregator's
// behaviour.
func (a *Aggregator) WriteTable(path string) error {
	var binomials []string
	islandSet := make(map[string]struct{})
	for key := range a.gbifIDs {
		binomials = append(binomials, key.species)
		islandSet[key.island] = struct{}{}
	}
	binomials = dedupe(binomials)
	sortedSpecies, unknown := SortBinomials(a.hierarchy, binomials)
	for _, species := range unknown {
		log.Warn().Str("species", species).Msg("ignoring species not in taxonomic database")
	}

	var islands []string
	for isl := range islandSet {
		islands = append(islands, isl)
	}
	sort.Strings(islands)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "taxonomy: creating observations table %q", path)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	fmt.Fprint(bw, "species")
	for _, isl := range islands {
		fmt.Fprintf(bw, "\t%s", isl)
	}
	fmt.Fprintln(bw)

	for _, species := range sortedSpecies {
		fmt.Fprint(bw, species)
		for _, isl := range islands {
			count := len(a.gbifIDs[observationKey{species: species, island: isl}])
			if count == 0 {
				fmt.Fprint(bw, "\t")
				continue
			}
			fmt.Fprintf(bw, "\t%d", count)
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "taxonomy: writing observations table %q", path)
	}
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
