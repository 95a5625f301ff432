// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package priority implements the prioritizer: the arbiter that
// reconciles the coordinate and name resolvers' candidate lists into
// one final Resolution, per spec.md §4.5.
package priority

import (
	"strconv"

	"github.com/calacademy-research/galapagos-island-mapper"
)

// Resolver names this package's policy rules refer to by name. The
// resolver set is closed (spec.md §9): exactly these two strategies.
const (
	CoordinateResolverName = "coordinate"
	NameResolverName       = "name"
)

var resolverNames = [...]string{CoordinateResolverName, NameResolverName}

// reliableCoordinatePublisher is the known reliable-coordinates source
// from spec.md §4.5's policy rule 4c.
const reliableCoordinatePublisher = "iNaturalist.org"

// Prioritizer arbitrates between the coordinate and name resolvers'
// candidate lists.
type Prioritizer struct{}

// New returns a Prioritizer.
func New() *Prioritizer { return &Prioritizer{} }

// Choose implements spec.md §4.5's algorithm: given the row and the
// combined candidate list from both resolvers, returns one Resolution
// and updates each resolver's agreement/disagreement counters in
// stats (keyed by resolver name).
func (p *Prioritizer) Choose(row galapagos.Row, resolutions []galapagos.Resolution, stats map[string]*galapagos.ResolverStats) galapagos.Resolution {
	if len(resolutions) == 0 {
		return galapagos.Unknown("")
	}
	if len(resolutions) == 1 {
		if stat, ok := stats[resolutions[0].Resolver]; ok {
			stat.Agreements++
		}
		return resolutions[0]
	}

	byResolver := groupByResolver(resolutions)
	bestByResolver := make(map[string]galapagos.Resolution, len(byResolver))
	for resolver, res := range byResolver {
		bestByResolver[resolver] = bestResolution(res)
	}

	chosen := chooseByAllResolversAgreement(resolutions, byResolver)
	if chosen == nil {
		chosen = applyPolicyRules(row, bestByResolver)
	}
	if chosen == nil {
		best := bestResolution(resolutions)
		chosen = &best
	}

	for _, name := range resolverNames {
		res, ok := byResolver[name]
		if !ok {
			continue
		}
		updateStats(stats[name], *chosen, res, bestByResolver[name])
	}
	return *chosen
}

func groupByResolver(resolutions []galapagos.Resolution) map[string][]galapagos.Resolution {
	byResolver := make(map[string][]galapagos.Resolution)
	for _, res := range resolutions {
		byResolver[res.Resolver] = append(byResolver[res.Resolver], res)
	}
	return byResolver
}

// bestResolution returns the highest-confidence resolution, with ties
// broken in favor of whichever was encountered first.
func bestResolution(resolutions []galapagos.Resolution) galapagos.Resolution {
	best := resolutions[0]
	for _, res := range resolutions[1:] {
		if res.Confidence > best.Confidence {
			best = res
		}
	}
	return best
}

// chooseByAllResolversAgreement implements spec.md §4.5 rule 3: if
// exactly one island appears in the candidate lists of every
// resolver, select it (the highest-confidence concrete resolution for
// that island).
func chooseByAllResolversAgreement(resolutions []galapagos.Resolution, byResolver map[string][]galapagos.Resolution) *galapagos.Resolution {
	islandResolvers := make(map[string]map[string]bool)
	for _, res := range resolutions {
		if res.Island == "" {
			continue
		}
		set, ok := islandResolvers[res.Island]
		if !ok {
			set = make(map[string]bool)
			islandResolvers[res.Island] = set
		}
		set[res.Resolver] = true
	}

	var unanimous []string
	for island, resolvers := range islandResolvers {
		if allResolversPresent(resolvers, byResolver) {
			unanimous = append(unanimous, island)
		}
	}
	if len(unanimous) != 1 {
		return nil
	}
	island := unanimous[0]

	var candidates []galapagos.Resolution
	for _, res := range resolutions {
		if res.Island == island {
			candidates = append(candidates, res)
		}
	}
	best := bestResolution(candidates)
	return &best
}

func allResolversPresent(resolvers map[string]bool, byResolver map[string][]galapagos.Resolution) bool {
	for _, name := range resolverNames {
		if _, ok := byResolver[name]; !ok {
			continue // a resolver that never ran this row can't be part of the unanimous set
		}
		if !resolvers[name] {
			return false
		}
	}
	return true
}

// applyPolicyRules implements spec.md §4.5 rule 4's policy rules,
// first match wins, in the exact order given.
func applyPolicyRules(row galapagos.Row, bestByResolver map[string]galapagos.Resolution) *galapagos.Resolution {
	coordBest, haveCoord := bestByResolver[CoordinateResolverName]
	nameBest, haveName := bestByResolver[NameResolverName]

	// Both archipelagic "Gardner" islands are disambiguated by
	// coordinates; prefer the coordinate resolver when it places the
	// row near Española and the name resolver guesses Gardner.
	if haveCoord && haveName && coordBest.Island == "espanola" && nameBest.Island == "gardner" {
		return &coordBest
	}

	if year, ok := parseYear(row.Get("year")); ok && year < 1980 && haveName {
		return &nameBest
	}

	if row.Get("publisher") == reliableCoordinatePublisher && haveCoord {
		return &coordBest
	}

	return nil
}

func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return year, true
}

// updateStats records one resolver's agreement/disagreement with
// chosen, given that resolver's own candidate list and best
// resolution, per spec.md §4.5's exclusive hard/soft/agreement rule.
func updateStats(stat *galapagos.ResolverStats, chosen galapagos.Resolution, candidates []galapagos.Resolution, best galapagos.Resolution) {
	if !containsIsland(candidates, chosen.Island) {
		stat.HardDisagreements++
		return
	}
	if chosen.Island != best.Island {
		stat.SoftDisagreements++
		return
	}
	stat.Agreements++
}

func containsIsland(candidates []galapagos.Resolution, island string) bool {
	for _, c := range candidates {
		if c.Island == island {
			return true
		}
	}
	return false
}
