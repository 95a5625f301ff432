// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package pipeline drives the observation table through both
// resolvers and the prioritizer, per spec.md §4.6.
package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// progressEvery is how often, in rows, the pipeline logs progress
// (spec.md §4.6).
const progressEvery = 100

// Prioritizer is the subset of priority.Prioritizer the pipeline uses.
type Prioritizer interface {
	Choose(row galapagos.Row, resolutions []galapagos.Resolution, stats map[string]*galapagos.ResolverStats) galapagos.Resolution
}

// Result is one row's outcome: the raw per-resolver candidates plus
// the prioritizer's final choice.
type Result struct {
	Row        galapagos.Row
	ByResolver map[string][]galapagos.Resolution
	Chosen     galapagos.Resolution
}

// Pipeline resolves a stream of rows against a fixed set of resolvers.
type Pipeline struct {
	resolvers    []galapagos.Resolver
	prioritizer  Prioritizer
	validIslands map[string]struct{}

	// Workers bounds the number of goroutines resolving rows
	// concurrently. 0 or 1 means sequential processing
	// (SPEC_FULL.md §5).
	Workers int
}

// New returns a Pipeline running resolvers (in the given order) and
// arbitrating with prioritizer. validIslands is the registry's set of
// canonical island names (island.Registry.Names()); any resolution
// naming an island outside this set is an invariant violation (spec.md
// §7/§8) and is logged and discarded rather than reaching the
// prioritizer.
func New(resolvers []galapagos.Resolver, prioritizer Prioritizer, validIslands map[string]struct{}) *Pipeline {
	return &Pipeline{resolvers: resolvers, prioritizer: prioritizer, validIslands: validIslands}
}

// NewStats returns a zeroed stats map, one entry per resolver this
// pipeline runs, keyed by resolver name.
func (p *Pipeline) NewStats() map[string]*galapagos.ResolverStats {
	stats := make(map[string]*galapagos.ResolverStats, len(p.resolvers))
	for _, r := range p.resolvers {
		stats[r.Name()] = galapagos.NewResolverStats(r.Name())
	}
	return stats
}

// Run resolves every row rows yields, returning one Result per row in
// input order and the merged stats. Each resolver's error on a given
// row is isolated to that resolver: it is recorded in that resolver's
// error list and counted as unknown, but does not prevent the other
// resolver from running or the row from producing a Result (spec.md
// §4.6/§7).
func (p *Pipeline) Run(rows []galapagos.Row) ([]Result, map[string]*galapagos.ResolverStats) {
	if p.Workers > 1 {
		return p.runConcurrent(rows)
	}
	return p.runSequential(rows)
}

func (p *Pipeline) runSequential(rows []galapagos.Row) ([]Result, map[string]*galapagos.ResolverStats) {
	stats := p.NewStats()
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = p.resolveRow(row, stats)
		logProgress(i + 1)
	}
	return results, stats
}

// runConcurrent fans rows out across Workers goroutines, each
// accumulating its own stats, merged at the end (SPEC_FULL.md §5: read
// -only polygon index, thread-safe memo cache, stats reduced by a
// final merge rather than shared counters).
func (p *Pipeline) runConcurrent(rows []galapagos.Row) ([]Result, map[string]*galapagos.ResolverStats) {
	results := make([]Result, len(rows))
	jobs := make(chan int)
	var wg sync.WaitGroup
	var done int64

	partials := make([]map[string]*galapagos.ResolverStats, p.Workers)
	for w := 0; w < p.Workers; w++ {
		localStats := p.NewStats()
		partials[w] = localStats
		wg.Add(1)
		go func(localStats map[string]*galapagos.ResolverStats) {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.resolveRow(rows[i], localStats)
				logProgress(int(atomic.AddInt64(&done, 1)))
			}
		}(localStats)
	}

	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	stats := p.NewStats()
	for _, partial := range partials {
		for name, s := range partial {
			stats[name].Merge(s)
		}
	}
	return results, stats
}

func (p *Pipeline) resolveRow(row galapagos.Row, stats map[string]*galapagos.ResolverStats) Result {
	var all []galapagos.Resolution
	byResolver := make(map[string][]galapagos.Resolution, len(p.resolvers))
	for _, r := range p.resolvers {
		res, err := r.Resolve(row)
		res = p.rejectInvariantViolations(r.Name(), row, res, stats[r.Name()])
		stats[r.Name()].RecordResult(row, res, err)
		if err != nil {
			continue
		}
		byResolver[r.Name()] = res
		all = append(all, res...)
	}

	chosen := p.prioritizer.Choose(row, all, stats)
	return Result{Row: row, ByResolver: byResolver, Chosen: chosen}
}

// rejectInvariantViolations drops any resolution naming an island not
// present in the registry (spec.md §7: "Invariant violations ... logged
// as an error, resolution discarded"; §8's quantified invariant that a
// resolver returns only canonical names present in the registry). Each
// rejection is logged and recorded on the resolver's own error list.
func (p *Pipeline) rejectInvariantViolations(resolverName string, row galapagos.Row, res []galapagos.Resolution, stat *galapagos.ResolverStats) []galapagos.Resolution {
	if p.validIslands == nil {
		return res
	}
	var kept []galapagos.Resolution
	for _, r := range res {
		if r.Island == "" {
			kept = append(kept, r)
			continue
		}
		if _, ok := p.validIslands[r.Island]; !ok {
			err := errors.Errorf("resolver %q returned unregistered island %q", resolverName, r.Island)
			log.Error().Err(err).Msg("invariant violation")
			stat.Errors = append(stat.Errors, galapagos.ErrorEntry{Row: row, Message: err.Error()})
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func logProgress(n int) {
	if n%progressEvery == 0 {
		log.Info().Int("rows", n).Msg("pipeline progress")
	}
}
