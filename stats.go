// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package galapagos

import "fmt"

// ErrorEntry records a single row-level resolver failure, kept verbatim
// alongside the message so the error report can show exactly what was
// being processed.
type ErrorEntry struct {
	Row     Row
	Message string
}

// ResolverStats accumulates the counters described in spec.md §3 for a
// single resolver over the course of a pipeline run.
type ResolverStats struct {
	Name              string
	Processed         int
	Identified        int
	Unknown           int
	Agreements        int
	HardDisagreements int
	SoftDisagreements int
	Errors            []ErrorEntry
}

// NewResolverStats returns a zeroed ResolverStats for the named
// resolver.
func NewResolverStats(name string) *ResolverStats {
	return &ResolverStats{Name: name}
}

// RecordResult updates Processed/Identified/Unknown for one row, given
// the resolutions that resolver returned (possibly empty) and any error
// it encountered. A non-nil err always counts as Unknown, regardless of
// whether partial results were produced.
func (s *ResolverStats) RecordResult(row Row, results []Resolution, err error) {
	s.Processed++
	if err != nil {
		s.Errors = append(s.Errors, ErrorEntry{Row: row, Message: err.Error()})
		s.Unknown++
		return
	}
	if len(results) == 0 {
		s.Unknown++
		return
	}
	s.Identified++
}

// Merge folds another ResolverStats (e.g. from a parallel worker) into
// s. Name is assumed to already match.
func (s *ResolverStats) Merge(other *ResolverStats) {
	s.Processed += other.Processed
	s.Identified += other.Identified
	s.Unknown += other.Unknown
	s.Agreements += other.Agreements
	s.HardDisagreements += other.HardDisagreements
	s.SoftDisagreements += other.SoftDisagreements
	s.Errors = append(s.Errors, other.Errors...)
}

// String renders a one-line human summary, matching the shape of the
// per-resolver progress line the reference pipeline prints.
func (s *ResolverStats) String() string {
	return fmt.Sprintf(
		"%s resolver: %d processed, %d identified, %d unknown, %d errors, %d agree, %d hard/%d soft disagree",
		s.Name, s.Processed, s.Identified, s.Unknown, len(s.Errors), s.Agreements, s.HardDisagreements, s.SoftDisagreements,
	)
}
