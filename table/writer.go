// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package table

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/pkg/errors"
)

// absent is the placeholder written in any result cell whose
// resolution names no island, per spec.md §6.
const absent = "-"

// ResultRow is one resolved observation, ready to be written to the
// results table: the name resolver's best candidate, the coordinate
// resolver's best candidate, and the prioritizer's final choice.
type ResultRow struct {
	GBIFID string
	Name   galapagos.Resolution
	LatLon galapagos.Resolution
	Best   galapagos.Resolution
}

// ResultWriter writes the results table and error report spec.md §6
// describes.
type ResultWriter struct {
	resultsPath string
	errorsPath  string
}

// NewResultWriter returns a ResultWriter writing to the given paths.
func NewResultWriter(resultsPath, errorsPath string) *ResultWriter {
	return &ResultWriter{resultsPath: resultsPath, errorsPath: errorsPath}
}

// WriteResults writes rows as a tab-separated table with header
// `gbifID`, `name`, `latlon`, `best`.
func (w *ResultWriter) WriteResults(rows []ResultRow) error {
	f, err := os.Create(w.resultsPath)
	if err != nil {
		return errors.Wrapf(err, "table: creating results table %q", w.resultsPath)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	fmt.Fprintln(bw, "gbifID\tname\tlatlon\tbest")
	for _, r := range rows {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\n", r.GBIFID, cell(r.Name), cell(r.LatLon), cell(r.Best))
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "table: writing results table %q", w.resultsPath)
	}
	return nil
}

func cell(res galapagos.Resolution) string {
	if res.Island == "" {
		return absent
	}
	return res.Island
}

// WriteErrors writes the per-resolver error lists as the plain-text
// report spec.md §6 describes: one block per error, formatted
// `resolver: message for row:\n<row repr>\n\n`.
func (w *ResultWriter) WriteErrors(statsByResolver map[string]*galapagos.ResolverStats) error {
	f, err := os.Create(w.errorsPath)
	if err != nil {
		return errors.Wrapf(err, "table: creating error report %q", w.errorsPath)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)

	var resolvers []string
	for name := range statsByResolver {
		resolvers = append(resolvers, name)
	}
	sort.Strings(resolvers)

	for _, name := range resolvers {
		for _, entry := range statsByResolver[name].Errors {
			fmt.Fprintf(bw, "%s: %s for row:\n%s\n\n", name, entry.Message, rowRepr(entry.Row))
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "table: writing error report %q", w.errorsPath)
	}
	return nil
}

// rowRepr renders a row as a stable, readable key=value listing.
func rowRepr(row galapagos.Row) string {
	var keys []string
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ""
	for _, k := range keys {
		s += fmt.Sprintf("%s=%q ", k, row[k])
	}
	return s
}
