// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package main

import (
	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/calacademy-research/galapagos-island-mapper/cmdapp"
	"github.com/calacademy-research/galapagos-island-mapper/config"
	"github.com/calacademy-research/galapagos-island-mapper/island"
	"github.com/calacademy-research/galapagos-island-mapper/pipeline"
	"github.com/calacademy-research/galapagos-island-mapper/resolve/coordinate"
	"github.com/calacademy-research/galapagos-island-mapper/resolve/name"
	"github.com/calacademy-research/galapagos-island-mapper/resolve/priority"
	"github.com/calacademy-research/galapagos-island-mapper/table"
	"github.com/calacademy-research/galapagos-island-mapper/taxonomy"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var confPath string

var resolveCmd = &cmdapp.Command{
	UsageLine: "resolve [-conf <file>]",
	Short:     "resolve GBIF observations to archipelago islands",
	Long: `
Resolve reads a GBIF observation table and a geometry feature collection
named in the config file, assigns each observation to an island using the
coordinate and name resolvers, and writes the result table and error report.
	`,
	RegisterFlags: func(c *cmdapp.Command) {
		c.Flag.StringVar(&confPath, "conf", "galapagos.conf", "path to the configuration file")
	},
	Run: runResolve,
}

func init() {
	cmdapp.Add(resolveCmd)
}

func runResolve(c *cmdapp.Command, args []string) error {
	cfg, err := config.Load(confPath)
	if err != nil {
		return err
	}

	registry, err := island.NewRegistry()
	if err != nil {
		return errors.Wrap(err, "resolve: building island registry")
	}

	geom, err := island.OpenGeometry("geojson", cfg.GeometryPath)
	if err != nil {
		return errors.Wrap(err, "resolve: loading geometry")
	}
	if err := registry.LoadGeometry(geom); err != nil {
		return errors.Wrap(err, "resolve: building polygon index")
	}
	log.Info().Int("islands", len(registry.Islands())).Msg("loaded island registry")

	src, err := table.OpenSource("tsv", cfg.GBIFTable)
	if err != nil {
		return errors.Wrap(err, "resolve: opening observation table")
	}
	var rows []galapagos.Row
	sc := src.Scan()
	for sc.Scan() {
		rows = append(rows, sc.Row())
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "resolve: reading observation table")
	}

	coordResolver := coordinate.New(registry, island.ArchipelagoBBox)
	nameResolver := name.New(registry)
	resolvers := []galapagos.Resolver{coordResolver, nameResolver}

	pipe := pipeline.New(resolvers, priority.New(), registry.Names())
	results, stats := pipe.Run(rows)

	var aggregator *taxonomy.Aggregator
	if cfg.TaxonomyPath != "" {
		hierarchy, err := taxonomy.LoadHierarchy(cfg.TaxonomyPath)
		if err != nil {
			return errors.Wrap(err, "resolve: loading taxonomic hierarchy")
		}
		aggregator = taxonomy.NewAggregator(hierarchy, nil)
	}

	resultRows := make([]table.ResultRow, len(results))
	for i, res := range results {
		resultRows[i] = table.ResultRow{
			GBIFID: res.Row.Get("gbifID"),
			Name:   bestOf(res.ByResolver[nameResolver.Name()]),
			LatLon: bestOf(res.ByResolver[coordResolver.Name()]),
			Best:   res.Chosen,
		}
		if aggregator != nil {
			aggregator.Add(res.Row, res.Chosen)
		}
	}

	writer := table.NewResultWriter(cfg.ResultsPath, cfg.ErrorsPath)
	if err := writer.WriteResults(resultRows); err != nil {
		return errors.Wrap(err, "resolve: writing results")
	}
	if err := writer.WriteErrors(stats); err != nil {
		return errors.Wrap(err, "resolve: writing error report")
	}
	if aggregator != nil {
		if err := aggregator.WriteTable(cfg.ObservationsPath); err != nil {
			return errors.Wrap(err, "resolve: writing observations table")
		}
	}

	for _, name := range []string{coordResolver.Name(), nameResolver.Name()} {
		if s, ok := stats[name]; ok {
			log.Info().Msg(s.String())
		}
	}
	return nil
}

// bestOf returns the highest-confidence resolution in res, or the
// unknown sentinel if res is empty.
func bestOf(res []galapagos.Resolution) galapagos.Resolution {
	if len(res) == 0 {
		return galapagos.Unknown("")
	}
	best := res[0]
	for _, r := range res[1:] {
		if r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}
