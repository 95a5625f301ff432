// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package config loads the plain key = value configuration file
// spec.md §6 describes, via spf13/viper configured for the
// properties-style format.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the resolved set of startup paths, per spec.md §6.
type Config struct {
	// GBIFTable is the path to the input observation table (required).
	GBIFTable string

	// GeometryPath is the path to the input geometry feature
	// collection (required).
	GeometryPath string

	// TaxonomyPath is the path to the taxonomic hierarchy export, used
	// only by the optional species aggregator (SPEC_FULL.md §4.11).
	TaxonomyPath string

	// ResultsPath is where the resolved results table is written.
	ResultsPath string

	// ErrorsPath is where the error report is written.
	ErrorsPath string

	// ObservationsPath is where per-island observation counts are
	// written, when the species aggregator is active.
	ObservationsPath string
}

const (
	keyGBIFTable    = "gbif_table"
	keyGeometry     = "geometry_path"
	keyTaxonomy     = "taxonomy_path"
	keyResults      = "results_path"
	keyErrors       = "errors_path"
	keyObservations = "observations_path"
)

// Load reads and validates a config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "config: reading %q", path)
	}

	cfg := &Config{
		GBIFTable:        cleanValue(v.GetString(keyGBIFTable)),
		GeometryPath:     cleanValue(v.GetString(keyGeometry)),
		TaxonomyPath:     cleanValue(v.GetString(keyTaxonomy)),
		ResultsPath:      cleanValue(v.GetString(keyResults)),
		ErrorsPath:       cleanValue(v.GetString(keyErrors)),
		ObservationsPath: cleanValue(v.GetString(keyObservations)),
	}

	if cfg.GBIFTable == "" {
		return nil, errors.Errorf("config: %q is required", keyGBIFTable)
	}
	if cfg.GeometryPath == "" {
		return nil, errors.Errorf("config: %q is required", keyGeometry)
	}
	return cfg, nil
}

// cleanValue trims the surrounding quotes viper's properties codec
// sometimes preserves from the raw file.
func cleanValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
