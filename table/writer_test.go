// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calacademy-research/galapagos-island-mapper"
)

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "results.tsv")
	errorsPath := filepath.Join(dir, "errors.txt")
	w := NewResultWriter(resultsPath, errorsPath)

	rows := []ResultRow{
		{GBIFID: "1", Name: galapagos.Resolution{Island: "baltra"}, LatLon: galapagos.Resolution{Island: "baltra"}, Best: galapagos.Resolution{Island: "baltra"}},
		{GBIFID: "2"},
	}
	if err := w.WriteResults(rows); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}

	data, err := os.ReadFile(resultsPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "gbifID\tname\tlatlon\tbest" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1\tbaltra\tbaltra\tbaltra" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2\t-\t-\t-" {
		t.Errorf("row 2 = %q, want all placeholders", lines[2])
	}
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	w := NewResultWriter(filepath.Join(dir, "results.tsv"), filepath.Join(dir, "errors.txt"))

	stats := map[string]*galapagos.ResolverStats{
		"coordinate": {
			Name: "coordinate",
			Errors: []galapagos.ErrorEntry{
				{Row: galapagos.Row{"gbifID": "7"}, Message: "malformed coordinate"},
			},
		},
	}
	if err := w.WriteErrors(stats); err != nil {
		t.Fatalf("WriteErrors: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "errors.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "coordinate: malformed coordinate for row:\ngbifID=\"7\" \n\n"
	if string(data) != want {
		t.Errorf("error report = %q, want %q", string(data), want)
	}
}
