// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package taxonomy is the optional, non-core species aggregator
// (SPEC_FULL.md §4.11): it loads an IOW-style taxonomic hierarchy
// export and tallies per-island observation counts for a configurable
// set of classes of interest.
package taxonomy

import (
	"encoding/xml"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// synonyms maps GBIF species names to the name used in the taxonomic
// source, for species whose accepted name has since changed.
var synonyms = map[string]string{
	"Oceanodroma castro":       "Hydrobates castro",
	"Aphriza virgata":          "Calidris virgata",
	"Oceanodroma leucorhoa":    "Hydrobates leucorhous",
	"Phalacrocorax harrisi":    "Nannopterum harrisi",
	"Puffinus creatopus":       "Ardenna creatopus",
	"Philomachus pugnax":       "Calidris pugnax",
	"Anas clypeata":            "Spatula clypeata",
	"Anas cyanoptera":          "Spatula cyanoptera",
	"Aratinga erythrogenys":    "Psittacara erythrogenys",
	"Anas discors":             "Spatula discors",
	"Puffinus pacificus":       "Ardenna pacifica",
	"Puffinus griseus":         "Ardenna grisea",
	"Charadrius wilsonia":      "Anarhynchus wilsonia",
	"Tryngites subruficollis":  "Calidris subruficollis",
	"Oceanodroma tethys":       "Hydrobates tethys",
	"Laterallus spilonotus":    "Laterallus spilonota",
	"Neocrex erythrops":        "Mustelirallus erythrops",
	"Oceanodroma markhami":     "Hydrobates markhami",
	"Oceanodroma hornbyi":      "Hydrobates hornbyi",
	"Oceanodroma microsoma":    "Hydrobates microsoma",
}

// xmlDB is the on-wire shape of the IOW-style taxonomic export.
type xmlDB struct {
	XMLName xml.Name    `xml:"checklist"`
	Orders  []xmlOrder  `xml:"order"`
}

type xmlOrder struct {
	Name     string      `xml:"latin_name"`
	Families []xmlFamily `xml:"family"`
}

type xmlFamily struct {
	Name   string    `xml:"latin_name"`
	Genera []xmlGenus `xml:"genus"`
}

type xmlGenus struct {
	Name    string      `xml:"latin_name"`
	Species []xmlSpecies `xml:"species"`
}

type xmlSpecies struct {
	Name string `xml:"latin_name"`
}

// Entry is one (order, family, genus, species) leaf of the hierarchy,
// in the document's own order.
type Entry struct {
	Order, Family, Genus, Species string
}

// Hierarchy is a parsed taxonomic export: the ordered list of
// (order, family, genus, species) entries, plus the document-order
// index of each binomial (used to sort a summary table the way the
// source publication orders it).
type Hierarchy struct {
	Entries []Entry
	order   map[string]int
}

// LoadHierarchy parses the taxonomic XML export at path.
func LoadHierarchy(path string) (*Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "taxonomy: opening hierarchy %q", path)
	}
	defer f.Close()
	return parseHierarchy(f)
}

func parseHierarchy(r io.Reader) (*Hierarchy, error) {
	var db xmlDB
	if err := xml.NewDecoder(r).Decode(&db); err != nil {
		return nil, errors.Wrap(err, "taxonomy: malformed hierarchy")
	}

	h := &Hierarchy{order: make(map[string]int)}
	for _, order := range db.Orders {
		for _, family := range order.Families {
			for _, genus := range family.Genera {
				for _, species := range genus.Species {
					entry := Entry{Order: order.Name, Family: family.Name, Genus: genus.Name, Species: species.Name}
					binomial := genus.Name + " " + species.Name
					h.order[binomial] = len(h.Entries)
					h.Entries = append(h.Entries, entry)
				}
			}
		}
	}
	return h, nil
}

// Rank returns the document-order position of binomial (genus +
// " " + species), and whether it was found at all.
func (h *Hierarchy) Rank(binomial string) (int, bool) {
	rank, ok := h.order[binomial]
	return rank, ok
}

// Canonicalize resolves species to the name used by the taxonomic
// source, applying the GBIF/IOW synonym table when needed.
func Canonicalize(species string) string {
	if canon, ok := synonyms[species]; ok {
		return canon
	}
	return species
}

// SortBinomials returns binomials ordered per h, dropping (and
// returning separately) any not present in the hierarchy.
func SortBinomials(h *Hierarchy, binomials []string) (sorted, unknown []string) {
	for _, b := range binomials {
		if _, ok := h.order[b]; ok {
			sorted = append(sorted, b)
		} else {
			unknown = append(unknown, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return h.order[sorted[i]] < h.order[sorted[j]] })
	sort.Strings(unknown)
	return sorted, unknown
}
