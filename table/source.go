// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// Originally written by J. Salvador Arias <jsalarias@csnat.unt.edu.ar>.

// Package table reads the observation input table and writes the
// resolution results and error report, per spec.md §6.
package table

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/calacademy-research/galapagos-island-mapper"
	"github.com/pkg/errors"
)

// RowSource streams galapagos.Row values from some underlying storage.
type RowSource interface {
	// Scan returns a channel-backed cursor over every row. The
	// returned RowScan must be drained (or closed) by the caller.
	Scan() *RowScan
}

// SourceDriver contains the components of a RowSource driver.
type SourceDriver struct {
	// Open opens a RowSource given a driver-specific parameter (for
	// the built-in "tsv" driver, a file path).
	Open func(param string) (RowSource, error)

	// About returns a short description of the driver.
	About func() string
}

var (
	sourceDriversMu sync.RWMutex
	sourceDrivers   = make(map[string]SourceDriver)
)

// RegisterSource makes a RowSource driver available under name. It
// panics if called twice for the same name, or if driver.Open is nil.
func RegisterSource(name string, driver SourceDriver) {
	sourceDriversMu.Lock()
	defer sourceDriversMu.Unlock()
	if driver.Open == nil {
		panic("table: RowSource driver Open is nil")
	}
	if _, dup := sourceDrivers[name]; dup {
		panic("table: RegisterSource called twice for driver " + name)
	}
	sourceDrivers[name] = driver
}

// SourceDrivers returns a sorted list of registered driver names.
func SourceDrivers() []string {
	sourceDriversMu.RLock()
	defer sourceDriversMu.RUnlock()
	var ls []string
	for name := range sourceDrivers {
		ls = append(ls, name)
	}
	sort.Strings(ls)
	return ls
}

// OpenSource opens a RowSource using the named driver.
func OpenSource(driver, param string) (RowSource, error) {
	if driver == "" {
		return nil, errors.New("table: empty RowSource driver")
	}
	sourceDriversMu.RLock()
	dr, ok := sourceDrivers[driver]
	sourceDriversMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("table: unknown RowSource driver %q", driver)
	}
	return dr.Open(param)
}

func init() {
	RegisterSource("tsv", SourceDriver{
		Open:  openTSVFile,
		About: func() string { return "reads observation rows from a tab-separated file with a header" },
	})
}

// RowScan is a channel-backed cursor over a RowSource's rows, modeled
// on the teacher's RecScan.
type RowScan struct {
	c      chan galapagos.Row
	err    error
	closed bool
	row    galapagos.Row
}

// NewRowScan creates a RowScan with a buffer of the indicated size.
func NewRowScan(sz int) *RowScan {
	if sz < 10 {
		sz = 10
	}
	return &RowScan{c: make(chan galapagos.Row, sz)}
}

// Add adds a row or a terminal error to the scan. It returns false if
// the scan is already closed or has already recorded an error.
func (sc *RowScan) Add(row galapagos.Row, err error) bool {
	if sc.err != nil || sc.closed {
		return false
	}
	if err != nil {
		close(sc.c)
		sc.err = err
		return true
	}
	sc.c <- row
	return true
}

// Close closes the scan.
func (sc *RowScan) Close() {
	if sc.closed || sc.err != nil {
		return
	}
	close(sc.c)
	sc.closed = true
}

// Err returns the error, if any, encountered during iteration.
func (sc *RowScan) Err() error {
	if !sc.closed {
		return nil
	}
	if errors.Cause(sc.err) == io.EOF {
		return nil
	}
	return sc.err
}

// Row returns the last row read. It must be preceded by a call to
// Scan that returned true.
func (sc *RowScan) Row() galapagos.Row {
	row := sc.row
	sc.row = nil
	return row
}

// Scan advances to the next row, returning false when exhausted or on
// error (distinguish the two with Err).
func (sc *RowScan) Scan() bool {
	if sc.closed {
		return false
	}
	row, ok := <-sc.c
	if !ok {
		sc.closed = true
		if sc.err == nil {
			sc.err = io.EOF
		}
		return false
	}
	sc.row = row
	return true
}

// tsvSource implements RowSource over a tab-separated file, read
// entirely into memory at Open time (observation tables in this domain
// are small enough that streaming the file itself adds no benefit).
type tsvSource struct {
	header []string
	rows   []galapagos.Row
}

func openTSVFile(param string) (RowSource, error) {
	f, err := os.Open(param)
	if err != nil {
		return nil, errors.Wrapf(err, "table: opening observation table %q", param)
	}
	defer f.Close()
	return parseTSV(f)
}

func parseTSV(r io.Reader) (RowSource, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "table: reading header")
		}
		return nil, errors.New("table: empty observation table")
	}
	header := strings.Split(sc.Text(), "\t")

	src := &tsvSource{header: header}
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make(galapagos.Row, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}
		src.rows = append(src.rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "table: reading observation table")
	}
	return src, nil
}

// Scan implements RowSource.
func (s *tsvSource) Scan() *RowScan {
	sc := NewRowScan(len(s.rows))
	go func() {
		for _, row := range s.rows {
			sc.Add(row, nil)
		}
		sc.Close()
	}()
	return sc
}
