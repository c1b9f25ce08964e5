//
// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//


// Package groupify groups the rows of a generalized buffer into equivalence
// classes and evaluates privacy models on them.
package groupify

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	log "github.com/golang/glog"
	"github.com/iF2007/arx/config"
	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/lattice"
)

// ErrNotAnalyzed is returned by operations that need the verdicts of Analyze
// on a table that has not been analyzed since it was last modified.
var ErrNotAnalyzed = errors.New("equivalence classes have not been analyzed")

// Entry is one equivalence class.
type Entry struct {
	key            []int32
	representative int
	count          int
	// One frequency map per analyzed column, nil when distributions are not
	// tracked.
	distributions []map[int32]int
	isNotOutlier  bool
	// Next entry of the same hash bucket.
	next *Entry
}

// Key returns the generalized values shared by all rows of the class.
func (e *Entry) Key() []int32 {
	return e.key
}

// Representative returns the index of an input row contained in the class.
func (e *Entry) Representative() int {
	return e.representative
}

// Count returns the number of rows in the class.
func (e *Entry) Count() int {
	return e.count
}

// Distribution returns the frequencies of the codes of the analyzed column col,
// or nil if distributions are not tracked.
func (e *Entry) Distribution(col int) map[int32]int {
	if e.distributions == nil {
		return nil
	}
	return e.distributions[col]
}

// Distributions returns the frequency maps of all analyzed columns, or nil.
// They must not be modified.
func (e *Entry) Distributions() []map[int32]int {
	return e.distributions
}

// IsOutlier reports whether the rows of the class are suppressed.
func (e *Entry) IsOutlier() bool {
	return !e.isNotOutlier
}

// classView exposes an entry to the privacy models, which address
// distributions by attribute name.
type classView struct {
	e *Entry
	g *Groupify
}

func (v classView) Count() int {
	return v.e.count
}

func (v classView) Distribution(attribute string) map[int32]int {
	col, ok := v.g.attributes[attribute]
	if !ok {
		return nil
	}
	return v.e.Distribution(col)
}

// Groupify is a hash table of equivalence classes. Classes are kept in
// insertion order.
//
// Not thread-safe.
type Groupify struct {
	cfg        *config.Config
	analyzed   *data.Data
	attributes map[string]int
	// Whether every class keeps the distributions of the analyzed columns.
	trackDistributions bool

	// Generalization the classes were built with, nil if unknown.
	generalization []int

	buckets map[uint64]*Entry
	entries []*Entry
	scratch []byte
	rows    int

	// Set when filled from a buffer: the buffer and the class of every row.
	buffer     *data.Matrix
	rowEntries []*Entry
	// Last output of PerformMicroaggregation, masked by PerformSuppression.
	microaggregated *data.Matrix

	state                     tableState
	outliers                  int
	privacyModelFulfilled     bool
	minimalClassSizeFulfilled bool
}

// New returns an empty table. analyzed holds the sensitive and microaggregated
// columns of the input; its rows are counted into the class distributions if
// trackDistributions is set.
func New(cfg *config.Config, analyzed *data.Data, trackDistributions bool) *Groupify {
	g := &Groupify{
		cfg:                cfg,
		analyzed:           analyzed,
		attributes:         make(map[string]int),
		trackDistributions: trackDistributions && analyzed.Matrix().Columns() > 0,
		buckets:            make(map[uint64]*Entry),
	}
	for i, name := range analyzed.Header() {
		g.attributes[name] = i
	}
	return g
}

func (g *Groupify) hash(key []int32) uint64 {
	if cap(g.scratch) < 4*len(key) {
		g.scratch = make([]byte, 4*len(key))
	}
	b := g.scratch[:4*len(key)]
	for i, v := range key {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return xxhash.Sum64(b)
}

func equalKeys(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// entry returns the class of key, creating it with the given representative
// if it does not exist.
func (g *Groupify) entry(key []int32, representative int) *Entry {
	h := g.hash(key)
	for e := g.buckets[h]; e != nil; e = e.next {
		if equalKeys(e.key, key) {
			return e
		}
	}
	e := &Entry{
		key:            append([]int32(nil), key...),
		representative: representative,
		isNotOutlier:   true,
		next:           g.buckets[h],
	}
	if g.trackDistributions {
		e.distributions = make([]map[int32]int, g.analyzed.Matrix().Columns())
		for i := range e.distributions {
			e.distributions[i] = make(map[int32]int)
		}
	}
	g.buckets[h] = e
	g.entries = append(g.entries, e)
	return e
}

func (g *Groupify) modified() {
	g.state = filled
	g.outliers = 0
	g.privacyModelFulfilled = false
	g.minimalClassSizeFulfilled = false
}

// Add adds row of buffer, whose cells are the generalized values of input row
// row, to its class. A table that rows are added to must not receive classes
// through AddClass.
func (g *Groupify) Add(buffer *data.Matrix, row int) {
	if g.buffer == nil {
		g.buffer = buffer
		g.rowEntries = g.rowEntries[:0]
		for i := 0; i < buffer.Rows(); i++ {
			g.rowEntries = append(g.rowEntries, nil)
		}
	}
	e := g.entry(buffer.Row(row), row)
	e.count++
	if e.distributions != nil {
		for col, dist := range e.distributions {
			dist[g.analyzed.Matrix().Get(row, col)]++
		}
	}
	g.rowEntries[row] = e
	g.rows++
	g.modified()
}

// AddClass merges a class of count rows into the class of key. The
// distributions are copied.
func (g *Groupify) AddClass(key []int32, representative, count int, distributions []map[int32]int) {
	e := g.entry(key, representative)
	e.count += count
	if e.distributions != nil {
		for col, dist := range distributions {
			if col >= len(e.distributions) {
				break
			}
			for code, n := range dist {
				e.distributions[col][code] += n
			}
		}
	}
	g.rows += count
	g.modified()
}

// Clear empties the table.
func (g *Groupify) Clear() {
	clear(g.buckets)
	for i := range g.entries {
		g.entries[i] = nil
	}
	g.entries = g.entries[:0]
	g.rows = 0
	g.generalization = nil
	g.buffer = nil
	clear(g.rowEntries)
	g.rowEntries = g.rowEntries[:0]
	g.microaggregated = nil
	g.modified()
	g.state = cleared
}

// Analyze evaluates the configured privacy models on every class of the table,
// which holds the classes of transformation t. A class failing any model is an
// outlier. The privacy model is fulfilled if the outliers can be suppressed
// within the suppression limit; the minimal class size is fulfilled if the rows
// of too small classes can be. Unless force is set, model evaluation stops as
// soon as the privacy model is known to fail, and the remaining classes are
// treated as outliers.
func (g *Groupify) Analyze(t *lattice.Transformation, force bool) {
	maxOutliers := g.cfg.AbsoluteMaxOutliers(g.rows)
	k := g.cfg.MinimalClassSize()
	models := g.cfg.Models()

	outliers, small := 0, 0
	evaluate := true
	for _, e := range g.entries {
		if k > 0 && e.count < k {
			small += e.count
		}
		if !evaluate {
			e.isNotOutlier = false
			outliers += e.count
			continue
		}
		e.isNotOutlier = true
		view := classView{e: e, g: g}
		for _, m := range models {
			if !m.IsAnonymous(view) {
				e.isNotOutlier = false
				break
			}
		}
		if !e.isNotOutlier {
			outliers += e.count
			if !force && outliers > maxOutliers {
				evaluate = false
			}
		}
	}

	g.outliers = outliers
	g.privacyModelFulfilled = outliers <= maxOutliers
	g.minimalClassSizeFulfilled = small <= maxOutliers
	g.state = analyzed
	log.V(3).Infof("groupify: analyzed %v: %d classes, %d outliers of at most %d, %d rows in classes smaller than %d",
		t, len(g.entries), outliers, maxOutliers, small, k)
}

// Analyzed reports whether the verdicts of Analyze are valid.
func (g *Groupify) Analyzed() bool {
	return g.state == analyzed
}

// PrivacyModelFulfilled returns whether the last analysis fulfilled the privacy
// model. It is false if the table has not been analyzed.
func (g *Groupify) PrivacyModelFulfilled() bool {
	return g.state == analyzed && g.privacyModelFulfilled
}

// MinimalClassSizeFulfilled returns whether the last analysis fulfilled the
// minimal class size. It is false if the table has not been analyzed.
func (g *Groupify) MinimalClassSizeFulfilled() bool {
	return g.state == analyzed && g.minimalClassSizeFulfilled
}

// ResetSuppression retracts the outlier markers set by Analyze.
func (g *Groupify) ResetSuppression() {
	for _, e := range g.entries {
		e.isNotOutlier = true
	}
	g.outliers = 0
}

// PerformMicroaggregation replaces the microaggregated attributes of every row
// by the aggregate of its class. Aggregated values are registered in dict,
// whose columns are those of info.
func (g *Groupify) PerformMicroaggregation(info *data.AggregationInformation, dict *data.Dictionary) (*data.Data, error) {
	if g.state != analyzed {
		return nil, ErrNotAnalyzed
	}
	if g.buffer == nil {
		return nil, fmt.Errorf("microaggregation requires classes grouped from a buffer")
	}
	if info.Len() > 0 && !g.trackDistributions {
		return nil, fmt.Errorf("microaggregation requires class distributions")
	}
	if dict.Columns() != info.Len() {
		return nil, fmt.Errorf("microaggregation dictionary has %d columns, want %d", dict.Columns(), info.Len())
	}
	m := data.NewMatrix(len(g.rowEntries), info.Len())
	// Aggregate once per class.
	codes := make(map[*Entry][]int32)
	for row, e := range g.rowEntries {
		if e == nil {
			continue
		}
		c, ok := codes[e]
		if !ok {
			c = make([]int32, info.Len())
			for i := range c {
				c[i] = dict.Register(i, info.Aggregate(i, e.distributions[info.Analyzed[i]]))
			}
			codes[e] = c
		}
		copy(m.Row(row), c)
	}
	g.microaggregated = m
	return data.NewData(m, info.Header, info.Columns, dict), nil
}

// PerformSuppression overwrites the rows of outlier classes in the buffer the
// table was grouped from, and in the output of the last microaggregation, with
// data.SuppressedCode. It returns the number of suppressed rows.
func (g *Groupify) PerformSuppression() (int, error) {
	if g.state != analyzed {
		return 0, ErrNotAnalyzed
	}
	if g.buffer == nil {
		return 0, fmt.Errorf("suppression requires classes grouped from a buffer")
	}
	suppressed := 0
	for row, e := range g.rowEntries {
		if e == nil || e.isNotOutlier {
			continue
		}
		g.buffer.FillRow(row, data.SuppressedCode)
		if g.microaggregated != nil {
			g.microaggregated.FillRow(row, data.SuppressedCode)
		}
		suppressed++
	}
	return suppressed, nil
}

// SetGeneralization records the generalization vector the classes are built
// with.
func (g *Groupify) SetGeneralization(gen []int) {
	g.generalization = append(g.generalization[:0], gen...)
}

// Generalization returns the vector set by SetGeneralization, or nil. The
// slice must not be modified.
func (g *Groupify) Generalization() []int {
	return g.generalization
}

// Classes returns the classes in insertion order. The slice must not be
// modified.
func (g *Groupify) Classes() []*Entry {
	return g.entries
}

// NumClasses returns the number of classes.
func (g *Groupify) NumClasses() int {
	return len(g.entries)
}

// NumOutliers returns the number of rows in outlier classes.
func (g *Groupify) NumOutliers() int {
	return g.outliers
}

// Rows returns the number of rows in all classes.
func (g *Groupify) Rows() int {
	return g.rows
}

// Buffer returns the buffer the table was grouped from, or nil.
func (g *Groupify) Buffer() *data.Matrix {
	return g.buffer
}

// TracksDistributions reports whether classes keep distributions.
func (g *Groupify) TracksDistributions() bool {
	return g.trackDistributions
}

func (g *Groupify) String() string {
	return fmt.Sprintf("groupify{state: %v, classes: %d, rows: %d, outliers: %d}", g.state, len(g.entries), g.rows, g.outliers)
}
