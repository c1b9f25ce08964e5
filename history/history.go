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


// Package history caches snapshots of equivalence class tables, so that
// tables of more general transformations can be derived from them instead of
// from the input.
package history

import (
	"container/list"
	"fmt"

	log "github.com/golang/glog"
	"github.com/golang/snappy"
	"github.com/iF2007/arx/groupify"
	"github.com/iF2007/arx/lattice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arx_history_snapshots_stored_total",
		Help: "Total number of snapshots stored in a history",
	})

	snapshotsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arx_history_snapshots_skipped_total",
		Help: "Total number of snapshots not stored in a history",
	}, []string{"reason"})

	snapshotsEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arx_history_snapshots_evicted_total",
		Help: "Total number of snapshots evicted from a history",
	})

	snapshotBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arx_history_snapshot_bytes",
		Help: "Current size of all stored snapshots in bytes",
	})

	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arx_history_lookups_total",
		Help: "Total number of snapshot lookups by outcome",
	}, []string{"outcome"})
)

// Options configures a History.
type Options struct {
	// Maximal number of stored snapshots. 0 disables the history.
	MaxSize int
	// A table is only stored if it has at most SnapshotSizeDataset times as
	// many classes as the dataset has rows.
	SnapshotSizeDataset float64
	// A table derived from a snapshot is only stored if it has at most
	// SnapshotSizeSnapshot times as many classes as that snapshot.
	SnapshotSizeSnapshot float64
}

// Snapshot is a stored table of a transformation.
type Snapshot struct {
	id             int64
	generalization []int
	classes        int
	data           []byte
	elem           *list.Element
}

// ID returns the lattice ID of the transformation of the snapshot.
func (s *Snapshot) ID() int64 {
	return s.id
}

// Generalization returns the generalization vector of the snapshot. The slice
// must not be modified.
func (s *Snapshot) Generalization() []int {
	return s.generalization
}

// Classes returns the number of classes in the snapshot.
func (s *Snapshot) Classes() int {
	return s.classes
}

// Bytes returns the compressed size of the snapshot.
func (s *Snapshot) Bytes() int {
	return len(s.data)
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot{id: %d, generalization: %v, classes: %d}", s.id, s.generalization, s.classes)
}

// History is a bounded cache of snapshots with least recently used eviction.
//
// Not thread-safe.
type History struct {
	rows      int
	opt       Options
	snapshots map[int64]*Snapshot
	// Front is the most recently used snapshot.
	lru  *list.List
	size int64
}

// New returns an empty history for a dataset of the given number of rows.
func New(rows int, opt *Options) *History {
	if opt == nil {
		opt = &Options{}
	}
	return &History{
		rows:      rows,
		opt:       *opt,
		snapshots: make(map[int64]*Snapshot),
		lru:       list.New(),
	}
}

// Store stores the table of transformation t. hint is the snapshot the table
// was restored from, if any. Tables that are too large relative to the
// dataset, or to hint, are skipped. Store never fails: a table that cannot be
// encoded is skipped. It reports whether a snapshot was stored.
func (h *History) Store(t *lattice.Transformation, g *groupify.Groupify, hint *Snapshot) bool {
	if h.opt.MaxSize <= 0 {
		return false
	}
	if _, ok := h.snapshots[t.ID()]; ok {
		return false
	}
	classes := g.NumClasses()
	if float64(classes) > h.opt.SnapshotSizeDataset*float64(h.rows) {
		snapshotsSkippedTotal.WithLabelValues("dataset").Inc()
		log.V(3).Infof("history: skipping %v: %d classes exceed %g of %d rows", t, classes, h.opt.SnapshotSizeDataset, h.rows)
		return false
	}
	if hint != nil && float64(classes) > h.opt.SnapshotSizeSnapshot*float64(hint.classes) {
		snapshotsSkippedTotal.WithLabelValues("snapshot").Inc()
		log.V(3).Infof("history: skipping %v: %d classes exceed %g of the %d classes of %v", t, classes, h.opt.SnapshotSizeSnapshot, hint.classes, hint)
		return false
	}
	b, err := g.MarshalSnapshot()
	if err != nil {
		snapshotsSkippedTotal.WithLabelValues("encoding").Inc()
		log.Warningf("history: skipping %v: %v", t, err)
		return false
	}

	s := &Snapshot{
		id:             t.ID(),
		generalization: t.Generalization(),
		classes:        classes,
		data:           snappy.Encode(nil, b),
	}
	s.elem = h.lru.PushFront(s)
	h.snapshots[s.id] = s
	h.grow(len(s.data))
	snapshotsStoredTotal.Inc()
	log.V(3).Infof("history: stored %v in %d bytes", s, len(s.data))

	for h.lru.Len() > h.opt.MaxSize {
		h.remove(h.lru.Back().Value.(*Snapshot))
		snapshotsEvictedTotal.Inc()
	}
	return true
}

func (h *History) grow(n int) {
	h.size += int64(n)
	snapshotBytes.Add(float64(n))
}

func (h *History) remove(s *Snapshot) {
	h.lru.Remove(s.elem)
	delete(h.snapshots, s.id)
	h.grow(-len(s.data))
	log.V(3).Infof("history: evicted %v", s)
}

// Get returns the stored snapshot with the fewest classes among those of
// transformations that generalization dominates, or nil. Ties are broken by
// the lower lattice ID. The returned snapshot becomes the most recently used.
func (h *History) Get(generalization []int) *Snapshot {
	var best *Snapshot
	for _, s := range h.snapshots {
		if !lattice.Dominates(generalization, s.generalization) {
			continue
		}
		if best == nil || s.classes < best.classes || (s.classes == best.classes && s.id < best.id) {
			best = s
		}
	}
	if best == nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil
	}
	lookupsTotal.WithLabelValues("hit").Inc()
	h.lru.MoveToFront(best.elem)
	return best
}

// Restore decodes the classes of a snapshot.
func (h *History) Restore(s *Snapshot) ([]groupify.SnapshotClass, error) {
	b, err := snappy.Decode(nil, s.data)
	if err != nil {
		return nil, fmt.Errorf("couldn't decompress %v: %w", s, err)
	}
	return groupify.UnmarshalSnapshot(b)
}

// Contains reports whether a snapshot of transformation t is stored.
func (h *History) Contains(t *lattice.Transformation) bool {
	_, ok := h.snapshots[t.ID()]
	return ok
}

// Reset removes all snapshots.
func (h *History) Reset() {
	for h.lru.Len() > 0 {
		h.remove(h.lru.Back().Value.(*Snapshot))
	}
}

// SetSize overrides the byte size accounted for the stored snapshots.
func (h *History) SetSize(n int64) {
	snapshotBytes.Add(float64(n - h.size))
	h.size = n
}

// Size returns the byte size accounted for the stored snapshots.
func (h *History) Size() int64 {
	return h.size
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return h.lru.Len()
}

// MaxSize returns the maximal number of stored snapshots.
func (h *History) MaxSize() int {
	return h.opt.MaxSize
}
