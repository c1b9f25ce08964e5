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


package checker

import (
	"fmt"

	"github.com/iF2007/arx/history"
	"github.com/iF2007/arx/lattice"
)

// Transition describes how the classes of the next transformation are derived
// from what has already been computed. It is one of FromScratch, Rollup and
// FromSnapshot.
type Transition interface {
	isTransition()
	String() string
}

// FromScratch groups the generalized input.
type FromScratch struct{}

// Rollup merges the classes of the last transformation, which the next one
// dominates.
type Rollup struct{}

// FromSnapshot merges the classes of a stored snapshot, whose transformation
// the next one dominates.
type FromSnapshot struct {
	Snapshot *history.Snapshot
}

func (FromScratch) isTransition()  {}
func (Rollup) isTransition()       {}
func (FromSnapshot) isTransition() {}

func (FromScratch) String() string { return "FromScratch" }
func (Rollup) String() string      { return "Rollup" }
func (t FromSnapshot) String() string {
	return fmt.Sprintf("FromSnapshot(%v)", t.Snapshot)
}

// transitionName returns the label of a transition in metrics.
func transitionName(t Transition) string {
	switch t.(type) {
	case FromScratch:
		return "from_scratch"
	case Rollup:
		return "rollup"
	case FromSnapshot:
		return "from_snapshot"
	}
	return "unknown"
}

// StateMachine classifies the transition from the last transformation to the
// next one.
//
// The first transformation, and every transformation that neither dominates
// the last one nor any stored snapshot, is grouped from scratch. A
// transformation that dominates the last one is rolled up, unless the best
// snapshot for it belongs to a transformation strictly between the two. A
// transformation that does not dominate the last one is restored from the best
// snapshot if there is one.
//
// Not thread-safe.
type StateMachine struct {
	history        *history.History
	last           []int
	lastTransition Transition
}

// NewStateMachine returns a state machine consulting h for snapshots.
func NewStateMachine(h *history.History) *StateMachine {
	return &StateMachine{history: h}
}

// Transition classifies the transition to gen and makes gen the last
// generalization.
func (m *StateMachine) Transition(gen []int) (Transition, error) {
	if m.last != nil && len(gen) != len(m.last) {
		return nil, fmt.Errorf("generalization %v has %d levels, want %d", gen, len(gen), len(m.last))
	}
	var t Transition
	switch {
	case m.last == nil:
		t = FromScratch{}
	case lattice.Dominates(gen, m.last):
		t = Rollup{}
		if s := m.history.Get(gen); s != nil && lattice.Dominates(s.Generalization(), m.last) && !equal(s.Generalization(), m.last) {
			t = FromSnapshot{Snapshot: s}
		}
	default:
		t = FromScratch{}
		if s := m.history.Get(gen); s != nil {
			t = FromSnapshot{Snapshot: s}
		}
	}
	m.last = append(m.last[:0], gen...)
	m.lastTransition = t
	return t, nil
}

func equal(a, b []int) bool {
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

// LastTransformation returns the last generalization, or nil. The slice must
// not be modified.
func (m *StateMachine) LastTransformation() []int {
	return m.last
}

// LastTransition returns the last transition, or nil.
func (m *StateMachine) LastTransition() Transition {
	return m.lastTransition
}

// Reset forgets the last transformation.
func (m *StateMachine) Reset() {
	m.last = nil
	m.lastTransition = nil
}
