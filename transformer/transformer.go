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


// Package transformer generalizes the input and groups it into equivalence
// classes.
package transformer

import (
	"fmt"

	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/groupify"
	"github.com/iF2007/arx/lattice"
)

// Transformer applies generalization vectors to the encoded quasi-identifiers
// of the input. Tables built from the input share one output buffer, which
// holds the generalized rows of the last ApplyFromScratch.
//
// Not thread-safe.
type Transformer struct {
	input       *data.Matrix
	hierarchies []*data.Hierarchy
	buffer      *data.Matrix
	key         []int32
}

// New returns a transformer for input, whose columns are generalized by the
// hierarchies of the same index.
func New(input *data.Matrix, hierarchies []*data.Hierarchy) (*Transformer, error) {
	if input.Columns() != len(hierarchies) {
		return nil, fmt.Errorf("input has %d columns but %d hierarchies are given", input.Columns(), len(hierarchies))
	}
	return &Transformer{
		input:       input,
		hierarchies: hierarchies,
		buffer:      data.NewMatrix(input.Rows(), input.Columns()),
		key:         make([]int32, input.Columns()),
	}, nil
}

// Buffer returns the output buffer.
func (t *Transformer) Buffer() *data.Matrix {
	return t.buffer
}

// Input returns the input buffer.
func (t *Transformer) Input() *data.Matrix {
	return t.input
}

func (t *Transformer) checkGeneralization(gen []int) error {
	if len(gen) != len(t.hierarchies) {
		return fmt.Errorf("generalization %v has %d levels, want %d", gen, len(gen), len(t.hierarchies))
	}
	for i, level := range gen {
		if level < 0 || level >= t.hierarchies[i].Height() {
			return fmt.Errorf("generalization %v: level %d of attribute %q is out of range [0, %d]",
				gen, level, t.hierarchies[i].Name, t.hierarchies[i].Height()-1)
		}
	}
	return nil
}

// generalize returns the key of input row row under gen. The slice is reused.
func (t *Transformer) generalize(gen []int, row int) []int32 {
	for col, h := range t.hierarchies {
		t.key[col] = h.Map[t.input.Get(row, col)][gen[col]]
	}
	return t.key
}

// ApplyFromScratch clears target, generalizes every input row into the output
// buffer and groups the buffer into target.
func (t *Transformer) ApplyFromScratch(gen []int, target *groupify.Groupify) (*groupify.Groupify, error) {
	if err := t.checkGeneralization(gen); err != nil {
		return nil, err
	}
	target.Clear()
	target.SetGeneralization(gen)
	for row := 0; row < t.input.Rows(); row++ {
		copy(t.buffer.Row(row), t.generalize(gen, row))
		target.Add(t.buffer, row)
	}
	return target, nil
}

// ApplyRollup clears target and merges the classes of source into it. gen must
// dominate the generalization of source, so that classes only merge.
func (t *Transformer) ApplyRollup(gen []int, source, target *groupify.Groupify) (*groupify.Groupify, error) {
	if err := t.checkGeneralization(gen); err != nil {
		return nil, err
	}
	if source == target {
		return nil, fmt.Errorf("rollup source and target must differ")
	}
	if base := source.Generalization(); base == nil || !lattice.Dominates(gen, base) {
		return nil, fmt.Errorf("cannot roll up classes of %v into %v", base, gen)
	}
	target.Clear()
	target.SetGeneralization(gen)
	for _, e := range source.Classes() {
		target.AddClass(t.generalize(gen, e.Representative()), e.Representative(), e.Count(), e.Distributions())
	}
	return target, nil
}

// ApplyFromSnapshot clears target and merges the classes of a snapshot of base
// into it. gen must dominate base.
func (t *Transformer) ApplyFromSnapshot(gen, base []int, classes []groupify.SnapshotClass, target *groupify.Groupify) (*groupify.Groupify, error) {
	if err := t.checkGeneralization(gen); err != nil {
		return nil, err
	}
	if !lattice.Dominates(gen, base) {
		return nil, fmt.Errorf("cannot restore a snapshot of %v into %v", base, gen)
	}
	target.Clear()
	target.SetGeneralization(gen)
	for _, c := range classes {
		if c.Representative < 0 || c.Representative >= t.input.Rows() {
			return nil, fmt.Errorf("snapshot class represented by row %d is out of range", c.Representative)
		}
		target.AddClass(t.generalize(gen, c.Representative), c.Representative, c.Count, c.Distributions)
	}
	return target, nil
}
