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

// Package lattice provides the solution space of all generalization vectors
// of a dataset.
package lattice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iF2007/arx/checks"
)

// MaxSize is the largest number of transformations a SolutionSpace holds.
const MaxSize = 1 << 24

// Transformation is an immutable point of the lattice: one generalization
// level per quasi-identifier.
type Transformation struct {
	id             int64
	generalization []int
	level          int
}

// ID returns the dense index of the transformation within its solution space.
func (t *Transformation) ID() int64 {
	return t.id
}

// Generalization returns a copy of the generalization vector.
func (t *Transformation) Generalization() []int {
	return append([]int(nil), t.generalization...)
}

// At returns the generalization level of attribute i.
func (t *Transformation) At(i int) int {
	return t.generalization[i]
}

// Len returns the number of attributes.
func (t *Transformation) Len() int {
	return len(t.generalization)
}

// Level returns the sum of all generalization levels.
func (t *Transformation) Level() int {
	return t.level
}

// Dominates reports whether t is at least as general as o on every attribute.
func (t *Transformation) Dominates(o *Transformation) bool {
	return Dominates(t.generalization, o.generalization)
}

func (t *Transformation) String() string {
	parts := make([]string, len(t.generalization))
	for i, l := range t.generalization {
		parts[i] = strconv.Itoa(l)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dominates reports whether every level of a is greater than or equal to the
// corresponding level of b. Vectors of different length never dominate.
func Dominates(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] < b[i] {
			return false
		}
	}
	return true
}

// SolutionSpace is an index-addressed arena of all transformations spanned by
// the maximal generalization levels. It is read-only after construction and
// may be shared between goroutines.
type SolutionSpace struct {
	maxLevels []int
	radix     []int64
	nodes     []Transformation
	levels    [][]*Transformation
}

// NewSolutionSpace materializes every transformation between the all-zero
// vector and maxLevels.
func NewSolutionSpace(maxLevels []int) (*SolutionSpace, error) {
	if len(maxLevels) == 0 {
		return nil, fmt.Errorf("solution space needs at least one attribute")
	}
	radix := make([]int64, len(maxLevels))
	size := int64(1)
	top := 0
	for i, m := range maxLevels {
		if m < 0 {
			return nil, fmt.Errorf("maximal level of attribute %d is %d, cannot be negative", i, m)
		}
		radix[i] = size
		size *= int64(m + 1)
		if size > MaxSize {
			return nil, fmt.Errorf("solution space holds more than %d transformations", MaxSize)
		}
		top += m
	}

	s := &SolutionSpace{
		maxLevels: append([]int(nil), maxLevels...),
		radix:     radix,
		nodes:     make([]Transformation, size),
		levels:    make([][]*Transformation, top+1),
	}
	for id := int64(0); id < size; id++ {
		gen := make([]int, len(maxLevels))
		rest, level := id, 0
		for i := len(maxLevels) - 1; i >= 0; i-- {
			gen[i] = int(rest / radix[i])
			rest %= radix[i]
			level += gen[i]
		}
		s.nodes[id] = Transformation{id: id, generalization: gen, level: level}
		s.levels[level] = append(s.levels[level], &s.nodes[id])
	}
	return s, nil
}

// MaxLevels returns a copy of the maximal generalization levels.
func (s *SolutionSpace) MaxLevels() []int {
	return append([]int(nil), s.maxLevels...)
}

// Size returns the number of transformations.
func (s *SolutionSpace) Size() int64 {
	return int64(len(s.nodes))
}

// Contains reports whether generalization is a point of the space.
func (s *SolutionSpace) Contains(generalization []int) bool {
	return checks.CheckGeneralization(generalization, s.maxLevels) == nil
}

// Owns reports whether t is a transformation of this space.
func (s *SolutionSpace) Owns(t *Transformation) bool {
	return t != nil && t.id >= 0 && t.id < int64(len(s.nodes)) && &s.nodes[t.id] == t
}

// Transformation returns the transformation with the given generalization vector.
func (s *SolutionSpace) Transformation(generalization []int) (*Transformation, error) {
	if err := checks.CheckGeneralization(generalization, s.maxLevels); err != nil {
		return nil, err
	}
	id := int64(0)
	for i, l := range generalization {
		id += int64(l) * s.radix[i]
	}
	return &s.nodes[id], nil
}

// ByID returns the transformation with the given index, or nil.
func (s *SolutionSpace) ByID(id int64) *Transformation {
	if id < 0 || id >= int64(len(s.nodes)) {
		return nil
	}
	return &s.nodes[id]
}

// Bottom returns the least general transformation.
func (s *SolutionSpace) Bottom() *Transformation {
	return &s.nodes[0]
}

// Top returns the most general transformation.
func (s *SolutionSpace) Top() *Transformation {
	return &s.nodes[len(s.nodes)-1]
}

// Successors returns the transformations that generalize exactly one
// attribute of t by one more level.
func (s *SolutionSpace) Successors(t *Transformation) []*Transformation {
	var result []*Transformation
	for i, l := range t.generalization {
		if l < s.maxLevels[i] {
			result = append(result, &s.nodes[t.id+s.radix[i]])
		}
	}
	return result
}

// Predecessors returns the transformations that generalize exactly one
// attribute of t by one level less.
func (s *SolutionSpace) Predecessors(t *Transformation) []*Transformation {
	var result []*Transformation
	for i, l := range t.generalization {
		if l > 0 {
			result = append(result, &s.nodes[t.id-s.radix[i]])
		}
	}
	return result
}

// Levels returns the transformations grouped by Level, in increasing order.
func (s *SolutionSpace) Levels() [][]*Transformation {
	return s.levels
}
