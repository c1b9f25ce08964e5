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

package data

import (
	"errors"
	"fmt"
)

// ErrHierarchyInconsistent is returned for generalization hierarchies that
// cannot be encoded.
var ErrHierarchyInconsistent = errors.New("inconsistent generalization hierarchy")

// HierarchyDictionary is a bidirectional mapping between the labels of a
// generalization hierarchy and integer ids.
//
// Ids are assigned breadth first, so labels on lower generalization levels get
// smaller ids than labels on higher levels.
type HierarchyDictionary struct {
	codes  map[string]int32
	values []string
	levels []int
}

// EncodeHierarchy builds the dictionary of a hierarchy given as one row per
// original value, each row listing that value from level 0 upwards.
//
// A label that occurs on two different levels cannot be encoded.
func EncodeHierarchy(hierarchy [][]string) (*HierarchyDictionary, error) {
	d := &HierarchyDictionary{codes: make(map[string]int32)}
	if len(hierarchy) == 0 {
		return d, nil
	}
	height := len(hierarchy[0])
	if height == 0 {
		return nil, fmt.Errorf("%w: hierarchy has no levels", ErrHierarchyInconsistent)
	}
	for i, row := range hierarchy {
		if len(row) != height {
			return nil, fmt.Errorf("%w: row %d has %d levels, want %d", ErrHierarchyInconsistent, i, len(row), height)
		}
	}
	levelOf := make(map[string]int, len(hierarchy)*height)
	for level := 0; level < height; level++ {
		for _, row := range hierarchy {
			label := row[level]
			if l, ok := levelOf[label]; ok && l != level {
				return nil, fmt.Errorf("%w: item %q already contained at level %d, found again at level %d; replace item with a distinct value",
					ErrHierarchyInconsistent, label, l, level)
			}
			levelOf[label] = level
			if _, ok := d.codes[label]; !ok {
				d.codes[label] = int32(len(d.values))
				d.values = append(d.values, label)
				d.levels = append(d.levels, level)
			}
		}
	}
	return d, nil
}

// Code returns the id of a label.
func (d *HierarchyDictionary) Code(label string) (int32, bool) {
	code, ok := d.codes[label]
	return code, ok
}

// Value returns the label of an id.
func (d *HierarchyDictionary) Value(code int32) string {
	return d.values[code]
}

// Level returns the generalization level the label with the given id belongs to.
func (d *HierarchyDictionary) Level(code int32) int {
	return d.levels[code]
}

// Len returns the number of distinct labels.
func (d *HierarchyDictionary) Len() int {
	return len(d.values)
}

// EncodeRows converts rows of labels into rows of ids.
func (d *HierarchyDictionary) EncodeRows(rows [][]string) ([][]int32, error) {
	encoded := make([][]int32, len(rows))
	for i, row := range rows {
		encoded[i] = make([]int32, len(row))
		for j, label := range row {
			code, ok := d.codes[label]
			if !ok {
				return nil, fmt.Errorf("label %q in row %d is not contained in the hierarchy", label, i)
			}
			encoded[i][j] = code
		}
	}
	return encoded, nil
}

// DecodeRows converts rows of ids back into rows of labels.
func (d *HierarchyDictionary) DecodeRows(rows [][]int32) [][]string {
	decoded := make([][]string, len(rows))
	for i, row := range rows {
		decoded[i] = make([]string, len(row))
		for j, code := range row {
			decoded[i][j] = d.values[code]
		}
	}
	return decoded
}

// Hierarchy generalizes the encoded values of one quasi-identifier.
// Map[code][level] is the code of the generalization of the level 0 value
// code on the given level.
type Hierarchy struct {
	Name     string
	Map      [][]int32
	distinct []int
}

// NewHierarchy encodes hierarchy for the attribute name and registers all of
// its labels in column col of dict, so that codes of the dictionary and the
// hierarchy coincide.
func NewHierarchy(name string, hierarchy [][]string, dict *Dictionary, col int) (*Hierarchy, error) {
	hd, err := EncodeHierarchy(hierarchy)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	if dict.Len(col) != 0 {
		return nil, fmt.Errorf("attribute %q: dictionary column %d is not empty", name, col)
	}
	for i := 0; i < hd.Len(); i++ {
		dict.Register(col, hd.Value(int32(i)))
	}
	encoded, err := hd.EncodeRows(hierarchy)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	h := &Hierarchy{Name: name}
	if len(encoded) == 0 {
		return h, nil
	}
	height := len(encoded[0])
	// Level 0 labels own the smallest ids.
	leaves := 0
	for _, row := range encoded {
		if int(row[0])+1 > leaves {
			leaves = int(row[0]) + 1
		}
	}
	h.Map = make([][]int32, leaves)
	for _, row := range encoded {
		if prev := h.Map[row[0]]; prev != nil {
			for level := range row {
				if prev[level] != row[level] {
					return nil, fmt.Errorf("%w: attribute %q: value %q is generalized inconsistently on level %d",
						ErrHierarchyInconsistent, name, hd.Value(row[0]), level)
				}
			}
			continue
		}
		h.Map[row[0]] = row
	}
	h.distinct = make([]int, height)
	for level := 0; level < height; level++ {
		seen := make(map[int32]bool)
		for _, row := range h.Map {
			seen[row[level]] = true
		}
		h.distinct[level] = len(seen)
	}
	return h, nil
}

// Height returns the number of generalization levels, including level 0.
func (h *Hierarchy) Height() int {
	return len(h.distinct)
}

// Generalize returns the code of the generalization of the level 0 value code
// on the given level.
func (h *Hierarchy) Generalize(code int32, level int) int32 {
	return h.Map[code][level]
}

// DistinctValues returns the number of distinct labels on a level.
func (h *Hierarchy) DistinctValues(level int) int {
	return h.distinct[level]
}
