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
	"fmt"
)

// Manager holds the encoded buffers of one dataset. It is immutable once
// built and may be shared between goroutines.
type Manager struct {
	header        []string
	generalized   *Data
	analyzed      *Data
	hierarchies   []*Hierarchy
	aggregation   *AggregationInformation
	analyzedIndex map[string]int
}

// NewManager encodes rows according to def.
//
// Quasi-identifiers form the generalized buffer, in header order. Sensitive
// attributes followed by microaggregated attributes form the analyzed buffer.
func NewManager(header []string, rows [][]string, def *Definition) (*Manager, error) {
	position := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := position[name]; ok {
			return nil, fmt.Errorf("attribute %q occurs more than once in the header", name)
		}
		position[name] = i
	}
	for name := range def.types {
		if _, ok := position[name]; !ok {
			return nil, fmt.Errorf("attribute %q is defined but not contained in the header", name)
		}
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(header))
		}
	}

	var qis, sensitive, aggregated []int
	for i, name := range header {
		switch def.Type(name) {
		case QuasiIdentifying:
			qis = append(qis, i)
		case Sensitive:
			sensitive = append(sensitive, i)
		case Microaggregated:
			aggregated = append(aggregated, i)
		}
	}
	if len(qis) == 0 {
		return nil, fmt.Errorf("at least one quasi-identifying attribute is required")
	}

	m := &Manager{header: header, analyzedIndex: make(map[string]int)}
	if err := m.encodeGeneralized(header, rows, def, qis); err != nil {
		return nil, err
	}
	if err := m.encodeAnalyzed(header, rows, def, sensitive, aggregated); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) encodeGeneralized(header []string, rows [][]string, def *Definition, qis []int) error {
	dict := NewDictionary(len(qis))
	names := make([]string, len(qis))
	m.hierarchies = make([]*Hierarchy, len(qis))
	for j, col := range qis {
		names[j] = header[col]
		h, err := NewHierarchy(header[col], def.Hierarchy(header[col]), dict, j)
		if err != nil {
			return err
		}
		if h.Height() == 0 {
			return fmt.Errorf("attribute %q: hierarchy is empty", header[col])
		}
		m.hierarchies[j] = h
	}
	matrix := NewMatrix(len(rows), len(qis))
	for i, row := range rows {
		for j, col := range qis {
			code, ok := dict.Code(j, row[col])
			if !ok || int(code) >= len(m.hierarchies[j].Map) {
				return fmt.Errorf("value %q of attribute %q in row %d is not a level 0 value of its hierarchy", row[col], header[col], i)
			}
			matrix.Set(i, j, code)
		}
	}
	m.generalized = NewData(matrix, names, qis, dict)
	return nil
}

func (m *Manager) encodeAnalyzed(header []string, rows [][]string, def *Definition, sensitive, aggregated []int) error {
	columns := append(append([]int{}, sensitive...), aggregated...)
	names := make([]string, len(columns))
	dict := NewDictionary(len(columns))
	matrix := NewMatrix(len(rows), len(columns))
	for j, col := range columns {
		names[j] = header[col]
		m.analyzedIndex[header[col]] = j
		for i, row := range rows {
			matrix.Set(i, j, dict.Register(j, row[col]))
		}
	}
	m.analyzed = NewData(matrix, names, columns, dict)

	info := &AggregationInformation{dictionary: dict}
	for k, col := range aggregated {
		j := len(sensitive) + k
		f := def.Function(header[col])
		values, err := parseAggregatedValues(header[col], f, dict, j)
		if err != nil {
			return err
		}
		info.Header = append(info.Header, header[col])
		info.Columns = append(info.Columns, col)
		info.Analyzed = append(info.Analyzed, j)
		info.Functions = append(info.Functions, f)
		info.values = append(info.values, values)
	}
	m.aggregation = info
	return nil
}

// Header returns the header of the input dataset.
func (m *Manager) Header() []string {
	return m.header
}

// Generalized returns the quasi-identifiers encoded on level 0.
func (m *Manager) Generalized() *Data {
	return m.generalized
}

// Analyzed returns the sensitive and microaggregated attributes.
func (m *Manager) Analyzed() *Data {
	return m.analyzed
}

// Hierarchies returns one hierarchy per quasi-identifier.
func (m *Manager) Hierarchies() []*Hierarchy {
	return m.hierarchies
}

// Aggregation describes the microaggregated attributes.
func (m *Manager) Aggregation() *AggregationInformation {
	return m.aggregation
}

// AnalyzedIndex returns the column of an attribute in the analyzed buffer.
func (m *Manager) AnalyzedIndex(name string) (int, bool) {
	i, ok := m.analyzedIndex[name]
	return i, ok
}

// MaxLevels returns the highest generalization level of every quasi-identifier.
func (m *Manager) MaxLevels() []int {
	levels := make([]int, len(m.hierarchies))
	for i, h := range m.hierarchies {
		levels[i] = h.Height() - 1
	}
	return levels
}
