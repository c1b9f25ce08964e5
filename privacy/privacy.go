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

// Package privacy contains the privacy models an equivalence class can be
// checked against.
package privacy

import (
	"fmt"
	"math"

	"github.com/iF2007/arx/checks"
	"gonum.org/v1/gonum/stat"
)

// Requirement describes which statistics of an equivalence class a model reads.
type Requirement int

const (
	// RequirementCounter models only read the size of a class.
	RequirementCounter Requirement = 1 << iota
	// RequirementDistribution models read the frequencies of sensitive values.
	RequirementDistribution
)

// Has reports whether r includes o.
func (r Requirement) Has(o Requirement) bool {
	return r&o != 0
}

// EquivalenceClass is the view of a class a model is evaluated on.
type EquivalenceClass interface {
	// Count returns the number of rows in the class.
	Count() int
	// Distribution returns the frequencies of the codes of a sensitive
	// attribute within the class.
	Distribution(attribute string) map[int32]int
}

// Model decides whether a single equivalence class is anonymous.
type Model interface {
	Requirements() Requirement
	// MinimalClassSize returns the smallest class size the model accepts, or 0
	// if it does not imply one.
	MinimalClassSize() int
	IsAnonymous(c EquivalenceClass) bool
	String() string
}

// AttributeModel is a model over the distribution of one sensitive attribute.
type AttributeModel interface {
	Model
	Attribute() string
}

// KAnonymity requires every class to contain at least K rows.
type KAnonymity struct {
	k int
}

// NewKAnonymity returns a k-anonymity model.
func NewKAnonymity(k int) (*KAnonymity, error) {
	if err := checks.CheckMinimalClassSize(k); err != nil {
		return nil, err
	}
	return &KAnonymity{k: k}, nil
}

func (m *KAnonymity) Requirements() Requirement { return RequirementCounter }

func (m *KAnonymity) MinimalClassSize() int { return m.k }

func (m *KAnonymity) IsAnonymous(c EquivalenceClass) bool {
	return c.Count() >= m.k
}

func (m *KAnonymity) String() string {
	return fmt.Sprintf("%d-anonymity", m.k)
}

// DistinctLDiversity requires every class to contain at least L distinct
// values of a sensitive attribute.
type DistinctLDiversity struct {
	attribute string
	l         int
}

// NewDistinctLDiversity returns a distinct-l-diversity model for attribute.
func NewDistinctLDiversity(attribute string, l int) (*DistinctLDiversity, error) {
	if err := checks.CheckL(l); err != nil {
		return nil, err
	}
	return &DistinctLDiversity{attribute: attribute, l: l}, nil
}

func (m *DistinctLDiversity) Requirements() Requirement {
	return RequirementCounter | RequirementDistribution
}

// MinimalClassSize is l, since fewer rows cannot hold l distinct values.
func (m *DistinctLDiversity) MinimalClassSize() int { return m.l }

func (m *DistinctLDiversity) Attribute() string { return m.attribute }

func (m *DistinctLDiversity) IsAnonymous(c EquivalenceClass) bool {
	return len(c.Distribution(m.attribute)) >= m.l
}

func (m *DistinctLDiversity) String() string {
	return fmt.Sprintf("distinct-%d-diversity for attribute %q", m.l, m.attribute)
}

// EntropyLDiversity requires the entropy of the sensitive values of every
// class to be at least log(L).
type EntropyLDiversity struct {
	attribute string
	l         float64
}

// NewEntropyLDiversity returns an entropy-l-diversity model for attribute.
func NewEntropyLDiversity(attribute string, l float64) (*EntropyLDiversity, error) {
	if err := checks.CheckEntropyL(l); err != nil {
		return nil, err
	}
	return &EntropyLDiversity{attribute: attribute, l: l}, nil
}

func (m *EntropyLDiversity) Requirements() Requirement {
	return RequirementCounter | RequirementDistribution
}

func (m *EntropyLDiversity) MinimalClassSize() int { return int(math.Ceil(m.l)) }

func (m *EntropyLDiversity) Attribute() string { return m.attribute }

func (m *EntropyLDiversity) IsAnonymous(c EquivalenceClass) bool {
	distribution := c.Distribution(m.attribute)
	total := 0
	for _, n := range distribution {
		total += n
	}
	if total == 0 {
		return false
	}
	p := make([]float64, 0, len(distribution))
	for _, n := range distribution {
		p = append(p, float64(n)/float64(total))
	}
	// Tolerate rounding for uniform distributions over exactly l values.
	return stat.Entropy(p) >= math.Log(m.l)-1e-9
}

func (m *EntropyLDiversity) String() string {
	return fmt.Sprintf("entropy-%g-diversity for attribute %q", m.l, m.attribute)
}
