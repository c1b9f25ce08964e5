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

// AttributeType describes how an attribute takes part in anonymization.
type AttributeType int

const (
	// Insensitive attributes are released unchanged.
	Insensitive AttributeType = iota
	// QuasiIdentifying attributes are generalized along a hierarchy.
	QuasiIdentifying
	// Sensitive attributes are released unchanged but their distribution
	// within equivalence classes is protected by privacy models.
	Sensitive
	// Microaggregated attributes are replaced by an aggregate of their
	// equivalence class.
	Microaggregated
)

var attributeTypeName = map[AttributeType]string{
	Insensitive:      "Insensitive",
	QuasiIdentifying: "QuasiIdentifying",
	Sensitive:        "Sensitive",
	Microaggregated:  "Microaggregated",
}

func (t AttributeType) String() string {
	return attributeTypeName[t]
}

// Definition assigns types, hierarchies and aggregation functions to
// attributes. Attributes without a definition are insensitive.
type Definition struct {
	types       map[string]AttributeType
	hierarchies map[string][][]string
	functions   map[string]AggregationFunction
}

// NewDefinition returns an empty definition.
func NewDefinition() *Definition {
	return &Definition{
		types:       make(map[string]AttributeType),
		hierarchies: make(map[string][][]string),
		functions:   make(map[string]AggregationFunction),
	}
}

// SetQuasiIdentifying declares a quasi-identifier generalized along hierarchy.
func (d *Definition) SetQuasiIdentifying(name string, hierarchy [][]string) *Definition {
	d.types[name] = QuasiIdentifying
	d.hierarchies[name] = hierarchy
	return d
}

// SetSensitive declares a sensitive attribute.
func (d *Definition) SetSensitive(name string) *Definition {
	d.types[name] = Sensitive
	return d
}

// SetMicroaggregated declares an attribute aggregated with f.
func (d *Definition) SetMicroaggregated(name string, f AggregationFunction) *Definition {
	d.types[name] = Microaggregated
	d.functions[name] = f
	return d
}

// SetInsensitive declares an insensitive attribute.
func (d *Definition) SetInsensitive(name string) *Definition {
	d.types[name] = Insensitive
	return d
}

// Type returns the type of an attribute.
func (d *Definition) Type(name string) AttributeType {
	return d.types[name]
}

// Hierarchy returns the hierarchy of a quasi-identifier.
func (d *Definition) Hierarchy(name string) [][]string {
	return d.hierarchies[name]
}

// Function returns the aggregation function of a microaggregated attribute.
func (d *Definition) Function(name string) AggregationFunction {
	return d.functions[name]
}
