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

// Package data encodes datasets and generalization hierarchies into dense
// integer buffers.
package data

const (
	// SuppressedCode marks a suppressed cell of an encoded buffer.
	SuppressedCode int32 = -1
	// SuppressedValue is how a suppressed cell is rendered.
	SuppressedValue = "*"
)

// Dictionary maps the values of each column to dense int32 codes and back.
// Codes are assigned in order of first registration, starting at 0.
//
// Not thread-safe.
type Dictionary struct {
	codes  []map[string]int32
	values [][]string
}

// NewDictionary returns an empty dictionary for the given number of columns.
func NewDictionary(columns int) *Dictionary {
	d := &Dictionary{
		codes:  make([]map[string]int32, columns),
		values: make([][]string, columns),
	}
	for i := range d.codes {
		d.codes[i] = make(map[string]int32)
	}
	return d
}

// Register returns the code of value in column col, assigning the next free
// code if the value has not been seen before.
func (d *Dictionary) Register(col int, value string) int32 {
	if code, ok := d.codes[col][value]; ok {
		return code
	}
	code := int32(len(d.values[col]))
	d.codes[col][value] = code
	d.values[col] = append(d.values[col], value)
	return code
}

// Code returns the code of value in column col.
func (d *Dictionary) Code(col int, value string) (int32, bool) {
	code, ok := d.codes[col][value]
	return code, ok
}

// Value returns the value encoded by code in column col. SuppressedCode is
// rendered as SuppressedValue.
func (d *Dictionary) Value(col int, code int32) string {
	if code == SuppressedCode {
		return SuppressedValue
	}
	return d.values[col][code]
}

// Columns returns the number of columns.
func (d *Dictionary) Columns() int {
	return len(d.values)
}

// Len returns the number of distinct values registered for column col.
func (d *Dictionary) Len(col int) int {
	return len(d.values[col])
}

// Reset removes all registered values while keeping the number of columns.
func (d *Dictionary) Reset() {
	for i := range d.codes {
		clear(d.codes[i])
		d.values[i] = d.values[i][:0]
	}
}
