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

// Matrix is a dense row-major matrix of encoded values.
type Matrix struct {
	rows    int
	columns int
	cells   []int32
}

// NewMatrix returns a zeroed matrix.
func NewMatrix(rows, columns int) *Matrix {
	return &Matrix{
		rows:    rows,
		columns: columns,
		cells:   make([]int32, rows*columns),
	}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.rows
}

// Columns returns the number of columns.
func (m *Matrix) Columns() int {
	return m.columns
}

// Get returns the cell at (row, col).
func (m *Matrix) Get(row, col int) int32 {
	return m.cells[row*m.columns+col]
}

// Set sets the cell at (row, col).
func (m *Matrix) Set(row, col int, value int32) {
	m.cells[row*m.columns+col] = value
}

// Row returns a view of a row. Writes to the view modify the matrix.
func (m *Matrix) Row(row int) []int32 {
	offset := row * m.columns
	return m.cells[offset : offset+m.columns : offset+m.columns]
}

// FillRow sets every cell of a row to value.
func (m *Matrix) FillRow(row int, value int32) {
	r := m.Row(row)
	for i := range r {
		r[i] = value
	}
}

// Copy returns a deep copy.
func (m *Matrix) Copy() *Matrix {
	c := &Matrix{rows: m.rows, columns: m.columns, cells: make([]int32, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// Equal reports whether both matrices have the same shape and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.columns != o.columns {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
