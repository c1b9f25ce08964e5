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

// Data wraps an encoded matrix with the metadata needed to decode it.
type Data struct {
	matrix     *Matrix
	header     []string
	columns    []int
	dictionary *Dictionary
}

// NewData wraps matrix. columns holds, for every column of the matrix, the
// index of the attribute in the header of the input dataset.
func NewData(matrix *Matrix, header []string, columns []int, dictionary *Dictionary) *Data {
	return &Data{
		matrix:     matrix,
		header:     header,
		columns:    columns,
		dictionary: dictionary,
	}
}

// Matrix returns the encoded values.
func (d *Data) Matrix() *Matrix {
	return d.matrix
}

// Header returns the attribute names of the columns.
func (d *Data) Header() []string {
	return d.header
}

// Columns returns the input positions of the columns.
func (d *Data) Columns() []int {
	return d.columns
}

// Dictionary returns the dictionary the matrix is encoded with.
func (d *Data) Dictionary() *Dictionary {
	return d.dictionary
}

// Rows returns the number of rows.
func (d *Data) Rows() int {
	return d.matrix.Rows()
}

// Value returns the decoded cell at (row, col).
func (d *Data) Value(row, col int) string {
	return d.dictionary.Value(col, d.matrix.Get(row, col))
}

// Records returns all rows decoded.
func (d *Data) Records() [][]string {
	records := make([][]string, d.matrix.Rows())
	for row := range records {
		records[row] = make([]string, d.matrix.Columns())
		for col := range records[row] {
			records[row][col] = d.Value(row, col)
		}
	}
	return records
}
