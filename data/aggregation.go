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
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// AggregationFunction summarizes the values of a microaggregated attribute
// within an equivalence class.
type AggregationFunction int

const (
	ArithmeticMean AggregationFunction = iota
	GeometricMean
	Median
	Mode
)

var aggregationFunctionName = map[AggregationFunction]string{
	ArithmeticMean: "ArithmeticMean",
	GeometricMean:  "GeometricMean",
	Median:         "Median",
	Mode:           "Mode",
}

func (f AggregationFunction) String() string {
	return aggregationFunctionName[f]
}

// Numeric reports whether the function needs numeric values.
func (f AggregationFunction) Numeric() bool {
	return f != Mode
}

// ParseAggregationFunction parses the name of an aggregation function,
// ignoring case.
func ParseAggregationFunction(name string) (AggregationFunction, error) {
	for f, n := range aggregationFunctionName {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown aggregation function %q", name)
}

// AggregationInformation describes the microaggregated attributes of a dataset.
type AggregationInformation struct {
	// Header holds the names of the microaggregated attributes.
	Header []string
	// Columns holds their positions in the input header.
	Columns []int
	// Analyzed holds their columns in the analyzed buffer.
	Analyzed []int
	// Functions holds the aggregation function of every attribute.
	Functions []AggregationFunction

	dictionary *Dictionary
	values     [][]float64
}

// Len returns the number of microaggregated attributes.
func (a *AggregationInformation) Len() int {
	return len(a.Header)
}

// Aggregate summarizes the distribution of codes of the i-th microaggregated
// attribute within one equivalence class.
func (a *AggregationInformation) Aggregate(i int, distribution map[int32]int) string {
	codes := make([]int32, 0, len(distribution))
	for code := range distribution {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(x, y int) bool { return codes[x] < codes[y] })
	if len(codes) == 0 {
		return SuppressedValue
	}

	f := a.Functions[i]
	if f == Mode {
		best := codes[0]
		for _, code := range codes[1:] {
			if distribution[code] > distribution[best] {
				best = code
			}
		}
		return a.dictionary.Value(a.Analyzed[i], best)
	}

	x := make([]float64, len(codes))
	w := make([]float64, len(codes))
	for j, code := range codes {
		x[j] = a.values[i][code]
		w[j] = float64(distribution[code])
	}
	var v float64
	switch f {
	case ArithmeticMean:
		v = stat.Mean(x, w)
	case GeometricMean:
		v = stat.GeometricMean(x, w)
	case Median:
		stat.SortWeighted(x, w)
		v = stat.Quantile(0.5, stat.Empirical, x, w)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseAggregatedValues(name string, f AggregationFunction, dict *Dictionary, col int) ([]float64, error) {
	values := make([]float64, dict.Len(col))
	for code := range values {
		if !f.Numeric() {
			values[code] = math.NaN()
			continue
		}
		raw := dict.Value(col, int32(code))
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %v requires numeric values, got %q", name, f, raw)
		}
		if f == GeometricMean && v <= 0 {
			return nil, fmt.Errorf("attribute %q: %v requires positive values, got %q", name, f, raw)
		}
		values[code] = v
	}
	return values, nil
}
