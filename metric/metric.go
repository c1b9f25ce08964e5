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


// Package metric measures the information loss of transformations.
package metric

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/groupify"
	"github.com/iF2007/arx/lattice"
	"gonum.org/v1/gonum/stat"
)

// InformationLoss is an immutable loss value. Lower is better.
type InformationLoss struct {
	value float64
}

// NewInformationLoss returns a loss of value v.
func NewInformationLoss(v float64) *InformationLoss {
	return &InformationLoss{value: v}
}

// Value returns the loss as a float.
func (l *InformationLoss) Value() float64 {
	return l.value
}

// Compare returns -1, 0 or 1 if l is lower than, equal to or higher than o.
func (l *InformationLoss) Compare(o *InformationLoss) int {
	switch {
	case l.value < o.value:
		return -1
	case l.value > o.value:
		return 1
	}
	return 0
}

func (l *InformationLoss) String() string {
	if l == nil {
		return "n/a"
	}
	return strconv.FormatFloat(l.value, 'g', 6, 64)
}

// LossWithBound is the loss of a transformation together with a lower bound
// on the loss of every transformation that dominates it.
type LossWithBound struct {
	Loss       *InformationLoss
	LowerBound *InformationLoss
}

// Metric measures the loss of the classes of a transformation. Implementations
// are stateless and may be shared between goroutines.
type Metric interface {
	Name() string
	// InformationLoss returns the loss of t, whose classes are in g, and its
	// lower bound. Outlier classes are counted as suppressed.
	InformationLoss(t *lattice.Transformation, g *groupify.Groupify) LossWithBound
	// LowerBound returns the lower bound of t only.
	LowerBound(t *lattice.Transformation, g *groupify.Groupify) *InformationLoss
}

// New returns the metric of the given name: discernibility, aecs or
// precision. Precision needs the hierarchies of the quasi-identifiers.
func New(name string, hierarchies []*data.Hierarchy) (Metric, error) {
	switch strings.ToLower(name) {
	case "discernibility":
		return Discernibility{}, nil
	case "aecs":
		return AECS{}, nil
	case "precision":
		return NewPrecision(hierarchies)
	}
	return nil, fmt.Errorf("unknown metric %q", name)
}

// Discernibility charges every row with the size of its class. Suppressed rows
// are charged with the size of the dataset.
type Discernibility struct{}

func (Discernibility) Name() string { return "Discernibility" }

func (m Discernibility) InformationLoss(t *lattice.Transformation, g *groupify.Groupify) LossWithBound {
	var loss, suppressed float64
	for _, e := range g.Classes() {
		c := float64(e.Count())
		if e.IsOutlier() {
			suppressed += c
			continue
		}
		loss += c * c
	}
	loss += float64(g.Rows()) * suppressed
	return LossWithBound{Loss: NewInformationLoss(loss), LowerBound: m.LowerBound(t, g)}
}

func (Discernibility) LowerBound(_ *lattice.Transformation, g *groupify.Groupify) *InformationLoss {
	var bound float64
	for _, e := range g.Classes() {
		c := float64(e.Count())
		bound += c * c
	}
	return NewInformationLoss(bound)
}

// AECS is the average equivalence class size. Suppressed rows form one class.
type AECS struct{}

func (AECS) Name() string { return "AECS" }

func (m AECS) InformationLoss(t *lattice.Transformation, g *groupify.Groupify) LossWithBound {
	classes, suppressed := 0, false
	for _, e := range g.Classes() {
		if e.IsOutlier() {
			suppressed = true
			continue
		}
		classes++
	}
	if suppressed {
		classes++
	}
	return LossWithBound{Loss: NewInformationLoss(averageSize(g.Rows(), classes)), LowerBound: m.LowerBound(t, g)}
}

func (AECS) LowerBound(_ *lattice.Transformation, g *groupify.Groupify) *InformationLoss {
	return NewInformationLoss(averageSize(g.Rows(), g.NumClasses()))
}

func averageSize(rows, classes int) float64 {
	if classes == 0 {
		return 0
	}
	return float64(rows) / float64(classes)
}

// Precision is the mean generalization height of all cells, relative to the
// height of their hierarchy. Suppressed cells count as fully generalized.
type Precision struct {
	maxLevels []float64
}

// NewPrecision returns the precision metric for the given hierarchies.
func NewPrecision(hierarchies []*data.Hierarchy) (*Precision, error) {
	if len(hierarchies) == 0 {
		return nil, fmt.Errorf("precision requires at least one hierarchy")
	}
	p := &Precision{maxLevels: make([]float64, len(hierarchies))}
	for i, h := range hierarchies {
		p.maxLevels[i] = float64(h.Height() - 1)
	}
	return p, nil
}

func (*Precision) Name() string { return "Precision" }

// generalization returns the precision of every attribute of unsuppressed
// rows.
func (p *Precision) generalization(t *lattice.Transformation) []float64 {
	ps := make([]float64, len(p.maxLevels))
	for i, m := range p.maxLevels {
		if m > 0 {
			ps[i] = float64(t.At(i)) / m
		}
	}
	return ps
}

func (p *Precision) InformationLoss(t *lattice.Transformation, g *groupify.Groupify) LossWithBound {
	bound := p.LowerBound(t, g)
	rows := float64(g.Rows())
	var suppressed float64
	for _, e := range g.Classes() {
		if e.IsOutlier() {
			suppressed += float64(e.Count())
		}
	}
	if rows == 0 || suppressed == 0 {
		return LossWithBound{Loss: bound, LowerBound: bound}
	}
	// Every attribute of a suppressed row has precision 1.
	loss := stat.Mean([]float64{bound.Value(), 1}, []float64{rows - suppressed, suppressed})
	return LossWithBound{Loss: NewInformationLoss(loss), LowerBound: bound}
}

func (p *Precision) LowerBound(t *lattice.Transformation, _ *groupify.Groupify) *InformationLoss {
	return NewInformationLoss(stat.Mean(p.generalization(t), nil))
}
