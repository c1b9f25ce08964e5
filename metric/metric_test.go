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


package metric

import (
	"math"
	"testing"

	"github.com/iF2007/arx/config"
	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/groupify"
	"github.com/iF2007/arx/lattice"
	"github.com/iF2007/arx/privacy"
)

const tolerance = 1e-9

// newTable returns the classes of five rows under level 1 of the hierarchy
// a, b, c -> x and d, e -> y, analyzed for 3-anonymity with a suppression
// limit of 0.4, so that the class of y is suppressed.
func newTable(t *testing.T) (*lattice.Transformation, *groupify.Groupify, []*data.Hierarchy) {
	t.Helper()
	rows := [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}
	def := data.NewDefinition().SetQuasiIdentifying("q", [][]string{
		{"a", "x", "*"}, {"b", "x", "*"}, {"c", "x", "*"}, {"d", "y", "*"}, {"e", "y", "*"},
	})
	m, err := data.NewManager([]string{"q"}, rows, def)
	if err != nil {
		t.Fatalf("NewManager: got error %v", err)
	}
	k, _ := privacy.NewKAnonymity(3)
	c, err := config.New(&config.Options{Models: []privacy.Model{k}, SuppressionLimit: 0.4})
	if err != nil {
		t.Fatalf("config.New: got error %v", err)
	}
	s, err := lattice.NewSolutionSpace(m.MaxLevels())
	if err != nil {
		t.Fatalf("NewSolutionSpace: got error %v", err)
	}
	tr, err := s.Transformation([]int{1})
	if err != nil {
		t.Fatalf("Transformation: got error %v", err)
	}
	in := m.Generalized().Matrix()
	buffer := data.NewMatrix(in.Rows(), 1)
	g := groupify.New(c, m.Analyzed(), false)
	h := m.Hierarchies()[0]
	for row := 0; row < in.Rows(); row++ {
		buffer.Set(row, 0, h.Generalize(in.Get(row, 0), 1))
		g.Add(buffer, row)
	}
	g.Analyze(tr, true)
	if !g.PrivacyModelFulfilled() || g.NumOutliers() != 2 {
		t.Fatalf("Analyze: got %v, want two suppressed rows", g)
	}
	return tr, g, m.Hierarchies()
}

func TestMetrics(t *testing.T) {
	tr, g, hierarchies := newTable(t)
	precision, err := NewPrecision(hierarchies)
	if err != nil {
		t.Fatalf("NewPrecision: got error %v", err)
	}
	for _, tc := range []struct {
		metric    Metric
		wantLoss  float64
		wantBound float64
	}{
		// 3*3 for the class of x, 5*2 for the suppressed rows of y.
		{Discernibility{}, 19, 13},
		// The class of x and one class of suppressed rows.
		{AECS{}, 2.5, 2.5},
		// Three rows at level 1 of 2, two suppressed rows.
		{precision, 0.7, 0.5},
	} {
		r := tc.metric.InformationLoss(tr, g)
		if math.Abs(r.Loss.Value()-tc.wantLoss) > tolerance {
			t.Errorf("%s.InformationLoss: got loss %v, want %v", tc.metric.Name(), r.Loss, tc.wantLoss)
		}
		if math.Abs(r.LowerBound.Value()-tc.wantBound) > tolerance {
			t.Errorf("%s.InformationLoss: got bound %v, want %v", tc.metric.Name(), r.LowerBound, tc.wantBound)
		}
		if got := tc.metric.LowerBound(tr, g); got.Compare(r.LowerBound) != 0 {
			t.Errorf("%s.LowerBound: got %v, want %v", tc.metric.Name(), got, r.LowerBound)
		}
		if r.LowerBound.Compare(r.Loss) > 0 {
			t.Errorf("%s: bound %v exceeds loss %v", tc.metric.Name(), r.LowerBound, r.Loss)
		}
	}
}

func TestMetricsWithoutSuppression(t *testing.T) {
	tr, g, hierarchies := newTable(t)
	g.ResetSuppression()
	precision, _ := NewPrecision(hierarchies)
	for _, m := range []Metric{Discernibility{}, AECS{}, precision} {
		r := m.InformationLoss(tr, g)
		if r.Loss.Compare(r.LowerBound) != 0 {
			t.Errorf("%s.InformationLoss: got loss %v and bound %v, want equal without suppression", m.Name(), r.Loss, r.LowerBound)
		}
	}
}

func TestNew(t *testing.T) {
	_, _, hierarchies := newTable(t)
	for _, tc := range []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"discernibility", "Discernibility", false},
		{"AECS", "AECS", false},
		{"precision", "Precision", false},
		{"entropy", "", true},
	} {
		m, err := New(tc.name, hierarchies)
		if (err != nil) != tc.wantErr {
			t.Errorf("New(%q): got err %v, wantErr %t", tc.name, err, tc.wantErr)
			continue
		}
		if err == nil && m.Name() != tc.wantName {
			t.Errorf("New(%q): got %s, want %s", tc.name, m.Name(), tc.wantName)
		}
	}
	if _, err := New("precision", nil); err == nil {
		t.Errorf("New: precision without hierarchies got no error, want error")
	}
}

func TestInformationLoss(t *testing.T) {
	a, b := NewInformationLoss(1), NewInformationLoss(2)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(NewInformationLoss(1)) != 0 {
		t.Errorf("Compare: got (%d, %d), want (-1, 1)", a.Compare(b), b.Compare(a))
	}
	var missing *InformationLoss
	if missing.String() != "n/a" || b.String() != "2" {
		t.Errorf("String: got %q and %q, want %q and %q", missing.String(), b.String(), "n/a", "2")
	}
}
