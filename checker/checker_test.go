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


package checker

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iF2007/arx/config"
	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/lattice"
	"github.com/iF2007/arx/metric"
	"github.com/iF2007/arx/privacy"
)

type fixture struct {
	manager *data.Manager
	space   *lattice.SolutionSpace
	checker *Checker
}

func newFixture(t *testing.T, header []string, rows [][]string, def *data.Definition, opt *config.Options) *fixture {
	t.Helper()
	m, err := data.NewManager(header, rows, def)
	if err != nil {
		t.Fatalf("NewManager: got error %v", err)
	}
	c, err := config.New(opt)
	if err != nil {
		t.Fatalf("config.New: got error %v", err)
	}
	s, err := lattice.NewSolutionSpace(m.MaxLevels())
	if err != nil {
		t.Fatalf("NewSolutionSpace: got error %v", err)
	}
	ch, err := New(m, metric.Discernibility{}, c, s)
	if err != nil {
		t.Fatalf("New: got error %v", err)
	}
	return &fixture{manager: m, space: s, checker: ch}
}

func (f *fixture) transformation(t *testing.T, gen ...int) *lattice.Transformation {
	t.Helper()
	tr, err := f.space.Transformation(gen)
	if err != nil {
		t.Fatalf("Transformation(%v): got error %v", gen, err)
	}
	return tr
}

func (f *fixture) check(t *testing.T, force bool, gen ...int) *Result {
	t.Helper()
	r, err := f.checker.Check(f.transformation(t, gen...), force)
	if err != nil {
		t.Fatalf("Check(%v): got error %v", gen, err)
	}
	return r
}

func kAnonymity(t *testing.T, k int) privacy.Model {
	t.Helper()
	m, err := privacy.NewKAnonymity(k)
	if err != nil {
		t.Fatalf("NewKAnonymity(%d): got error %v", k, err)
	}
	return m
}

// newScenario returns the rows A, B and C, generalized to X, X and Y, checked
// for 2-anonymity. Income is microaggregated by its mean.
func newScenario(t *testing.T, limit float64, always bool) *fixture {
	t.Helper()
	def := data.NewDefinition().
		SetQuasiIdentifying("q", [][]string{{"A", "X"}, {"B", "X"}, {"C", "Y"}}).
		SetMicroaggregated("income", data.ArithmeticMean)
	return newFixture(t, []string{"q", "income"}, [][]string{{"A", "10"}, {"B", "20"}, {"C", "60"}}, def, &config.Options{
		Models:                   []privacy.Model{kAnonymity(t, 2)},
		SuppressionLimit:         limit,
		SuppressionAlwaysEnabled: always,
	})
}

func sizes(c *Checker) []int {
	var s []int
	for _, e := range c.current.Classes() {
		s = append(s, e.Count())
	}
	return s
}

func TestScenario(t *testing.T) {
	f := newScenario(t, 0, false)

	r := f.check(t, false, 0)
	if r.PrivacyModelFulfilled || r.MinimalClassSizeFulfilled == nil || *r.MinimalClassSizeFulfilled {
		t.Errorf("Check([0]): got %v, want neither privacy model nor minimal class size fulfilled", r)
	}
	if _, ok := f.checker.StateMachine().LastTransition().(FromScratch); !ok {
		t.Errorf("LastTransition: got %v after the first check, want FromScratch", f.checker.StateMachine().LastTransition())
	}
	if diff := cmp.Diff([]int{1, 1, 1}, sizes(f.checker)); diff != "" {
		t.Errorf("Check([0]): unexpected class sizes (-want +got):\n%s", diff)
	}
	if r.InformationLoss != nil || r.LowerBound == nil {
		t.Errorf("Check([0]): got loss %v and bound %v, want only a bound", r.InformationLoss, r.LowerBound)
	}

	r = f.check(t, false, 1)
	if _, ok := f.checker.StateMachine().LastTransition().(Rollup); !ok {
		t.Errorf("LastTransition: got %v for [1] after [0], want Rollup", f.checker.StateMachine().LastTransition())
	}
	if diff := cmp.Diff([]int{2, 1}, sizes(f.checker)); diff != "" {
		t.Errorf("Check([1]): unexpected class sizes (-want +got):\n%s", diff)
	}
	if r.PrivacyModelFulfilled || *r.MinimalClassSizeFulfilled {
		t.Errorf("Check([1]): got %v, want neither privacy model nor minimal class size fulfilled", r)
	}
}

func TestScenarioWithSuppression(t *testing.T) {
	f := newScenario(t, 0.34, false)
	f.check(t, false, 0)
	r := f.check(t, false, 1)
	if !r.PrivacyModelFulfilled || !*r.MinimalClassSizeFulfilled {
		t.Errorf("Check([1]): got %v, want privacy model and minimal class size fulfilled", r)
	}
	// 2*2 for the class of X, 3*1 for the suppressed row of Y.
	if r.InformationLoss == nil || r.InformationLoss.Value() != 7 {
		t.Errorf("Check([1]): got loss %v, want 7", r.InformationLoss)
	}

	out, err := f.checker.ApplyTransformationDefault(f.transformation(t, 1))
	if err != nil {
		t.Fatalf("ApplyTransformationDefault: got error %v", err)
	}
	if diff := cmp.Diff([][]string{{"X"}, {"X"}, {"*"}}, out.Generalized.Records()); diff != "" {
		t.Errorf("ApplyTransformationDefault: unexpected generalized output (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"15"}, {"15"}, {"*"}}, out.Microaggregated.Records()); diff != "" {
		t.Errorf("ApplyTransformationDefault: unexpected microaggregated output (-want +got):\n%s", diff)
	}
	if !out.Result.PrivacyModelFulfilled || out.Result.LowerBound != nil || out.Result.InformationLoss.Value() != 7 {
		t.Errorf("ApplyTransformationDefault: got result %v, want fulfilled with loss 7 and no bound", out.Result)
	}
}

func TestSuppressionRetraction(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		always bool
		want   [][]string
	}{
		{"suppression is retracted", false, [][]string{{"X"}, {"X"}, {"Y"}}},
		{"suppression is always enabled", true, [][]string{{"X"}, {"X"}, {"*"}}},
	} {
		f := newScenario(t, 0, tc.always)
		r := f.check(t, true, 1)
		if r.PrivacyModelFulfilled {
			t.Errorf("Check([1]): when %s got %v, want privacy model not fulfilled", tc.desc, r)
		}
		wantOutliers := 0
		if tc.always {
			wantOutliers = 1
		}
		if got := f.checker.current.NumOutliers(); got != wantOutliers {
			t.Errorf("Check([1]): when %s got %d outliers, want %d", tc.desc, got, wantOutliers)
		}

		out, err := f.checker.ApplyTransformationDefault(f.transformation(t, 1))
		if err != nil {
			t.Fatalf("ApplyTransformationDefault: got error %v", err)
		}
		if diff := cmp.Diff(tc.want, out.Generalized.Records()); diff != "" {
			t.Errorf("ApplyTransformationDefault: when %s got unexpected output (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestMemoization(t *testing.T) {
	f := newScenario(t, 0.34, false)
	tr := f.transformation(t, 1)
	f.check(t, false, 0)
	first, err := f.checker.Check(tr, false)
	if err != nil {
		t.Fatalf("Check: got error %v", err)
	}
	if !f.checker.Results().Set(tr, first) {
		t.Fatalf("Results.Set: got false, want true")
	}
	historyLen, historySize := f.checker.History().Len(), f.checker.History().Size()
	transition := f.checker.StateMachine().LastTransition()

	second, err := f.checker.Check(tr, false)
	if err != nil {
		t.Fatalf("Check: got error %v", err)
	}
	if second != first {
		t.Errorf("Check: got %v on the second call, want the attached result %v", second, first)
	}
	if f.checker.History().Len() != historyLen || f.checker.History().Size() != historySize {
		t.Errorf("Check: the second call changed the history")
	}
	if f.checker.StateMachine().LastTransition() != transition {
		t.Errorf("Check: the second call advanced the state machine")
	}
	if diff := cmp.Diff([]int{1}, f.checker.StateMachine().LastTransformation()); diff != "" {
		t.Errorf("LastTransformation (-want +got):\n%s", diff)
	}
}

func TestInvalidTransformation(t *testing.T) {
	f := newScenario(t, 0, false)
	other, err := lattice.NewSolutionSpace([]int{1})
	if err != nil {
		t.Fatalf("NewSolutionSpace: got error %v", err)
	}
	for _, tc := range []struct {
		desc string
		tr   *lattice.Transformation
	}{
		{"nil", nil},
		{"foreign", other.Top()},
	} {
		if _, err := f.checker.Check(tc.tr, false); !errors.Is(err, ErrInvalidTransformation) {
			t.Errorf("Check: with a %s transformation got %v, want %v", tc.desc, err, ErrInvalidTransformation)
		}
		if _, err := f.checker.ApplyTransformationDefault(tc.tr); !errors.Is(err, ErrInvalidTransformation) {
			t.Errorf("ApplyTransformationDefault: with a %s transformation got %v, want %v", tc.desc, err, ErrInvalidTransformation)
		}
	}
	if f.checker.StateMachine().LastTransformation() != nil {
		t.Errorf("Check: an invalid transformation advanced the state machine")
	}
	if _, err := f.checker.ApplyTransformation(f.transformation(t, 1), data.NewDictionary(2)); err == nil {
		t.Errorf("ApplyTransformation: with a dictionary of the wrong width got no error, want error")
	}
}

func TestReset(t *testing.T) {
	f := newTransitionFixture(t)
	f.check(t, false, 0, 0)
	f.check(t, false, 1, 0)
	f.check(t, false, 2, 1)
	if f.checker.History().Len() == 0 {
		t.Fatalf("History: got no snapshots, want some")
	}
	f.checker.Reset()
	if f.checker.History().Len() != 0 || f.checker.History().Size() != 0 {
		t.Errorf("Reset: got %d snapshots of %d bytes, want none", f.checker.History().Len(), f.checker.History().Size())
	}
	if f.checker.StateMachine().LastTransformation() != nil || f.checker.current.NumClasses() != 0 || f.checker.last.NumClasses() != 0 {
		t.Errorf("Reset: want no last transformation and empty tables")
	}
	f.check(t, false, 1, 1)
	if _, ok := f.checker.StateMachine().LastTransition().(FromScratch); !ok {
		t.Errorf("LastTransition: got %v after Reset, want FromScratch", f.checker.StateMachine().LastTransition())
	}
}

// newTransitionFixture returns ten rows with the quasi-identifiers age and sex,
// whose history stores every table.
func newTransitionFixture(t *testing.T) *fixture {
	t.Helper()
	var rows, ages [][]string
	for i := 1; i <= 10; i++ {
		bucket := "1-5"
		if i > 5 {
			bucket = "6-10"
		}
		sex := "m"
		if i%2 == 0 {
			sex = "f"
		}
		disease := "flu"
		if i%3 == 0 {
			disease = "cold"
		}
		rows = append(rows, []string{strconv.Itoa(i), sex, disease})
		ages = append(ages, []string{strconv.Itoa(i), bucket, "*"})
	}
	l, err := privacy.NewDistinctLDiversity("disease", 2)
	if err != nil {
		t.Fatalf("NewDistinctLDiversity: got error %v", err)
	}
	def := data.NewDefinition().
		SetQuasiIdentifying("age", ages).
		SetQuasiIdentifying("sex", [][]string{{"m", "*"}, {"f", "*"}}).
		SetSensitive("disease")
	return newFixture(t, []string{"age", "sex", "disease"}, rows, def, &config.Options{
		Models:               []privacy.Model{kAnonymity(t, 2), l},
		SuppressionLimit:     0.2,
		SnapshotSizeDataset:  1,
		SnapshotSizeSnapshot: 0.8,
	})
}

func TestTransitions(t *testing.T) {
	f := newTransitionFixture(t)
	reference := newTransitionFixture(t)
	lossComparer := cmp.Comparer(func(a, b *metric.InformationLoss) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Compare(b) == 0
	})

	for _, tc := range []struct {
		gen  []int
		want string
	}{
		{[]int{0, 0}, "FromScratch"},
		{[]int{1, 0}, "Rollup"},
		// [1, 0] does not dominate [0, 1]; [0, 0] was stored when [1, 0] was checked.
		{[]int{0, 1}, "FromSnapshot([0 0])"},
		// The table of [0, 1] is not smaller than its snapshot and not stored.
		// The best snapshot [1, 0] does not dominate [0, 1].
		{[]int{2, 1}, "Rollup"},
		{[]int{2, 0}, "FromSnapshot([1 0])"},
		{[]int{2, 1}, "FromSnapshot([2 1])"},
		{[]int{0, 0}, "FromSnapshot([0 0])"},
	} {
		got := f.check(t, true, tc.gen...)
		transition := f.checker.StateMachine().LastTransition()
		name := transition.String()
		if s, ok := transition.(FromSnapshot); ok {
			name = "FromSnapshot(" + formatGeneralization(s.Snapshot.Generalization()) + ")"
		}
		if name != tc.want {
			t.Errorf("Check(%v): got transition %s, want %s", tc.gen, name, tc.want)
		}

		reference.checker.Reset()
		want := reference.check(t, true, tc.gen...)
		if diff := cmp.Diff(want, got, lossComparer); diff != "" {
			t.Errorf("Check(%v): result differs from checking from scratch (-want +got):\n%s", tc.gen, diff)
		}
	}
}

func formatGeneralization(gen []int) string {
	s := "["
	for i, l := range gen {
		if i > 0 {
			s += " "
		}
		s += strconv.Itoa(l)
	}
	return s + "]"
}

func TestNewErrors(t *testing.T) {
	def := data.NewDefinition().
		SetQuasiIdentifying("q", [][]string{{"A", "X"}, {"B", "X"}}).
		SetSensitive("disease")
	m, err := data.NewManager([]string{"q", "disease", "zip"}, [][]string{{"A", "flu", "1"}, {"B", "cold", "2"}}, def)
	if err != nil {
		t.Fatalf("NewManager: got error %v", err)
	}
	space, _ := lattice.NewSolutionSpace(m.MaxLevels())
	wrongSpace, _ := lattice.NewSolutionSpace([]int{2})
	k, _ := config.New(&config.Options{Models: []privacy.Model{kAnonymity(t, 2)}})
	l, _ := privacy.NewDistinctLDiversity("zip", 2)
	onZip, _ := config.New(&config.Options{Models: []privacy.Model{l}})

	for _, tc := range []struct {
		desc  string
		cfg   *config.Config
		space *lattice.SolutionSpace
	}{
		{"no config", nil, space},
		{"mismatched solution space", k, wrongSpace},
		{"model on an insensitive attribute", onZip, space},
	} {
		if _, err := New(m, metric.AECS{}, tc.cfg, tc.space); err == nil {
			t.Errorf("New: with %s got no error, want error", tc.desc)
		}
	}
}
