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

package checks

import (
	"math"
	"testing"
)

func TestCheckMinimalClassSize(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		k       int
		wantErr bool
	}{
		{"negative k",
			-1,
			true},
		{"zero k",
			0,
			true},
		{"k is 1",
			1,
			false},
		{"k is 5",
			5,
			false},
	} {
		if err := CheckMinimalClassSize(tc.k); (err != nil) != tc.wantErr {
			t.Errorf("CheckMinimalClassSize: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckL(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		l       int
		wantErr bool
	}{
		{"zero l", 0, true},
		{"l is 1", 1, false},
		{"l is 3", 3, false},
	} {
		if err := CheckL(tc.l, "Distinct-L"); (err != nil) != tc.wantErr {
			t.Errorf("CheckL: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckEntropyL(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		l       float64
		wantErr bool
	}{
		{"l below 1", 0.5, true},
		{"l is NaN", math.NaN(), true},
		{"l is infinity", math.Inf(1), true},
		{"l is 1", 1, false},
		{"l is 2.5", 2.5, false},
	} {
		if err := CheckEntropyL(tc.l); (err != nil) != tc.wantErr {
			t.Errorf("CheckEntropyL: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckSuppressionLimit(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		limit   float64
		wantErr bool
	}{
		{"negative limit", -0.1, true},
		{"limit above 1", 1.1, true},
		{"limit is NaN", math.NaN(), true},
		{"zero limit", 0, false},
		{"limit is 1", 1, false},
		{"limit within range", 0.05, false},
	} {
		if err := CheckSuppressionLimit(tc.limit); (err != nil) != tc.wantErr {
			t.Errorf("CheckSuppressionLimit: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckSnapshotRatio(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		ratio   float64
		wantErr bool
	}{
		{"negative ratio", -0.2, true},
		{"ratio above 1", 1.5, true},
		{"ratio is NaN", math.NaN(), true},
		{"zero ratio", 0, false},
		{"default dataset ratio", 0.2, false},
		{"default snapshot ratio", 0.8, false},
	} {
		if err := CheckSnapshotRatio(tc.ratio, "SnapshotSizeDataset"); (err != nil) != tc.wantErr {
			t.Errorf("CheckSnapshotRatio: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckHistorySize(t *testing.T) {
	for _, tc := range []struct {
		size    int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{200, false},
	} {
		if err := CheckHistorySize(tc.size); (err != nil) != tc.wantErr {
			t.Errorf("CheckHistorySize: when size is %d for err got %v, want %t", tc.size, err, tc.wantErr)
		}
	}
}

func TestCheckGeneralization(t *testing.T) {
	maxLevels := []int{2, 0, 3}
	for _, tc := range []struct {
		desc           string
		generalization []int
		wantErr        bool
	}{
		{"bottom", []int{0, 0, 0}, false},
		{"top", []int{2, 0, 3}, false},
		{"too few levels", []int{0, 0}, true},
		{"too many levels", []int{0, 0, 0, 0}, true},
		{"negative level", []int{0, -1, 0}, true},
		{"level above maximum", []int{3, 0, 0}, true},
	} {
		if err := CheckGeneralization(tc.generalization, maxLevels); (err != nil) != tc.wantErr {
			t.Errorf("CheckGeneralization: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestVerifyName(t *testing.T) {
	if _, err := verifyName(kName, []string{"a", "b"}); err == nil {
		t.Errorf("verifyName: with two names got no error, want error")
	}
	got, err := verifyName(kName, nil)
	if err != nil || got != kName {
		t.Errorf("verifyName: with no name got (%q, %v), want (%q, nil)", got, err, kName)
	}
}
