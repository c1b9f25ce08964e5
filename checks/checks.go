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

// Package checks contains parameter checks for anonymization runs.
package checks

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
)

const (
	kName      = "K"
	lName      = "L"
	ratioName  = "Ratio"
	limitName  = "SuppressionLimit"
	sizeName   = "HistorySize"
	levelsName = "Generalization"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	var name string
	switch len(nameSlice) {
	case 0:
		name = defaultName
	case 1:
		name = nameSlice[0]
	default:
		return "", fmt.Errorf("This should never happen. There should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
	return name, nil
}

// CheckMinimalClassSize returns an error if k is less than 1.
func CheckMinimalClassSize(k int, name ...string) error {
	minName, err := verifyName(kName, name)
	if err != nil {
		return err
	}
	if k < 1 {
		return fmt.Errorf("%s is %d, must be at least 1", minName, k)
	}
	if k == 1 {
		log.Warningf("%s is 1: every equivalence class fulfills the minimal class size", minName)
	}
	return nil
}

// CheckL returns an error if the number of distinct sensitive values l is less than 1.
func CheckL(l int, name ...string) error {
	divName, err := verifyName(lName, name)
	if err != nil {
		return err
	}
	if l < 1 {
		return fmt.Errorf("%s is %d, must be at least 1", divName, l)
	}
	return nil
}

// CheckEntropyL returns an error if l is less than 1, NaN or +∞.
func CheckEntropyL(l float64, name ...string) error {
	divName, err := verifyName(lName, name)
	if err != nil {
		return err
	}
	if l < 1 || math.IsInf(l, 0) || math.IsNaN(l) {
		return fmt.Errorf("%s is %f, must be at least 1 and finite", divName, l)
	}
	return nil
}

// CheckSuppressionLimit returns an error if the fraction of rows that may be
// suppressed is outside of [0, 1].
func CheckSuppressionLimit(limit float64) error {
	if math.IsNaN(limit) {
		return fmt.Errorf("%s is %f, cannot be NaN", limitName, limit)
	}
	if limit < 0 || limit > 1 {
		return fmt.Errorf("%s is %f, must be within [0, 1]", limitName, limit)
	}
	if limit == 1 {
		log.Warningf("%s is 1: every row of the dataset may be suppressed", limitName)
	}
	return nil
}

// CheckSnapshotRatio returns an error if ratio is outside of [0, 1].
func CheckSnapshotRatio(ratio float64, name ...string) error {
	rName, err := verifyName(ratioName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return fmt.Errorf("%s is %f, must be within [0, 1]", rName, ratio)
	}
	if ratio == 0 {
		log.Warningf("%s is 0: no snapshot will ever be stored", rName)
	}
	return nil
}

// CheckHistorySize returns an error if size is negative.
func CheckHistorySize(size int) error {
	if size < 0 {
		return fmt.Errorf("%s is %d, cannot be negative", sizeName, size)
	}
	return nil
}

// CheckGeneralization returns an error if generalization does not describe a
// point of the lattice spanned by maxLevels.
func CheckGeneralization(generalization, maxLevels []int) error {
	if len(generalization) != len(maxLevels) {
		return fmt.Errorf("%s has %d levels, must have %d", levelsName, len(generalization), len(maxLevels))
	}
	for i, level := range generalization {
		if level < 0 || level > maxLevels[i] {
			return fmt.Errorf("%s level %d of attribute %d must be within [0, %d]", levelsName, level, i, maxLevels[i])
		}
	}
	return nil
}
