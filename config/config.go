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

// Package config holds the immutable configuration of an anonymization run.
package config

import (
	"fmt"
	"math"

	"github.com/iF2007/arx/checks"
	"github.com/iF2007/arx/privacy"
)

// Defaults for the snapshot history.
const (
	DefaultHistorySize          = 200
	DefaultSnapshotSizeDataset  = 0.2
	DefaultSnapshotSizeSnapshot = 0.8
)

// Options contains the options necessary to initialize a Config.
type Options struct {
	Models                   []privacy.Model // Privacy models every released class must fulfill. Required.
	SuppressionLimit         float64         // Fraction of rows that may be suppressed, within [0, 1]. Defaults to 0.
	SuppressionAlwaysEnabled bool            // Keep suppression markers of transformations failing the models.
	// Maximal number of snapshots kept by the history. Defaults to
	// DefaultHistorySize; a negative value disables the history.
	HistorySize int
	// A snapshot is only stored if it has at most this fraction of the rows
	// of the dataset as classes. Defaults to DefaultSnapshotSizeDataset.
	SnapshotSizeDataset float64
	// A snapshot derived from another snapshot is only stored if it has at
	// most this fraction of the classes of the other snapshot. Defaults to
	// DefaultSnapshotSizeSnapshot.
	SnapshotSizeSnapshot float64
}

// Config is the validated, immutable configuration of a run. It may be shared
// between goroutines.
type Config struct {
	models                   []privacy.Model
	suppressionLimit         float64
	suppressionAlwaysEnabled bool
	historySize              int
	snapshotSizeDataset      float64
	snapshotSizeSnapshot     float64
	minimalClassSize         int
	requirements             privacy.Requirement
}

// New validates opt and returns the resulting configuration.
func New(opt *Options) (*Config, error) {
	if opt == nil {
		opt = &Options{}
	}
	if len(opt.Models) == 0 {
		return nil, fmt.Errorf("at least one privacy model is required")
	}
	historySize := opt.HistorySize
	switch {
	case historySize == 0:
		historySize = DefaultHistorySize
	case historySize < 0:
		historySize = 0
	}
	snapshotSizeDataset := opt.SnapshotSizeDataset
	if snapshotSizeDataset == 0 {
		snapshotSizeDataset = DefaultSnapshotSizeDataset
	}
	snapshotSizeSnapshot := opt.SnapshotSizeSnapshot
	if snapshotSizeSnapshot == 0 {
		snapshotSizeSnapshot = DefaultSnapshotSizeSnapshot
	}
	if err := checks.CheckSuppressionLimit(opt.SuppressionLimit); err != nil {
		return nil, err
	}
	if err := checks.CheckHistorySize(historySize); err != nil {
		return nil, err
	}
	if err := checks.CheckSnapshotRatio(snapshotSizeDataset, "SnapshotSizeDataset"); err != nil {
		return nil, err
	}
	if err := checks.CheckSnapshotRatio(snapshotSizeSnapshot, "SnapshotSizeSnapshot"); err != nil {
		return nil, err
	}

	c := &Config{
		models:                   append([]privacy.Model(nil), opt.Models...),
		suppressionLimit:         opt.SuppressionLimit,
		suppressionAlwaysEnabled: opt.SuppressionAlwaysEnabled,
		historySize:              historySize,
		snapshotSizeDataset:      snapshotSizeDataset,
		snapshotSizeSnapshot:     snapshotSizeSnapshot,
	}
	for _, m := range c.models {
		if m == nil {
			return nil, fmt.Errorf("privacy model cannot be nil")
		}
		if k := m.MinimalClassSize(); k > c.minimalClassSize {
			c.minimalClassSize = k
		}
		c.requirements |= m.Requirements()
	}
	return c, nil
}

// Models returns the configured privacy models.
func (c *Config) Models() []privacy.Model {
	return c.models
}

// SuppressionLimit returns the fraction of rows that may be suppressed.
func (c *Config) SuppressionLimit() float64 {
	return c.suppressionLimit
}

// SuppressionAlwaysEnabled reports whether suppression markers are kept for
// transformations that fail the privacy models.
func (c *Config) SuppressionAlwaysEnabled() bool {
	return c.suppressionAlwaysEnabled
}

// HistorySize returns the maximal number of snapshots.
func (c *Config) HistorySize() int {
	return c.historySize
}

// SnapshotSizeDataset returns the dataset ratio budget of the history.
func (c *Config) SnapshotSizeDataset() float64 {
	return c.snapshotSizeDataset
}

// SnapshotSizeSnapshot returns the snapshot ratio budget of the history.
func (c *Config) SnapshotSizeSnapshot() float64 {
	return c.snapshotSizeSnapshot
}

// MinimalClassSize returns the largest minimal class size implied by any
// model, or 0 if no model implies one.
func (c *Config) MinimalClassSize() int {
	return c.minimalClassSize
}

// MinimalClassSizeRequired reports whether any model implies a minimal class size.
func (c *Config) MinimalClassSizeRequired() bool {
	return c.minimalClassSize > 0
}

// Requirements returns the union of the requirements of all models.
func (c *Config) Requirements() privacy.Requirement {
	return c.requirements
}

// AbsoluteMaxOutliers returns how many of rows may be suppressed.
func (c *Config) AbsoluteMaxOutliers(rows int) int {
	return int(math.Floor(c.suppressionLimit * float64(rows)))
}
