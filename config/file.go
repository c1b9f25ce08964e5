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

package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iF2007/arx/privacy"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding run file keys, e.g.
// ARX_SUPPRESSION_LIMIT.
const EnvPrefix = "ARX"

// File describes an anonymization run as read from a run file.
type File struct {
	Input       string          `mapstructure:"input"`
	Output      string          `mapstructure:"output"`
	Delimiter   string          `mapstructure:"delimiter"`
	Attributes  []AttributeFile `mapstructure:"attributes"`
	Models      []ModelFile     `mapstructure:"models"`
	Suppression SuppressionFile `mapstructure:"suppression"`
	History     HistoryFile     `mapstructure:"history"`
	Metric      string          `mapstructure:"metric"`
	Workers     int             `mapstructure:"workers"`
}

// AttributeFile declares one attribute of the input.
type AttributeFile struct {
	Name string `mapstructure:"name"`
	// Type is one of quasi-identifying, sensitive, microaggregated or insensitive.
	Type string `mapstructure:"type"`
	// Hierarchy is the path of a ';'-separated hierarchy file.
	Hierarchy string `mapstructure:"hierarchy"`
	// Function is the aggregation function of a microaggregated attribute.
	Function string `mapstructure:"function"`
}

// ModelFile declares one privacy model.
type ModelFile struct {
	// Kind is one of k-anonymity, distinct-l-diversity or entropy-l-diversity.
	Kind      string  `mapstructure:"kind"`
	K         int     `mapstructure:"k"`
	L         float64 `mapstructure:"l"`
	Attribute string  `mapstructure:"attribute"`
}

// SuppressionFile configures suppression.
type SuppressionFile struct {
	Limit         float64 `mapstructure:"limit"`
	AlwaysEnabled bool    `mapstructure:"always_enabled"`
}

// HistoryFile configures the snapshot history.
type HistoryFile struct {
	Size                 int     `mapstructure:"size"`
	SnapshotSizeDataset  float64 `mapstructure:"snapshot_size_dataset"`
	SnapshotSizeSnapshot float64 `mapstructure:"snapshot_size_snapshot"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("delimiter", ",")
	v.SetDefault("metric", "discernibility")
	v.SetDefault("workers", 1)
	v.SetDefault("suppression.limit", 0.0)
	v.SetDefault("suppression.always_enabled", false)
	v.SetDefault("history.size", DefaultHistorySize)
	v.SetDefault("history.snapshot_size_dataset", DefaultSnapshotSizeDataset)
	v.SetDefault("history.snapshot_size_snapshot", DefaultSnapshotSizeSnapshot)
}

// Load reads the run file at path. Keys may be overridden by environment
// variables prefixed with EnvPrefix.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading run file %q: %w", path, err)
		}
	}
	return Decode(v)
}

// Parse reads a run file in the given format ("yaml", "json", "toml", ...) from r.
func Parse(r io.Reader, format string) (*File, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading run file: %w", err)
	}
	return Decode(v)
}

// Decode unmarshals the run file held by v, filling in defaults.
func Decode(v *viper.Viper) (*File, error) {
	setDefaults(v)
	f := &File{}
	if err := v.Unmarshal(f); err != nil {
		return nil, fmt.Errorf("error unmarshaling run file: %w", err)
	}
	return f, nil
}

// Options converts the run file into configuration options.
func (f *File) Options() (*Options, error) {
	opt := &Options{
		SuppressionLimit:         f.Suppression.Limit,
		SuppressionAlwaysEnabled: f.Suppression.AlwaysEnabled,
		HistorySize:              f.History.Size,
		SnapshotSizeDataset:      f.History.SnapshotSizeDataset,
		SnapshotSizeSnapshot:     f.History.SnapshotSizeSnapshot,
	}
	for i, mf := range f.Models {
		m, err := mf.Model()
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		opt.Models = append(opt.Models, m)
	}
	return opt, nil
}

// Model builds the declared privacy model.
func (mf ModelFile) Model() (privacy.Model, error) {
	var (
		m   privacy.Model
		err error
	)
	switch strings.ToLower(mf.Kind) {
	case "k-anonymity":
		var k *privacy.KAnonymity
		if k, err = privacy.NewKAnonymity(mf.K); err == nil {
			m = k
		}
	case "distinct-l-diversity":
		var l *privacy.DistinctLDiversity
		if l, err = privacy.NewDistinctLDiversity(mf.Attribute, int(mf.L)); err == nil {
			m = l
		}
	case "entropy-l-diversity":
		var l *privacy.EntropyLDiversity
		if l, err = privacy.NewEntropyLDiversity(mf.Attribute, mf.L); err == nil {
			m = l
		}
	default:
		err = fmt.Errorf("unknown privacy model %q", mf.Kind)
	}
	return m, err
}
