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


// Package checker decides whether transformations fulfill the configured
// privacy models and measures their information loss, deriving equivalence
// classes incrementally from previously checked transformations.
package checker

import (
	"errors"
	"fmt"

	log "github.com/golang/glog"
	"github.com/iF2007/arx/config"
	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/groupify"
	"github.com/iF2007/arx/history"
	"github.com/iF2007/arx/lattice"
	"github.com/iF2007/arx/metric"
	"github.com/iF2007/arx/privacy"
	"github.com/iF2007/arx/transformer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrInvalidTransformation is returned for transformations that do not belong
// to the solution space of a Checker.
var ErrInvalidTransformation = errors.New("invalid transformation")

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arx_checker_checks_total",
		Help: "Total number of checked transformations by transition",
	}, []string{"transition"})

	memoizedChecksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arx_checker_memoized_checks_total",
		Help: "Total number of checks answered from attached results",
	})
)

// Checker checks transformations of one dataset. It keeps two equivalence
// class tables: the current one, holding the classes of the last checked
// transformation, and the last one, which the next rollup reads from. Their
// roles are swapped on every check.
//
// A Checker is not thread-safe. Parallel searches use one Checker per
// goroutine; the Manager, Metric, Config and SolutionSpace may be shared.
//
// An error returned by Check or ApplyTransformation leaves the Checker in an
// undefined state; it must be Reset before further use.
type Checker struct {
	manager *data.Manager
	metric  metric.Metric
	cfg     *config.Config
	space   *lattice.SolutionSpace

	history      *history.History
	stateMachine *StateMachine
	transformer  *transformer.Transformer
	current      *groupify.Groupify
	last         *groupify.Groupify
	results      *lattice.Annotations[*Result]

	// The transformation whose classes current holds, and the snapshot they
	// were restored from, if any.
	checked *lattice.Transformation
	hint    *history.Snapshot
}

// New returns a Checker for the dataset of manager. space must be the solution
// space spanned by the hierarchies of manager.
func New(manager *data.Manager, m metric.Metric, cfg *config.Config, space *lattice.SolutionSpace) (*Checker, error) {
	if manager == nil || m == nil || cfg == nil || space == nil {
		return nil, fmt.Errorf("checker.New: manager, metric, config and solution space are required")
	}
	if !lattice.Dominates(space.MaxLevels(), manager.MaxLevels()) || !lattice.Dominates(manager.MaxLevels(), space.MaxLevels()) {
		return nil, fmt.Errorf("solution space with maximal levels %v does not match the hierarchies %v", space.MaxLevels(), manager.MaxLevels())
	}
	for _, model := range cfg.Models() {
		if am, ok := model.(privacy.AttributeModel); ok {
			if _, ok := manager.AnalyzedIndex(am.Attribute()); !ok {
				return nil, fmt.Errorf("%v: attribute %q is not sensitive", model, am.Attribute())
			}
		}
	}
	t, err := transformer.New(manager.Generalized().Matrix(), manager.Hierarchies())
	if err != nil {
		return nil, err
	}
	h := history.New(manager.Generalized().Rows(), &history.Options{
		MaxSize:              cfg.HistorySize(),
		SnapshotSizeDataset:  cfg.SnapshotSizeDataset(),
		SnapshotSizeSnapshot: cfg.SnapshotSizeSnapshot(),
	})
	track := cfg.Requirements().Has(privacy.RequirementDistribution) || manager.Aggregation().Len() > 0
	return &Checker{
		manager:      manager,
		metric:       m,
		cfg:          cfg,
		space:        space,
		history:      h,
		stateMachine: NewStateMachine(h),
		transformer:  t,
		current:      groupify.New(cfg, manager.Analyzed(), track),
		last:         groupify.New(cfg, manager.Analyzed(), track),
		results:      lattice.NewAnnotations[*Result](),
	}, nil
}

func (c *Checker) validate(t *lattice.Transformation) error {
	if t == nil || !c.space.Owns(t) {
		return fmt.Errorf("%w: %v is not part of the solution space", ErrInvalidTransformation, t)
	}
	return nil
}

// Check checks transformation t. If a result is attached to t in Results, it
// is returned without any further work. Otherwise the classes of t are derived
// from the input, the classes of the last checked transformation or a stored
// snapshot, and analyzed. The information loss is measured if the privacy
// model is fulfilled or force is set; only its lower bound is measured
// otherwise.
//
// The result is not attached to t.
func (c *Checker) Check(t *lattice.Transformation, force bool) (*Result, error) {
	if err := c.validate(t); err != nil {
		return nil, err
	}
	if r, ok := c.results.Get(t); ok {
		memoizedChecksTotal.Inc()
		return r, nil
	}

	if c.checked != nil {
		c.history.Store(c.checked, c.current, c.hint)
	}

	gen := t.Generalization()
	transition, err := c.stateMachine.Transition(gen)
	if err != nil {
		return nil, err
	}

	c.current, c.last = c.last, c.current
	c.checked, c.hint = nil, nil
	switch tr := transition.(type) {
	case FromScratch:
		_, err = c.transformer.ApplyFromScratch(gen, c.current)
	case Rollup:
		_, err = c.transformer.ApplyRollup(gen, c.last, c.current)
	case FromSnapshot:
		var classes []groupify.SnapshotClass
		if classes, err = c.history.Restore(tr.Snapshot); err == nil {
			_, err = c.transformer.ApplyFromSnapshot(gen, tr.Snapshot.Generalization(), classes, c.current)
			c.hint = tr.Snapshot
		}
	}
	if err != nil {
		return nil, fmt.Errorf("checking %v by %v: %w", t, transition, err)
	}
	c.checked = t
	checksTotal.WithLabelValues(transitionName(transition)).Inc()

	c.current.Analyze(t, force)
	if !c.current.PrivacyModelFulfilled() && !c.cfg.SuppressionAlwaysEnabled() {
		c.current.ResetSuppression()
	}

	r := &Result{PrivacyModelFulfilled: c.current.PrivacyModelFulfilled()}
	if c.cfg.MinimalClassSizeRequired() {
		v := c.current.MinimalClassSizeFulfilled()
		r.MinimalClassSizeFulfilled = &v
	}
	if r.PrivacyModelFulfilled || force {
		loss := c.metric.InformationLoss(t, c.current)
		r.InformationLoss, r.LowerBound = loss.Loss, loss.LowerBound
	} else {
		r.LowerBound = c.metric.LowerBound(t, c.current)
	}
	log.V(2).Infof("checker: %v by %v: %d classes, %d outliers, result %v", t, transition, c.current.NumClasses(), c.current.NumOutliers(), r)
	return r, nil
}

// CheckDefault checks t without forcing the measurement of information loss.
func (c *Checker) CheckDefault(t *lattice.Transformation) (*Result, error) {
	return c.Check(t, false)
}

// ApplyTransformation transforms the whole input by t and returns the
// output. Microaggregated values are registered in dict, which is reset first
// and must have one column per microaggregated attribute. Microaggregation
// happens before suppression, so that aggregates of suppressed rows are
// suppressed as well.
//
// The classes of the last checked transformation are discarded: the next
// Check groups its transformation from scratch or from a snapshot.
func (c *Checker) ApplyTransformation(t *lattice.Transformation, dict *data.Dictionary) (*TransformedData, error) {
	if err := c.validate(t); err != nil {
		return nil, err
	}
	info := c.manager.Aggregation()
	if dict == nil || dict.Columns() != info.Len() {
		return nil, fmt.Errorf("microaggregation dictionary must have %d columns", info.Len())
	}
	dict.Reset()

	c.stateMachine.Reset()
	c.checked, c.hint = nil, nil
	gen := t.Generalization()
	if _, err := c.transformer.ApplyFromScratch(gen, c.current); err != nil {
		return nil, fmt.Errorf("applying %v: %w", t, err)
	}
	c.current.Analyze(t, true)
	if !c.current.PrivacyModelFulfilled() && !c.cfg.SuppressionAlwaysEnabled() {
		c.current.ResetSuppression()
	}

	r := &Result{PrivacyModelFulfilled: c.current.PrivacyModelFulfilled()}
	if c.cfg.MinimalClassSizeRequired() {
		v := c.current.MinimalClassSizeFulfilled()
		r.MinimalClassSizeFulfilled = &v
	}
	if attached, ok := c.results.Get(t); ok && attached.InformationLoss != nil {
		r.InformationLoss = attached.InformationLoss
	} else {
		r.InformationLoss = c.metric.InformationLoss(t, c.current).Loss
	}

	var microaggregated *data.Data
	if info.Len() > 0 {
		var err error
		if microaggregated, err = c.current.PerformMicroaggregation(info, dict); err != nil {
			return nil, fmt.Errorf("applying %v: %w", t, err)
		}
	} else {
		microaggregated = data.NewData(data.NewMatrix(c.current.Rows(), 0), nil, nil, dict)
	}

	suppressed := 0
	if c.cfg.AbsoluteMaxOutliers(c.current.Rows()) != 0 || !c.current.PrivacyModelFulfilled() {
		var err error
		if suppressed, err = c.current.PerformSuppression(); err != nil {
			return nil, fmt.Errorf("applying %v: %w", t, err)
		}
	}

	in := c.manager.Generalized()
	log.V(2).Infof("checker: applied %v: %d classes, %d suppressed rows, result %v", t, c.current.NumClasses(), suppressed, r)
	return &TransformedData{
		Generalized:     data.NewData(c.transformer.Buffer().Copy(), in.Header(), in.Columns(), in.Dictionary()),
		Microaggregated: microaggregated,
		Result:          r,
	}, nil
}

// ApplyTransformationDefault is ApplyTransformation with a new microaggregation
// dictionary.
func (c *Checker) ApplyTransformationDefault(t *lattice.Transformation) (*TransformedData, error) {
	return c.ApplyTransformation(t, data.NewDictionary(c.manager.Aggregation().Len()))
}

// Reset returns the Checker to its initial state: no last transformation, an
// empty history and empty tables. Attached results are kept.
func (c *Checker) Reset() {
	c.stateMachine.Reset()
	c.history.Reset()
	c.history.SetSize(0)
	c.current.Clear()
	c.last.Clear()
	c.checked, c.hint = nil, nil
}

// Config returns the configuration.
func (c *Checker) Config() *config.Config {
	return c.cfg
}

// History returns the snapshot history.
func (c *Checker) History() *history.History {
	return c.history
}

// InputBuffer returns the encoded quasi-identifiers of the input.
func (c *Checker) InputBuffer() *data.Data {
	return c.manager.Generalized()
}

// Metric returns the information loss metric.
func (c *Checker) Metric() metric.Metric {
	return c.metric
}

// Results returns the results attached to transformations. Check answers from
// it without further work.
func (c *Checker) Results() *lattice.Annotations[*Result] {
	return c.results
}

// SolutionSpace returns the solution space.
func (c *Checker) SolutionSpace() *lattice.SolutionSpace {
	return c.space
}

// StateMachine returns the transition classifier.
func (c *Checker) StateMachine() *StateMachine {
	return c.stateMachine
}
