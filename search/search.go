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


// Package search evaluates every transformation of a solution space.
package search

import (
	"context"
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/iF2007/arx/checker"
	"github.com/iF2007/arx/lattice"
	"golang.org/x/sync/errgroup"
)

// Options configures Exhaustive.
type Options struct {
	// Number of goroutines, each with its own Checker. Defaults to 1.
	Workers int
	// Measure the information loss of transformations that do not fulfill
	// the privacy model too.
	Force bool
}

// Report is the outcome of a search.
type Report struct {
	RunID string
	// Results holds the result of every transformation, indexed by ID.
	Results []*checker.Result
	// Fulfilled is the number of transformations fulfilling the privacy model.
	Fulfilled int
	// Optimum is the fulfilling transformation with the lowest information
	// loss, the one with the lowest ID among equals, or nil.
	Optimum *lattice.Transformation
}

// Result returns the result of t.
func (r *Report) Result(t *lattice.Transformation) *checker.Result {
	return r.Results[t.ID()]
}

// Exhaustive checks every transformation of space. The transformations are
// split into contiguous ranges of IDs, one per worker, and checked in order of
// their IDs, so that most checks roll up the classes of the previous one.
// newChecker is called once per worker. ctx is only consulted between checks.
func Exhaustive(ctx context.Context, newChecker func() (*checker.Checker, error), space *lattice.SolutionSpace, opt *Options) (*Report, error) {
	if opt == nil {
		opt = &Options{}
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = 1
	}
	size := space.Size()
	if int64(workers) > size {
		workers = int(size)
	}
	report := &Report{
		RunID:   uuid.NewString(),
		Results: make([]*checker.Result, size),
	}
	log.Infof("search %s: checking %d transformations with %d workers", report.RunID, size, workers)

	g, ctx := errgroup.WithContext(ctx)
	chunk := (size + int64(workers) - 1) / int64(workers)
	for w := 0; w < workers; w++ {
		from, to := int64(w)*chunk, min(int64(w+1)*chunk, size)
		g.Go(func() error {
			c, err := newChecker()
			if err != nil {
				return err
			}
			if c.SolutionSpace() != space {
				return fmt.Errorf("worker checker uses a different solution space")
			}
			for id := from; id < to; id++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t := space.ByID(id)
				r, err := c.Check(t, opt.Force)
				if err != nil {
					return err
				}
				c.Results().Set(t, r)
				report.Results[id] = r
			}
			log.V(1).Infof("search %s: worker checked transformations %d to %d, history holds %d snapshots", report.RunID, from, to-1, c.History().Len())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search %s: %w", report.RunID, err)
	}

	var best *checker.Result
	for id, r := range report.Results {
		if !r.PrivacyModelFulfilled {
			continue
		}
		report.Fulfilled++
		if best == nil || r.InformationLoss.Compare(best.InformationLoss) < 0 {
			best = r
			report.Optimum = space.ByID(int64(id))
		}
	}
	log.Infof("search %s: %d of %d transformations fulfill the privacy model, optimum %v", report.RunID, report.Fulfilled, size, report.Optimum)
	return report, nil
}
