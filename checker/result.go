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
	"fmt"
	"strings"

	"github.com/iF2007/arx/data"
	"github.com/iF2007/arx/metric"
)

// Result is the immutable verdict on a transformation.
type Result struct {
	PrivacyModelFulfilled bool
	// MinimalClassSizeFulfilled is nil if no privacy model requires a minimal
	// class size.
	MinimalClassSizeFulfilled *bool
	// InformationLoss is nil if it was not measured.
	InformationLoss *metric.InformationLoss
	// LowerBound is nil in results of ApplyTransformation.
	LowerBound *metric.InformationLoss
}

func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{privacy: %t", r.PrivacyModelFulfilled)
	if r.MinimalClassSizeFulfilled != nil {
		fmt.Fprintf(&b, ", minimal class size: %t", *r.MinimalClassSizeFulfilled)
	}
	fmt.Fprintf(&b, ", loss: %v, bound: %v}", r.InformationLoss, r.LowerBound)
	return b.String()
}

// TransformedData is the output of a transformation.
type TransformedData struct {
	// Generalized holds the generalized quasi-identifiers, with suppressed
	// rows set to data.SuppressedCode.
	Generalized *data.Data
	// Microaggregated holds the aggregated values of the microaggregated
	// attributes. It has no columns if there are none.
	Microaggregated *data.Data
	Result          *Result
}
