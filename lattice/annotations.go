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

package lattice

// Annotations is a side mapping from transformations to values, keyed by
// lattice index. The first value stored for a transformation is kept.
//
// Not thread-safe.
type Annotations[V any] struct {
	values map[int64]V
}

// NewAnnotations returns an empty mapping.
func NewAnnotations[V any]() *Annotations[V] {
	return &Annotations[V]{values: make(map[int64]V)}
}

// Get returns the value attached to t.
func (a *Annotations[V]) Get(t *Transformation) (V, bool) {
	v, ok := a.values[t.id]
	return v, ok
}

// Set attaches v to t unless a value is already attached. It reports whether
// v was stored.
func (a *Annotations[V]) Set(t *Transformation, v V) bool {
	if _, ok := a.values[t.id]; ok {
		return false
	}
	a.values[t.id] = v
	return true
}

// Len returns the number of annotated transformations.
func (a *Annotations[V]) Len() int {
	return len(a.values)
}

// Reset removes all values.
func (a *Annotations[V]) Reset() {
	clear(a.values)
}
