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


package groupify

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// SnapshotClass is the serialized form of a class. The key is not stored: it
// is derived again from the representative row of the input.
type SnapshotClass struct {
	Representative int
	Count          int
	Distributions  []map[int32]int
}

// MarshalSnapshot encodes the classes of the table.
func (g *Groupify) MarshalSnapshot() ([]byte, error) {
	classes := make([]SnapshotClass, len(g.entries))
	for i, e := range g.entries {
		classes[i] = SnapshotClass{
			Representative: e.representative,
			Count:          e.count,
			Distributions:  e.distributions,
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(classes); err != nil {
		return nil, fmt.Errorf("couldn't encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes classes encoded by MarshalSnapshot.
func UnmarshalSnapshot(b []byte) ([]SnapshotClass, error) {
	var classes []SnapshotClass
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&classes); err != nil {
		return nil, fmt.Errorf("couldn't decode snapshot: %w", err)
	}
	return classes, nil
}
