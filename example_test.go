// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chainmap_test

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/chainmap"
)

func Example() {
	m := chainmap.New[int, string](
		chainmap.WithHasher[int, string](chainmap.IntegerHasher[int]{}))
	m.Insert(1, "one")
	m.Insert(2, "two")
	m.Insert(1, "uno") // 1 is already present: noop
	*m.Ref(3) += "three"

	for c := m.Begin(); c.Valid(); c.Next() {
		fmt.Printf("%d: %s\n", c.Key(), c.Value())
	}

	if _, err := m.At(4); errors.Is(err, chainmap.ErrKeyNotFound) {
		fmt.Println(err)
	}
	// Output:
	// 1: one
	// 2: two
	// 3: three
	// chainmap: 4: key not found
}
