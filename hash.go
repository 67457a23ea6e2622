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

package chainmap

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Hasher computes the hash of a key. Implementations must be deterministic
// for the lifetime of a Map: equal keys must always hash to the same value.
// A Hasher is held by value, so copying a Map copies its Hasher.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// HashFunc adapts an ordinary function to the Hasher interface.
type HashFunc[K any] func(key K) uint64

// Hash implements Hasher.
func (f HashFunc[K]) Hash(key K) uint64 {
	return f(key)
}

// ComparableHasher hashes any comparable key using the same algorithm as Go's
// builtin map. The seed is fixed when the hasher is created, so two Maps
// sharing a ComparableHasher place keys identically.
type ComparableHasher[K comparable] struct {
	seed maphash.Seed
}

// NewComparableHasher returns a ComparableHasher with a random seed.
func NewComparableHasher[K comparable]() ComparableHasher[K] {
	return ComparableHasher[K]{seed: maphash.MakeSeed()}
}

// Hash implements Hasher.
func (h ComparableHasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}

// StringHasher hashes string keys with xxHash64. It is unseeded, so the
// resulting bucket placement is stable across processes.
type StringHasher[K ~string] struct{}

// Hash implements Hasher.
func (StringHasher[K]) Hash(key K) uint64 {
	return xxhash.Sum64String(string(key))
}

// IntegerHasher hashes an integer key to its own value, the way
// std::hash<int> does. Placement is fully predictable (key mod bucket count),
// which is useful for tests and for keys that are already well distributed.
type IntegerHasher[K constraints.Integer] struct{}

// Hash implements Hasher.
func (IntegerHasher[K]) Hash(key K) uint64 {
	return uint64(key)
}
