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

// package chainmap is a Go implementation of a hash table using separate
// chaining. See https://en.wikipedia.org/wiki/Hash_table#Separate_chaining.
//
// # Layout
//
// A Map holds an array of buckets. Each bucket is a chain (a slice) of
// entries whose keys reduce to the bucket's index, hash(key) % len(buckets).
// Entries are appended to the end of their chain and never reordered, so the
// order within a chain is insertion order. Deleting an entry shifts the
// remainder of its chain down by one.
//
// The bucket array always has at least one bucket. An empty map has exactly
// one bucket.
//
// # Resizing
//
// The number of buckets tracks the number of entries:
//
//   - After an insertion, if there are more entries than buckets the map
//     grows to 2*len buckets.
//   - After a deletion, if len*4 <= buckets the map shrinks to 2*len buckets.
//     A deletion that empties the map shrinks it to a single bucket.
//
// A resize allocates a fresh bucket array and replays every entry into it in
// iteration order, recomputing the bucket index against the new bucket count.
// Copying a map (Clone, Assign, Collect, FromEntries) goes through the same
// insertion path starting from a single bucket, so building a map of n
// entries costs O(n) amortized regardless of how it is built.
//
// # Iteration
//
// Entries are visited bucket by bucket, and within a bucket in chain order.
// A Cursor addresses one entry (or the End sentinel) and stays valid until
// the next mutation of its map. Any Insert that adds an entry, any Delete
// that removes one, Clear, Assign and Close invalidate every outstanding
// Cursor because they may replace the bucket array.
package chainmap

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

const debug = false

// Entry holds a key and value. The key is fixed for the lifetime of the
// entry; the value may be overwritten in place.
type Entry[K comparable, V any] struct {
	key   K
	value V
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// Value returns the entry's value.
func (e *Entry[K, V]) Value() V {
	return e.value
}

// ValuePtr returns a pointer to the entry's value. The pointer is valid until
// the next mutation of the owning map.
func (e *Entry[K, V]) ValuePtr() *V {
	return &e.value
}

// SetValue overwrites the entry's value.
func (e *Entry[K, V]) SetValue(value V) {
	e.value = value
}

// Pair is a key and value used to construct a Map with FromEntries.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Bucket is a chain of entries sharing the same reduced hash. The zero value
// is an empty bucket.
type Bucket[K comparable, V any] struct {
	entries []Entry[K, V]
}

// Len returns the number of entries in the bucket.
func (b *Bucket[K, V]) Len() int {
	return len(b.entries)
}

// find returns the index of key within the chain or -1.
func (b *Bucket[K, V]) find(key K) int {
	for i := range b.entries {
		if b.entries[i].key == key {
			return i
		}
	}
	return -1
}

// Map is an unordered map from keys to values with Insert, Find, Delete, and
// All operations. Keys are placed into buckets by a Hasher, which defaults to
// a ComparableHasher and can be changed using the WithHash or WithHasher
// options.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	hasher Hasher[K]
	// The allocator to use for the bucket arrays.
	allocator Allocator[K, V]
	// buckets is never empty for an initialized map. len(buckets) is the
	// capacity of the map.
	buckets []Bucket[K, V]
	// The number of entries across all buckets.
	used int
}

// New constructs a new, empty Map with a single bucket. The zero value for a
// Map is not usable; use New or Init.
func New[K comparable, V any](options ...option[K, V]) *Map[K, V] {
	m := &Map[K, V]{}
	m.Init(options...)
	return m
}

// Init initializes a Map with the specified options, discarding any entries
// it previously held. Init does not release the previous bucket array; use
// Close first if the map was built with a manually managed Allocator.
func (m *Map[K, V]) Init(options ...option[K, V]) {
	*m = Map[K, V]{
		allocator: defaultAllocator[K, V]{},
	}

	for _, op := range options {
		op.apply(m)
	}
	if m.hasher == nil {
		m.hasher = NewComparableHasher[K]()
	}

	m.buckets = m.allocator.AllocBuckets(1)
	m.checkInvariants()
}

// Collect builds a Map from the key-value pairs of seq, inserting them in
// order. When seq yields the same key more than once, the first value wins.
func Collect[K comparable, V any](seq iter.Seq2[K, V], options ...option[K, V]) *Map[K, V] {
	m := New[K, V](options...)
	for k, v := range seq {
		m.Insert(k, v)
	}
	return m
}

// FromEntries builds a Map from a literal list of pairs. When a key repeats,
// the first value wins.
func FromEntries[K comparable, V any](pairs []Pair[K, V], options ...option[K, V]) *Map[K, V] {
	m := New[K, V](options...)
	for _, p := range pairs {
		m.Insert(p.Key, p.Value)
	}
	return m
}

// Close closes the map, releasing its bucket array back to its configured
// allocator. It is unnecessary to close a map using the default allocator. It
// is invalid to use a Map after it has been closed, though Close itself is
// idempotent.
func (m *Map[K, V]) Close() {
	if m.buckets != nil {
		m.allocator.FreeBuckets(m.buckets)
		m.buckets = nil
		m.used = 0
	}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.used
}

// Empty returns true if the map has no entries.
func (m *Map[K, V]) Empty() bool {
	return m.used == 0
}

// Hasher returns a copy of the Hasher the map places keys with.
func (m *Map[K, V]) Hasher() Hasher[K] {
	return m.hasher
}

// capacity returns the number of buckets.
func (m *Map[K, V]) capacity() int {
	return len(m.buckets)
}

func (m *Map[K, V]) bucketIndex(key K) int {
	return int(m.hasher.Hash(key) % uint64(len(m.buckets)))
}

// Insert adds an entry for key if the map does not already contain one and
// reports whether it did. An existing entry keeps its value: Insert is
// insert-if-absent, not an upsert. Use Ref or Find to overwrite a value.
func (m *Map[K, V]) Insert(key K, value V) bool {
	i := m.bucketIndex(key)
	b := &m.buckets[i]
	if b.find(key) >= 0 {
		if debug {
			fmt.Printf("insert(%v): present in bucket %d\n", key, i)
		}
		return false
	}

	b.entries = append(b.entries, Entry[K, V]{key: key, value: value})
	m.used++
	if debug {
		fmt.Printf("insert(%v): bucket=%d chain=%d used=%d\n", key, i, b.Len(), m.used)
	}

	if len(m.buckets) < m.used {
		m.resize(m.used * 2)
	}
	m.checkInvariants()
	return true
}

// Delete deletes the entry corresponding to the specified key from the map
// and reports whether there was one. It is a noop to delete a non-existent
// key.
func (m *Map[K, V]) Delete(key K) bool {
	i := m.bucketIndex(key)
	b := &m.buckets[i]
	j := b.find(key)
	if j < 0 {
		if debug {
			fmt.Printf("delete(%v): not found in bucket %d\n", key, i)
		}
		return false
	}

	b.entries = slices.Delete(b.entries, j, j+1)
	m.used--
	if debug {
		fmt.Printf("delete(%v): bucket=%d index=%d used=%d\n", key, i, j, m.used)
	}

	switch {
	case m.used == 0:
		if len(m.buckets) != 1 {
			m.resize(1)
		}
	case m.used*4 <= len(m.buckets):
		m.resize(m.used * 2)
	}
	m.checkInvariants()
	return true
}

// Find returns a Cursor positioned at the entry for key, or End if the map
// does not contain key.
func (m *Map[K, V]) Find(key K) Cursor[K, V] {
	i := m.bucketIndex(key)
	if j := m.buckets[i].find(key); j >= 0 {
		return Cursor[K, V]{m: m, bucket: i, pos: j}
	}
	return m.End()
}

// Get retrieves the value from the map for the specified key, return ok=false
// if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	b := &m.buckets[m.bucketIndex(key)]
	if j := b.find(key); j >= 0 {
		return b.entries[j].value, true
	}
	return value, false
}

// At returns the value for key. If the map does not contain key it returns
// an error satisfying errors.Is(err, ErrKeyNotFound).
func (m *Map[K, V]) At(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, keyNotFound(key)
	}
	return v, nil
}

// Ref returns a pointer to the value for key, first inserting the zero value
// if the map does not contain key. It behaves like m[key] on a builtin map
// used as an lvalue. The pointer is valid until the next mutation.
func (m *Map[K, V]) Ref(key K) *V {
	var zero V
	m.Insert(key, zero)
	return m.Find(key).ValuePtr()
}

// Clear deletes all entries from the map, resetting it to a single bucket.
func (m *Map[K, V]) Clear() {
	m.allocator.FreeBuckets(m.buckets)
	m.buckets = m.allocator.AllocBuckets(1)
	m.used = 0
	m.checkInvariants()
}

// Clone returns an independent copy of the map sharing its Hasher and
// Allocator. The copy is built by inserting every entry into a fresh map.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := New[K, V](WithHasher[K, V](m.hasher), WithAllocator[K, V](m.allocator))
	c.insertAll(m)
	return c
}

// Assign replaces the contents of m with a copy of src, adopting src's
// Hasher. Assigning a map to itself is a noop.
func (m *Map[K, V]) Assign(src View[K, V]) {
	if src.m == m {
		return
	}
	m.hasher = src.m.hasher
	m.Clear()
	m.insertAll(src.m)
}

func (m *Map[K, V]) insertAll(src *Map[K, V]) {
	src.All(func(k K, v V) bool {
		m.Insert(k, v)
		return true
	})
}

// All calls yield sequentially for each key and value present in the map, in
// the same order a Cursor visits them. If yield returns false, iteration
// stops. The map must not be mutated during iteration.
//
//	for k, v := range m.All {
//	  fmt.Printf("%v: %v\n", k, v)
//	}
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for i := range m.buckets {
		for _, e := range m.buckets[i].entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// resize replaces the bucket array with one of newCapacity buckets and
// replays every entry into it. Entries keep their relative order within any
// chain they continue to share.
func (m *Map[K, V]) resize(newCapacity int) {
	if debug {
		fmt.Printf("resize: %d -> %d buckets (used=%d)\n", len(m.buckets), newCapacity, m.used)
	}

	old := m.buckets
	m.buckets = m.allocator.AllocBuckets(newCapacity)
	m.used = 0
	for i := range old {
		for _, e := range old[i].entries {
			b := &m.buckets[m.bucketIndex(e.key)]
			b.entries = append(b.entries, e)
			m.used++
		}
		old[i].entries = nil
	}
	m.allocator.FreeBuckets(old)
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if len(m.buckets) < 1 {
			panic(fmt.Sprintf("invariant failed: %d buckets", len(m.buckets)))
		}

		seen := make(map[K]int, m.used)
		var used int
		for i := range m.buckets {
			for j, e := range m.buckets[i].entries {
				if want := m.bucketIndex(e.key); want != i {
					panic(fmt.Sprintf("invariant failed: bucket(%d)[%d]: %v belongs in bucket %d\n%s",
						i, j, e.key, want, m.debugString()))
				}
				if prev, ok := seen[e.key]; ok {
					panic(fmt.Sprintf("invariant failed: bucket(%d)[%d]: duplicate key %v (first in bucket %d)\n%s",
						i, j, e.key, prev, m.debugString()))
				}
				seen[e.key] = i
				used++
			}
		}

		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d entries, but used count is %d\n%s",
				used, m.used, m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d\n", len(m.buckets), m.used)
	for i := range m.buckets {
		b := &m.buckets[i]
		if b.Len() == 0 {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
			continue
		}
		fmt.Fprintf(&buf, "  %4d:", i)
		for _, e := range b.entries {
			fmt.Fprintf(&buf, " %v=%v", e.key, e.value)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
