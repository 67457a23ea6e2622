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

// endBucket marks the End sentinel. End is a distinct state rather than a
// position past the last entry, so a cursor advanced off the final entry
// compares equal to End no matter how many trailing buckets are empty.
const endBucket = -1

// Cursor is a forward-only position within a Map. It addresses a single
// entry, or is the End sentinel. The zero value is not positioned anywhere
// and is not Valid.
//
// A Cursor is invalidated by any mutation of its map.
//
//	for c := m.Begin(); c.Valid(); c.Next() {
//	  fmt.Printf("%v: %v\n", c.Key(), c.Value())
//	}
type Cursor[K comparable, V any] struct {
	m      *Map[K, V]
	bucket int
	pos    int
}

// Begin returns a Cursor at the first entry of the first non-empty bucket,
// or End if the map is empty.
func (m *Map[K, V]) Begin() Cursor[K, V] {
	return Cursor[K, V]{m: m, bucket: m.seek(0)}
}

// End returns the End sentinel for the map.
func (m *Map[K, V]) End() Cursor[K, V] {
	return Cursor[K, V]{m: m, bucket: endBucket}
}

// seek returns the index of the first non-empty bucket at or after i, or
// endBucket.
func (m *Map[K, V]) seek(i int) int {
	for ; i < len(m.buckets); i++ {
		if m.buckets[i].Len() > 0 {
			return i
		}
	}
	return endBucket
}

// Valid returns true if the cursor addresses an entry.
func (c Cursor[K, V]) Valid() bool {
	return c.m != nil && c.bucket != endBucket
}

// Equal returns true if both cursors belong to the same map and address the
// same position. All End cursors of a map are equal.
func (c Cursor[K, V]) Equal(o Cursor[K, V]) bool {
	return c.m == o.m && c.bucket == o.bucket && c.pos == o.pos
}

// Next advances the cursor to the following entry, crossing into the next
// non-empty bucket when the current chain is exhausted. Advancing past the
// final entry yields End. It is invalid to advance End.
func (c *Cursor[K, V]) Next() {
	c.mustBeValid("Next")
	c.pos++
	if c.pos < c.m.buckets[c.bucket].Len() {
		return
	}
	c.bucket = c.m.seek(c.bucket + 1)
	c.pos = 0
}

// Entry returns the entry the cursor addresses.
func (c Cursor[K, V]) Entry() *Entry[K, V] {
	c.mustBeValid("Entry")
	return &c.m.buckets[c.bucket].entries[c.pos]
}

// Key returns the key of the addressed entry.
func (c Cursor[K, V]) Key() K {
	return c.Entry().key
}

// Value returns the value of the addressed entry.
func (c Cursor[K, V]) Value() V {
	return c.Entry().value
}

// ValuePtr returns a pointer to the value of the addressed entry.
func (c Cursor[K, V]) ValuePtr() *V {
	return &c.Entry().value
}

// SetValue overwrites the value of the addressed entry.
func (c Cursor[K, V]) SetValue(value V) {
	c.Entry().value = value
}

// ReadOnly returns a ReadCursor at the same position.
func (c Cursor[K, V]) ReadOnly() ReadCursor[K, V] {
	return ReadCursor[K, V]{c: c}
}

func (c Cursor[K, V]) mustBeValid(op string) {
	if !c.Valid() {
		panic("chainmap: " + op + " called on a cursor that does not address an entry")
	}
}

// ReadCursor is a Cursor that cannot modify the entry it addresses.
type ReadCursor[K comparable, V any] struct {
	c Cursor[K, V]
}

// Valid returns true if the cursor addresses an entry.
func (r ReadCursor[K, V]) Valid() bool {
	return r.c.Valid()
}

// Equal returns true if both cursors address the same position of the same
// map.
func (r ReadCursor[K, V]) Equal(o ReadCursor[K, V]) bool {
	return r.c.Equal(o.c)
}

// Next advances the cursor. See Cursor.Next.
func (r *ReadCursor[K, V]) Next() {
	r.c.Next()
}

// Key returns the key of the addressed entry.
func (r ReadCursor[K, V]) Key() K {
	return r.c.Key()
}

// Value returns the value of the addressed entry.
func (r ReadCursor[K, V]) Value() V {
	return r.c.Value()
}

// View is a read-only handle to a Map. It exposes the lookups and iteration
// of the map it was obtained from, never the mutations, and reflects later
// changes made through the Map itself.
type View[K comparable, V any] struct {
	m *Map[K, V]
}

// View returns a read-only handle to m.
func (m *Map[K, V]) View() View[K, V] {
	return View[K, V]{m: m}
}

func (v View[K, V]) Len() int { return v.m.Len() }
func (v View[K, V]) Empty() bool { return v.m.Empty() }
func (v View[K, V]) Hasher() Hasher[K] { return v.m.Hasher() }

// Get retrieves the value for key. See Map.Get.
func (v View[K, V]) Get(key K) (V, bool) {
	return v.m.Get(key)
}

// At returns the value for key or an error wrapping ErrKeyNotFound.
func (v View[K, V]) At(key K) (V, error) {
	return v.m.At(key)
}

// Find returns a ReadCursor at the entry for key, or End.
func (v View[K, V]) Find(key K) ReadCursor[K, V] {
	return v.m.Find(key).ReadOnly()
}

// Begin returns a ReadCursor at the first entry, or End.
func (v View[K, V]) Begin() ReadCursor[K, V] {
	return v.m.Begin().ReadOnly()
}

// End returns the End sentinel.
func (v View[K, V]) End() ReadCursor[K, V] {
	return v.m.End().ReadOnly()
}

// All iterates over the entries. See Map.All.
func (v View[K, V]) All(yield func(key K, value V) bool) {
	v.m.All(yield)
}

// Clone returns an independent, mutable copy of the viewed map.
func (v View[K, V]) Clone() *Map[K, V] {
	return v.m.Clone()
}
