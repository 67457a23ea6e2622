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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorEmpty(t *testing.T) {
	m := New[int, int]()
	require.True(t, m.Begin().Equal(m.End()))
	require.False(t, m.Begin().Valid())
	require.False(t, m.End().Valid())

	var zero Cursor[int, int]
	require.False(t, zero.Valid())
	require.False(t, zero.Equal(m.End()))

	// End cursors of different maps differ.
	require.False(t, m.End().Equal(New[int, int]().End()))
}

func TestCursorOrder(t *testing.T) {
	m := New[int, string](WithHasher[int, string](IntegerHasher[int]{}))
	m.Insert(0, "a")
	m.Insert(4, "b") // grows to 4 buckets: 0 and 4 share bucket 0
	m.Insert(1, "c")
	require.EqualValues(t, 4, m.capacity())

	// Buckets 2 and 3 are empty, so the last populated bucket is not the
	// final one. Advancing off the last entry must still reach End.
	var keys []int
	var values []string
	c := m.Begin()
	for ; !c.Equal(m.End()); c.Next() {
		keys = append(keys, c.Key())
		values = append(values, c.Value())
	}
	require.Equal(t, []int{0, 4, 1}, keys)
	require.Equal(t, []string{"a", "b", "c"}, values)
	require.False(t, c.Valid())
	require.True(t, c.Equal(m.End()))

	// All visits entries in the same order.
	keys = keys[:0]
	for k := range m.All {
		keys = append(keys, k)
	}
	require.Equal(t, []int{0, 4, 1}, keys)
}

func TestCursorLeadingEmptyBuckets(t *testing.T) {
	m := New[int, int](WithHasher[int, int](IntegerHasher[int]{}))
	m.Insert(3, 3)
	m.Insert(7, 7) // grows to 4 buckets, both in bucket 3

	c := m.Begin()
	require.True(t, c.Valid())
	require.EqualValues(t, 3, c.Key())
	c.Next()
	require.EqualValues(t, 7, c.Key())
	c.Next()
	require.True(t, c.Equal(m.End()))
}

func TestCursorNextOnEnd(t *testing.T) {
	m := New[int, int]()
	end := m.End()
	require.Panics(t, func() { end.Next() })
	require.Panics(t, func() { _ = end.Key() })
	require.Panics(t, func() { _ = end.Value() })
	require.Panics(t, func() { end.SetValue(1) })
}

func TestCursorFind(t *testing.T) {
	m := FromEntries([]Pair[string, int]{{"a", 1}, {"b", 2}, {"c", 3}})

	c := m.Find("b")
	require.True(t, c.Valid())
	require.Equal(t, "b", c.Key())
	require.EqualValues(t, 2, c.Value())
	require.Equal(t, "b", c.Entry().Key())

	// Writes through the cursor are visible to lookups, and do not require a
	// second lookup.
	c.SetValue(20)
	v, _ := m.Get("b")
	require.EqualValues(t, 20, v)
	*c.ValuePtr() += 1
	c.Entry().SetValue(c.Entry().Value() + 1)
	v, _ = m.Get("b")
	require.EqualValues(t, 22, v)

	// Find and Begin agree on the address of an entry.
	found := false
	for it := m.Begin(); it.Valid(); it.Next() {
		if it.Equal(c) {
			found = true
		}
	}
	require.True(t, found)

	require.True(t, m.Find("z").Equal(m.End()))
}

func TestCursorCompleteness(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 1000; i++ {
		m.Insert(i, i)
		if i%3 == 0 {
			m.Delete(i / 2)
		}
	}

	seen := make(map[int]int)
	for c := m.Begin(); c.Valid(); c.Next() {
		seen[c.Key()]++
		require.EqualValues(t, c.Key(), c.Value())
	}
	require.EqualValues(t, m.Len(), len(seen))
	for k, n := range seen {
		require.EqualValues(t, 1, n, "key %d visited %d times", k, n)
		_, ok := m.Get(k)
		require.True(t, ok)
	}
}

func TestReadCursor(t *testing.T) {
	m := FromEntries([]Pair[int, int]{{1, 10}, {2, 20}, {3, 30}})
	v := m.View()

	require.EqualValues(t, 3, v.Len())
	require.False(t, v.Empty())
	require.Equal(t, m.Hasher(), v.Hasher())

	got := make(map[int]int)
	r := v.Begin()
	for ; !r.Equal(v.End()); r.Next() {
		got[r.Key()] = r.Value()
	}
	require.False(t, r.Valid())
	require.Equal(t, map[int]int{1: 10, 2: 20, 3: 30}, got)

	f := v.Find(2)
	require.True(t, f.Valid())
	require.EqualValues(t, 20, f.Value())
	require.True(t, f.Equal(m.Find(2).ReadOnly()))
	require.True(t, v.Find(4).Equal(v.End()))

	val, ok := v.Get(3)
	require.True(t, ok)
	require.EqualValues(t, 30, val)
	_, err := v.At(4)
	require.ErrorIs(t, err, ErrKeyNotFound)

	// The view observes later mutations of the map.
	m.Insert(4, 40)
	require.EqualValues(t, 4, v.Len())
	require.True(t, v.Find(4).Valid())

	var n int
	v.All(func(k, val int) bool {
		n++
		return n < 2
	})
	require.EqualValues(t, 2, n)

	c := v.Clone()
	c.Delete(1)
	require.EqualValues(t, 4, v.Len())
	require.EqualValues(t, 3, c.Len())
}
