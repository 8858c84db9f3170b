/*
Package sparse implements a simple type for sparse integer vectors.
It is used for the register table of the stack machine, where programs may
address any int64 index, but usually only a handful of registers are set.

This implementation uses the COO algorithm (a.k.a. coordinate encoding),
with pairs kept sorted by index.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
	"strings"
)

// IntVector is a type for a sparse vector of int64 values. Construct with
//
//     V := NewIntVector(0)           // parameter is V's null-value
//
// Now
//
//     V.Set(-3, 4711)                // set a value
//     v := V.Value(-3)               // returns 4711
//     cnt := V.ValueCount()          // returns 1 (one position set)
//     v = V.Value(10)                // returns 0, i.e. the null-value
//
// Setting a position to the null-value removes it from the vector.
type IntVector struct {
	values  []pair
	nullval int64
}

// Coordinate values to store
type pair struct {
	index int64
	value int64
}

// NewIntVector creates a new, empty vector. The argument is a null-value,
// returned for positions which have not been set.
func NewIntVector(nullValue int64) *IntVector {
	return &IntVector{
		values:  []pair{},
		nullval: nullValue,
	}
}

// NullValue returns this vector's null value
func (v *IntVector) NullValue() int64 {
	return v.nullval
}

// ValueCount returns the number of values in the vector.
func (v *IntVector) ValueCount() int {
	return len(v.values)
}

// search returns the position of index i in the value list, or the position
// where it would have to be inserted.
func (v *IntVector) search(i int64) int {
	return sort.Search(len(v.values), func(k int) bool {
		return v.values[k].index >= i
	})
}

func (v *IntVector) storedAt(k int, i int64) bool {
	return k < len(v.values) && v.values[k].index == i
}

// Value returns the value at position i, or NullValue
func (v *IntVector) Value(i int64) int64 {
	if k := v.search(i); v.storedAt(k, i) {
		return v.values[k].value
	}
	return v.nullval
}

// Set a value in the vector at position i.
func (v *IntVector) Set(i int64, value int64) *IntVector {
	k := v.search(i)
	if v.storedAt(k, i) { // value already present
		if value == v.nullval {
			v.values = append(v.values[:k], v.values[k+1:]...)
		} else {
			v.values[k].value = value
		}
		return v
	}
	if value == v.nullval {
		return v
	}
	pnew := pair{index: i, value: value}
	// the following 3 lines have to work for k being the right edge of v or not
	v.values = append(v.values, pnew)  // make room
	copy(v.values[k+1:], v.values[k:]) // copy remainder values one index to right
	v.values[k] = pnew                 // if not append-case: insert new pair
	return v
}

// Clear removes all values.
func (v *IntVector) Clear() {
	v.values = v.values[:0]
}

// Each calls f for every position set, in ascending order of positions.
func (v *IntVector) Each(f func(i, value int64)) {
	for _, p := range v.values {
		f(p.index, p.value)
	}
}

func (v *IntVector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for k, p := range v.values {
		if k > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fmt.Sprintf("%d:%d", p.index, p.value))
	}
	b.WriteByte(']')
	return b.String()
}
