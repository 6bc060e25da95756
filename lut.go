/*
Copyright © 2018 the Synaer authors.
This file is part of Synaer.

Synaer is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Synaer is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Synaer.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaer

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/sparse"
)

// LookupTable is a gridded function of several variables that is evaluated
// by multilinear interpolation between grid nodes. The node values are held
// in row-major order, with the last axis varying fastest. A LookupTable is
// never modified after it is created, so it may be queried concurrently.
type LookupTable struct {
	data *sparse.DenseArray

	// axes are shared with the caller and must not be modified.
	axes [][]float64

	strides []int
}

// NewLookupTable creates a table from node values and one monotonic
// (ascending or descending) axis per dimension. The table takes ownership
// of values; the axes are referenced, not copied.
func NewLookupTable(values []float64, axes ...[]float64) (*LookupTable, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("synaer: lookup table has no axes: %w", ErrLoad)
	}
	shape := make([]int, len(axes))
	n := 1
	for i, a := range axes {
		if len(a) == 0 {
			return nil, fmt.Errorf("synaer: lookup table axis %d is empty: %w", i, ErrLoad)
		}
		shape[i] = len(a)
		n *= len(a)
	}
	if len(values) != n {
		return nil, fmt.Errorf("synaer: lookup table has %d values but axes %v require %d: %w",
			len(values), shape, n, ErrLoad)
	}
	data := sparse.ZerosDense(shape...)
	data.Elements = values

	strides := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= shape[i]
	}
	return &LookupTable{data: data, axes: axes, strides: strides}, nil
}

// Dims returns the number of axes.
func (t *LookupTable) Dims() int { return len(t.axes) }

// Axis returns axis i.
func (t *LookupTable) Axis(i int) []float64 { return t.axes[i] }

// Node returns the stored value at the given grid indices.
func (t *LookupTable) Node(index ...int) float64 { return t.data.Get(index...) }

// Value returns the table value at point x, which must have one coordinate
// per axis. Coordinates outside an axis are clamped to its end nodes, so the
// table is never extrapolated. A NaN coordinate gives a NaN result.
func (t *LookupTable) Value(x ...float64) (float64, error) {
	if len(x) != len(t.axes) {
		return math.NaN(), fmt.Errorf("synaer: lookup table has %d dimensions but point has %d: %w",
			len(t.axes), len(x), ErrInvalidQuery)
	}

	// Offset of the lower corner, and the stride and fraction of every
	// dimension that has an upper neighbour.
	base := 0
	var steps []int
	var fracs []float64
	for i, a := range t.axes {
		if len(a) == 1 {
			continue
		}
		lo := bracket(x[i], a)
		f := (x[i] - a[lo]) / (a[lo+1] - a[lo])
		f = math.Max(0, math.Min(1, f))
		base += lo * t.strides[i]
		steps = append(steps, t.strides[i])
		fracs = append(fracs, f)
	}

	var v float64
	for corner := 0; corner < 1<<len(fracs); corner++ {
		w := 1.
		idx := base
		for k, f := range fracs {
			if corner&(1<<k) != 0 {
				w *= f
				idx += steps[k]
			} else {
				w *= 1 - f
			}
		}
		v += w * t.data.Elements[idx]
	}
	return v, nil
}

// bracket returns the index lo of the axis cell [a[lo], a[lo+1]] that
// contains x, or the nearest edge cell when x is outside the axis.
// a must be monotonic with at least two elements.
func bracket(x float64, a []float64) int {
	var i int
	if a[len(a)-1] >= a[0] {
		i = sort.Search(len(a), func(i int) bool { return a[i] > x })
	} else {
		i = sort.Search(len(a), func(i int) bool { return a[i] < x })
	}
	lo := i - 1
	if lo < 0 {
		lo = 0
	}
	if lo > len(a)-2 {
		lo = len(a) - 2
	}
	return lo
}
