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
	"math"
	"sort"
)

// NearestIndex returns the index of the element of a that is closest to x.
// a does not need to be sorted. When several elements are equally close,
// the first one wins. It returns -1 if a is empty.
func NearestIndex(x float64, a []float64) int {
	if len(a) == 0 {
		return -1
	}
	iNearest := 0
	for i := 1; i < len(a); i++ {
		if math.Abs(x-a[i]) < math.Abs(x-a[iNearest]) {
			iNearest = i
		}
	}
	return iNearest
}

// NearestIndexAscending returns the index of the element of the
// ascending array a that is closest to x, or -1 if a is empty.
// Ties go to the lower index.
func NearestIndexAscending(x float64, a []float64) int {
	if len(a) == 0 {
		return -1
	}
	i := sort.Search(len(a), func(i int) bool { return a[i] >= x })
	return closerOf(x, a, i-1, i)
}

// NearestIndexDescending returns the index of the element of the
// descending array a that is closest to x, or -1 if a is empty.
// Ties go to the lower index.
func NearestIndexDescending(x float64, a []float64) int {
	if len(a) == 0 {
		return -1
	}
	i := sort.Search(len(a), func(i int) bool { return a[i] <= x })
	return closerOf(x, a, i-1, i)
}

// closerOf picks whichever of the neighbouring indices lo and hi
// (hi == lo+1) is in range and closer to x.
func closerOf(x float64, a []float64, lo, hi int) int {
	switch {
	case lo < 0:
		return hi
	case hi >= len(a):
		return lo
	case math.Abs(a[hi]-x) < math.Abs(x-a[lo]):
		return hi
	default:
		return lo
	}
}

// NearestLowerIndex returns the index of the largest element of a that is
// less than or equal to x. a does not need to be sorted; the first of
// several equal candidates wins. ok is false if no element qualifies.
func NearestLowerIndex(x float64, a []float64) (i int, ok bool) {
	i = -1
	for j, v := range a {
		if x >= v && (!ok || x-v < x-a[i]) {
			i, ok = j, true
		}
	}
	return i, ok
}

// NearestHigherIndex returns the index of the smallest element of a that is
// greater than or equal to x. a does not need to be sorted; the first of
// several equal candidates wins. ok is false if no element qualifies.
func NearestHigherIndex(x float64, a []float64) (i int, ok bool) {
	i = -1
	for j, v := range a {
		if x <= v && (!ok || v-x < a[i]-x) {
			i, ok = j, true
		}
	}
	return i, ok
}
