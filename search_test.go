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

import "testing"

func TestNearestIndex(t *testing.T) {
	a := []float64{5, 1, 9, 1, 3}
	tests := []struct {
		x    float64
		want int
	}{
		{x: 5, want: 0},
		{x: 0, want: 1},
		{x: 1.1, want: 1},
		{x: 2, want: 1}, // equidistant from 1 and 3; first minimum wins
		{x: 100, want: 2},
		{x: 3.9, want: 4},
	}
	for _, test := range tests {
		if have := NearestIndex(test.x, a); have != test.want {
			t.Errorf("%g: have %d, want %d", test.x, have, test.want)
		}
	}
	if NearestIndex(1, nil) != -1 {
		t.Error("empty array should give -1")
	}
}

func TestNearestIndexSorted(t *testing.T) {
	asc := []float64{412.7, 442.6, 489.9, 509.8, 559.7, 619.6, 664.6}
	desc := make([]float64, len(asc))
	for i, v := range asc {
		desc[len(asc)-1-i] = v
	}
	for i, v := range asc {
		if have := NearestIndexAscending(v, asc); have != i {
			t.Errorf("ascending %g: have %d, want %d", v, have, i)
		}
		if have := NearestIndexDescending(v, desc); have != len(asc)-1-i {
			t.Errorf("descending %g: have %d, want %d", v, have, len(asc)-1-i)
		}
	}
	for _, x := range []float64{0, 420, 500, 560, 640, 1000} {
		want := NearestIndex(x, asc)
		if have := NearestIndexAscending(x, asc); have != want {
			t.Errorf("ascending %g: have %d, want %d", x, have, want)
		}
		want = NearestIndex(x, desc)
		if have := NearestIndexDescending(x, desc); have != want {
			t.Errorf("descending %g: have %d, want %d", x, have, want)
		}
	}
	if have := NearestIndexAscending(0.5, []float64{0, 1, 2}); have != 0 {
		t.Errorf("ascending tie: have %d, want 0", have)
	}
	if have := NearestIndexDescending(0.5, []float64{2, 1, 0}); have != 1 {
		t.Errorf("descending tie: have %d, want 1", have)
	}
	if NearestIndexAscending(1, nil) != -1 || NearestIndexDescending(1, nil) != -1 {
		t.Error("empty array should give -1")
	}
}

func TestNearestLowerHigher(t *testing.T) {
	a := []float64{1.2, -0.5, 2, 0.3, 2}
	tests := []struct {
		x             float64
		lower, higher int
		lowOK, highOK bool
	}{
		{x: 0, lower: 1, lowOK: true, higher: 3, highOK: true},
		{x: 1.2, lower: 0, lowOK: true, higher: 0, highOK: true},
		{x: 2, lower: 2, lowOK: true, higher: 2, highOK: true},
		{x: 1.5, lower: 0, lowOK: true, higher: 2, highOK: true},
		{x: -1, lower: -1, lowOK: false, higher: 1, highOK: true},
		{x: 3, lower: 2, lowOK: true, higher: -1, highOK: false},
	}
	for _, test := range tests {
		lo, ok := NearestLowerIndex(test.x, a)
		if lo != test.lower || ok != test.lowOK {
			t.Errorf("lower %g: have (%d, %v), want (%d, %v)", test.x, lo, ok, test.lower, test.lowOK)
		}
		hi, ok := NearestHigherIndex(test.x, a)
		if hi != test.higher || ok != test.highOK {
			t.Errorf("higher %g: have (%d, %v), want (%d, %v)", test.x, hi, ok, test.higher, test.highOK)
		}
	}
}

func TestNearestLowerHigherBracket(t *testing.T) {
	a := []float64{0.1, 1.7, 0.9, 1.3}
	for x := 0.1; x <= 1.7; x += 0.05 {
		lo, ok := NearestLowerIndex(x, a)
		if !ok {
			t.Fatalf("%g: no lower", x)
		}
		hi, ok := NearestHigherIndex(x, a)
		if !ok {
			t.Fatalf("%g: no higher", x)
		}
		if a[lo] > x || a[hi] < x {
			t.Errorf("%g: [%g, %g] does not bracket", x, a[lo], a[hi])
		}
		for _, v := range a {
			if v <= x && v > a[lo] {
				t.Errorf("%g: %g is a closer lower value than %g", x, v, a[lo])
			}
			if v >= x && v < a[hi] {
				t.Errorf("%g: %g is a closer higher value than %g", x, v, a[hi])
			}
		}
	}
}
