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

	"gonum.org/v1/gonum/interp"
)

// Spline is a natural cubic spline through samples at unit spacing.
type Spline struct {
	p interp.Predictor
}

// NewSpline fits a spline through y, where y[i] is the sample at knot i.
// At least two samples are required; two samples give a straight line.
func NewSpline(y []float64) (*Spline, error) {
	if len(y) < 2 {
		return nil, fmt.Errorf("synaer: spline needs at least 2 samples, got %d: %w", len(y), ErrConfiguration)
	}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	var f interface {
		interp.Predictor
		Fit(xs, ys []float64) error
	}
	if len(y) == 2 {
		f = new(interp.PiecewiseLinear)
	} else {
		f = new(interp.NaturalCubic)
	}
	if err := f.Fit(x, y); err != nil {
		return nil, fmt.Errorf("synaer: fitting spline: %v: %w", err, ErrConfiguration)
	}
	return &Spline{p: f}, nil
}

// At evaluates the spline in interval i, at fraction frac of the way from
// knot i to knot i+1.
func (s *Spline) At(i int, frac float64) float64 {
	return s.p.Predict(float64(i) + frac)
}

// UpsampleSpline resamples y to n values. The output is split into
// len(y)-1 intervals of n/(len(y)-1) values each; every interval starts
// with its input sample and continues with spline values. Any remaining
// values at the end are set to the last input sample.
func UpsampleSpline(y []float64, n int) ([]float64, error) {
	s, err := NewSpline(y)
	if err != nil {
		return nil, err
	}
	intervals := len(y) - 1
	if n < intervals {
		return nil, fmt.Errorf("synaer: cannot upsample %d samples to %d: %w", len(y), n, ErrConfiguration)
	}
	perInterval := n / intervals
	out := make([]float64, n)
	k := 0
	for i := 0; i < intervals; i++ {
		out[k] = y[i]
		k++
		for j := 1; j < perInterval; j++ {
			out[k] = s.At(i, float64(j)/float64(perInterval))
			k++
		}
	}
	for ; k < n; k++ {
		out[k] = y[len(y)-1]
	}
	return out, nil
}
