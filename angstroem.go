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

	"gonum.org/v1/gonum/floats"
)

// AngstroemParameters describe how to approximate an aerosol with a given
// Angstrom exponent by blending two of the available aerosol models.
type AngstroemParameters struct {
	// Value is the target Angstrom exponent.
	Value float64

	// Index holds the indices of the models with the nearest lower and
	// nearest higher exponents.
	Index [2]int

	// Weight holds the blending weights of the two models. They sum to 1.
	Weight [2]float64
}

// pairTolerance is the exponent difference below which two models are
// treated as identical and the lower one gets all the weight.
const pairTolerance = 0.01

// MinMaxVector returns n values evenly spaced from the minimum to the
// maximum of a, inclusive. If n is 1 the result is the minimum.
func MinMaxVector(a []float64, n int) ([]float64, error) {
	if len(a) == 0 {
		return nil, fmt.Errorf("synaer: min/max vector of empty array: %w", ErrConfiguration)
	}
	if n < 1 {
		return nil, fmt.Errorf("synaer: min/max vector of length %d: %w", n, ErrConfiguration)
	}
	lo, hi := floats.Min(a), floats.Max(a)
	r := make([]float64, n)
	if n == 1 {
		r[0] = lo
		return r, nil
	}
	for i := range r {
		r[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return r, nil
}

// FindModelPairs returns n target exponents evenly spaced over the range of
// the model exponents ang, each with the pair of models that brackets it and
// the weights for linear interpolation between them. ang does not need to
// be sorted.
func FindModelPairs(ang []float64, n int) ([]AngstroemParameters, error) {
	targets, err := MinMaxVector(ang, n)
	if err != nil {
		return nil, err
	}
	p := make([]AngstroemParameters, len(targets))
	for i, target := range targets {
		lo, ok := NearestLowerIndex(target, ang)
		if !ok {
			return nil, fmt.Errorf("synaer: no model has an Angstrom exponent <= %g: %w", target, ErrInvariant)
		}
		hi, ok := NearestHigherIndex(target, ang)
		if !ok {
			return nil, fmt.Errorf("synaer: no model has an Angstrom exponent >= %g: %w", target, ErrInvariant)
		}
		p[i].Value = target
		p[i].Index = [2]int{lo, hi}

		distance := ang[lo] - ang[hi]
		if math.Abs(distance) > pairTolerance {
			p[i].Weight = [2]float64{
				1 - (ang[lo]-target)/distance,
				1 - (target-ang[hi])/distance,
			}
		} else {
			p[i].Weight = [2]float64{1, 0}
		}
	}
	return p, nil
}
