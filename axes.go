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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Axes are the grid nodes shared by every table of a reflectance LUT bank.
// Tables are indexed in the order log-pressure, view zenith, relative
// azimuth, solar zenith, AOT, albedo. Angles are in degrees.
type Axes struct {
	Pressure    []float64
	LogPressure []float64
	VZA         []float64
	RelAzi      []float64
	SZA         []float64
	AOT         []float64
	Albedo      []float64
}

// axisTags maps the leading tag of an axis-file line to the axis it holds.
var axisTags = []struct {
	prefix string
	axis   func(*Axes) *[]float64
}{
	{"PRES", func(a *Axes) *[]float64 { return &a.Pressure }},
	{"VIEWZ", func(a *Axes) *[]float64 { return &a.VZA }},
	{"RELAZ", func(a *Axes) *[]float64 { return &a.RelAzi }},
	{"SOLARZ", func(a *Axes) *[]float64 { return &a.SZA }},
	{"AOT", func(a *Axes) *[]float64 { return &a.AOT }},
	{"ALBE", func(a *Axes) *[]float64 { return &a.Albedo }},
}

// LoadAxes reads an axis-definition file. See ReadAxes for the format.
func LoadAxes(path string) (*Axes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("synaer: opening axis file: %v: %w", err, ErrLoad)
	}
	defer f.Close()
	return ReadAxes(f, path)
}

// ReadAxes reads an axis-definition table from r. Each line has the form
//	TAG unit v1 v2 ... vn
// where TAG starts (in any case) with one of PRES, VIEWZ, RELAZ, SOLARZ,
// AOT or ALBE, and the second token is ignored. Other lines are skipped.
// Values are stored at single precision, and the log-pressure axis is
// derived from the pressure axis. name is used in error messages.
func ReadAxes(r io.Reader, name string) (*Axes, error) {
	a := new(Axes)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		tokens := strings.Fields(s.Text())
		if len(tokens) == 0 {
			continue
		}
		tag := strings.ToUpper(tokens[0])
		for _, t := range axisTags {
			if !strings.HasPrefix(tag, t.prefix) {
				continue
			}
			var values []float64
			if len(tokens) > 2 {
				values = make([]float64, len(tokens)-2)
				for i, tok := range tokens[2:] {
					v, err := strconv.ParseFloat(tok, 32)
					if err != nil {
						return nil, &ParseError{File: name, Line: line, Token: tok, Err: err}
					}
					values[i] = v
				}
			}
			*t.axis(a) = values
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("synaer: reading axis file %s: %v: %w", name, err, ErrLoad)
	}
	if a.Pressure != nil {
		a.LogPressure = make([]float64, len(a.Pressure))
		for i, p := range a.Pressure {
			a.LogPressure[i] = float64(float32(math.Log(p)))
		}
	}
	return a, nil
}

// Complete returns an error if any axis is missing or empty.
func (a *Axes) Complete() error {
	if a == nil {
		return fmt.Errorf("synaer: axes have not been loaded: %w", ErrConfiguration)
	}
	for _, t := range axisTags {
		if len(*t.axis(a)) == 0 {
			return fmt.Errorf("synaer: axis %s is missing or empty: %w", t.prefix, ErrConfiguration)
		}
	}
	return nil
}

// Slice returns the table axes in lookup order.
func (a *Axes) Slice() [][]float64 {
	return [][]float64{a.LogPressure, a.VZA, a.RelAzi, a.SZA, a.AOT, a.Albedo}
}

// Size returns the number of nodes in a table spanning the axes.
func (a *Axes) Size() int {
	n := 1
	for _, x := range a.Slice() {
		n *= len(x)
	}
	return n
}
