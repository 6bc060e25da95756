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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
)

// CoefficientColumns is the number of correlated-k coefficients per row
// in a water vapour coefficient file.
const CoefficientColumns = 8

// coefficientRows gives the number of rows in the coefficient and weight
// files of each supported AATSR channel.
var coefficientRows = map[int]int{
	37: 45,
	16: 54,
}

// CoefficientFile returns the file name and row count of the water vapour
// coefficient table (weights == false) or transmission weight table
// (weights == true) for the given AATSR channel (16 or 37) and absorber
// index ("H" for water vapour or "A" for the other absorbers, in any case).
func CoefficientFile(channel int, index string, weights bool) (name string, rows int, err error) {
	rows, ok := coefficientRows[channel]
	if !ok {
		return "", 0, fmt.Errorf("synaer: coefficient channel must be 16 or 37, got %d: %w", channel, ErrConfiguration)
	}
	var absorber string
	switch strings.ToUpper(index) {
	case "A":
		absorber = "and"
	case "H":
		absorber = "h2o"
	default:
		return "", 0, fmt.Errorf("synaer: coefficient index must be H or A, got %q: %w", index, ErrConfiguration)
	}
	wvl, bands := "03700.00", 5
	if channel == 16 {
		wvl, bands = "01600.00", 4
	}
	kind := "koeff"
	if weights {
		kind = "weight"
	}
	return fmt.Sprintf("ck_flex_cd_AATSR_sfp1000_%s.%s.%d.ck.%s.d", wvl, absorber, bands, kind), rows, nil
}

// ReadWaterVapourCoefficients reads a coefficient table with the given
// number of rows and CoefficientColumns columns. The result has shape
// [CoefficientColumns][rows], so that Get(col, row) is the value from
// column col of line row. Missing trailing values on a line are zero and
// lines beyond rows are ignored. name is used in error messages.
func ReadWaterVapourCoefficients(r io.Reader, name string, rows int) (*sparse.DenseArray, error) {
	c := sparse.ZerosDense(CoefficientColumns, rows)
	row := 0
	err := scanLines(r, name, rows, func(line int, text string) error {
		for col, tok := range strings.Fields(text) {
			if col >= CoefficientColumns {
				break
			}
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return &ParseError{File: name, Line: line, Token: tok, Err: err}
			}
			c.Elements[col*rows+row] = v
		}
		row++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ReadTransmissionWeights reads the first value of each of rows lines.
// name is used in error messages.
func ReadTransmissionWeights(r io.Reader, name string, rows int) ([]float64, error) {
	w := make([]float64, 0, rows)
	err := scanLines(r, name, rows, func(line int, text string) error {
		tokens := strings.Fields(text)
		if len(tokens) == 0 {
			w = append(w, 0)
			return nil
		}
		v, err := strconv.ParseFloat(tokens[0], 32)
		if err != nil {
			return &ParseError{File: name, Line: line, Token: tokens[0], Err: err}
		}
		w = append(w, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// LoadWaterVapourCoefficients reads the coefficient table for the given
// channel and index from directory dir.
func LoadWaterVapourCoefficients(dir string, channel int, index string) (*sparse.DenseArray, error) {
	name, rows, err := CoefficientFile(channel, index, false)
	if err != nil {
		return nil, err
	}
	f, err := openAux(dir, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWaterVapourCoefficients(f, f.Name(), rows)
}

// LoadTransmissionWeights reads the transmission weights for the given
// channel and index from directory dir.
func LoadTransmissionWeights(dir string, channel int, index string) ([]float64, error) {
	name, rows, err := CoefficientFile(channel, index, true)
	if err != nil {
		return nil, err
	}
	f, err := openAux(dir, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTransmissionWeights(f, f.Name(), rows)
}

// Table is a two-column auxiliary table.
type Table struct {
	X, Y []float64
}

// TableFormat describes the layout of a two-column auxiliary table file.
type TableFormat struct {
	// Length is the number of data lines.
	Length int

	// HeaderLines is the number of lines to skip before the data.
	HeaderLines int

	// SkipFirstChar is set when the first character of every data line is
	// to be dropped before parsing.
	SkipFirstChar bool
}

// Auxiliary table files and their formats.
const (
	SpectralResponse37File = "aatsr_ir37.dat"
	CahalanFile            = "cahalan.d"
	TempToRadianceFile     = "temp_to_rad_36.d"
)

var (
	SpectralResponse37Format = TableFormat{Length: 255, HeaderLines: 3, SkipFirstChar: true}
	CahalanFormat            = TableFormat{Length: 2496}
	TempToRadianceFormat     = TableFormat{Length: 200}
)

// ReadTable reads a two-column table. Lines with a single value leave Y at
// zero. name is used in error messages.
func ReadTable(r io.Reader, name string, format TableFormat) (*Table, error) {
	t := &Table{X: make([]float64, format.Length), Y: make([]float64, format.Length)}
	i := 0
	err := scanLines(r, name, format.HeaderLines+format.Length, func(line int, text string) error {
		if line <= format.HeaderLines {
			return nil
		}
		if format.SkipFirstChar && len(text) > 0 {
			text = text[1:]
		}
		for col, tok := range strings.Fields(text) {
			if col > 1 {
				break
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return &ParseError{File: name, Line: line, Token: tok, Err: err}
			}
			if col == 0 {
				t.X[i] = v
			} else {
				t.Y[i] = v
			}
		}
		i++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTable reads the named two-column table from directory dir.
func LoadTable(dir, name string, format TableFormat) (*Table, error) {
	f, err := openAux(dir, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f, f.Name(), format)
}

// SimpsonIntegral integrates y over [x1, x3] by Simpson's rule, where
// y2 is the value at the midpoint and interval is x3-x1.
func SimpsonIntegral(y1, y2, y3, interval float64) float64 {
	h := interval / 6
	return h * (y1 + 4*y2 + y3)
}

// scanLines calls fn with the 1-based number and text of each of the
// first n lines of r. It is an error for r to have fewer than n lines.
func scanLines(r io.Reader, name string, n int, fn func(line int, text string) error) error {
	s := bufio.NewScanner(r)
	line := 0
	for line < n && s.Scan() {
		line++
		if err := fn(line, s.Text()); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("synaer: reading %s: %v: %w", name, err, ErrLoad)
	}
	if line < n {
		return fmt.Errorf("synaer: %s has %d lines, want %d: %w", name, line, n, ErrLoad)
	}
	return nil
}

func openAux(dir, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("synaer: opening auxiliary file: %v: %w", err, ErrLoad)
	}
	return f, nil
}
