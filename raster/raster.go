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

// Package raster resamples per-pixel fields between raster grids of
// different resolution.
package raster

import (
	"fmt"
	"image"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/synaer"
)

// Tile holds the values of one field over a rectangle of raster pixels.
// Pixel coordinates are absolute raster coordinates.
type Tile struct {
	Rect image.Rectangle

	// Data has shape [Rect.Dy()][Rect.Dx()].
	Data *sparse.DenseArray
}

// NewTile returns a zero-valued tile covering r.
func NewTile(r image.Rectangle) *Tile {
	return &Tile{Rect: r, Data: sparse.ZerosDense(r.Dy(), r.Dx())}
}

func (t *Tile) index(x, y int) int {
	return (y-t.Rect.Min.Y)*t.Rect.Dx() + x - t.Rect.Min.X
}

// At returns the value of pixel (x, y), which must be inside t.Rect.
func (t *Tile) At(x, y int) float64 { return t.Data.Elements[t.index(x, y)] }

// Set sets the value of pixel (x, y), which must be inside t.Rect.
func (t *Tile) Set(x, y int, v float64) { t.Data.Elements[t.index(x, y)] = v }

// Mode is a resampling method.
type Mode int

// Resampling methods.
const (
	// NearestCopy copies the source pixel that contains the target pixel.
	NearestCopy Mode = iota

	// Bilinear blends the four source pixels around the target pixel.
	Bilinear
)

func (m Mode) String() string {
	switch m {
	case NearestCopy:
		return "nearest"
	case Bilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// FieldKind is the meaning of the values of a field, which decides how it
// may be resampled.
type FieldKind int

// Field kinds.
const (
	Continuous FieldKind = iota
	Categorical
	Flag
	ModelIndex
	AOT
	Uncertainty
)

// ModeFor returns the resampling mode for a kind of field. Only continuous
// fields are interpolated; everything else is copied.
func ModeFor(kind FieldKind) Mode {
	if kind == Continuous {
		return Bilinear
	}
	return NearestCopy
}

// Names of the retrieval output fields.
const (
	AOTName            = "aot"
	AngstroemName      = "ang"
	AOTUncertaintyName = "aot_uncertainty"
	AngUncertaintyName = "ang_uncertainty"
	ModelName          = "land_aerosol_model"
)

// KindOf returns the kind of a retrieval output field from its name.
// isFlag marks flag fields.
func KindOf(name string, isFlag bool) FieldKind {
	switch {
	case isFlag:
		return Flag
	case name == AOTName:
		return AOT
	case name == AOTUncertaintyName:
		return Uncertainty
	case strings.HasPrefix(name, ModelName):
		return ModelIndex
	default:
		return Continuous
	}
}

// Resample fills dst from the coarser src, whose pixels are scale times
// larger. Source indices that reach the last row or column are moved back
// by one, so the last source row and column are only read as the upper
// neighbour of a bilinear blend. The source raster must be at least two
// pixels wide and high.
func Resample(src, dst *Tile, scale int, mode Mode) error {
	if scale < 1 {
		return fmt.Errorf("raster: invalid scale factor %d: %w", scale, synaer.ErrConfiguration)
	}
	if src.Rect.Max.X < 2 || src.Rect.Max.Y < 2 {
		return fmt.Errorf("raster: source raster %v is smaller than 2x2: %w", src.Rect, synaer.ErrConfiguration)
	}
	clamp := func(i, end int) int {
		if i >= end-1 {
			return end - 2
		}
		return i
	}
	offset := scale / 2
	for y := dst.Rect.Min.Y; y < dst.Rect.Max.Y; y++ {
		for x := dst.Rect.Min.X; x < dst.Rect.Max.X; x++ {
			var v float64
			switch mode {
			case NearestCopy:
				ix := clamp(x/scale, src.Rect.Max.X)
				iy := clamp(y/scale, src.Rect.Max.Y)
				if !image.Pt(ix, iy).In(src.Rect) {
					return outside(src, ix, iy)
				}
				v = src.At(ix, iy)
			case Bilinear:
				ix := clamp((x-offset)/scale, src.Rect.Max.X)
				iy := clamp((y-offset)/scale, src.Rect.Max.Y)
				if !image.Rect(ix, iy, ix+2, iy+2).In(src.Rect) {
					return outside(src, ix, iy)
				}
				fx := float64(x-offset)/float64(scale) - float64(ix)
				fy := float64(y-offset)/float64(scale) - float64(iy)
				v = (1-fx)*(1-fy)*src.At(ix, iy) +
					fx*(1-fy)*src.At(ix+1, iy) +
					(1-fx)*fy*src.At(ix, iy+1) +
					fx*fy*src.At(ix+1, iy+1)
			default:
				return fmt.Errorf("raster: unsupported resampling mode %v: %w", mode, synaer.ErrConfiguration)
			}
			dst.Set(x, y, v)
		}
	}
	return nil
}

func outside(src *Tile, x, y int) error {
	return fmt.Errorf("raster: source pixel (%d, %d) is outside source tile %v: %w",
		x, y, src.Rect, synaer.ErrConfiguration)
}

// SourceRect returns the source rectangle needed to resample the target
// rectangle dst from a srcW×srcH raster at the given scale factor.
func SourceRect(dst image.Rectangle, scale, srcW, srcH int) image.Rectangle {
	offset := scale / 2
	x := (dst.Min.X - offset) / scale
	y := (dst.Min.Y - offset) / scale
	w := dst.Dx()/scale + 1
	h := dst.Dy()/scale + 1
	if x >= srcW {
		x, w = srcW-2, 2
	}
	if y >= srcH {
		y, h = srcH-2, 2
	}
	return image.Rect(x, y, x+w, y+h)
}
