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

package raster

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/spatialmodel/synaer"
)

const testTolerance = 1.e-10

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// linearTile returns a tile where pixel (x, y) holds 10·y + x.
func linearTile(r image.Rectangle) *Tile {
	t := NewTile(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			t.Set(x, y, float64(10*y+x))
		}
	}
	return t
}

func TestTileIndexing(t *testing.T) {
	tile := linearTile(image.Rect(3, 5, 7, 8))
	if v := tile.At(3, 5); v != 53 {
		t.Errorf("At(3, 5) = %g, want 53", v)
	}
	if v := tile.At(6, 7); v != 76 {
		t.Errorf("At(6, 7) = %g, want 76", v)
	}
	tile.Set(4, 6, 0)
	if v := tile.At(4, 6); v != 0 {
		t.Errorf("At(4, 6) after Set(0) = %g", v)
	}
	if len(tile.Data.Elements) != 12 {
		t.Errorf("elements = %d, want 12", len(tile.Data.Elements))
	}
}

func TestResampleNearest(t *testing.T) {
	src := linearTile(image.Rect(0, 0, 3, 3))
	dst := NewTile(image.Rect(0, 0, 6, 6))
	if err := Resample(src, dst, 2, NearestCopy); err != nil {
		t.Fatal(err)
	}
	// Source index 2 is moved back to 1.
	idx := []int{0, 0, 1, 1, 1, 1}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := float64(10*idx[y] + idx[x])
			if v := dst.At(x, y); v != want {
				t.Errorf("(%d, %d) = %g, want %g", x, y, v, want)
			}
		}
	}
}

func TestResampleBilinear(t *testing.T) {
	src := linearTile(image.Rect(0, 0, 3, 3))
	dst := NewTile(image.Rect(0, 0, 6, 6))
	if err := Resample(src, dst, 2, Bilinear); err != nil {
		t.Fatal(err)
	}
	// A linear field stays linear, including past the edges.
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := 10*float64(y-1)/2 + float64(x-1)/2
			if v := dst.At(x, y); different(v, want, testTolerance) {
				t.Errorf("(%d, %d) = %g, want %g", x, y, v, want)
			}
		}
	}
}

func TestResampleErrors(t *testing.T) {
	dst := NewTile(image.Rect(0, 0, 4, 4))
	tests := []struct {
		name  string
		src   *Tile
		scale int
		mode  Mode
	}{
		{name: "narrow", src: linearTile(image.Rect(0, 0, 1, 3)), scale: 2, mode: Bilinear},
		{name: "short", src: linearTile(image.Rect(0, 0, 3, 1)), scale: 2, mode: NearestCopy},
		{name: "scale", src: linearTile(image.Rect(0, 0, 3, 3)), scale: 0, mode: Bilinear},
		{name: "mode", src: linearTile(image.Rect(0, 0, 3, 3)), scale: 2, mode: Mode(7)},
		{name: "uncovered", src: linearTile(image.Rect(1, 1, 3, 3)), scale: 2, mode: NearestCopy},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Resample(test.src, dst, test.scale, test.mode)
			if !errors.Is(err, synaer.ErrConfiguration) {
				t.Errorf("got %v, want configuration error", err)
			}
		})
	}
}

func TestSourceRect(t *testing.T) {
	tests := []struct {
		dst  image.Rectangle
		want image.Rectangle
	}{
		{dst: image.Rect(0, 0, 10, 10), want: image.Rect(0, 0, 3, 3)},
		{dst: image.Rect(38, 0, 48, 10), want: image.Rect(9, 0, 12, 3)},
		{dst: image.Rect(42, 0, 52, 10), want: image.Rect(8, 0, 10, 3)},
		{dst: image.Rect(0, 42, 10, 52), want: image.Rect(0, 8, 3, 10)},
	}
	for _, test := range tests {
		if r := SourceRect(test.dst, 4, 10, 10); r != test.want {
			t.Errorf("SourceRect(%v) = %v, want %v", test.dst, r, test.want)
		}
	}
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		name   string
		isFlag bool
		kind   FieldKind
		mode   Mode
	}{
		{name: AOTName, kind: AOT, mode: NearestCopy},
		{name: AOTUncertaintyName, kind: Uncertainty, mode: NearestCopy},
		{name: ModelName + "_1", kind: ModelIndex, mode: NearestCopy},
		{name: "synergy_flags", isFlag: true, kind: Flag, mode: NearestCopy},
		{name: AngstroemName, kind: Continuous, mode: Bilinear},
		{name: AngUncertaintyName, kind: Continuous, mode: Bilinear},
	}
	for _, test := range tests {
		kind := KindOf(test.name, test.isFlag)
		if kind != test.kind {
			t.Errorf("KindOf(%q) = %v, want %v", test.name, kind, test.kind)
		}
		if m := ModeFor(kind); m != test.mode {
			t.Errorf("ModeFor(%q) = %v, want %v", test.name, m, test.mode)
		}
	}
	if ModeFor(Categorical) != NearestCopy {
		t.Error("categorical fields must not be interpolated")
	}
}

func TestAveragePixel(t *testing.T) {
	const noData = -1
	tile := NewTile(image.Rect(0, 0, 3, 3))
	for i := range tile.Data.Elements {
		tile.Data.Elements[i] = float64(i)
	}
	tile.Set(1, 1, noData)

	if v := AveragePixel(tile, 1, 5, 1, 1, noData); different(v, 4, testTolerance) {
		t.Errorf("centre = %g, want 4", v)
	}
	if v := AveragePixel(tile, 1, 9, 1, 1, noData); v != noData {
		t.Errorf("too few valid pixels gave %g", v)
	}
	// The box is clipped to the tile: pixels 0, 1, 3.
	if v := AveragePixel(tile, 1, 1, 0, 0, noData); different(v, 4./3, testTolerance) {
		t.Errorf("corner = %g, want 4/3", v)
	}

	tile.Set(1, 1, math.NaN())
	if v := AveragePixel(tile, 1, 1, 1, 1, math.NaN()); different(v, 4, testTolerance) {
		t.Errorf("NaN no-data centre = %g, want 4", v)
	}
	if v := AveragePixel(tile, 0, 1, 1, 1, math.NaN()); !math.IsNaN(v) {
		t.Errorf("no valid pixels gave %g, want NaN", v)
	}
}
