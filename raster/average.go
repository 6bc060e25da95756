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
	"image"
	"math"
)

// AveragePixel returns the mean of the valid pixels in the square of
// (2·half+1)² pixels centred on (x, y), clipped to the tile. A pixel is
// valid when it is not equal to noData; a NaN noData matches NaN pixels.
// If fewer than minAverages pixels are valid the result is noData.
func AveragePixel(t *Tile, half, minAverages, x, y int, noData float64) float64 {
	box := image.Rect(x-half, y-half, x+half+1, y+half+1).Intersect(t.Rect)
	var sum float64
	var n int
	for iy := box.Min.Y; iy < box.Max.Y; iy++ {
		for ix := box.Min.X; ix < box.Max.X; ix++ {
			v := t.At(ix, iy)
			if v == noData || math.IsNaN(v) && math.IsNaN(noData) {
				continue
			}
			sum += v
			n++
		}
	}
	if n < minAverages || n == 0 {
		return noData
	}
	return sum / float64(n)
}
