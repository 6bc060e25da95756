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
	"context"
	"fmt"
	"math"
	"path/filepath"
	"runtime"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultAxesFile is the name of the axis-definition file in the LUT
// root directory.
const DefaultAxesFile = "lutDimensions.asc"

// DefaultModels are the land aerosol models loaded when none are given.
var DefaultModels = []int{8, 2}

// LandConfig holds the settings for a land aerosol retrieval context.
type LandConfig struct {
	// LUTPath is the root directory of the reflectance tables.
	LUTPath string

	// AxesFile is the axis-definition file. Relative paths are relative
	// to LUTPath. The default is DefaultAxesFile.
	AxesFile string

	// Models are the aerosol models to load. The default is DefaultModels.
	Models []int

	// Angstroem optionally holds the Angstrom exponent of each model in
	// Models. When set, NumAngstroem model pairs are computed.
	Angstroem    []float64
	NumAngstroem int

	// Sensors are the sensors to load tables for. The default is
	// DefaultSensors().
	Sensors []*Sensor

	// WaterVapourColumn [g/cm²] overrides DefaultWaterVapourColumn when
	// not nil. Zero is allowed and disables the water vapour correction;
	// negative columns are rejected.
	WaterVapourColumn *float64
}

// LandAerosol holds every table needed by a land aerosol retrieval. It is
// fully loaded by NewLandAerosol and read-only afterwards, so its methods
// may be called concurrently.
type LandAerosol struct {
	Axes *Axes

	// LUTs holds one table bank per model, in the order of Models.
	LUTs   []*ReflectanceLUT
	Models []int

	// Pairs holds the Angstrom model pairs, if exponents were configured.
	// Pair indices refer to Models.
	Pairs []AngstroemParameters
}

// NewLandAerosol loads the axes and the reflectance tables of every
// configured model and sensor.
func NewLandAerosol(cfg *LandConfig) (*LandAerosol, error) {
	if cfg.LUTPath == "" {
		return nil, fmt.Errorf("synaer: no LUT path given: %w", ErrConfiguration)
	}
	if wv := cfg.WaterVapourColumn; wv != nil && (*wv < 0 || math.IsNaN(*wv)) {
		return nil, fmt.Errorf("synaer: invalid water vapour column %g: %w", *wv, ErrConfiguration)
	}
	axesFile := cfg.AxesFile
	if axesFile == "" {
		axesFile = DefaultAxesFile
	}
	if !filepath.IsAbs(axesFile) {
		axesFile = filepath.Join(cfg.LUTPath, axesFile)
	}
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	sensors := cfg.Sensors
	if len(sensors) == 0 {
		sensors = DefaultSensors()
	}

	axes, err := LoadAxes(axesFile)
	if err != nil {
		return nil, err
	}
	if err := axes.Complete(); err != nil {
		return nil, fmt.Errorf("%s: %w", axesFile, err)
	}

	la := &LandAerosol{Axes: axes, Models: models}
	if len(cfg.Angstroem) > 0 {
		if len(cfg.Angstroem) != len(models) {
			return nil, fmt.Errorf("synaer: %d Angstrom exponents given for %d models: %w",
				len(cfg.Angstroem), len(models), ErrConfiguration)
		}
		if la.Pairs, err = FindModelPairs(cfg.Angstroem, cfg.NumAngstroem); err != nil {
			return nil, err
		}
	}
	for _, m := range models {
		lut, err := LoadReflectanceLUT(cfg.LUTPath, axes, m, sensors...)
		if err != nil {
			return nil, err
		}
		if cfg.WaterVapourColumn != nil {
			lut.Gas.WaterVapourColumn = *cfg.WaterVapourColumn
		}
		la.LUTs = append(la.LUTs, lut)
	}
	Log.WithFields(logrus.Fields{
		"models":  models,
		"sensors": len(sensors),
		"path":    cfg.LUTPath,
	}).Info("synaer loaded land aerosol tables")
	return la, nil
}

// Observation is the state of the atmosphere and the geometry at one
// pixel.
type Observation struct {
	Pressure float64 // surface pressure [hPa]
	Ozone    float64 // ozone column [DU]
	Geometry
}

// Extract returns the corrected reflectance cube of every channel of the
// named sensor for each model, in the order of Models.
func (la *LandAerosol) Extract(sensor string, obs Observation) ([]*sparse.DenseArray, error) {
	out := make([]*sparse.DenseArray, len(la.LUTs))
	for i, lut := range la.LUTs {
		s, err := lut.Sensor(sensor)
		if err != nil {
			return nil, err
		}
		if out[i], err = lut.SubExtract(sensor, obs.Pressure, obs.Ozone, obs.Geometry, s.Wavelengths); err != nil {
			return nil, fmt.Errorf("synaer: model %02d: %w", lut.Model, err)
		}
	}
	return out, nil
}

// ExtractAll runs Extract for every observation in parallel. Result i
// holds the cubes of observation i. The first error cancels the remaining
// work.
func (la *LandAerosol) ExtractAll(ctx context.Context, sensor string, obs []Observation) ([][]*sparse.DenseArray, error) {
	out := make([][]*sparse.DenseArray, len(obs))
	eg, ctx := errgroup.WithContext(ctx)

	ch := make(chan int)
	eg.Go(func() error {
		defer close(ch)
		for i := range obs {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case ch <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for n := runtime.GOMAXPROCS(0); n > 0; n-- {
		eg.Go(func() error {
			for i := range ch {
				cubes, err := la.Extract(sensor, obs[i])
				if err != nil {
					return fmt.Errorf("synaer: observation %d: %w", i, err)
				}
				out[i] = cubes
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Blend combines the cubes of two models with the weights of an Angstrom
// model pair. p.Index refers to positions in cubes.
func Blend(cubes []*sparse.DenseArray, p AngstroemParameters) (*sparse.DenseArray, error) {
	for _, i := range p.Index {
		if i < 0 || i >= len(cubes) {
			return nil, fmt.Errorf("synaer: model pair index %d out of range [0, %d): %w", i, len(cubes), ErrConfiguration)
		}
	}
	lo, hi := cubes[p.Index[0]], cubes[p.Index[1]]
	if len(lo.Elements) != len(hi.Elements) {
		return nil, fmt.Errorf("synaer: blending cubes of shapes %v and %v: %w", lo.Shape, hi.Shape, ErrConfiguration)
	}
	b := sparse.ZerosDense(append([]int(nil), lo.Shape...)...)
	for i := range b.Elements {
		b.Elements[i] = p.Weight[0]*lo.Elements[i] + p.Weight[1]*hi.Elements[i]
	}
	return b, nil
}
