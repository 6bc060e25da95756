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
	"path/filepath"
	"strconv"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Geometry is the sun and view geometry of an observation, in degrees.
type Geometry struct {
	SZA, SAA float64 // solar zenith and azimuth
	VZA, VAA float64 // view zenith and azimuth
}

// RelativeAzimuth returns the relative azimuth used as a table coordinate,
// folded so that 0 is forward scattering and 180 is backscattering.
func RelativeAzimuth(saa, vaa float64) float64 {
	r := math.Abs(saa - vaa)
	if r > 180 {
		return 180 - (360 - r)
	}
	return 180 - r
}

// ReflectanceLUT holds the simulated top-of-atmosphere radiance tables of
// one aerosol model, one table per sensor channel. It is immutable after
// loading and may be used concurrently.
type ReflectanceLUT struct {
	// Model is the aerosol model number.
	Model int

	Axes *Axes

	// Gas holds the absorption corrections applied by SubExtract.
	Gas *GasCorrection

	sensors map[string]*Sensor
	tables  map[string][]*LookupTable
}

// LoadReflectanceLUT reads the tables of the given aerosol model for every
// sensor. Table paths are built from each sensor's FileTemplate relative to
// root, and every table must have one value per node of axes. Each table is
// assigned to the channel whose centre wavelength is closest to the
// wavelength in its label.
func LoadReflectanceLUT(root string, axes *Axes, model int, sensors ...*Sensor) (*ReflectanceLUT, error) {
	if err := axes.Complete(); err != nil {
		return nil, fmt.Errorf("synaer: loading tables for model %02d: %w", model, err)
	}
	l := &ReflectanceLUT{
		Model:   model,
		Axes:    axes,
		Gas:     NewGasCorrection(sensors...),
		sensors: make(map[string]*Sensor),
		tables:  make(map[string][]*LookupTable),
	}
	n := axes.Size()
	for _, s := range sensors {
		if err := s.Check(); err != nil {
			return nil, err
		}
		if s.NominalSlopes {
			Log.WithFields(logrus.Fields{
				"model":  model,
				"sensor": s.Name,
			}).Warn("synaer is using placeholder gas absorption slopes; provide a sensor file with fitted slopes")
		}
		tables := make([]*LookupTable, len(s.Wavelengths))
		for _, label := range s.LUTWavelengths {
			wvl, err := strconv.ParseFloat(label, 64)
			if err != nil {
				return nil, fmt.Errorf("synaer: sensor %s: invalid wavelength label %q: %w", s.Name, label, ErrConfiguration)
			}
			iWvl := NearestIndex(wvl, s.Wavelengths)
			path := filepath.Join(root, s.TablePath(label, model))
			v, err := LoadCube(path, n)
			if err != nil {
				return nil, err
			}
			lut, err := NewLookupTable(v, axes.Slice()...)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			tables[iWvl] = lut
			Log.WithFields(logrus.Fields{
				"model":      model,
				"sensor":     s.Name,
				"wavelength": s.Wavelengths[iWvl],
				"file":       path,
			}).Debug("synaer loaded reflectance table")
		}
		l.sensors[sensorKey(s.Name)] = s
		l.tables[sensorKey(s.Name)] = tables
	}
	return l, nil
}

// Sensor returns the named sensor.
func (l *ReflectanceLUT) Sensor(name string) (*Sensor, error) {
	s, ok := l.sensors[sensorKey(name)]
	if !ok {
		return nil, fmt.Errorf("synaer: model %02d: unknown sensor %q: %w", l.Model, name, ErrConfiguration)
	}
	return s, nil
}

// Table returns the table for channel iWvl of the named sensor.
func (l *ReflectanceLUT) Table(sensor string, iWvl int) (*LookupTable, error) {
	s, err := l.Sensor(sensor)
	if err != nil {
		return nil, err
	}
	tables := l.tables[sensorKey(sensor)]
	if iWvl < 0 || iWvl >= len(tables) || tables[iWvl] == nil {
		return nil, fmt.Errorf("synaer: model %02d: no table for %s channel %d: %w",
			l.Model, s.Name, iWvl, ErrConfiguration)
	}
	return tables[iWvl], nil
}

// SubExtract evaluates the tables of the named sensor at the given surface
// pressure [hPa], ozone column [DU] and geometry, for every albedo and AOT
// node. The result has shape [len(wvl)][albedo][AOT]; entry i along the
// first dimension is channel i of the sensor. Values are reflectances,
// corrected for ozone and water vapour absorption.
func (l *ReflectanceLUT) SubExtract(sensor string, pressure, ozone float64, g Geometry, wvl []float64) (*sparse.DenseArray, error) {
	s, err := l.Sensor(sensor)
	if err != nil {
		return nil, err
	}
	tables := make([]*LookupTable, len(wvl))
	for i := range wvl {
		if tables[i], err = l.Table(sensor, i); err != nil {
			return nil, err
		}
	}

	relAzi := RelativeAzimuth(g.SAA, g.VAA)
	amf := AirMassFactor(g.SZA, g.VZA)
	rad2rfl := math.Pi / math.Cos(g.SZA*math.Pi/180)
	logPres := math.Log(pressure)
	albedo, aot := l.Axes.Albedo, l.Axes.AOT

	out := sparse.ZerosDense(len(wvl), len(albedo), len(aot))
	for iWl, lut := range tables {
		o3, err := l.Gas.Correction(Ozone, s.Name, iWl, ozone, amf)
		if err != nil {
			return nil, err
		}
		wv, err := l.Gas.Correction(WaterVapour, s.Name, iWl, l.Gas.WaterVapourColumn, amf)
		if err != nil {
			return nil, err
		}
		for iAlb, alb := range albedo {
			for iAot, tau := range aot {
				v, err := lut.Value(logPres, g.VZA, relAzi, g.SZA, tau, alb)
				if err != nil {
					return nil, err
				}
				out.Elements[(iWl*len(albedo)+iAlb)*len(aot)+iAot] = rad2rfl * v * o3 * wv
			}
		}
	}
	return out, nil
}
