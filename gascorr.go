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
)

// Gas is an absorbing gas whose effect on the simulated reflectances is
// corrected for.
type Gas int

// Absorbing gases.
const (
	Ozone Gas = iota
	WaterVapour
)

func (g Gas) String() string {
	switch g {
	case Ozone:
		return "ozone"
	case WaterVapour:
		return "water vapour"
	default:
		return fmt.Sprintf("Gas(%d)", int(g))
	}
}

// DefaultWaterVapourColumn is the water vapour column [g/cm²] assumed when
// no measurement is available.
const DefaultWaterVapourColumn = 2.0

// GasCorrection computes multiplicative transmission corrections for
// ozone and water vapour absorption from per-channel slopes.
type GasCorrection struct {
	// WaterVapourColumn is the column [g/cm²] used for water vapour
	// corrections during table extraction.
	WaterVapourColumn float64

	sensors map[string]*Sensor
}

// NewGasCorrection returns a correction model for the given sensors.
func NewGasCorrection(sensors ...*Sensor) *GasCorrection {
	c := &GasCorrection{
		WaterVapourColumn: DefaultWaterVapourColumn,
		sensors:           make(map[string]*Sensor),
	}
	for _, s := range sensors {
		c.sensors[sensorKey(s.Name)] = s
	}
	return c
}

// Correction returns the transmission correction factor for the given gas,
// sensor and channel index. For ozone, column is in Dobson units and the
// factor is exp(column/1000 · slope · amf). For water vapour, column is in
// g/cm² and the factor is exp(column · slope); amf is not used.
func (c *GasCorrection) Correction(kind Gas, sensor string, iWvl int, column, amf float64) (float64, error) {
	s, ok := c.sensors[sensorKey(sensor)]
	if !ok {
		return math.NaN(), fmt.Errorf("synaer: gas correction: unknown sensor %q: %w", sensor, ErrConfiguration)
	}
	if iWvl < 0 || iWvl >= len(s.Wavelengths) {
		return math.NaN(), fmt.Errorf("synaer: gas correction: sensor %s has no channel %d: %w",
			s.Name, iWvl, ErrConfiguration)
	}
	switch kind {
	case Ozone:
		return math.Exp(column / 1000 * s.O3Slope[iWvl] * amf), nil
	case WaterVapour:
		return math.Exp(column * s.WVSlope[iWvl]), nil
	default:
		return math.NaN(), fmt.Errorf("synaer: gas correction: unsupported gas %v: %w", kind, ErrConfiguration)
	}
}

// AirMassFactor returns the geometric air mass factor
// (1/cos(sza) + 1/cos(vza)) / 2 for zenith angles in degrees.
func AirMassFactor(sza, vza float64) float64 {
	return (1/math.Cos(sza*math.Pi/180) + 1/math.Cos(vza*math.Pi/180)) / 2
}
