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
	"strings"

	"github.com/BurntSushi/toml"
)

// Sensor describes the spectral channels of an instrument and the
// reflectance tables computed for it.
type Sensor struct {
	// Name identifies the sensor, for example "MERIS". Names are matched
	// without regard to case.
	Name string

	// LUTWavelengths are the wavelength labels of the available tables,
	// as they appear in the table file names.
	LUTWavelengths []string

	// Wavelengths are the channel centre wavelengths [nm]. A table is
	// assigned to the channel whose centre is closest to its label.
	Wavelengths []float64

	// FileTemplate is the table path relative to the LUT root directory.
	// "[WAVELENGTH]" is replaced with the wavelength label and "[MODEL]"
	// with the two-digit aerosol model number.
	FileTemplate string

	// O3Slope and WVSlope are the per-channel ozone and water vapour
	// absorption slopes used by GasCorrection.
	O3Slope []float64
	WVSlope []float64

	// NominalSlopes marks O3Slope and WVSlope as approximate placeholder
	// values. Tables loaded for such a sensor log a warning.
	NominalSlopes bool
}

// Built-in sensor names.
const (
	MERIS = "MERIS"
	AATSR = "AATSR"
)

// DefaultSensors returns the built-in MERIS and AATSR channel tables.
// The channel wavelengths and table names are those of the reference
// tables, but the ozone and water vapour slopes are approximate
// placeholders, so the sensors are marked with NominalSlopes. Provide fitted
// slopes through ReadSensors for production use.
func DefaultSensors() []*Sensor {
	return []*Sensor{
		{
			Name: MERIS,
			LUTWavelengths: []string{"00412.00", "00442.00", "00490.00", "00510.00", "00560.00",
				"00620.00", "00665.00", "00681.00", "00708.00", "00753.00", "00778.00",
				"00865.00", "00885.00"},
			Wavelengths: []float64{412.7, 442.6, 489.9, 509.8, 559.7, 619.6, 664.6, 680.8,
				708.3, 753.4, 778.4, 864.9, 884.9},
			FileTemplate: "MERIS/MERIS_[WAVELENGTH]_[MODEL]",
			O3Slope: []float64{-0.001, -0.008, -0.03, -0.045, -0.10, -0.13, -0.05, -0.04,
				-0.025, -0.01, -0.008, -0.002, -0.0015},
			WVSlope: []float64{0, 0, 0, 0, 0, -0.001, -0.0005, -0.0005, -0.01, 0, 0,
				-0.003, -0.005},
			NominalSlopes: true,
		},
		{
			Name:           AATSR,
			LUTWavelengths: []string{"00550.00", "00665.00", "00865.00", "01610.00"},
			Wavelengths:    []float64{550, 665, 865, 1610},
			FileTemplate:   "AATSR/AATSR_[WAVELENGTH]_[MODEL]",
			O3Slope:        []float64{-0.09, -0.05, -0.002, 0},
			WVSlope:        []float64{0, -0.0005, -0.003, -0.004},
			NominalSlopes:  true,
		},
	}
}

// Check returns an error if the sensor's channel tables are inconsistent.
func (s *Sensor) Check() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("synaer: sensor has no name: %w", ErrConfiguration)
	case len(s.Wavelengths) == 0:
		return fmt.Errorf("synaer: sensor %s has no channels: %w", s.Name, ErrConfiguration)
	case len(s.O3Slope) != len(s.Wavelengths) || len(s.WVSlope) != len(s.Wavelengths):
		return fmt.Errorf("synaer: sensor %s has %d channels but %d ozone and %d water vapour slopes: %w",
			s.Name, len(s.Wavelengths), len(s.O3Slope), len(s.WVSlope), ErrConfiguration)
	case !strings.Contains(s.FileTemplate, "[WAVELENGTH]"):
		return fmt.Errorf("synaer: sensor %s file template %q has no [WAVELENGTH] field: %w",
			s.Name, s.FileTemplate, ErrConfiguration)
	}
	return nil
}

// TablePath returns the path of the table for the given wavelength label
// and aerosol model, relative to the LUT root directory.
func (s *Sensor) TablePath(label string, model int) string {
	r := strings.NewReplacer("[WAVELENGTH]", label, "[MODEL]", fmt.Sprintf("%02d", model))
	return r.Replace(s.FileTemplate)
}

// ReadSensors reads sensor definitions from a TOML file with one
// [[Sensor]] table per sensor, with keys named after the Sensor fields.
func ReadSensors(path string) ([]*Sensor, error) {
	var f struct {
		Sensor []*Sensor
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("synaer: reading sensor file %s: %v: %w", path, err, ErrConfiguration)
	}
	if len(f.Sensor) == 0 {
		return nil, fmt.Errorf("synaer: sensor file %s defines no sensors: %w", path, ErrConfiguration)
	}
	for _, s := range f.Sensor {
		if err := s.Check(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return f.Sensor, nil
}

// sensorKey normalizes a sensor name for lookup.
func sensorKey(name string) string { return strings.ToLower(name) }
