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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
)

func TestDefaultSensors(t *testing.T) {
	for _, s := range DefaultSensors() {
		if err := s.Check(); err != nil {
			t.Error(err)
		}
		if len(s.LUTWavelengths) != len(s.Wavelengths) {
			t.Errorf("%s: %d table labels for %d channels", s.Name, len(s.LUTWavelengths), len(s.Wavelengths))
		}
	}
}

func TestTablePath(t *testing.T) {
	s := DefaultSensors()[0]
	have := s.TablePath("00412.00", 8)
	want := filepath.FromSlash("MERIS/MERIS_00412.00_08")
	if filepath.FromSlash(have) != want {
		t.Errorf("have %s, want %s", have, want)
	}
}

func TestReadSensors(t *testing.T) {
	const cfg = `
[[Sensor]]
Name = "AATSR"
LUTWavelengths = ["00550.00", "00665.00"]
Wavelengths = [550.0, 665.0]
FileTemplate = "aatsr/[MODEL]/[WAVELENGTH].bin"
O3Slope = [-0.09, -0.05]
WVSlope = [0.0, -0.0005]
`
	path := filepath.Join(t.TempDir(), "sensors.toml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	have, err := ReadSensors(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []*Sensor{{
		Name:           "AATSR",
		LUTWavelengths: []string{"00550.00", "00665.00"},
		Wavelengths:    []float64{550, 665},
		FileTemplate:   "aatsr/[MODEL]/[WAVELENGTH].bin",
		O3Slope:        []float64{-0.09, -0.05},
		WVSlope:        []float64{0, -0.0005},
	}}
	if diff := pretty.Diff(have, want); len(diff) > 0 {
		t.Errorf("sensors differ:\n%s", diff)
	}
	if p := have[0].TablePath("00665.00", 2); p != "aatsr/02/00665.00.bin" {
		t.Errorf("path: have %s", p)
	}
}

func TestReadSensorsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, cfg := range map[string]string{
		"empty":    "",
		"slopes":   "[[Sensor]]\nName = \"X\"\nWavelengths = [1.0, 2.0]\nFileTemplate = \"[WAVELENGTH]\"\nO3Slope = [0.0]\nWVSlope = [0.0, 0.0]\n",
		"template": "[[Sensor]]\nName = \"X\"\nWavelengths = [1.0]\nFileTemplate = \"x\"\nO3Slope = [0.0]\nWVSlope = [0.0]\n",
		"syntax":   "[[Sensor]\n",
	} {
		path := filepath.Join(dir, name+".toml")
		if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadSensors(path); !errors.Is(err, ErrConfiguration) {
			t.Errorf("%s: have %v, want ErrConfiguration", name, err)
		}
	}
}
