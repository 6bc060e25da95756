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
	"errors"
	"math"
	"testing"
)

func TestNewLandAerosol(t *testing.T) {
	dir := t.TempDir()
	writeTestLUT(t, dir, 8, 2)
	la, err := NewLandAerosol(&LandConfig{
		LUTPath:      dir,
		Sensors:      []*Sensor{testSensor()},
		Angstroem:    []float64{0.5, 1.5},
		NumAngstroem: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(la.LUTs) != 2 || la.LUTs[0].Model != 8 || la.LUTs[1].Model != 2 {
		t.Fatalf("default models not loaded in order: %+v", la.Models)
	}
	if len(la.Pairs) != 3 || la.Pairs[1].Value != 1 || la.Pairs[1].Index != [2]int{0, 1} {
		t.Errorf("pairs: have %+v", la.Pairs)
	}
}

func TestNewLandAerosolErrors(t *testing.T) {
	dir := t.TempDir()
	writeTestLUT(t, dir, 8)
	negative := -1.
	tests := []struct {
		name string
		cfg  LandConfig
		want error
	}{
		{"no path", LandConfig{}, ErrConfiguration},
		{"no axes", LandConfig{LUTPath: dir, AxesFile: "none.asc", Sensors: []*Sensor{testSensor()}}, ErrLoad},
		{"missing model", LandConfig{LUTPath: dir, Sensors: []*Sensor{testSensor()}}, ErrLoad},
		{"exponents", LandConfig{LUTPath: dir, Models: []int{8}, Angstroem: []float64{1, 2}, NumAngstroem: 2,
			Sensors: []*Sensor{testSensor()}}, ErrConfiguration},
		{"water vapour", LandConfig{LUTPath: dir, Models: []int{8}, WaterVapourColumn: &negative,
			Sensors: []*Sensor{testSensor()}}, ErrConfiguration},
	}
	for _, test := range tests {
		if _, err := NewLandAerosol(&test.cfg); !errors.Is(err, test.want) {
			t.Errorf("%s: have %v, want %v", test.name, err, test.want)
		}
	}
}

func TestExtractAll(t *testing.T) {
	dir := t.TempDir()
	writeTestLUT(t, dir, 8, 2)
	wv := 1.5
	la, err := NewLandAerosol(&LandConfig{
		LUTPath:           dir,
		Sensors:           []*Sensor{testSensor()},
		WaterVapourColumn: &wv,
	})
	if err != nil {
		t.Fatal(err)
	}
	obs := make([]Observation, 50)
	for i := range obs {
		obs[i] = Observation{
			Pressure: 1000 - float64(i),
			Ozone:    300,
			Geometry: Geometry{SZA: float64(i), SAA: 120, VZA: 10, VAA: float64(5 * i)},
		}
	}
	all, err := la.ExtractAll(context.Background(), "test", obs)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(obs) {
		t.Fatalf("have %d results, want %d", len(all), len(obs))
	}
	for i, o := range obs {
		want, err := la.Extract("test", o)
		if err != nil {
			t.Fatal(err)
		}
		for m := range want {
			for k, v := range want[m].Elements {
				if all[i][m].Elements[k] != v {
					t.Fatalf("observation %d model %d element %d: have %g, want %g", i, m, k, all[i][m].Elements[k], v)
				}
			}
		}
	}

	// Model 2 has a lower radiance offset than model 8.
	if all[0][1].Get(0, 0, 0) >= all[0][0].Get(0, 0, 0) {
		t.Error("model cubes are out of order")
	}
	// Water vapour column override reaches the correction.
	if la.LUTs[0].Gas.WaterVapourColumn != 1.5 {
		t.Errorf("water vapour column: have %g, want 1.5", la.LUTs[0].Gas.WaterVapourColumn)
	}
}

func TestNewLandAerosolZeroWaterVapour(t *testing.T) {
	dir := t.TempDir()
	writeTestLUT(t, dir, 8)
	zero := 0.
	la, err := NewLandAerosol(&LandConfig{LUTPath: dir, Models: []int{8},
		Sensors: []*Sensor{testSensor()}, WaterVapourColumn: &zero})
	if err != nil {
		t.Fatal(err)
	}
	if wv := la.LUTs[0].Gas.WaterVapourColumn; wv != 0 {
		t.Fatalf("water vapour column: have %g, want 0", wv)
	}
	dry, err := la.Extract("test", Observation{Pressure: 1000, Geometry: Geometry{SZA: 30, VZA: 10}})
	if err != nil {
		t.Fatal(err)
	}
	la.LUTs[0].Gas.WaterVapourColumn = DefaultWaterVapourColumn
	wet, err := la.Extract("test", Observation{Pressure: 1000, Geometry: Geometry{SZA: 30, VZA: 10}})
	if err != nil {
		t.Fatal(err)
	}
	// Channel 1 of the test sensor absorbs water vapour.
	if dry[0].Get(1, 0, 0) <= wet[0].Get(1, 0, 0) {
		t.Errorf("zero column should remove absorption: dry %g, wet %g", dry[0].Get(1, 0, 0), wet[0].Get(1, 0, 0))
	}
}

func TestExtractAllError(t *testing.T) {
	dir := t.TempDir()
	writeTestLUT(t, dir, 8)
	la, err := NewLandAerosol(&LandConfig{LUTPath: dir, Models: []int{8}, Sensors: []*Sensor{testSensor()}})
	if err != nil {
		t.Fatal(err)
	}
	obs := make([]Observation, 10)
	if _, err := la.ExtractAll(context.Background(), "MERIS", obs); !errors.Is(err, ErrConfiguration) {
		t.Errorf("have %v, want ErrConfiguration", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := la.ExtractAll(ctx, "TEST", obs); !errors.Is(err, context.Canceled) {
		t.Errorf("have %v, want context.Canceled", err)
	}
}

func TestBlend(t *testing.T) {
	dir := t.TempDir()
	writeTestLUT(t, dir, 8, 2)
	la, err := NewLandAerosol(&LandConfig{LUTPath: dir, Sensors: []*Sensor{testSensor()}})
	if err != nil {
		t.Fatal(err)
	}
	cubes, err := la.Extract("TEST", Observation{Pressure: 900, Ozone: 250, Geometry: Geometry{SZA: 20, VZA: 5}})
	if err != nil {
		t.Fatal(err)
	}
	p := AngstroemParameters{Index: [2]int{0, 1}, Weight: [2]float64{0.25, 0.75}}
	b, err := Blend(cubes, p)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range b.Elements {
		want := 0.25*cubes[0].Elements[i] + 0.75*cubes[1].Elements[i]
		if math.Abs(v-want) > 1.e-15 {
			t.Fatalf("element %d: have %g, want %g", i, v, want)
		}
	}
	if _, err := Blend(cubes, AngstroemParameters{Index: [2]int{0, 2}}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("have %v, want ErrConfiguration", err)
	}
}
