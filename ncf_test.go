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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/kr/pretty"
)

func TestReflectanceNCFRoundTrip(t *testing.T) {
	data := sparse.ZerosDense(2, 3, 4)
	for i := range data.Elements {
		data.Elements[i] = float64(float32(0.01 * float64(i+1)))
	}
	want := &ReflectanceCube{
		Sensor:      MERIS,
		Model:       8,
		Geometry:    Geometry{SZA: 35, SAA: 140, VZA: 12, VAA: 280},
		Pressure:    980,
		Ozone:       320,
		Wavelengths: []float64{412.7, 442.6},
		Albedo:      []float64{0, 0.1, 0.3},
		AOT:         []float64{0, 0.5, 1, 2},
		Data:        data,
	}
	path := filepath.Join(t.TempDir(), "cube.ncf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteReflectanceNCF(f, want); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	have, err := ReadReflectanceNCF(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have.Data.Shape, want.Data.Shape) {
		t.Errorf("shape: have %v, want %v", have.Data.Shape, want.Data.Shape)
	}
	if !reflect.DeepEqual(have.Data.Elements, want.Data.Elements) {
		t.Errorf("data: have %v, want %v", have.Data.Elements, want.Data.Elements)
	}
	have.Data, want.Data = nil, nil
	if diff := pretty.Diff(have, want); len(diff) > 0 {
		t.Errorf("cubes differ:\n%s", diff)
	}
}

func TestBlendedReflectanceNCFRoundTrip(t *testing.T) {
	data := sparse.ZerosDense(1, 1, 2)
	data.Elements = []float64{0.5, 0.25}
	want := &ReflectanceCube{
		Sensor:      AATSR,
		Model:       2,
		Wavelengths: []float64{550},
		Albedo:      []float64{0.1},
		AOT:         []float64{0, 1},
		Data:        data,
		Blend:       &ModelBlend{Angstroem: 1, Models: [2]int{2, 8}, Weights: [2]float64{0.75, 0.25}},
	}
	path := filepath.Join(t.TempDir(), "blend.ncf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteReflectanceNCF(f, want); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	have, err := ReadReflectanceNCF(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have.Data.Elements, want.Data.Elements) {
		t.Errorf("data: have %v, want %v", have.Data.Elements, want.Data.Elements)
	}
	if diff := pretty.Diff(have.Blend, want.Blend); len(diff) > 0 {
		t.Errorf("blend differs:\n%s", diff)
	}
}

func TestWriteReflectanceNCFShape(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "cube.ncf"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	c := &ReflectanceCube{
		Wavelengths: []float64{1},
		Albedo:      []float64{1, 2},
		AOT:         []float64{1},
		Data:        sparse.ZerosDense(1, 1, 1),
	}
	if err := WriteReflectanceNCF(f, c); !errors.Is(err, ErrConfiguration) {
		t.Errorf("have %v, want ErrConfiguration", err)
	}
}
