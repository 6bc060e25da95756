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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ReflectanceCube is an extracted reflectance cube together with the
// inputs it was extracted for.
type ReflectanceCube struct {
	Sensor   string
	Model    int
	Geometry Geometry
	Pressure float64 // hPa
	Ozone    float64 // DU

	Wavelengths []float64 // nm
	Albedo      []float64
	AOT         []float64

	// Data has shape [len(Wavelengths)][len(Albedo)][len(AOT)].
	Data *sparse.DenseArray

	// Blend is set for cubes mixed from two models. Model is then the
	// first model of the pair.
	Blend *ModelBlend
}

// ModelBlend describes a cube mixed from the cubes of two aerosol models
// for a target Angstrom exponent.
type ModelBlend struct {
	Angstroem float64
	Models    [2]int
	Weights   [2]float64
}

var reflectanceVars = []struct {
	name, description, units string
	dims                     []string
}{
	{"reflectance", "Gas-corrected top of atmosphere reflectance", "1", []string{"wavelength", "albedo", "aot"}},
	{"wavelength", "Channel centre wavelength", "nm", []string{"wavelength"}},
	{"albedo", "Surface albedo", "1", []string{"albedo"}},
	{"aot", "Aerosol optical thickness", "1", []string{"aot"}},
}

// WriteReflectanceNCF writes c to netcdf file w.
func WriteReflectanceNCF(w *os.File, c *ReflectanceCube) error {
	shape := []int{len(c.Wavelengths), len(c.Albedo), len(c.AOT)}
	if shape[0] == 0 || shape[1] == 0 || shape[2] == 0 {
		return fmt.Errorf("synaer: reflectance cube has an empty axis %v: %w", shape, ErrConfiguration)
	}
	if c.Data == nil || len(c.Data.Elements) != shape[0]*shape[1]*shape[2] {
		return fmt.Errorf("synaer: reflectance cube does not match its axes %v: %w", shape, ErrConfiguration)
	}
	h := cdf.NewHeader([]string{"wavelength", "albedo", "aot"}, shape)
	h.AddAttribute("", "comment", "Synaer extracted reflectance cube")
	h.AddAttribute("", "sensor", c.Sensor)
	h.AddAttribute("", "model", []int32{int32(c.Model)})
	g := c.Geometry
	h.AddAttribute("", "geometry", []float64{g.SZA, g.SAA, g.VZA, g.VAA})
	h.AddAttribute("", "pressure", []float64{c.Pressure})
	h.AddAttribute("", "ozone", []float64{c.Ozone})
	h.AddAttribute("", "version", Version)
	if b := c.Blend; b != nil {
		h.AddAttribute("", "angstroem", []float64{b.Angstroem})
		h.AddAttribute("", "blend_models", []int32{int32(b.Models[0]), int32(b.Models[1])})
		h.AddAttribute("", "blend_weights", []float64{b.Weights[0], b.Weights[1]})
	}

	for _, v := range reflectanceVars {
		if v.name == "reflectance" {
			h.AddVariable(v.name, v.dims, []float32{0})
		} else {
			h.AddVariable(v.name, v.dims, []float64{0})
		}
		h.AddAttribute(v.name, "description", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("synaer: creating netcdf file: %w", err)
	}
	data32 := make([]float32, len(c.Data.Elements))
	for i, e := range c.Data.Elements {
		data32[i] = float32(e)
	}
	for _, v := range []struct {
		name string
		data interface{}
	}{
		{"reflectance", data32},
		{"wavelength", c.Wavelengths},
		{"albedo", c.Albedo},
		{"aot", c.AOT},
	} {
		end := f.Header.Lengths(v.name)
		start := make([]int, len(end))
		if _, err := f.Writer(v.name, start, end).Write(v.data); err != nil {
			return fmt.Errorf("synaer: writing variable %s to netcdf file: %w", v.name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// ReadReflectanceNCF reads a reflectance cube written by
// WriteReflectanceNCF.
func ReadReflectanceNCF(rw cdf.ReaderWriterAt) (*ReflectanceCube, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("synaer: opening netcdf file: %v: %w", err, ErrLoad)
	}
	c := new(ReflectanceCube)
	var ok bool
	if c.Sensor, ok = f.Header.GetAttribute("", "sensor").(string); !ok {
		return nil, fmt.Errorf("synaer: netcdf file has no sensor attribute: %w", ErrLoad)
	}
	model, ok := f.Header.GetAttribute("", "model").([]int32)
	if !ok || len(model) != 1 {
		return nil, fmt.Errorf("synaer: netcdf file has no model attribute: %w", ErrLoad)
	}
	c.Model = int(model[0])
	g, ok := f.Header.GetAttribute("", "geometry").([]float64)
	if !ok || len(g) != 4 {
		return nil, fmt.Errorf("synaer: netcdf file has no geometry attribute: %w", ErrLoad)
	}
	c.Geometry = Geometry{SZA: g[0], SAA: g[1], VZA: g[2], VAA: g[3]}
	for _, a := range []struct {
		name string
		v    *float64
	}{{"pressure", &c.Pressure}, {"ozone", &c.Ozone}} {
		x, ok := f.Header.GetAttribute("", a.name).([]float64)
		if !ok || len(x) != 1 {
			return nil, fmt.Errorf("synaer: netcdf file has no %s attribute: %w", a.name, ErrLoad)
		}
		*a.v = x[0]
	}
	if ang, ok := f.Header.GetAttribute("", "angstroem").([]float64); ok && len(ang) == 1 {
		models, ok := f.Header.GetAttribute("", "blend_models").([]int32)
		if !ok || len(models) != 2 {
			return nil, fmt.Errorf("synaer: blended netcdf file has no blend_models attribute: %w", ErrLoad)
		}
		weights, ok := f.Header.GetAttribute("", "blend_weights").([]float64)
		if !ok || len(weights) != 2 {
			return nil, fmt.Errorf("synaer: blended netcdf file has no blend_weights attribute: %w", ErrLoad)
		}
		c.Blend = &ModelBlend{
			Angstroem: ang[0],
			Models:    [2]int{int(models[0]), int(models[1])},
			Weights:   [2]float64{weights[0], weights[1]},
		}
	}

	for _, v := range []struct {
		name string
		dst  *[]float64
	}{{"wavelength", &c.Wavelengths}, {"albedo", &c.Albedo}, {"aot", &c.AOT}} {
		r := f.Reader(v.name, nil, nil)
		buf := r.Zero(-1)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("synaer: reading netcdf variable %s: %v: %w", v.name, err, ErrLoad)
		}
		x, ok := buf.([]float64)
		if !ok {
			return nil, fmt.Errorf("synaer: netcdf variable %s is not double precision: %w", v.name, ErrLoad)
		}
		*v.dst = x
	}

	dims := f.Header.Lengths("reflectance")
	if len(dims) != 3 {
		return nil, fmt.Errorf("synaer: netcdf file has no 3-D reflectance variable: %w", ErrLoad)
	}
	r := f.Reader("reflectance", nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("synaer: reading netcdf variable reflectance: %v: %w", err, ErrLoad)
	}
	data32, ok := buf.([]float32)
	if !ok {
		return nil, fmt.Errorf("synaer: netcdf variable reflectance is not single precision: %w", ErrLoad)
	}
	c.Data = sparse.ZerosDense(dims...)
	for i, v := range data32 {
		c.Data.Elements[i] = float64(v)
	}
	return c, nil
}
