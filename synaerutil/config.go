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

package synaerutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/synaer"
	"github.com/spf13/cast"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LandConfig builds a land aerosol configuration from cfg.
func LandConfig(cfg *viper.Viper) (*synaer.LandConfig, error) {
	models, err := toIntSliceE(cfg.Get("Models"))
	if err != nil {
		return nil, fmt.Errorf("Models: %v", err)
	}
	ang, err := toFloat64SliceE(cfg.Get("Angstroem"))
	if err != nil {
		return nil, fmt.Errorf("Angstroem: %v", err)
	}
	sensors, err := loadSensors(os.ExpandEnv(cfg.GetString("SensorFile")))
	if err != nil {
		return nil, err
	}
	wv := cfg.GetFloat64("WaterVapourColumn")
	return &synaer.LandConfig{
		LUTPath:           os.ExpandEnv(cfg.GetString("LUTPath")),
		AxesFile:          os.ExpandEnv(cfg.GetString("AxesFile")),
		Models:            models,
		Angstroem:         ang,
		NumAngstroem:      cfg.GetInt("NumAngstroem"),
		Sensors:           sensors,
		WaterVapourColumn: &wv,
	}, nil
}

// observation returns the pixel state specified in cfg.
func observation(cfg *viper.Viper) synaer.Observation {
	return synaer.Observation{
		Pressure: cfg.GetFloat64("Pressure"),
		Ozone:    cfg.GetFloat64("Ozone"),
		Geometry: synaer.Geometry{
			SZA: cfg.GetFloat64("SZA"),
			SAA: cfg.GetFloat64("SAA"),
			VZA: cfg.GetFloat64("VZA"),
			VAA: cfg.GetFloat64("VAA"),
		},
	}
}

// loadSensors reads the sensor table file, or returns the built-in
// sensors if no file is given.
func loadSensors(path string) ([]*synaer.Sensor, error) {
	if path == "" {
		return synaer.DefaultSensors(), nil
	}
	return synaer.ReadSensors(path)
}

// checkOutputFile expands environment variables in the output file
// template, makes sure its directory exists and returns the path for the
// given tag. "[MODEL]" in the template is replaced by the tag; if it is
// missing the tag is added before the extension.
func checkOutputFile(template, tag string) (string, error) {
	if template == "" {
		return "", fmt.Errorf("synaer: you need to specify an output file (for example: OutputFile=\"reflectance_[MODEL].ncf\")")
	}
	template = os.ExpandEnv(template)
	var f string
	if strings.Contains(template, "[MODEL]") {
		f = strings.Replace(template, "[MODEL]", tag, -1)
	} else {
		ext := filepath.Ext(template)
		f = strings.TrimSuffix(template, ext) + "_" + tag + ext
	}
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("synaer: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// setLogging sets the level of the standard logger and, if logFile is not
// empty, copies log output to a rotating log file.
func setLogging(w io.Writer, level, logFile string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("synaer: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(lvl)
	if logFile == "" {
		logrus.SetOutput(w)
	} else {
		logrus.SetOutput(io.MultiWriter(w, &lumberjack.Logger{
			Filename:   os.ExpandEnv(logFile),
			MaxSize:    100, // megabytes
			MaxBackups: 3,
		}))
	}
	synaer.Log = logrus.StandardLogger()
	return nil
}

// toIntSliceE converts a configuration value to a slice of integers,
// accounting for the fact that it might be a string if it was set from a
// command line argument or an environment variable.
func toIntSliceE(s interface{}) ([]int, error) {
	if v, ok := s.([]int); ok {
		return v, nil
	}
	vals, err := toSlice(s)
	if err != nil {
		return nil, err
	}
	o := make([]int, len(vals))
	for i, val := range vals {
		if o[i], err = cast.ToIntE(val); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// toFloat64SliceE is like toIntSliceE, for floating point numbers.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	if v, ok := s.([]float64); ok {
		return v, nil
	}
	vals, err := toSlice(s)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(vals))
	for i, val := range vals {
		if o[i], err = cast.ToFloat64E(val); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func toSlice(s interface{}) ([]interface{}, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	case []string:
		o := make([]interface{}, 0, len(v))
		for _, f := range v {
			if f = strings.TrimSpace(f); f != "" {
				o = append(o, f)
			}
		}
		return o, nil
	case string:
		return toSlice(strings.Split(strings.Trim(strings.TrimSpace(v), "[]"), ","))
	default:
		return nil, fmt.Errorf("invalid list value %#v", s)
	}
}
