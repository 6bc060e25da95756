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
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/raster"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Synaer.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to a rotating file that receives a copy of
              the log messages. If empty, messages are only written to the
              terminal.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print: one of
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LUTPath",
			usage: `
              LUTPath is the root directory of the reflectance lookup tables.`,
			defaultVal: "${SYNAER_AUXDATA}/lut",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "AxesFile",
			usage: `
              AxesFile is the lookup table axis-definition file. Relative
              paths are relative to LUTPath.`,
			defaultVal: synaer.DefaultAxesFile,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "SensorFile",
			usage: `
              SensorFile is a TOML file describing the sensor channels,
              gas absorption slopes and lookup table names. If empty, the
              built-in MERIS and AATSR tables are used; their ozone and water
              vapour slopes are approximate placeholders, so gas corrections
              are only indicative and a warning is logged.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Sensor",
			usage: `
              Sensor is the name of the sensor to extract reflectances for.`,
			defaultVal: synaer.MERIS,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Models",
			usage: `
              Models are the land aerosol model numbers to use.`,
			defaultVal: synaer.DefaultModels,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), pairsCmd.Flags()},
		},
		{
			name: "Angstroem",
			usage: `
              Angstroem are the Angstrom exponents of the aerosol models,
              in the same order as Models.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{pairsCmd.Flags(), extractCmd.Flags()},
		},
		{
			name: "NumAngstroem",
			usage: `
              NumAngstroem is the number of evenly spaced Angstrom exponents
              to find model pairs for.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{pairsCmd.Flags(), extractCmd.Flags()},
		},
		{
			name: "WaterVapourColumn",
			usage: `
              WaterVapourColumn is the water vapour column [g/cm²] used for
              the gas correction.`,
			defaultVal: synaer.DefaultWaterVapourColumn,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Pressure",
			usage: `
              Pressure is the surface pressure [hPa].`,
			defaultVal: 1013.25,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Ozone",
			usage: `
              Ozone is the ozone column [DU].`,
			defaultVal: 300.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "SZA",
			usage: `
              SZA is the solar zenith angle [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "SAA",
			usage: `
              SAA is the solar azimuth angle [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "VZA",
			usage: `
              VZA is the viewing zenith angle [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "VAA",
			usage: `
              VAA is the viewing azimuth angle [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the netcdf file to write each model's reflectance
              cube to. "[MODEL]" is replaced by the model number.`,
			shorthand:  "o",
			defaultVal: "reflectance_[MODEL].ncf",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "InputCube",
			usage: `
              InputCube is the binary float32 raster to upsample.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
		{
			name: "OutputCube",
			usage: `
              OutputCube is the file to write the upsampled raster to. Names
              ending in .zst are written zstd-compressed.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
		{
			name: "Width",
			usage: `
              Width is the number of columns of the input raster.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
		{
			name: "Height",
			usage: `
              Height is the number of rows of the input raster.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
		{
			name: "Scale",
			usage: `
              Scale is the upsampling factor.`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
		{
			name: "Field",
			usage: `
              Field is the name of the field being upsampled. It decides
              whether values are interpolated or copied.`,
			defaultVal: raster.AngstroemName,
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
		{
			name: "IsFlag",
			usage: `
              IsFlag marks the field as a flag field, which is always copied.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{upsampleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SYNAER")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
			case bool:
				set.Bool(option.name, option.defaultVal.(bool), option.usage)
			case int:
				set.Int(option.name, option.defaultVal.(int), option.usage)
			case []int:
				set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
			case float64:
				set.Float64(option.name, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(extractCmd)
	Root.AddCommand(pairsCmd)
	Root.AddCommand(upsampleCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig(cmd *cobra.Command) error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("synaer: problem reading configuration file: %v", err)
		}
	}
	return setLogging(cmd.OutOrStderr(), Cfg.GetString("LogLevel"), Cfg.GetString("LogFile"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "synaer",
	Short: "Land aerosol reflectance lookup tables.",
	Long: `Synaer extracts gas-corrected top of atmosphere reflectances from
precomputed radiative transfer lookup tables for land aerosol retrievals.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SYNAER_var' where 'var' is the
name of the variable to be set. Path variables may contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return setConfig(cmd) },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Synaer.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Synaer v%s\n", synaer.Version)
	},
	DisableAutoGenTag: true,
}

// extractCmd extracts reflectance cubes for one pixel.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract reflectance cubes for one observation.",
	Long: `extract loads the lookup tables of every configured model and writes
the gas-corrected reflectance over every channel, surface albedo and aerosol
optical thickness of the configured observation to one netcdf file per model.
If Angstroem exponents are given for the models, it also writes one file per
target exponent with the cubes of the two bracketing models blended.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LandConfig(Cfg)
		if err != nil {
			return err
		}
		return Extract(context.Background(), cfg, Cfg.GetString("Sensor"), observation(Cfg), Cfg.GetString("OutputFile"))
	},
	DisableAutoGenTag: true,
}

// Extract extracts the reflectance cubes of obs for every model in cfg and
// writes them to netcdf files named after outputFile, with "[MODEL]"
// replaced by the model number. If cfg holds Angstrom exponents, one cube
// blended from the bracketing model pair is also written for each target
// exponent, with "[MODEL]" replaced by "ang" and the pair number.
func Extract(ctx context.Context, cfg *synaer.LandConfig, sensor string, obs synaer.Observation, outputFile string) error {
	la, err := synaer.NewLandAerosol(cfg)
	if err != nil {
		return err
	}
	cubes, err := la.ExtractAll(ctx, sensor, []synaer.Observation{obs})
	if err != nil {
		return err
	}
	s, err := la.LUTs[0].Sensor(sensor)
	if err != nil {
		return err
	}
	cube := func(model int, data *sparse.DenseArray) *synaer.ReflectanceCube {
		return &synaer.ReflectanceCube{
			Sensor:      s.Name,
			Model:       model,
			Geometry:    obs.Geometry,
			Pressure:    obs.Pressure,
			Ozone:       obs.Ozone,
			Wavelengths: s.Wavelengths,
			Albedo:      la.Axes.Albedo,
			AOT:         la.Axes.AOT,
			Data:        data,
		}
	}
	for i, lut := range la.LUTs {
		if err := writeReflectance(outputFile, fmt.Sprintf("%02d", lut.Model), cube(lut.Model, cubes[0][i])); err != nil {
			return err
		}
	}
	for i, p := range la.Pairs {
		data, err := synaer.Blend(cubes[0], p)
		if err != nil {
			return err
		}
		c := cube(la.Models[p.Index[0]], data)
		c.Blend = &synaer.ModelBlend{
			Angstroem: p.Value,
			Models:    [2]int{la.Models[p.Index[0]], la.Models[p.Index[1]]},
			Weights:   p.Weight,
		}
		if err := writeReflectance(outputFile, fmt.Sprintf("ang%d", i), c); err != nil {
			return err
		}
	}
	return nil
}

// writeReflectance writes c to the output file for the given tag.
func writeReflectance(template, tag string, c *synaer.ReflectanceCube) error {
	fname, err := checkOutputFile(template, tag)
	if err != nil {
		return err
	}
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("synaer: creating output file: %v", err)
	}
	if err := synaer.WriteReflectanceNCF(f, c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	synaer.Log.WithField("file", fname).Info("synaer wrote reflectance cube")
	return nil
}

// pairsCmd prints the Angstrom model pairs.
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Print the aerosol model pairs for a range of Angstrom exponents.",
	Long: `pairs finds, for NumAngstroem evenly spaced Angstrom exponents between
the smallest and largest exponent of the configured models, the two models
that bracket each exponent and their mixing weights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := toIntSliceE(Cfg.Get("Models"))
		if err != nil {
			return fmt.Errorf("Models: %v", err)
		}
		ang, err := toFloat64SliceE(Cfg.Get("Angstroem"))
		if err != nil {
			return fmt.Errorf("Angstroem: %v", err)
		}
		s, err := Pairs(models, ang, Cfg.GetInt("NumAngstroem"))
		if err != nil {
			return err
		}
		cmd.Print(s)
		return nil
	},
	DisableAutoGenTag: true,
}

// Pairs returns a table of the model pairs for n Angstrom exponents
// spanning ang, where ang[i] is the exponent of models[i].
func Pairs(models []int, ang []float64, n int) (string, error) {
	if len(models) != len(ang) {
		return "", fmt.Errorf("synaer: %d Angstrom exponents given for %d models: %w",
			len(ang), len(models), synaer.ErrConfiguration)
	}
	pairs, err := synaer.FindModelPairs(ang, n)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%10s %6s %6s %8s %8s\n", "angstroem", "model1", "model2", "weight1", "weight2")
	for _, p := range pairs {
		fmt.Fprintf(&b, "%10.4f %6d %6d %8.4f %8.4f\n", p.Value,
			models[p.Index[0]], models[p.Index[1]], p.Weight[0], p.Weight[1])
	}
	return b.String(), nil
}

// upsampleCmd upsamples a raster.
var upsampleCmd = &cobra.Command{
	Use:   "upsample",
	Short: "Upsample a retrieval field to a finer grid.",
	Long: `upsample reads a Width×Height binary float32 raster and writes it at
Scale times the resolution. Continuous fields are interpolated bilinearly;
aerosol optical thickness, its uncertainty, model indices and flags are
copied from the nearest coarse pixel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := raster.ModeFor(raster.KindOf(Cfg.GetString("Field"), Cfg.GetBool("IsFlag")))
		return Upsample(os.ExpandEnv(Cfg.GetString("InputCube")), os.ExpandEnv(Cfg.GetString("OutputCube")),
			Cfg.GetInt("Width"), Cfg.GetInt("Height"), Cfg.GetInt("Scale"), mode)
	},
	DisableAutoGenTag: true,
}

// Upsample reads the w×h raster in file in, resamples it by the given
// scale factor and writes the result to file out.
func Upsample(in, out string, w, h, scale int, mode raster.Mode) error {
	if in == "" || out == "" {
		return fmt.Errorf("synaer: InputCube and OutputCube must both be set: %w", synaer.ErrConfiguration)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("synaer: invalid raster size %d×%d: %w", w, h, synaer.ErrConfiguration)
	}
	values, err := synaer.LoadCube(in, w*h)
	if err != nil {
		return err
	}
	src := raster.NewTile(image.Rect(0, 0, w, h))
	copy(src.Data.Elements, values)
	dst := raster.NewTile(image.Rect(0, 0, w*scale, h*scale))
	if err := raster.Resample(src, dst, scale, mode); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("synaer: creating output file: %v", err)
	}
	if strings.HasSuffix(out, ".zst") {
		err = synaer.CompressCube(f, dst.Data.Elements)
	} else {
		err = synaer.WriteCube(f, dst.Data.Elements)
	}
	if err != nil {
		f.Close()
		return err
	}
	synaer.Log.WithField("file", out).Infof("synaer upsampled %d×%d raster by %d (%v)", w, h, scale, mode)
	return f.Close()
}
