/*
Copyright © 2018 the APCEMM authors.
This file is part of APCEMM.

APCEMM is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

APCEMM is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with APCEMM.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package apcemmutil wires the plume model to its command-line
// interface and configuration system.
package apcemmutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	apcemm "github.com/fritzt/APCEMM"
	"github.com/fritzt/APCEMM/fleet"
	"github.com/fritzt/APCEMM/mech/minimech"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to APCEMM.
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
			name: "Grid.Nx",
			usage: `
              Grid.Nx specifies the number of mesh cells in the horizontal
              direction of the plume cross-section.`,
			defaultVal: 64,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Grid.Ny",
			usage: `
              Grid.Ny specifies the number of mesh cells in the vertical
              direction of the plume cross-section.`,
			defaultVal: 64,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Grid.XLimit",
			usage: `
              Grid.XLimit specifies the horizontal half-width of the
              domain [m].`,
			defaultVal: 8000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Grid.YLimit",
			usage: `
              Grid.YLimit specifies the vertical half-width of the
              domain [m].`,
			defaultVal: 650.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Rings.Count",
			usage: `
              Rings.Count specifies the number of plume rings used by the
              ring-averaged chemistry representation.`,
			defaultVal: 15,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Rings.Ratio",
			usage: `
              Rings.Ratio specifies the geometric growth factor of ring
              semi-axes from one ring to the next.`,
			defaultVal: 1.3,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Transport.Enabled",
			usage: `
              Transport.Enabled switches the advection-diffusion step
              on or off.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Transport.Advection",
			usage: `
              Transport.Advection switches the background advection
              inside the transport step on or off.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Transport.Diffusion",
			usage: `
              Transport.Diffusion switches the turbulent diffusion
              inside the transport step on or off.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Chemistry.Enabled",
			usage: `
              Chemistry.Enabled switches the kinetics integration on or
              off.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Chemistry.Heterogeneous",
			usage: `
              Chemistry.Heterogeneous switches the heterogeneous rate
              recompute before each kinetics call on or off.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Chemistry.Grid",
			usage: `
              Chemistry.Grid switches the kinetics from ring-averaged to
              per-cell integration.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Chemistry.ATol",
			usage: `
              Chemistry.ATol specifies the absolute tolerance of the
              stiff kinetics integration [molec/cm3].`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Chemistry.RTol",
			usage: `
              Chemistry.RTol specifies the relative tolerance of the
              stiff kinetics integration.`,
			defaultVal: 1e-5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Timestep",
			usage: `
              Timestep specifies the base transport step size [s].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Flight.Aircraft",
			usage: `
              Flight.Aircraft specifies the aircraft preset to simulate.`,
			shorthand:  "a",
			defaultVal: "B777-300",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Flight.Altitude",
			usage: `
              Flight.Altitude specifies the cruise altitude [m].`,
			defaultVal: 10500.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Flight.Latitude",
			usage: `
              Flight.Latitude specifies the latitude of the flight
              segment [deg].`,
			defaultVal: 45.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Flight.Day",
			usage: `
              Flight.Day specifies the day of year of the flight.`,
			defaultVal: 172,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Flight.Hour",
			usage: `
              Flight.Hour specifies the local time of emission
              [hours since midnight].`,
			defaultVal: 8.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Flight.Duration",
			usage: `
              Flight.Duration specifies the simulated plume age [hours].`,
			defaultVal: 8.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Met.TempShift",
			usage: `
              Met.TempShift offsets the standard-atmosphere temperature
              profile [K].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Met.Humidity",
			usage: `
              Met.Humidity specifies the ambient relative humidity with
              respect to liquid water [%].`,
			defaultVal: 60.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Met.Shear",
			usage: `
              Met.Shear specifies the vertical wind shear rate [1/s]
              shaping horizontal plume spreading.`,
			defaultVal: 2e-3,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Background.O3",
			usage: `
              Background.O3 specifies the far-field ozone mixing
              ratio [ppb].`,
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Background.NO",
			usage: `
              Background.NO specifies the far-field NO mixing
              ratio [ppb].`,
			defaultVal: 0.02,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Background.NO2",
			usage: `
              Background.NO2 specifies the far-field NO2 mixing
              ratio [ppb].`,
			defaultVal: 0.03,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Background.CO",
			usage: `
              Background.CO specifies the far-field CO mixing
              ratio [ppb].`,
			defaultVal: 90.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path of the NetCDF output file.`,
			shorthand:  "o",
			defaultVal: "apcemm_out.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SweepFile",
			usage: `
              SweepFile specifies a TOML file describing the scenarios of
              a parameter sweep.`,
			defaultVal: "sweep.toml",
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "MaxParallel",
			usage: `
              MaxParallel caps the number of sweep scenarios simulated
              concurrently. Zero means one per CPU.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("APCEMM")

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
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
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
	Root.AddCommand(runCmd)
	Root.AddCommand(sweepCmd)
	Root.AddCommand(fleetCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("apcemm: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "apcemm",
	Short: "An aircraft plume and contrail cross-section model.",
	Long: `APCEMM simulates the chemical and microphysical evolution of an
aircraft exhaust plume and contrail cross-section.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'APCEMM_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of APCEMM.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("APCEMM v%s\n", apcemm.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one flight segment.",
	Long: `run simulates the plume of a single flight segment from the end of
the wake-vortex regime until the configured plume age, and writes the
field snapshots to a NetCDF file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ModelConfig(Cfg)
		if err != nil {
			return err
		}
		cond, res, err := Scenario(Cfg)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"contrail":   res.Forms,
			"persistent": res.Persistent,
			"iceNumber":  res.IceNumber,
		}).Info("early plume complete")

		m, err := apcemm.New(cfg, minimech.New())
		if err != nil {
			return err
		}
		status, err := m.Run(cond)
		if status != apcemm.Success {
			return fmt.Errorf("apcemm: run ended with status %v: %v", status, err)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Simulate a set of scenarios in parallel.",
	Long: `sweep reads a TOML scenario file and simulates every scenario
concurrently, each with its own independent model state, then prints
summary statistics across the set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ModelConfig(Cfg)
		if err != nil {
			return err
		}
		plan, err := ReadSweepPlan(Cfg.GetString("SweepFile"))
		if err != nil {
			return err
		}
		results, err := Sweep(cfg, minimech.New(), plan, Cfg.GetInt("MaxParallel"))
		if err != nil {
			return err
		}
		return SummarizeSweep(cmd.OutOrStdout(), results)
	},
	DisableAutoGenTag: true,
}

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "List the built-in aircraft presets.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(strings.Join(fleet.Names(), "\n"))
	},
	DisableAutoGenTag: true,
}
