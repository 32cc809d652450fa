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

package apcemmutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	apcemm "github.com/fritzt/APCEMM"
	"github.com/fritzt/APCEMM/epm"
	"github.com/fritzt/APCEMM/fleet"
	"github.com/fritzt/APCEMM/met"
)

// Lower heating value of Jet A [J/kg].
const jetALHV = 43.2e6

// Ambient background sulfate aerosol at cruise altitudes.
var backgroundSulfate = apcemm.BackgroundAerosol{N0: 200, RMode: 2e-8, Sigma: 1.8}

// ModelConfig assembles the numerical model configuration from the
// configuration database.
func ModelConfig(cfg *viper.Viper) (apcemm.Config, error) {
	c := apcemm.DefaultConfig()

	var err error
	if c.Nx, err = cast.ToIntE(cfg.Get("Grid.Nx")); err != nil {
		return c, fmt.Errorf("apcemm: Grid.Nx: %v", err)
	}
	if c.Ny, err = cast.ToIntE(cfg.Get("Grid.Ny")); err != nil {
		return c, fmt.Errorf("apcemm: Grid.Ny: %v", err)
	}
	if c.XLimit, err = cast.ToFloat64E(cfg.Get("Grid.XLimit")); err != nil {
		return c, fmt.Errorf("apcemm: Grid.XLimit: %v", err)
	}
	if c.YLimit, err = cast.ToFloat64E(cfg.Get("Grid.YLimit")); err != nil {
		return c, fmt.Errorf("apcemm: Grid.YLimit: %v", err)
	}
	if c.NRing, err = cast.ToIntE(cfg.Get("Rings.Count")); err != nil {
		return c, fmt.Errorf("apcemm: Rings.Count: %v", err)
	}
	if c.RingRatio, err = cast.ToFloat64E(cfg.Get("Rings.Ratio")); err != nil {
		return c, fmt.Errorf("apcemm: Rings.Ratio: %v", err)
	}
	if c.GridChemistry, err = cast.ToBoolE(cfg.Get("Chemistry.Grid")); err != nil {
		return c, fmt.Errorf("apcemm: Chemistry.Grid: %v", err)
	}
	if c.Transport, err = cast.ToBoolE(cfg.Get("Transport.Enabled")); err != nil {
		return c, fmt.Errorf("apcemm: Transport.Enabled: %v", err)
	}
	if c.Advection, err = cast.ToBoolE(cfg.Get("Transport.Advection")); err != nil {
		return c, fmt.Errorf("apcemm: Transport.Advection: %v", err)
	}
	if c.Diffusion, err = cast.ToBoolE(cfg.Get("Transport.Diffusion")); err != nil {
		return c, fmt.Errorf("apcemm: Transport.Diffusion: %v", err)
	}
	if c.Chemistry, err = cast.ToBoolE(cfg.Get("Chemistry.Enabled")); err != nil {
		return c, fmt.Errorf("apcemm: Chemistry.Enabled: %v", err)
	}
	if c.HetChemistry, err = cast.ToBoolE(cfg.Get("Chemistry.Heterogeneous")); err != nil {
		return c, fmt.Errorf("apcemm: Chemistry.Heterogeneous: %v", err)
	}
	if c.ChemATol, err = cast.ToFloat64E(cfg.Get("Chemistry.ATol")); err != nil {
		return c, fmt.Errorf("apcemm: Chemistry.ATol: %v", err)
	}
	if c.ChemRTol, err = cast.ToFloat64E(cfg.Get("Chemistry.RTol")); err != nil {
		return c, fmt.Errorf("apcemm: Chemistry.RTol: %v", err)
	}
	if c.TransportTimestep, err = cast.ToFloat64E(cfg.Get("Timestep")); err != nil {
		return c, fmt.Errorf("apcemm: Timestep: %v", err)
	}
	c.OutputPath = cfg.GetString("OutputFile")
	return c, nil
}

// Scenario assembles one run's conditions from the configuration
// database: the sounding at flight level, the aircraft preset, and the
// early plume result that seeds the cross-section.
func Scenario(cfg *viper.Viper) (apcemm.Conditions, *epm.Result, error) {
	var cond apcemm.Conditions

	alt := cfg.GetFloat64("Flight.Altitude")
	sounding := met.ISA{
		TempShift: cfg.GetFloat64("Met.TempShift"),
		Humidity:  cfg.GetFloat64("Met.Humidity"),
	}
	if err := met.Validate(sounding, alt); err != nil {
		return cond, nil, err
	}

	aircraft, err := fleet.Lookup(cfg.GetString("Flight.Aircraft"))
	if err != nil {
		return cond, nil, err
	}
	geo, err := aircraft.Geometry()
	if err != nil {
		return cond, nil, err
	}
	ei, err := aircraft.EmissionIndices()
	if err != nil {
		return cond, nil, err
	}

	tempK := sounding.TempK(alt)
	pressPa := sounding.PressPa(alt)
	rhw := sounding.RHw(alt)

	res, err := epm.Run(epm.Inputs{
		TempK:       tempK,
		PressPa:     pressPa,
		RHw:         rhw,
		EIH2O:       ei.H2O,
		EISoot:      ei.Soot,
		SootRadius:  ei.SootRadius,
		FuelFlow:    geo.FuelFlow,
		Engines:     geo.Engines,
		FlightSpeed: geo.FlightSpeed,
		WingSpan:    geo.WingSpan,
		Eta:         aircraft.Eta,
		LHV:         jetALHV,
	})
	if err != nil {
		return cond, nil, err
	}

	// Mixing ratios [ppb] to number densities [molec/cm3].
	airDens := pressPa / (1.380649e-23 * tempK) * 1e-6
	ppb := func(name string) float64 {
		return cfg.GetFloat64("Background."+name) * 1e-9 * airDens
	}

	tStart := cfg.GetFloat64("Flight.Hour") * 3600.
	cond = apcemm.Conditions{
		TempK:    tempK,
		PressPa:  pressPa,
		RHw:      rhw,
		Latitude: cfg.GetFloat64("Flight.Latitude"),
		Day:      cfg.GetInt("Flight.Day"),
		TStart:   tStart,
		TFinal:   tStart + cfg.GetFloat64("Flight.Duration")*3600.,
		Background: map[string]float64{
			"O3":  ppb("O3"),
			"NO":  ppb("NO"),
			"NO2": ppb("NO2"),
			"CO":  ppb("CO"),
		},
		Liquid:    backgroundSulfate,
		PlumeArea: res.Area,
		EI:        ei,
		Aircraft:  geo,
		Diffusion: met.ShearDiffusion(18., 0.15, cfg.GetFloat64("Met.Shear")),
		Altitude:  alt,
		Met:       sounding,
	}
	if res.Forms {
		cond.EmittedIce = apcemm.BackgroundAerosol{
			N0:    res.IceNumber,
			RMode: res.IceRadius,
			Sigma: 1.6,
		}
	}
	return cond, res, nil
}
