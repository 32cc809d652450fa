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

// Package epm models the early plume: the jet and wake-vortex regimes
// between the engine exit plane and the start of the resolved
// cross-section simulation. It decides whether a contrail forms
// (Schmidt-Appleman), sizes the post-vortex plume, and hands back the
// ice crystal population that survives the vortex sinking.
package epm

import (
	"fmt"
	"math"
)

const (
	cpAir      = 1004.    // [J/kg/K]
	epsilon    = 0.622    // molar mass ratio water/air
	rhoIce     = 916.7    // [kg/m3]
	rhoSoot    = 1800.    // [kg/m3]
	kBoltzmann = 1.380649e-23
	mH2O       = 18.01528e-3 / 6.02214076e23 // [kg]
)

// Inputs describes the engine, fuel and ambient state at the exit
// plane.
type Inputs struct {
	TempK   float64 // ambient [K]
	PressPa float64 // ambient [Pa]
	RHw     float64 // ambient relative humidity w.r.t. liquid [%]

	EIH2O      float64 // water emission index [g/kg]
	EISoot     float64 // soot emission index [g/kg]
	SootRadius float64 // [m]

	FuelFlow    float64 // per engine [kg/s]
	Engines     int
	FlightSpeed float64 // [m/s]
	WingSpan    float64 // [m]

	Eta float64 // overall propulsion efficiency
	LHV float64 // fuel lower heating value [J/kg]
}

// Result is the plume state at the end of the vortex regime, ready to
// seed the cross-section simulation.
type Result struct {
	Forms      bool    // a contrail forms at all
	Persistent bool    // the ambient air is ice-supersaturated
	Area       float64 // plume cross-section per engine pair [m2]
	IceNumber  float64 // crystal number density inside the plume [#/cm3]
	IceRadius  float64 // mode crystal radius [m]
	Activated  float64 // fraction of emitted soot frozen
}

// MixingLineSlope returns the slope G [Pa/K] of the exhaust mixing line
// in water partial pressure / temperature space.
func MixingLineSlope(in Inputs) float64 {
	return in.EIH2O * 1e-3 * cpAir * in.PressPa / (epsilon * in.LHV * (1 - in.Eta))
}

// CriticalTemperature returns the threshold ambient temperature [K]
// below which a contrail forms, from the Schumann (1996) fit.
func CriticalTemperature(g float64) float64 {
	x := math.Log(g - 0.053)
	tc := -46.46 + 9.43*x + 0.72*x*x // [degC]
	return tc + 273.15
}

// satPressureLiquid is the Buck (1981) fit over a plane liquid surface
// [Pa].
func satPressureLiquid(tempK float64) float64 {
	tc := tempK - 273.15
	return 611.21 * math.Exp(17.502*tc/(tc+240.97))
}

// satPressureIce is the Buck (1981) fit over ice [Pa].
func satPressureIce(tempK float64) float64 {
	tc := tempK - 273.15
	return 611.15 * math.Exp(22.452*tc/(tc+272.55))
}

// Run advances the plume through the jet and vortex regimes.
func Run(in Inputs) (*Result, error) {
	if in.Engines < 1 || in.FlightSpeed <= 0 || in.FuelFlow <= 0 {
		return nil, fmt.Errorf("epm: invalid engine state: %d engines, %g kg/s, %g m/s",
			in.Engines, in.FuelFlow, in.FlightSpeed)
	}
	if in.WingSpan <= 0 {
		return nil, fmt.Errorf("epm: invalid wing span %g m", in.WingSpan)
	}
	if in.Eta <= 0 || in.Eta >= 1 {
		return nil, fmt.Errorf("epm: propulsion efficiency %g outside (0, 1)", in.Eta)
	}
	if in.LHV <= 0 {
		return nil, fmt.Errorf("epm: invalid heating value %g J/kg", in.LHV)
	}

	// Post-vortex plume size scales with the initial vortex spacing
	// b0 = (π/4)·span: the pair sinks about two spacings and detrains
	// a plume roughly twice as wide as deep.
	b0 := math.Pi / 4. * in.WingSpan
	depth := 1.5 * b0
	width := 3. * b0
	res := &Result{Area: math.Pi / 4. * width * depth}

	g := MixingLineSlope(in)
	if g <= 0.053 {
		return res, nil
	}
	tc := CriticalTemperature(g)
	if in.TempK > tc {
		return res, nil
	}
	res.Forms = true

	pIce := satPressureIce(in.TempK)
	pAmb := in.RHw / 100. * satPressureLiquid(in.TempK)
	res.Persistent = pAmb >= pIce

	// Soot activation grows with supercooling below threshold.
	res.Activated = 1. - math.Exp(-(tc-in.TempK)/5.)

	// Soot number density in the post-vortex plume, engine pair
	// referenced and scaled by the true engine count.
	fuelPerM := 2. * in.FuelFlow / in.FlightSpeed * float64(in.Engines) / 2.
	mp := rhoSoot * 4. / 3. * math.Pi * in.SootRadius * in.SootRadius * in.SootRadius
	sootDens := in.EISoot * 1e-3 * fuelPerM / mp / (2. * res.Area) * 1e-6 // [#/cm3]
	res.IceNumber = res.Activated * sootDens
	if res.IceNumber <= 0 {
		res.Forms = false
		return res, nil
	}

	// Crystal size from the condensable water: emitted water plus the
	// ambient excess over ice saturation, shared evenly.
	emitWater := in.EIH2O * 1e-3 * fuelPerM / (2. * res.Area) // [kg/m3]
	excess := (pAmb - pIce) * mH2O / (kBoltzmann * in.TempK)
	if excess < 0 {
		excess = 0
	}
	perCrystal := (emitWater + excess) / (res.IceNumber * 1e6) // [kg]
	r := math.Cbrt(3. * perCrystal / (4. * math.Pi * rhoIce))
	if r < in.SootRadius {
		r = in.SootRadius
	}
	res.IceRadius = r
	return res, nil
}
