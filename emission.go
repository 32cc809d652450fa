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

package apcemm

import (
	"fmt"
	"math"
)

// EmissionIndices holds engine emission indices in grams of species per
// kilogram of fuel burned, plus the emitted soot size.
type EmissionIndices struct {
	NOx        float64 // as NO2
	CO         float64
	CO2        float64
	SO2        float64
	H2O        float64
	Soot       float64
	SootRadius float64 // mean emitted soot radius [m]
}

// DefaultEmissionIndices returns emission indices typical of a modern
// high-bypass turbofan burning Jet A.
func DefaultEmissionIndices() EmissionIndices {
	return EmissionIndices{
		NOx:        15.0,
		CO:         1.0,
		CO2:        3160.0,
		SO2:        1.2,
		H2O:        1230.0,
		Soot:       0.03,
		SootRadius: 20e-9,
	}
}

// AircraftGeometry describes the emitting aircraft.
type AircraftGeometry struct {
	Engines     int
	FuelFlow    float64 // per engine [kg/s]
	FlightSpeed float64 // [m/s]
	WingSpan    float64 // [m]
}

// NOx speciation of fresh exhaust at the engine exit plane.
const (
	noFrac   = 0.90
	no2Frac  = 0.09
	hno2Frac = 0.01
)

// EmissionState is the emitted burden per meter of flight path, scaled
// to the modeled cross-section. The cross-section holds the merged
// exhaust of one engine pair, so the reference area covers two engines
// and off-design engine counts scale the densities by Engines/2.
type EmissionState struct {
	Area float64 // initial plume cross-section area [m2]

	// SpeciesMass maps variable species names to emitted mass per
	// meter of flight path [kg/m].
	SpeciesMass map[string]float64

	SootMass   float64 // emitted soot mass per meter of flight path [kg/m]
	SootDens   float64 // soot number density inside the plume [#/cm3]
	SootRadius float64 // [m]
}

// NewEmissionState converts emission indices to the per-meter burden of
// a plume of cross-section area [m2] for one engine pair.
func NewEmissionState(ei EmissionIndices, ac AircraftGeometry, area float64) (*EmissionState, error) {
	if ac.Engines < 1 {
		return nil, fmt.Errorf("apcemm: aircraft has %d engines", ac.Engines)
	}
	if ac.FlightSpeed <= 0 || ac.FuelFlow <= 0 {
		return nil, fmt.Errorf("apcemm: invalid aircraft state: fuel flow %g kg/s, speed %g m/s",
			ac.FuelFlow, ac.FlightSpeed)
	}
	if area <= 0 {
		return nil, fmt.Errorf("apcemm: invalid plume area %g m2", area)
	}

	// Fuel burned per meter of flight path by two engines [kg/m].
	fuelPerM := 2. * ac.FuelFlow / ac.FlightSpeed
	// Engine counts other than two scale the pair-referenced burden.
	scale := float64(ac.Engines) / 2.

	g2kg := 1e-3
	es := &EmissionState{
		Area:       2. * area,
		SootRadius: ei.SootRadius,
		SpeciesMass: map[string]float64{
			"NO":   ei.NOx * noFrac * g2kg * fuelPerM * scale * mwNO / mwNO2,
			"NO2":  ei.NOx * no2Frac * g2kg * fuelPerM * scale,
			"HNO2": ei.NOx * hno2Frac * g2kg * fuelPerM * scale * mwHNO2 / mwNO2,
			"CO":   ei.CO * g2kg * fuelPerM * scale,
			"CO2":  ei.CO2 * g2kg * fuelPerM * scale,
			"SO2":  ei.SO2 * g2kg * fuelPerM * scale,
			"H2O":  ei.H2O * g2kg * fuelPerM * scale,
		},
	}

	if ei.Soot > 0 && ei.SootRadius > 0 {
		es.SootMass = ei.Soot * g2kg * fuelPerM * scale
		// [#/m3] → [#/cm3]
		es.SootDens = es.SootMass / sootParticleMass(ei.SootRadius) / es.Area * 1e-6
	}
	return es, nil
}

// sootParticleMass returns the mass of one soot particle of radius r [kg].
func sootParticleMass(r float64) float64 {
	return rhoSoot * 4. / 3. * math.Pi * r * r * r
}

// Concentration returns the mean number density [molec/cm3] inside the
// plume for a species of molar mass mw [g/mol], or zero if the species
// is not emitted.
func (es *EmissionState) Concentration(name string, mw float64) float64 {
	mass, ok := es.SpeciesMass[name]
	if !ok || mw <= 0 {
		return 0
	}
	// [kg/m]/[m2] = kg/m3 = 1e3 g/m3 → molec/cm3
	return mass / es.Area / mw * avogadro * 1e-3
}

// speciesMolarMass maps emitted species names to molar masses [g/mol].
var speciesMolarMass = map[string]float64{
	"NO":   mwNO,
	"NO2":  mwNO2,
	"HNO2": mwHNO2,
	"CO":   mwCO,
	"CO2":  mwCO2,
	"SO2":  mwSO2,
	"H2O":  mwH2O,
}

// Inject adds the emitted burden to every cell of the given flat cell
// set, which covers the initial plume on the mesh. cellArea is one
// cell's cross-section area [m2]; the burden is spread over the covered
// area so the grid-integrated mass matches the emitted mass exactly.
func (es *EmissionState) Inject(st *PlumeState, mech Mechanism, cells []int, cellArea float64) {
	area := float64(len(cells)) * cellArea
	if area <= 0 {
		return
	}
	for name, mw := range speciesMolarMass {
		v, ok := mech.VarIndex(name)
		if !ok {
			continue
		}
		mass, ok := es.SpeciesMass[name]
		if !ok || mass == 0 {
			continue
		}
		conc := mass / area / mw * avogadro * 1e-3
		for _, c := range cells {
			st.Species[v].Elements[c] += conc
		}
	}
	if es.SootMass > 0 {
		dens := es.SootMass / sootParticleMass(es.SootRadius) / area * 1e-6
		sarea := 4. * math.Pi * es.SootRadius * es.SootRadius * dens
		for _, c := range cells {
			st.SootDens.Elements[c] += dens
			st.SootRadi.Elements[c] = es.SootRadius
			st.SootArea.Elements[c] += sarea
		}
	}
}
