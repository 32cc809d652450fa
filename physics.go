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

import "math"

// Physical constants.
const (
	kBoltzmann = 1.380649e-23 // Boltzmann constant [J/K]
	avogadro   = 6.02214076e23
	gravity    = 9.80665 // [m/s2]

	// Molar masses [g/mol]
	mwAir  = 28.9644
	mwN    = 14.0067
	mwNO   = 30.0061
	mwNO2  = 46.0055
	mwHNO2 = 47.0134
	mwCO   = 28.0101
	mwCO2  = 44.0095
	mwSO2  = 64.0644
	mwH2O  = 18.01528

	rhoSoot = 1800. // soot particle density [kg/m3]
	rhoIce  = 916.7 // ice density [kg/m3]
	rhoSulf = 1600. // aqueous sulfate aerosol density [kg/m3]
)

// airNumberDensity returns the molecular number density of air
// [molec/cm3] at temperature [K] and pressure [Pa].
func airNumberDensity(tempK, pressPa float64) float64 {
	return pressPa / (kBoltzmann * tempK) * 1e-6
}

// satPressureLiquid returns the saturation vapor pressure of water over a
// plane liquid surface [Pa] (Buck 1981).
func satPressureLiquid(tempK float64) float64 {
	tc := tempK - 273.15
	return 611.21 * math.Exp(17.502*tc/(tc+240.97))
}

// satPressureIce returns the saturation vapor pressure of water over ice
// [Pa] (Buck 1981).
func satPressureIce(tempK float64) float64 {
	tc := tempK - 273.15
	return 611.15 * math.Exp(22.452*tc/(tc+272.55))
}

// RHiFromRHw converts relative humidity with respect to liquid water [%]
// to relative humidity with respect to ice [%].
func RHiFromRHw(rhw, tempK float64) float64 {
	return rhw * satPressureLiquid(tempK) / satPressureIce(tempK)
}

// dynamicViscosity returns the dynamic viscosity of air [kg/m/s]
// (Sutherland's law).
func dynamicViscosity(tempK float64) float64 {
	return 1.458e-6 * math.Pow(tempK, 1.5) / (tempK + 110.4)
}

// meanFreePath returns the mean free path of air molecules [m].
func meanFreePath(tempK, pressPa float64) float64 {
	return 2. * dynamicViscosity(tempK) / (pressPa *
		math.Sqrt(8.*mwAir*1e-3/(math.Pi*8.314462618*tempK)))
}
