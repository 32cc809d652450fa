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

// Package met supplies the ambient thermodynamic state at flight level.
package met

import (
	"fmt"
	"math"
)

// Sounding returns the ambient state at a given altitude.
type Sounding interface {
	// TempK returns the temperature [K] at altitude [m].
	TempK(altM float64) float64
	// PressPa returns the pressure [Pa] at altitude [m].
	PressPa(altM float64) float64
	// RHw returns the relative humidity w.r.t. liquid water [%] at
	// altitude [m].
	RHw(altM float64) float64
}

// ISA is the international standard atmosphere with a uniform relative
// humidity, offset by a temperature shift to emulate warm or cold days.
type ISA struct {
	TempShift float64 // added to the standard profile [K]
	Humidity  float64 // [%]
}

const (
	seaLevelTemp  = 288.15  // [K]
	seaLevelPress = 101325. // [Pa]
	lapseRate     = 6.5e-3  // [K/m]
	tropopause    = 11000.  // [m]
	gasConstAir   = 287.053 // [J/kg/K]
	g0            = 9.80665
)

// TempK implements Sounding.
func (a ISA) TempK(altM float64) float64 {
	if altM >= tropopause {
		return seaLevelTemp - lapseRate*tropopause + a.TempShift
	}
	return seaLevelTemp - lapseRate*altM + a.TempShift
}

// PressPa implements Sounding.
func (a ISA) PressPa(altM float64) float64 {
	tTrop := seaLevelTemp - lapseRate*tropopause
	if altM < tropopause {
		t := seaLevelTemp - lapseRate*altM
		return seaLevelPress * math.Pow(t/seaLevelTemp, g0/(gasConstAir*lapseRate))
	}
	pTrop := seaLevelPress * math.Pow(tTrop/seaLevelTemp, g0/(gasConstAir*lapseRate))
	return pTrop * math.Exp(-g0*(altM-tropopause)/(gasConstAir*tTrop))
}

// RHw implements Sounding.
func (a ISA) RHw(altM float64) float64 { return a.Humidity }

// ShearDiffusion returns a diffusion function shaped by wind shear:
// horizontal mixing grows with the shear rate s [1/s] and the plume
// age, vertical mixing stays near the ambient value dv0 [m2/s].
func ShearDiffusion(dh0, dv0, s float64) func(elapsed float64) (float64, float64) {
	return func(elapsed float64) (float64, float64) {
		dh := dh0 + s*s*dv0*elapsed*elapsed
		return dh, dv0
	}
}

// Validate checks a sounding for physically plausible values at the
// given altitude.
func Validate(s Sounding, altM float64) error {
	t, p := s.TempK(altM), s.PressPa(altM)
	if t < 150 || t > 350 {
		return fmt.Errorf("met: implausible temperature %g K at %g m", t, altM)
	}
	if p <= 0 || p > seaLevelPress {
		return fmt.Errorf("met: implausible pressure %g Pa at %g m", p, altM)
	}
	if rh := s.RHw(altM); rh < 0 || rh > 200 {
		return fmt.Errorf("met: implausible humidity %g%% at %g m", rh, altM)
	}
	return nil
}
