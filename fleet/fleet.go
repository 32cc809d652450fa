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

// Package fleet holds aircraft and engine presets with unit-checked
// quantities, translated into simulation inputs.
package fleet

import (
	"fmt"
	"sort"

	"github.com/ctessum/unit"

	apcemm "github.com/fritzt/APCEMM"
)

var (
	kgPerSecond = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}
	mPerSecond  = unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -1}
	meters      = unit.Dimensions{unit.LengthDim: 1}
	gramsPerKg  = unit.Dimensions{} // emission indices are dimensionless ratios scaled to g/kg
)

// Aircraft is one airframe/engine combination.
type Aircraft struct {
	Name     string
	Engines  int
	FuelFlow *unit.Unit // per engine, cruise [kg/s]
	Speed    *unit.Unit // cruise true airspeed [m/s]
	WingSpan *unit.Unit // [m]

	EINOx  *unit.Unit // [g/kg], as NO2
	EICO   *unit.Unit
	EISO2  *unit.Unit
	EISoot *unit.Unit

	Eta float64 // overall propulsion efficiency
}

// check validates that every quantity carries the dimensions the
// simulation expects.
func (a *Aircraft) check() error {
	for _, q := range []struct {
		u    *unit.Unit
		dims unit.Dimensions
		name string
	}{
		{a.FuelFlow, kgPerSecond, "fuel flow"},
		{a.Speed, mPerSecond, "speed"},
		{a.WingSpan, meters, "wing span"},
		{a.EINOx, gramsPerKg, "EI(NOx)"},
		{a.EICO, gramsPerKg, "EI(CO)"},
		{a.EISO2, gramsPerKg, "EI(SO2)"},
		{a.EISoot, gramsPerKg, "EI(soot)"},
	} {
		if q.u == nil {
			return fmt.Errorf("fleet: %s: missing %s", a.Name, q.name)
		}
		if err := q.u.Check(q.dims); err != nil {
			return fmt.Errorf("fleet: %s: %s: %v", a.Name, q.name, err)
		}
	}
	if a.Engines < 1 {
		return fmt.Errorf("fleet: %s: %d engines", a.Name, a.Engines)
	}
	return nil
}

// Geometry returns the aircraft geometry for the plume model.
func (a *Aircraft) Geometry() (apcemm.AircraftGeometry, error) {
	if err := a.check(); err != nil {
		return apcemm.AircraftGeometry{}, err
	}
	return apcemm.AircraftGeometry{
		Engines:     a.Engines,
		FuelFlow:    a.FuelFlow.Value(),
		FlightSpeed: a.Speed.Value(),
		WingSpan:    a.WingSpan.Value(),
	}, nil
}

// EmissionIndices returns the engine emission indices, with default
// CO2, H2O and soot-size values for Jet A.
func (a *Aircraft) EmissionIndices() (apcemm.EmissionIndices, error) {
	if err := a.check(); err != nil {
		return apcemm.EmissionIndices{}, err
	}
	ei := apcemm.DefaultEmissionIndices()
	ei.NOx = a.EINOx.Value()
	ei.CO = a.EICO.Value()
	ei.SO2 = a.EISO2.Value()
	ei.Soot = a.EISoot.Value()
	return ei, nil
}

// presets is the built-in fleet.
var presets = map[string]*Aircraft{
	"B747-8": {
		Name:     "B747-8",
		Engines:  4,
		FuelFlow: unit.New(2.8, kgPerSecond),
		Speed:    unit.New(250, mPerSecond),
		WingSpan: unit.New(68.4, meters),
		EINOx:    unit.New(26.0, gramsPerKg),
		EICO:     unit.New(0.6, gramsPerKg),
		EISO2:    unit.New(1.2, gramsPerKg),
		EISoot:   unit.New(0.035, gramsPerKg),
		Eta:      0.33,
	},
	"B777-300": {
		Name:     "B777-300",
		Engines:  2,
		FuelFlow: unit.New(2.4, kgPerSecond),
		Speed:    unit.New(248, mPerSecond),
		WingSpan: unit.New(64.8, meters),
		EINOx:    unit.New(20.0, gramsPerKg),
		EICO:     unit.New(0.8, gramsPerKg),
		EISO2:    unit.New(1.2, gramsPerKg),
		EISoot:   unit.New(0.03, gramsPerKg),
		Eta:      0.35,
	},
	"A320-214": {
		Name:     "A320-214",
		Engines:  2,
		FuelFlow: unit.New(0.65, kgPerSecond),
		Speed:    unit.New(230, mPerSecond),
		WingSpan: unit.New(35.8, meters),
		EINOx:    unit.New(14.5, gramsPerKg),
		EICO:     unit.New(1.1, gramsPerKg),
		EISO2:    unit.New(1.2, gramsPerKg),
		EISoot:   unit.New(0.025, gramsPerKg),
		Eta:      0.31,
	},
	"A350-900": {
		Name:     "A350-900",
		Engines:  2,
		FuelFlow: unit.New(1.9, kgPerSecond),
		Speed:    unit.New(253, mPerSecond),
		WingSpan: unit.New(64.75, meters),
		EINOx:    unit.New(18.0, gramsPerKg),
		EICO:     unit.New(0.5, gramsPerKg),
		EISO2:    unit.New(1.2, gramsPerKg),
		EISoot:   unit.New(0.02, gramsPerKg),
		Eta:      0.37,
	},
}

// Lookup returns the named preset.
func Lookup(name string) (*Aircraft, error) {
	a, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("fleet: unknown aircraft %q; have %v", name, Names())
	}
	return a, nil
}

// Names lists the preset aircraft, sorted.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
