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
	"strings"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"
)

// ChemContext holds one run's chemistry work buffers and stiff-solver
// state for a Mechanism. Each simulation run allocates its own context;
// contexts are never shared across goroutines, which is what lets one
// Mechanism value serve many concurrent runs.
type ChemContext struct {
	Mech Mechanism
	Dims MechDims

	K      []float64 // reaction rate constants, length NReact
	Photol []float64 // photolysis rates, length NPhotol
	Het    []float64 // heterogeneous rates, length NHet
	Fix    []float64 // fixed species concentrations, length NFix

	sol ode.ODE
}

// NewChemContext allocates a chemistry context with the given absolute
// and relative integration tolerances.
func NewChemContext(mech Mechanism, atol, rtol float64) *ChemContext {
	d := mech.Dims()
	c := &ChemContext{
		Mech:   mech,
		Dims:   d,
		K:      make([]float64, d.NReact),
		Photol: make([]float64, d.NPhotol),
		Het:    make([]float64, d.NHet),
		Fix:    make([]float64, d.NFix),
	}

	fcn := func(f []float64, x float64, y []float64, args ...interface{}) error {
		mech.Derivative(f, y, c.Fix, c.K)
		return nil
	}
	jac := func(dfdy *la.Triplet, x float64, y []float64, args ...interface{}) error {
		if dfdy.Max() == 0 {
			dfdy.Init(d.NVar, d.NVar, mech.JacobianNonzeros())
		}
		mech.Jacobian(dfdy, y, c.Fix, c.K)
		return nil
	}

	silent := true
	c.sol.Init("Radau5", d.NVar, fcn, jac, nil, nil, silent)
	c.sol.Distr = false // required for parallel sweep runs
	c.sol.SetTol(atol, rtol)
	return c
}

// UpdatePhotolysis refreshes the photolysis table for the given cosine
// solar zenith angle. The table is zeroed when the sun is below the
// horizon.
func (c *ChemContext) UpdatePhotolysis(csza float64) {
	if csza <= 0 {
		for i := range c.Photol {
			c.Photol[i] = 0
		}
		return
	}
	c.Mech.Photolysis(c.Photol, csza)
}

// UpdateRates recomputes the rate-constant table for the given
// thermodynamic and aerosol surface state, folding in the current
// photolysis table.
func (c *ChemContext) UpdateRates(s HetState) {
	c.Mech.Heterogeneous(c.Het, s)
	c.Mech.RateConstants(c.K, s.TempK, s.PressPa, s.AirDens, c.Photol, c.Het)
}

// UpdateRatesNoHet recomputes the rate-constant table with the
// heterogeneous rates held at zero, for runs that disable
// heterogeneous chemistry.
func (c *ChemContext) UpdateRatesNoHet(s HetState) {
	for i := range c.Het {
		c.Het[i] = 0
	}
	c.Mech.RateConstants(c.K, s.TempK, s.PressPa, s.AirDens, c.Photol, c.Het)
}

// SetAirComposition fills the fixed-species buffer from standard air
// composition at air number density airDens [molec/cm3].
func (c *ChemContext) SetAirComposition(airDens float64) {
	for i, name := range c.Mech.FixNames() {
		switch name {
		case "M":
			c.Fix[i] = airDens
		case "O2":
			c.Fix[i] = 0.2095 * airDens
		case "N2":
			c.Fix[i] = 0.7808 * airDens
		}
	}
}

// Integrate advances the variable concentrations y [molec/cm3] from t
// to t+dt under the current rate-constant table. On failure it returns
// a *ChemistryError carrying the offending state.
func (c *ChemContext) Integrate(y []float64, where string, t, dt float64) error {
	if err := c.sol.Solve(y, t, t+dt, dt, false); err != nil {
		return newChemistryError(c, where, t, y, err)
	}
	// Stiff steps can leave tiny negative concentrations behind.
	for i, v := range y {
		if v < 0 {
			y[i] = 0
		}
	}
	return nil
}

// ChemistryError reports a failed kinetics integration together with
// the state needed to reproduce it offline.
type ChemistryError struct {
	Time           float64   // simulation time at the failed step [s]
	Where          string    // location label: ring index, cell, or "ambient"
	RateConstants  []float64 // rate-constant table at failure
	Concentrations []float64 // variable concentrations at failure [molec/cm3]
	Err            error
}

func newChemistryError(c *ChemContext, where string, t float64, y []float64, err error) *ChemistryError {
	e := &ChemistryError{
		Time:           t,
		Where:          where,
		RateConstants:  make([]float64, len(c.K)),
		Concentrations: make([]float64, len(y)),
		Err:            err,
	}
	copy(e.RateConstants, c.K)
	copy(e.Concentrations, y)
	return e
}

func (e *ChemistryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "apcemm: kinetics integration failed at t=%g s (%s): %v",
		e.Time, e.Where, e.Err)
	return b.String()
}

func (e *ChemistryError) Unwrap() error { return e.Err }
