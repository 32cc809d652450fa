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

	"github.com/fritzt/APCEMM/sands"
)

// TransportEngine advances all prognostic fields by one
// advection-diffusion step. Gas-phase fields share one spectral solver;
// aerosol fields use a second solver whose advection is augmented with
// per-bin gravitational settling for the ice bins.
type TransportEngine struct {
	Gas   *sands.Solver
	Micro *sands.Solver

	// Settling velocities per bin [m/s, positive downward], computed
	// once per run from the run's thermodynamic state.
	VFallLiquid []float64
	VFallSolid  []float64

	vx, vy float64
}

// NewTransportEngine builds the two spectral solvers for the grid.
// Negative gas-phase values produced by the spectral step are clipped
// to zero; negative aerosol densities are filled with aerosolFloor so
// sparse populations do not go numerically extinct.
func NewTransportEngine(g *SpatialGrid, aerosolFloor float64) (*TransportEngine, error) {
	gas, err := sands.NewSolver(g.Nx, g.Ny, g.Dx*float64(g.Nx), g.Dy*float64(g.Ny), true, 0)
	if err != nil {
		return nil, fmt.Errorf("apcemm: gas transport solver: %v", err)
	}
	micro, err := sands.NewSolver(g.Nx, g.Ny, g.Dx*float64(g.Nx), g.Dy*float64(g.Ny), true, aerosolFloor)
	if err != nil {
		return nil, fmt.Errorf("apcemm: aerosol transport solver: %v", err)
	}
	return &TransportEngine{Gas: gas, Micro: micro}, nil
}

// Warmup builds the transform plans before the time loop starts.
func (te *TransportEngine) Warmup() error {
	if err := te.Gas.Warmup(); err != nil {
		return err
	}
	return te.Micro.Warmup()
}

// Update sets the step size, diffusion coefficients and background
// advection velocities for the next Step call.
func (te *TransportEngine) Update(dt, dh, dv, vx, vy float64) {
	te.vx, te.vy = vx, vy
	te.Gas.UpdateTimeStep(dt)
	te.Gas.UpdateDiff(dh, dv)
	te.Gas.UpdateAdv(vx, vy)
	te.Micro.UpdateTimeStep(dt)
	te.Micro.UpdateDiff(dh, dv)
}

// Step advances every prognostic field by one transport step: gas
// species and condensed sulfate jointly, then the soot fields, then the
// liquid bins, then the ice bins with per-bin settling folded into the
// vertical advection.
func (te *TransportEngine) Step(st *PlumeState) error {
	for v := range st.Species {
		if err := te.Gas.Solve(st.Species[v]); err != nil {
			return err
		}
	}
	if err := te.Gas.Solve(st.SO4Liq); err != nil {
		return err
	}

	te.Micro.UpdateAdv(te.vx, te.vy)
	if err := te.Micro.Solve(st.SootDens); err != nil {
		return err
	}
	if err := te.Micro.Solve(st.SootRadi); err != nil {
		return err
	}
	if err := te.Micro.Solve(st.SootArea); err != nil {
		return err
	}

	for b := range st.Liquid.Bins {
		vf := 0.
		if b < len(te.VFallLiquid) {
			vf = te.VFallLiquid[b]
		}
		te.Micro.UpdateAdv(te.vx, te.vy-vf)
		if err := te.Micro.Solve(st.Liquid.NDF[b]); err != nil {
			return err
		}
	}
	for b := range st.Solid.Bins {
		vf := 0.
		if b < len(te.VFallSolid) {
			vf = te.VFallSolid[b]
		}
		te.Micro.UpdateAdv(te.vx, te.vy-vf)
		if err := te.Micro.Solve(st.Solid.NDF[b]); err != nil {
			return err
		}
	}
	return nil
}
