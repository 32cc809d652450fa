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
	"math"

	"github.com/fritzt/APCEMM/aim"
)

// MicrophysicsEngine runs binned coagulation and ice growth on their
// own cadences, decoupled from the transport step. Kernels, settling
// velocities, spatial regimes and symmetry factors are all fixed at
// initialization from the run's thermodynamic state and particle
// sources; only the schedules carry state across steps.
type MicrophysicsEngine struct {
	LiquidRegime aim.Regime
	SolidRegime  aim.Regime

	LiquidKernel *aim.Kernel
	SolidKernel  *aim.Kernel

	LiquidSchedule *Schedule
	SolidSchedule  *Schedule

	// Symmetry counts the mirror sectors of the plume the stored
	// fields represent. Ice in supersaturated air settles out of the
	// symmetric pattern, so the solid phase drops to 1 when RHi > 100.
	LiquidSymmetry int
	SolidSymmetry  int

	// Ice growth/evaporation runs at the solid coagulation cadence.
	IceGrowth bool
}

// MicrophysicsSources states which particle sources a run has; the
// spatial regimes follow from it and are never revisited mid-run.
type MicrophysicsSources struct {
	EmittedLiquid    bool
	BackgroundLiquid bool
	EmittedSolid     bool
	BackgroundSolid  bool
}

// regimeFor maps a phase's sources to its spatial regime: emitted
// particles force per-cell resolution, background-only stays uniform.
func regimeFor(emitted, background bool) aim.Regime {
	switch {
	case emitted:
		return aim.RegimePerCell
	case background:
		return aim.RegimeUniform
	default:
		return aim.RegimeNone
	}
}

// NewMicrophysicsEngine precomputes kernels and schedules for the run.
// liqPeriod and solPeriod are the coagulation cadences [s]; t0 is the
// simulation start time.
func NewMicrophysicsEngine(liquidBins, solidBins []aim.Bin, src MicrophysicsSources,
	tempK, pressPa, rhi, liqPeriod, solPeriod, t0 float64) *MicrophysicsEngine {

	me := &MicrophysicsEngine{
		LiquidRegime:   regimeFor(src.EmittedLiquid, src.BackgroundLiquid),
		SolidRegime:    regimeFor(src.EmittedSolid, src.BackgroundSolid),
		LiquidSchedule: NewSchedule(liqPeriod, t0),
		SolidSchedule:  NewSchedule(solPeriod, t0),
		LiquidSymmetry: 2,
		SolidSymmetry:  2,
		IceGrowth:      true,
	}
	if rhi > 100 {
		me.SolidSymmetry = 1
	}
	if me.LiquidRegime != aim.RegimeNone {
		me.LiquidKernel = aim.NewBrownianKernel(liquidBins, tempK, pressPa, rhoSulf)
	}
	if me.SolidRegime != aim.RegimeNone {
		me.SolidKernel = aim.NewBrownianKernel(solidBins, tempK, pressPa, rhoIce)
	}
	return me
}

// Step runs any microphysics due at time t. Each phase fires when its
// elapsed span reaches its cadence, and unconditionally on the terminal
// step; the elapsed span, sub-cycled to the cadence, is the integration
// span.
func (me *MicrophysicsEngine) Step(st *PlumeState, t float64, lastStep bool,
	tempK, pressPa, si float64) {

	if me.LiquidRegime != aim.RegimeNone && me.LiquidSchedule.Due(t, lastStep) {
		span := me.LiquidSchedule.Fire(t)
		for span > 0 {
			dt := math.Min(span, me.LiquidSchedule.Period)
			st.Liquid.Coagulate(dt, me.LiquidKernel, me.LiquidRegime, me.LiquidSymmetry)
			span -= dt
		}
	}

	if me.SolidRegime != aim.RegimeNone && me.SolidSchedule.Due(t, lastStep) {
		span := me.SolidSchedule.Fire(t)
		for span > 0 {
			dt := math.Min(span, me.SolidSchedule.Period)
			st.Solid.Coagulate(dt, me.SolidKernel, me.SolidRegime, me.SolidSymmetry)
			if me.IceGrowth {
				st.Solid.Grow(dt, tempK, pressPa, si, me.SolidRegime)
			}
			span -= dt
		}
	}
}
