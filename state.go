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
	"github.com/ctessum/sparse"
	"github.com/fritzt/APCEMM/aim"
)

// PlumeState holds all prognostic fields of one run on the plume
// cross-section mesh: one concentration field per variable gas-phase
// species, the condensed sulfate field, the monodisperse soot fields,
// and the binned liquid and solid (ice) aerosol populations.
type PlumeState struct {
	Grid *SpatialGrid

	// Species concentration fields [molec/cm3], indexed as the
	// mechanism's variable species. The sulfate entry holds the
	// gas-phase fraction; SO4Liq holds the condensed fraction.
	Species []*sparse.DenseArray
	SO4Liq  *sparse.DenseArray

	// Monodisperse soot: number density [#/cm3], mean radius [m], and
	// surface area density [m2/cm3].
	SootDens *sparse.DenseArray
	SootRadi *sparse.DenseArray
	SootArea *sparse.DenseArray

	Liquid *aim.Aerosol // liquid sulfate bins
	Solid  *aim.Aerosol // ice crystal bins
}

// NewPlumeState allocates zeroed prognostic fields for the given grid,
// mechanism dimensions, and aerosol bin sets.
func NewPlumeState(g *SpatialGrid, dims MechDims, liquidBins, solidBins []aim.Bin) *PlumeState {
	st := &PlumeState{
		Grid:     g,
		Species:  make([]*sparse.DenseArray, dims.NVar),
		SO4Liq:   g.NewField(),
		SootDens: g.NewField(),
		SootRadi: g.NewField(),
		SootArea: g.NewField(),
		Liquid:   aim.NewAerosol(liquidBins, g.Ny, g.Nx),
		Solid:    aim.NewAerosol(solidBins, g.Ny, g.Nx),
	}
	for v := range st.Species {
		st.Species[v] = g.NewField()
	}
	return st
}

// SetUniformSpecies sets species v to value everywhere.
func (st *PlumeState) SetUniformSpecies(v int, value float64) {
	for c := range st.Species[v].Elements {
		st.Species[v].Elements[c] = value
	}
}

// hetStateAt assembles the aerosol surface state for heterogeneous
// chemistry at flat cell index c. Aerosol type order: soot, liquid
// sulfate, ice.
func (st *PlumeState) hetStateAt(c int, tempK, pressPa, airDens, rhi float64) HetState {
	return HetState{
		TempK:   tempK,
		PressPa: pressPa,
		AirDens: airDens,
		RHi:     rhi,
		Area: []float64{
			st.SootArea.Elements[c],
			st.Liquid.SurfaceAreaAt(c),
			st.Solid.SurfaceAreaAt(c),
		},
		Radius: []float64{
			st.SootRadi.Elements[c],
			st.Liquid.EffRadiusAt(c),
			st.Solid.EffRadiusAt(c),
		},
	}
}

// hetStateMean assembles the aerosol surface state averaged over a set
// of cells, for ring-mean heterogeneous rates.
func (st *PlumeState) hetStateMean(cells []int, tempK, pressPa, airDens, rhi float64) HetState {
	s := HetState{
		TempK:   tempK,
		PressPa: pressPa,
		AirDens: airDens,
		RHi:     rhi,
		Area:    make([]float64, 3),
		Radius:  make([]float64, 3),
	}
	if len(cells) == 0 {
		return s
	}
	for _, c := range cells {
		s.Area[0] += st.SootArea.Elements[c]
		s.Area[1] += st.Liquid.SurfaceAreaAt(c)
		s.Area[2] += st.Solid.SurfaceAreaAt(c)
		s.Radius[0] += st.SootRadi.Elements[c]
		s.Radius[1] += st.Liquid.EffRadiusAt(c)
		s.Radius[2] += st.Solid.EffRadiusAt(c)
	}
	n := float64(len(cells))
	for i := range s.Area {
		s.Area[i] /= n
		s.Radius[i] /= n
	}
	return s
}

// MassOf returns the grid-integrated column burden of species v: the
// concentration sum times the cell cross-section area [molec·m2/cm3].
// Spectral transport conserves this quantity exactly up to round-off,
// so drifts flag a bug in the coupling, not in the solver.
func (st *PlumeState) MassOf(v int) float64 {
	return st.Species[v].Sum() * st.Grid.CellArea()
}
