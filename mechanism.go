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

import "github.com/cpmech/gosl/la"

// MechDims holds the fixed dimensions of a chemical mechanism. The
// model core is generic over mechanism size: all chemistry work buffers
// are allocated from these numbers at run start.
type MechDims struct {
	NVar    int // variable (integrated) species
	NFix    int // fixed species
	NSpec   int // NVar + NFix
	NReact  int // reactions
	NPhotol int // photolysis rates
	NHet    int // heterogeneous rate entries
	NAero   int // aerosol surface types feeding heterogeneous rates
}

// HetState carries the aerosol surface properties and thermodynamic
// state that heterogeneous reaction rates depend on. Area and Radius
// have one entry per aerosol type (length NAero).
type HetState struct {
	TempK   float64
	PressPa float64
	AirDens float64 // [molec/cm3]
	RHi     float64 // relative humidity w.r.t. ice [%]

	Area   []float64 // surface area density per aerosol type [m2/cm3]
	Radius []float64 // effective radius per aerosol type [m]
}

// Mechanism is an interface for atmospheric chemical mechanisms:
// species bookkeeping, rate-law evaluation, and the ODE right-hand side
// and Jacobian consumed by the stiff integrator. Implementations must
// be stateless; all mutable buffers belong to the caller's ChemContext,
// so one Mechanism value may serve concurrent runs.
type Mechanism interface {
	// Dims returns the mechanism's fixed dimensions.
	Dims() MechDims

	// VarNames returns the variable species names, indexed as in the
	// concentration arrays passed to Derivative and Jacobian.
	VarNames() []string

	// FixNames returns the fixed species names.
	FixNames() []string

	// VarIndex returns the concentration-array index of the named
	// variable species.
	VarIndex(name string) (int, bool)

	// Photolysis fills photol (length NPhotol) with photolysis rates
	// [1/s] for the given cosine of the solar zenith angle. Callers
	// zero the table themselves when the sun is below the horizon.
	Photolysis(photol []float64, csza float64)

	// Heterogeneous fills het (length NHet) with first-order
	// heterogeneous loss rates [1/s] from the aerosol surface state.
	Heterogeneous(het []float64, s HetState)

	// RateConstants fills k (length NReact) with reaction rate
	// constants from the thermodynamic state, folding in the supplied
	// photolysis and heterogeneous tables.
	RateConstants(k []float64, tempK, pressPa, airDens float64, photol, het []float64)

	// Derivative computes f = dy/dt for variable concentrations y
	// [molec/cm3], fixed concentrations fix, and rate constants k.
	Derivative(f, y, fix, k []float64)

	// Jacobian fills dfdy with ∂f/∂y in sparse triplet form.
	Jacobian(dfdy *la.Triplet, y, fix, k []float64)

	// JacobianNonzeros returns an upper bound on the number of nonzero
	// Jacobian entries, used to size the triplet.
	JacobianNonzeros() int
}

// WeightedSpecies is one member of a conserved species group.
type WeightedSpecies struct {
	Index  int     // variable species index
	Weight float64 // stoichiometric weight, e.g. 2 for N2O5 in NOy
}

// MassDiagnoser is implemented by mechanisms that can name conserved
// species groups (NOy, CO2, ...) for the optional per-step
// mass-conservation diagnostics.
type MassDiagnoser interface {
	ConservedGroups() map[string][]WeightedSpecies
}
