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

// Package apcemm simulates the chemical and microphysical evolution of an
// aircraft exhaust plume and contrail cross-section over a multi-hour
// horizon. A Model couples spectral advection-diffusion transport, stiff
// gas-phase chemical kinetics with heterogeneous reaction rates, and
// binned aerosol coagulation, growth and settling on a fixed 2-D mesh of
// the plume cross-section perpendicular to the flight direction.
//
// Chemistry can be solved on the full mesh or on a reduced set of
// concentric elliptical rings; in the ring representation, per-ring
// concentration changes are redistributed onto the mesh cells each ring
// overlaps without erasing intra-ring spatial structure.
package apcemm

// Version is the version of this software.
const Version = "1.2.0"
