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

// Package sands implements the Spectral Advection aNd Diffusion Solver:
// one advection-diffusion step of a 2-D scalar field on a periodic
// uniform mesh, computed exactly in Fourier space for the current
// (constant-in-space) diffusion coefficients and advection velocities.
package sands

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Solver advances scalar fields by one advection-diffusion step.
// It is not safe for concurrent use; each simulation run owns its own
// solvers.
type Solver struct {
	nx, ny int
	kx, ky []float64 // angular wavenumbers [1/m]

	// Per-step parameters, set through the Update methods.
	dt     float64 // [s]
	dh, dv float64 // diffusion coefficients [m2/s]
	vx, vy float64 // advection velocities [m/s]

	// Fill policy applied after the inverse transform: spectral steps
	// can undershoot zero near sharp gradients.
	fillNegatives bool
	fillWith      float64

	rowFFT, colFFT *fourier.CmplxFFT
	work           []complex128 // ny*nx scratch
	line           []complex128 // max(nx, ny) scratch
	lineOut        []complex128
}

// NewSolver creates a solver for an nx × ny mesh spanning lx × ly meters.
// If fillNegatives is true, cell values below fillWith after a step are
// raised to fillWith.
func NewSolver(nx, ny int, lx, ly float64, fillNegatives bool, fillWith float64) (*Solver, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("sands: mesh %d × %d is too small", nx, ny)
	}
	if lx <= 0 || ly <= 0 {
		return nil, fmt.Errorf("sands: invalid domain size %g × %g", lx, ly)
	}
	s := &Solver{
		nx:            nx,
		ny:            ny,
		fillNegatives: fillNegatives,
		fillWith:      fillWith,
		rowFFT:        fourier.NewCmplxFFT(nx),
		colFFT:        fourier.NewCmplxFFT(ny),
		work:          make([]complex128, nx*ny),
	}
	n := nx
	if ny > n {
		n = ny
	}
	s.line = make([]complex128, n)
	s.lineOut = make([]complex128, n)

	s.kx = wavenumbers(nx, lx)
	s.ky = wavenumbers(ny, ly)
	return s, nil
}

// wavenumbers returns the angular wavenumber for each FFT coefficient of
// an n-point transform over length l.
func wavenumbers(n int, l float64) []float64 {
	k := make([]float64, n)
	for i := range k {
		m := i
		if i > n/2 {
			m = i - n
		}
		k[i] = 2. * math.Pi * float64(m) / l
	}
	return k
}

// UpdateTimeStep sets the step size [s] for subsequent Solve calls.
func (s *Solver) UpdateTimeStep(dt float64) { s.dt = dt }

// UpdateDiff sets the horizontal and vertical diffusion coefficients
// [m2/s] for subsequent Solve calls.
func (s *Solver) UpdateDiff(dh, dv float64) { s.dh, s.dv = dh, dv }

// UpdateAdv sets the horizontal and vertical advection velocities [m/s]
// for subsequent Solve calls.
func (s *Solver) UpdateAdv(vx, vy float64) { s.vx, s.vy = vx, vy }

// Warmup runs one step on a zeroed field so the transform plans are
// built before the time loop starts.
func (s *Solver) Warmup() error {
	return s.Solve(sparse.ZerosDense(s.ny, s.nx))
}

// Solve advances field by one advection-diffusion step in place. The
// field must have shape [ny, nx].
func (s *Solver) Solve(field *sparse.DenseArray) error {
	if len(field.Shape) != 2 || field.Shape[0] != s.ny || field.Shape[1] != s.nx {
		return fmt.Errorf("sands: field shape %v does not match %d × %d mesh",
			field.Shape, s.nx, s.ny)
	}

	for i, v := range field.Elements {
		s.work[i] = complex(v, 0)
	}

	// Row transforms, then column transforms.
	for j := 0; j < s.ny; j++ {
		row := s.work[j*s.nx : (j+1)*s.nx]
		copy(s.line[:s.nx], row)
		s.rowFFT.Coefficients(s.lineOut[:s.nx], s.line[:s.nx])
		copy(row, s.lineOut[:s.nx])
	}
	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			s.line[j] = s.work[j*s.nx+i]
		}
		s.colFFT.Coefficients(s.lineOut[:s.ny], s.line[:s.ny])
		for j := 0; j < s.ny; j++ {
			s.work[j*s.nx+i] = s.lineOut[j]
		}
	}

	// Exact propagator for constant coefficients:
	//   ĉ(t+dt) = ĉ(t) · exp(−(dh·kx² + dv·ky²)·dt − i(vx·kx + vy·ky)·dt)
	for j := 0; j < s.ny; j++ {
		for i := 0; i < s.nx; i++ {
			decay := -(s.dh*s.kx[i]*s.kx[i] + s.dv*s.ky[j]*s.ky[j]) * s.dt
			phase := -(s.vx*s.kx[i] + s.vy*s.ky[j]) * s.dt
			s.work[j*s.nx+i] *= cmplx.Exp(complex(decay, phase))
		}
	}

	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			s.line[j] = s.work[j*s.nx+i]
		}
		s.colFFT.Sequence(s.lineOut[:s.ny], s.line[:s.ny])
		for j := 0; j < s.ny; j++ {
			s.work[j*s.nx+i] = s.lineOut[j]
		}
	}
	norm := 1. / float64(s.nx*s.ny)
	for j := 0; j < s.ny; j++ {
		row := s.work[j*s.nx : (j+1)*s.nx]
		copy(s.line[:s.nx], row)
		s.rowFFT.Sequence(s.lineOut[:s.nx], s.line[:s.nx])
		for i := 0; i < s.nx; i++ {
			v := real(s.lineOut[i]) * norm
			if s.fillNegatives && v < s.fillWith {
				v = s.fillWith
			}
			field.Elements[j*s.nx+i] = v
		}
	}
	return nil
}
