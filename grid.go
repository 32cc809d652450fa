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

	"github.com/ctessum/sparse"
)

// SpatialGrid is a fixed-resolution 2-D mesh of the plume cross-section.
// x spans the horizontal direction and y the vertical direction, both
// centered on the flight track. The grid is immutable after construction.
type SpatialGrid struct {
	Nx, Ny int
	Dx, Dy float64 // cell sizes [m]

	x, y []float64 // cell center coordinates [m]
}

// NewSpatialGrid creates an Nx × Ny mesh covering
// [-xLimit, xLimit] × [-yLimit, yLimit].
func NewSpatialGrid(nx, ny int, xLimit, yLimit float64) (*SpatialGrid, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("apcemm: invalid grid dimensions %d × %d", nx, ny)
	}
	if xLimit <= 0 || yLimit <= 0 {
		return nil, fmt.Errorf("apcemm: invalid domain half-widths %g × %g", xLimit, yLimit)
	}
	g := &SpatialGrid{
		Nx: nx,
		Ny: ny,
		Dx: 2. * xLimit / float64(nx),
		Dy: 2. * yLimit / float64(ny),
	}
	g.x = make([]float64, nx)
	for i := range g.x {
		g.x[i] = -xLimit + (float64(i)+0.5)*g.Dx
	}
	g.y = make([]float64, ny)
	for j := range g.y {
		g.y[j] = -yLimit + (float64(j)+0.5)*g.Dy
	}
	return g, nil
}

// X returns the x coordinate of cell column i [m].
func (g *SpatialGrid) X(i int) float64 { return g.x[i] }

// Y returns the y coordinate of cell row j [m].
func (g *SpatialGrid) Y(j int) float64 { return g.y[j] }

// XCoords returns a copy of the cell-center x coordinates.
func (g *SpatialGrid) XCoords() []float64 { return append([]float64{}, g.x...) }

// YCoords returns a copy of the cell-center y coordinates.
func (g *SpatialGrid) YCoords() []float64 { return append([]float64{}, g.y...) }

// CellArea returns the area of one mesh cell [m2].
func (g *SpatialGrid) CellArea() float64 { return g.Dx * g.Dy }

// TotalArea returns the area of the whole domain [m2]. It equals the
// number of cells times CellArea.
func (g *SpatialGrid) TotalArea() float64 {
	return float64(g.Nx*g.Ny) * g.CellArea()
}

// NewField allocates a scalar field with one value per mesh cell,
// indexed (row, column) = (j, i).
func (g *SpatialGrid) NewField() *sparse.DenseArray {
	return sparse.ZerosDense(g.Ny, g.Nx)
}

// NewConstantField allocates a scalar field with every cell set to v.
func (g *SpatialGrid) NewConstantField(v float64) *sparse.DenseArray {
	f := g.NewField()
	for i := range f.Elements {
		f.Elements[i] = v
	}
	return f
}
