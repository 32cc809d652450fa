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

import "testing"

func TestSpatialGrid(t *testing.T) {
	g, err := NewSpatialGrid(16, 8, 8000, 400)
	if err != nil {
		t.Fatal(err)
	}
	if g.Dx != 1000 || g.Dy != 100 {
		t.Errorf("cell sizes = %g × %g; want 1000 × 100", g.Dx, g.Dy)
	}
	if different(g.CellArea(), 1000*100, testTolerance) {
		t.Errorf("cell area = %g", g.CellArea())
	}
	if different(g.TotalArea(), 2*8000*2*400, testTolerance) {
		t.Errorf("total area = %g", g.TotalArea())
	}

	// Cell centers are symmetric about the flight track.
	if different(g.X(0), -g.X(g.Nx-1), testTolerance) {
		t.Errorf("x centers not symmetric: %g vs %g", g.X(0), g.X(g.Nx-1))
	}
	if different(g.Y(0), -g.Y(g.Ny-1), testTolerance) {
		t.Errorf("y centers not symmetric: %g vs %g", g.Y(0), g.Y(g.Ny-1))
	}
	if different(g.X(1)-g.X(0), g.Dx, testTolerance) {
		t.Errorf("x spacing = %g; want %g", g.X(1)-g.X(0), g.Dx)
	}

	f := g.NewField()
	if len(f.Elements) != 16*8 {
		t.Errorf("field has %d elements; want %d", len(f.Elements), 16*8)
	}
	c := g.NewConstantField(3.5)
	if different(c.Sum(), 3.5*16*8, testTolerance) {
		t.Errorf("constant field sum = %g", c.Sum())
	}
}

func TestSpatialGridErrors(t *testing.T) {
	if _, err := NewSpatialGrid(0, 8, 100, 100); err == nil {
		t.Error("zero nx accepted")
	}
	if _, err := NewSpatialGrid(8, 8, -100, 100); err == nil {
		t.Error("negative domain accepted")
	}
}
