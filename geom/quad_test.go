// rendergo - a 2D graphics placement, compositing and PDF export engine
// Copyright (C) 2026  The rendergo Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package geom_test

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/rendergo/rendergo/geom"
)

func TestMakeRectIsRectUnderIdentity(t *testing.T) {
	q := geom.MakeRect(0, 0, 10, 10, matrix.Identity)
	if !q.IsRect() {
		t.Fatalf("IsRect() = false under identity, want true")
	}
	if q.Points[geom.LT].X != 0 || q.Points[geom.RB].X != 10 {
		t.Fatalf("unexpected Z-order points: %+v", q.Points)
	}
}

func TestTransformDowngradesIsRectUnderShear(t *testing.T) {
	q := geom.MakeRect(0, 0, 10, 10, matrix.Identity)
	shear := matrix.Matrix{1, 0, 0.5, 1, 0, 0}
	q.Transform(shear)
	if q.IsRect() {
		t.Fatalf("IsRect() = true after shear, want false")
	}
}

func TestTransformKeepsIsRectUnderRotation(t *testing.T) {
	q := geom.MakeRect(0, 0, 10, 10, matrix.Identity)
	angle := math.Pi / 6
	rot := matrix.Matrix{math.Cos(angle), math.Sin(angle), -math.Sin(angle), math.Cos(angle), 0, 0}
	q.Transform(rot)
	if !q.IsRect() {
		t.Fatalf("IsRect() = false after pure rotation, want true")
	}
}

func TestIsRectNeverUpgrades(t *testing.T) {
	q := geom.MakeRect(0, 0, 10, 10, matrix.Identity)
	shear := matrix.Matrix{1, 0, 0.5, 1, 0, 0}
	q.Transform(shear)
	// undo the shear exactly; a real implementation still must not
	// re-upgrade isRect once it has been downgraded.
	unshear := matrix.Matrix{1, 0, -0.5, 1, 0, 0}
	q.Transform(unshear)
	if q.IsRect() {
		t.Fatalf("IsRect() = true after undoing a shear, want false (downgrade-only cache)")
	}
}
