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

package vertex_test

import (
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/rendergo/rendergo/render/vertex"
)

func TestFillRRectFloatsTriangleFanLength(t *testing.T) {
	records := []vertex.RRectRecord{{
		RRect:  vertex.RRect{Left: 0, Top: 0, Right: 100, Bottom: 50, RadiusX: 10, RadiusY: 10},
		Matrix: matrix.Identity,
		Color:  vertex.Color{A: 1},
	}}
	floats, counts := vertex.FillRRectFloats(records)
	if len(counts) != 1 {
		t.Fatalf("len(counts) = %d, want 1", len(counts))
	}
	if got, want := len(floats), counts[0]*6; got != want {
		t.Fatalf("len(floats) = %d, want %d", got, want)
	}
}

func TestRRectOutlineClampsRadiusToHalfExtent(t *testing.T) {
	r := vertex.RRect{Left: 0, Top: 0, Right: 10, Bottom: 10, RadiusX: 100, RadiusY: 100}
	pts := vertex.RRectOutline(r)
	for _, p := range pts {
		if p.X < -1e-9 || p.X > 10+1e-9 || p.Y < -1e-9 || p.Y > 10+1e-9 {
			t.Fatalf("outline point %v escapes the clamped rect bounds", p)
		}
	}
}

func TestStrokeRectFloatsProducesEightVertices(t *testing.T) {
	records := []vertex.StrokeRectRecord{{
		Left: 0, Top: 0, Right: 100, Bottom: 50, Width: 4,
		Matrix: matrix.Identity, Color: vertex.Color{A: 1},
	}}
	floats := vertex.StrokeRectFloats(records)
	if got, want := len(floats), 8*6; got != want {
		t.Fatalf("len(floats) = %d, want %d", got, want)
	}
}
