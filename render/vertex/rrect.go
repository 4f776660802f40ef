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

package vertex

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// arcSegments is how many line segments approximate each 90-degree rounded
// corner. The original mesh is a fixed-topology analytic patch evaluated in
// the vertex shader; this is a scaled-down straight-line approximation of
// the same corner shape, good enough for CPU-side tessellation.
const arcSegments = 4

// RRect is an axis-aligned rectangle with a single corner radius applied to
// all four corners (a simplified version of the original's independent
// per-corner radii).
type RRect struct {
	Left, Top, Right, Bottom float64
	RadiusX, RadiusY         float64
}

// RRectRecord pairs a rounded rect with its placement transform and paint
// color.
type RRectRecord struct {
	RRect  RRect
	Matrix matrix.Matrix
	Color  Color
}

// outline returns the rounded rect's boundary as a closed polygon in local
// space, walking clockwise from the top-left arc's start point.
func (r RRect) outline() []vec.Vec2 {
	rx, ry := r.RadiusX, r.RadiusY
	maxRX := (r.Right - r.Left) / 2
	maxRY := (r.Bottom - r.Top) / 2
	rx = math.Min(rx, maxRX)
	ry = math.Min(ry, maxRY)

	corner := func(cx, cy float64, startAngle float64) []vec.Vec2 {
		pts := make([]vec.Vec2, 0, arcSegments+1)
		for i := 0; i <= arcSegments; i++ {
			theta := startAngle + float64(i)/float64(arcSegments)*(math.Pi/2)
			pts = append(pts, vec.Vec2{X: cx + rx*math.Cos(theta), Y: cy + ry*math.Sin(theta)})
		}
		return pts
	}

	var out []vec.Vec2
	out = append(out, corner(r.Left+rx, r.Top+ry, math.Pi)...)
	out = append(out, corner(r.Right-rx, r.Top+ry, 3*math.Pi/2)...)
	out = append(out, corner(r.Right-rx, r.Bottom-ry, 0)...)
	out = append(out, corner(r.Left+rx, r.Bottom-ry, math.Pi/2)...)
	return out
}

// FillRRectFloats returns a fan-triangulated (center, then each boundary
// vertex in order, closing back to the first) position/color attribute
// stream for non-antialiased rounded-rect fills: one center vertex,
// len(outline) boundary vertices and the repeated first boundary vertex,
// per record (vertsPerRecord holds that count). Consumers draw this
// as a triangle fan per record.
func FillRRectFloats(records []RRectRecord) (floats []float32, vertsPerRecord []int) {
	vertsPerRecord = make([]int, len(records))
	for i, r := range records {
		pts := r.RRect.outline()
		cx := (r.RRect.Left + r.RRect.Right) / 2
		cy := (r.RRect.Top + r.RRect.Bottom) / 2
		center := r.Matrix.Apply(vec.Vec2{X: cx, Y: cy})
		floats = append(floats, float32(center.X), float32(center.Y),
			float32(r.Color.R), float32(r.Color.G), float32(r.Color.B), float32(r.Color.A))
		for _, p := range pts {
			tp := r.Matrix.Apply(p)
			floats = append(floats, float32(tp.X), float32(tp.Y),
				float32(r.Color.R), float32(r.Color.G), float32(r.Color.B), float32(r.Color.A))
		}
		// close the fan back to the first boundary vertex.
		tp := r.Matrix.Apply(pts[0])
		floats = append(floats, float32(tp.X), float32(tp.Y),
			float32(r.Color.R), float32(r.Color.G), float32(r.Color.B), float32(r.Color.A))
		vertsPerRecord[i] = len(pts) + 2
	}
	return floats, vertsPerRecord
}

// RRectOutline is exported for stroke-rect providers and tests that need
// the raw local-space boundary polygon without the fill triangulation.
func RRectOutline(r RRect) []vec.Vec2 { return r.outline() }
