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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// StrokeRectRecord is a rectangle stroked with a given miter width, emitted
// as a quad ring (outer boundary, inner boundary) rather than the
// round-join variant, which callers building round-cornered strokes should
// instead route through RRectRecord with hairline-equal radii.
type StrokeRectRecord struct {
	Left, Top, Right, Bottom float64
	Width                    float64
	Matrix                   matrix.Matrix
	Color                    Color
}

// StrokeRectFloats returns the 8-vertex-per-record outer+inner ring used to
// draw a rectangle's miter-joined stroke as a triangle strip (quad per
// edge): 4 outer corners followed by 4 inner corners, in the same Z-order
// as geom.Quad.
func StrokeRectFloats(records []StrokeRectRecord) []float32 {
	out := make([]float32, 0, len(records)*8*6)
	for _, r := range records {
		half := r.Width / 2
		outer := [4]vec.Vec2{
			{X: r.Left - half, Y: r.Top - half},
			{X: r.Left - half, Y: r.Bottom + half},
			{X: r.Right + half, Y: r.Top - half},
			{X: r.Right + half, Y: r.Bottom + half},
		}
		inner := [4]vec.Vec2{
			{X: r.Left + half, Y: r.Top + half},
			{X: r.Left + half, Y: r.Bottom - half},
			{X: r.Right - half, Y: r.Top + half},
			{X: r.Right - half, Y: r.Bottom - half},
		}
		for _, p := range outer {
			tp := r.Matrix.Apply(p)
			out = append(out, float32(tp.X), float32(tp.Y),
				float32(r.Color.R), float32(r.Color.G), float32(r.Color.B), float32(r.Color.A))
		}
		for _, p := range inner {
			tp := r.Matrix.Apply(p)
			out = append(out, float32(tp.X), float32(tp.Y),
				float32(r.Color.R), float32(r.Color.G), float32(r.Color.B), float32(r.Color.A))
		}
	}
	return out
}
