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

// Package geom holds the 2D primitives shared by the vertex-provider and
// BSP-compositor backends: a four-point Quad in a fixed corner order, and
// the matrix-classification helpers that decide whether a transformed quad
// is still provably a rectangle.
package geom

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Corner indices into Quad.Points, in the Z-order the rest of the rendering
// pipeline expects: left-top, left-bottom, right-top, right-bottom.
const (
	LT = 0
	LB = 1
	RT = 2
	RB = 3
)

// Quad is four points in Z-order together with a cached "is this an actual
// rectangle" bit. isRect is computed once at construction and can only be
// downgraded to false by later transforms, never recomputed to true — a
// transform that happens to straighten out a skewed quad is not detected,
// matching the allocator-friendly, detect-don't-prove design of the
// original.
type Quad struct {
	Points [4]vec.Vec2
	isRect bool
}

// MakeRect builds a Quad from an axis-aligned rectangle (given by its
// left, top, right and bottom edges in the rect's own local space) mapped
// through m. isRect is true unless m introduces shear or non-uniform
// skew that breaks right angles.
func MakeRect(left, top, right, bottom float64, m matrix.Matrix) Quad {
	q := Quad{
		Points: [4]vec.Vec2{
			m.Apply(vec.Vec2{X: left, Y: top}),
			m.Apply(vec.Vec2{X: left, Y: bottom}),
			m.Apply(vec.Vec2{X: right, Y: top}),
			m.Apply(vec.Vec2{X: right, Y: bottom}),
		},
	}
	q.isRect = RectStaysRect(m) || PreservesRightAngles(m)
	return q
}

// MakeFromCW builds a Quad from four points given in clockwise order
// (p0 top-left, p1 top-right, p2 bottom-right, p3 bottom-left — the order a
// caller walking a polygon clockwise would naturally produce) and remaps
// them into the Z-order Quad.Points uses. isRect defaults to false: a
// caller constructing from raw points has made no rectangularity claim.
func MakeFromCW(p0, p1, p2, p3 vec.Vec2) Quad {
	return Quad{Points: [4]vec.Vec2{p0, p3, p1, p2}}
}

// IsRect reports whether the quad is known to still be an actual rectangle.
// A false result does not prove the quad isn't one; it only means the cache
// was downgraded or never proven.
func (q Quad) IsRect() bool { return q.isRect }

// Transform applies m to every point in place. isRect is downgraded to
// false if m does not preserve right angles; it is never upgraded back to
// true even if the composed transform happens to be rectilinear again.
func (q *Quad) Transform(m matrix.Matrix) {
	for i := range q.Points {
		q.Points[i] = m.Apply(q.Points[i])
	}
	if q.isRect && !(RectStaysRect(m) || PreservesRightAngles(m)) {
		q.isRect = false
	}
}

// Bounds returns the axis-aligned bounding box of the quad's four points.
func (q Quad) Bounds() (minX, minY, maxX, maxY float64) {
	minX, maxX = q.Points[0].X, q.Points[0].X
	minY, maxY = q.Points[0].Y, q.Points[0].Y
	for _, p := range q.Points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return
}

const rightAngleEpsilon = 1e-9

// RectStaysRect reports whether m is a pure axis-aligned scale/translate or
// a multiple-of-90-degree rotation combined with one — the Skia-style
// narrow definition, where an axis-aligned rectangle maps to another
// axis-aligned rectangle.
func RectStaysRect(m matrix.Matrix) bool {
	a, b, c, d := m[0], m[1], m[2], m[3]
	return (nearZero(b) && nearZero(c)) || (nearZero(a) && nearZero(d))
}

// PreservesRightAngles reports whether m's linear part is a similarity
// transform (rotation plus uniform scale, no shear): the more general
// condition under which a rectangle maps to another rectangle even when it
// is no longer axis-aligned.
func PreservesRightAngles(m matrix.Matrix) bool {
	a, b, c, d := m[0], m[1], m[2], m[3]
	// Columns (a,b) and (c,d) of the linear part must be orthogonal and of
	// equal magnitude.
	dot := a*c + b*d
	magDiff := (a*a + b*b) - (c*c + d*d)
	return nearZero(dot) && nearZero(magDiff)
}

func nearZero(v float64) bool {
	return v > -rightAngleEpsilon && v < rightAngleEpsilon
}
