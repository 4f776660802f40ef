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

// Package vertex generates ready-to-upload vertex arrays for the quad,
// rounded-rect and stroked-rect draw families, with non-antialiased and
// per-edge-antialiased variants of each.
package vertex

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/rendergo/rendergo/geom"
)

// AAFlag marks which edges of a quad should receive antialiasing coverage
// ramps. The edges walk the Z-order corners of geom.Quad.Points as drawn
// below: edge 0 is 0→1, edge 1 is 1→3, edge 2 is 3→2 and edge 3 is 2→0.
//
//	0 ←-- 2
//	↓     ↑
//	1 --→ 3
type AAFlag uint8

const (
	AAFlagEdge0 AAFlag = 1 << 0
	AAFlagEdge1 AAFlag = 1 << 1
	AAFlagEdge2 AAFlag = 1 << 2
	AAFlagEdge3 AAFlag = 1 << 3
	AAFlagNone  AAFlag = 0
	AAFlagAll   AAFlag = AAFlagEdge0 | AAFlagEdge1 | AAFlagEdge2 | AAFlagEdge3
)

// Color is a straight (non-premultiplied) RGBA color in [0,1].
type Color struct {
	R, G, B, A float64
}

// Record pairs a Z-order quad with its per-edge AA flags, paint color, and
// a transform applied at vertex-generation time (letting many quads share
// one batch while keeping distinct placement transforms).
type Record struct {
	Quad    geom.Quad
	AAFlags AAFlag
	Color   Color
	Matrix  matrix.Matrix
}

// NewRecord returns a Record with the identity matrix and opaque black,
// for callers that only care about geometry.
func NewRecord(quad geom.Quad, flags AAFlag) Record {
	return Record{Quad: quad, AAFlags: flags, Color: Color{A: 1}, Matrix: matrix.Identity}
}
