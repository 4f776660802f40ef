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

	"seehuhn.de/go/geom/vec"
)

// aaInsetOutset is how far, in local quad units, the antialiased provider
// moves the inset ring inward and the outset ring outward from the quad's
// true edges to build a one-pixel-wide coverage ramp.
const aaInsetOutset = 0.5

// degenerateCosThreshold: an edge pair whose angle cosine exceeds this is
// treated as nearly collinear, too sharp for a stable miter offset.
const degenerateCosThreshold = 0.9

// degenerateMinEdgeLength: edges shorter than this cannot carry a stable
// one-pixel AA ramp and fall back to the degenerate path.
const degenerateMinEdgeLength = 1.0

// Floats returns the packed position/color attribute stream for the
// non-antialiased quad batch: 4 vertices per record, each
// (x, y, r, g, b, a), in geom.Quad Z-order.
func Floats(records []Record) []float32 {
	out := make([]float32, 0, len(records)*4*6)
	for _, r := range records {
		q := r.Quad
		q.Transform(r.Matrix)
		for _, p := range q.Points {
			out = append(out,
				float32(p.X), float32(p.Y),
				float32(r.Color.R), float32(r.Color.G), float32(r.Color.B), float32(r.Color.A))
		}
	}
	return out
}

// VertexCount returns the number of vertices Floats (or FloatsAA) will
// produce for records: 4 per quad without antialiasing, 8 per quad (4 inset
// + 4 outset) with it.
func VertexCount(records []Record, antiAlias bool) int {
	if !antiAlias {
		return len(records) * 4
	}
	return len(records) * 8
}

// edgeData holds, for one quad edge, its direction vector and length.
type edgeData struct {
	dir vec.Vec2
	len float64
}

// edgeEquation is the implicit line ax+by+c=0 for one quad edge, with
// (a,b) the outward unit normal, used to offset vertices by intersecting
// adjacent edges' equations rather than displacing along a single miter
// vector (needed when the miter direction is unstable).
type edgeEquation struct {
	a, b, c float64
}

// computeEdgeDatas returns the 4 edge vectors p[i+1]-p[i] (indices mod 4)
// and their lengths.
func computeEdgeDatas(p [4]vec.Vec2) [4]edgeData {
	var e [4]edgeData
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		d := vec.Vec2{X: p[j].X - p[i].X, Y: p[j].Y - p[i].Y}
		e[i] = edgeData{dir: d, len: math.Hypot(d.X, d.Y)}
	}
	return e
}

// computeEdgeEquations turns each edge into its implicit line equation with
// an outward-pointing unit normal (outward relative to the quad's own
// winding, i.e. rotate the edge direction by -90 degrees).
func computeEdgeEquations(p [4]vec.Vec2, edges [4]edgeData) [4]edgeEquation {
	var eq [4]edgeEquation
	for i, e := range edges {
		if e.len < 1e-9 {
			continue
		}
		nx := e.dir.Y / e.len
		ny := -e.dir.X / e.len
		eq[i] = edgeEquation{a: nx, b: ny, c: -(nx*p[i].X + ny*p[i].Y)}
	}
	return eq
}

// isCollinear reports whether three consecutive quad corners are nearly on
// one line, the case the miter-intersect path cannot handle.
func isCollinear(p0, p1, p2 vec.Vec2) bool {
	cross := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	return math.Abs(cross) < 1e-6
}

// isAADegenerate reports whether quad q's corner angles or edge lengths are
// too extreme for a stable miter-based AA offset. Rectangles are never
// degenerate regardless of size, since their corners are always 90 degrees.
func isAADegenerate(p [4]vec.Vec2, isRect bool, edges [4]edgeData) bool {
	if isRect {
		return false
	}
	for _, e := range edges {
		if e.len < degenerateMinEdgeLength {
			return true
		}
	}
	for i := 0; i < 4; i++ {
		prev := edges[(i+3)%4]
		cur := edges[i]
		if prev.len < 1e-9 || cur.len < 1e-9 {
			continue
		}
		// cosTheta between the incoming edge direction and the reversed
		// outgoing edge direction; close to +/-1 means a near-straight or
		// near-folded-back corner.
		dot := -prev.dir.X*cur.dir.X - prev.dir.Y*cur.dir.Y
		cosTheta := dot / (prev.len * cur.len)
		if cosTheta > degenerateCosThreshold {
			return true
		}
	}
	return false
}

// computeAAVertices offsets each corner of p along the averaged normal of
// its two adjacent edges, scaled so that each adjacent edge moves by
// +/- aaInsetOutset, producing the inset ring (coverage 1) and outset ring
// (coverage 0) for the non-degenerate miter path.
func computeAAVertices(p [4]vec.Vec2, edges [4]edgeData) (inset, outset [4]vec.Vec2) {
	for i := 0; i < 4; i++ {
		prev := edges[(i+3)%4]
		cur := edges[i]
		var nx, ny float64
		if prev.len > 1e-9 {
			nx += prev.dir.Y / prev.len
			ny += -prev.dir.X / prev.len
		}
		if cur.len > 1e-9 {
			nx += cur.dir.Y / cur.len
			ny += -cur.dir.X / cur.len
		}
		norm := math.Hypot(nx, ny)
		if norm > 1e-9 {
			nx /= norm
			ny /= norm
		}
		d := aaInsetOutset
		if cur.len > 1e-9 {
			// divide by the cosine between the miter and the edge normal
			if cos := (nx*cur.dir.Y - ny*cur.dir.X) / cur.len; cos > 1e-9 {
				d = aaInsetOutset / cos
			}
		}
		inset[i] = vec.Vec2{X: p[i].X - nx*d, Y: p[i].Y - ny*d}
		outset[i] = vec.Vec2{X: p[i].X + nx*d, Y: p[i].Y + ny*d}
	}
	return inset, outset
}

// intersectLines solves the 2x2 system formed by two edge equations,
// returning ok=false if the lines are parallel.
func intersectLines(e1, e2 edgeEquation) (vec.Vec2, bool) {
	det := e1.a*e2.b - e2.a*e1.b
	if math.Abs(det) < 1e-9 {
		return vec.Vec2{}, false
	}
	x := (-e1.c*e2.b + e2.c*e1.b) / det
	y := (-e1.a*e2.c + e2.a*e1.c) / det
	return vec.Vec2{X: x, Y: y}, true
}

// offsetQuadByIntersect builds one offset ring (inset when sign is -1,
// outset when sign is +1) by translating every edge equation along its own
// normal by sign*aaInsetOutset and intersecting each pair of adjacent
// offset lines, the fallback used when the per-vertex miter direction in
// computeAAVertices would be unstable.
func offsetQuadByIntersect(p [4]vec.Vec2, eq [4]edgeEquation, sign float64) [4]vec.Vec2 {
	var offset [4]edgeEquation
	for i, e := range eq {
		offset[i] = edgeEquation{a: e.a, b: e.b, c: e.c - sign*aaInsetOutset}
	}
	var out [4]vec.Vec2
	for i := 0; i < 4; i++ {
		prev := offset[(i+3)%4]
		cur := offset[i]
		if ip, ok := intersectLines(prev, cur); ok {
			out[i] = ip
		} else {
			out[i] = p[i]
		}
	}
	return out
}

// correctTriangleDegeneration detects an offset ring that has folded past
// its own interior (an inset ring wider than the quad it's supposed to sit
// inside) and clamps it back to the midpoint of the two adjacent original
// corners, avoiding an inverted sliver triangle in the coverage ramp.
func correctTriangleDegeneration(p, ring [4]vec.Vec2) [4]vec.Vec2 {
	out := ring
	for i := 0; i < 4; i++ {
		prev := p[(i+3)%4]
		next := p[(i+1)%4]
		// if ring[i] lies outside the triangle (prev, p[i], next) relative to
		// p[i], it has crossed over; clamp to the corner itself.
		toPrev := vec.Vec2{X: prev.X - p[i].X, Y: prev.Y - p[i].Y}
		toNext := vec.Vec2{X: next.X - p[i].X, Y: next.Y - p[i].Y}
		toRing := vec.Vec2{X: ring[i].X - p[i].X, Y: ring[i].Y - p[i].Y}
		crossPrev := toPrev.X*toRing.Y - toPrev.Y*toRing.X
		crossNext := toNext.X*toRing.Y - toNext.Y*toRing.X
		if crossPrev*crossNext > 0 {
			out[i] = p[i]
		}
	}
	return out
}

// computeAAVerticesDegenerate is the fallback AA-ring construction for
// quads isAADegenerate rejects for the miter path: it offsets by
// intersecting translated edge equations instead of per-vertex averaged
// normals, then corrects any resulting triangle degeneration.
func computeAAVerticesDegenerate(p [4]vec.Vec2, eq [4]edgeEquation) (inset, outset [4]vec.Vec2) {
	inset = offsetQuadByIntersect(p, eq, -1)
	outset = offsetQuadByIntersect(p, eq, 1)
	inset = correctTriangleDegeneration(p, inset)
	outset = correctTriangleDegeneration(p, outset)
	return inset, outset
}

// writeAAQuadVertices appends the 8-vertex (4 inset + 4 outset) AA
// attribute block for one record: position, coverage (1 for inset, 0 for
// outset) and color.
func writeAAQuadVertices(out []float32, inset, outset [4]vec.Vec2, c Color) []float32 {
	for i := 0; i < 4; i++ {
		out = append(out, float32(inset[i].X), float32(inset[i].Y), 1,
			float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	}
	for i := 0; i < 4; i++ {
		out = append(out, float32(outset[i].X), float32(outset[i].Y), 0,
			float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	}
	return out
}

// FloatsAA returns the packed position/coverage/color attribute stream for
// the antialiased quad batch: 8 vertices per record (4-vertex inset ring at
// coverage 1 then 4-vertex outset ring at coverage 0), each
// (x, y, coverage, r, g, b, a).
//
// Quads whose corner angles or edge lengths isAADegenerate rejects fall
// back to an edge-equation-intersection offset instead of the per-vertex
// miter normal, matching the degenerate-path behavior of the original GPU
// vertex shader this is ported from.
func FloatsAA(records []Record) []float32 {
	out := make([]float32, 0, len(records)*8*7)
	for _, r := range records {
		q := r.Quad
		q.Transform(r.Matrix)
		// Z-order (LT, LB, RT, RB) is not a ring; walk the corners as LT,
		// RT, RB, LB so that consecutive points share a quad edge.
		z := q.Points
		p := [4]vec.Vec2{z[0], z[2], z[3], z[1]}
		edges := computeEdgeDatas(p)

		var inset, outset [4]vec.Vec2
		if isAADegenerate(p, q.IsRect(), edges) {
			eq := computeEdgeEquations(p, edges)
			inset, outset = computeAAVerticesDegenerate(p, eq)
		} else {
			inset, outset = computeAAVertices(p, edges)
		}
		inset = [4]vec.Vec2{inset[0], inset[3], inset[1], inset[2]}
		outset = [4]vec.Vec2{outset[0], outset[3], outset[1], outset[2]}
		out = writeAAQuadVertices(out, inset, outset, r.Color)
	}
	return out
}
