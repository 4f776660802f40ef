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

// Package bsp3d implements the 3D-layer compositor's splittable polygon and
// its binary space partitioning tree, producing a back-to-front draw order
// for overlapping, possibly-intersecting image planes.
package bsp3d

import (
	"seehuhn.de/go/geom/vec"

	"github.com/rendergo/rendergo/geom"
	"github.com/rendergo/rendergo/internal/xerrors"
)

// splitThreshold is the distance tolerance for classifying a vertex as
// strictly in front of, strictly behind, or coplanar with a splitting
// plane.
const splitThreshold = 0.05

// localAAEpsilon is how close, in the image's local 2D space, an edge
// endpoint must be to the original rectangle boundary to still count as an
// image edge (and so keep antialiasing) rather than a BSP split edge.
const localAAEpsilon = 0.01

// Image is the minimal surface a DrawPolygon3D needs from an image
// reference: its pixel dimensions, used to build the initial rectangle and
// to classify which quad edges are original boundaries vs. split edges.
// Decoding, sampling and upload are out of scope; callers pass whatever
// already-resolved image handle their pipeline uses.
type Image interface {
	Width() int
	Height() int
}

// Polygon is a splittable 3D polygon: screen-space vertices, a plane
// normal, paint-order metadata, and the image/transform/paint state needed
// to re-flatten it into 2D quads once BSP splitting is complete.
type Polygon struct {
	image      Image
	matrix     geom.Matrix3D
	points     []geom.Vec3
	normal     geom.Vec3
	depth      int
	sequence   int
	isSplit    bool
	alpha      float64
	antiAlias  bool
}

// New constructs a Polygon from an image's rectangle (0,0)-(w,h) mapped
// through matrix into screen space. The caller guarantees the transformed
// vertices do not cross the observer's z-plane.
func New(image Image, matrix geom.Matrix3D, depth, sequence int, alpha float64, antiAlias bool) (*Polygon, error) {
	if image == nil {
		return nil, xerrors.New("bsp3d.New", "nil image")
	}
	w := float64(image.Width())
	h := float64(image.Height())
	corners := [4]geom.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: w, Y: 0, Z: 0},
		{X: w, Y: h, Z: 0},
		{X: 0, Y: h, Z: 0},
	}
	points := make([]geom.Vec3, 4)
	for i, c := range corners {
		points[i] = matrix.MapPoint(c)
	}
	p := &Polygon{
		image:     image,
		matrix:    matrix,
		points:    points,
		depth:     depth,
		sequence:  sequence,
		alpha:     alpha,
		antiAlias: antiAlias,
	}
	p.constructNormal()
	return p, nil
}

// constructNormal averages the cross products of opposite-ish vertex pairs
// from the first vertex, which is correct for any convex polygon with 3 or
// more vertices (not just quads).
func (p *Polygon) constructNormal() {
	n := geom.Vec3{}
	delta := len(p.points) / 2
	for i := 1; i+delta < len(p.points); i++ {
		v1 := p.points[i].Sub(p.points[0])
		v2 := p.points[i+delta].Sub(p.points[0])
		n = n.Add(geom.Cross3(v1, v2))
	}
	length := n.Length()
	if !geom.NearlyZero(length) && !geom.NearlyEqual(length, 1) {
		n = n.Scale(1 / length)
	}
	p.normal = n
}

// Points returns the polygon's screen-space vertices.
func (p *Polygon) Points() []geom.Vec3 { return p.points }

// Depth returns the layer-tree depth this polygon was recorded at.
func (p *Polygon) Depth() int { return p.depth }

// Sequence returns the insertion order within Depth.
func (p *Polygon) Sequence() int { return p.sequence }

// IsSplit reports whether this polygon is a fragment produced by splitAnother.
func (p *Polygon) IsSplit() bool { return p.isSplit }

// Alpha returns the polygon's paint alpha.
func (p *Polygon) Alpha() float64 { return p.alpha }

// AntiAlias reports whether edges should be antialiased.
func (p *Polygon) AntiAlias() bool { return p.antiAlias }

// Image returns the polygon's image reference.
func (p *Polygon) Image() Image { return p.image }

// IsFacingPositiveZ reports whether the polygon's normal points toward the
// camera looking down the +Z axis.
func (p *Polygon) IsFacingPositiveZ() bool { return p.normal.Z > 0 }

// SignedDistanceTo returns the signed distance from point to this polygon's
// plane: positive on the side the normal points to, negative on the other.
func (p *Polygon) SignedDistanceTo(point geom.Vec3) float64 {
	return geom.Dot3(point.Sub(p.points[0]), p.normal)
}

func nextIndex(i, count int) int { return (i + 1) % count }
func prevIndex(i, count int) int { return (i + count - 1) % count }

func interpolatePoint(from, to geom.Vec3, delta float64) geom.Vec3 {
	return geom.Vec3{
		X: from.X + (to.X-from.X)*delta,
		Y: from.Y + (to.Y-from.Y)*delta,
		Z: from.Z + (to.Z-from.Z)*delta,
	}
}

func collectSplitPoints(points []geom.Vec3, startIntersection, endIntersection geom.Vec3, beginIndex, endIndex int) []geom.Vec3 {
	result := []geom.Vec3{startIntersection}
	n := len(points)
	for i := beginIndex; i != endIndex; i = nextIndex(i, n) {
		result = append(result, points[i])
	}
	if last := result[len(result)-1]; last != endIntersection {
		result = append(result, endIntersection)
	}
	return result
}

func newSplitFragment(src *Polygon, points []geom.Vec3) *Polygon {
	return &Polygon{
		image:     src.image,
		matrix:    src.matrix,
		points:    points,
		normal:    src.normal,
		depth:     src.depth,
		sequence:  src.sequence,
		isSplit:   true,
		alpha:     src.alpha,
		antiAlias: src.antiAlias,
	}
}

// SplitAnother splits polygon by this polygon's plane, returning the
// portion in front, the portion behind, and whether polygon was coplanar
// with this plane (in which case exactly one of front/back is non-nil,
// holding the whole, unsplit polygon, chosen by paint order: a coplanar
// polygon with a later (depth, sequence) than this one is placed in front
// so it draws on top).
func (p *Polygon) SplitAnother(polygon *Polygon) (front, back *Polygon, coplanar bool) {
	n := len(polygon.points)
	dist := make([]float64, n)
	posCount, negCount := 0, 0
	for i, v := range polygon.points {
		d := p.SignedDistanceTo(v)
		switch {
		case d < -splitThreshold:
			negCount++
			dist[i] = d
		case d > splitThreshold:
			posCount++
			dist[i] = d
		default:
			dist[i] = 0
		}
	}

	if posCount == 0 && negCount == 0 {
		laterInPaintOrder := polygon.depth > p.depth ||
			(polygon.depth == p.depth && polygon.sequence >= p.sequence)
		if laterInPaintOrder {
			return polygon, nil, true
		}
		return nil, polygon, true
	}

	if negCount == 0 {
		return polygon, nil, false
	}
	if posCount == 0 {
		return nil, polygon, false
	}

	frontBegin := 0
	for i := 0; i < n; i++ {
		if dist[i] > 0 {
			frontBegin = i
			break
		}
	}
	preFrontBegin := prevIndex(frontBegin, n)
	for dist[preFrontBegin] > 0 {
		frontBegin = preFrontBegin
		preFrontBegin = prevIndex(frontBegin, n)
	}

	backBegin := 0
	for i := 0; i < n; i++ {
		if dist[i] < 0 {
			backBegin = i
			break
		}
	}
	preBackBegin := prevIndex(backBegin, n)
	for dist[preBackBegin] < 0 {
		backBegin = preBackBegin
		preBackBegin = prevIndex(backBegin, n)
	}

	prePosIntersection := interpolatePoint(polygon.points[preFrontBegin], polygon.points[frontBegin],
		dist[preFrontBegin]/(dist[preFrontBegin]-dist[frontBegin]))
	preNegIntersection := interpolatePoint(polygon.points[preBackBegin], polygon.points[backBegin],
		dist[preBackBegin]/(dist[preBackBegin]-dist[backBegin]))

	frontPoints := collectSplitPoints(polygon.points, prePosIntersection, preNegIntersection, frontBegin, backBegin)
	backPoints := collectSplitPoints(polygon.points, preNegIntersection, prePosIntersection, backBegin, frontBegin)

	return newSplitFragment(polygon, frontPoints), newSplitFragment(polygon, backPoints), false
}

// ToQuads decomposes the polygon's screen-space vertices into 2D quads
// expressed in the image's own local space (the inverse of the 3D matrix
// applied to the screen-space vertices), in Z-order. Triangles degenerate
// to a quad with the last vertex duplicated; polygons with more than four
// vertices fan out from vertex 0, two triangles per quad, with a trailing
// single-triangle quad when the fan has an odd number of triangles.
func (p *Polygon) ToQuads() ([]geom.Quad, error) {
	n := len(p.points)
	if n < 3 {
		return nil, xerrors.New("Polygon.ToQuads", "fewer than 3 points")
	}
	inv, ok := p.matrix.Invert()
	if !ok {
		return nil, xerrors.New("Polygon.ToQuads", "singular 3D transform")
	}

	local := make([]vec.Vec2, n)
	for i, pt := range p.points {
		lp := inv.MapPoint(pt)
		local[i] = vec.Vec2{X: lp.X, Y: lp.Y}
	}

	switch {
	case n == 3:
		return []geom.Quad{geom.MakeFromCW(local[0], local[1], local[2], local[2])}, nil
	case n == 4:
		return []geom.Quad{geom.MakeFromCW(local[0], local[1], local[2], local[3])}, nil
	}

	var quads []geom.Quad
	for i := 1; i+2 < n; i += 2 {
		quads = append(quads, geom.MakeFromCW(local[0], local[i], local[i+1], local[i+2]))
	}
	if (n-2)%2 == 1 {
		quads = append(quads, geom.MakeFromCW(local[0], local[n-2], local[n-1], local[n-1]))
	}
	return quads, nil
}

// EdgeIsOriginalBoundary reports whether both endpoints of the edge from a
// to b (in the image's local (0,0)-(w,h) space) lie within localAAEpsilon of
// the original rectangle's boundary, meaning the edge is an original image
// edge and should be antialiased, as opposed to an edge introduced by a BSP
// split, which should not.
func EdgeIsOriginalBoundary(a, b vec.Vec2, width, height float64) bool {
	return onBoundary(a, width, height) && onBoundary(b, width, height)
}

func onBoundary(p vec.Vec2, width, height float64) bool {
	near := func(v, target float64) bool {
		d := v - target
		return d > -localAAEpsilon && d < localAAEpsilon
	}
	return near(p.X, 0) || near(p.X, width) || near(p.Y, 0) || near(p.Y, height)
}
