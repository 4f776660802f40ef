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

// Package compositor implements a BSP-ordered 3D image compositor: images
// placed under arbitrary 3D transforms are split where they intersect and
// painted back-to-front, so overlapping transformed layers occlude and
// blend correctly without a depth buffer.
//
// Unlike its origin, this package has no GPU backend of its own: Finish
// hands the ordered, AA-flagged quad list to a caller-supplied Target,
// which is free to rasterize, composite in software, or place each quad as
// an image XObject inside a PDF content stream. This module itself ships
// no Target implementation.
package compositor

import (
	"github.com/rendergo/rendergo/geom"
	"github.com/rendergo/rendergo/internal/xerrors"
	"github.com/rendergo/rendergo/render/bsp3d"
	"github.com/rendergo/rendergo/render/vertex"
)

// Target receives one already-split, already-ordered quad per call, in
// back-to-front paint order. img is the local-space image the quad samples
// from (its own (0,0)-(w,h) pixel rectangle maps onto quad's points by
// whatever inverse transform produced them); aaFlags marks which of quad's
// four edges are original image boundaries rather than BSP split seams.
type Target interface {
	DrawQuad(img bsp3d.Image, quad geom.Quad, aaFlags vertex.AAFlag, alpha float64) error
}

// Compositor accumulates 3D-placed images and produces their correct
// back-to-front draw order via a BSP tree, splitting polygons that
// intersect in screen space.
type Compositor struct {
	width, height  int
	polygons       []*bsp3d.Polygon
	depthSequences map[int]int
}

// New returns an empty Compositor for a width x height output surface.
func New(width, height int) *Compositor {
	return &Compositor{width: width, height: height, depthSequences: make(map[int]int)}
}

// Width returns the compositor's output width in pixels.
func (c *Compositor) Width() int { return c.width }

// Height returns the compositor's output height in pixels.
func (c *Compositor) Height() int { return c.height }

// AddImage records image for compositing, placed by matrix and painted at
// depth. Images added at the same depth paint in call order (each call
// bumps that depth's own sequence counter); images at different depths
// paint in depth order, with ties broken the same way.
func (c *Compositor) AddImage(image bsp3d.Image, matrix geom.Matrix3D, depth int, alpha float64, antiAlias bool) error {
	seq := c.depthSequences[depth]
	c.depthSequences[depth] = seq + 1

	p, err := bsp3d.New(image, matrix, depth, seq, alpha, antiAlias)
	if err != nil {
		return xerrors.Wrap(err, "Compositor.AddImage")
	}
	c.polygons = append(c.polygons, p)
	return nil
}

// Finish builds the BSP tree over every added image, splitting
// intersecting polygons as needed, and calls target.DrawQuad once per
// resulting quad in back-to-front order. It returns the first error a
// Target call reports, after which traversal stops.
func (c *Compositor) Finish(target Target) error {
	tree := bsp3d.Build(c.polygons)

	var drawErr error
	tree.TraverseBackToFront(func(p *bsp3d.Polygon) {
		if drawErr != nil {
			return
		}
		if err := c.drawPolygon(target, p); err != nil {
			drawErr = err
		}
	})
	return drawErr
}

// drawPolygon flattens one BSP-ordered polygon back into local-space quads
// and forwards each to the target, tagging edges that are original image
// boundaries (rather than split seams) for antialiasing.
func (c *Compositor) drawPolygon(target Target, p *bsp3d.Polygon) error {
	quads, err := p.ToQuads()
	if err != nil {
		return xerrors.Wrap(err, "Compositor.drawPolygon")
	}
	return c.drawQuads(target, p, quads)
}

func (c *Compositor) drawQuads(target Target, p *bsp3d.Polygon, quads []geom.Quad) error {
	width := float64(p.Image().Width())
	height := float64(p.Image().Height())

	for _, q := range quads {
		var flags vertex.AAFlag
		if p.AntiAlias() {
			flags = quadAAFlags(q, width, height)
		}
		if err := target.DrawQuad(p.Image(), q, flags, p.Alpha()); err != nil {
			return xerrors.Wrap(err, "Compositor.drawQuads")
		}
	}
	return nil
}

// quadAAFlags marks each of q's four edges (in geom.Quad Z-order: LT-LB,
// LB-RB, RB-RT, RT-LT) as antialiased only when both endpoints lie on the
// image's original rectangle boundary.
func quadAAFlags(q geom.Quad, width, height float64) vertex.AAFlag {
	edges := [4][2]int{{geom.LT, geom.LB}, {geom.LB, geom.RB}, {geom.RB, geom.RT}, {geom.RT, geom.LT}}
	bits := [4]vertex.AAFlag{vertex.AAFlagEdge0, vertex.AAFlagEdge1, vertex.AAFlagEdge2, vertex.AAFlagEdge3}

	var flags vertex.AAFlag
	for i, e := range edges {
		if bsp3d.EdgeIsOriginalBoundary(q.Points[e[0]], q.Points[e[1]], width, height) {
			flags |= bits[i]
		}
	}
	return flags
}
