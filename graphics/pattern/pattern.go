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

// Package pattern implements PDF pattern resources. The export context
// uses Shading patterns to paint shading/gradient fills wrapped in a
// `/Pattern` color space, and Tiling patterns to composite a per-stop-alpha
// gradient (an opaque color shading masked by a separate luminosity
// shading, per spec.md §4.7) since a plain shading dictionary has no alpha
// channel of its own.
package pattern

import "github.com/rendergo/rendergo"

// Shading is a PatternType 2 pattern: a shading dictionary painted through
// an (optional) matrix, with no tiling.
type Shading struct {
	ShadingDict pdf.Object // from graphics/shading.Shading.Embed
	Matrix      pdf.Array  // six-element, nil means identity
	ExtGState   pdf.Reference
}

func (p *Shading) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	dict := pdf.Dict{
		"Type":        pdf.Name("Pattern"),
		"PatternType": pdf.Integer(2),
		"Shading":     p.ShadingDict,
	}
	if p.Matrix != nil {
		dict["Matrix"] = p.Matrix
	}
	if p.ExtGState != 0 {
		dict["ExtGState"] = p.ExtGState
	}
	ref := e.Alloc()
	if err := e.Put(ref, dict); err != nil {
		return nil, err
	}
	return ref, nil
}

// Tiling is a PatternType 1, PaintType 1 (colored) tiling pattern: a single
// content-stream cell repeated across the XStep/YStep grid. The export
// context's per-stop-alpha gradient path uses a tile as large as the
// gradient's bounding box so the "tiling" degenerates to a single paint.
type Tiling struct {
	BBox      pdf.Rectangle
	XStep     float64
	YStep     float64
	Matrix    pdf.Array
	Resources pdf.Dict
	Content   []byte
}

func (p *Tiling) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	dict := pdf.Dict{
		"Type":        pdf.Name("Pattern"),
		"PatternType": pdf.Integer(1),
		"PaintType":   pdf.Integer(1),
		"TilingType":  pdf.Integer(1),
		"BBox":        p.BBox,
		"XStep":       pdf.Real(p.XStep),
		"YStep":       pdf.Real(p.YStep),
	}
	if p.Matrix != nil {
		dict["Matrix"] = p.Matrix
	}
	if p.Resources != nil {
		dict["Resources"] = p.Resources
	}

	ref := e.Alloc()
	stm, err := e.OpenStream(ref, dict)
	if err != nil {
		return nil, err
	}
	if _, err := stm.Write(p.Content); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}
	return ref, nil
}
