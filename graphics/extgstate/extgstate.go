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

// Package extgstate implements PDF ExtGState resources: the alpha, blend
// mode and soft-mask state that the export context's `gs` operator
// switches between.
package extgstate

import (
	"github.com/rendergo/rendergo"
)

// SoftMask describes an `/SMask` entry: either `/None`, or a reference to a
// Form XObject group used as a luminosity or alpha mask.
type SoftMask struct {
	Group     pdf.Reference
	Luminosity bool // false selects /Alpha
}

// ExtGState is a PDF graphics state parameter dictionary. Zero-valued
// fields that were never explicitly set are omitted from the emitted
// dictionary so a `gs` switch only ever touches the parameters the caller
// actually changed relative to the ExtGState default.
type ExtGState struct {
	FillAlpha   *float64 // /ca
	StrokeAlpha *float64 // /CA
	BlendMode   pdf.Name // /BM
	SoftMask    *SoftMask // /SMask
	AlphaIsShape *bool     // /AIS
}

// Embed writes the resource as an ExtGState dictionary and returns an
// indirect reference to it.
func (g *ExtGState) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	dict := pdf.Dict{
		"Type": pdf.Name("ExtGState"),
	}
	if g.FillAlpha != nil {
		dict["ca"] = pdf.Real(*g.FillAlpha)
	}
	if g.StrokeAlpha != nil {
		dict["CA"] = pdf.Real(*g.StrokeAlpha)
	}
	if g.BlendMode != "" {
		dict["BM"] = g.BlendMode
	}
	if g.AlphaIsShape != nil {
		dict["AIS"] = pdf.Boolean(*g.AlphaIsShape)
	}
	if g.SoftMask != nil {
		sub := pdf.Dict{
			"Type": pdf.Name("Mask"),
			"G":    g.SoftMask.Group,
		}
		if g.SoftMask.Luminosity {
			sub["S"] = pdf.Name("Luminosity")
		} else {
			sub["S"] = pdf.Name("Alpha")
		}
		dict["SMask"] = sub
	}

	ref := e.Alloc()
	if err := e.Put(ref, dict); err != nil {
		return nil, err
	}
	return ref, nil
}

// key returns a cache key identifying the resource's content, so the
// export context can reuse a previously embedded ExtGState that has the
// exact same settings instead of emitting a duplicate object.
func (g *ExtGState) key() [5]any {
	var fa, sa any
	if g.FillAlpha != nil {
		fa = *g.FillAlpha
	}
	if g.StrokeAlpha != nil {
		sa = *g.StrokeAlpha
	}
	var sm any
	if g.SoftMask != nil {
		sm = *g.SoftMask
	}
	return [5]any{fa, sa, g.BlendMode, sm, g.AlphaIsShape != nil && *g.AlphaIsShape}
}

// Key is the exported form of key, used by the export context's ExtGState
// resource cache.
func (g *ExtGState) Key() any { return g.key() }
