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

// Package group implements PDF transparency group attribute dictionaries,
// attached to a Form XObject's /Group entry to make it an isolated and/or
// knockout group: the boundary a Porter-Duff blend composites against, and
// the container a soft mask's luminosity is computed from.
package group

import "github.com/rendergo/rendergo"

// Transparency is a PDF transparency group attributes dictionary
// (`/S /Transparency`).
type Transparency struct {
	// ColorSpace is the group's blending color space resource, as returned
	// by a graphics/color.Space's Resource method. Nil uses the page's
	// current color space.
	ColorSpace pdf.Object

	// Isolated groups blend only against their own backdrop, not the
	// content already on the page; required for a gradient's tiling
	// pattern shader and for a blend-mode "deferred" capture.
	Isolated bool

	// Knockout groups composite each element directly against the group's
	// initial backdrop rather than against the result of prior elements.
	Knockout bool
}

// Dict returns the group attributes dictionary.
func (g *Transparency) Dict() pdf.Dict {
	d := pdf.Dict{"S": pdf.Name("Transparency")}
	if g.ColorSpace != nil {
		d["CS"] = g.ColorSpace
	}
	if g.Isolated {
		d["I"] = pdf.Boolean(true)
	}
	if g.Knockout {
		d["K"] = pdf.Boolean(true)
	}
	return d
}
