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

// Package form implements PDF Form XObjects: self-contained content
// streams with their own bounding box, matrix and resource dictionary,
// used by the export context both to capture existing page content ahead
// of a non-normal blend and to hold a soft mask's source content.
package form

import "github.com/rendergo/rendergo"

// Form is a PDF Form XObject.
type Form struct {
	BBox      pdf.Rectangle
	Matrix    pdf.Array // six-element [a b c d e f], nil means identity
	Group     pdf.Dict  // from graphics/group.Transparency.Dict, nil if not a group
	Resources pdf.Dict
	Content   []byte
}

// Embed writes the form as a stream XObject and returns an indirect
// reference to it.
func (f *Form) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	dict := pdf.Dict{
		"Type":    pdf.Name("XObject"),
		"Subtype": pdf.Name("Form"),
		"BBox":    f.BBox,
	}
	if f.Matrix != nil {
		dict["Matrix"] = f.Matrix
	}
	if f.Group != nil {
		dict["Group"] = f.Group
	}
	if f.Resources != nil {
		dict["Resources"] = f.Resources
	}

	ref := e.Alloc()
	stm, err := e.OpenStream(ref, dict)
	if err != nil {
		return nil, err
	}
	if _, err := stm.Write(f.Content); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}
	return ref, nil
}
