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

// Package color implements the PDF color spaces and color values that the
// export context selects between when emitting `scn`/`SCN` operators:
// DeviceGray, DeviceRGB, DeviceCMYK, and ICCBased profiles built on
// seehuhn.de/go/icc.
package color

import (
	"seehuhn.de/go/icc"

	"github.com/rendergo/rendergo"
)

// Space is a PDF color space: either a device space referenced by name, or
// an indirect resource (such as ICCBased) that must be embedded once and
// then referenced from the page's /ColorSpace resource dictionary.
type Space interface {
	// Family returns the color space's PDF family name (DeviceGray,
	// DeviceRGB, DeviceCMYK, ICCBased, ...).
	Family() pdf.Name

	// NumComponents returns how many components a Color in this space
	// carries.
	NumComponents() int

	// Resource returns the pdf.Object used as the /ColorSpace resource
	// entry: either the family Name directly for device spaces, or an
	// array/reference for resources that must be embedded first.
	Resource(e *pdf.EmbedHelper) (pdf.Object, error)
}

// Color is a fully specified color value: a color space plus its component
// values, ready to be written as `scn`/`SCN` operands.
type Color struct {
	Space      Space
	Components []float64
}

// Operands returns the color's component values as PDF numbers, in the
// order `scn`/`SCN` expects them.
func (c Color) Operands() pdf.Array {
	a := make(pdf.Array, len(c.Components))
	for i, v := range c.Components {
		a[i] = pdf.Real(v)
	}
	return a
}

// DeviceGray is the 1-component gray device color space.
type DeviceGray struct{}

func (DeviceGray) Family() pdf.Name      { return "DeviceGray" }
func (DeviceGray) NumComponents() int    { return 1 }
func (DeviceGray) Resource(*pdf.EmbedHelper) (pdf.Object, error) { return pdf.Name("DeviceGray"), nil }

// Gray returns a DeviceGray color with the given luminance in [0, 1].
func Gray(v float64) Color {
	return Color{Space: DeviceGray{}, Components: []float64{v}}
}

// DeviceRGB is the 3-component additive device color space.
type DeviceRGB struct{}

func (DeviceRGB) Family() pdf.Name      { return "DeviceRGB" }
func (DeviceRGB) NumComponents() int    { return 3 }
func (DeviceRGB) Resource(*pdf.EmbedHelper) (pdf.Object, error) { return pdf.Name("DeviceRGB"), nil }

// RGB returns a DeviceRGB color.
func RGB(r, g, b float64) Color {
	return Color{Space: DeviceRGB{}, Components: []float64{r, g, b}}
}

// DeviceCMYK is the 4-component subtractive device color space.
type DeviceCMYK struct{}

func (DeviceCMYK) Family() pdf.Name      { return "DeviceCMYK" }
func (DeviceCMYK) NumComponents() int    { return 4 }
func (DeviceCMYK) Resource(*pdf.EmbedHelper) (pdf.Object, error) { return pdf.Name("DeviceCMYK"), nil }

// CMYK returns a DeviceCMYK color.
func CMYK(c, m, y, k float64) Color {
	return Color{Space: DeviceCMYK{}, Components: []float64{c, m, y, k}}
}

// ICCBased is a color space backed by an embedded ICC profile, for
// documents that must reproduce a specific color profile (e.g. the sRGB
// profiles shipped by seehuhn.de/go/icc) rather than relying on a viewer's
// DeviceRGB rendering intent.
type ICCBased struct {
	Profile    []byte // raw ICC profile data, e.g. icc.SRGBv2Profile
	Components int
	Alternate  pdf.Name // DeviceGray, DeviceRGB, or DeviceCMYK
}

// SRGB returns the ICCBased space for the sRGB profile shipped by
// seehuhn.de/go/icc.
func SRGB() *ICCBased {
	return &ICCBased{Profile: icc.SRGBv2Profile, Components: 3, Alternate: "DeviceRGB"}
}

func (s *ICCBased) Family() pdf.Name   { return "ICCBased" }
func (s *ICCBased) NumComponents() int { return s.Components }

// Resource embeds the ICC profile as a stream and returns
// [/ICCBased ref].
func (s *ICCBased) Resource(e *pdf.EmbedHelper) (pdf.Object, error) {
	dict := pdf.Dict{
		"N": pdf.Integer(s.Components),
	}
	if s.Alternate != "" {
		dict["Alternate"] = s.Alternate
	}

	ref := e.Alloc()
	stm, err := e.OpenFlateStream(ref, dict, 9)
	if err != nil {
		return nil, err
	}
	if _, err := stm.Write(s.Profile); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}
	return pdf.Array{pdf.Name("ICCBased"), ref}, nil
}
