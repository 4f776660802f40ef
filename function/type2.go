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

package function

import (
	"math"

	"github.com/rendergo/rendergo"
)

// Type2 is a PDF exponential interpolation function (FunctionType 2):
// y_j = C0_j + x^N * (C1_j - C0_j), for a single input x clamped to
// [XMin, XMax].
type Type2 struct {
	XMin, XMax float64
	C0, C1     []float64
	N          float64
}

var _ pdf.Function = (*Type2)(nil)

// FunctionType returns 2.
func (f *Type2) FunctionType() int { return 2 }

// Shape returns (1, len(C0)); C0 and C1 default to a single-element
// {0} and {1} when both are empty, matching the PDF spec's defaults.
func (f *Type2) Shape() (int, int) {
	n := len(f.C0)
	if n == 0 {
		n = len(f.C1)
	}
	if n == 0 {
		n = 1
	}
	return 1, n
}

// GetDomain returns [XMin, XMax].
func (f *Type2) GetDomain() []float64 { return []float64{f.XMin, f.XMax} }

// Embed writes the function as a FunctionType 2 dictionary and returns an
// indirect reference to it.
func (f *Type2) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	dict := pdf.Dict{
		"FunctionType": pdf.Integer(2),
		"Domain":       floatArray(f.GetDomain()),
	}
	if len(f.C0) > 0 {
		dict["C0"] = floatArray(f.C0)
	}
	if len(f.C1) > 0 {
		dict["C1"] = floatArray(f.C1)
	}
	dict["N"] = pdf.Real(f.N)

	ref := e.Alloc()
	if err := e.Put(ref, dict); err != nil {
		return nil, err
	}
	return ref, nil
}

// Apply evaluates the exponential interpolation at inputs[0].
func (f *Type2) Apply(result []float64, inputs ...float64) {
	_, n := f.Shape()
	x := clamp(inputs[0], f.XMin, f.XMax)

	c0, c1 := f.C0, f.C1
	if len(c0) == 0 {
		c0 = make([]float64, n)
	}
	if len(c1) == 0 {
		c1 = make([]float64, n)
		for i := range c1 {
			c1[i] = 1
		}
	}

	xn := math.Pow(x, f.N)
	for j := 0; j < n && j < len(result); j++ {
		result[j] = c0[j] + xn*(c1[j]-c0[j])
	}
}
