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
	"github.com/rendergo/rendergo"
)

// Type3 is a PDF stitching function (FunctionType 3): it partitions
// [XMin, XMax] into subdomains, one per entry in Functions, and dispatches
// to whichever subfunction owns the input, re-encoding the input into that
// subfunction's own domain first.
type Type3 struct {
	XMin, XMax float64
	Functions  []pdf.Function
	Bounds     []float64
	Encode     []float64
}

var _ pdf.Function = (*Type3)(nil)

// FunctionType returns 3.
func (f *Type3) FunctionType() int { return 3 }

// Shape returns (1, n), where n is the output count of the first
// subfunction (every subfunction shares the same output shape).
func (f *Type3) Shape() (int, int) {
	if len(f.Functions) == 0 {
		return 1, 0
	}
	_, n := f.Functions[0].Shape()
	return 1, n
}

// GetDomain returns [XMin, XMax].
func (f *Type3) GetDomain() []float64 { return []float64{f.XMin, f.XMax} }

// Embed writes the function as a FunctionType 3 dictionary, embedding each
// subfunction first, and returns an indirect reference to it.
func (f *Type3) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	fns := make(pdf.Array, len(f.Functions))
	for i, sub := range f.Functions {
		native, err := sub.Embed(e)
		if err != nil {
			return nil, err
		}
		fns[i] = native
	}

	dict := pdf.Dict{
		"FunctionType": pdf.Integer(3),
		"Domain":       floatArray(f.GetDomain()),
		"Functions":    fns,
		"Bounds":       floatArray(f.Bounds),
		"Encode":       floatArray(f.Encode),
	}

	ref := e.Alloc()
	if err := e.Put(ref, dict); err != nil {
		return nil, err
	}
	return ref, nil
}

// findSubdomain returns the index of the subfunction that owns x, along
// with that subfunction's subdomain [a, b] in the stitching function's own
// input space. Per the PDF spec, x exactly at XMin always selects function
// 0 even when Bounds[0] == XMin (which would otherwise make function 0's
// interval empty); every other input picks the function whose half-open
// interval [Bounds[i-1], Bounds[i]) contains it, with the final interval
// closed on the right at XMax.
func (f *Type3) findSubdomain(x float64) (idx int, a, b float64) {
	k := len(f.Functions)
	if k == 0 {
		return 0, f.XMin, f.XMax
	}

	if x == f.XMin {
		idx = 0
	} else {
		for _, bound := range f.Bounds {
			if x >= bound {
				idx++
			} else {
				break
			}
		}
		if idx > k-1 {
			idx = k - 1
		}
	}

	if idx == 0 {
		a = f.XMin
	} else {
		a = f.Bounds[idx-1]
	}
	if idx == k-1 {
		b = f.XMax
	} else {
		b = f.Bounds[idx]
	}
	return idx, a, b
}

// Apply dispatches inputs[0] to its owning subfunction, after re-encoding
// it from that subfunction's subdomain into the Encode pair recorded for
// it.
func (f *Type3) Apply(result []float64, inputs ...float64) {
	x := clamp(inputs[0], f.XMin, f.XMax)
	idx, a, b := f.findSubdomain(x)
	if idx >= len(f.Functions) {
		return
	}

	e0, e1 := 0.0, 1.0
	if 2*idx+1 < len(f.Encode) {
		e0, e1 = f.Encode[2*idx], f.Encode[2*idx+1]
	}
	encoded := interpolate(x, a, b, e0, e1)
	f.Functions[idx].Apply(result, encoded)
}
