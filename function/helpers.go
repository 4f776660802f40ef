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

// Package function implements the PDF function types (sampled, exponential
// interpolation, stitching, and PostScript calculator) used by shadings,
// separation colorants, transfer functions and soft-mask compositing.
package function

import (
	"math"

	"github.com/rendergo/rendergo"
)

// floatArray converts a slice of float64 to a pdf.Array of pdf.Real, the
// form every PDF function dictionary uses for Domain/Range/Encode/Decode.
func floatArray(xs []float64) pdf.Array {
	a := make(pdf.Array, len(xs))
	for i, x := range xs {
		a[i] = pdf.Real(x)
	}
	return a
}

// isRange reports whether [x, y] is a well-formed, finite interval
// (x <= y, neither endpoint NaN or infinite).
func isRange(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	return x <= y
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// interpolate maps x linearly from [xMin, xMax] to [yMin, yMax], per the
// PDF spec's Interpolate() helper used throughout the function types.
func interpolate(x, xMin, xMax, yMin, yMax float64) float64 {
	if xMax == xMin {
		return yMin
	}
	return yMin + (x-xMin)*(yMax-yMin)/(xMax-xMin)
}
