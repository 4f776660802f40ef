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

// Type0 is a PDF sampled function (FunctionType 0): an m-dimensional grid
// of n-component samples, packed as fixed-width big-endian bitfields.
// UseCubic selects Catmull-Rom spline interpolation along a single input
// dimension (the PDF spec's Order 3, as Ghostscript implements it) instead
// of the default multilinear interpolation; cubic interpolation is only
// supported for single-input functions.
type Type0 struct {
	Domain        []float64
	Range         []float64
	Size          []int
	BitsPerSample int
	Encode        []float64
	Decode        []float64
	UseCubic      bool
	Samples       []byte
}

var _ pdf.Function = (*Type0)(nil)

// FunctionType returns 0.
func (f *Type0) FunctionType() int { return 0 }

// Shape returns (m, n): the number of inputs and outputs.
func (f *Type0) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// GetDomain returns Domain unchanged.
func (f *Type0) GetDomain() []float64 { return f.Domain }

// Embed writes the function as a FunctionType 0 stream, whose body is the
// packed big-endian sample bitstream, and returns an indirect reference to
// it.
func (f *Type0) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	f.repair()

	size := make(pdf.Array, len(f.Size))
	for i, s := range f.Size {
		size[i] = pdf.Integer(s)
	}

	dict := pdf.Dict{
		"FunctionType":  pdf.Integer(0),
		"Domain":        floatArray(f.Domain),
		"Range":         floatArray(f.Range),
		"Size":          size,
		"BitsPerSample": pdf.Integer(f.BitsPerSample),
	}
	if len(f.Encode) > 0 {
		dict["Encode"] = floatArray(f.Encode)
	}
	if len(f.Decode) > 0 {
		dict["Decode"] = floatArray(f.Decode)
	}

	ref := e.Alloc()
	stm, err := e.OpenStream(ref, dict)
	if err != nil {
		return nil, err
	}
	if _, err := stm.Write(f.Samples); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}
	return ref, nil
}

// repair fills in Encode and Decode with their PDF-spec default values
// (Encode: [0, Size[i]-1] per dimension; Decode: a copy of Range) when
// they were left unset. Idempotent and safe to call more than once.
func (f *Type0) repair() {
	m := len(f.Domain) / 2
	if len(f.Encode) != 2*m {
		f.Encode = make([]float64, 2*m)
		for i := 0; i < m; i++ {
			f.Encode[2*i] = 0
			if i < len(f.Size) {
				f.Encode[2*i+1] = float64(f.Size[i] - 1)
			}
		}
	}
	if len(f.Decode) != len(f.Range) {
		f.Decode = append([]float64(nil), f.Range...)
	}
}

// maxSampleValue is the largest raw value a BitsPerSample-wide field can
// hold.
func (f *Type0) maxSampleValue() float64 {
	if f.BitsPerSample >= 64 {
		return math.MaxUint64
	}
	return float64(uint64(1)<<uint(f.BitsPerSample) - 1)
}

// extractSampleAtIndex reads the flatIndex-th BitsPerSample-wide,
// big-endian raw sample value out of Samples. Returns 0 if the bitstream
// is too short to hold it, rather than panicking, so that an
// intentionally empty Samples buffer (a zero-input constant function)
// behaves as a well-defined zero sample.
func (f *Type0) extractSampleAtIndex(flatIndex int) float64 {
	bitOffset := flatIndex * f.BitsPerSample
	if bitOffset+f.BitsPerSample > len(f.Samples)*8 {
		return 0
	}
	var value uint64
	for b := 0; b < f.BitsPerSample; b++ {
		pos := bitOffset + b
		byteIdx := pos / 8
		bitIdx := 7 - pos%8
		bit := (f.Samples[byteIdx] >> uint(bitIdx)) & 1
		value = (value << 1) | uint64(bit)
	}
	return float64(value)
}

// decodedSample returns the decoded value of output component k at flat
// grid index gridIndex.
func (f *Type0) decodedSample(gridIndex, k, n int) float64 {
	raw := f.extractSampleAtIndex(gridIndex*n + k)
	lo, hi := 0.0, 1.0
	if 2*k+1 < len(f.Decode) {
		lo, hi = f.Decode[2*k], f.Decode[2*k+1]
	}
	return interpolate(raw, 0, f.maxSampleValue(), lo, hi)
}

// Apply evaluates the sampled function at inputs, encoding each input into
// its own sample-grid coordinate and interpolating between neighboring
// grid points. Multidimensional inputs use multilinear interpolation;
// UseCubic is honored only for the single-input case.
func (f *Type0) Apply(result []float64, inputs ...float64) {
	f.repair()
	m, n := f.Shape()

	if m == 0 {
		for k := 0; k < n && k < len(result); k++ {
			result[k] = f.decodedSample(0, k, n)
		}
		return
	}

	if m == 1 && f.UseCubic {
		f.applyCubic1D(result, inputs[0], n)
		return
	}

	f.applyMultilinear(result, inputs, n)
}

// encodedCoord maps inputs[i] through Domain[i] and Encode[i] into a
// sample-grid coordinate clamped to [0, Size[i]-1].
func (f *Type0) encodedCoord(i int, x float64) float64 {
	dMin, dMax := f.Domain[2*i], f.Domain[2*i+1]
	x = clamp(x, dMin, dMax)
	e := interpolate(x, dMin, dMax, f.Encode[2*i], f.Encode[2*i+1])
	return clamp(e, 0, float64(f.Size[i]-1))
}

func (f *Type0) applyMultilinear(result []float64, inputs []float64, n int) {
	m := len(f.Size)
	coords := make([]float64, m)
	lo := make([]int, m)
	frac := make([]float64, m)
	for i := 0; i < m; i++ {
		coords[i] = f.encodedCoord(i, inputs[i])
		lo[i] = int(math.Floor(coords[i]))
		if lo[i] >= f.Size[i]-1 && f.Size[i] > 0 {
			lo[i] = max(f.Size[i]-2, 0)
		}
		frac[i] = coords[i] - float64(lo[i])
	}

	strides := make([]int, m)
	stride := 1
	for i := 0; i < m; i++ {
		strides[i] = stride
		stride *= f.Size[i]
	}

	for k := 0; k < n && k < len(result); k++ {
		result[k] = f.interpolateCorners(lo, frac, strides, m, k, n)
	}
}

// interpolateCorners sums the 2^m grid corners around lo, each weighted by
// the product of per-axis linear weights, the standard multilinear
// interpolation formula.
func (f *Type0) interpolateCorners(lo []int, frac []float64, strides []int, m, k, n int) float64 {
	var sum float64
	corners := 1 << uint(m)
	for c := 0; c < corners; c++ {
		weight := 1.0
		gridIndex := 0
		for i := 0; i < m; i++ {
			bit := (c >> uint(i)) & 1
			idx := lo[i] + bit
			if idx >= f.Size[i] {
				idx = f.Size[i] - 1
			}
			if bit == 1 {
				weight *= frac[i]
			} else {
				weight *= 1 - frac[i]
			}
			gridIndex += idx * strides[i]
		}
		if weight == 0 {
			continue
		}
		sum += weight * f.decodedSample(gridIndex, k, n)
	}
	return sum
}

// applyCubic1D evaluates a single-input, Catmull-Rom-interpolated sampled
// function, matching Ghostscript's gsfunc0.c spline formula.
func (f *Type0) applyCubic1D(result []float64, x float64, n int) {
	coord := f.encodedCoord(0, x)
	size := f.Size[0]
	idx := int(math.Floor(coord))
	if idx >= size-1 {
		idx = size - 2
	}
	if idx < 0 {
		idx = 0
	}
	t := coord - float64(idx)

	clampIdx := func(i int) int {
		if i < 0 {
			return 0
		}
		if i > size-1 {
			return size - 1
		}
		return i
	}

	for k := 0; k < n && k < len(result); k++ {
		p0 := f.decodedSample(clampIdx(idx-1), k, n)
		p1 := f.decodedSample(clampIdx(idx), k, n)
		p2 := f.decodedSample(clampIdx(idx+1), k, n)
		p3 := f.decodedSample(clampIdx(idx+2), k, n)

		t2 := t * t
		t3 := t2 * t
		result[k] = 0.5 * (2*p1 +
			(-p0+p2)*t +
			(2*p0-5*p1+4*p2-p3)*t2 +
			(-p0+3*p1-3*p2+p3)*t3)
	}
}
