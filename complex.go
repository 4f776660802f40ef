// rendergo - a 2D graphics placement, compositing and PDF export engine
// Copyright (C) 2021  The rendergo Authors
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

package pdf

// This file contains more complex PDF data structures, which are composed
// of the elementary types from "types.go".

import (
	"bytes"
	"io"
	"math"
	"time"
	"unicode/utf16"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Number is an Integer or a Real, written as whichever form round-trips
// exactly.
type Number float64

func (x Number) PDF(w io.Writer) error {
	if i := Integer(x); Number(i) == x {
		return i.PDF(w)
	}
	return Real(x).PDF(w)
}

// TextString is a Go string that is encoded as a PDF "text string" when
// written out: PDFDocEncoding where possible, otherwise UTF-16BE prefixed
// with the U+FEFF byte-order mark in hex, per spec.
type TextString string

var utf16Marker = []byte{254, 255}

func (s TextString) PDF(w io.Writer) error {
	return s.asString().PDF(w)
}

func (s TextString) asString() String {
	if isPDFDocEncodable(string(s)) {
		out := make(String, 0, len(s))
		for _, r := range s {
			out = append(out, byte(r))
		}
		return out
	}
	buf := make([]uint16, 0, 1+len(s))
	buf = append(buf, 0xFEFF)
	for _, r := range s {
		buf = utf16.AppendRune(buf, r)
	}
	out := make(String, 0, 2*len(buf))
	for _, x := range buf {
		out = append(out, byte(x>>8), byte(x))
	}
	return out
}

// isPDFDocEncodable reports whether every rune in s can be written as a
// single Latin-1 byte: runes up to U+00FF are accepted, except ASCII
// control characters other than tab/CR/LF, which have no defined glyph.
// Runes above U+00FF, including the typographic punctuation that
// PDFDocEncoding places in its upper half, are rejected.
func isPDFDocEncodable(s string) bool {
	for _, r := range s {
		if r > 0xff {
			return false
		}
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// AsTextString decodes a PDF text string (UTF-16BE with BOM, or
// PDFDocEncoding/Latin-1 otherwise) into a Go string.
func (x String) AsTextString() TextString {
	b := []byte(x)
	if bytes.HasPrefix(b, utf16Marker) {
		buf := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			buf = append(buf, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return TextString(utf16.Decode(buf))
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return TextString(runes)
}

// Date represents a PDF date/time value.
type Date time.Time

// Now returns the current date and time as a Date object.
func Now() Date {
	return Date(time.Now())
}

func (d Date) String() string {
	return time.Time(d).Format(time.RFC3339)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// PDF writes the date using the PDF date string format
// "D:YYYYMMDDHHmmSSOHH'mm'".
func (d Date) PDF(w io.Writer) error {
	s := time.Time(d).Format("D:20060102150405-0700")
	k := len(s) - 2
	s = s[:k] + "'" + s[k:] + "'"
	return String(s).PDF(w)
}

// Rectangle represents a PDF rectangle, normalized so LLx <= URx and
// LLy <= URy.
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

func NewRectangle(x0, y0, x1, y1 float64) Rectangle {
	return Rectangle{
		LLx: math.Min(x0, x1), LLy: math.Min(y0, y1),
		URx: math.Max(x0, x1), URy: math.Max(y0, y1),
	}
}

// Dx returns the width of the rectangle.
func (r Rectangle) Dx() float64 { return r.URx - r.LLx }

// Dy returns the height of the rectangle.
func (r Rectangle) Dy() float64 { return r.URy - r.LLy }

func (r Rectangle) PDF(w io.Writer) error {
	a := Array{Number(r.LLx), Number(r.LLy), Number(r.URx), Number(r.URy)}
	return a.PDF(w)
}

// IsZero is true if the rectangle is the zero rectangle.
func (r Rectangle) IsZero() bool {
	return r.LLx == 0 && r.LLy == 0 && r.URx == 0 && r.URy == 0
}

// Intersect returns the intersection of r and other; if they do not
// overlap, the result has zero area.
func (r Rectangle) Intersect(other Rectangle) Rectangle {
	res := Rectangle{
		LLx: math.Max(r.LLx, other.LLx),
		LLy: math.Max(r.LLy, other.LLy),
		URx: math.Min(r.URx, other.URx),
		URy: math.Min(r.URy, other.URy),
	}
	if res.URx < res.LLx || res.URy < res.LLy {
		return Rectangle{}
	}
	return res
}

// Extend enlarges the rectangle to also cover other.
func (r *Rectangle) Extend(other Rectangle) {
	if other.IsZero() {
		return
	}
	if r.IsZero() {
		*r = other
		return
	}
	r.LLx = math.Min(r.LLx, other.LLx)
	r.LLy = math.Min(r.LLy, other.LLy)
	r.URx = math.Max(r.URx, other.URx)
	r.URy = math.Max(r.URy, other.URy)
}

// ExtendVec enlarges the rectangle to also cover v.
func (r *Rectangle) ExtendVec(v vec.Vec2) {
	isZero := r.IsZero()
	if v.X < r.LLx || isZero {
		r.LLx = v.X
	}
	if v.Y < r.LLy || isZero {
		r.LLy = v.Y
	}
	if v.X > r.URx || isZero {
		r.URx = v.X
	}
	if v.Y > r.URy || isZero {
		r.URy = v.Y
	}
}

// matrixToArray converts a 2D affine transform to the six-number PDF array
// form [a b c d e f].
func matrixToArray(m matrix.Matrix) Array {
	a := make(Array, 6)
	for i, x := range m[:] {
		a[i] = Number(x)
	}
	return a
}

// Info represents a PDF Document Information Dictionary. All fields are
// optional.
//
// The Document Information Dictionary is documented in section 14.3.3 of
// PDF 32000-1:2008.
type Info struct {
	Title    TextString
	Author   TextString
	Subject  TextString
	Keywords TextString
	Creator  TextString
	Producer TextString

	CreationDate Date
	ModDate      Date
}

// Dict converts the information dictionary to a PDF Dict, omitting empty
// fields.
func (info *Info) Dict() Dict {
	d := Dict{}
	if info.Title != "" {
		d["Title"] = info.Title
	}
	if info.Author != "" {
		d["Author"] = info.Author
	}
	if info.Subject != "" {
		d["Subject"] = info.Subject
	}
	if info.Keywords != "" {
		d["Keywords"] = info.Keywords
	}
	if info.Creator != "" {
		d["Creator"] = info.Creator
	}
	if info.Producer != "" {
		d["Producer"] = info.Producer
	}
	if !info.CreationDate.IsZero() {
		d["CreationDate"] = info.CreationDate
	}
	if !info.ModDate.IsZero() {
		d["ModDate"] = info.ModDate
	}
	return d
}

// Function represents a PDF function (FunctionType 0, 2, 3, or 4).
// Concrete implementations of this interface can be found in the
// github.com/rendergo/rendergo/function package.
type Function interface {
	// FunctionType returns the type of the PDF function.
	// This is one of 0, 2, 3, 4.
	FunctionType() int

	// Shape returns the number of input and output values of the function.
	Shape() (m int, n int)

	// GetDomain returns the function's input domain in array format
	// [min0, max0, min1, max1, ...] where each pair represents the valid
	// range for one input variable.
	GetDomain() []float64

	Embedder

	// Apply evaluates the function at inputs, writing its n output values
	// into result (which must have length n). Reusing the same result
	// slice across many evaluations avoids an allocation per sample, which
	// matters when a function backs a shading's per-pixel color lookup.
	Apply(result []float64, inputs ...float64)
}
