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

// Package shading builds PDF shading dictionaries for linear, radial, and
// conic gradients, encoding the gradient's color stops as a stitched
// Type 2/Type 3 function chain (github.com/rendergo/rendergo/function) per
// spec.md §4.7.
package shading

import (
	"fmt"
	"io"
	"strings"

	"github.com/rendergo/rendergo"
	"github.com/rendergo/rendergo/function"
	"github.com/rendergo/rendergo/graphics/color"
)

// TileMode selects how a gradient behaves outside its defined [0, 1]
// parameter range.
type TileMode int

const (
	Clamp TileMode = iota
	Repeat
	Mirror
)

// Stop is one color stop of a gradient, in increasing Offset order.
type Stop struct {
	Offset float64 // in [0, 1]
	Color  []float64
	Alpha  float64 // 1 = opaque
}

// stopEpsilon is the minimum offset gap between adjacent stops; coincident
// stops are nudged apart by this amount to avoid a zero-width Type 3
// stitching subdomain.
const stopEpsilon = 1e-5

// normalizeStops deduplicates a run of three or more visually identical
// stops down to its endpoints and nudges coincident offsets apart, so the
// stitching function never receives a zero-width subdomain.
func normalizeStops(stops []Stop) []Stop {
	if len(stops) == 0 {
		return stops
	}
	out := make([]Stop, 0, len(stops))
	out = append(out, stops[0])
	for i := 1; i < len(stops); i++ {
		prev := &out[len(out)-1]
		s := stops[i]
		if s.Offset <= prev.Offset {
			s.Offset = prev.Offset + stopEpsilon
		}
		if len(out) >= 2 && sameColor(out[len(out)-2], *prev) && sameColor(*prev, s) {
			*prev = s
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameColor(a, b Stop) bool {
	if a.Alpha != b.Alpha || len(a.Color) != len(b.Color) {
		return false
	}
	for i := range a.Color {
		if a.Color[i] != b.Color[i] {
			return false
		}
	}
	return true
}

// buildColorFunction stitches one Type2 exponential-interpolation piece
// per adjacent stop pair into a Type3 function over [stops[0].Offset,
// stops[last].Offset].
func buildColorFunction(stops []Stop, component func(Stop) []float64) pdf.Function {
	if len(stops) == 1 {
		c := component(stops[0])
		return &function.Type2{XMin: 0, XMax: 1, C0: c, C1: c, N: 1}
	}

	fns := make([]pdf.Function, 0, len(stops)-1)
	bounds := make([]float64, 0, len(stops)-2)
	encode := make([]float64, 0, 2*(len(stops)-1))
	for i := 0; i+1 < len(stops); i++ {
		c0, c1 := component(stops[i]), component(stops[i+1])
		fns = append(fns, &function.Type2{XMin: 0, XMax: 1, C0: c0, C1: c1, N: 1})
		encode = append(encode, 0, 1)
		if i+1 < len(stops)-1 {
			bounds = append(bounds, stops[i+1].Offset)
		}
	}
	return &function.Type3{XMin: stops[0].Offset, XMax: stops[len(stops)-1].Offset, Functions: fns, Bounds: bounds, Encode: encode}
}

// postscriptFunction is a FunctionType 4 calculator function whose program
// text was generated directly rather than assembled from a Function tree;
// used for anything a native Type2/Type3 stitching function cannot express,
// namely the Repeat/Mirror wraparound and the conic angle lookup.
type postscriptFunction struct {
	domain  []float64
	n       int
	program string
}

func (f *postscriptFunction) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	ref := e.Alloc()
	dict := pdf.Dict{
		"FunctionType": pdf.Integer(4),
		"Domain":       floatArray(f.domain),
		"Range":        rangeArray(f.n),
	}
	stm, err := e.OpenStream(ref, dict)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(stm, f.program); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}
	return ref, nil
}

func floatArray(xs []float64) pdf.Array {
	a := make(pdf.Array, len(xs))
	for i, x := range xs {
		a[i] = pdf.Real(x)
	}
	return a
}

// buildStopFunction returns the PDF function mapping a 1-D parameter (in
// [stops[0].Offset, stops[last].Offset]) to component(stop)-shaped output
// values. Clamp tiling needs only the native stitched Type2/Type3 chain,
// since the shading dictionary's own `Extend` entry handles values outside
// that range. Repeat and Mirror need the parameter wrapped back into range
// first, which no native function type can express, so those modes emit a
// single hand-built FunctionType 4 program doing both the wraparound and
// the stitched lookup.
func buildStopFunction(stops []Stop, mode TileMode, component func(Stop) []float64) pdf.Embedder {
	if mode == Clamp {
		return buildColorFunction(stops, component)
	}
	n := len(component(stops[0]))
	min, max := stops[0].Offset, stops[len(stops)-1].Offset
	var b strings.Builder
	fmt.Fprintf(&b, "{ %g sub %g div ", min, max-min)
	writeWrapMode(&b, mode)
	fmt.Fprintf(&b, "%g mul %g add ", max-min, min)
	writeStopChain(&b, stops, n, component)
	b.WriteString(" }")
	return &postscriptFunction{domain: []float64{min - 1e6, max + 1e6}, n: n, program: b.String()}
}

// writeWrapMode emits the PostScript that reduces the fractional progress
// left on the stack (an arbitrary real, not yet confined to [0, 1]) to
// [0, 1) for Repeat or [0, 1] for Mirror.
func writeWrapMode(b *strings.Builder, mode TileMode) {
	switch mode {
	case Repeat:
		b.WriteString("dup truncate sub dup 0 lt { 1 add } if ")
	case Mirror:
		b.WriteString("2 div dup truncate sub dup 0 lt { 1 add } if 2 mul dup 1 gt { 2 exch sub } if ")
	}
}

// Shading is a built PDF shading dictionary, either standalone (for the
// `sh` painting operator) or used as the Shading entry of a
// graphics/pattern.Shading pattern (for an `scn` fill).
type Shading struct {
	dict       pdf.Dict
	alphaStops []Stop
	min, max   float64
	mode       TileMode
}

// HasAlpha reports whether the gradient needs the tiling-pattern +
// luminosity-SMask composition path because at least one stop was
// non-opaque.
func (s *Shading) HasAlpha() bool { return s.alphaStops != nil }

// Embed writes the shading dictionary and returns an indirect reference
// to it.
func (s *Shading) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	ref := e.Alloc()
	if err := e.Put(ref, s.dict); err != nil {
		return nil, err
	}
	return ref, nil
}

// AlphaMaskFunction builds and embeds the gradient's alpha channel as a
// standalone grayscale function, for use as the Function entry of a
// ShadingType 2/3 luminosity-mask shading painted into a soft mask group.
func (s *Shading) AlphaMaskFunction(e *pdf.EmbedHelper) (pdf.Native, error) {
	if s.alphaStops == nil {
		return nil, fmt.Errorf("shading: gradient has no per-stop alpha")
	}
	fn := buildStopFunction(s.alphaStops, s.mode, func(st Stop) []float64 { return []float64{st.Alpha} })
	return fn.Embed(e)
}

func colorComponents(space color.Space, stop Stop) []float64 {
	n := space.NumComponents()
	if len(stop.Color) >= n {
		return stop.Color[:n]
	}
	out := make([]float64, n)
	copy(out, stop.Color)
	return out
}

func colorSpaceResource(e *pdf.EmbedHelper, space color.Space) (pdf.Object, error) {
	return space.Resource(e)
}

// BuildLinear builds a ShadingType 2 (axial) gradient between p0 and p1.
func BuildLinear(e *pdf.EmbedHelper, space color.Space, stops []Stop, mode TileMode, p0, p1 [2]float64) (*Shading, error) {
	stops = normalizeStops(stops)
	if len(stops) == 0 {
		return nil, fmt.Errorf("shading: gradient has no stops")
	}
	cs, err := colorSpaceResource(e, space)
	if err != nil {
		return nil, err
	}
	colorFn := buildStopFunction(stops, mode, func(s Stop) []float64 { return colorComponents(space, s) })
	fnRef, err := colorFn.Embed(e)
	if err != nil {
		return nil, err
	}

	dict := pdf.Dict{
		"ShadingType": pdf.Integer(2),
		"ColorSpace":  cs,
		"Coords":      pdf.Array{pdf.Real(p0[0]), pdf.Real(p0[1]), pdf.Real(p1[0]), pdf.Real(p1[1])},
		"Function":    fnRef,
	}
	if mode == Clamp {
		dict["Extend"] = pdf.Array{pdf.Boolean(true), pdf.Boolean(true)}
	}

	sh := &Shading{dict: dict, min: stops[0].Offset, max: stops[len(stops)-1].Offset, mode: mode}
	if hasAlpha(stops) {
		sh.alphaStops = stops
	}
	return sh, nil
}

// BuildRadial builds a ShadingType 3 (radial) gradient between two circles.
func BuildRadial(e *pdf.EmbedHelper, space color.Space, stops []Stop, mode TileMode, c0 [2]float64, r0 float64, c1 [2]float64, r1 float64) (*Shading, error) {
	stops = normalizeStops(stops)
	if len(stops) == 0 {
		return nil, fmt.Errorf("shading: gradient has no stops")
	}
	cs, err := colorSpaceResource(e, space)
	if err != nil {
		return nil, err
	}
	colorFn := buildStopFunction(stops, mode, func(s Stop) []float64 { return colorComponents(space, s) })
	fnRef, err := colorFn.Embed(e)
	if err != nil {
		return nil, err
	}

	dict := pdf.Dict{
		"ShadingType": pdf.Integer(3),
		"ColorSpace":  cs,
		"Coords": pdf.Array{
			pdf.Real(c0[0]), pdf.Real(c0[1]), pdf.Real(r0),
			pdf.Real(c1[0]), pdf.Real(c1[1]), pdf.Real(r1),
		},
		"Function": fnRef,
	}
	if mode == Clamp {
		dict["Extend"] = pdf.Array{pdf.Boolean(true), pdf.Boolean(true)}
	}

	sh := &Shading{dict: dict, min: stops[0].Offset, max: stops[len(stops)-1].Offset, mode: mode}
	if hasAlpha(stops) {
		sh.alphaStops = stops
	}
	return sh, nil
}

// BuildConic builds a conic (angular sweep) gradient around center. PDF has
// no native angular shading type, so this uses a ShadingType 1
// (function-based) shading over domain, whose 2-input function converts
// (x, y) relative to center into an angle and looks up the color function
// at that angle's fraction of a full turn.
func BuildConic(e *pdf.EmbedHelper, space color.Space, stops []Stop, mode TileMode, center [2]float64, domain pdf.Rectangle) (*Shading, error) {
	stops = normalizeStops(stops)
	if len(stops) == 0 {
		return nil, fmt.Errorf("shading: gradient has no stops")
	}
	cs, err := colorSpaceResource(e, space)
	if err != nil {
		return nil, err
	}
	ref := e.Alloc()
	program := conicProgram(center, stops, space.NumComponents(), mode)
	dict0 := pdf.Dict{
		"FunctionType": pdf.Integer(4),
		"Domain":       pdf.Array{pdf.Real(domain.LLx), pdf.Real(domain.URx), pdf.Real(domain.LLy), pdf.Real(domain.URy)},
		"Range":        rangeArray(space.NumComponents()),
	}
	stm, err := e.OpenStream(ref, dict0)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprint(stm, program); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}

	dict := pdf.Dict{
		"ShadingType": pdf.Integer(1),
		"ColorSpace":  cs,
		"Domain":      pdf.Array{pdf.Real(domain.LLx), pdf.Real(domain.URx), pdf.Real(domain.LLy), pdf.Real(domain.URy)},
		"Function":    ref,
	}

	sh := &Shading{dict: dict, min: stops[0].Offset, max: stops[len(stops)-1].Offset, mode: mode}
	if hasAlpha(stops) {
		sh.alphaStops = stops
	}
	return sh, nil
}

func rangeArray(n int) pdf.Array {
	a := make(pdf.Array, 2*n)
	for i := 0; i < n; i++ {
		a[2*i], a[2*i+1] = pdf.Real(0), pdf.Real(1)
	}
	return a
}

// conicProgram generates a PostScript Type 4 calculator program that maps
// a ShadingType 1 sample point (x, y) to a color: it computes the angle
// around center with the sanctioned `atan` operator (which already returns
// degrees in [0, 360)), reduces it to the gradient's tile-mode-adjusted
// parameter t, then evaluates the stitched stop interpolation as a chain
// of `dup le { ... } { ... } ifelse` comparisons, entirely in PostScript
// since FunctionType 4 has no way to call back into Go at render time.
func conicProgram(center [2]float64, stops []Stop, n int, mode TileMode) string {
	var b strings.Builder
	// Inputs arrive as [x, y]; subtract the center from y then x, leaving
	// [dy, dx] exactly as `atan`'s "num den atan" calling convention wants.
	fmt.Fprintf(&b, "{ %g sub exch %g sub atan 360 div ", center[1], center[0])
	writeWrapMode(&b, mode)
	component := func(s Stop) []float64 { return s.Color }
	writeStopChain(&b, stops, n, component)
	b.WriteString(" }")
	return b.String()
}

// writeStopChain emits, onto b, a PostScript expression that consumes the
// parameter t left on the stack and pushes n interpolated component(stop)
// values, by recursively testing t against each stop boundary.
func writeStopChain(b *strings.Builder, stops []Stop, n int, component func(Stop) []float64) {
	var emit func(lo, hi int)
	emit = func(lo, hi int) {
		if hi-lo == 1 {
			// Normalize t to this segment's local [0, 1] and clamp, leaving
			// exactly one value (ts) on the stack.
			a, c := stops[lo], stops[hi]
			fmt.Fprintf(b, "%g sub %g div ", a.Offset, c.Offset-a.Offset)
			b.WriteString("dup 0 lt { pop 0 } if dup 1 gt { pop 1 } if ")

			// For each output component, duplicate ts (still buried i
			// levels down under the i results already pushed) via `i
			// index`, then compute a[i] + ts*(c[i]-a[i]).
			av, cv := component(a), component(c)
			comp := func(v []float64, i int) float64 {
				if i < len(v) {
					return v[i]
				}
				return 0
			}
			for i := 0; i < n; i++ {
				ai, ci := comp(av, i), comp(cv, i)
				fmt.Fprintf(b, "%d index %g mul %g add ", i, ci-ai, ai)
			}
			// Stack is now [ts, r0, ..., r(n-1)] bottom-to-top (n+1
			// elements). Rolling that group by n positions brings the
			// bottom (ts) to the top without disturbing the results'
			// relative order, so a final pop discards it.
			fmt.Fprintf(b, "%d %d roll pop", n+1, n)
			return
		}
		mid := (lo + hi) / 2
		fmt.Fprintf(b, "dup %g le { ", stops[mid].Offset)
		emit(lo, mid)
		b.WriteString(" } { ")
		emit(mid, hi)
		b.WriteString(" } ifelse")
	}
	emit(0, len(stops)-1)
}

func hasAlpha(stops []Stop) bool {
	for _, s := range stops {
		if s.Alpha != 1 {
			return true
		}
	}
	return false
}
