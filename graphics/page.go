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

// Package graphics implements the PDF export context: the page-content
// byte stream builder that turns a sequence of drawing calls into PDF
// content-stream operators, tracking the fill and stroke colors so that
// color operators are only emitted when the color actually changed, and
// handling the Form XObject protocol that Porter-Duff blend modes use.
// `q`/`Q`, `cm` and `W n` are written for every Save, Restore, Transform
// and ClipRect call, and `gs` before every paint operator, whether or not
// the state they set differs from the current one.
package graphics

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"github.com/rendergo/rendergo"
	"github.com/rendergo/rendergo/graphics/color"
	"github.com/rendergo/rendergo/graphics/extgstate"
	"github.com/rendergo/rendergo/graphics/form"
	"github.com/rendergo/rendergo/graphics/group"
	"github.com/rendergo/rendergo/graphics/pattern"
	"github.com/rendergo/rendergo/graphics/shading"
)

// BlendNormal is the default blend mode. It and the separable and
// non-separable PDF blend modes are set directly through `gs` in the
// primary content stream; only the Porter-Duff modes in porterDuffModes
// capture the page's existing content so the new draw can compose against
// it.
const BlendNormal pdf.Name = "Normal"

// porterDuffModes are the PDF blend modes that the spec classifies as
// Porter-Duff compositing operators rather than separable blend formulas;
// these require the existing page content as an explicit destination,
// captured into a Form XObject, rather than blending in place.
var porterDuffModes = map[pdf.Name]bool{
	"Normal":   false,
	"Multiply": false, "Screen": false, "Overlay": false, "Darken": false,
	"Lighten": false, "ColorDodge": false, "ColorBurn": false,
	"HardLight": false, "SoftLight": false, "Difference": false,
	"Exclusion": false, "Hue": false, "Saturation": false,
	"Color": false, "Luminosity": false,
	"Clear": true, "Source": true, "In": true, "Out": true, "Atop": true,
	"Dest": true, "DestOver": true, "DestIn": true, "DestOut": true,
	"DestAtop": true, "Xor": true, "PlusLighter": true, "PlusDarker": true,
}

// state is one entry of the graphics-state stack: everything a `q`/`Q`
// pair needs to save and restore.
type state struct {
	ctm         matrix.Matrix
	fill        color.Color
	stroke      color.Color
	fillAlpha   float64
	strokeAlpha float64
	blendMode   pdf.Name
	lineWidth   float64
	clipSet     bool
}

func defaultState() state {
	return state{
		ctm:         matrix.Identity,
		fill:        color.Gray(0),
		stroke:      color.Gray(0),
		fillAlpha:   1,
		strokeAlpha: 1,
		blendMode:   BlendNormal,
		lineWidth:   1,
	}
}

// ExportContext accumulates one page's content stream. It is created by
// [document.Document.BeginPage] and consumed by EndPage.
type ExportContext struct {
	e *pdf.EmbedHelper

	width, height float64

	primary  bytes.Buffer
	deferred *bytes.Buffer // allocated lazily on the first Porter-Duff-blend draw

	// stack holds the saved states for nested Save calls; it is
	// pre-sized for the common case of at most two levels of nesting
	// beyond the base state, matching the export context's usual Form
	// XObject capture depth (page content, then one captured destination).
	stack []state
	cur   state

	resources    pdf.Dict
	xobjects     pdf.Dict
	extGStates   pdf.Dict
	patterns     pdf.Dict
	shadings     pdf.Dict
	colorSpaces  pdf.Dict
	extGStateIDs map[string]pdf.Name
	nextXObj     int
	nextGS       int
	nextPattern  int
	nextShading  int
	nextCS       int

	destCaptured bool
	destForm     pdf.Reference

	Err error
}

// NewExportContext returns an export context for a page of the given size,
// ready to accept drawing calls.
func NewExportContext(e *pdf.EmbedHelper, width, height float64) *ExportContext {
	return &ExportContext{
		e:      e,
		width:  width,
		height: height,
		cur:    defaultState(),
		stack:  make([]state, 0, 2),

		xobjects:     pdf.Dict{},
		extGStates:   pdf.Dict{},
		patterns:     pdf.Dict{},
		shadings:     pdf.Dict{},
		colorSpaces:  pdf.Dict{},
		extGStateIDs: make(map[string]pdf.Name),
	}
}

// content returns the buffer the next operator should be written to: the
// deferred stream while the current blend mode is a Porter-Duff mode, the
// primary stream otherwise.
func (c *ExportContext) content() *bytes.Buffer {
	if c.cur.blendMode != BlendNormal && porterDuffModes[c.cur.blendMode] {
		if c.deferred == nil {
			c.deferred = &bytes.Buffer{}
		}
		return c.deferred
	}
	return &c.primary
}

func (c *ExportContext) writef(format string, args ...any) {
	if c.Err != nil {
		return
	}
	fmt.Fprintf(c.content(), format, args...)
}

// Save pushes the current graphics state and writes `q`.
func (c *ExportContext) Save() {
	c.stack = append(c.stack, c.cur)
	c.writef("q\n")
}

// Restore pops the graphics state and writes `Q`.
func (c *ExportContext) Restore() {
	if len(c.stack) == 0 {
		c.Err = fmt.Errorf("graphics: Restore without matching Save")
		return
	}
	c.writef("Q\n")
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Transform concatenates m into the current transformation matrix and
// emits `cm`.
func (c *ExportContext) Transform(m matrix.Matrix) {
	c.cur.ctm = m.Mul(c.cur.ctm)
	writeMatrix(c.content(), m)
}

func writeMatrix(buf *bytes.Buffer, m matrix.Matrix) {
	fmt.Fprintf(buf, "%s %s %s %s %s %s cm\n",
		fmtNum(m[0]), fmtNum(m[1]), fmtNum(m[2]), fmtNum(m[3]), fmtNum(m[4]), fmtNum(m[5]))
}

func fmtNum(x float64) string {
	return fmt.Sprintf("%g", x)
}

// ClipRect intersects the current clip with r and emits `re W n`.
func (c *ExportContext) ClipRect(r pdf.Rectangle) {
	c.writef("%s %s %s %s re W n\n", fmtNum(r.LLx), fmtNum(r.LLy), fmtNum(r.Dx()), fmtNum(r.Dy()))
	c.cur.clipSet = true
}

// registerColorSpace assigns (or reuses) a resource name for space and
// returns it, embedding the space if it is an indirect resource like
// ICCBased.
func (c *ExportContext) registerColorSpace(space color.Space) (pdf.Name, error) {
	family := space.Family()
	if family == "DeviceGray" || family == "DeviceRGB" || family == "DeviceCMYK" {
		return pdf.Name(family), nil
	}
	res, err := space.Resource(c.e)
	if err != nil {
		return "", err
	}
	name := pdf.Name(fmt.Sprintf("CS%d", c.nextCS))
	c.nextCS++
	c.colorSpaces[name] = res
	return name, nil
}

// SetFillColor updates the fill color, emitting `scn` (or `g`/`rg`/`k` for
// the device spaces) only when it differs from the current state.
func (c *ExportContext) SetFillColor(col color.Color) {
	if c.Err != nil {
		return
	}
	if colorEqual(c.cur.fill, col) {
		return
	}
	if err := c.emitColor(col, false); err != nil {
		c.Err = err
		return
	}
	c.cur.fill = col
}

// SetStrokeColor is the stroke-color counterpart of SetFillColor.
func (c *ExportContext) SetStrokeColor(col color.Color) {
	if c.Err != nil {
		return
	}
	if colorEqual(c.cur.stroke, col) {
		return
	}
	if err := c.emitColor(col, true); err != nil {
		c.Err = err
		return
	}
	c.cur.stroke = col
}

func (c *ExportContext) emitColor(col color.Color, stroke bool) error {
	switch col.Space.(type) {
	case color.DeviceGray:
		op := "g"
		if stroke {
			op = "G"
		}
		c.writef("%s %s\n", fmtNum(col.Components[0]), op)
		return nil
	case color.DeviceRGB:
		op := "rg"
		if stroke {
			op = "RG"
		}
		c.writef("%s %s %s %s\n", fmtNum(col.Components[0]), fmtNum(col.Components[1]), fmtNum(col.Components[2]), op)
		return nil
	case color.DeviceCMYK:
		op := "k"
		if stroke {
			op = "K"
		}
		c.writef("%s %s %s %s %s\n", fmtNum(col.Components[0]), fmtNum(col.Components[1]), fmtNum(col.Components[2]), fmtNum(col.Components[3]), op)
		return nil
	}

	name, err := c.registerColorSpace(col.Space)
	if err != nil {
		return err
	}
	csOp, scnOp := "cs", "scn"
	if stroke {
		csOp, scnOp = "CS", "SCN"
	}
	c.writef("/%s %s\n", name, csOp)
	for _, v := range col.Components {
		c.writef("%s ", fmtNum(v))
	}
	c.writef("%s\n", scnOp)
	return nil
}

func colorEqual(a, b color.Color) bool {
	if a.Space == nil || b.Space == nil {
		return a.Space == b.Space
	}
	if a.Space.Family() != b.Space.Family() || len(a.Components) != len(b.Components) {
		return false
	}
	for i := range a.Components {
		if a.Components[i] != b.Components[i] {
			return false
		}
	}
	return true
}

// SetFillGradient sets the fill color to a shading pattern painted through
// m (the pattern's own coordinate mapping, in addition to the current
// CTM), and emits `/Pattern cs /P<n> scn`. A gradient with per-stop alpha
// (sh.HasAlpha()) is wrapped in a tiling pattern whose cell paints the
// shading once via `sh` under a soft mask built from the gradient's alpha
// channel, since a plain PDF shading pattern has no alpha of its own.
func (c *ExportContext) SetFillGradient(sh *shading.Shading, bbox pdf.Rectangle, m matrix.Matrix) error {
	if c.Err != nil {
		return c.Err
	}
	shRef, err := sh.Embed(c.e)
	if err != nil {
		return err
	}

	var patRef pdf.Native
	if !sh.HasAlpha() {
		p := &pattern.Shading{ShadingDict: shRef, Matrix: arrayOf(m)}
		patRef, err = p.Embed(c.e)
	} else {
		patRef, err = c.buildAlphaGradientPattern(sh, shRef, bbox, m)
	}
	if err != nil {
		return err
	}

	name := pdf.Name(fmt.Sprintf("P%d", c.nextPattern))
	c.nextPattern++
	c.patterns[name] = patRef

	c.writef("/Pattern cs\n")
	c.writef("/%s scn\n", name)
	c.cur.fill = color.Color{} // a pattern fill is never equal to a later plain color
	return nil
}

// buildAlphaGradientPattern wraps sh's opaque colors in a tiling pattern
// cell that paints the shading masked by a luminosity soft mask built from
// the gradient's own alpha channel (graphics/shading.Shading.AlphaMaskFunction).
func (c *ExportContext) buildAlphaGradientPattern(sh *shading.Shading, shRef pdf.Native, bbox pdf.Rectangle, m matrix.Matrix) (pdf.Native, error) {
	alphaFn, err := sh.AlphaMaskFunction(c.e)
	if err != nil {
		return nil, err
	}
	maskShadingDict := pdf.Dict{
		"ShadingType": pdf.Integer(2),
		"ColorSpace":  pdf.Name("DeviceGray"),
		"Coords":      pdf.Array{pdf.Real(bbox.LLx), pdf.Real(0), pdf.Real(bbox.URx), pdf.Real(0)},
		"Function":    alphaFn,
		"Extend":      pdf.Array{pdf.Boolean(true), pdf.Boolean(true)},
	}
	maskRef := c.e.Alloc()
	if err := c.e.Put(maskRef, maskShadingDict); err != nil {
		return nil, err
	}

	maskForm := &form.Form{
		BBox:    bbox,
		Group:   (&group.Transparency{Isolated: true}).Dict(),
		Content: []byte("/MaskSh sh\n"),
		Resources: pdf.Dict{
			"Shading": pdf.Dict{"MaskSh": maskRef},
		},
	}
	maskFormRef, err := maskForm.Embed(c.e)
	if err != nil {
		return nil, err
	}

	gs := &extgstate.ExtGState{SoftMask: &extgstate.SoftMask{Group: maskFormRef.(pdf.Reference), Luminosity: true}}
	gsRef, err := gs.Embed(c.e)
	if err != nil {
		return nil, err
	}
	gsName := pdf.Name(fmt.Sprintf("GS%d", c.nextGS))
	c.nextGS++

	cellContent := fmt.Sprintf("q /%s gs /Sh sh Q\n", gsName)
	tiling := &pattern.Tiling{
		BBox:   bbox,
		XStep:  bbox.Dx(),
		YStep:  bbox.Dy(),
		Matrix: arrayOf(m),
		Resources: pdf.Dict{
			"Shading":   pdf.Dict{"Sh": shRef},
			"ExtGState": pdf.Dict{gsName: gsRef},
		},
		Content: []byte(cellContent),
	}
	return tiling.Embed(c.e)
}

func arrayOf(m matrix.Matrix) pdf.Array {
	return pdf.Array{pdf.Real(m[0]), pdf.Real(m[1]), pdf.Real(m[2]), pdf.Real(m[3]), pdf.Real(m[4]), pdf.Real(m[5])}
}

// SetAlpha updates the non-stroking and stroking alpha constants, and
// SetBlendMode updates the blend mode; both are applied together by the
// `gs` that the next draw call writes, so that a run of alpha-only and
// blend-only changes shares a single ExtGState resource.
func (c *ExportContext) SetAlpha(fill, stroke float64) {
	c.cur.fillAlpha = fill
	c.cur.strokeAlpha = stroke
}

func (c *ExportContext) SetBlendMode(mode pdf.Name) {
	if mode == "" {
		mode = BlendNormal
	}
	if mode != c.cur.blendMode && porterDuffModes[mode] && !c.destCaptured {
		c.captureDestination()
	}
	c.cur.blendMode = mode
}

// captureDestination wraps the primary content accumulated so far into an
// isolated Form XObject, so a later Porter-Duff draw (written to the
// deferred stream) can composite against it as an explicit destination
// once FinishBlend runs.
func (c *ExportContext) captureDestination() {
	g := &group.Transparency{Isolated: true}
	f := &form.Form{
		BBox:      pdf.NewRectangle(0, 0, c.width, c.height),
		Group:     g.Dict(),
		Resources: c.ResourceDict(),
		Content:   append([]byte(nil), c.primary.Bytes()...),
	}
	ref, err := f.Embed(c.e)
	if err != nil {
		c.Err = err
		return
	}
	c.destForm = ref.(pdf.Reference)
	c.destCaptured = true
}

// applyGState emits `gs` for the given alpha and blend mode on every call,
// reusing a cached ExtGState resource for identical settings. It does not
// compare against the `gs` last written, so an unchanged state is written
// again.
func (c *ExportContext) applyGState(fillAlpha, strokeAlpha float64, blend pdf.Name) error {
	g := &extgstate.ExtGState{FillAlpha: &fillAlpha, StrokeAlpha: &strokeAlpha, BlendMode: blend}
	key := fmt.Sprintf("%v", g.Key())
	name, ok := c.extGStateIDs[key]
	if !ok {
		native, err := g.Embed(c.e)
		if err != nil {
			return err
		}
		name = pdf.Name(fmt.Sprintf("GS%d", c.nextGS))
		c.nextGS++
		c.extGStates[name] = native
		c.extGStateIDs[key] = name
	}
	c.writef("/%s gs\n", name)
	return nil
}

// geometry emission: `m l c re`.

func (c *ExportContext) MoveTo(x, y float64) { c.writef("%s %s m\n", fmtNum(x), fmtNum(y)) }
func (c *ExportContext) LineTo(x, y float64) { c.writef("%s %s l\n", fmtNum(x), fmtNum(y)) }
func (c *ExportContext) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	c.writef("%s %s %s %s %s %s c\n", fmtNum(x1), fmtNum(y1), fmtNum(x2), fmtNum(y2), fmtNum(x3), fmtNum(y3))
}
func (c *ExportContext) Rect(r pdf.Rectangle) {
	c.writef("%s %s %s %s re\n", fmtNum(r.LLx), fmtNum(r.LLy), fmtNum(r.Dx()), fmtNum(r.Dy()))
}
func (c *ExportContext) ClosePath() { c.writef("h\n") }

// paint operators: `f f* S s`.

// Fill paints the current path per the fill rule, bracketing the draw
// with the blend-mode scoped-content protocol described in spec.md §4.6.
func (c *ExportContext) Fill(evenOdd bool) {
	c.beginDraw()
	if evenOdd {
		c.writef("f*\n")
	} else {
		c.writef("f\n")
	}
	c.endDraw()
}

// Stroke paints the current path's outline.
func (c *ExportContext) Stroke() {
	c.beginDraw()
	c.writef("S\n")
	c.endDraw()
}

// FillAndStroke paints both the fill and the stroke, closing the path
// first (the `s` operator implies `h S`).
func (c *ExportContext) FillAndStroke() {
	c.beginDraw()
	c.writef("s\n")
	c.endDraw()
}

// beginDraw writes the current alpha and blend mode through applyGState.
func (c *ExportContext) beginDraw() {
	if c.Err != nil {
		return
	}
	if err := c.applyGState(c.cur.fillAlpha, c.cur.strokeAlpha, c.cur.blendMode); err != nil {
		c.Err = err
	}
}

// endDraw runs the finishing protocol for a Porter-Duff blend draw: once
// the deferred stream holds content, it is wrapped in its own Form
// XObject, and both the captured destination form and that source form
// are drawn into the primary stream with `Do`, the source under an
// ExtGState that carries only its blend mode. No soft mask is used.
func (c *ExportContext) endDraw() {
	if c.Err != nil || c.deferred == nil || c.deferred.Len() == 0 || !porterDuffModes[c.cur.blendMode] {
		return
	}

	srcForm := &form.Form{
		BBox:      pdf.NewRectangle(0, 0, c.width, c.height),
		Group:     (&group.Transparency{Isolated: true}).Dict(),
		Resources: c.ResourceDict(),
		Content:   append([]byte(nil), c.deferred.Bytes()...),
	}
	srcRef, err := srcForm.Embed(c.e)
	if err != nil {
		c.Err = err
		return
	}
	c.deferred.Reset()

	destName := pdf.Name(fmt.Sprintf("XObj%d", c.nextXObj))
	c.nextXObj++
	c.xobjects[destName] = c.destForm

	srcName := pdf.Name(fmt.Sprintf("XObj%d", c.nextXObj))
	c.nextXObj++
	c.xobjects[srcName] = srcRef

	g := &extgstate.ExtGState{BlendMode: c.cur.blendMode}
	gsRef, err := g.Embed(c.e)
	if err != nil {
		c.Err = err
		return
	}
	gsName := pdf.Name(fmt.Sprintf("GS%d", c.nextGS))
	c.nextGS++
	c.extGStates[gsName] = gsRef

	fmt.Fprintf(&c.primary, "q /%s Do Q\nq /%s gs /%s Do Q\n", destName, gsName, srcName)
}

// ResourceDict returns the page's aggregated /Resources dictionary, built
// from whatever fonts, XObjects, ExtGStates, patterns, shadings and color
// spaces the draw calls actually registered.
func (c *ExportContext) ResourceDict() pdf.Dict {
	d := pdf.Dict{}
	if len(c.xobjects) > 0 {
		d["XObject"] = c.xobjects
	}
	if len(c.extGStates) > 0 {
		d["ExtGState"] = c.extGStates
	}
	if len(c.patterns) > 0 {
		d["Pattern"] = c.patterns
	}
	if len(c.shadings) > 0 {
		d["Shading"] = c.shadings
	}
	if len(c.colorSpaces) > 0 {
		d["ColorSpace"] = c.colorSpaces
	}
	return d
}

// Content returns the accumulated primary content stream bytes, prefixed
// by the given initial transform (the one document.Document.BeginPage
// computes: the identity, or a translation to the content rectangle; no
// y-axis flip is applied).
func (c *ExportContext) Content(initial matrix.Matrix) []byte {
	var buf bytes.Buffer
	writeMatrix(&buf, initial)
	buf.Write(c.primary.Bytes())
	return buf.Bytes()
}
