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
	"io"

	"seehuhn.de/go/postscript"

	"github.com/rendergo/rendergo"
)

// Type4 is a PDF PostScript calculator function (FunctionType 4): Program
// is a restricted PostScript expression evaluated with the sanctioned
// subset of operators listed in the PDF spec's Table 42/43 (arithmetic,
// comparison, stack manipulation and conditionals; no dictionary, string
// or procedure definition operators).
type Type4 struct {
	Domain  []float64
	Range   []float64
	Program string
}

var _ pdf.Function = (*Type4)(nil)

// allowedType4Ops is the PDF spec's sanctioned PostScript calculator
// operator set.
var allowedType4Ops = []string{
	"abs", "add", "atan", "ceiling", "cos", "cvi", "cvr", "div", "exp",
	"floor", "idiv", "ln", "log", "mod", "mul", "neg", "round", "sin",
	"sqrt", "sub", "truncate",
	"and", "bitshift", "eq", "ge", "gt", "le", "lt", "ne", "not", "or", "xor",
	"if", "ifelse",
	"copy", "dup", "exch", "index", "pop", "roll",
}

// FunctionType returns 4.
func (f *Type4) FunctionType() int { return 4 }

// Shape returns (len(Domain)/2, len(Range)/2).
func (f *Type4) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// GetDomain returns Domain unchanged.
func (f *Type4) GetDomain() []float64 { return f.Domain }

// Embed writes the function as a FunctionType 4 stream, whose body is the
// raw PostScript calculator program, and returns an indirect reference to
// it.
func (f *Type4) Embed(e *pdf.EmbedHelper) (pdf.Native, error) {
	f.repair()
	dict := pdf.Dict{
		"FunctionType": pdf.Integer(4),
		"Domain":       floatArray(f.Domain),
		"Range":        floatArray(f.Range),
	}

	ref := e.Alloc()
	stm, err := e.OpenStream(ref, dict)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(stm, f.Program); err != nil {
		stm.Close()
		return nil, err
	}
	if err := stm.Close(); err != nil {
		return nil, err
	}
	return ref, nil
}

// repair truncates Domain and Range to an even length and, if either
// becomes empty, falls back to the default [0, 1] interval.
func (f *Type4) repair() {
	f.Domain = truncateEven(f.Domain, 0, 1)
	f.Range = truncateEven(f.Range, 0, 1)
}

func truncateEven(s []float64, defaultLo, defaultHi float64) []float64 {
	if len(s)%2 != 0 {
		s = s[:len(s)-1]
	}
	if len(s) == 0 {
		return []float64{defaultLo, defaultHi}
	}
	return s
}

// sandboxDict returns a PostScript system dictionary restricted to
// allowedType4Ops plus the true/false literals, so an embedded Type 4
// program cannot reach file, procedure-definition or dictionary
// operators.
func sandboxDict(base postscript.Dict) postscript.Dict {
	d := postscript.Dict{
		"true":  postscript.Boolean(true),
		"false": postscript.Boolean(false),
	}
	for _, name := range allowedType4Ops {
		if impl, ok := base[postscript.Name(name)]; ok {
			d[postscript.Name(name)] = impl
		}
	}
	return d
}

// Apply clamps inputs to Domain, runs Program in a sandboxed PostScript
// interpreter with those inputs on the stack, then clamps the resulting
// stack's top n values (n = len(Range)/2) to Range.
func (f *Type4) Apply(result []float64, inputs ...float64) {
	f.repair()
	m, n := f.Shape()

	probe := postscript.NewInterpreter()
	dict := sandboxDict(probe.SystemDict)

	intp := postscript.NewInterpreter()
	intp.SystemDict = dict
	intp.DictStack = []postscript.Dict{dict, {}}

	for i := 0; i < m && i < len(inputs); i++ {
		x := clamp(inputs[i], f.Domain[2*i], f.Domain[2*i+1])
		intp.Stack = append(intp.Stack, postscript.Real(x))
	}

	if err := intp.ExecuteString(f.Program); err != nil {
		return
	}

	outputs := stackToFloats(intp.Stack)
	if len(outputs) > n {
		outputs = outputs[len(outputs)-n:]
	}
	for len(outputs) < n {
		outputs = append(outputs, 0)
	}

	for k := 0; k < n && k < len(result); k++ {
		lo, hi := f.Range[2*k], f.Range[2*k+1]
		result[k] = clamp(outputs[k], lo, hi)
	}
}

func stackToFloats(stack []postscript.Object) []float64 {
	out := make([]float64, 0, len(stack))
	for _, obj := range stack {
		switch v := obj.(type) {
		case postscript.Integer:
			out = append(out, float64(v))
		case postscript.Real:
			out = append(out, float64(v))
		case postscript.Boolean:
			if v {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		default:
			out = append(out, 0)
		}
	}
	return out
}
