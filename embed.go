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

package pdf

import "io"

// Native is an Object that is ready to be written out directly: it needs no
// further embedding step. Embed methods return a Native once they have
// allocated and written whatever indirect objects they need.
type Native = Object

// EmbedHelper gives an [Embedder] the services it needs to write itself
// into a PDF file: allocating object numbers, writing indirect objects, and
// opening stream objects. It is a thin wrapper around [Writer] so that
// resources (functions, shadings, forms, ...) never need to reach into the
// document package directly.
type EmbedHelper struct {
	pw *Writer
}

// NewEmbedHelper returns an EmbedHelper backed by pw.
func NewEmbedHelper(pw *Writer) *EmbedHelper {
	return &EmbedHelper{pw: pw}
}

// Alloc reserves a new object number.
func (e *EmbedHelper) Alloc() Reference { return e.pw.Alloc() }

// Put writes obj as the body of ref.
func (e *EmbedHelper) Put(ref Reference, obj Object) error { return e.pw.Put(ref, obj) }

// OpenStream opens ref as a stream object with the given dictionary.
func (e *EmbedHelper) OpenStream(ref Reference, dict Dict) (io.WriteCloser, error) {
	return e.pw.OpenStream(ref, dict)
}

// OpenFlateStream is like OpenStream, but compresses the stream body with
// FlateWriter and adds "/Filter /FlateDecode" to dict. If compression fails
// partway through, Write returns errFlateFailed for that call and every
// later one; the Filter entry stays in the dictionary and the remaining
// bytes are not written uncompressed.
func (e *EmbedHelper) OpenFlateStream(ref Reference, dict Dict, level int) (io.WriteCloser, error) {
	if dict == nil {
		dict = Dict{}
	}
	d2 := make(Dict, len(dict)+1)
	for k, v := range dict {
		d2[k] = v
	}
	d2["Filter"] = Name("FlateDecode")

	raw, err := e.pw.OpenStream(ref, d2)
	if err != nil {
		return nil, err
	}
	return &flateStream{raw: raw, fw: NewFlateWriter(raw, level)}, nil
}

type flateStream struct {
	raw io.WriteCloser
	fw  *FlateWriter
}

func (s *flateStream) Write(p []byte) (int, error) {
	if !s.fw.Write(p) {
		return 0, errFlateFailed
	}
	return len(p), nil
}

func (s *flateStream) Close() error {
	s.fw.Finalize()
	return s.raw.Close()
}

// Version returns the PDF version being written.
func (e *EmbedHelper) Version() Version { return e.pw.Version() }

// Embed is implemented by resource types that know how to write themselves
// into a PDF file: functions, shadings, forms, color spaces, and so on.
// Embed returns the Native value other objects should reference it by
// (usually an indirect [Reference], but small objects may embed directly).
type Embedder interface {
	Embed(e *EmbedHelper) (Native, error)
}
