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

import (
	"bytes"
	"fmt"
	"io"
)

// Writer sequentially emits indirect PDF objects to an output stream,
// recording the byte offset of each one so that a cross-reference table can
// be built once every object has been written. It has no notion of pages,
// a catalog, or a trailer; that policy lives in the document package, which
// is built on top of Writer.
type Writer struct {
	w       io.Writer
	version Version
	pos     int64
	lastRef uint32
	offsets map[uint32]int64
	closed  bool
}

// NewWriter writes the PDF file header and returns a Writer ready to accept
// objects.
func NewWriter(w io.Writer, v Version) (*Writer, error) {
	vs, err := v.ToString()
	if err != nil {
		return nil, err
	}
	pw := &Writer{
		w:       w,
		version: v,
		offsets: make(map[uint32]int64),
	}
	// The four high-bit bytes in the comment mark the file as binary to
	// naive transfer tools, as required by the PDF spec.
	n, err := fmt.Fprintf(w, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", vs)
	pw.pos += int64(n)
	return pw, err
}

// Version returns the PDF version this writer was created with.
func (pw *Writer) Version() Version { return pw.version }

// Alloc reserves a new, unused object number.
func (pw *Writer) Alloc() Reference {
	pw.lastRef++
	return NewReference(pw.lastRef, 0)
}

// Put writes obj as the body of the indirect object ref.
func (pw *Writer) Put(ref Reference, obj Object) error {
	return pw.emit(obj, ref)
}

// emit writes "N G obj\n<value>\nendobj\n", recording the absolute offset
// of the object's first byte.
func (pw *Writer) emit(obj Object, ref Reference) error {
	if pw.closed {
		return errWriterClosed
	}
	pw.offsets[ref.Number()] = pw.pos

	n, err := fmt.Fprintf(pw.w, "%d %d obj\n", ref.Number(), ref.Generation())
	pw.pos += int64(n)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err := writeObject(buf, obj); err != nil {
		return err
	}
	n, err = pw.w.Write(buf.Bytes())
	pw.pos += int64(n)
	if err != nil {
		return err
	}

	n, err = io.WriteString(pw.w, "\nendobj\n")
	pw.pos += int64(n)
	return err
}

// OpenStream allocates ref as a stream object with the given dictionary
// (which must not set "Length") and returns a writer for the raw stream
// bytes. Closing the returned writer computes the length, writes the
// dictionary, and emits the "stream"/"endstream" wrapper.
func (pw *Writer) OpenStream(ref Reference, dict Dict) (io.WriteCloser, error) {
	if pw.closed {
		return nil, errWriterClosed
	}
	if dict == nil {
		dict = Dict{}
	}
	return &streamWriter{pw: pw, ref: ref, dict: dict}, nil
}

type streamWriter struct {
	pw   *Writer
	ref  Reference
	dict Dict
	buf  bytes.Buffer
}

func (s *streamWriter) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *streamWriter) Close() error {
	dict := make(Dict, len(s.dict)+1)
	for k, v := range s.dict {
		dict[k] = v
	}
	dict["Length"] = Integer(s.buf.Len())

	pw := s.pw
	pw.offsets[s.ref.Number()] = pw.pos

	n, err := fmt.Fprintf(pw.w, "%d %d obj\n", s.ref.Number(), s.ref.Generation())
	pw.pos += int64(n)
	if err != nil {
		return err
	}

	hbuf := &bytes.Buffer{}
	if err := dict.PDF(hbuf); err != nil {
		return err
	}
	n, err = pw.w.Write(hbuf.Bytes())
	pw.pos += int64(n)
	if err != nil {
		return err
	}

	n, err = io.WriteString(pw.w, "\nstream\n")
	pw.pos += int64(n)
	if err != nil {
		return err
	}

	n, err = pw.w.Write(s.buf.Bytes())
	pw.pos += int64(n)
	if err != nil {
		return err
	}

	n, err = io.WriteString(pw.w, "\nendstream\nendobj\n")
	pw.pos += int64(n)
	return err
}

// Offsets returns the recorded byte offset of every object emitted so far,
// keyed by object number, for building a cross-reference table.
func (pw *Writer) Offsets() map[uint32]int64 {
	return pw.offsets
}

// Pos returns the current write position, i.e. the byte offset the next
// object would be emitted at.
func (pw *Writer) Pos() int64 { return pw.pos }

// Raw writes p directly to the underlying stream, advancing the position.
// Used by the document package to emit the cross-reference table and
// trailer after every object has been written.
func (pw *Writer) Raw(p []byte) error {
	n, err := pw.w.Write(p)
	pw.pos += int64(n)
	return err
}

// Close marks the writer as finished; further Put/OpenStream calls fail.
func (pw *Writer) Close() error {
	pw.closed = true
	return nil
}
