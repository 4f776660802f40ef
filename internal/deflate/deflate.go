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

// Package deflate wraps compress/zlib with the same input buffering
// discipline as the engine's native deflate stream: writes accumulate in a
// fixed-size buffer and are only pushed into the compressor once it fills,
// so small, frequent Write calls from content-stream emission don't each
// trigger a zlib call.
package deflate

import (
	"compress/zlib"
	"io"
)

// InputBufferSize is the size of the buffer writes accumulate into before
// being flushed to the underlying zlib writer.
const InputBufferSize = 4096

// Writer buffers writes and deflates them into an underlying io.Writer.
// Finalize must be called exactly once to flush the final block and the
// zlib trailer; after that, Write returns an error.
type Writer struct {
	zw      *zlib.Writer
	buf     [InputBufferSize]byte
	n       int
	total   int64
	closed  bool
}

// NewWriter returns a Writer at the given zlib compression level (see
// compress/flate's level constants; 0 is a valid but historically
// surprising "store, don't compress" level some zlib implementations used
// to randomize — callers wanting real compression should pass
// zlib.DefaultCompression or higher).
func NewWriter(out io.Writer, level int) (*Writer, error) {
	zw, err := zlib.NewWriterLevel(out, level)
	if err != nil {
		return nil, err
	}
	return &Writer{zw: zw}, nil
}

// Write buffers p, flushing to the underlying compressor whenever the
// internal buffer fills. It returns a count below len(p) only together with
// the compressor's error.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	total := len(p)
	w.total += int64(total)
	for len(p) > 0 {
		k := copy(w.buf[w.n:], p)
		w.n += k
		p = p[k:]
		if w.n == len(w.buf) {
			if _, err := w.zw.Write(w.buf[:w.n]); err != nil {
				return total - len(p), err
			}
			w.n = 0
		}
	}
	return total, nil
}

// BytesWritten returns the number of uncompressed bytes handed to Write so
// far, including those still sitting in the input buffer.
func (w *Writer) BytesWritten() int64 {
	return w.total
}

// Finalize flushes any buffered bytes, closes the zlib stream and writes
// the zlib checksum trailer. After Finalize, the Writer must not be used
// again.
func (w *Writer) Finalize() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.n > 0 {
		if _, err := w.zw.Write(w.buf[:w.n]); err != nil {
			return err
		}
		w.n = 0
	}
	return w.zw.Close()
}
