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
	"compress/zlib"
	"io"
)

// deflateInputBuffer and deflateOutputBuffer size the streaming deflate
// adapter's internal buffers. The input side batches writes before handing
// them to zlib; the output side batches compressed bytes before a syscall.
const (
	deflateInputBuffer  = 4 * 1024
	deflateOutputBuffer = 4200
)

// deflateLevel maps a requested compression level to the nearest level
// zlib actually implements. Only -1 (default), 0 (store), 1 (fastest), 6
// (default, explicit) and 9 (best) are meaningful to callers of this
// library; anything else is rounded to one of these.
func deflateLevel(requested int) int {
	switch {
	case requested < 0:
		return zlib.DefaultCompression
	case requested == 0:
		return zlib.NoCompression
	case requested <= 1:
		return zlib.BestSpeed
	case requested >= 9:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}

// FlateWriter is a streaming wrapper around zlib deflate: it buffers bytes
// written to it and only calls into zlib once a full input buffer has
// accumulated, amortizing the compression call over many small content
// stream writes. Once the underlying zlib stream fails, Write becomes a
// permanent no-op and reports ok=false so callers can fall back to an
// uncompressed tail instead of corrupting the stream.
type FlateWriter struct {
	dst  io.Writer
	zw   *zlib.Writer
	in   bytes.Buffer
	out  bytes.Buffer
	fail error
}

// NewFlateWriter returns a FlateWriter that writes compressed output to dst
// at the given compression level (-1, 0, 1, 6, or 9; negative values map
// to -1, values above 9 to 9, and 2 through 8 to zlib's default level).
func NewFlateWriter(dst io.Writer, level int) *FlateWriter {
	fw := &FlateWriter{dst: dst}
	fw.out.Grow(deflateOutputBuffer)
	zw, err := zlib.NewWriterLevel(&fw.out, deflateLevel(level))
	if err != nil {
		// An invalid level never reaches here since deflateLevel always
		// returns one zlib accepts, but fail safe regardless.
		fw.fail = err
		return fw
	}
	fw.zw = zw
	fw.in.Grow(deflateInputBuffer)
	return fw
}

// Write buffers p and flushes to zlib whenever the input buffer fills. It
// reports ok=false once the stream has failed; no further bytes are
// accepted after that point.
func (fw *FlateWriter) Write(p []byte) (ok bool) {
	if fw.fail != nil {
		return false
	}
	for len(p) > 0 {
		n := deflateInputBuffer - fw.in.Len()
		if n > len(p) {
			n = len(p)
		}
		fw.in.Write(p[:n])
		p = p[n:]
		if fw.in.Len() >= deflateInputBuffer {
			if !fw.flushInput() {
				return false
			}
		}
	}
	return true
}

// flushInput hands the buffered input bytes to zlib and drains whatever
// compressed output that produced to dst.
func (fw *FlateWriter) flushInput() bool {
	if fw.in.Len() > 0 {
		if _, err := fw.zw.Write(fw.in.Bytes()); err != nil {
			fw.fail = err
			return false
		}
		fw.in.Reset()
	}
	return fw.drainOutput()
}

func (fw *FlateWriter) drainOutput() bool {
	if fw.out.Len() == 0 {
		return true
	}
	if _, err := fw.dst.Write(fw.out.Bytes()); err != nil {
		fw.fail = err
		return false
	}
	fw.out.Reset()
	return true
}

// Finalize issues Z_FINISH, flushing all remaining buffered and internal
// zlib state to dst. It reports ok=false if the stream had already failed
// or fails while finalizing.
func (fw *FlateWriter) Finalize() (ok bool) {
	if fw.fail != nil {
		return false
	}
	if !fw.flushInput() {
		return false
	}
	if err := fw.zw.Close(); err != nil {
		fw.fail = err
		return false
	}
	return fw.drainOutput()
}

// Failed reports whether the stream has transitioned to the failed state,
// in which case all writes since the failure were silently dropped.
func (fw *FlateWriter) Failed() bool {
	return fw.fail != nil
}
