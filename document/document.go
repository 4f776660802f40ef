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

// Package document builds a complete PDF file on top of [pdf.Writer]: the
// page lifecycle (BeginPage/EndPage/Close/Abort), the page tree, and the
// cross-reference table and trailer that [pdf.Writer] itself knows nothing
// about.
package document

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"

	"seehuhn.de/go/geom/matrix"

	"github.com/rendergo/rendergo"
	"github.com/rendergo/rendergo/graphics"
)

// maxKids is the maximum number of direct children of a page tree node.
// Trees deeper than one level use intermediate nodes so that no single
// node's Kids array grows without bound.
const maxKids = 8

// state is the document's position in the page lifecycle.
type state int

const (
	// BetweenPages is the state right after New and right after
	// EndPage: no page is currently open.
	BetweenPages state = iota
	// InPage is the state between BeginPage and EndPage/Abort.
	InPage
	// Closed is the state after Close or Abort: the document is finished
	// and no further calls are allowed.
	Closed
)

type pageInfo struct {
	ref           pdf.Reference
	width, height float64
}

// Document assembles a single PDF file. It is not safe for concurrent use.
type Document struct {
	pw   *pdf.Writer
	e    *pdf.EmbedHelper
	info pdf.Info
	lang string
	id   [2][]byte

	state state
	pages []pageInfo

	cur     *graphics.ExportContext
	curRef  pdf.Reference
	curInit matrix.Matrix
}

// Options configures optional document-level metadata.
type Options struct {
	Version pdf.Version
	Info    pdf.Info
	Lang    string
	ID      [2][]byte // if unset, derived from the file's own content
}

// New starts writing a PDF file to w.
func New(w io.Writer, opts *Options) (*Document, error) {
	v := pdf.V1_7
	d := &Document{}
	if opts != nil {
		if opts.Version != 0 {
			v = opts.Version
		}
		d.info = opts.Info
		d.lang = opts.Lang
		d.id = opts.ID
	}

	pw, err := pdf.NewWriter(w, v)
	if err != nil {
		return nil, err
	}
	d.pw = pw
	d.e = pdf.NewEmbedHelper(pw)
	return d, nil
}

// BeginPage opens a new page of the given size (in PDF points) and returns
// an export context ready to accept drawing calls. If a page is already
// open it is closed first, as if EndPage had been called explicitly. If
// contentRect is non-nil, it is intersected into the page's initial clip
// and drawing coordinates are translated so (0,0) is contentRect's lower
// left corner.
func (d *Document) BeginPage(width, height float64, contentRect *pdf.Rectangle) (*graphics.ExportContext, error) {
	if d.state == Closed {
		return nil, errDocClosed
	}
	if width <= 0 || height <= 0 {
		return nil, errPageDimension
	}
	if d.state == InPage {
		if err := d.EndPage(); err != nil {
			return nil, err
		}
	}

	d.curRef = d.pw.Alloc()
	d.curInit = matrix.Identity
	d.cur = graphics.NewExportContext(d.e, width, height)

	if contentRect != nil {
		r := contentRect.Intersect(pdf.NewRectangle(0, 0, width, height))
		d.cur.ClipRect(pdf.NewRectangle(0, 0, r.Dx(), r.Dy()))
		d.curInit = matrix.Translate(r.LLx, r.LLy)
	}

	d.state = InPage
	d.pages = append(d.pages, pageInfo{ref: d.curRef, width: width, height: height})
	return d.cur, nil
}

// EndPage finalizes the currently open page, compressing and writing its
// content stream. It is a no-op if no page is open.
func (d *Document) EndPage() error {
	if d.state != InPage {
		return nil
	}
	ctx := d.cur
	if ctx.Err != nil {
		return ctx.Err
	}

	last := d.pages[len(d.pages)-1]

	dict := pdf.Dict{
		"Type":      pdf.Name("Page"),
		"MediaBox":  pdf.NewRectangle(0, 0, last.width, last.height),
		"Resources": ctx.ResourceDict(),
	}
	stm, err := d.e.OpenFlateStream(d.curRef, dict, 9)
	if err != nil {
		return err
	}
	if _, err := stm.Write(ctx.Content(d.curInit)); err != nil {
		stm.Close()
		return err
	}
	if err := stm.Close(); err != nil {
		return err
	}

	d.cur = nil
	d.state = BetweenPages
	return nil
}

// Abort discards whatever content has been written to the current page
// (it is never emitted) and transitions the document to Closed. The
// output written so far for earlier, already-finished pages remains in
// the underlying writer; Abort is for giving up on a document entirely,
// not for removing just the last page.
func (d *Document) Abort() error {
	if d.state == Closed {
		return nil
	}
	if d.state == InPage {
		d.pages = d.pages[:len(d.pages)-1]
	}
	d.cur = nil
	d.state = Closed
	return d.pw.Close()
}

// Close finishes the current page (if any), writes the page tree, the
// catalog, the cross-reference table and the trailer, and marks the
// document closed. Calling Close on a document with no pages writes a
// minimal, valid, empty PDF file.
func (d *Document) Close() error {
	if d.state == Closed {
		return errDocClosed
	}
	if d.state == InPage {
		if err := d.EndPage(); err != nil {
			return err
		}
	}

	pagesRef, err := d.writePageTree()
	if err != nil {
		return err
	}

	rootRef := d.pw.Alloc()
	catalog := pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": pagesRef,
	}
	if d.lang != "" {
		catalog["Lang"] = pdf.TextString(d.lang)
	}
	if err := d.pw.Put(rootRef, catalog); err != nil {
		return err
	}

	var infoRef pdf.Reference
	if infoDict := d.info.Dict(); len(infoDict) > 0 {
		infoRef = d.pw.Alloc()
		if err := d.pw.Put(infoRef, infoDict); err != nil {
			return err
		}
	}

	if err := d.writeXRefAndTrailer(rootRef, infoRef); err != nil {
		return err
	}

	d.state = Closed
	return d.pw.Close()
}

// writePageTree emits one or more /Pages nodes fanning out to no more than
// maxKids children each, and returns the reference to the root /Pages
// node. Leaf page objects were already written by EndPage; this only adds
// the intermediate nodes above them. Leaf pages are written without a
// /Parent entry.
func (d *Document) writePageTree() (pdf.Reference, error) {
	if len(d.pages) == 0 {
		root := d.pw.Alloc()
		err := d.pw.Put(root, pdf.Dict{
			"Type":  pdf.Name("Pages"),
			"Kids":  pdf.Array{},
			"Count": pdf.Integer(0),
		})
		return root, err
	}

	refs := make([]pdf.Reference, len(d.pages))
	counts := make([]int, len(d.pages))
	for i, p := range d.pages {
		refs[i] = p.ref
		counts[i] = 1
	}

	// Group at least once even for a single page: refs holds leaf Page
	// objects until the first pass, and the tree root must be a /Pages
	// node, never a bare Page.
	for first := true; first || len(refs) > 1; first = false {
		var nextRefs []pdf.Reference
		var nextCounts []int
		for i := 0; i < len(refs); i += maxKids {
			end := min(i+maxKids, len(refs))
			kids := make(pdf.Array, end-i)
			count := 0
			for j := i; j < end; j++ {
				kids[j-i] = refs[j]
				count += counts[j]
			}
			ref := d.pw.Alloc()
			if err := d.pw.Put(ref, pdf.Dict{
				"Type":  pdf.Name("Pages"),
				"Kids":  kids,
				"Count": pdf.Integer(count),
			}); err != nil {
				return 0, err
			}
			nextRefs = append(nextRefs, ref)
			nextCounts = append(nextCounts, count)
		}
		refs, counts = nextRefs, nextCounts
	}

	return refs[0], nil
}

// writeXRefAndTrailer emits the cross-reference table (the "nnnnnnnnnn
// 00000 n \n" / "...65535 f \n" classic format, not an xref stream) and
// trailer, then the startxref/%%EOF footer.
func (d *Document) writeXRefAndTrailer(rootRef, infoRef pdf.Reference) error {
	offsets := d.pw.Offsets()

	maxNum := uint32(0)
	for num := range offsets {
		if num > maxNum {
			maxNum = num
		}
	}
	size := maxNum + 1

	startxref := d.pw.Pos()

	var buf []byte
	buf = append(buf, "xref\n"...)
	buf = append(buf, fmt.Sprintf("0 %d\n", size)...)
	buf = append(buf, "0000000000 65535 f \n"...)
	for num := uint32(1); num < size; num++ {
		off, ok := offsets[num]
		if !ok {
			buf = append(buf, "0000000000 65535 f \n"...)
			continue
		}
		buf = append(buf, fmt.Sprintf("%010d 00000 n \n", off)...)
	}

	id := d.id
	if id[0] == nil {
		id = documentID(offsets, startxref, size)
	}

	trailer := pdf.Dict{
		"Size": pdf.Integer(size),
		"Root": rootRef,
		"ID":   pdf.Array{pdf.String(id[0]), pdf.String(id[1])},
	}
	if infoRef != 0 {
		trailer["Info"] = infoRef
	}

	var tbuf bytes.Buffer
	if err := trailer.PDF(&tbuf); err != nil {
		return err
	}

	buf = append(buf, "trailer\n"...)
	buf = append(buf, tbuf.Bytes()...)
	buf = append(buf, fmt.Sprintf("\nstartxref\n%d\n%%%%EOF\n", startxref)...)

	return d.pw.Raw(buf)
}

// documentID derives a pair of (identical, per the common convention for a
// freshly-created file) file identifiers from the object offsets, size and
// xref position, which are already fully determined by the time the
// trailer is written — giving a deterministic ID for identical document
// content without needing a source of randomness.
func documentID(offsets map[uint32]int64, startxref int64, size uint32) [2][]byte {
	h := md5.New()
	fmt.Fprintf(h, "%d %d", startxref, size)
	for num := uint32(0); num < size; num++ {
		fmt.Fprintf(h, " %d:%d", num, offsets[num])
	}
	sum := h.Sum(nil)
	return [2][]byte{sum, sum}
}
