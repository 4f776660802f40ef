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

// Package arena implements a block-growth bump allocator for short-lived
// placement objects, together with non-owning handles (Cell/Array) into it.
// Go has no placement-new and the garbage collector already reclaims memory,
// so the handles here exist purely to express "this value lives inside a
// particular arena generation" — Reset/Clear drop the handle's validity, they
// never free anything by hand.
package arena

import (
	"math"
	"sync"
)

const (
	// DefaultInitBlockSize matches the constructor default of the allocator
	// this package is a port of.
	DefaultInitBlockSize = 256
	// DefaultMaxBlockSize means "no limit": blocks keep doubling to satisfy
	// whatever is requested.
	DefaultMaxBlockSize = math.MaxInt
)

type block struct {
	data   []byte
	offset int
}

// Allocator allocates byte ranges from a growing list of blocks, doubling
// the block size (capped at maxBlockSize) each time the current block can't
// satisfy a request. It is safe for concurrent use: Allocate/Clear/Release
// all hold the same mutex, and AddReference/the returned Ref's Release use a
// sync.Cond so a caller can block until every outstanding reference to a
// detached block has been dropped before reusing or discarding memory.
type Allocator struct {
	mu   sync.Mutex
	cond sync.Cond

	blocks             []block
	initBlockSize      int
	maxBlockSize       int
	currentBlockIndex  int
	usedSize           int
	outstandingRefs    int
}

// New returns an Allocator with the given initial block size and no maximum.
func New(initBlockSize int) *Allocator {
	return NewWithLimit(initBlockSize, DefaultMaxBlockSize)
}

// NewWithLimit returns an Allocator whose blocks never grow past maxBlockSize
// (a single allocation larger than that still gets its own dedicated block).
func NewWithLimit(initBlockSize, maxBlockSize int) *Allocator {
	if initBlockSize <= 0 {
		initBlockSize = DefaultInitBlockSize
	}
	a := &Allocator{initBlockSize: initBlockSize, maxBlockSize: maxBlockSize}
	a.cond.L = &a.mu
	return a
}

func nextBlockSize(current, max int) int {
	doubled := current * 2
	if doubled > max || doubled <= 0 {
		return max
	}
	return doubled
}

// Allocate returns a zeroed byte slice of the requested size, carved out of
// the current block (or a freshly grown/dedicated one). It never returns
// nil; size <= 0 returns an empty, non-nil slice.
func (a *Allocator) Allocate(size int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if size <= 0 {
		return make([]byte, 0)
	}
	a.ensureBlock(size)
	b := &a.blocks[a.currentBlockIndex]
	out := b.data[b.offset : b.offset+size : b.offset+size]
	b.offset += size
	a.usedSize += size
	return out
}

func (a *Allocator) ensureBlock(size int) {
	if len(a.blocks) > 0 {
		cur := &a.blocks[a.currentBlockIndex]
		if cur.offset+size <= len(cur.data) {
			return
		}
	}
	// A request that alone exceeds maxBlockSize gets an exact-size block of
	// its own, inserted as the new current block without disturbing growth.
	if size > a.maxBlockSize {
		a.blocks = append(a.blocks, block{data: make([]byte, size)})
		a.currentBlockIndex = len(a.blocks) - 1
		return
	}
	next := a.initBlockSize
	if len(a.blocks) > 0 {
		next = nextBlockSize(len(a.blocks[a.currentBlockIndex].data), a.maxBlockSize)
	}
	for next < size {
		next = nextBlockSize(next, a.maxBlockSize)
	}
	a.blocks = append(a.blocks, block{data: make([]byte, next)})
	a.currentBlockIndex = len(a.blocks) - 1
}

// Size returns the total number of bytes handed out since the last Clear.
func (a *Allocator) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usedSize
}

// CurrentBlock returns the bytes used so far in the block currently being
// filled, for diagnostics and tests.
func (a *Allocator) CurrentBlock() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.blocks) == 0 {
		return nil
	}
	b := &a.blocks[a.currentBlockIndex]
	return b.data[:b.offset]
}

// Clear resets the allocator to its empty state, reusing blocks whose size
// is <= maxReuseSize and dropping the rest. Use math.MaxInt to keep every
// block.
func (a *Allocator) Clear(maxReuseSize int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.blocks[:0]
	for _, b := range a.blocks {
		if len(b.data) > maxReuseSize {
			continue
		}
		b.offset = 0
		kept = append(kept, b)
	}
	a.blocks = kept
	a.currentBlockIndex = 0
	a.usedSize = 0
}

// Data is the detached result of Release: the allocator's former blocks,
// kept alive for as long as the holder needs them.
type Data struct {
	blocks [][]byte
}

// ShrinkLastBlockTo truncates the last block to newSize bytes and returns it.
func (d *Data) ShrinkLastBlockTo(newSize int) []byte {
	if len(d.blocks) == 0 {
		return nil
	}
	last := d.blocks[len(d.blocks)-1]
	if newSize > len(last) {
		newSize = len(last)
	}
	d.blocks[len(d.blocks)-1] = last[:newSize]
	return d.blocks[len(d.blocks)-1]
}

// Release detaches the allocator's blocks into a Data and resets the
// allocator to empty. Returns nil if the allocator currently holds nothing.
func (a *Allocator) Release() *Data {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.blocks) == 0 {
		return nil
	}
	out := make([][]byte, len(a.blocks))
	for i, b := range a.blocks {
		out[i] = b.data[:b.offset]
	}
	a.blocks = nil
	a.currentBlockIndex = 0
	a.usedSize = 0
	return &Data{blocks: out}
}

// Ref is a reference-counting handle returned by AddReference. Asynchronous
// work that outlives the call stack holding the Allocator should hold a Ref
// for as long as it touches memory carved from it, and call Release exactly
// once when done.
type Ref struct {
	a *Allocator
}

// AddReference registers one more outstanding user of this allocator's
// memory and returns a handle to release later. Wait blocks until every Ref
// returned this way has been released.
func (a *Allocator) AddReference() *Ref {
	a.mu.Lock()
	a.outstandingRefs++
	a.mu.Unlock()
	return &Ref{a: a}
}

// Release drops this reference. Calling it more than once is a programmer
// error; the Ref does not record that it was released, so the call panics
// only when the allocator's count of outstanding references is already
// zero.
func (r *Ref) Release() {
	a := r.a
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.outstandingRefs == 0 {
		panic("arena: Ref released more times than it was acquired")
	}
	a.outstandingRefs--
	if a.outstandingRefs == 0 {
		a.cond.Broadcast()
	}
}

// Wait blocks until every Ref handed out by AddReference has been released.
// Call this before reusing or discarding memory that concurrent goroutines
// might still be reading through a Ref.
func (a *Allocator) Wait() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for a.outstandingRefs > 0 {
		a.cond.Wait()
	}
}
