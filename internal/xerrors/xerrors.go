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

// Package xerrors provides the small set of error-wrapping helpers shared by
// every rendergo package, mirroring the wrap-with-operation-name style the
// PDF object model uses for malformed-input reporting.
package xerrors

import (
	"errors"
	"fmt"
)

// Wrap annotates err with the operation that failed. A nil err returns nil,
// so callers can write `return xerrors.Wrap(err, "op")` unconditionally.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// MalformedInput indicates that caller-supplied data violated an invariant
// that is recoverable by returning an error rather than panicking (empty
// point lists, degenerate rectangles, mismatched array lengths).
type MalformedInput struct {
	Where string
	Err   error
}

func (e *MalformedInput) Error() string {
	if e.Err != nil {
		return e.Where + ": " + e.Err.Error()
	}
	return e.Where + ": malformed input"
}

func (e *MalformedInput) Unwrap() error { return e.Err }

// New wraps a plain message as a MalformedInput at the given site.
func New(where, msg string) error {
	return &MalformedInput{Where: where, Err: errors.New(msg)}
}
