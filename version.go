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

import "fmt"

// Version identifies a PDF file format version.
type Version int

const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

var versionStrings = []string{"1.0", "1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "2.0"}

// ParseVersion parses a PDF version string such as "1.7".
func ParseVersion(s string) (Version, error) {
	for i, v := range versionStrings {
		if v == s {
			return Version(i), nil
		}
	}
	return 0, fmt.Errorf("pdf: invalid version %q", s)
}

// ToString returns the version in the "x.y" form used in the file header.
func (v Version) ToString() (string, error) {
	if v < 0 || int(v) >= len(versionStrings) {
		return "", fmt.Errorf("pdf: invalid version %d", int(v))
	}
	return versionStrings[v], nil
}

func (v Version) String() string {
	s, err := v.ToString()
	if err != nil {
		return "invalid"
	}
	return s
}
