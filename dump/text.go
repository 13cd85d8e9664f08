// go-chameleon
// Copyright (c) 2025 The go-chameleon Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-chameleon.
//
// go-chameleon is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-chameleon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-chameleon; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package dump

// minTextRunLength is the shortest printable run worth reporting.
const minTextRunLength = 4

// ExtractText scans buf for maximal runs of printable ASCII (0x20-0x7E)
// of at least 4 characters. Purely heuristic and independent of tag
// family.
func ExtractText(buf []byte) []string {
	var (
		out   []string
		start = -1
	)
	for i, b := range buf {
		printable := b >= 0x20 && b <= 0x7E
		if printable {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minTextRunLength {
			out = append(out, string(buf[start:i]))
		}
		start = -1
	}
	if start >= 0 && len(buf)-start >= minTextRunLength {
		out = append(out, string(buf[start:]))
	}
	return out
}
