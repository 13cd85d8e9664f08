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

package frame

// CalculateLRC computes the longitudinal redundancy check over data:
// the two's complement of the byte sum mod 256. Appending the result to
// the covered range makes the full-range sum zero.
func CalculateLRC(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return byte((0x100 - int(sum)) & 0xFF)
}

// ValidateLRC reports whether lrc is the correct checksum for data.
func ValidateLRC(data []byte, lrc byte) bool {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum+lrc == 0
}
