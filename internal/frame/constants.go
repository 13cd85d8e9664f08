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

// Package frame implements the Chameleon Ultra binary frame format and a
// streaming decoder that recovers frames from an unaligned byte stream.
package frame

// Frame markers and layout constants
const (
	// SOF is the start-of-frame marker byte. This is a compatibility
	// contract with the device firmware and must not change.
	SOF = 0x11

	// HeaderLength is the fixed frame prefix:
	// SOF(1) + LRC1(1) + CMD(2) + STATUS(2) + LEN(2) + LRC2(1)
	HeaderLength = 9

	// MaxDataLength is the maximum payload carried by one frame.
	MaxDataLength = 4096

	// MinFrameLength is an empty frame: header plus trailing LRC3.
	MinFrameLength = HeaderLength + 1
)

// Header field offsets within an encoded frame.
const (
	offLRC1   = 1
	offCmd    = 2
	offStatus = 4
	offLen    = 6
	offLRC2   = 8
	offData   = 9
)
