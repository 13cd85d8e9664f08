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

import (
	"encoding/binary"
	"fmt"
)

// Frame is one validated unit of the device protocol.
type Frame struct {
	Data   []byte
	Cmd    uint16
	Status uint16
}

// Encode builds the wire representation of a frame:
//
//	SOF(1) | LRC1(1) | CMD(2) | STATUS(2) | LEN(2) | LRC2(1) | DATA | LRC3(1)
//
// Multi-byte fields are big-endian. LRC1 covers the SOF byte, LRC2 covers
// everything up to and including LEN, LRC3 covers the whole frame through
// DATA. Returns an error if data exceeds MaxDataLength.
func Encode(cmd, status uint16, data []byte) ([]byte, error) {
	if len(data) > MaxDataLength {
		return nil, fmt.Errorf("frame data length %d exceeds maximum %d", len(data), MaxDataLength)
	}

	buf := make([]byte, HeaderLength+len(data)+1)
	buf[0] = SOF
	buf[offLRC1] = CalculateLRC(buf[:offLRC1])
	binary.BigEndian.PutUint16(buf[offCmd:], cmd)
	binary.BigEndian.PutUint16(buf[offStatus:], status)
	binary.BigEndian.PutUint16(buf[offLen:], uint16(len(data)))
	buf[offLRC2] = CalculateLRC(buf[:offLRC2])
	copy(buf[offData:], data)
	buf[HeaderLength+len(data)] = CalculateLRC(buf[:HeaderLength+len(data)])
	return buf, nil
}
