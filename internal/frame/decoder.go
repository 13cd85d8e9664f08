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

import "encoding/binary"

// Decoder incrementally recovers frames from an unaligned byte stream.
//
// BLE notifications and serial reads deliver data in arbitrary chunks that
// are not frame-aligned and may interleave noise. The decoder buffers
// inbound bytes and, on any validation failure, drops exactly one leading
// byte before retrying so that a valid frame starting one byte later is
// never lost.
//
// Decoder is not safe for concurrent use. Feed must be called from a single
// goroutine (the transport's data-arrival callback).
type Decoder struct {
	onFrame func(Frame)
	buf     []byte
	dropped uint64
}

// NewDecoder returns a decoder that calls onFrame for every validated frame.
func NewDecoder(onFrame func(Frame)) *Decoder {
	return &Decoder{onFrame: onFrame}
}

// Dropped returns the number of bytes discarded during resynchronization.
// Diagnostic only; corruption is never surfaced as an error.
func (d *Decoder) Dropped() uint64 {
	return d.dropped
}

// Buffered returns the number of bytes waiting for more data.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Reset discards all buffered bytes. Called when a transport reconnects so
// stale partial frames cannot bleed into the new session.
func (d *Decoder) Reset() {
	d.buf = nil
}

// Feed appends chunk to the internal buffer and emits every complete,
// checksum-valid frame it now contains.
func (d *Decoder) Feed(chunk []byte) {
	d.buf = append(d.buf, chunk...)

	for len(d.buf) > 0 {
		if len(d.buf) < HeaderLength {
			return // wait for the rest of the header
		}
		if d.buf[0] != SOF || !ValidateLRC(d.buf[:offLRC1], d.buf[offLRC1]) {
			d.dropByte()
			continue
		}

		dataLen := int(binary.BigEndian.Uint16(d.buf[offLen:]))
		total := HeaderLength + dataLen + 1
		if len(d.buf) < total {
			return // wait for the rest of the frame
		}
		if !ValidateLRC(d.buf[:offLRC2], d.buf[offLRC2]) {
			d.dropByte()
			continue
		}
		if !ValidateLRC(d.buf[:HeaderLength+dataLen], d.buf[HeaderLength+dataLen]) {
			d.dropByte()
			continue
		}

		f := Frame{
			Cmd:    binary.BigEndian.Uint16(d.buf[offCmd:]),
			Status: binary.BigEndian.Uint16(d.buf[offStatus:]),
			Data:   append([]byte(nil), d.buf[offData:offData+dataLen]...),
		}
		d.buf = d.buf[total:]
		if d.onFrame != nil {
			d.onFrame(f)
		}
	}
}

func (d *Decoder) dropByte() {
	d.buf = d.buf[1:]
	d.dropped++
}
