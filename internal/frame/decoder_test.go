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
	"bytes"
	"testing"
)

func collectFrames() (*Decoder, *[]Frame) {
	var frames []Frame
	d := NewDecoder(func(f Frame) {
		frames = append(frames, f)
	})
	return d, &frames
}

func mustEncode(t *testing.T, cmd, status uint16, data []byte) []byte {
	t.Helper()
	buf, err := Encode(cmd, status, data)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return buf
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		data   []byte
		cmd    uint16
		status uint16
	}{
		{name: "empty payload", cmd: 1025, status: 0x68, data: nil},
		{name: "single byte", cmd: 1003, status: 0, data: []byte{0x05}},
		{name: "battery response", cmd: 1025, status: 0x68, data: []byte{0x4C, 0x10, 0x62}},
		{name: "max command id", cmd: 0xFFFF, status: 0xFFFF, data: []byte{1, 2, 3, 4}},
		{name: "large payload", cmd: 4008, status: 0x68, data: bytes.Repeat([]byte{0xAB}, 512)},
		{name: "max payload", cmd: 4008, status: 0x68, data: bytes.Repeat([]byte{0x5A}, MaxDataLength)},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, frames := collectFrames()
			d.Feed(mustEncode(t, tt.cmd, tt.status, tt.data))

			if len(*frames) != 1 {
				t.Fatalf("decoded %d frames, want 1", len(*frames))
			}
			f := (*frames)[0]
			if f.Cmd != tt.cmd || f.Status != tt.status {
				t.Errorf("frame = {cmd:%d status:%#x}, want {cmd:%d status:%#x}", f.Cmd, f.Status, tt.cmd, tt.status)
			}
			if !bytes.Equal(f.Data, tt.data) && len(tt.data) != 0 {
				t.Errorf("frame data mismatch: got %d bytes", len(f.Data))
			}
			if d.Buffered() != 0 {
				t.Errorf("decoder kept %d bytes after a complete frame", d.Buffered())
			}
		})
	}
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	t.Parallel()
	if _, err := Encode(1000, 0, make([]byte, MaxDataLength+1)); err == nil {
		t.Fatal("Encode() accepted payload above MaxDataLength")
	}
}

func TestDecoderResyncAfterGarbage(t *testing.T) {
	t.Parallel()
	valid := mustEncode(t, 2000, 0x00, []byte{0x04, 0xDE, 0xAD, 0xBE, 0xEF})

	garbage := [][]byte{
		{0x00},
		{0xFF, 0x42, 0x13},
		{0x11, 0x11, 0x11}, // fake SOF bytes with bad LRC1
		bytes.Repeat([]byte{0xA5}, 64),
	}

	for _, g := range garbage {
		d, frames := collectFrames()
		d.Feed(append(append([]byte(nil), g...), valid...))

		if len(*frames) != 1 {
			t.Fatalf("garbage prefix %x: decoded %d frames, want 1", g, len(*frames))
		}
		if (*frames)[0].Cmd != 2000 {
			t.Errorf("garbage prefix %x: cmd = %d, want 2000", g, (*frames)[0].Cmd)
		}
		if d.Dropped() != uint64(len(g)) {
			t.Errorf("garbage prefix %x: dropped %d bytes, want exactly %d", g, d.Dropped(), len(g))
		}
	}
}

func TestDecoderRejectsCorruptedFrames(t *testing.T) {
	t.Parallel()
	valid := mustEncode(t, 1019, 0x68, []byte{0x01, 0x02, 0x03, 0x04})

	// Flip one bit at every non-checksum position; the decoder must not
	// emit the corrupted frame and must recover by advancing byte-by-byte.
	checksumPos := map[int]bool{
		offLRC1:        true,
		offLRC2:        true,
		len(valid) - 1: true,
	}
	for pos := 0; pos < len(valid); pos++ {
		if checksumPos[pos] {
			continue
		}
		corrupted := append([]byte(nil), valid...)
		corrupted[pos] ^= 0x01

		d, frames := collectFrames()
		d.Feed(corrupted)
		if len(*frames) != 0 {
			t.Errorf("bit flip at %d: corrupted frame was emitted", pos)
		}
	}
}

func TestDecoderChunkedDeliveryInvariance(t *testing.T) {
	t.Parallel()
	valid := mustEncode(t, 4012, 0x68, bytes.Repeat([]byte{0x77}, 128))

	chunkSizes := []int{1, 2, 3, 7, 20, 64}
	for _, size := range chunkSizes {
		d, frames := collectFrames()
		for off := 0; off < len(valid); off += size {
			end := off + size
			if end > len(valid) {
				end = len(valid)
			}
			d.Feed(valid[off:end])
		}

		if len(*frames) != 1 {
			t.Fatalf("chunk size %d: decoded %d frames, want 1", size, len(*frames))
		}
		if !bytes.Equal((*frames)[0].Data, valid[offData:offData+128]) {
			t.Errorf("chunk size %d: payload mismatch", size)
		}
	}
}

func TestDecoderMultipleFramesInOneChunk(t *testing.T) {
	t.Parallel()
	a := mustEncode(t, 1018, 0x68, []byte{0x03})
	b := mustEncode(t, 1025, 0x68, []byte{0x4C, 0x10, 0x62})

	d, frames := collectFrames()
	d.Feed(append(append([]byte(nil), a...), b...))

	if len(*frames) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(*frames))
	}
	if (*frames)[0].Cmd != 1018 || (*frames)[1].Cmd != 1025 {
		t.Errorf("frames out of order: %d, %d", (*frames)[0].Cmd, (*frames)[1].Cmd)
	}
}

func TestDecoderReset(t *testing.T) {
	t.Parallel()
	valid := mustEncode(t, 1000, 0x68, []byte{0x01})

	d, frames := collectFrames()
	d.Feed(valid[:4]) // partial frame
	d.Reset()
	d.Feed(valid)

	if len(*frames) != 1 {
		t.Fatalf("decoded %d frames after reset, want 1", len(*frames))
	}
	if d.Buffered() != 0 {
		t.Errorf("decoder kept %d bytes", d.Buffered())
	}
}
