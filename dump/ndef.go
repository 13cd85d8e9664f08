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

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	ndef "github.com/hsanjuan/go-ndef"
)

// NDEF Message TLV type byte per NFC Forum Type 2 Tag specification.
const tlvTypeNDEF = 0x03

// NDEF record header flag bits.
const (
	flagMessageBegin = 0x80
	flagMessageEnd   = 0x40
	flagShortRecord  = 0x10
	flagIDLength     = 0x08
	maskTNF          = 0x07
)

// tnfNames maps the 3-bit Type Name Format field to its name.
var tnfNames = [8]string{
	"Empty",
	"Well-Known",
	"MIME Media",
	"Absolute URI",
	"External",
	"Unknown",
	"Unchanged",
	"Reserved",
}

// decodeNDEF scans the data area for an NDEF Message TLV and, if present,
// decodes the first record. The scan window starts after the header pages
// (offset 16) and is bounded to the first 100 bytes; dumps with NDEF
// further in are out of scope for this heuristic.
func decodeNDEF(buf []byte, d *Details) {
	limit := len(buf) - 2
	if limit > 100 {
		limit = 100
	}
	for i := 16; i < limit; i++ {
		if buf[i] != tlvTypeNDEF {
			continue
		}
		d.HasNDEF = true
		d.NDEFOffset = i
		d.NDEFLength = int(buf[i+1])
		d.NDEF = parseNDEFRecord(buf[i+2:])
		enrichNDEFMessage(buf, i, d)
		return
	}
}

// parseNDEFRecord decodes one NDEF record header: MB/ME/SR flags, the
// 3-bit TNF, then type and payload. The payload is opportunistically
// UTF-8 decoded; on failure it remains available as hex only.
func parseNDEFRecord(data []byte) *NDEFRecord {
	if len(data) < 3 {
		return nil
	}
	header := data[0]
	rec := &NDEFRecord{
		TypeNameFormat:     header & maskTNF,
		TypeNameFormatName: tnfNames[header&maskTNF],
		MessageBegin:       header&flagMessageBegin != 0,
		MessageEnd:         header&flagMessageEnd != 0,
		ShortRecord:        header&flagShortRecord != 0,
	}

	typeLen := int(data[1])
	idx := 2

	var payloadLen int
	if rec.ShortRecord {
		payloadLen = int(data[idx])
		idx++
	} else {
		if len(data) < idx+4 {
			return rec
		}
		payloadLen = int(binary.BigEndian.Uint32(data[idx:]))
		idx += 4
	}

	idLen := 0
	if header&flagIDLength != 0 {
		if len(data) <= idx {
			return rec
		}
		idLen = int(data[idx])
		idx++
	}

	if len(data) < idx+typeLen {
		return rec
	}
	rec.Type = string(data[idx : idx+typeLen])
	idx += typeLen + idLen

	if len(data) < idx+payloadLen {
		return rec
	}
	payload := data[idx : idx+payloadLen]
	rec.PayloadHex = strings.ToUpper(hex.EncodeToString(payload))
	if utf8.Valid(payload) {
		rec.PayloadText = string(payload)
	}
	return rec
}

// enrichNDEFMessage attempts a full-message parse of the TLV payload with
// the go-ndef library. This is best-effort: a short or non-standard TLV
// region simply leaves the field empty.
func enrichNDEFMessage(buf []byte, tlvOffset int, d *Details) {
	start := tlvOffset + 2
	end := start + d.NDEFLength
	if end > len(buf) {
		return
	}
	msg := &ndef.Message{}
	if _, err := msg.Unmarshal(buf[start:end]); err != nil {
		return
	}
	d.NDEF.Message = msg.String()
}
