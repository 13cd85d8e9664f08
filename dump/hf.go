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
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	pageSize  = 4
	blockSize = 16

	// cascadeTag marks a 7-byte UID; the marker is retained in the
	// extracted UID for context.
	cascadeTag = 0x88
)

// manufacturers maps the first UID byte of a MIFARE Classic image to the
// chip vendor.
var manufacturers = map[byte]string{
	0x04: "NXP Semiconductors",
	0x02: "STMicroelectronics",
	0x57: "Nationz",
	0x1D: "Fudan Microelectronics",
}

func decodeHF(buf []byte, family Family, d *Details) {
	decodeUID(buf, d)

	switch family {
	case FamilyNTAG, FamilyUltralight, FamilyGenericHF:
		d.PageSize = pageSize
		d.TotalPages = len(buf) / pageSize
		decodeCapabilityContainer(buf, d)
		decodeLockBytes(buf, d)
	case FamilyMIFAREClassic:
		d.BlockSize = blockSize
		d.TotalBlocks = len(buf) / blockSize
		d.Sectors = d.TotalBlocks / 4
		if name, ok := manufacturers[buf[0]]; ok {
			d.Manufacturer = name
		} else {
			d.Manufacturer = "Unknown"
		}
		decodeSectorTrailers(buf, d)
	}

	decodeNDEF(buf, d)
}

// decodeUID extracts the UID: a leading cascade-tag byte means an 8-byte
// representation (7-byte UID with the marker retained), otherwise 4 bytes.
func decodeUID(buf []byte, d *Details) {
	if buf[0] == cascadeTag && len(buf) >= 8 {
		d.UID = append([]byte(nil), buf[:8]...)
	} else if len(buf) >= 4 {
		d.UID = append([]byte(nil), buf[:4]...)
	} else {
		return
	}
	parts := make([]string, len(d.UID))
	for i, b := range d.UID {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	d.UIDHex = strings.Join(parts, ":")
}

// decodeCapabilityContainer parses NTAG CC bytes 12..15.
func decodeCapabilityContainer(buf []byte, d *Details) {
	if len(buf) < 16 {
		return
	}
	cc := buf[12:16]
	d.CapabilityContainer = &CapabilityContainer{
		Raw:        strings.ToUpper(hex.EncodeToString(cc)),
		Magic:      cc[0],
		Version:    fmt.Sprintf("%d.%d", cc[1]>>4, cc[1]&0x0F),
		MemorySize: int(cc[2]) * 8,
		ReadWrite:  ccAccess(cc[3]),
	}
}

func ccAccess(b byte) string {
	switch {
	case b == 0x00:
		return "Read/Write"
	case b&0x0F == 0x0F:
		return "Read Only"
	default:
		return fmt.Sprintf("0x%02X", b)
	}
}

// decodeLockBytes reads the static lock bytes at 10..11.
func decodeLockBytes(buf []byte, d *Details) {
	if len(buf) < 12 {
		return
	}
	d.LockBytes = strings.ToUpper(hex.EncodeToString(buf[10:12]))
	d.IsLocked = buf[10] != 0 || buf[11] != 0
}

// decodeSectorTrailers decodes every complete sector's trailer block (the
// 4th block of each sector) into its key and access fields.
func decodeSectorTrailers(buf []byte, d *Details) {
	for block := 3; (block+1)*blockSize <= len(buf); block += 4 {
		trailer := buf[block*blockSize : (block+1)*blockSize]
		d.SectorTrailers = append(d.SectorTrailers, SectorTrailer{
			Sector:     block / 4,
			KeyA:       strings.ToUpper(hex.EncodeToString(trailer[0:6])),
			AccessBits: strings.ToUpper(hex.EncodeToString(trailer[6:10])),
			KeyB:       strings.ToUpper(hex.EncodeToString(trailer[10:16])),
		})
	}
}
