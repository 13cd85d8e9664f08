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
	em410xIDLength  = 5
	t5577BlockCount = 8
	t5577BlockSize  = 33
)

func decodeLF(buf []byte, family Family, d *Details) {
	switch family {
	case FamilyEM410x:
		decodeEM410x(buf, d)
	case FamilyT5577:
		decodeT5577(buf, d)
	}
}

// decodeEM410x splits the 5-byte image into the version/customer selector
// byte and the big-endian 32-bit ID, producing both hex and decimal
// representations.
func decodeEM410x(buf []byte, d *Details) {
	if len(buf) != em410xIDLength {
		return
	}
	d.Version = buf[0]
	d.CustomerID = buf[0]

	id := buf[1:5]
	d.IDHex = strings.ToUpper(hex.EncodeToString(id))

	// Decimal form: each ID byte zero-padded to 3 digits, comma-joined.
	parts := make([]string, len(id))
	for i, b := range id {
		parts[i] = fmt.Sprintf("%03d", b)
	}
	d.IDDecimal = strings.Join(parts, ",")
}

// decodeT5577 chunks the image into its 8 blocks of 33 bytes, emitted
// verbatim as hex. Page programming semantics are out of scope.
func decodeT5577(buf []byte, d *Details) {
	if len(buf) != t5577BlockCount*t5577BlockSize {
		return
	}
	for i := 0; i < t5577BlockCount; i++ {
		block := buf[i*t5577BlockSize : (i+1)*t5577BlockSize]
		d.T5577Blocks = append(d.T5577Blocks, T5577Block{
			Block: i,
			Size:  t5577BlockSize,
			Hex:   strings.ToUpper(hex.EncodeToString(block)),
		})
	}
}
