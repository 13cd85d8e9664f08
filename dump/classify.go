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

// Package dump classifies raw RFID tag memory images and decodes their
// family-specific structure: NTAG/MIFARE HF layouts, NDEF TLV records,
// EM410x and T5577 LF layouts.
//
// All functions are pure and total: classification is a best-effort
// heuristic over buffer length and content, never a validator. Unknown
// layouts degrade to FamilyUnknown with confidence zero instead of failing.
package dump

type geometry struct {
	tagType   string
	frequency Frequency
	family    Family
}

// exactGeometries maps known dump sizes to tag types. An exact size match
// classifies at confidence 90.
var exactGeometries = map[int]geometry{
	64:   {"MIFARE Ultralight", FrequencyHF, FamilyUltralight},
	192:  {"MIFARE Ultralight C", FrequencyHF, FamilyUltralight},
	180:  {"NTAG213", FrequencyHF, FamilyNTAG},
	540:  {"NTAG215", FrequencyHF, FamilyNTAG},
	924:  {"NTAG216", FrequencyHF, FamilyNTAG},
	320:  {"MIFARE Classic Mini", FrequencyHF, FamilyMIFAREClassic},
	1024: {"MIFARE Classic 1K", FrequencyHF, FamilyMIFAREClassic},
	2048: {"MIFARE Classic 2K", FrequencyHF, FamilyMIFAREClassic},
	4096: {"MIFARE Classic 4K", FrequencyHF, FamilyMIFAREClassic},
	264:  {"T5577", FrequencyLF, FamilyT5577},
	6:    {"HID Prox", FrequencyLF, FamilyHIDProx},
}

// Classify infers a tag type from buffer length and content. It never
// rejects input, only assigns decreasing confidence:
//
//	exactly 5 bytes            EM410x ID, confidence 95
//	exact geometry table match confidence 90
//	64..1024 bytes             generic HF, confidence 50
//	under 64 bytes             generic LF, confidence 50
//	anything else              Unknown, confidence 0
func Classify(buf []byte) Classification {
	n := len(buf)

	if n == 0 {
		return Classification{TagType: "Empty", Frequency: FrequencyUnknown, Family: FamilyUnknown}
	}
	if n == 5 {
		return Classification{TagType: "EM410x", Frequency: FrequencyLF, Family: FamilyEM410x, Confidence: 95}
	}
	if g, ok := exactGeometries[n]; ok {
		return Classification{TagType: g.tagType, Frequency: g.frequency, Family: g.family, Confidence: 90}
	}

	switch {
	case n >= 64 && n <= 1024:
		return Classification{TagType: "Generic HF", Frequency: FrequencyHF, Family: FamilyGenericHF, Confidence: 50}
	case n < 64:
		return Classification{TagType: "Generic LF", Frequency: FrequencyLF, Family: FamilyGenericLF, Confidence: 50}
	default:
		return Classification{TagType: "Unknown", Frequency: FrequencyUnknown, Family: FamilyUnknown}
	}
}
