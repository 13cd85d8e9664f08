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

// Analyze classifies buf and decodes every structured field the inferred
// family supports. The same input always yields the same report; the
// buffer is never mutated.
func Analyze(buf []byte) *Report {
	c := Classify(buf)
	rep := &Report{
		FileSize:     len(buf),
		FileSizeBits: len(buf) * 8,
		TagType:      c.TagType,
		Frequency:    c.Frequency,
		Confidence:   c.Confidence,
		Data:         append([]byte(nil), buf...),
	}
	if len(buf) == 0 {
		return rep
	}

	details := &Details{}
	switch c.Frequency {
	case FrequencyHF:
		decodeHF(buf, c.Family, details)
	case FrequencyLF:
		decodeLF(buf, c.Family, details)
	case FrequencyUnknown:
		// nothing family-specific to decode
	}

	// Text extraction is purely heuristic and independent of tag family.
	details.ExtractedText = ExtractText(buf)

	rep.Details = details
	return rep
}
