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

// Frequency is the inferred radio frequency band of a tag image.
type Frequency string

const (
	// FrequencyHF is 13.56 MHz (NTAG, MIFARE).
	FrequencyHF Frequency = "HF"
	// FrequencyLF is 125 kHz (EM410x, T5577, HID Prox).
	FrequencyLF Frequency = "LF"
	// FrequencyUnknown is reported when no heuristic matched.
	FrequencyUnknown Frequency = "Unknown"
)

// Family groups tag types that share a memory layout.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyNTAG
	FamilyUltralight
	FamilyMIFAREClassic
	FamilyEM410x
	FamilyT5577
	FamilyHIDProx
	FamilyGenericHF
	FamilyGenericLF
)

// Classification is the best-effort identification of a tag image. It is
// never an error: unknown layouts degrade to FamilyUnknown with confidence
// zero.
type Classification struct {
	TagType    string
	Frequency  Frequency
	Family     Family
	Confidence int
}

// Report is the full analysis of one tag memory image.
type Report struct {
	Details      *Details  `json:"details,omitempty"`
	TagType      string    `json:"tagType"`
	Frequency    Frequency `json:"frequency"`
	Data         []byte    `json:"data,omitempty"`
	FileSize     int       `json:"fileSize"`
	FileSizeBits int       `json:"fileSizeBits"`
	Confidence   int       `json:"confidence"`
}

// Details holds the family-specific structured fields of a report. Only
// the fields relevant to the classified family are populated.
type Details struct {
	CapabilityContainer *CapabilityContainer `json:"capabilityContainer,omitempty"`
	NDEF                *NDEFRecord          `json:"ndef,omitempty"`
	UIDHex              string               `json:"uidHex,omitempty"`
	Manufacturer        string               `json:"manufacturer,omitempty"`
	LockBytes           string               `json:"lockBytes,omitempty"`
	IDHex               string               `json:"idHex,omitempty"`
	IDDecimal           string               `json:"idDecimal,omitempty"`
	UID                 []byte               `json:"uid,omitempty"`
	SectorTrailers      []SectorTrailer      `json:"sectorTrailers,omitempty"`
	ExtractedText       []string             `json:"extractedText,omitempty"`
	T5577Blocks         []T5577Block         `json:"blocks,omitempty"`
	PageSize            int                  `json:"pageSize,omitempty"`
	TotalPages          int                  `json:"totalPages,omitempty"`
	BlockSize           int                  `json:"blockSize,omitempty"`
	TotalBlocks         int                  `json:"totalBlocks,omitempty"`
	Sectors             int                  `json:"sectors,omitempty"`
	NDEFOffset          int                  `json:"ndefOffset,omitempty"`
	NDEFLength          int                  `json:"ndefLength,omitempty"`
	Version             byte                 `json:"version,omitempty"`
	CustomerID          byte                 `json:"customerId,omitempty"`
	IsLocked            bool                 `json:"isLocked,omitempty"`
	HasNDEF             bool                 `json:"hasNDEF"`
}

// CapabilityContainer is the decoded NTAG capability container (bytes
// 12..15 of the image).
type CapabilityContainer struct {
	Raw        string `json:"raw"`
	Version    string `json:"version"`
	ReadWrite  string `json:"readWrite"`
	Magic      byte   `json:"magic"`
	MemorySize int    `json:"memorySize"`
}

// NDEFRecord is one decoded NDEF record header plus payload.
type NDEFRecord struct {
	TypeNameFormatName string `json:"typeNameFormatName"`
	Type               string `json:"type,omitempty"`
	PayloadText        string `json:"payloadText,omitempty"`
	PayloadHex         string `json:"payloadHex,omitempty"`
	Message            string `json:"message,omitempty"`
	TypeNameFormat     byte   `json:"typeNameFormat"`
	MessageBegin       bool   `json:"messageBegin"`
	MessageEnd         bool   `json:"messageEnd"`
	ShortRecord        bool   `json:"shortRecord"`
}

// SectorTrailer is the decoded trailer block of one MIFARE Classic sector.
type SectorTrailer struct {
	KeyA       string `json:"keyA"`
	AccessBits string `json:"accessBits"`
	KeyB       string `json:"keyB"`
	Sector     int    `json:"sector"`
}

// T5577Block is one raw 33-byte block of a T5577 image.
type T5577Block struct {
	Hex   string `json:"hex"`
	Block int    `json:"block"`
	Size  int    `json:"size"`
}
