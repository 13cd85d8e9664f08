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

// chamdump analyzes an RFID tag memory image and prints a structured
// report: inferred tag type, UID, capability container, NDEF records,
// sector keys, LF IDs, and a hex preview.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chameleon-toolbox/go-chameleon/dump"
)

const previewBytes = 256

func main() {
	jsonOut := flag.Bool("json", false, "Print the report as JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: chamdump [-json] <dump.bin>")
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "chamdump: %v\n", err)
		os.Exit(1)
	}

	report := dump.Analyze(data)
	if *jsonOut {
		printJSON(report)
		return
	}
	printReport(report)
}

func printJSON(r *dump.Report) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		fmt.Fprintf(os.Stderr, "chamdump: %v\n", err)
		os.Exit(1)
	}
}

func printReport(r *dump.Report) {
	fmt.Println("RFID DUMP ANALYSIS")
	fmt.Println("==================")
	fmt.Printf("File Size:  %d bytes (%d bits)\n", r.FileSize, r.FileSizeBits)
	fmt.Printf("Frequency:  %s\n", r.Frequency)
	fmt.Printf("Tag Type:   %s\n", r.TagType)
	fmt.Printf("Confidence: %d%%\n", r.Confidence)

	if r.Details != nil {
		printDetails(r.Details)
	}
	if len(r.Data) > 0 {
		printHexPreview(r.Data)
	}
}

func printDetails(d *dump.Details) {
	if d.UIDHex != "" {
		fmt.Printf("\nUID:          %s (%d bytes)\n", d.UIDHex, len(d.UID))
	}
	if d.Manufacturer != "" {
		fmt.Printf("Manufacturer: %s\n", d.Manufacturer)
	}
	if d.TotalPages > 0 {
		fmt.Printf("Memory:       %d pages of %d bytes\n", d.TotalPages, d.PageSize)
	}
	if d.TotalBlocks > 0 {
		fmt.Printf("Memory:       %d blocks of %d bytes, %d sectors\n", d.TotalBlocks, d.BlockSize, d.Sectors)
	}

	if cc := d.CapabilityContainer; cc != nil {
		fmt.Printf("\nCapability Container\n")
		fmt.Printf("  Raw:     %s\n", cc.Raw)
		fmt.Printf("  Magic:   0x%02X\n", cc.Magic)
		fmt.Printf("  Version: %s\n", cc.Version)
		fmt.Printf("  Memory:  %d bytes\n", cc.MemorySize)
		fmt.Printf("  Access:  %s\n", cc.ReadWrite)
	}

	if d.LockBytes != "" {
		state := "Unlocked"
		if d.IsLocked {
			state = "Locked"
		}
		fmt.Printf("\nLock Bytes: %s (%s)\n", d.LockBytes, state)
	}

	printNDEF(d)

	if len(d.SectorTrailers) > 0 {
		fmt.Printf("\nSector Trailers\n")
		for _, trailer := range d.SectorTrailers {
			fmt.Printf("  Sector %2d: KeyA=%s Access=%s KeyB=%s\n",
				trailer.Sector, trailer.KeyA, trailer.AccessBits, trailer.KeyB)
		}
	}

	if d.IDHex != "" {
		fmt.Printf("\nEM410x ID\n")
		fmt.Printf("  Hex:      %s\n", d.IDHex)
		fmt.Printf("  Decimal:  %s\n", d.IDDecimal)
		fmt.Printf("  Version:  0x%02X\n", d.Version)
	}

	if len(d.T5577Blocks) > 0 {
		fmt.Printf("\nT5577 Blocks\n")
		for _, block := range d.T5577Blocks {
			fmt.Printf("  Block %d (%d bytes): %s\n", block.Block, block.Size, block.Hex)
		}
	}

	if len(d.ExtractedText) > 0 {
		fmt.Printf("\nExtracted Text\n")
		for i, text := range d.ExtractedText {
			fmt.Printf("  [%d] %q\n", i+1, text)
		}
	}
}

func printNDEF(d *dump.Details) {
	if !d.HasNDEF {
		return
	}
	fmt.Printf("\nNDEF Message at offset %d (0x%04x), %d bytes\n", d.NDEFOffset, d.NDEFOffset, d.NDEFLength)
	rec := d.NDEF
	if rec == nil {
		return
	}
	fmt.Printf("  TNF:          %s (0x%x)\n", rec.TypeNameFormatName, rec.TypeNameFormat)
	fmt.Printf("  Begin/End:    %v/%v  Short: %v\n", rec.MessageBegin, rec.MessageEnd, rec.ShortRecord)
	if rec.Type != "" {
		fmt.Printf("  Type:         %s\n", rec.Type)
	}
	if rec.PayloadText != "" {
		fmt.Printf("  Payload:      %q\n", rec.PayloadText)
	} else if rec.PayloadHex != "" {
		fmt.Printf("  Payload Hex:  %s\n", rec.PayloadHex)
	}
	if rec.Message != "" {
		fmt.Printf("  Message:      %s\n", rec.Message)
	}
}

func printHexPreview(data []byte) {
	n := len(data)
	if n > previewBytes {
		n = previewBytes
	}
	fmt.Printf("\nHex Dump (first %d bytes)\n", n)
	for off := 0; off < n; off += 16 {
		end := off + 16
		if end > n {
			end = n
		}
		chunk := data[off:end]

		hexPart := ""
		asciiPart := ""
		for _, b := range chunk {
			hexPart += fmt.Sprintf("%02x ", b)
			if b >= 0x20 && b < 0x7F {
				asciiPart += string(b)
			} else {
				asciiPart += "."
			}
		}
		fmt.Printf("%04x:  %-48s %s\n", off, hexPart, asciiPart)
	}
	if len(data) > previewBytes {
		fmt.Printf("... (%d more bytes)\n", len(data)-previewBytes)
	}
}
