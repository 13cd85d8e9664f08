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

package chameleon

// Chameleon Ultra command IDs. These are a compatibility contract with the
// device firmware and must be reproduced bit-exact. IDs are grouped by
// subsystem: 1000s system/slot, 2000s HF14A reader, 4000s emulation memory,
// 5000s EM410x emulation.
const (
	cmdGetAppVersion      uint16 = 1000
	cmdChangeDeviceMode   uint16 = 1001
	cmdGetDeviceMode      uint16 = 1002
	cmdSetActiveSlot      uint16 = 1003
	cmdSetSlotTagType     uint16 = 1004
	cmdSlotDataConfigSave uint16 = 1009
	cmdGetDeviceChipID    uint16 = 1011
	cmdGetActiveSlot      uint16 = 1018
	cmdGetSlotInfo        uint16 = 1019
	cmdGetEnabledSlots    uint16 = 1023
	cmdGetBatteryInfo     uint16 = 1025

	cmdHF14AScan uint16 = 2000

	cmdMF1WriteEmuBlock uint16 = 4000
	cmdMF1ReadEmuBlock  uint16 = 4008
	cmdNTAGReadEmuPage  uint16 = 4012
	cmdNTAGWriteEmuPage uint16 = 4013

	cmdEM410xSetEmuID uint16 = 5000
	cmdEM410xGetEmuID uint16 = 5001
)

// Firmware status codes. 0x68 denotes general device success; 0x00 is the
// reader-mode "HF tag OK" success variant. Other values are firmware error
// codes surfaced verbatim.
const (
	// StatusSuccess is the general device success status.
	StatusSuccess uint16 = 0x68
	// StatusHFTagOK is the reader-mode success status for HF operations.
	StatusHFTagOK uint16 = 0x00
)

// DeviceMode is the device operating mode. Reader mode and emulator mode
// are mutually exclusive.
type DeviceMode byte

const (
	// ModeEmulator emulates a tag toward an external reader. This is the
	// device's default mode.
	ModeEmulator DeviceMode = 0
	// ModeReader reads external tags.
	ModeReader DeviceMode = 1
)

func (m DeviceMode) String() string {
	switch m {
	case ModeEmulator:
		return "emulator"
	case ModeReader:
		return "reader"
	default:
		return "unknown"
	}
}

// Slot addressing limits. The device persists 8 slots, each holding one
// emulated tag's configuration and data.
const (
	// SlotCount is the number of device-side slots.
	SlotCount = 8
	// MaxTransferUnits is the per-request cap on pages/blocks in bulk
	// paged/blocked transfers.
	MaxTransferUnits = 32
	// NTAGPageSize is the addressable unit for NTAG-family memory.
	NTAGPageSize = 4
	// MF1BlockSize is the addressable unit for MIFARE-Classic memory.
	MF1BlockSize = 16
)
