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

import (
	"context"
	"encoding/binary"
	"fmt"
)

// BatteryInfo is the device battery state.
type BatteryInfo struct {
	// VoltageMV is the battery voltage in millivolts.
	VoltageMV uint16
	// Percent is the charge level 0-100.
	Percent uint8
}

// GetBatteryInfo queries the battery state. The exchange is silent: the
// query is issued at high frequency by status displays and would otherwise
// spam the debug log.
func (d *Device) GetBatteryInfo(ctx context.Context) (BatteryInfo, error) {
	data, err := d.roundTrip(ctx, "battery", cmdGetBatteryInfo, nil, true)
	if err != nil {
		return BatteryInfo{}, err
	}
	if len(data) < 3 {
		return BatteryInfo{}, fmt.Errorf("%w: battery payload is %d bytes", ErrInvalidResponse, len(data))
	}
	// Voltage is little-endian, unlike the frame header fields.
	return BatteryInfo{
		VoltageMV: binary.LittleEndian.Uint16(data[0:2]),
		Percent:   data[2],
	}, nil
}

// GetAppVersion returns the firmware application version as "major.minor".
func (d *Device) GetAppVersion(ctx context.Context) (string, error) {
	data, err := d.roundTrip(ctx, "app version", cmdGetAppVersion, nil, false)
	if err != nil {
		return "", err
	}
	if len(data) < 2 {
		return "", fmt.Errorf("%w: version payload is %d bytes", ErrInvalidResponse, len(data))
	}
	return fmt.Sprintf("%d.%d", data[0], data[1]), nil
}

// GetChipID returns the device chip ID as a hex string.
func (d *Device) GetChipID(ctx context.Context) (string, error) {
	data, err := d.roundTrip(ctx, "chip id", cmdGetDeviceChipID, nil, false)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", data), nil
}

// GetDeviceMode queries the current operating mode.
func (d *Device) GetDeviceMode(ctx context.Context) (DeviceMode, error) {
	data, err := d.roundTrip(ctx, "get mode", cmdGetDeviceMode, nil, false)
	if err != nil {
		return ModeEmulator, err
	}
	if len(data) < 1 {
		return ModeEmulator, fmt.Errorf("%w: empty mode payload", ErrInvalidResponse)
	}
	return DeviceMode(data[0]), nil
}

// SetDeviceMode switches between reader and emulator mode.
func (d *Device) SetDeviceMode(ctx context.Context, mode DeviceMode) error {
	_, err := d.roundTrip(ctx, "set mode", cmdChangeDeviceMode, []byte{byte(mode)}, false)
	return err
}

// GetActiveSlot fetches the active slot index (0-7) from the device and
// refreshes the session's cache. The cache is only ever a mirror of device
// truth; mutating operations re-fetch or re-set it first.
func (d *Device) GetActiveSlot(ctx context.Context) (int, error) {
	data, err := d.roundTrip(ctx, "get active slot", cmdGetActiveSlot, nil, false)
	if err != nil {
		return 0, err
	}
	if len(data) < 1 {
		return 0, fmt.Errorf("%w: empty slot payload", ErrInvalidResponse)
	}
	d.activeSlot = int(data[0])
	return d.activeSlot, nil
}

// SetActiveSlot selects the device-side persisted slot.
func (d *Device) SetActiveSlot(ctx context.Context, slot int) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: slot %d out of range 0-%d", ErrInvalidParameter, slot, SlotCount-1)
	}
	if _, err := d.roundTrip(ctx, "set active slot", cmdSetActiveSlot, []byte{byte(slot)}, false); err != nil {
		return err
	}
	d.activeSlot = slot
	return nil
}

// SlotInfo describes one slot's tag type assignments. Each slot carries
// independent HF and LF assignments; zero means unassigned.
type SlotInfo struct {
	HFTagType uint16
	LFTagType uint16
}

// GetSlotInfo returns the tag type assignments of all 8 slots.
func (d *Device) GetSlotInfo(ctx context.Context) ([]SlotInfo, error) {
	data, err := d.roundTrip(ctx, "slot info", cmdGetSlotInfo, nil, false)
	if err != nil {
		return nil, err
	}
	if len(data) < SlotCount*4 {
		return nil, fmt.Errorf("%w: slot info payload is %d bytes", ErrInvalidResponse, len(data))
	}
	info := make([]SlotInfo, SlotCount)
	for i := range info {
		info[i].HFTagType = binary.BigEndian.Uint16(data[i*4:])
		info[i].LFTagType = binary.BigEndian.Uint16(data[i*4+2:])
	}
	return info, nil
}

// SlotEnable reports which frequencies a slot has enabled.
type SlotEnable struct {
	HF bool
	LF bool
}

// GetEnabledSlots returns the enable flags of all 8 slots.
func (d *Device) GetEnabledSlots(ctx context.Context) ([]SlotEnable, error) {
	data, err := d.roundTrip(ctx, "enabled slots", cmdGetEnabledSlots, nil, false)
	if err != nil {
		return nil, err
	}
	if len(data) < SlotCount*2 {
		return nil, fmt.Errorf("%w: enabled slots payload is %d bytes", ErrInvalidResponse, len(data))
	}
	out := make([]SlotEnable, SlotCount)
	for i := range out {
		out[i].HF = data[i*2] != 0
		out[i].LF = data[i*2+1] != 0
	}
	return out, nil
}

// SetSlotTagType assigns a tag type to a slot.
func (d *Device) SetSlotTagType(ctx context.Context, slot int, tagType uint16) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: slot %d out of range 0-%d", ErrInvalidParameter, slot, SlotCount-1)
	}
	payload := []byte{byte(slot), 0, 0}
	binary.BigEndian.PutUint16(payload[1:], tagType)
	_, err := d.roundTrip(ctx, "set slot tag type", cmdSetSlotTagType, payload, false)
	return err
}

// SaveSlotConfig persists the current slot configuration to device flash.
func (d *Device) SaveSlotConfig(ctx context.Context) error {
	_, err := d.roundTrip(ctx, "save slot config", cmdSlotDataConfigSave, nil, false)
	return err
}

// GetEM410xEmuID returns the 5-byte EM410x ID emulated by the active slot.
func (d *Device) GetEM410xEmuID(ctx context.Context) ([]byte, error) {
	data, err := d.roundTrip(ctx, "get em410x id", cmdEM410xGetEmuID, nil, false)
	if err != nil {
		return nil, err
	}
	if len(data) != 5 {
		return nil, fmt.Errorf("%w: em410x id is %d bytes, want 5", ErrInvalidResponse, len(data))
	}
	return data, nil
}

// SetEM410xEmuID programs the 5-byte EM410x ID into the active slot.
func (d *Device) SetEM410xEmuID(ctx context.Context, id []byte) error {
	if len(id) != 5 {
		return fmt.Errorf("%w: em410x id must be 5 bytes", ErrInvalidParameter)
	}
	_, err := d.roundTrip(ctx, "set em410x id", cmdEM410xSetEmuID, id, false)
	return err
}
