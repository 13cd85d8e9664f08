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

// Package ble implements the Chameleon Ultra transport over Bluetooth Low
// Energy using the device's Nordic-UART-style GATT service.
package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	chameleon "github.com/chameleon-toolbox/go-chameleon"
)

// Chameleon Ultra BLE service and characteristic UUIDs (NUS layout).
const (
	ServiceUUID    = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	WriteCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
	NotifyCharUUID = "6e400003-b5a3-f393-e0a9-e50e24dcca9e"

	// DefaultDeviceName matches advertisements from stock firmware.
	DefaultDeviceName = "ChameleonUltra"
)

const (
	// writeChunkSize is the conservative ATT payload used when no larger
	// MTU was negotiated.
	writeChunkSize = 20

	// BLE links answer faster than serial, so the default command
	// deadline is shorter.
	defaultTimeout = 2 * time.Second
)

// Transport is a BLE implementation of chameleon.Transport.
type Transport struct {
	adapter    *bluetooth.Adapter
	onData     func([]byte)
	deviceName string
	device     bluetooth.Device
	writeChar  bluetooth.DeviceCharacteristic
	notifyChar bluetooth.DeviceCharacteristic
	mu         sync.Mutex
	connected  bool
}

// New creates a BLE transport that will connect to the first advertiser
// whose local name contains deviceName. An empty name selects the stock
// firmware name.
func New(deviceName string) *Transport {
	if deviceName == "" {
		deviceName = DefaultDeviceName
	}
	return &Transport{
		adapter:    bluetooth.DefaultAdapter,
		deviceName: deviceName,
	}
}

// Connect scans for the device, connects, discovers the protocol service,
// and subscribes to notifications.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connected {
		return nil
	}

	if err := t.adapter.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}

	result, err := t.scan(ctx)
	if err != nil {
		return err
	}

	device, err := t.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("ble: connect %s: %w", result.Address, err)
	}

	if err := t.discover(device); err != nil {
		_ = device.Disconnect()
		return err
	}

	t.device = device
	t.connected = true
	return nil
}

// scan blocks until an advertiser matching the device name is seen or the
// context ends. adapter.Scan only returns after StopScan, so cancellation
// is driven from a watcher goroutine.
func (t *Transport) scan(ctx context.Context) (bluetooth.ScanResult, error) {
	var (
		result bluetooth.ScanResult
		found  bool
	)

	scanDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = t.adapter.StopScan()
		case <-scanDone:
		}
	}()

	err := t.adapter.Scan(func(adapter *bluetooth.Adapter, r bluetooth.ScanResult) {
		if strings.Contains(r.LocalName(), t.deviceName) {
			result = r
			found = true
			_ = adapter.StopScan()
		}
	})
	close(scanDone)
	if err != nil {
		return result, fmt.Errorf("ble: scan: %w", err)
	}
	if !found {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, fmt.Errorf("ble: device %q not found", t.deviceName)
	}
	return result, nil
}

func (t *Transport) discover(device bluetooth.Device) error {
	svcUUID, err := bluetooth.ParseUUID(ServiceUUID)
	if err != nil {
		return fmt.Errorf("ble: parse service uuid: %w", err)
	}
	writeUUID, _ := bluetooth.ParseUUID(WriteCharUUID)
	notifyUUID, _ := bluetooth.ParseUUID(NotifyCharUUID)

	services, err := device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil || len(services) == 0 {
		return fmt.Errorf("ble: protocol service not found: %w", err)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{writeUUID, notifyUUID})
	if err != nil || len(chars) < 2 {
		return fmt.Errorf("ble: protocol characteristics not found: %w", err)
	}
	t.writeChar = chars[0]
	t.notifyChar = chars[1]

	err = t.notifyChar.EnableNotifications(func(buf []byte) {
		t.mu.Lock()
		cb := t.onData
		t.mu.Unlock()
		if cb != nil {
			chunk := make([]byte, len(buf))
			copy(chunk, buf)
			cb(chunk)
		}
	})
	if err != nil {
		return fmt.Errorf("ble: enable notifications: %w", err)
	}
	return nil
}

// Send writes one frame's bytes, chunked to the ATT payload size. The
// frame decoder on the device side reassembles, so chunk boundaries do not
// need to align with anything.
func (t *Transport) Send(data []byte) error {
	t.mu.Lock()
	connected := t.connected
	writeChar := t.writeChar
	t.mu.Unlock()
	if !connected {
		return chameleon.ErrNotConnected
	}

	for off := 0; off < len(data); off += writeChunkSize {
		end := off + writeChunkSize
		if end > len(data) {
			end = len(data)
		}
		if _, err := writeChar.WriteWithoutResponse(data[off:end]); err != nil {
			return fmt.Errorf("ble: write: %w", err)
		}
	}
	return nil
}

// SetOnData registers the inbound-data callback.
func (t *Transport) SetOnData(fn func([]byte)) {
	t.mu.Lock()
	t.onData = fn
	t.mu.Unlock()
}

// Close disconnects from the device. Idempotent.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	if err := t.device.Disconnect(); err != nil {
		return fmt.Errorf("ble: disconnect: %w", err)
	}
	return nil
}

// IsConnected reports whether the link is up.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Type returns chameleon.TransportBLE.
func (*Transport) Type() chameleon.TransportType {
	return chameleon.TransportBLE
}

// DefaultTimeout returns the BLE command deadline.
func (*Transport) DefaultTimeout() time.Duration {
	return defaultTimeout
}
