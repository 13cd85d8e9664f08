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

/*
Package chameleon provides a pure Go client for the Chameleon Ultra
RFID/NFC reader and emulator over serial or Bluetooth Low Energy links.

The device speaks a framed binary protocol: each command and response is a
checksum-validated frame carrying a 16-bit command ID, a 16-bit status, and
up to 4096 payload bytes. This library turns the unreliable, chunked byte
stream of the physical link into a correlated request/response channel and
layers domain operations on top of it (battery, slot management, bulk
emulator-memory transfer, reader-mode tag scanning).

Basic usage:

	import (
	    "github.com/chameleon-toolbox/go-chameleon"
	    "github.com/chameleon-toolbox/go-chameleon/transport/serial"
	)

	transport, err := serial.New("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := chameleon.New(transport,
	    chameleon.WithTimeout(2*time.Second),
	)
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Connect(ctx); err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	battery, err := device.GetBatteryInfo(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("battery: %d mV (%d%%)\n", battery.VoltageMV, battery.Percent)

Tag dump analysis is independent of any device session; see the dump
subpackage, which classifies raw memory images and decodes NTAG/MIFARE
structure, NDEF records, and EM410x/T5577 LF layouts.

Concurrency: a Device is safe for concurrent use. Commands are correlated
by ID, not send order; concurrent sends with distinct IDs resolve
independently, and sends sharing an ID are queued FIFO.
*/
package chameleon
