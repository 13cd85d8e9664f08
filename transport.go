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
	"time"
)

// Transport abstracts a physical duplex byte link to the device.
// Implementations deliver inbound bytes as raw chunks in arrival order;
// chunk sizes are link-layer-dependent and never frame-aligned.
type Transport interface {
	// Connect establishes the physical link. Implementations perform
	// their own discovery/handshake (port open, BLE scan and
	// characteristic discovery).
	Connect(ctx context.Context) error

	// Send writes one frame's bytes to the link. The write is atomic
	// from the caller's perspective; BLE implementations chunk to the
	// negotiated MTU internally.
	Send(data []byte) error

	// SetOnData registers the single inbound-data callback. The callback
	// must not block; it is invoked from the transport's read loop.
	SetOnData(fn func([]byte))

	// Close releases link resources. Idempotent.
	Close() error

	// IsConnected reports whether the link is up.
	IsConnected() bool

	// Type returns the transport kind.
	Type() TransportType

	// DefaultTimeout returns the default command deadline for this
	// physical layer. BLE links answer faster than serial ones, so the
	// default differs per transport and is overridable with WithTimeout.
	DefaultTimeout() time.Duration
}

// TransportType identifies the physical layer of a transport.
type TransportType string

const (
	// TransportSerial is a USB CDC serial link.
	TransportSerial TransportType = "serial"
	// TransportBLE is a Bluetooth Low Energy link.
	TransportBLE TransportType = "ble"
	// TransportMock is an in-memory transport for testing.
	TransportMock TransportType = "mock"
)
