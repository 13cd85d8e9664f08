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

// Package serial implements the Chameleon Ultra transport over a USB CDC
// serial port.
package serial

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	chameleon "github.com/chameleon-toolbox/go-chameleon"
)

const (
	defaultBaudRate = 115200
	readBufferSize  = 1024

	// Serial links answer slower than BLE, so the default command
	// deadline is longer.
	defaultTimeout = 3 * time.Second
)

// Transport is a serial-port implementation of chameleon.Transport.
type Transport struct {
	port      serial.Port
	onData    func([]byte)
	portName  string
	baudRate  int
	mu        sync.Mutex
	connected bool
}

// New creates a serial transport for the named port. The port is not
// opened until Connect.
func New(portName string) (*Transport, error) {
	if portName == "" {
		return nil, fmt.Errorf("serial: %w: empty port name", chameleon.ErrInvalidParameter)
	}
	return &Transport{portName: portName, baudRate: defaultBaudRate}, nil
}

// ListPorts enumerates serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("serial: list ports: %w", err)
	}
	return ports, nil
}

// Connect opens the port and starts the read loop.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connected {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(t.portName, mode)
	if err != nil {
		return fmt.Errorf("serial: open %s: %w", t.portName, err)
	}
	t.port = port
	t.connected = true
	go t.readLoop(port)
	return nil
}

// readLoop pushes raw chunks into the onData callback in arrival order.
// It exits when the port read fails, which includes Close.
func (t *Transport) readLoop(port serial.Port) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := port.Read(buf)
		if err != nil {
			t.mu.Lock()
			if t.port == port {
				t.connected = false
			}
			t.mu.Unlock()
			return
		}
		if n == 0 {
			continue
		}
		t.mu.Lock()
		cb := t.onData
		t.mu.Unlock()
		if cb != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			cb(chunk)
		}
	}
}

// Send writes one frame's bytes to the port.
func (t *Transport) Send(data []byte) error {
	t.mu.Lock()
	port := t.port
	connected := t.connected
	t.mu.Unlock()
	if !connected || port == nil {
		return chameleon.ErrNotConnected
	}
	if _, err := port.Write(data); err != nil {
		return fmt.Errorf("serial: write: %w", err)
	}
	return nil
}

// SetOnData registers the inbound-data callback.
func (t *Transport) SetOnData(fn func([]byte)) {
	t.mu.Lock()
	t.onData = fn
	t.mu.Unlock()
}

// Close releases the port. Idempotent.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected || t.port == nil {
		return nil
	}
	t.connected = false
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return fmt.Errorf("serial: close: %w", err)
	}
	return nil
}

// IsConnected reports whether the port is open.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Type returns chameleon.TransportSerial.
func (*Transport) Type() chameleon.TransportType {
	return chameleon.TransportSerial
}

// DefaultTimeout returns the serial command deadline.
func (*Transport) DefaultTimeout() time.Duration {
	return defaultTimeout
}
