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

	"go.uber.org/zap"

	"github.com/chameleon-toolbox/go-chameleon/internal/frame"
)

// DeviceConfig contains configuration options for a Device.
type DeviceConfig struct {
	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// Timeout is the command deadline. Zero means use the transport's
	// DefaultTimeout.
	Timeout time.Duration
	// ScanRetries is the number of HF14A scan attempts before reporting
	// that no tag is present.
	ScanRetries int
	// ScanInterval is the fixed delay between scan attempts.
	ScanInterval time.Duration
}

// DefaultDeviceConfig returns the default device configuration.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Logger:       zap.NewNop(),
		ScanRetries:  5,
		ScanInterval: 300 * time.Millisecond,
	}
}

// Device is a stateful session with one Chameleon Ultra: a Transport, the
// streaming frame decoder, and the command correlation channel, exposing
// domain operations built from command round trips.
//
// Command correlation is by ID, not send order: distinct command IDs may be
// issued concurrently and resolve independently. Sends that share a command
// ID are queued FIFO by the channel.
type Device struct {
	transport  Transport
	config     *DeviceConfig
	decoder    *frame.Decoder
	channel    *commandChannel
	activeSlot int // cache of device truth, refreshed on every get/set
}

// New creates a device session over the given transport. The transport may
// be freshly constructed or already connected by a higher-level connection
// manager; Connect handles both.
func New(transport Transport, opts ...Option) (*Device, error) {
	d := &Device{
		transport:  transport,
		config:     DefaultDeviceConfig(),
		activeSlot: -1,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	d.channel = newCommandChannel(d.config.Logger)
	d.decoder = frame.NewDecoder(d.channel.handleFrame)
	return d, nil
}

// Connect establishes the transport link if necessary and wires the
// inbound-byte callback through the frame decoder into the command channel.
func (d *Device) Connect(ctx context.Context) error {
	if !d.transport.IsConnected() {
		if err := d.transport.Connect(ctx); err != nil {
			return &TransportError{Op: "connect", Transport: d.transport.Type(), Err: err}
		}
	}
	d.decoder.Reset()
	d.transport.SetOnData(d.decoder.Feed)
	d.config.Logger.Info("device connected", zap.String("transport", string(d.transport.Type())))
	return nil
}

// Close releases the transport. Idempotent.
func (d *Device) Close() error {
	return d.transport.Close()
}

// Transport returns the session's transport.
func (d *Device) Transport() Transport {
	return d.transport
}

// timeout returns the effective command deadline.
func (d *Device) timeout() time.Duration {
	if d.config.Timeout > 0 {
		return d.config.Timeout
	}
	return d.transport.DefaultTimeout()
}

// SendRaw performs one command round trip and returns the raw response
// frame. A non-success status is not an error at this level: callers check
// Status themselves, matching the firmware convention that simple commands
// report their status as data.
func (d *Device) SendRaw(ctx context.Context, cmd, status uint16, data []byte) (frame.Frame, error) {
	return d.send(ctx, cmd, status, data, false)
}

func (d *Device) send(ctx context.Context, cmd, status uint16, data []byte, silent bool) (frame.Frame, error) {
	if !d.transport.IsConnected() {
		return frame.Frame{}, ErrNotConnected
	}

	encoded, err := frame.Encode(cmd, status, data)
	if err != nil {
		return frame.Frame{}, err
	}

	req := d.channel.register(cmd, silent)
	if !silent {
		d.config.Logger.Debug("request",
			zap.Uint16("cmd", cmd),
			zap.Uint16("status", status),
			zap.Int("len", len(data)))
	}

	if err := d.transport.Send(encoded); err != nil {
		d.channel.remove(req)
		return frame.Frame{}, &TransportError{Op: "send", Transport: d.transport.Type(), Err: err}
	}

	timer := time.NewTimer(d.timeout())
	defer timer.Stop()

	select {
	case f := <-req.done:
		return f, nil
	case <-timer.C:
		d.channel.remove(req)
		return frame.Frame{}, &TimeoutError{Op: "send", Transport: d.transport.Type(), Cmd: cmd}
	case <-ctx.Done():
		d.channel.remove(req)
		return frame.Frame{}, ctx.Err()
	}
}

// roundTrip sends a command and promotes a non-success status to a
// StatusError. Domain helpers use this; SendRaw keeps the raw semantics.
func (d *Device) roundTrip(ctx context.Context, op string, cmd uint16, data []byte, silent bool) ([]byte, error) {
	f, err := d.send(ctx, cmd, 0, data, silent)
	if err != nil {
		return nil, err
	}
	if f.Status != StatusSuccess {
		return nil, &StatusError{Op: op, Status: f.Status}
	}
	return f.Data, nil
}
