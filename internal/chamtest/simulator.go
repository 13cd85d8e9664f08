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

// Package chamtest provides a simulated Chameleon Ultra transport for
// testing the command channel and device session without hardware. The
// simulator speaks real frames: requests are decoded with the production
// codec and responses are encoded with it, so framing bugs surface here
// rather than against a device.
package chamtest

import (
	"context"
	"sync"
	"time"

	chameleon "github.com/chameleon-toolbox/go-chameleon"
	"github.com/chameleon-toolbox/go-chameleon/internal/frame"
)

// Handler produces the response for one decoded request frame. Returning
// ok=false drops the request (the caller's send will time out).
type Handler func(req frame.Frame) (status uint16, data []byte, ok bool)

// Request records one decoded request for assertions.
type Request struct {
	Data []byte
	Cmd  uint16
}

// Simulator is an in-memory chameleon.Transport backed by a scriptable
// command table.
type Simulator struct {
	handlers map[uint16]Handler
	onData   func([]byte)
	decoder  *frame.Decoder
	requests []Request
	noise    []byte
	mu       sync.Mutex
	// sendMu serializes decoder access across concurrent Send calls.
	sendMu sync.Mutex
	// chunkSize splits each response into separate onData calls to
	// exercise the streaming decoder. Zero delivers in one call.
	chunkSize int
	// responseDelay simulates link latency.
	responseDelay time.Duration
	connected     bool
}

// New returns a simulator with an empty command table.
func New() *Simulator {
	s := &Simulator{handlers: make(map[uint16]Handler)}
	s.decoder = frame.NewDecoder(s.handleRequest)
	return s
}

// Handle installs a handler for a command ID.
func (s *Simulator) Handle(cmd uint16, h Handler) {
	s.mu.Lock()
	s.handlers[cmd] = h
	s.mu.Unlock()
}

// Respond installs a fixed response for a command ID.
func (s *Simulator) Respond(cmd, status uint16, data []byte) {
	s.Handle(cmd, func(frame.Frame) (uint16, []byte, bool) {
		return status, data, true
	})
}

// Drop makes a command ID produce no response at all.
func (s *Simulator) Drop(cmd uint16) {
	s.Handle(cmd, func(frame.Frame) (uint16, []byte, bool) {
		return 0, nil, false
	})
}

// SetChunkSize delivers future responses in chunks of n bytes.
func (s *Simulator) SetChunkSize(n int) {
	s.mu.Lock()
	s.chunkSize = n
	s.mu.Unlock()
}

// SetNoise prepends garbage bytes to every response, exercising decoder
// resynchronization.
func (s *Simulator) SetNoise(noise []byte) {
	s.mu.Lock()
	s.noise = append([]byte(nil), noise...)
	s.mu.Unlock()
}

// SetResponseDelay adds latency before each response is delivered.
func (s *Simulator) SetResponseDelay(d time.Duration) {
	s.mu.Lock()
	s.responseDelay = d
	s.mu.Unlock()
}

// Requests returns all decoded requests in arrival order.
func (s *Simulator) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsFor returns the decoded requests for one command ID.
func (s *Simulator) RequestsFor(cmd uint16) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Cmd == cmd {
			out = append(out, r)
		}
	}
	return out
}

func (s *Simulator) handleRequest(req frame.Frame) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Cmd: req.Cmd, Data: req.Data})
	h := s.handlers[req.Cmd]
	noise := s.noise
	chunkSize := s.chunkSize
	delay := s.responseDelay
	cb := s.onData
	s.mu.Unlock()

	if h == nil || cb == nil {
		return
	}
	status, data, ok := h(req)
	if !ok {
		return
	}

	encoded, err := frame.Encode(req.Cmd, status, data)
	if err != nil {
		return
	}
	payload := append(append([]byte(nil), noise...), encoded...)

	// Deliver asynchronously, as a real link would.
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		if chunkSize <= 0 {
			cb(payload)
			return
		}
		for off := 0; off < len(payload); off += chunkSize {
			end := off + chunkSize
			if end > len(payload) {
				end = len(payload)
			}
			cb(payload[off:end])
		}
	}()
}

// Connect marks the link up.
func (s *Simulator) Connect(_ context.Context) error {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	return nil
}

// Send decodes the outbound frame and schedules the scripted response.
func (s *Simulator) Send(data []byte) error {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()
	if !connected {
		return chameleon.ErrNotConnected
	}
	s.sendMu.Lock()
	s.decoder.Feed(data)
	s.sendMu.Unlock()
	return nil
}

// SetOnData registers the inbound-data callback.
func (s *Simulator) SetOnData(fn func([]byte)) {
	s.mu.Lock()
	s.onData = fn
	s.mu.Unlock()
}

// Close marks the link down. Idempotent.
func (s *Simulator) Close() error {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
	return nil
}

// IsConnected reports whether Connect has been called.
func (s *Simulator) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Type returns chameleon.TransportMock.
func (*Simulator) Type() chameleon.TransportType {
	return chameleon.TransportMock
}

// DefaultTimeout returns a short deadline suitable for tests.
func (*Simulator) DefaultTimeout() time.Duration {
	return 500 * time.Millisecond
}
