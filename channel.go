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
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chameleon-toolbox/go-chameleon/internal/frame"
)

// pendingRequest correlates one outbound command with its eventual
// response. The channel is buffered so frame delivery never blocks the
// transport's data-arrival callback.
type pendingRequest struct {
	createdAt time.Time
	done      chan frame.Frame
	cmd       uint16
	silent    bool
}

// commandChannel maps outgoing command IDs to pending response waiters and
// correlates inbound frames back to their callers.
//
// Waiters for the same command ID form a FIFO queue: concurrent sends with
// one ID resolve in order as responses arrive, instead of a later send
// silently overwriting the earlier caller's continuation.
type commandChannel struct {
	pending map[uint16][]*pendingRequest
	log     *zap.Logger
	mu      sync.Mutex
}

func newCommandChannel(log *zap.Logger) *commandChannel {
	return &commandChannel{
		pending: make(map[uint16][]*pendingRequest),
		log:     log,
	}
}

// register enqueues a waiter for cmd and returns it. Caller must either
// receive from req.done or call remove.
func (c *commandChannel) register(cmd uint16, silent bool) *pendingRequest {
	req := &pendingRequest{
		cmd:       cmd,
		silent:    silent,
		createdAt: time.Now(),
		done:      make(chan frame.Frame, 1),
	}
	c.mu.Lock()
	c.pending[cmd] = append(c.pending[cmd], req)
	c.mu.Unlock()
	return req
}

// remove deletes a specific waiter, used on timeout or write failure.
// Whichever arm fires first (response or timeout) clears the registration.
func (c *commandChannel) remove(req *pendingRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queue := c.pending[req.cmd]
	for i, r := range queue {
		if r == req {
			queue = append(queue[:i], queue[i+1:]...)
			break
		}
	}
	if len(queue) == 0 {
		delete(c.pending, req.cmd)
	} else {
		c.pending[req.cmd] = queue
	}
}

// handleFrame resolves the oldest waiter for the frame's command ID. A
// frame with no waiter (late response after timeout) is dropped.
func (c *commandChannel) handleFrame(f frame.Frame) {
	c.mu.Lock()
	queue := c.pending[f.Cmd]
	var req *pendingRequest
	if len(queue) > 0 {
		req = queue[0]
		if len(queue) == 1 {
			delete(c.pending, f.Cmd)
		} else {
			c.pending[f.Cmd] = queue[1:]
		}
	}
	c.mu.Unlock()

	if req == nil {
		c.log.Debug("dropping unmatched frame",
			zap.Uint16("cmd", f.Cmd),
			zap.Uint16("status", f.Status))
		return
	}
	if !req.silent {
		c.log.Debug("response",
			zap.Uint16("cmd", f.Cmd),
			zap.Uint16("status", f.Status),
			zap.Int("len", len(f.Data)),
			zap.Duration("rtt", time.Since(req.createdAt)))
	}
	req.done <- f
}

// pendingCount reports the number of outstanding waiters, all IDs combined.
func (c *commandChannel) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, q := range c.pending {
		n += len(q)
	}
	return n
}
