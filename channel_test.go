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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chameleon-toolbox/go-chameleon/internal/frame"
)

func TestChannelResolvesMatchingWaiter(t *testing.T) {
	t.Parallel()
	c := newCommandChannel(zap.NewNop())

	req := c.register(1025, false)
	c.handleFrame(frame.Frame{Cmd: 1025, Status: StatusSuccess, Data: []byte{0x4C, 0x10, 0x62}})

	f := <-req.done
	assert.Equal(t, uint16(1025), f.Cmd)
	assert.Equal(t, StatusSuccess, f.Status)
	assert.Equal(t, 0, c.pendingCount())
}

func TestChannelCorrelatesByCommandID(t *testing.T) {
	t.Parallel()
	c := newCommandChannel(zap.NewNop())

	battery := c.register(1025, false)
	slot := c.register(1018, false)

	// Responses arrive in reverse send order; each resolves its own
	// waiter independently.
	c.handleFrame(frame.Frame{Cmd: 1018, Status: StatusSuccess, Data: []byte{0x03}})
	c.handleFrame(frame.Frame{Cmd: 1025, Status: StatusSuccess, Data: []byte{0x4C, 0x10, 0x62}})

	assert.Equal(t, []byte{0x03}, (<-slot.done).Data)
	assert.Equal(t, []byte{0x4C, 0x10, 0x62}, (<-battery.done).Data)
}

// Concurrent sends that share one command ID are queued FIFO: the first
// response resolves the first waiter, not the most recent one.
func TestChannelSameIDWaitersResolveInOrder(t *testing.T) {
	t.Parallel()
	c := newCommandChannel(zap.NewNop())

	first := c.register(4008, false)
	second := c.register(4008, false)

	c.handleFrame(frame.Frame{Cmd: 4008, Status: StatusSuccess, Data: []byte{0x01}})
	c.handleFrame(frame.Frame{Cmd: 4008, Status: StatusSuccess, Data: []byte{0x02}})

	assert.Equal(t, []byte{0x01}, (<-first.done).Data)
	assert.Equal(t, []byte{0x02}, (<-second.done).Data)
	assert.Equal(t, 0, c.pendingCount())
}

func TestChannelRemoveClearsRegistration(t *testing.T) {
	t.Parallel()
	c := newCommandChannel(zap.NewNop())

	req := c.register(2000, false)
	c.remove(req)
	require.Equal(t, 0, c.pendingCount())

	// A frame arriving after removal (late response past its timeout)
	// is dropped, not delivered.
	c.handleFrame(frame.Frame{Cmd: 2000, Status: StatusHFTagOK})
	select {
	case <-req.done:
		t.Fatal("removed waiter received a frame")
	default:
	}
}

func TestChannelRemoveKeepsOtherWaiters(t *testing.T) {
	t.Parallel()
	c := newCommandChannel(zap.NewNop())

	first := c.register(4012, false)
	second := c.register(4012, false)
	c.remove(first)

	c.handleFrame(frame.Frame{Cmd: 4012, Status: StatusSuccess, Data: []byte{0xAA}})
	assert.Equal(t, []byte{0xAA}, (<-second.done).Data)
}

func TestChannelDropsUnmatchedFrame(t *testing.T) {
	t.Parallel()
	c := newCommandChannel(zap.NewNop())
	// Must not panic or leak state.
	c.handleFrame(frame.Frame{Cmd: 9999, Status: StatusSuccess})
	assert.Equal(t, 0, c.pendingCount())
}
