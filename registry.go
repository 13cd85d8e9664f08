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
	"fmt"
	"sort"
	"sync"
)

// Driver describes one device driver: metadata plus a session constructor.
// Drivers let a connection manager open a transport first and pick the
// device flavor afterward.
type Driver struct {
	New  func(Transport, ...Option) (*Device, error)
	ID   string
	Name string
}

// Registry maps driver IDs to constructors and tracks the active session.
// It is an explicit value injected into whatever owns the session
// lifecycle; there is no package-level registry.
type Registry struct {
	drivers map[string]Driver
	active  *Device
	mu      sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds or replaces a driver.
func (r *Registry) Register(drv Driver) error {
	if drv.ID == "" || drv.New == nil {
		return fmt.Errorf("%w: driver needs an ID and a constructor", ErrInvalidParameter)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[drv.ID] = drv
	return nil
}

// Create builds a session with the named driver over the given transport
// and makes it the active session.
func (r *Registry) Create(id string, transport Transport, opts ...Option) (*Device, error) {
	r.mu.RLock()
	drv, ok := r.drivers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
	}
	device, err := drv.New(transport, opts...)
	if err != nil {
		return nil, fmt.Errorf("driver %q: %w", id, err)
	}
	r.mu.Lock()
	r.active = device
	r.mu.Unlock()
	return device, nil
}

// SetActive replaces the active session.
func (r *Registry) SetActive(d *Device) {
	r.mu.Lock()
	r.active = d
	r.mu.Unlock()
}

// Active returns the active session, or nil if none.
func (r *Registry) Active() *Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Drivers lists registered drivers sorted by ID.
func (r *Registry) Drivers() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
