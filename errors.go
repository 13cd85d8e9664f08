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
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotConnected is returned when an operation is attempted on a
	// device whose transport is not connected.
	ErrNotConnected = errors.New("device not connected")

	// ErrTimeout is returned when no matching response frame arrives
	// within the command deadline.
	ErrTimeout = errors.New("command timeout")

	// ErrNoTagFound is returned by the scan retry loop when no tag is
	// present after all attempts. This is a normal reported outcome of
	// physical tag placement, not a transport failure.
	ErrNoTagFound = errors.New("no tag found")

	// ErrTransportWrite indicates a failed write on the physical link.
	ErrTransportWrite = errors.New("transport write failed")

	// ErrTransportRead indicates a failed read on the physical link.
	ErrTransportRead = errors.New("transport read failed")

	// ErrInvalidParameter indicates a caller contract violation.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidResponse indicates a response frame whose payload does
	// not match the expected shape for the command.
	ErrInvalidResponse = errors.New("invalid response payload")

	// ErrDeviceNotFound is returned by registry lookups for unknown
	// driver IDs.
	ErrDeviceNotFound = errors.New("device driver not found")
)

// StatusError carries a non-success firmware status code. Simple commands
// surface the raw status this way so callers can inspect it with errors.As;
// the numeric codes are firmware-specific and passed through verbatim.
type StatusError struct {
	Op     string
	Status uint16
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: device status %#04x", e.Op, e.Status)
}

// PartialTransferError is raised when a chunk of a bulk paged/blocked
// transfer fails. The operation aborts rather than silently returning
// incomplete data.
type PartialTransferError struct {
	Op     string
	Start  int
	Count  int
	Status uint16
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("%s: chunk at unit %d (count %d) failed with device status %#04x",
		e.Op, e.Start, e.Count, e.Status)
}

// TimeoutError reports which command timed out on which transport.
type TimeoutError struct {
	Op        string
	Transport TransportType
	Cmd       uint16
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no response for command %d on %s transport", e.Op, e.Cmd, e.Transport)
}

func (*TimeoutError) Unwrap() error { return ErrTimeout }

// TransportError wraps a physical-link failure with its operation context.
// Transport errors are fatal to the current session; there is no automatic
// reconnect.
type TransportError struct {
	Err       error
	Op        string
	Transport TransportType
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s on %s transport: %v", e.Op, e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRetryable reports whether the caller may retry the same logical
// operation. Timeouts leave the channel state clean and are retryable;
// transport failures are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrNoTagFound)
}
