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
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Device.
type Option func(*Device) error

// WithTimeout sets the command deadline, overriding the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.Timeout = timeout
		return nil
	}
}

// WithLogger sets the structured logger for the session.
func WithLogger(log *zap.Logger) Option {
	return func(d *Device) error {
		if log == nil {
			return ErrInvalidParameter
		}
		d.config.Logger = log
		return nil
	}
}

// WithScanRetries sets the number of HF14A scan attempts.
func WithScanRetries(attempts int) Option {
	return func(d *Device) error {
		if attempts < 1 {
			return ErrInvalidParameter
		}
		d.config.ScanRetries = attempts
		return nil
	}
}

// WithScanInterval sets the fixed delay between scan attempts.
func WithScanInterval(interval time.Duration) Option {
	return func(d *Device) error {
		if interval < 0 {
			return ErrInvalidParameter
		}
		d.config.ScanInterval = interval
		return nil
	}
}
