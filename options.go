// go-notecard
// Copyright (c) 2025 The Skagerrak Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-notecard.
//
// go-notecard is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-notecard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-notecard; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package notecard

import (
	"time"

	"github.com/charmbracelet/log"
)

// Option is a functional option for configuring a Device.
type Option func(*Device) error

// WithAddress sets the device's 7-bit I2C address.
func WithAddress(addr uint16) Option {
	return func(d *Device) error {
		if addr == 0 || addr > 0x7f {
			return ErrInvalidParameter
		}
		d.addr = addr
		return nil
	}
}

// WithTiming replaces the full timing configuration.
func WithTiming(t Timing) Option {
	return func(d *Device) error {
		d.timing = t
		return nil
	}
}

// WithResponseTimeout sets the total budget for waiting on a response.
func WithResponseTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.timing.ResponseTimeout = timeout
		return nil
	}
}

// WithBufferSize sets the capacity of the shared request/response buffer.
func WithBufferSize(n int) Option {
	return func(d *Device) error {
		if n <= 0 {
			return ErrInvalidParameter
		}
		d.bufSize = n
		return nil
	}
}

// WithChunkSize sets the per-chunk payload size used for request writes,
// up to the protocol ceiling of 127 bytes. Some bus drivers need smaller
// transactions.
func WithChunkSize(n int) Option {
	return func(d *Device) error {
		if n < 1 || n > maxChunk {
			return ErrInvalidParameter
		}
		d.chunkSize = n
		return nil
	}
}

// WithSegmentSize sets the number of request bytes sent between segment
// settle delays.
func WithSegmentSize(n int) Option {
	return func(d *Device) error {
		if n < 1 {
			return ErrInvalidParameter
		}
		d.segmentSize = n
		return nil
	}
}

// WithClock injects the time source used for delays and timeouts.
func WithClock(c Clock) Option {
	return func(d *Device) error {
		if c == nil {
			return ErrInvalidParameter
		}
		d.clock = c
		return nil
	}
}

// WithLogger injects a logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(d *Device) error {
		if l == nil {
			return ErrInvalidParameter
		}
		d.log = l
		return nil
	}
}
