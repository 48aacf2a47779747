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

import "github.com/charmbracelet/log"

// SuspendState carries the full driver state, minus the bus handle, while
// the bus is lent out to other peripherals. It must be consumed by exactly
// one Resume; the device's own state must not change in the meantime.
type SuspendState struct {
	clock Clock
	log   *log.Logger

	addr     uint16
	state    State
	pending  int
	attempts int
	inflight bool
	buf      []byte

	timing      Timing
	chunkSize   int
	segmentSize int
}

// Suspend detaches the bus handle and returns it together with a snapshot
// of the driver state. The driver must not be used again; construct a new
// one with Resume when the bus is available again.
func (d *Device) Suspend() (Bus, *SuspendState) {
	bus := d.bus
	d.bus = nil
	return bus, &SuspendState{
		clock:       d.clock,
		log:         d.log,
		addr:        d.addr,
		state:       d.state,
		pending:     d.pending,
		attempts:    d.attempts,
		inflight:    d.inflight,
		buf:         d.buf,
		timing:      d.timing,
		chunkSize:   d.chunkSize,
		segmentSize: d.segmentSize,
	}
}

// Resume reconstructs a driver from a suspended snapshot, reattaching a
// bus handle. No reset is performed: the device is assumed to be exactly
// where it was at Suspend, including any exchange that was mid-flight.
func Resume(bus Bus, s *SuspendState) *Device {
	d := &Device{
		bus:         bus,
		clock:       s.clock,
		log:         s.log,
		addr:        s.addr,
		state:       s.state,
		pending:     s.pending,
		attempts:    s.attempts,
		inflight:    s.inflight,
		buf:         s.buf,
		timing:      s.timing,
		chunkSize:   s.chunkSize,
		segmentSize: s.segmentSize,
		bufSize:     cap(s.buf),
	}
	return d
}

// SetBufferSize changes the capacity bound of the shared buffer, copying
// any buffered content. It fails without mutating the driver when the
// buffered content no longer fits.
func (d *Device) SetBufferSize(n int) error {
	if n <= 0 {
		return ErrInvalidParameter
	}
	if len(d.buf) > n {
		return ErrBufferOverflow
	}
	nb := make([]byte, len(d.buf), n)
	copy(nb, d.buf)
	d.buf = nb
	d.bufSize = n
	return nil
}
