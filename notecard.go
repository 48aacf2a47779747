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
	"io"

	"github.com/charmbracelet/log"
)

const (
	// DefaultAddress is the device's factory 7-bit I2C address.
	DefaultAddress = 0x17

	// DefaultBufferSize is the capacity of the shared request/response
	// buffer. Requests and responses may not serialize to anything larger.
	DefaultBufferSize = 18 * 1024

	// defaultChunkSize is the per-chunk payload size used for request
	// writes. The protocol allows up to maxChunk, but small chunks with a
	// settle delay after each one are what the device reliably accepts.
	defaultChunkSize = 30

	// defaultSegmentSize is the number of request bytes sent between the
	// longer segment settle delays.
	defaultSegmentSize = 250
)

// Device is the driver for a Notecard attached over serial-over-I2C. It
// must be initialized before making any requests.
//
// Device is not safe for concurrent use. All waiting is cooperative: the
// driver never spawns goroutines, and blocks only in the injected Clock.
type Device struct {
	bus   Bus
	clock Clock
	log   *log.Logger

	addr  uint16
	state State

	// pending is the remaining response byte count while in StateResponse.
	pending int

	// attempts counts poll rounds since the request was sent.
	attempts int

	// inflight guards against dispatching a new request while a Future for
	// the previous one has not been consumed.
	inflight bool

	// buf is the shared request/response buffer: outgoing serialized bytes
	// in StateRequest, partially or fully accumulated response bytes in
	// StateResponse/StateResponseReady. Its capacity is the fixed bound;
	// it is never grown.
	buf []byte

	// scratch backs single bus transactions (chunk writes, availability
	// reads).
	scratch [maxChunk + 2]byte

	timing      Timing
	chunkSize   int
	segmentSize int
	bufSize     int
}

// New creates a driver for a device on the given bus. The driver starts in
// the handshake state; call Initialize before making requests.
func New(bus Bus, opts ...Option) (*Device, error) {
	d := &Device{
		bus:         bus,
		clock:       systemClock{},
		log:         log.New(io.Discard),
		addr:        DefaultAddress,
		state:       StateHandshake,
		timing:      DefaultTiming(),
		chunkSize:   defaultChunkSize,
		segmentSize: defaultSegmentSize,
		bufSize:     DefaultBufferSize,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	d.buf = make([]byte, 0, d.bufSize)
	return d, nil
}

// Initialize performs the startup handshake, draining any stale response
// the device may still have queued from a prior session. Calling it again
// once the handshake has completed is a no-op.
func (d *Device) Initialize() error {
	if d.state != StateHandshake {
		return nil
	}
	d.log.Info("initializing")
	return d.handshake()
}

// Reset unconditionally returns the driver to a known good state: the
// buffer is cleared, any queued device response is drained (bounded by the
// response timeout), and the driver ends up ready for a new request.
func (d *Device) Reset() error {
	d.buf = d.buf[:0]
	d.pending = 0
	d.attempts = 0
	d.inflight = false
	d.state = StateHandshake
	return d.handshake()
}

// Ping checks whether the device responds on the bus. Allowed in any state.
func (d *Device) Ping() bool {
	return d.bus.Write(d.addr, nil) == nil
}

// State returns the current protocol state.
func (d *Device) State() State {
	return d.state
}

// Timing returns the current timing configuration.
func (d *Device) Timing() Timing {
	return d.timing
}

// SetTiming replaces the timing configuration.
func (d *Device) SetTiming(t Timing) {
	d.timing = t
}

// handshake drains whatever the device still has queued and moves the
// driver to the idle state.
func (d *Device) handshake() error {
	if d.state != StateHandshake {
		return nil
	}
	d.log.Debug("handshake")

	avail, err := d.dataQuery()
	if err != nil {
		return err
	}
	if avail > 0 {
		d.log.Warn("handshake: stale response queued, draining", "avail", avail)
		if err := d.drain(); err != nil {
			return err
		}
	}

	d.state = StateRequest
	return nil
}

// dataQuery polls the device for available response bytes. When the device
// reports data, the buffer is cleared and the driver moves to the response
// state to accumulate it.
func (d *Device) dataQuery() (int, error) {
	if d.state == StateResponse {
		return 0, ErrWrongState
	}

	avail, _, _, err := d.availQuery(0)
	if err != nil {
		return 0, err
	}

	if avail > 0 {
		d.buf = d.buf[:0]
		d.pending = avail
		d.state = StateResponse
	}
	return avail, nil
}

// readChunk pulls the next slice of the pending response into the buffer.
// It returns the byte count the device still holds.
func (d *Device) readChunk() (int, error) {
	if d.state != StateResponse {
		return 0, ErrWrongState
	}

	n := d.pending
	if n > maxChunk {
		n = maxChunk
	}

	avail, sent, payload, err := d.availQuery(n)
	if err != nil {
		return 0, err
	}
	if len(d.buf)+sent > cap(d.buf) {
		return 0, ErrBufferOverflow
	}

	d.buf = append(d.buf, payload...)
	d.pending = avail

	if avail == 0 {
		d.state = StateResponseReady
	}
	return avail, nil
}

// step drives the poll/read cycle once. It returns the completed response
// when the exchange has finished, or nil while it is still underway. The
// returned slice aliases the shared buffer and is only valid until the
// next dispatch.
func (d *Device) step() ([]byte, error) {
	switch d.state {
	case StatePoll:
		avail, err := d.dataQuery()
		if err != nil {
			return nil, err
		}
		if avail > 0 {
			d.log.Debug("response ready", "bytes", avail)
			return d.step()
		}
		d.attempts++
		return nil, nil

	case StateResponse:
		avail, err := d.readChunk()
		if err != nil {
			return nil, err
		}
		if avail == 0 {
			return d.step()
		}
		// More data on the way; let the caller wait between reads.
		return nil, nil

	case StateResponseReady:
		return d.takeResponse()

	default:
		return nil, ErrWrongState
	}
}

// takeResponse hands out the completed response exactly once and returns
// the driver to the idle state.
func (d *Device) takeResponse() ([]byte, error) {
	if d.state != StateResponseReady {
		return nil, ErrWrongState
	}
	d.state = StateRequest
	d.inflight = false
	return d.buf, nil
}

// drain drives the current exchange to completion and discards the result.
// Bounded by the response timeout; on expiry the buffer is cleared so it
// cannot corrupt the next real exchange.
func (d *Device) drain() error {
	deadline := d.clock.Now().Add(d.timing.ResponseTimeout)
	for {
		body, err := d.step()
		if err != nil {
			return err
		}
		if body != nil {
			d.buf = d.buf[:0]
			return nil
		}
		if d.clock.Now().After(deadline) {
			d.buf = d.buf[:0]
			d.pending = 0
			d.state = StateHandshake
			return ErrTimeout
		}
		d.clock.Sleep(d.timing.PollInterval)
	}
}

// ready ensures the driver is idle and may accept a new request. A stale
// or abandoned exchange triggers a full reset rather than a hard failure,
// trading a brief delay for resilience.
func (d *Device) ready() error {
	if d.state == StateHandshake {
		return d.handshake()
	}
	if d.state != StateRequest || d.inflight {
		d.log.Warn("dispatch while busy, resetting", "state", d.state)
		return d.Reset()
	}
	return nil
}

// Bool returns a pointer to v, for the tri-state boolean request fields.
func Bool(v bool) *bool {
	return &v
}
