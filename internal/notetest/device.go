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

// Package notetest provides a simulated serial-over-I2C device and a
// deterministic clock for driver tests. The simulated device speaks the
// same chunked wire protocol as real hardware: writes of [len, payload]
// accumulate a request, a write of [0, n] asks for up to n bytes of the
// pending response, and reads return [remaining, sent, payload...].
package notetest

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// Device simulates a connectivity module on the far side of the bus.
// The zero value echoes nothing; queue responses with QueueResponse or
// install a Handler to compute them from the request.
type Device struct {
	mu sync.Mutex

	// Handler, when set, is invoked with each complete newline-terminated
	// request and its return value (without terminator) becomes the
	// response. It takes precedence over queued responses.
	Handler func(req []byte) []byte

	// WriteErr and ReadErr, when set, are returned by every Write and
	// Read respectively.
	WriteErr error
	ReadErr  error

	// ReadyAfter is the number of availability polls that report zero
	// bytes before a pending response becomes visible.
	ReadyAfter int

	// FeedSizes, when non-empty, caps the payload of successive reads,
	// dripping the response out in the given increments. Entries are
	// consumed one per read; afterwards reads return as much as requested.
	FeedSizes []int

	// SentOnPoll, when non-zero, makes the device report that many bytes
	// sent in reply to a zero-byte availability query. Real hardware must
	// never do this; it exercises the driver's violation path.
	SentOnPoll int

	// Writes and Reads count bus transactions.
	Writes int
	Reads  int

	// Chunks records the raw payload of every non-zero chunk written.
	Chunks [][]byte

	reqBuf    bytes.Buffer
	requests  [][]byte
	queued    [][]byte
	pending   []byte
	polls     int
	requested int
}

// QueueResponse enqueues a canned response body. The terminating newline
// is appended by the simulated device.
func (d *Device) QueueResponse(body []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queued = append(d.queued, append([]byte(nil), body...))
}

// Preload places raw bytes in the device's outgoing buffer as if left
// over from a previous, unconsumed response. Unlike QueueResponse no
// terminator is appended and no request is required first.
func (d *Device) Preload(raw []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append([]byte(nil), raw...)
	d.polls = 1
}

// Requests returns the complete requests received so far, terminators
// stripped.
func (d *Device) Requests() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.requests))
	copy(out, d.requests)
	return out
}

// Write implements the bus write side of the protocol.
func (d *Device) Write(addr uint16, p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Writes++
	if d.WriteErr != nil {
		return d.WriteErr
	}
	if len(p) == 0 {
		// Address probe.
		return nil
	}
	if p[0] == 0 {
		if len(p) < 2 {
			return errors.New("notetest: short availability query")
		}
		d.requested = int(p[1])
		d.polls++
		return nil
	}
	n := int(p[0])
	if len(p) < 1+n {
		return errors.New("notetest: short chunk")
	}
	payload := append([]byte(nil), p[1:1+n]...)
	d.Chunks = append(d.Chunks, payload)
	d.reqBuf.Write(payload)
	if i := bytes.IndexByte(d.reqBuf.Bytes(), '\n'); i >= 0 {
		req := append([]byte(nil), d.reqBuf.Bytes()[:i]...)
		d.reqBuf.Reset()
		d.requests = append(d.requests, req)
		d.respond(req)
	}
	return nil
}

func (d *Device) respond(req []byte) {
	var body []byte
	switch {
	case d.Handler != nil:
		body = d.Handler(req)
	case len(d.queued) > 0:
		body = d.queued[0]
		d.queued = d.queued[1:]
	default:
		return
	}
	if body == nil {
		return
	}
	d.pending = append(append([]byte(nil), body...), '\n')
	d.polls = 0
}

// Read implements the bus read side of the protocol. The driver reads
// requested+2 bytes after each availability query; the first two carry
// the remaining-after count and the payload length.
func (d *Device) Read(addr uint16, p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Reads++
	if d.ReadErr != nil {
		return d.ReadErr
	}
	if len(p) < 2 {
		return errors.New("notetest: short read buffer")
	}
	for i := range p {
		p[i] = 0
	}
	if d.requested == 0 {
		if d.SentOnPoll > 0 {
			p[1] = byte(d.SentOnPoll)
			return nil
		}
		if len(d.pending) > 0 && d.polls > d.ReadyAfter {
			p[0] = clamp255(len(d.pending))
		}
		return nil
	}
	n := d.requested
	d.requested = 0
	if n > len(d.pending) {
		n = len(d.pending)
	}
	if len(d.FeedSizes) > 0 {
		if d.FeedSizes[0] < n {
			n = d.FeedSizes[0]
		}
		d.FeedSizes = d.FeedSizes[1:]
	}
	if n > len(p)-2 {
		n = len(p) - 2
	}
	copy(p[2:], d.pending[:n])
	d.pending = d.pending[n:]
	p[0] = clamp255(len(d.pending))
	p[1] = byte(n)
	return nil
}

func clamp255(n int) byte {
	if n > 255 {
		return 255
	}
	return byte(n)
}

// Clock is a manual clock: Sleep advances the current time without
// blocking, which lets timeout behavior run instantly and
// deterministically.
type Clock struct {
	mu  sync.Mutex
	now time.Time

	// Slept records every Sleep duration in order.
	Slept []time.Duration
}

// NewClock returns a Clock starting at a fixed arbitrary instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the simulated current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the simulated time by d and returns immediately.
func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.Slept = append(c.Slept, d)
}

// Advance moves the simulated time forward without recording a sleep.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
