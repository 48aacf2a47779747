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

import "time"

// Bus is the raw I2C transaction interface the driver runs on. The driver
// owns the bus exclusively for the lifetime of the Device; implementations
// only need to perform single addressed write and read transfers.
//
// The periph.io-backed implementation lives in transport/i2c. Tests use the
// simulated device in internal/notetest.
type Bus interface {
	// Write performs one write transaction to the 7-bit device address.
	Write(addr uint16, p []byte) error

	// Read performs one read transaction from the 7-bit device address,
	// filling p completely.
	Read(addr uint16, p []byte) error
}

// Clock abstracts the time source used for settle delays, poll intervals
// and timeout budgets. The default implementation uses the system clock;
// supplying a different Clock lets the same engine run under an RTOS-style
// scheduler or a deterministic test harness.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Timing holds the empirically-required device settle times and the
// response budget.
type Timing struct {
	// ChunkDelay is the pause after every chunk write, giving the device
	// time to shift the bytes out of its I2C engine.
	ChunkDelay time.Duration

	// SegmentDelay is the longer pause after every segment. Newer device
	// firmware tolerates near-zero values here.
	SegmentDelay time.Duration

	// PollInterval is the pause between poll attempts while waiting for a
	// response.
	PollInterval time.Duration

	// ResponseTimeout bounds the total wait for a response, including the
	// drain performed by Reset and the startup handshake.
	ResponseTimeout time.Duration
}

// DefaultTiming returns the settle times known to work across device
// firmware revisions.
func DefaultTiming() Timing {
	return Timing{
		ChunkDelay:      20 * time.Millisecond,
		SegmentDelay:    250 * time.Millisecond,
		PollInterval:    25 * time.Millisecond,
		ResponseTimeout: 5 * time.Second,
	}
}

// State is the protocol state of the driver.
type State int

const (
	// StateHandshake is the initial state; any stale response left by a
	// prior session must be drained before the first request.
	StateHandshake State = iota

	// StateRequest means the driver is idle and ready to send a request.
	StateRequest

	// StatePoll means a request has been sent and the driver is waiting
	// for the device to report that a response is available.
	StatePoll

	// StateResponse means response bytes are being accumulated into the
	// shared buffer.
	StateResponse

	// StateResponseReady means the full response is in the shared buffer
	// and must be taken before a new request can be dispatched.
	StateResponseReady
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateRequest:
		return "request"
	case StatePoll:
		return "poll"
	case StateResponse:
		return "response"
	case StateResponseReady:
		return "response-ready"
	default:
		return "unknown"
	}
}
