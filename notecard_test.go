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
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/skagerrak/go-notecard/internal/notetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPair builds an initialized driver on a simulated device with a
// manual clock, so tests run instantly regardless of the configured settle
// delays.
func newTestPair(t *testing.T, opts ...Option) (*Device, *notetest.Device, *notetest.Clock) {
	t.Helper()

	sim := &notetest.Device{}
	clk := notetest.NewClock()
	d, err := New(sim, append([]Option{WithClock(clk)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, d.Initialize())
	return d, sim, clk
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	sim := &notetest.Device{}
	d, err := New(sim, WithClock(notetest.NewClock()))
	require.NoError(t, err)
	assert.Equal(t, StateHandshake, d.State())

	require.NoError(t, d.Initialize())
	assert.Equal(t, StateRequest, d.State())

	// A second Initialize is a no-op and generates no bus traffic.
	writes := sim.Writes
	require.NoError(t, d.Initialize())
	assert.Equal(t, writes, sim.Writes)
}

func TestInitializeDrainsStaleResponse(t *testing.T) {
	t.Parallel()

	sim := &notetest.Device{}
	sim.Preload([]byte("{\"stale\":true}\n"))

	d, err := New(sim, WithClock(notetest.NewClock()))
	require.NoError(t, err)
	require.NoError(t, d.Initialize())
	assert.Equal(t, StateRequest, d.State())

	// The stale bytes must be gone: a fresh request gets the fresh
	// response, not the leftover.
	sim.QueueResponse([]byte(`{"usb":true}`))
	fut, err := d.Card().Status()
	require.NoError(t, err)
	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.USB)
}

func TestInitializeBusErrors(t *testing.T) {
	t.Parallel()

	t.Run("write", func(t *testing.T) {
		t.Parallel()
		sim := &notetest.Device{WriteErr: fmt.Errorf("nack")}
		d, err := New(sim, WithClock(notetest.NewClock()))
		require.NoError(t, err)
		err = d.Initialize()
		assert.ErrorIs(t, err, ErrBusWrite)
		assert.Equal(t, StateHandshake, d.State())
	})

	t.Run("read", func(t *testing.T) {
		t.Parallel()
		sim := &notetest.Device{ReadErr: fmt.Errorf("bus stuck")}
		d, err := New(sim, WithClock(notetest.NewClock()))
		require.NoError(t, err)
		err = d.Initialize()
		assert.ErrorIs(t, err, ErrBusRead)
	})
}

func TestPing(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	assert.True(t, d.Ping())

	sim.WriteErr = fmt.Errorf("no ack")
	assert.False(t, d.Ping())
}

func TestRequestResponseRoundTrip(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"status":"{normal}","usb":true,"storage":7,"connected":true}`))

	fut, err := d.Card().Status()
	require.NoError(t, err)
	assert.Equal(t, StatePoll, d.State())

	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{normal}", resp.Status)
	assert.True(t, resp.USB)
	assert.Equal(t, 7, resp.Storage)
	assert.True(t, resp.Connected)

	// The exchange is complete; the driver is idle again.
	assert.Equal(t, StateRequest, d.State())

	reqs := sim.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, `{"req":"card.status"}`, string(reqs[0]))
}

func TestRequestChunking(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"total":1}`))

	body := map[string]string{"data": strings.Repeat("a", 700)}
	fut, err := d.Note().Add(NoteAddRequest{File: "data.qo", Body: body})
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.NoError(t, err)

	// Every chunk respects the configured payload bound, and the chunks
	// reassemble to exactly the serialized request plus terminator.
	for _, c := range sim.Chunks {
		assert.LessOrEqual(t, len(c), defaultChunkSize)
	}
	joined := bytes.Join(sim.Chunks, nil)
	reqs := sim.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, append(reqs[0], '\n'), joined)
	assert.Contains(t, string(reqs[0]), `"req":"note.add"`)
}

func TestResponseReassembly(t *testing.T) {
	t.Parallel()

	// The device is free to hand the response back in arbitrary
	// increments; the driver must reassemble them in order.
	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"status":"connected (session open)","time":1700000000,"sync":true}`))
	sim.FeedSizes = []int{1, 2, 5, 13, 26}

	fut, err := d.Hub().SyncStatus()
	require.NoError(t, err)
	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connected (session open)", resp.Status)
	assert.Equal(t, uint32(1700000000), resp.Time)
	assert.True(t, resp.Sync)
}

func TestRequestTerminatorInvariant(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	writes, reads := sim.Writes, sim.Reads

	_, err := RequestRaw[Empty](d, []byte(`{"req":"card.status"}`))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = RequestRaw[Empty](d, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// A malformed request must not generate any bus traffic.
	assert.Equal(t, writes, sim.Writes)
	assert.Equal(t, reads, sim.Reads)
	assert.Equal(t, StateRequest, d.State())
}

func TestRequestBufferOverflow(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t, WithBufferSize(32))
	writes := sim.Writes

	big := append(bytes.Repeat([]byte{'x'}, 40), '\n')
	_, err := RequestRaw[Empty](d, big)
	assert.ErrorIs(t, err, ErrBufferOverflow)
	assert.Equal(t, writes, sim.Writes)

	_, err = d.Note().Add(NoteAddRequest{File: "data.qo", Body: strings.Repeat("y", 64)})
	assert.ErrorIs(t, err, ErrBufferOverflow)
	assert.Equal(t, writes, sim.Writes)
}

func TestProtocolViolation(t *testing.T) {
	t.Parallel()

	// A device that returns payload bytes for a zero-byte availability
	// query is misbehaving and must surface as a protocol violation, not
	// as corrupted response data.
	d, sim, _ := newTestPair(t)
	sim.SentOnPoll = 3

	fut, err := d.Card().Status()
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	assert.ErrorIs(t, err, ErrProtocolViolation)
	assert.True(t, IsRetryable(err))
}

func TestDispatchWhileBusyResets(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"first":1}`))

	// Dispatch and never consume the Future.
	_, err := d.Card().Status()
	require.NoError(t, err)
	assert.Equal(t, StatePoll, d.State())

	// The next dispatch recovers on its own: reset, drain the abandoned
	// response, then send.
	sim.QueueResponse([]byte(`{"device":"dev:000","product":"com.example:app"}`))
	fut, err := d.Hub().Get()
	require.NoError(t, err)
	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev:000", resp.Device)

	reqs := sim.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, `{"req":"card.status"}`, string(reqs[0]))
	assert.Equal(t, `{"req":"hub.get"}`, string(reqs[1]))
}

func TestResetFromIdle(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	require.NoError(t, d.Reset())
	assert.Equal(t, StateRequest, d.State())

	sim.QueueResponse([]byte(`{}`))
	fut, err := d.Card().Restart()
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.NoError(t, err)
}

func TestSuspendResume(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t, WithChunkSize(12))

	bus, state := d.Suspend()
	assert.Same(t, sim, bus)

	resumed := Resume(bus, state)
	assert.Equal(t, StateRequest, resumed.State())

	// Configuration survives the round trip.
	sim.QueueResponse([]byte(`{"total":1}`))
	fut, err := resumed.Note().Add(NoteAddRequest{File: "data.qo", Body: map[string]int{"v": 1}})
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.NoError(t, err)
	for _, c := range sim.Chunks {
		assert.LessOrEqual(t, len(c), 12)
	}
}

func TestSuspendMidExchange(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"usb":true}`))
	_, err := d.Card().Status()
	require.NoError(t, err)

	bus, state := d.Suspend()
	resumed := Resume(bus, state)

	// The exchange picks up exactly where it stopped.
	assert.Equal(t, StatePoll, resumed.State())
	fut, err := RequestRaw[CardStatus](resumed, nil)
	assert.Error(t, err)
	assert.Nil(t, fut)
}

func TestSetBufferSize(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestPair(t)

	assert.ErrorIs(t, d.SetBufferSize(0), ErrInvalidParameter)
	assert.ErrorIs(t, d.SetBufferSize(-1), ErrInvalidParameter)
	require.NoError(t, d.SetBufferSize(64))

	big := append(bytes.Repeat([]byte{'x'}, 80), '\n')
	_, err := RequestRaw[Empty](d, big)
	assert.ErrorIs(t, err, ErrBufferOverflow)
}

func TestOptionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero address", WithAddress(0)},
		{"address above 7-bit range", WithAddress(0x80)},
		{"zero buffer", WithBufferSize(0)},
		{"zero chunk", WithChunkSize(0)},
		{"chunk above protocol ceiling", WithChunkSize(maxChunk + 1)},
		{"zero segment", WithSegmentSize(0)},
		{"nil clock", WithClock(nil)},
		{"nil logger", WithLogger(nil)},
		{"zero timeout", WithResponseTimeout(0)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(&notetest.Device{}, tt.opt)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "handshake", StateHandshake.String())
	assert.Equal(t, "request", StateRequest.String())
	assert.Equal(t, "poll", StatePoll.String())
	assert.Equal(t, "response", StateResponse.String())
	assert.Equal(t, "response-ready", StateResponseReady.String())
	assert.Equal(t, "unknown", State(99).String())
}
