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
	"encoding/json"
)

// errMarker prefixes every device-reported error payload.
var errMarker = []byte(`{"err":`)

// Future is the handle for an in-flight request. No new request can be
// dispatched until the Future has been consumed, either by a successful
// Poll/Wait or by Abandon. Dropping a Future without consuming it leaves
// the driver mid-protocol; the next dispatch recovers with an implicit
// Reset, at the cost of the drain delay.
type Future[T any] struct {
	d    *Device
	done bool
}

func newFuture[T any](d *Device) *Future[T] {
	d.inflight = true
	return &Future[T]{d: d}
}

// Poll drives the exchange one step without blocking. It returns
// (nil, nil) while the response is still underway; the caller decides how
// to wait between attempts. Once a value or an error has been returned the
// Future is consumed.
func (f *Future[T]) Poll() (*T, error) {
	if f.done {
		return nil, ErrWrongState
	}

	body, err := f.d.step()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	f.done = true
	return decodeResponse[T](body)
}

// Wait blocks until the response arrives, the configured response timeout
// elapses, or ctx is cancelled. Waiting happens in the driver's Clock.
func (f *Future[T]) Wait(ctx context.Context) (*T, error) {
	deadline := f.d.clock.Now().Add(f.d.timing.ResponseTimeout)
	for {
		v, err := f.Poll()
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.d.clock.Now().After(deadline) {
			return nil, ErrTimeout
		}
		f.d.clock.Sleep(f.d.timing.PollInterval)
	}
}

// WaitRaw blocks like Wait but returns the raw response bytes without
// deserialization or error classification. The returned slice is a copy
// owned by the caller.
func (f *Future[T]) WaitRaw(ctx context.Context) ([]byte, error) {
	if f.done {
		return nil, ErrWrongState
	}

	deadline := f.d.clock.Now().Add(f.d.timing.ResponseTimeout)
	for {
		body, err := f.d.step()
		if err != nil {
			return nil, err
		}
		if body != nil {
			f.done = true
			out := make([]byte, len(body))
			copy(out, body)
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.d.clock.Now().After(deadline) {
			return nil, ErrTimeout
		}
		f.d.clock.Sleep(f.d.timing.PollInterval)
	}
}

// Abandon gives up on the exchange and resets the driver so that a new
// request can be dispatched. Calling it on a consumed Future is a no-op.
func (f *Future[T]) Abandon() error {
	if f.done {
		return nil
	}
	f.done = true
	return f.d.Reset()
}

// decodeResponse classifies and deserializes a completed response body. A
// payload starting with the error marker is decoded as a device-reported
// error; recognized sentinel messages are promoted to specific errors via
// CardError.Unwrap.
func decodeResponse[T any](body []byte) (*T, error) {
	if bytes.HasPrefix(body, errMarker) {
		var ce struct {
			Err string `json:"err"`
		}
		if err := json.Unmarshal(body, &ce); err != nil {
			return nil, &DecodeError{Err: err, Raw: rawSnippet(body)}
		}
		return nil, &CardError{Message: ce.Err}
	}

	v := new(T)
	if err := json.Unmarshal(body, v); err != nil {
		return nil, &DecodeError{Err: err, Raw: rawSnippet(body)}
	}
	return v, nil
}
