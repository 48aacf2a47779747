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
	"encoding/json"
	"fmt"
)

// Request serializes req as a JSON object, dispatches it and returns a
// Future for the response. The driver must be idle; if a previous exchange
// was left unconsumed it is reset first.
func Request[T any](d *Device, req any) (*Future[T], error) {
	if err := d.requestTyped(req); err != nil {
		return nil, err
	}
	return newFuture[T](d), nil
}

// RequestRaw dispatches a pre-serialized request. The bytes must already
// end with the newline terminator.
func RequestRaw[T any](d *Device, cmd []byte) (*Future[T], error) {
	if err := d.requestRaw(cmd); err != nil {
		return nil, err
	}
	return newFuture[T](d), nil
}

func (d *Device) requestTyped(req any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if len(data)+1 > cap(d.buf) {
		return ErrBufferOverflow
	}

	if err := d.ready(); err != nil {
		return err
	}

	d.buf = append(d.buf[:0], data...)
	// The terminator tells the device the request is complete.
	d.buf = append(d.buf, '\n')
	return d.sendRequest()
}

func (d *Device) requestRaw(cmd []byte) error {
	if len(cmd) == 0 || cmd[len(cmd)-1] != '\n' {
		return ErrInvalidRequest
	}
	if len(cmd) > cap(d.buf) {
		return ErrBufferOverflow
	}

	if err := d.ready(); err != nil {
		return err
	}

	d.buf = append(d.buf[:0], cmd...)
	return d.sendRequest()
}

// sendRequest writes the buffer to the device, split into segments of
// chunks with the configured settle delay after each, then moves the
// driver to the poll state.
func (d *Device) sendRequest() error {
	if d.state != StateRequest {
		return ErrWrongState
	}
	if len(d.buf) == 0 || d.buf[len(d.buf)-1] != '\n' {
		return ErrInvalidRequest
	}

	d.log.Debug("sending request", "bytes", len(d.buf))

	for seg := 0; seg < len(d.buf); seg += d.segmentSize {
		segEnd := seg + d.segmentSize
		if segEnd > len(d.buf) {
			segEnd = len(d.buf)
		}
		for off := seg; off < segEnd; off += d.chunkSize {
			end := off + d.chunkSize
			if end > segEnd {
				end = segEnd
			}
			if err := d.chunkWrite(d.buf[off:end]); err != nil {
				return err
			}
			d.clock.Sleep(d.timing.ChunkDelay)
		}
		d.clock.Sleep(d.timing.SegmentDelay)
	}

	d.attempts = 0
	d.state = StatePoll
	return nil
}
