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

// Wire primitives for the serial-over-I2C protocol. Two transaction shapes
// exist, distinguished by the first written byte:
//
//   - chunk write:        [n, payload[n]] with n > 0
//   - availability query: [0, n] followed by a read of n+2 bytes, where the
//     first two received bytes are (bytes still available, bytes sent in
//     this transfer) and the rest is payload.

// maxChunk is the protocol ceiling for the payload of a single transfer.
// The length prefix and the two-byte read header are counted on top.
const maxChunk = 127

// chunkWrite sends one length-prefixed chunk of a request.
func (d *Device) chunkWrite(p []byte) error {
	d.scratch[0] = byte(len(p))
	copy(d.scratch[1:], p)
	if err := d.bus.Write(d.addr, d.scratch[:len(p)+1]); err != nil {
		return &BusError{Op: "write", Err: err}
	}
	return nil
}

// availQuery asks the device how many response bytes remain, requesting up
// to n of them in the same transaction. n == 0 is a pure poll; the device
// must not send payload bytes for it.
func (d *Device) availQuery(n int) (avail, sent int, payload []byte, err error) {
	d.scratch[0] = 0
	d.scratch[1] = byte(n)
	if err := d.bus.Write(d.addr, d.scratch[:2]); err != nil {
		return 0, 0, nil, &BusError{Op: "write", Err: err}
	}

	rd := d.scratch[:n+2]
	if err := d.bus.Read(d.addr, rd); err != nil {
		return 0, 0, nil, &BusError{Op: "read", Err: err}
	}

	avail = int(rd[0])
	sent = int(rd[1])
	d.log.Debug("avail query", "requested", n, "avail", avail, "sent", sent)

	if sent > n {
		return avail, sent, nil, ErrProtocolViolation
	}
	return avail, sent, rd[2 : 2+sent], nil
}
