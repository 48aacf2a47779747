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

/*
Package notecard is a driver for the Blues Notecard's serial-over-I2C
protocol. Requests and responses are newline-terminated JSON objects, but
the device's I2C interface only accepts small transfers: every request is
split into length-prefixed chunks, and responses are polled for and
reassembled from availability-query reads. This package hides that behind
a small request/response API with deferred responses.

Protocol: https://dev.blues.io/notecard/notecard-walkthrough/notecard-guides/serial-over-i2c-protocol/
API: https://dev.blues.io/api-reference/notecard-api/introduction/

Basic usage:

	import (
	    notecard "github.com/skagerrak/go-notecard"
	    "github.com/skagerrak/go-notecard/transport/i2c"
	)

	bus, err := i2c.New("/dev/i2c-1")
	if err != nil {
	    log.Fatal(err)
	}
	defer bus.Close()

	dev, err := notecard.New(bus)
	if err != nil {
	    log.Fatal(err)
	}
	if err := dev.Initialize(); err != nil {
	    log.Fatal(err)
	}

	future, err := dev.Card().Time()
	if err != nil {
	    log.Fatal(err)
	}
	t, err := future.Wait(context.Background())

Exactly one request may be in flight at a time. Dispatching returns a
Future which must be consumed (Wait, a completed Poll, or Abandon) before
the next request; an unconsumed Future is recovered from by an implicit
reset on the next dispatch.

The engine never blocks on the bus: all waiting happens through a small
Clock interface, so the same driver runs on a busy-wait, an RTOS sleep or
a test scheduler.
*/
package notecard
