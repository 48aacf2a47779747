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

// Package i2c provides an I2C bus backed by periph.io for talking to a
// Notecard on Linux and other hosts periph supports.
package i2c

import (
	"fmt"

	notecard "github.com/skagerrak/go-notecard"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// The Notecard's I2C port is only specified up to 100 kHz.
const maxClockFreq = 100 * physic.KiloHertz

// Bus is a periph.io-backed implementation of notecard.Bus. A Bus may
// carry devices at several addresses; the address is supplied per
// transaction by the driver.
type Bus struct {
	bus     i2c.BusCloser
	busName string
}

// New initializes the periph host and opens the named I2C bus. An empty
// name selects the first available bus.
func New(busName string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", busName, err)
	}

	// Some adapters reject speed changes; the default is acceptable.
	_ = bus.SetSpeed(maxClockFreq)

	return &Bus{bus: bus, busName: busName}, nil
}

// Write performs a single write transaction to addr.
func (b *Bus) Write(addr uint16, p []byte) error {
	if err := b.bus.Tx(addr, p, nil); err != nil {
		return fmt.Errorf("i2c write %s@%#02x: %w", b.busName, addr, err)
	}
	return nil
}

// Read performs a single read transaction from addr, filling p.
func (b *Bus) Read(addr uint16, p []byte) error {
	if err := b.bus.Tx(addr, nil, p); err != nil {
		return fmt.Errorf("i2c read %s@%#02x: %w", b.busName, addr, err)
	}
	return nil
}

// Close releases the underlying bus handle.
func (b *Bus) Close() error {
	return b.bus.Close()
}

// Ensure Bus implements notecard.Bus.
var _ notecard.Bus = (*Bus)(nil)
