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

// notecard sends a single JSON request to a Notecard over I2C or serial
// and prints the response.
//
// Usage:
//
//	notecard req '{"req":"card.version"}'
//	echo '{"req":"hub.sync"}' | notecard req --serial /dev/ttyACM0
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	notecard "github.com/skagerrak/go-notecard"
	i2cbus "github.com/skagerrak/go-notecard/transport/i2c"
	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var log = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: true,
})

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal("command failed", "error", err)
	}
}

type options struct {
	i2cBus     string
	serialPort string
	baud       int
	addr       uint16
	timeout    time.Duration
	verbose    bool
}

func rootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "notecard",
		Short:        "Talk to a Blues Notecard over I2C or serial",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.verbose {
				log.SetLevel(charmlog.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.i2cBus, "i2c", "", "I2C bus name (empty selects the first available)")
	pf.StringVar(&opts.serialPort, "serial", "", "serial port (overrides I2C when set)")
	pf.IntVar(&opts.baud, "baud", 9600, "serial baud rate")
	pf.Uint16Var(&opts.addr, "addr", notecard.DefaultAddress, "I2C device address")
	pf.DurationVar(&opts.timeout, "timeout", 10*time.Second, "response timeout")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(reqCmd(opts))
	return root
}

func reqCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "req [json]",
		Short: "Send a single JSON request and print the response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !json.Valid(req) {
				return fmt.Errorf("request is not valid JSON: %s", req)
			}

			var resp []byte
			if opts.serialPort != "" {
				resp, err = serialRequest(opts, req)
			} else {
				resp, err = i2cRequest(cmd.Context(), opts, req)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(bytes.TrimRight(resp, "\r\n")))
			return nil
		},
	}
}

// readRequest takes the request from the argument if present, otherwise
// from stdin.
func readRequest(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 1 {
		return []byte(strings.TrimSpace(args[0])), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read request from stdin: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no request given: pass JSON as an argument or on stdin")
	}
	return data, nil
}

func i2cRequest(ctx context.Context, opts *options, req []byte) ([]byte, error) {
	bus, err := i2cbus.New(opts.i2cBus)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := bus.Close(); cerr != nil {
			log.Warn("failed to close I2C bus", "error", cerr)
		}
	}()

	dev, err := notecard.New(bus,
		notecard.WithAddress(opts.addr),
		notecard.WithResponseTimeout(opts.timeout),
		notecard.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	if err := dev.Initialize(); err != nil {
		return nil, fmt.Errorf("device handshake failed: %w", err)
	}
	log.Debug("sending request", "bytes", len(req))

	cmd := append(append([]byte(nil), req...), '\n')
	fut, err := notecard.RequestRaw[json.RawMessage](dev, cmd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	return fut.WaitRaw(ctx)
}

// serialRequest talks the plain newline-delimited JSON protocol the
// Notecard speaks on its USB and AUX serial ports. No chunking applies
// there, so it bypasses the I2C engine entirely.
func serialRequest(opts *options, req []byte) ([]byte, error) {
	mode := &serial.Mode{BaudRate: opts.baud}
	port, err := serial.Open(opts.serialPort, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", opts.serialPort, err)
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			log.Warn("failed to close serial port", "error", cerr)
		}
	}()

	if err := port.SetReadTimeout(opts.timeout); err != nil {
		return nil, fmt.Errorf("failed to set serial timeout: %w", err)
	}
	log.Debug("sending request", "port", opts.serialPort, "bytes", len(req))

	if _, err := port.Write(append(append([]byte(nil), req...), '\n')); err != nil {
		return nil, fmt.Errorf("serial write failed: %w", err)
	}

	resp, err := bufio.NewReader(port).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("serial read failed: %w", err)
	}
	return resp, nil
}
