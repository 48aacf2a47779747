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
	"errors"
	"fmt"
	"strings"
)

// Driver errors.
var (
	// ErrBusWrite indicates a failed write transaction on the underlying bus.
	ErrBusWrite = errors.New("bus write failed")

	// ErrBusRead indicates a failed read transaction on the underlying bus.
	ErrBusRead = errors.New("bus read failed")

	// ErrInvalidRequest indicates a request that does not end with the
	// newline terminator. No bus traffic is generated for such a request.
	ErrInvalidRequest = errors.New("request does not end with newline terminator")

	// ErrProtocolViolation indicates the device reported payload bytes in a
	// transfer where none were requested.
	ErrProtocolViolation = errors.New("unexpected payload bytes during availability query")

	// ErrWrongState indicates an operation invoked outside its valid
	// protocol state.
	ErrWrongState = errors.New("operation invalid in current state")

	// ErrBufferOverflow indicates serialized or accumulated data exceeding
	// the capacity of the shared buffer.
	ErrBufferOverflow = errors.New("data exceeds buffer capacity")

	// ErrEncode indicates a request value that could not be serialized.
	ErrEncode = errors.New("request encoding failed")

	// ErrTimeout indicates a response or drain exceeding its time budget.
	ErrTimeout = errors.New("timed out waiting for device response")

	// ErrFirmwareUpdate is reported when the device refuses a request
	// because a firmware update is in progress.
	ErrFirmwareUpdate = errors.New("device busy with firmware update")

	// ErrInvalidParameter indicates an out-of-range configuration value.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorType categorizes errors for retry decisions at a higher level. The
// engine itself never retries; callers decide based on the category.
type ErrorType int

const (
	// ErrorTypePermanent indicates errors that will not resolve on retry.
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates errors that may resolve on retry.
	ErrorTypeTransient
	// ErrorTypeTimeout indicates timeout-related errors.
	ErrorTypeTimeout
)

// BusError wraps a failure of the underlying bus transaction.
type BusError struct {
	Err error
	Op  string // "write" or "read"
}

// Error implements the error interface.
func (e *BusError) Error() string {
	return fmt.Sprintf("bus %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying bus error.
func (e *BusError) Unwrap() error {
	return e.Err
}

// Is reports ErrBusWrite or ErrBusRead depending on the failed operation.
func (e *BusError) Is(target error) bool {
	switch target {
	case ErrBusWrite:
		return e.Op == "write"
	case ErrBusRead:
		return e.Op == "read"
	}
	return false
}

// firmwareUpdateSentinels are substrings of device-reported error messages
// that get promoted to ErrFirmwareUpdate.
var firmwareUpdateSentinels = []string{
	"firmware update is in progress",
	"{dfu-in-progress}",
}

// CardError is an application-level error reported by the device as a
// normal response payload carrying an "err" field.
type CardError struct {
	Message string
}

// Error implements the error interface.
func (e *CardError) Error() string {
	return "notecard: " + e.Message
}

// Unwrap promotes recognized sentinel messages to their specific error.
func (e *CardError) Unwrap() error {
	for _, s := range firmwareUpdateSentinels {
		if strings.Contains(e.Message, s) {
			return ErrFirmwareUpdate
		}
	}
	return nil
}

// DecodeError indicates a response payload that could not be deserialized.
// Raw holds a snippet of the offending payload for diagnostics.
type DecodeError struct {
	Err error
	Raw []byte
}

// maxRawSnippet bounds the payload context carried by a DecodeError.
const maxRawSnippet = 120

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v: %q", e.Err, e.Raw)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func rawSnippet(body []byte) []byte {
	n := len(body)
	if n > maxRawSnippet {
		n = maxRawSnippet
	}
	out := make([]byte, n)
	copy(out, body[:n])
	return out
}

// IsRetryable returns true if the error may resolve on a retry of the
// request (after a Reset when the exchange was mid-flight).
func IsRetryable(err error) bool {
	return GetErrorType(err) != ErrorTypePermanent
}

// GetErrorType returns the retry category for an error.
func GetErrorType(err error) ErrorType {
	switch {
	case err == nil:
		return ErrorTypePermanent
	case errors.Is(err, ErrTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrBusWrite), errors.Is(err, ErrBusRead),
		errors.Is(err, ErrProtocolViolation), errors.Is(err, ErrFirmwareUpdate):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
