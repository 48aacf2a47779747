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

// NTNAPI issues ntn.* requests for narrowband-satellite operation with a
// paired Starnote.
// https://dev.blues.io/api-reference/notecard-api/ntn-requests/
type NTNAPI struct {
	d *Device
}

// NTN returns the ntn.* request builder.
func (d *Device) NTN() NTNAPI {
	return NTNAPI{d: d}
}

// GPSSource selects whose GPS fix a paired Starnote uses.
type GPSSource int

// GPS sources for NTN operation.
const (
	// GPSDefault leaves the current setting untouched (query only).
	GPSDefault GPSSource = iota
	// GPSNotecard overrides the Starnote's fix with the Notecard's own.
	GPSNotecard
	// GPSStarnote restores the Starnote's own GPS (device default).
	GPSStarnote
)

// Reset clears the stored Starnote pairing, which survives a factory
// restore otherwise, allowing NTN mode testing over cellular or Wi-Fi.
func (a NTNAPI) Reset() (*Future[Empty], error) {
	return RequestRaw[Empty](a.d, []byte("{\"req\":\"ntn.reset\"}\n"))
}

// Status reports the state of the device's NTN connection.
func (a NTNAPI) Status() (*Future[NTNStatus], error) {
	return RequestRaw[NTNStatus](a.d, []byte("{\"req\":\"ntn.status\"}\n"))
}

// GPS gets or sets which GPS fix a paired Starnote uses.
func (a NTNAPI) GPS(source GPSSource) (*Future[NTNGPS], error) {
	req := ntnGPSRequest{Req: "ntn.gps"}
	switch source {
	case GPSNotecard:
		req.On = true
	case GPSStarnote:
		req.Off = true
	}
	return Request[NTNGPS](a.d, req)
}

type ntnGPSRequest struct {
	Req string `json:"req"`
	On  bool   `json:"on,omitempty"`
	Off bool   `json:"off,omitempty"`
}

// NTNStatus is the ntn.status response.
type NTNStatus struct {
	Err    string `json:"err"`
	Status string `json:"status"`
}

// NTNGPS is the ntn.gps response.
type NTNGPS struct {
	On  bool `json:"on"`
	Off bool `json:"off"`
}
