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

// DFUAPI issues dfu.* requests for host firmware updates.
// https://dev.blues.io/api-reference/notecard-api/dfu-requests/
type DFUAPI struct {
	d *Device
}

// DFU returns the dfu.* request builder.
func (d *Device) DFU() DFUAPI {
	return DFUAPI{d: d}
}

// DFUStatusName selects whose firmware status dfu.status refers to.
type DFUStatusName string

// Known dfu.status names.
const (
	DFUStatusUser DFUStatusName = "user"
	DFUStatusCard DFUStatusName = "card"
)

// DFUStatusMode is the state of a firmware download.
type DFUStatusMode string

// Known dfu.status modes.
const (
	DFUModeIdle        DFUStatusMode = "idle"
	DFUModeError       DFUStatusMode = "error"
	DFUModeDownloading DFUStatusMode = "downloading"
	DFUModeReady       DFUStatusMode = "ready"
)

// Get retrieves a slice of downloaded firmware data. Functional only when
// the device has been put in DFU mode with hub.set. The payload comes back
// base64 encoded.
func (a DFUAPI) Get(length, offset int) (*Future[DFUPayload], error) {
	req := dfuGetRequest{Req: "dfu.get", Length: length, Offset: offset}
	return Request[DFUPayload](a.d, req)
}

// Status gets or sets the background download status of host or device
// firmware updates. The On pair is tri-state: nil leaves the setting
// untouched, true/false map to the exclusive on/off request fields.
func (a DFUAPI) Status(req DFUStatusRequest) (*Future[DFUStatus], error) {
	wire := dfuStatusRequest{
		Req:     "dfu.status",
		Name:    string(req.Name),
		Stop:    req.Stop,
		Status:  req.Status,
		Version: req.Version,
		VValue:  req.VValue,
		Err:     req.Err,
	}
	if req.On != nil {
		wire.On = *req.On
		wire.Off = !*req.On
	}
	return Request[DFUStatus](a.d, wire)
}

// DFUStatusRequest configures dfu.status.
type DFUStatusRequest struct {
	Name    DFUStatusName
	Stop    bool
	Status  string
	Version string
	VValue  string
	On      *bool
	Err     string
}

type dfuGetRequest struct {
	Req    string `json:"req"`
	Length int    `json:"length"`
	Offset int    `json:"offset,omitempty"`
}

type dfuStatusRequest struct {
	Req     string `json:"req"`
	Name    string `json:"name,omitempty"`
	Stop    bool   `json:"stop,omitempty"`
	Status  string `json:"status,omitempty"`
	Version string `json:"version,omitempty"`
	VValue  string `json:"vvalue,omitempty"`
	On      bool   `json:"on,omitempty"`
	Off     bool   `json:"off,omitempty"`
	Err     string `json:"err,omitempty"`
}

// DFUVersion describes host firmware for dfu.status version reporting. It
// is marshaled to JSON and passed as the version string.
type DFUVersion struct {
	Org         string `json:"org,omitempty"`
	Product     string `json:"product,omitempty"`
	Description string `json:"description,omitempty"`
	Firmware    string `json:"firmware,omitempty"`
	Version     string `json:"version"`
	VerMajor    uint32 `json:"ver_major"`
	VerMinor    uint32 `json:"ver_minor"`
	VerPatch    uint32 `json:"ver_patch"`
	VerBuild    uint32 `json:"ver_build,omitempty"`
	Built       string `json:"built,omitempty"`
	Builder     string `json:"builder,omitempty"`
}

// DFUPayload is the dfu.get response.
type DFUPayload struct {
	Payload string `json:"payload"`
}

// DFUStatusBody describes the staged firmware image.
type DFUStatusBody struct {
	CRC32    uint32 `json:"crc32"`
	Created  uint32 `json:"created"`
	Length   int    `json:"length"`
	MD5      string `json:"md5"`
	Modified uint32 `json:"modified"`
	Name     string `json:"name"`
	Notes    string `json:"notes"`
	Source   string `json:"source"`
	Type     string `json:"type"`
}

// DFUStatus is the dfu.status response.
type DFUStatus struct {
	Mode    DFUStatusMode  `json:"mode"`
	Status  string         `json:"status"`
	On      bool           `json:"on"`
	Off     bool           `json:"off"`
	Pending bool           `json:"pending"`
	Body    *DFUStatusBody `json:"body"`
}
