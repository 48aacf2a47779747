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

// HubAPI issues hub.* requests.
// https://dev.blues.io/api-reference/notecard-api/hub-requests/
type HubAPI struct {
	d *Device
}

// Hub returns the hub.* request builder.
func (d *Device) Hub() HubAPI {
	return HubAPI{d: d}
}

// HubMode is the connection mode towards the hub.
type HubMode string

// Known hub modes.
const (
	HubModePeriodic   HubMode = "periodic"
	HubModeContinuous HubMode = "continuous"
	HubModeMinimum    HubMode = "minimum"
	HubModeOff        HubMode = "off"
	HubModeDFU        HubMode = "dfu"
)

// Get retrieves the current hub configuration.
func (h HubAPI) Get() (*Future[HubSettings], error) {
	return RequestRaw[HubSettings](h.d, []byte("{\"req\":\"hub.get\"}\n"))
}

// Set is the primary method for controlling the device's hub connection
// and sync behavior. Zero-valued fields are omitted from the request.
func (h HubAPI) Set(req HubSetRequest) (*Future[Empty], error) {
	req.Req = "hub.set"
	return Request[Empty](h.d, req)
}

// Sync manually initiates a sync with the hub. allow additionally removes
// the device from any penalty box.
func (h HubAPI) Sync(allow bool) (*Future[Empty], error) {
	req := hubSyncRequest{Req: "hub.sync", Allow: allow}
	return Request[Empty](h.d, req)
}

// SyncStatus checks on a recently triggered or previous sync.
func (h HubAPI) SyncStatus() (*Future[HubSyncStatus], error) {
	return RequestRaw[HubSyncStatus](h.d, []byte("{\"req\":\"hub.sync.status\"}\n"))
}

// Log adds a device-health log message to send to the hub on the next
// sync.
func (h HubAPI) Log(text string, alert, sync bool) (*Future[Empty], error) {
	req := hubLogRequest{Req: "hub.log", Text: text, Alert: alert, Sync: sync}
	return Request[Empty](h.d, req)
}

// HubSetRequest configures hub.set.
type HubSetRequest struct {
	Req       string  `json:"req"`
	Product   string  `json:"product,omitempty"`
	Host      string  `json:"host,omitempty"`
	Mode      HubMode `json:"mode,omitempty"`
	SN        string  `json:"sn,omitempty"`
	Outbound  uint32  `json:"outbound,omitempty"`
	Duration  uint32  `json:"duration,omitempty"`
	VOutbound string  `json:"voutbound,omitempty"`
	Inbound   uint32  `json:"inbound,omitempty"`
	VInbound  string  `json:"vinbound,omitempty"`
	Align     *bool   `json:"align,omitempty"`
	Sync      *bool   `json:"sync,omitempty"`
}

type hubSyncRequest struct {
	Req   string `json:"req"`
	Allow bool   `json:"allow,omitempty"`
}

type hubLogRequest struct {
	Req   string `json:"req"`
	Text  string `json:"text"`
	Alert bool   `json:"alert"`
	Sync  bool   `json:"sync"`
}

// HubSettings is the hub.get response.
type HubSettings struct {
	Device    string  `json:"device"`
	Product   string  `json:"product"`
	Mode      HubMode `json:"mode"`
	Outbound  uint32  `json:"outbound"`
	VOutbound float64 `json:"voutbound"`
	Inbound   uint32  `json:"inbound"`
	VInbound  float64 `json:"vinbound"`
	Host      string  `json:"host"`
	SN        string  `json:"sn"`
	Sync      bool    `json:"sync"`
}

// HubSyncStatus is the hub.sync.status response.
type HubSyncStatus struct {
	Status    string `json:"status"`
	Time      uint32 `json:"time"`
	Sync      bool   `json:"sync"`
	Completed uint32 `json:"completed"`
	Requested uint32 `json:"requested"`
}
