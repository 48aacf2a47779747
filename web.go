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

import "encoding/json"

// WebAPI issues web.* relay requests through the hub's route mechanism.
// The device must be connected (continuous mode) for these to work.
// https://dev.blues.io/api-reference/notecard-api/web-requests/
type WebAPI struct {
	d *Device
}

// Web returns the web.* request builder.
func (d *Device) Web() WebAPI {
	return WebAPI{d: d}
}

// Post relays an HTTP POST through the named hub route. name is appended
// to the route URL; body is marshaled as the JSON request body and payload
// carries base64 binary data.
func (w WebAPI) Post(route, name string, body any, payload string) (*Future[WebResponse], error) {
	req := webRequest{Req: "web.post", Route: route, Name: name, Body: body, Payload: payload}
	return Request[WebResponse](w.d, req)
}

// Get relays an HTTP GET through the named hub route.
func (w WebAPI) Get(route, name string) (*Future[WebResponse], error) {
	req := webRequest{Req: "web.get", Route: route, Name: name}
	return Request[WebResponse](w.d, req)
}

type webRequest struct {
	Req     string `json:"req"`
	Route   string `json:"route"`
	Name    string `json:"name,omitempty"`
	Body    any    `json:"body,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// WebResponse is the response to a relayed web request. Result is the HTTP
// status code reported by the remote endpoint.
type WebResponse struct {
	Result  int             `json:"result"`
	Body    json.RawMessage `json:"body"`
	Payload string          `json:"payload"`
}
