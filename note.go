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

// NoteAPI issues note.* requests.
// https://dev.blues.io/api-reference/notecard-api/note-requests/
type NoteAPI struct {
	d *Device
}

// Note returns the note.* request builder.
func (d *Device) Note() NoteAPI {
	return NoteAPI{d: d}
}

// Add adds a note to a Notefile, creating the Notefile if it does not yet
// exist. Body is marshaled as the note's JSON body; Payload carries
// base64 binary data.
func (n NoteAPI) Add(req NoteAddRequest) (*Future[NoteAdd], error) {
	req.Req = "note.add"
	return Request[NoteAdd](n.d, req)
}

// Update replaces the body and/or payload of a note in a DB Notefile.
func (n NoteAPI) Update(file, note string, body any, payload string, verify bool) (*Future[Empty], error) {
	req := noteUpdateRequest{
		Req:     "note.update",
		File:    file,
		Note:    note,
		Body:    body,
		Payload: payload,
		Verify:  verify,
	}
	return Request[Empty](n.d, req)
}

// Get retrieves a note from a DB or inbound queue Notefile. delete removes
// the note after reading; deleted also returns tombstoned notes.
func (n NoteAPI) Get(file, note string, delete, deleted bool) (*Future[NoteRecord], error) {
	req := noteGetRequest{
		Req:     "note.get",
		File:    file,
		Note:    note,
		Delete:  delete,
		Deleted: deleted,
	}
	return Request[NoteRecord](n.d, req)
}

// Template provides the device with a schema for future notes added to a
// queue Notefile, letting it store them as fixed-length binary records
// instead of JSON.
func (n NoteAPI) Template(file string, body any, length uint32) (*Future[NoteTemplate], error) {
	req := noteTemplateRequest{
		Req:    "note.template",
		File:   file,
		Body:   body,
		Length: length,
	}
	return Request[NoteTemplate](n.d, req)
}

// NoteAddRequest configures note.add.
type NoteAddRequest struct {
	Req     string `json:"req"`
	File    string `json:"file,omitempty"`
	Note    string `json:"note,omitempty"`
	Body    any    `json:"body,omitempty"`
	Payload string `json:"payload,omitempty"`
	Sync    bool   `json:"sync,omitempty"`
	Key     string `json:"key,omitempty"`
	Verify  bool   `json:"verify,omitempty"`
}

type noteUpdateRequest struct {
	Req     string `json:"req"`
	File    string `json:"file"`
	Note    string `json:"note"`
	Body    any    `json:"body,omitempty"`
	Payload string `json:"payload,omitempty"`
	Verify  bool   `json:"verify"`
}

type noteGetRequest struct {
	Req     string `json:"req"`
	File    string `json:"file"`
	Note    string `json:"note"`
	Delete  bool   `json:"delete"`
	Deleted bool   `json:"deleted"`
}

type noteTemplateRequest struct {
	Req    string `json:"req"`
	File   string `json:"file,omitempty"`
	Body   any    `json:"body,omitempty"`
	Length uint32 `json:"length,omitempty"`
}

// NoteAdd is the note.add response.
type NoteAdd struct {
	Total    uint32 `json:"total"`
	Template bool   `json:"template"`
}

// NoteRecord is the note.get response. Body is left raw for the caller to
// unmarshal into its own shape.
type NoteRecord struct {
	Body    json.RawMessage `json:"body"`
	Payload string          `json:"payload"`
	Time    uint32          `json:"time"`
}

// NoteTemplate is the note.template response.
type NoteTemplate struct {
	Bytes uint32 `json:"bytes"`
}
