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
	"context"
	"testing"

	"github.com/skagerrak/go-notecard/internal/notetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenRequest dispatches one request against a simulated device and
// returns the exact bytes that went over the wire, terminator stripped.
func goldenRequest(t *testing.T, dispatch func(d *Device) error) string {
	t.Helper()

	sim := &notetest.Device{
		Handler: func([]byte) []byte { return []byte(`{}`) },
	}
	d, err := New(sim, WithClock(notetest.NewClock()))
	require.NoError(t, err)
	require.NoError(t, d.Initialize())

	require.NoError(t, dispatch(d))
	reqs := sim.Requests()
	require.Len(t, reqs, 1)
	return string(reqs[0])
}

func TestCardRequestWire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dispatch func(d *Device) error
		want     string
	}{
		{
			name: "time",
			dispatch: func(d *Device) error {
				_, err := d.Card().Time()
				return err
			},
			want: `{"req":"card.time"}`,
		},
		{
			name: "status",
			dispatch: func(d *Device) error {
				_, err := d.Card().Status()
				return err
			},
			want: `{"req":"card.status"}`,
		},
		{
			name: "restart",
			dispatch: func(d *Device) error {
				_, err := d.Card().Restart()
				return err
			},
			want: `{"req":"card.restart"}`,
		},
		{
			name: "location mode periodic",
			dispatch: func(d *Device) error {
				_, err := d.Card().LocationMode(CardLocationModeRequest{Mode: "periodic", Seconds: 3600})
				return err
			},
			want: `{"req":"card.location.mode","mode":"periodic","seconds":3600}`,
		},
		{
			name: "location track start",
			dispatch: func(d *Device) error {
				_, err := d.Card().LocationTrack(true, true, false, 0, "")
				return err
			},
			want: `{"req":"card.location.track","start":true,"heartbeat":true}`,
		},
		{
			name: "location track stop",
			dispatch: func(d *Device) error {
				_, err := d.Card().LocationTrack(false, false, false, 0, "")
				return err
			},
			want: `{"req":"card.location.track","stop":true}`,
		},
		{
			name: "wireless query",
			dispatch: func(d *Device) error {
				_, err := d.Card().Wireless("", "", "", 0)
				return err
			},
			want: `{"req":"card.wireless"}`,
		},
		{
			name: "wireless set apn",
			dispatch: func(d *Device) error {
				_, err := d.Card().Wireless("auto", "myapn.nb", "dual-primary-secondary", 0)
				return err
			},
			want: `{"req":"card.wireless","mode":"auto","apn":"myapn.nb","method":"dual-primary-secondary"}`,
		},
		{
			name: "dfu enable",
			dispatch: func(d *Device) error {
				_, err := d.Card().DFU(DFUNameESP32, Bool(true), nil)
				return err
			},
			want: `{"req":"card.dfu","name":"esp32","on":true}`,
		},
		{
			name: "dfu disable and stop",
			dispatch: func(d *Device) error {
				_, err := d.Card().DFU(DFUNameSTM32, Bool(false), Bool(true))
				return err
			},
			want: `{"req":"card.dfu","name":"stm32","off":true,"stop":true}`,
		},
		{
			name: "dfu resume",
			dispatch: func(d *Device) error {
				_, err := d.Card().DFU("", nil, Bool(false))
				return err
			},
			want: `{"req":"card.dfu","start":true}`,
		},
		{
			name: "transport cell fallback",
			dispatch: func(d *Device) error {
				_, err := d.Card().Transport(TransportWiFiCellNTN, Bool(true), nil)
				return err
			},
			want: `{"req":"card.transport","method":"wifi-cell-ntn","allow":true}`,
		},
		{
			name: "transport reset",
			dispatch: func(d *Device) error {
				_, err := d.Card().Transport(TransportReset, nil, nil)
				return err
			},
			want: `{"req":"card.transport","method":"-"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goldenRequest(t, tt.dispatch))
		})
	}
}

func TestCardTimeResponse(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"time":1599769214,"area":"Beverly, MA","zone":"CDT,America/New_York",` +
		`"minutes":-300,"lat":42.5776,"lon":-70.87134,"country":"US"}`))

	fut, err := d.Card().Time()
	require.NoError(t, err)
	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint32(1599769214), resp.Time)
	assert.Equal(t, "Beverly, MA", resp.Area)
	assert.Equal(t, "CDT,America/New_York", resp.Zone)
	assert.Equal(t, -300, resp.Minutes)
	assert.InDelta(t, 42.5776, resp.Lat, 1e-9)
	assert.InDelta(t, -70.87134, resp.Lon, 1e-9)
	assert.Equal(t, "US", resp.Country)
}

func TestCardVersionResponse(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"version":"notecard-7.5.2.17004","device":"dev:000000000000000",` +
		`"name":"Blues Wireless Notecard","sku":"NOTE-WBEXW","ordering_code":"NOTE-WBEX-500",` +
		`"board":"5.13","api":4,"cell":true,"gps":true,` +
		`"body":{"org":"Blues Wireless","product":"Notecard","target":"r5","version":"notecard-u5-7.5.2",` +
		`"ver_major":7,"ver_minor":5,"ver_patch":2,"ver_build":17004,"built":"Nov 14 2024 16:04:29"}}`))

	fut, err := d.Card().Version()
	require.NoError(t, err)
	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "notecard-7.5.2.17004", resp.Version)
	assert.Equal(t, "NOTE-WBEXW", resp.SKU)
	assert.Equal(t, "NOTE-WBEX-500", resp.OrderingCode)
	assert.Equal(t, 4, resp.API)
	assert.True(t, resp.Cell)
	assert.True(t, resp.GPS)
	assert.Equal(t, 7, resp.Body.VerMajor)
	assert.Equal(t, 5, resp.Body.VerMinor)
	assert.Equal(t, 2, resp.Body.VerPatch)
	assert.Equal(t, "Blues Wireless", resp.Body.Org)
}

func TestCardWirelessResponse(t *testing.T) {
	t.Parallel()

	d, sim, _ := newTestPair(t)
	sim.QueueResponse([]byte(`{"status":"{modem-off}","count":1,"mode":"auto",` +
		`"net":{"iccid":"89011703278520607527","imsi":"310170852060752","imei":"864475044204278",` +
		`"modem":"BG95M3LAR02A03_01.006.01.006","band":"LTE BAND 2","rat":"emtc",` +
		`"rssir":-69,"rssi":-70,"rsrp":-99,"sinr":12,"rsrq":-9,"bars":2,` +
		`"mcc":310,"mnc":410,"lac":28681,"cid":211150856,"updated":1599225076}}`))

	fut, err := d.Card().Wireless("", "", "", 0)
	require.NoError(t, err)
	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "{modem-off}", resp.Status)
	assert.Equal(t, 1, resp.Count)
	require.NotNil(t, resp.Net)
	assert.Equal(t, "emtc", resp.Net.RAT)
	assert.Equal(t, 2, resp.Net.Bars)
	assert.Equal(t, 310, resp.Net.MCC)
	assert.Equal(t, uint32(1599225076), resp.Net.Updated)
}
