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

// CardAPI issues card.* requests.
// https://dev.blues.io/api-reference/notecard-api/card-requests/
type CardAPI struct {
	d *Device
}

// Card returns the card.* request builder.
func (d *Device) Card() CardAPI {
	return CardAPI{d: d}
}

// TransportMethod selects the radio(s) used to reach the hub.
type TransportMethod string

// Known card.transport methods.
const (
	TransportReset       TransportMethod = "-"
	TransportWiFiCell    TransportMethod = "wifi-cell"
	TransportWiFi        TransportMethod = "wifi"
	TransportCell        TransportMethod = "cell"
	TransportNTN         TransportMethod = "ntn"
	TransportWiFiNTN     TransportMethod = "wifi-ntn"
	TransportCellNTN     TransportMethod = "cell-ntn"
	TransportWiFiCellNTN TransportMethod = "wifi-cell-ntn"
)

// DFUName identifies the host MCU class for outboard firmware updates.
type DFUName string

// Known card.dfu names.
const (
	DFUNameESP32   DFUName = "esp32"
	DFUNameSTM32   DFUName = "stm32"
	DFUNameSTM32BI DFUName = "stm32-bi"
	DFUNameMCUBoot DFUName = "mcuboot"
	DFUNameReset   DFUName = "-"
)

// Time retrieves current date and time information. Until the device has
// synced once, this comes back as a device error with zone "UTC,Unknown".
func (c CardAPI) Time() (*Future[CardTime], error) {
	return RequestRaw[CardTime](c.d, []byte("{\"req\":\"card.time\"}\n"))
}

// Status returns general information about the device's operating status.
func (c CardAPI) Status() (*Future[CardStatus], error) {
	return RequestRaw[CardStatus](c.d, []byte("{\"req\":\"card.status\"}\n"))
}

// Restart performs a firmware restart of the device.
func (c CardAPI) Restart() (*Future[Empty], error) {
	return RequestRaw[Empty](c.d, []byte("{\"req\":\"card.restart\"}\n"))
}

// Location retrieves the device's current position.
func (c CardAPI) Location() (*Future[CardLocation], error) {
	return RequestRaw[CardLocation](c.d, []byte("{\"req\":\"card.location\"}\n"))
}

// Version returns firmware version information.
func (c CardAPI) Version() (*Future[CardVersion], error) {
	return RequestRaw[CardVersion](c.d, []byte("{\"req\":\"card.version\"}\n"))
}

// LocationMode sets location-related configuration. With a zero-value
// request it retrieves the current mode instead.
func (c CardAPI) LocationMode(req CardLocationModeRequest) (*Future[CardLocationMode], error) {
	req.Req = "card.location.mode"
	return Request[CardLocationMode](c.d, req)
}

// LocationTrack stores location data in a Notefile at the periodic
// interval. Only available once the location mode has been set to
// periodic. start selects between the start and stop forms of the request.
func (c CardAPI) LocationTrack(start, heartbeat, sync bool, hours int, file string) (*Future[CardLocationTrack], error) {
	req := cardLocationTrackRequest{
		Req:       "card.location.track",
		Start:     start,
		Stop:      !start,
		Heartbeat: heartbeat,
		Sync:      sync,
		Hours:     hours,
		File:      file,
	}
	return Request[CardLocationTrack](c.d, req)
}

// Wireless retrieves the state of the device's modem, or sets its mode and
// access point configuration.
func (c CardAPI) Wireless(mode, apn, method string, hours uint32) (*Future[CardWireless], error) {
	req := cardWirelessRequest{
		Req:    "card.wireless",
		Mode:   mode,
		APN:    apn,
		Method: method,
		Hours:  hours,
	}
	return Request[CardWireless](c.d, req)
}

// DFU configures the outboard firmware update feature. The on and stop
// pairs are tri-state: nil leaves the setting untouched, true/false map to
// the mutually exclusive on/off and stop/start request fields.
func (c CardAPI) DFU(name DFUName, on, stop *bool) (*Future[CardDFU], error) {
	req := cardDFURequest{Req: "card.dfu", Name: string(name)}
	if on != nil {
		req.On = *on
		req.Off = !*on
	}
	if stop != nil {
		req.Stop = *stop
		req.Start = !*stop
	}
	return Request[CardDFU](c.d, req)
}

// Transport selects which radio the device uses to reach the hub.
func (c CardAPI) Transport(method TransportMethod, allow, umin *bool) (*Future[CardTransport], error) {
	req := cardTransportRequest{Req: "card.transport", Method: string(method), Allow: allow, UMin: umin}
	return Request[CardTransport](c.d, req)
}

// CardLocationModeRequest configures card.location.mode. Zero values are
// omitted from the request.
type CardLocationModeRequest struct {
	Req      string  `json:"req"`
	Mode     string  `json:"mode,omitempty"`
	Seconds  uint32  `json:"seconds,omitempty"`
	VSeconds string  `json:"vseconds,omitempty"`
	Delete   bool    `json:"delete,omitempty"`
	Max      uint32  `json:"max,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	Minutes  uint32  `json:"minutes,omitempty"`
}

type cardLocationTrackRequest struct {
	Req       string `json:"req"`
	Start     bool   `json:"start,omitempty"`
	Stop      bool   `json:"stop,omitempty"`
	Heartbeat bool   `json:"heartbeat,omitempty"`
	Sync      bool   `json:"sync,omitempty"`
	Hours     int    `json:"hours,omitempty"`
	File      string `json:"file,omitempty"`
}

type cardWirelessRequest struct {
	Req    string `json:"req"`
	Mode   string `json:"mode,omitempty"`
	APN    string `json:"apn,omitempty"`
	Method string `json:"method,omitempty"`
	Hours  uint32 `json:"hours,omitempty"`
}

type cardDFURequest struct {
	Req   string `json:"req"`
	Name  string `json:"name,omitempty"`
	On    bool   `json:"on,omitempty"`
	Off   bool   `json:"off,omitempty"`
	Stop  bool   `json:"stop,omitempty"`
	Start bool   `json:"start,omitempty"`
}

type cardTransportRequest struct {
	Req    string `json:"req"`
	Method string `json:"method"`
	Allow  *bool  `json:"allow,omitempty"`
	UMin   *bool  `json:"umin,omitempty"`
}

// Empty is the response shape for requests that only acknowledge.
type Empty struct{}

// CardTime is the card.time response.
type CardTime struct {
	Time    uint32  `json:"time"`
	Area    string  `json:"area"`
	Zone    string  `json:"zone"`
	Minutes int     `json:"minutes"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// CardStatus is the card.status response.
type CardStatus struct {
	Status    string `json:"status"`
	USB       bool   `json:"usb"`
	Storage   int    `json:"storage"`
	Time      uint64 `json:"time"`
	Connected bool   `json:"connected"`
}

// CardLocation is the card.location response.
type CardLocation struct {
	Status string  `json:"status"`
	Mode   string  `json:"mode"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Time   uint32  `json:"time"`
	Max    uint32  `json:"max"`
}

// CardLocationMode is the card.location.mode response.
type CardLocationMode struct {
	Mode     string  `json:"mode"`
	Seconds  uint32  `json:"seconds"`
	VSeconds string  `json:"vseconds"`
	Max      uint32  `json:"max"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Minutes  uint32  `json:"minutes"`
}

// CardLocationTrack is the card.location.track response.
type CardLocationTrack struct {
	Start     bool   `json:"start"`
	Stop      bool   `json:"stop"`
	Heartbeat bool   `json:"heartbeat"`
	Seconds   uint32 `json:"seconds"`
	Hours     int    `json:"hours"`
	File      string `json:"file"`
}

// CardWirelessNet describes the modem's network registration.
type CardWirelessNet struct {
	ICCID   string `json:"iccid"`
	IMSI    string `json:"imsi"`
	IMEI    string `json:"imei"`
	Modem   string `json:"modem"`
	Band    string `json:"band"`
	RAT     string `json:"rat"`
	RSSIR   int    `json:"rssir"`
	RSSI    int    `json:"rssi"`
	RSRP    int    `json:"rsrp"`
	SINR    int    `json:"sinr"`
	RSRQ    int    `json:"rsrq"`
	Bars    int    `json:"bars"`
	MCC     int    `json:"mcc"`
	MNC     int    `json:"mnc"`
	LAC     int    `json:"lac"`
	CID     int    `json:"cid"`
	Updated uint32 `json:"updated"`
}

// CardWireless is the card.wireless response.
type CardWireless struct {
	Status string           `json:"status"`
	Mode   string           `json:"mode"`
	Count  int              `json:"count"`
	Net    *CardWirelessNet `json:"net"`
}

// CardVersionBody is the nested firmware description in card.version.
type CardVersionBody struct {
	Org      string `json:"org"`
	Product  string `json:"product"`
	Target   string `json:"target"`
	Version  string `json:"version"`
	VerMajor int    `json:"ver_major"`
	VerMinor int    `json:"ver_minor"`
	VerPatch int    `json:"ver_patch"`
	VerBuild int    `json:"ver_build"`
	Built    string `json:"built"`
}

// CardVersion is the card.version response.
type CardVersion struct {
	Body         CardVersionBody `json:"body"`
	Version      string          `json:"version"`
	Device       string          `json:"device"`
	Name         string          `json:"name"`
	Board        string          `json:"board"`
	SKU          string          `json:"sku"`
	OrderingCode string          `json:"ordering_code"`
	API          int             `json:"api"`
	Cell         bool            `json:"cell"`
	GPS          bool            `json:"gps"`
}

// CardDFU is the card.dfu response.
type CardDFU struct {
	Name string `json:"name"`
}

// CardTransport is the card.transport response.
type CardTransport struct {
	Method string `json:"method"`
}
