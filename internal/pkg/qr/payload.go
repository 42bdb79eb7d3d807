// Package qr holds the reservation pass payload codec and the PNG rendering
// used when a pass is embedded in an email.
package qr

import "encoding/json"

const (
	payloadType    = "reservation"
	payloadVersion = 1
)

// Payload is the content scanned at the venue entrance.
type Payload struct {
	Type    string `json:"t"`
	ID      string `json:"id"`
	Version int    `json:"v"`
}

// EncodeReservationPayload serializes the lookup string printed into a pass
// QR code: {"t":"reservation","id":<id>,"v":1}.
func EncodeReservationPayload(reservationID string) string {
	p := Payload{Type: payloadType, ID: reservationID, Version: payloadVersion}
	b, _ := json.Marshal(p)
	return string(b)
}

// DecodePayload parses a scanned string back into a payload. It returns nil
// on any malformed input and never panics: scanners feed it arbitrary text.
func DecodePayload(text string) *Payload {
	var p Payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil
	}
	if p.Type != payloadType || p.ID == "" {
		return nil
	}
	return &p
}
