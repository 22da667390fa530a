// Package qr builds QR payloads for passes and encodes them into
// inline PNG data URIs that the dashboard can render directly in an
// <img> tag.
package qr

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder turns a payload string into an image data URI. Encoding is
// deterministic and side-effect free; issuance and the backfill job
// share one Encoder.
type Encoder interface {
	Encode(payload string) (string, error)
}

// PNGEncoder encodes payloads as size×size PNG QR codes with medium
// error correction.
type PNGEncoder struct {
	Size int
}

// NewPNGEncoder returns a PNGEncoder with the given image size in
// pixels; non-positive sizes fall back to 256.
func NewPNGEncoder(size int) PNGEncoder {
	if size <= 0 {
		size = 256
	}
	return PNGEncoder{Size: size}
}

// Encode returns a "data:image/png;base64,…" URI for the payload.
func (e PNGEncoder) Encode(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, e.Size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Payload serializes the QR payload for a pass. The payload carries
// only the pass number; scanners resolve the rest server-side.
func Payload(passNumber string) (string, error) {
	b, err := json.Marshal(struct {
		PassNumber string `json:"passNumber"`
	}{PassNumber: passNumber})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
