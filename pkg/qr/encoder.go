package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload is the data rendered into a booking's QR image. It is a lookup
// key for the scanning guard, nothing more: verification always goes back
// to the store by booking code, the payload itself is never trusted.
type Payload struct {
	BookingCode string `json:"booking_code"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SpotID      string `json:"spot_id"`
	RenterID    string `json:"renter_id"`
}

// Encoder turns a payload into a scannable image.
type Encoder interface {
	Encode(p Payload) (string, error)
}

type pngEncoder struct {
	size int
}

// NewEncoder returns an Encoder producing PNG data URIs.
func NewEncoder() Encoder {
	return &pngEncoder{size: 256}
}

func (e *pngEncoder) Encode(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR image: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
