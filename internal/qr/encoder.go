// Package qr renders tracking URLs as inline QR images.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Encoder converts text into a PNG data URI suitable for an <img> src.
type Encoder struct {
	size int
}

func NewEncoder() *Encoder {
	return &Encoder{size: defaultSize}
}

func (e *Encoder) Encode(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
