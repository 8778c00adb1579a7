package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCodeEncoder encodes references as QR code PNGs using go-qrcode.
type QRCodeEncoder struct{}

// NewQRCodeEncoder creates a ready-to-use encoder.
func NewQRCodeEncoder() *QRCodeEncoder {
	return &QRCodeEncoder{}
}

// Encode renders the reference as a size×size PNG.
// PRE: reference is non-empty; size > 0
// POST: Returns PNG bytes or an error; never a partial image
func (e *QRCodeEncoder) Encode(reference string, size int) ([]byte, error) {
	png, err := qrcode.Encode(reference, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %q: %w", reference, err)
	}
	return png, nil
}
