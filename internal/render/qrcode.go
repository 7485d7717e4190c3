package render

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// ReferenceQR returns the reprint reference of req and its QR code image.
func ReferenceQR(req Request, sizePx int) (string, image.Image, error) {
	ref := Reference(req)
	img, err := GenerateQRCodeImage(ref, sizePx)
	if err != nil {
		return "", nil, err
	}
	return ref, img, nil
}

// GenerateQRCodeImage returns a QR code image for the given payload.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("render: qr code: %w", err)
	}
	return qrCode.Image(sizePx), nil
}
