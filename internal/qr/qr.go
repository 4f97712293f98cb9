// Package qr renders identifiers as PNG QR codes in data-URL form.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const dataURLPrefix = "data:image/png;base64,"

// Generator turns a payload string into an image payload stored on
// locations and zones.
type Generator interface {
	DataURL(content string) (string, error)
}

// PNG is the production generator.
type PNG struct {
	Size int
}

func (p PNG) DataURL(content string) (string, error) {
	size := p.Size
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
