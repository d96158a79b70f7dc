package qr

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"
)

// Renderer turns an opaque pass token into a scannable payload. The data-URI
// form is stored on the pass row so clients can render it without another
// round trip.
type Renderer interface {
	Render(token string) (string, error)
}

type PngRenderer struct {
	Size int
}

func NewRenderer() *PngRenderer {
	return &PngRenderer{Size: 256}
}

// Render encodes {"token":"..."} as a QR PNG data URI.
func (r *PngRenderer) Render(token string) (string, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return "", err
	}
	size := r.Size
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
