// Package document renders the printable artefacts of an order: the tracking
// QR code and the PDF invoice.
package document

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 300

// Renderer builds order documents. It holds no per-call state and is safe
// for concurrent use.
type Renderer struct {
	appURL string
	font   []byte
}

// NewRenderer links QR codes to appURL. font is an optional TTF with
// Vietnamese glyphs; without it invoices are set in Helvetica and lose their
// diacritics.
func NewRenderer(appURL string, font []byte) *Renderer {
	return &Renderer{appURL: strings.TrimRight(appURL, "/"), font: font}
}

// TrackingURL is the public page of an order.
func (r *Renderer) TrackingURL(orderID string) string {
	return r.appURL + "/order/" + orderID
}

// TrackingQR returns a 300x300 PNG encoding TrackingURL.
func (r *Renderer) TrackingQR(orderID string) ([]byte, error) {
	png, err := qrcode.Encode(r.TrackingURL(orderID), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
