package links

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrMissingField is returned when the product or affiliate ID is empty.
var ErrMissingField = errors.New("product and affiliate IDs are required")

// ErrInvalidSize is returned for QR sizes above MaxQRSize.
var ErrInvalidSize = errors.New("invalid qr code size")

const (
	// QRFilename is the name suggested for a downloaded QR code.
	QRFilename = "afili-qrcode.png"

	DefaultQRSize = 160
	MaxQRSize     = 1024

	linkPattern = "https://pay.hotmart.com/%s?aff=%s"
)

// Generate builds the affiliate link for a product. Surrounding whitespace is
// trimmed from both IDs and neither may be left empty; nothing else is checked.
func Generate(productID, affiliateID string) (string, error) {
	productID = strings.TrimSpace(productID)
	affiliateID = strings.TrimSpace(affiliateID)
	if productID == "" || affiliateID == "" {
		return "", ErrMissingField
	}
	return fmt.Sprintf(linkPattern, productID, affiliateID), nil
}

// QRCode renders link as a size x size PNG. A non-positive size selects
// DefaultQRSize; sizes above MaxQRSize are rejected.
func QRCode(link string, size int) ([]byte, error) {
	if link == "" {
		return nil, ErrMissingField
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	if size > MaxQRSize {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidSize, size, MaxQRSize)
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
