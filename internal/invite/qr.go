// Package invite renders the compose link a contact scans to start
// messaging the user.
package invite

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Link returns the compose deep link for contactID.
func Link(scheme string, contactID uuid.UUID) string {
	return fmt.Sprintf("%s://compose/%s", scheme, contactID)
}

// Render draws content as a terminal QR code. Each output line encodes two
// bitmap rows with half-block characters, halving the height.
func Render(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("generate QR: %w", err)
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString("  ")
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String(), nil
}

// PNG encodes content as a size x size PNG image.
func PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode QR: %w", err)
	}
	return png, nil
}
