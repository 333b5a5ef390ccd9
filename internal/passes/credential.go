package passes

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/qr-event/checkin/internal/models"
)

// DefaultQRSize is the rendered QR image width and height in pixels.
const DefaultQRSize = 256

// EncodeCredential serializes c into the string stored in the QR code.
func EncodeCredential(c models.Credential) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal credential: %w", err)
	}
	return string(b), nil
}

// DecodeCredential parses a scanned payload. It fails with ErrMalformedCredential
// unless raw is a JSON object of the credential shape naming a participant.
func DecodeCredential(raw string) (models.Credential, error) {
	var c models.Credential
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c, fmt.Errorf("%w: empty payload", ErrMalformedCredential)
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if c.ParticipantID == "" {
		return models.Credential{}, fmt.Errorf("%w: missing student_id", ErrMalformedCredential)
	}
	return c, nil
}

// QRDataURL renders payload as a PNG QR code and returns it as a data URL.
func QRDataURL(payload string, size int) (string, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
