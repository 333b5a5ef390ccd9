package passes

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qr-event/checkin/internal/models"
)

func TestEncodeCredential_WireShape(t *testing.T) {
	payload, err := EncodeCredential(models.Credential{
		ParticipantID: "STU001",
		Token:         "6f1c",
		EventID:       "TECHFEST2024",
		IssuedAt:      1700000000000,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"student_id":"STU001","pass_id":"6f1c","event_id":"TECHFEST2024","issued_at":1700000000000}`, payload)
}

func TestDecodeCredential_ToleratesWhitespaceAndUnknownFields(t *testing.T) {
	c, err := DecodeCredential("  {\"student_id\":\"STU002\",\"pass_id\":\"p\",\"extra\":true}\n")
	require.NoError(t, err)
	assert.Equal(t, "STU002", c.ParticipantID)
	assert.Equal(t, "p", c.Token)
	assert.Empty(t, c.EventID)
}

func TestQRDataURL_IsPNG(t *testing.T) {
	url, err := QRDataURL(`{"student_id":"STU001"}`, 0)
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(url, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), raw[:4])
}
