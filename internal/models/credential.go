package models

// Credential is the payload encoded into a pass QR code.
// IssuedAt is unix milliseconds.
type Credential struct {
	ParticipantID string `json:"student_id"`
	Token         string `json:"pass_id"`
	EventID       string `json:"event_id"`
	IssuedAt      int64  `json:"issued_at"`
}
