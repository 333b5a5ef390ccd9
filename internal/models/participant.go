package models

import "time"

// Participant is a student eligible for event entry and their pass state.
type Participant struct {
	ID              string     `json:"student_id"`
	DisplayName     string     `json:"name"`
	Contact         string     `json:"email"`
	PassIssued      bool       `json:"pass_generated"`
	CredentialToken string     `json:"-"`
	IssuedAt        *time.Time `json:"generated_at,omitempty"`
	Entered         bool       `json:"scanned"`
	EnteredAt       *time.Time `json:"scanned_at,omitempty"`
}

// ParticipantStatus is the public projection of a participant. It never carries the credential token.
type ParticipantStatus struct {
	ID          string     `json:"student_id"`
	DisplayName string     `json:"name"`
	Contact     string     `json:"email"`
	PassIssued  bool       `json:"pass_generated"`
	IssuedAt    *time.Time `json:"generated_at,omitempty"`
	Entered     bool       `json:"scanned"`
	EnteredAt   *time.Time `json:"scanned_at,omitempty"`
}

// Status returns the public projection of p.
func (p Participant) Status() ParticipantStatus {
	return ParticipantStatus{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Contact:     p.Contact,
		PassIssued:  p.PassIssued,
		IssuedAt:    p.IssuedAt,
		Entered:     p.Entered,
		EnteredAt:   p.EnteredAt,
	}
}

// PollStatus is the reduced shape returned to clients polling for entry.
type PollStatus struct {
	ID         string     `json:"student_id"`
	Entered    bool       `json:"scanned"`
	EnteredAt  *time.Time `json:"scanned_at,omitempty"`
	PassIssued bool       `json:"pass_generated"`
}

// Stats holds aggregate entry counts.
type Stats struct {
	Total        int `json:"total"`
	EnteredCount int `json:"entered_count"`
	Remaining    int `json:"remaining"`
	IssuedCount  int `json:"issued_count"`
}
