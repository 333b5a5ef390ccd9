package models

import "time"

// ActivityKind is the type of an activity log entry.
type ActivityKind string

const (
	ActivityIssued    ActivityKind = "issued"
	ActivityEntered   ActivityKind = "entered"
	ActivityDuplicate ActivityKind = "duplicate"
)

// ActivityEvent is one entry of the check-in activity log.
type ActivityEvent struct {
	ID            string       `json:"id"`
	ParticipantID string       `json:"student_id"`
	DisplayName   string       `json:"name"`
	Kind          ActivityKind `json:"status"`
	Timestamp     time.Time    `json:"timestamp"`
	Message       string       `json:"message"`
}
