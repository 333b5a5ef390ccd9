package passes

import (
	"errors"

	"github.com/qr-event/checkin/internal/registry"
)

var (
	// ErrNotFound is returned when the participant id is not in the roster.
	ErrNotFound = registry.ErrNotFound
	// ErrMalformedCredential is returned when a scanned payload cannot be decoded.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrInvalidCredential is returned when no pass was issued or the token was superseded.
	ErrInvalidCredential = errors.New("pass not generated or expired")
)

// Reason explains an unsuccessful scan outcome.
type Reason string

const (
	ReasonAlreadyEntered    Reason = "already_entered"
	ReasonInvalidCredential Reason = "invalid_credential"
)
