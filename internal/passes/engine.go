// Package passes implements the entry pass lifecycle: issuance, scanning and duplicate detection.
package passes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qr-event/checkin/internal/metrics"
	"github.com/qr-event/checkin/internal/models"
	"github.com/qr-event/checkin/internal/registry"
)

// DefaultEventID is embedded in credentials when no event id is configured.
const DefaultEventID = "TECHFEST2024"

// Notifier receives activity events after they are recorded (e.g. live feed, Redis mirror).
type Notifier interface {
	NotifyActivity(ctx context.Context, event models.ActivityEvent)
}

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	EventID  string
	QRSize   int
	Now      func() time.Time
	NewToken func() string
}

// Engine applies pass lifecycle transitions to a Registry.
type Engine struct {
	reg       *registry.Registry
	opts      Options
	logger    *zap.Logger
	notifiers []Notifier
}

// IssuedPass is the result of a pass issuance.
type IssuedPass struct {
	Participant   models.ParticipantStatus `json:"student"`
	Credential    models.Credential        `json:"credential"`
	Payload       string                   `json:"qr_data"`
	QRCodeDataURL string                   `json:"qr_code_data_url"`
	IssuedAt      time.Time                `json:"generated_at"`
}

// ScanOutcome is the business result of a scan that decoded and matched a participant.
type ScanOutcome struct {
	Success     bool                     `json:"success"`
	Reason      Reason                   `json:"reason,omitempty"`
	Message     string                   `json:"message"`
	Participant models.ParticipantStatus `json:"student"`
}

// NewEngine creates a lifecycle engine over reg.
func NewEngine(reg *registry.Registry, opts Options, logger *zap.Logger, notifiers ...Notifier) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.EventID == "" {
		opts.EventID = DefaultEventID
	}
	if opts.QRSize <= 0 {
		opts.QRSize = DefaultQRSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewToken == nil {
		opts.NewToken = uuid.NewString
	}
	return &Engine{reg: reg, opts: opts, logger: logger, notifiers: notifiers}
}

// IssuePass mints a fresh credential for participantID, invalidating any earlier one.
func (e *Engine) IssuePass(ctx context.Context, participantID string) (*IssuedPass, error) {
	if _, ok := e.reg.Lookup(participantID); !ok {
		return nil, fmt.Errorf("issue pass %s: %w", participantID, ErrNotFound)
	}

	now := e.opts.Now()
	cred := models.Credential{
		ParticipantID: participantID,
		Token:         e.opts.NewToken(),
		EventID:       e.opts.EventID,
		IssuedAt:      now.UnixMilli(),
	}
	payload, err := EncodeCredential(cred)
	if err != nil {
		return nil, err
	}
	qr, err := QRDataURL(payload, e.opts.QRSize)
	if err != nil {
		return nil, err
	}

	var event models.ActivityEvent
	snap, err := e.reg.Update(participantID, func(p *models.Participant) (*models.ActivityEvent, error) {
		p.PassIssued = true
		p.CredentialToken = cred.Token
		p.IssuedAt = &now
		event = e.newEvent(p, models.ActivityIssued, now, fmt.Sprintf("%s generated event pass", p.DisplayName))
		return &event, nil
	})
	if err != nil {
		return nil, fmt.Errorf("issue pass %s: %w", participantID, err)
	}

	metrics.PassesIssued.Inc()
	e.logger.Info("pass issued", zap.String("student_id", participantID), zap.String("event_id", cred.EventID))
	e.notify(ctx, event)

	return &IssuedPass{
		Participant:   snap.Status(),
		Credential:    cred,
		Payload:       payload,
		QRCodeDataURL: qr,
		IssuedAt:      now,
	}, nil
}

// Scan validates a scanned payload and records entry at most once per participant.
// Stale and duplicate credentials are reported through ScanOutcome or ErrInvalidCredential;
// nothing is mutated for them.
func (e *Engine) Scan(ctx context.Context, payload string) (*ScanOutcome, error) {
	cred, err := DecodeCredential(payload)
	if err != nil {
		metrics.Scans.WithLabelValues(metrics.OutcomeMalformed).Inc()
		e.logger.Warn("scan rejected", zap.String("reason", "malformed"), zap.Error(err))
		return nil, err
	}

	var (
		outcome ScanOutcome
		event   models.ActivityEvent
	)
	snap, err := e.reg.Update(cred.ParticipantID, func(p *models.Participant) (*models.ActivityEvent, error) {
		if !p.PassIssued || p.CredentialToken != cred.Token {
			return nil, ErrInvalidCredential
		}
		now := e.opts.Now()
		if p.Entered {
			outcome = ScanOutcome{Reason: ReasonAlreadyEntered, Message: "QR code already used - Entry already provided"}
			event = e.newEvent(p, models.ActivityDuplicate, now, fmt.Sprintf("Duplicate scan attempt for %s", p.DisplayName))
			return &event, nil
		}
		p.Entered = true
		p.EnteredAt = &now
		outcome = ScanOutcome{Success: true, Message: "Entry provided successfully!"}
		event = e.newEvent(p, models.ActivityEntered, now, fmt.Sprintf("Entry provided for %s", p.DisplayName))
		return &event, nil
	})
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.Scans.WithLabelValues(metrics.OutcomeNotFound).Inc()
		e.logger.Warn("scan rejected", zap.String("student_id", cred.ParticipantID), zap.String("reason", "not_found"))
		return nil, fmt.Errorf("scan: %w", err)
	case errors.Is(err, ErrInvalidCredential):
		metrics.Scans.WithLabelValues(metrics.OutcomeInvalid).Inc()
		e.logger.Warn("scan rejected", zap.String("student_id", cred.ParticipantID), zap.String("reason", "invalid"))
		return nil, fmt.Errorf("scan %s: %w", cred.ParticipantID, err)
	case err != nil:
		return nil, fmt.Errorf("scan %s: %w", cred.ParticipantID, err)
	}

	outcome.Participant = snap.Status()
	if outcome.Success {
		metrics.Scans.WithLabelValues(metrics.OutcomeEntered).Inc()
		e.logger.Info("entry recorded", zap.String("student_id", snap.ID), zap.String("event_id", cred.EventID))
	} else {
		metrics.Scans.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		e.logger.Warn("duplicate scan", zap.String("student_id", snap.ID), zap.Timep("entered_at", snap.EnteredAt))
	}
	e.notify(ctx, event)
	return &outcome, nil
}

// Participant returns the public status of one participant.
func (e *Engine) Participant(id string) (models.ParticipantStatus, error) {
	p, ok := e.reg.Lookup(id)
	if !ok {
		return models.ParticipantStatus{}, fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	return p.Status(), nil
}

// Refresh returns the reduced status clients poll while waiting to be scanned.
func (e *Engine) Refresh(id string) (models.PollStatus, error) {
	p, ok := e.reg.Lookup(id)
	if !ok {
		return models.PollStatus{}, fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	return models.PollStatus{ID: p.ID, Entered: p.Entered, EnteredAt: p.EnteredAt, PassIssued: p.PassIssued}, nil
}

// Roster returns the public status of every participant in roster order.
func (e *Engine) Roster() []models.ParticipantStatus {
	all := e.reg.ListAll()
	out := make([]models.ParticipantStatus, 0, len(all))
	for _, p := range all {
		out = append(out, p.Status())
	}
	return out
}

// Stats returns aggregate entry counts.
func (e *Engine) Stats() models.Stats {
	return e.reg.Stats()
}

// RecentActivity returns up to k activity events, newest first.
func (e *Engine) RecentActivity(k int) []models.ActivityEvent {
	return e.reg.Recent(k)
}

// Reset clears all passes, entries and activity and re-seeds the roster.
func (e *Engine) Reset() {
	e.reg.ResetToSeed()
	metrics.Resets.Inc()
	e.logger.Info("registry reset")
}

func (e *Engine) newEvent(p *models.Participant, kind models.ActivityKind, at time.Time, msg string) models.ActivityEvent {
	return models.ActivityEvent{
		ID:            uuid.NewString(),
		ParticipantID: p.ID,
		DisplayName:   p.DisplayName,
		Kind:          kind,
		Timestamp:     at,
		Message:       msg,
	}
}

func (e *Engine) notify(ctx context.Context, event models.ActivityEvent) {
	for _, n := range e.notifiers {
		n.NotifyActivity(ctx, event)
	}
}
