// Package registry holds participants and the activity log in memory.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/qr-event/checkin/internal/models"
)

// DefaultRetention is the number of activity events kept when none is configured.
const DefaultRetention = 50

// ErrNotFound is returned for participant ids missing from the roster.
var ErrNotFound = errors.New("student not found")

// UpdateFunc mutates a participant and optionally returns an activity event to record.
// The changes are committed only when it returns a nil error.
type UpdateFunc func(p *models.Participant) (*models.ActivityEvent, error)

// Registry is the in-memory participant store (thread-safe).
type Registry struct {
	mu           sync.RWMutex
	roster       []RosterEntry
	order        []string
	participants map[string]*models.Participant
	activity     []models.ActivityEvent
	retention    int
}

// New creates a registry seeded from roster. retention caps the activity log.
func New(roster []RosterEntry, retention int) *Registry {
	if retention <= 0 {
		retention = DefaultRetention
	}
	r := &Registry{
		roster:    append([]RosterEntry(nil), roster...),
		retention: retention,
	}
	r.seed()
	return r
}

func (r *Registry) seed() {
	r.order = make([]string, 0, len(r.roster))
	r.participants = make(map[string]*models.Participant, len(r.roster))
	r.activity = nil
	for _, e := range r.roster {
		r.order = append(r.order, e.ID)
		r.participants[e.ID] = &models.Participant{
			ID:          e.ID,
			DisplayName: e.Name,
			Contact:     e.Contact,
		}
	}
}

// Lookup returns a copy of the participant with id.
func (r *Registry) Lookup(id string) (models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return models.Participant{}, false
	}
	return *p, true
}

// ListAll returns copies of all participants in roster order.
func (r *Registry) ListAll() []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, *r.participants[id])
	}
	return list
}

// Update runs fn against participant id while holding the write lock.
// A non-nil event returned by fn is recorded in the same critical section.
// It returns a snapshot of the participant after fn ran (unchanged on error).
func (r *Registry) Update(id string, fn UpdateFunc) (models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return models.Participant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := *p
	event, err := fn(&next)
	if err != nil {
		return *p, err
	}
	*p = next
	if event != nil {
		r.recordLocked(*event)
	}
	return next, nil
}

// RecordEvent prepends event to the activity log, evicting the oldest entry past the cap.
func (r *Registry) RecordEvent(event models.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordLocked(event)
}

func (r *Registry) recordLocked(event models.ActivityEvent) {
	r.activity = append(r.activity, models.ActivityEvent{})
	copy(r.activity[1:], r.activity)
	r.activity[0] = event
	if len(r.activity) > r.retention {
		r.activity = r.activity[:r.retention]
	}
}

// Recent returns up to k activity events, newest first. k <= 0 returns the whole log.
func (r *Registry) Recent(k int) []models.ActivityEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k <= 0 || k > len(r.activity) {
		k = len(r.activity)
	}
	out := make([]models.ActivityEvent, k)
	copy(out, r.activity[:k])
	return out
}

// Stats returns aggregate counts over all participants.
func (r *Registry) Stats() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := models.Stats{Total: len(r.participants)}
	for _, p := range r.participants {
		if p.Entered {
			s.EnteredCount++
		}
		if p.PassIssued {
			s.IssuedCount++
		}
	}
	s.Remaining = s.Total - s.EnteredCount
	return s
}

// ResetToSeed drops all state and re-seeds the roster the registry was created with.
func (r *Registry) ResetToSeed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seed()
}
