package contact

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned when Submit is called while a submission is in flight.
var ErrPending = errors.New("submission already in progress")

// Form is the client-side state of the contact form: the latest input
// values and whether a submission is in flight.
type Form struct {
	mu      sync.Mutex
	values  Submission
	pending bool
	last    Notification
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{}
}

// Set updates one field.
func (f *Form) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.set(field, value)
}

// Values returns the current field values.
func (f *Form) Values() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Pending reports whether a submission is in flight.
func (f *Form) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// LastNotification returns the notification of the most recent attempt.
func (f *Form) LastNotification() Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Submit sends the current values through s exactly once.
//
// A form with an empty field, or one that is already submitting, is not
// sent and Submit returns the reason as an error. Otherwise the returned
// error is nil and the notification reports the outcome: on success every
// field is reset to the empty string, on failure the values are kept.
func (f *Form) Submit(ctx context.Context, s Submitter) (Notification, error) {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return Notification{}, ErrPending
	}
	values := f.values
	if err := values.Validate(); err != nil {
		f.mu.Unlock()
		return Notification{}, err
	}
	f.pending = true
	f.mu.Unlock()

	_, err := s.Submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = false
	if err != nil {
		f.last = NotifyFailed
		return f.last, nil
	}
	f.values = Submission{}
	f.last = NotifySent
	return f.last, nil
}
