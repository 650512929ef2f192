// Package contact implements the contact form: its client-side state, the
// HTTP client that submits it and the /api/contact endpoint that stores it.
package contact

import (
	"errors"
	"fmt"
)

// Path is where submissions are posted.
const Path = "/api/contact"

// Field names a form field. Values match the JSON keys.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldSubject   Field = "subject"
	FieldMessage   Field = "message"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldSubject, FieldMessage}

// ErrMissingField is returned when a required field is empty.
var ErrMissingField = errors.New("missing required field")

// ErrUnknownField is returned when setting a field the form does not have.
var ErrUnknownField = errors.New("unknown field")

// Submission is the body of a contact request.
type Submission struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// Get returns the value of a field.
func (s Submission) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return s.FirstName
	case FieldLastName:
		return s.LastName
	case FieldEmail:
		return s.Email
	case FieldSubject:
		return s.Subject
	case FieldMessage:
		return s.Message
	}
	return ""
}

// set assigns a field value.
func (s *Submission) set(f Field, value string) error {
	switch f {
	case FieldFirstName:
		s.FirstName = value
	case FieldLastName:
		s.LastName = value
	case FieldEmail:
		s.Email = value
	case FieldSubject:
		s.Subject = value
	case FieldMessage:
		s.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// Validate checks that every field is non-empty. No other validation is
// performed; whitespace counts as a value.
func (s Submission) Validate() error {
	for _, f := range Fields {
		if s.Get(f) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
	}
	return nil
}

// Variant distinguishes notification styles.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the toast shown after a submission attempt.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

var (
	// NotifySent is shown after a successful submission.
	NotifySent = Notification{
		Title:       "Message sent successfully!",
		Description: "I'll get back to you as soon as possible.",
		Variant:     VariantDefault,
	}
	// NotifyFailed is shown after any failed submission.
	NotifyFailed = Notification{
		Title:       "Failed to send message",
		Description: "Please try again later or contact me directly via email.",
		Variant:     VariantDestructive,
	}
)
