package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Hero is the editable banner content of the home page.
type Hero struct {
	Locale             string
	Heading            string
	Subheading         string
	CTAText            string
	CTALink            string
	BackgroundImageKey string
	UpdatedAt          time.Time
}

// Fetched carries the outcome of a content fetch that the caller is expected
// to degrade gracefully on. Value is only meaningful when Err is nil.
type Fetched[T any] struct {
	Value T
	Err   error
}

// FetchedOK wraps a successful fetch.
func FetchedOK[T any](v T) Fetched[T] {
	return Fetched[T]{Value: v}
}

// FetchedErr wraps a failed fetch.
func FetchedErr[T any](err error) Fetched[T] {
	return Fetched[T]{Err: err}
}

// OK reports whether the fetch succeeded.
func (f Fetched[T]) OK() bool {
	return f.Err == nil
}

// Or returns the fetched value, or def when the fetch failed.
func (f Fetched[T]) Or(def T) T {
	if f.Err != nil {
		return def
	}
	return f.Value
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID        string
	Locale    string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// MaxContactMessageLength bounds the body of a contact message.
const MaxContactMessageLength = 5000

// ValidateContactMessage checks the user-provided fields of a contact message.
func ValidateContactMessage(m *ContactMessage) error {
	if m == nil {
		return fmt.Errorf("contact message cannot be nil")
	}
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return ErrMissingRequiredField
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != strings.TrimSpace(m.Email) {
		return ErrInvalidEmail
	}
	if len(m.Message) > MaxContactMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
