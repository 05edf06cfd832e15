package forms

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Contact limits
const (
	MinNameLength    = 2
	MinMessageLength = 10
	MaxMessageLength = 2000
	WarnMessageChars = 1800
)

// Contact field names, shared with the backend's errors map
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldSubject  = "subject"
	FieldMessage  = "message"
	FieldPrivacy  = "privacy"
	FieldLocation = "location"
)

// PrivacyAccepted is the value posted for a ticked privacy checkbox
const PrivacyAccepted = "on"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationErrors maps field names to messages. It is never sent anywhere.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := v.Fields()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names in stable order
func (v ValidationErrors) Fields() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContactInput is the raw contact form content
type ContactInput struct {
	Name     string
	Email    string
	Location string
	Subject  string
	Message  string
	Privacy  bool
}

// ValidateContact checks the contact form before anything is sent
func ValidateContact(in ContactInput) ValidationErrors {
	errs := ValidationErrors{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs[FieldName] = "Name is required"
	case utf8.RuneCountInString(name) < MinNameLength:
		errs[FieldName] = "Name must be at least 2 characters"
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Please enter a valid email address"
	}

	if in.Subject == "" {
		errs[FieldSubject] = "Please select a subject"
	}

	msg := strings.TrimSpace(in.Message)
	n := utf8.RuneCountInString(msg)
	switch {
	case msg == "":
		errs[FieldMessage] = "Message is required"
	case n < MinMessageLength:
		errs[FieldMessage] = "Message must be at least 10 characters"
	case n > MaxMessageLength:
		errs[FieldMessage] = "Message must be less than 2000 characters"
	}

	if !in.Privacy {
		errs[FieldPrivacy] = "You must agree to the privacy policy"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CounterLevel grades the message character counter
type CounterLevel int

const (
	CounterNormal CounterLevel = iota
	CounterWarn
	CounterError
)

// MessageCounter returns the character count of the raw message and its level
func MessageCounter(message string) (int, CounterLevel) {
	n := utf8.RuneCountInString(message)
	switch {
	case n > MaxMessageLength:
		return n, CounterError
	case n > WarnMessageChars:
		return n, CounterWarn
	default:
		return n, CounterNormal
	}
}
