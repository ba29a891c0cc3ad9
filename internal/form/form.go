// Package form tracks per-form input state: required-field completeness, a
// single submit-in-flight flag, client-side format checks, and transient
// feedback messages with explicit expiry tokens.
package form

import (
	"regexp"
	"strings"
	"time"
)

// Auto-clear intervals for transient feedback. The UI schedules the timers;
// the form only validates expiry tokens so overlapping timers cannot
// resurrect stale text.
const (
	NoticeTTL     = 3 * time.Second
	FieldErrorTTL = 5 * time.Second
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
	SeveritySuccess
)

// Feedback is one transient message. Seq identifies the generation that
// created it: an expiry for an older generation is ignored.
type Feedback struct {
	Text     string
	Severity Severity
	Seq      int
}

// Form tracks one form's fields and feedback.
type Form struct {
	values     map[string]string
	required   []string
	submitting bool

	seq       int
	notice    *Feedback
	fieldErrs map[string]*Feedback
}

// New creates a form whose submit control stays disabled until every named
// required field is non-empty after trimming.
func New(required ...string) *Form {
	return &Form{
		values:    map[string]string{},
		required:  required,
		fieldErrs: map[string]*Feedback{},
	}
}

// SetField records an input edit. Editing a field clears its error marker
// immediately (whichever comes first: the timer or the next edit).
func (f *Form) SetField(name, value string) {
	f.values[name] = value
	delete(f.fieldErrs, name)
}

// Field returns the trimmed value of a field.
func (f *Form) Field(name string) string {
	return strings.TrimSpace(f.values[name])
}

// Complete reports whether every required field is non-empty after trimming.
func (f *Form) Complete() bool {
	for _, name := range f.required {
		if f.Field(name) == "" {
			return false
		}
	}
	return true
}

// CanSubmit gates the submit control: all required fields filled and no
// submission already in flight.
func (f *Form) CanSubmit() bool {
	return f.Complete() && !f.submitting
}

// BeginSubmit marks a submission in flight, disabling the control for the
// duration of the request. Reports false when submission is not allowed,
// which also prevents duplicate submits.
func (f *Form) BeginSubmit() bool {
	if !f.CanSubmit() {
		return false
	}
	f.submitting = true
	return true
}

// EndSubmit re-enables the submit control once the request resolves.
func (f *Form) EndSubmit() {
	f.submitting = false
}

func (f *Form) Submitting() bool {
	return f.submitting
}

// Reset clears all field values, errors, and in-flight state.
func (f *Form) Reset() {
	f.values = map[string]string{}
	f.fieldErrs = map[string]*Feedback{}
	f.notice = nil
	f.submitting = false
}

// SetNotice replaces the form-level message wholesale and returns the expiry
// token the UI should schedule against.
func (f *Form) SetNotice(text string, sev Severity) int {
	f.seq++
	f.notice = &Feedback{Text: text, Severity: sev, Seq: f.seq}
	return f.seq
}

// Notice returns the current form-level message, if any.
func (f *Form) Notice() (Feedback, bool) {
	if f.notice == nil {
		return Feedback{}, false
	}
	return *f.notice, true
}

// ExpireNotice clears the message only if seq still identifies it; a timer
// for a message that has since been replaced does nothing.
func (f *Form) ExpireNotice(seq int) {
	if f.notice != nil && f.notice.Seq == seq {
		f.notice = nil
	}
}

// SetFieldError attaches an error to one field, replacing any prior one.
// Each field owns at most one feedback at a time.
func (f *Form) SetFieldError(field, text string) int {
	f.seq++
	f.fieldErrs[field] = &Feedback{Text: text, Severity: SeverityError, Seq: f.seq}
	return f.seq
}

// FieldError returns the error currently attached to a field.
func (f *Form) FieldError(field string) (Feedback, bool) {
	fb := f.fieldErrs[field]
	if fb == nil {
		return Feedback{}, false
	}
	return *fb, true
}

// ExpireFieldError clears a field error only if seq still identifies it.
func (f *Form) ExpireFieldError(field string, seq int) {
	if fb := f.fieldErrs[field]; fb != nil && fb.Seq == seq {
		delete(f.fieldErrs, field)
	}
}

// ApplyServerErrors attaches a server-provided field=>message mapping and
// returns the expiry tokens per field.
func (f *Form) ApplyServerErrors(errs map[string]string) map[string]int {
	tokens := make(map[string]int, len(errs))
	for field, msg := range errs {
		tokens[field] = f.SetFieldError(field, msg)
	}
	return tokens
}

var emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// ValidEmail checks the email shape used across login/register/contact.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPassword requires at least 8 characters including one digit and one
// uppercase letter.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	hasDigit, hasUpper := false, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasDigit && hasUpper
}
