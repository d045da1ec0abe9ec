package validator

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	CycleLayout = "2006-01"
)

// ValidationError is a single rejected request field
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects field errors in the order they were found
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// ToMap keys messages by field. The first message recorded for a field wins.
func (v ValidationErrors) ToMap() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Merge appends the field errors carried by err, if any
func (v *ValidationErrors) Merge(err error) {
	var other ValidationErrors
	if errors.As(err, &other) {
		*v = append(*v, other...)
	}
}

// Err returns nil for an empty set so callers can `return errs.Err()`
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidDate parses a calendar day (YYYY-MM-DD) as UTC midnight
func IsValidDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return d, err == nil
}

// IsValidCycle parses a monthly cycle (YYYY-MM) as the first day of the month
func IsValidCycle(s string) (time.Time, bool) {
	m, err := time.Parse(CycleLayout, strings.TrimSpace(s))
	return m, err == nil
}

func IsInSlice(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}
