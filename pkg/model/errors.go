package model

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by the Validate methods of input types.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Error returns the first field message, which is what forms display next to
// the submit button, or the summary message when no field failed.
func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return e.Fields[0].Message
	}
	return e.Message
}

// Field returns the message recorded for field, or "".
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// NewValidationError creates a ValidationError with field details.
func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// validator accumulates field errors for one Validate call.
type validator struct {
	fields []FieldError
}

func (v *validator) add(field, msg string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: msg})
}

func (v *validator) minLen(field, value string, n int, msg string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		v.add(field, msg)
	}
}

func (v *validator) maxLen(field, value string, n int, msg string) {
	if utf8.RuneCountInString(value) > n {
		v.add(field, msg)
	}
}

func (v *validator) eachMaxLen(field string, values []string, n int, msg string) {
	for i, s := range values {
		if utf8.RuneCountInString(s) > n {
			v.add(fmt.Sprintf("%s[%d]", field, i), msg)
			return
		}
	}
}

// optionalURL accepts "" or an absolute http(s) URL.
func (v *validator) optionalURL(field, value, msg string) {
	if value == "" {
		return
	}
	if !IsHTTPURL(value) {
		v.add(field, msg)
	}
}

func (v *validator) err(summary string) error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Message: summary, Fields: v.fields}
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
