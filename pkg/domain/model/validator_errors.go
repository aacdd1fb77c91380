package model

import (
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Field definition errors
var (
	ErrInvalidFieldType    = goerr.New("invalid field type")
	ErrInvalidOption       = goerr.New("invalid option")
	ErrMissingOptions      = goerr.New("choice field requires options")
	ErrUnexpectedAttribute = goerr.New("attribute not allowed for field type")
	ErrInvalidRange        = goerr.New("invalid range bounds")
	ErrEmptyLabel          = goerr.New("field label is empty")
	ErrInvalidFieldName    = goerr.New("invalid field name")
)

// ErrValidation matches every *ValidationError via errors.Is
var ErrValidation = goerr.New("validation failed")

// Context keys for error values
const (
	FieldIDKey    = "field_id"
	FieldNameKey  = "field_name"
	FieldTypeKey  = "field_type"
	OptionKey     = "option"
	LabelKey      = "label"
	MinKey        = "min"
	MaxKey        = "max"
	StepKey       = "step"
	OrderKey      = "order"
	FieldValueKey = "field_value"
)

// ValidationError collects per-field messages keyed by field name
type ValidationError struct {
	fields map[string]string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string]string)}
}

// Add records a message for name. The first message for a name wins.
func (e *ValidationError) Add(name, msg string) {
	if _, ok := e.fields[name]; ok {
		return
	}
	e.fields[name] = msg
}

// Merge copies messages from other under the given key prefix
func (e *ValidationError) Merge(prefix string, other *ValidationError) {
	if other == nil {
		return
	}
	for name, msg := range other.fields {
		e.Add(prefix+name, msg)
	}
}

// Empty reports whether no message has been recorded
func (e *ValidationError) Empty() bool {
	return len(e.fields) == 0
}

// OrNil returns nil when no message has been recorded
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// FieldErrors returns a copy of the per-field messages
func (e *ValidationError) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
