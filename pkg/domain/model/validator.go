package model

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// dateLayouts are accepted for date fields and deadlines
var dateLayouts = []string{time.DateOnly, time.RFC3339}

// RecordValidator validates a FieldValueRecord against a category's fields
type RecordValidator struct {
	fields []*CategoryField
}

// NewRecordValidator creates a new RecordValidator for the given fields
func NewRecordValidator(fields []*CategoryField) *RecordValidator {
	return &RecordValidator{
		fields: fields,
	}
}

// Validate checks required fields and value shapes. Keys that do not match a
// field are ignored. The returned error is a *ValidationError keyed by field
// name, or nil.
func (v *RecordValidator) Validate(record FieldValueRecord) error {
	verr := NewValidationError()

	for _, field := range v.fields {
		value, ok := record[field.Name]
		if !ok || IsEmptyValue(field, value) {
			if field.Required {
				verr.Add(field.Name, fmt.Sprintf("%s is required", field.Label))
			}
			continue
		}

		if msg := v.validateValue(field, value); msg != "" {
			verr.Add(field.Name, msg)
		}
	}

	return verr.OrNil()
}

// validateValue returns a message describing why value does not fit the
// field, or "" when it does.
func (v *RecordValidator) validateValue(field *CategoryField, value any) string {
	switch spec := field.Spec.(type) {
	case ChoiceSpec:
		return v.validateChoice(spec, value)
	case RangeSpec:
		return v.validateRange(spec, value)
	case InputSpec:
		return v.validateInput(spec, value)
	default:
		// Unknown types have no shape to enforce
		return ""
	}
}

func (v *RecordValidator) validateInput(spec InputSpec, value any) string {
	switch spec.Type {
	case types.FieldTypeCheckbox:
		if _, ok := value.(bool); !ok {
			return "must be true or false"
		}
	case types.FieldTypeNumber:
		if _, ok := ToNumber(value); !ok {
			return "must be a number"
		}
	case types.FieldTypeDate:
		s, ok := value.(string)
		if !ok {
			return "must be a date"
		}
		if _, err := ParseDate(s); err != nil {
			return "must be a date (YYYY-MM-DD)"
		}
	case types.FieldTypeURL, types.FieldTypeFile:
		s, ok := value.(string)
		if !ok {
			return "must be a URL"
		}
		if !IsHTTPURL(s) {
			return "must be an absolute http(s) URL"
		}
	default:
		if _, ok := value.(string); !ok {
			return "must be text"
		}
	}
	return ""
}

func (v *RecordValidator) validateChoice(spec ChoiceSpec, value any) string {
	if spec.Type == types.FieldTypeMultiSelect {
		selected, ok := ToStrings(value)
		if !ok {
			return "must be a list of options"
		}
		for _, s := range selected {
			if !slices.Contains(spec.Options, s) {
				return fmt.Sprintf("%q is not an allowed option", s)
			}
		}
		return ""
	}

	s, ok := value.(string)
	if !ok {
		return "must be one of the options"
	}
	if !slices.Contains(spec.Options, s) {
		return fmt.Sprintf("%q is not an allowed option", s)
	}
	return ""
}

func (v *RecordValidator) validateRange(spec RangeSpec, value any) string {
	n, ok := ToNumber(value)
	if !ok {
		return "must be a number"
	}
	if n < spec.Min || n > spec.Max {
		return fmt.Sprintf("must be between %s and %s", formatNumber(spec.Min), formatNumber(spec.Max))
	}
	return ""
}

// ToNumber converts JSON-decoded and form-encoded numbers to float64.
// NaN and infinities are not numbers here.
func ToNumber(value any) (float64, bool) {
	var f float64
	switch n := value.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		v, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = v
	case string:
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToStrings converts []string and []any of strings to []string
func ToStrings(value any) ([]string, bool) {
	switch vv := value.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// ParseDate accepts YYYY-MM-DD or RFC3339
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// IsHTTPURL reports whether s is an absolute http or https URL
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
