package model

import (
	"sort"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// FieldValueRecord maps a field name to its value. The value shape depends on
// the field type: string, bool, number or []string. Keys without a matching
// field are kept as-is.
type FieldValueRecord map[string]any

// Clone returns a shallow copy with list values copied
func (r FieldValueRecord) Clone() FieldValueRecord {
	out := make(FieldValueRecord, len(r))
	for k, v := range r {
		switch vv := v.(type) {
		case []string:
			out[k] = append([]string{}, vv...)
		case []any:
			out[k] = append([]any{}, vv...)
		default:
			out[k] = v
		}
	}
	return out
}

// Keys returns the record keys in sorted order
func (r FieldValueRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultValue returns the empty value for a field: false for checkbox, an
// empty list for multiselect, min for range and "" for everything else.
func DefaultValue(field *CategoryField) any {
	switch spec := field.Spec.(type) {
	case RangeSpec:
		return spec.Min
	case ChoiceSpec:
		if spec.Type == types.FieldTypeMultiSelect {
			return []string{}
		}
		return ""
	case InputSpec:
		if spec.Type == types.FieldTypeCheckbox {
			return false
		}
		return ""
	default:
		return ""
	}
}

// DefaultRecord returns a record with every field set to its default
func DefaultRecord(fields []*CategoryField) FieldValueRecord {
	record := make(FieldValueRecord, len(fields))
	for _, f := range fields {
		record[f.Name] = DefaultValue(f)
	}
	return record
}

// MergeRecord overlays submitted values onto the defaults of fields.
// Submitted keys that match no field are carried over unchanged.
func MergeRecord(fields []*CategoryField, submitted FieldValueRecord) FieldValueRecord {
	record := DefaultRecord(fields)
	for k, v := range submitted {
		if v == nil {
			continue
		}
		record[k] = v
	}
	return record
}

// IsEmptyValue reports whether v counts as "not provided" for the field
func IsEmptyValue(field *CategoryField, v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		// A required checkbox has to be checked
		return field.Type() == types.FieldTypeCheckbox && !val
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
