package types

import "github.com/m-mizutani/goerr/v2"

// FieldType represents the input kind of a category field
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeNumber      FieldType = "number"
	FieldTypeSelect      FieldType = "select"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeDate        FieldType = "date"
	FieldTypeFile        FieldType = "file"
	FieldTypeURL         FieldType = "url"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeRange       FieldType = "range"
)

// AllFieldTypes returns all valid field types
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeDate,
		FieldTypeFile,
		FieldTypeURL,
		FieldTypeRadio,
		FieldTypeMultiSelect,
		FieldTypeRange,
	}
}

// IsValid checks if the field type is valid
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeDate,
		FieldTypeFile,
		FieldTypeURL,
		FieldTypeRadio,
		FieldTypeMultiSelect,
		FieldTypeRange:
		return true
	default:
		return false
	}
}

// IsChoice reports whether the type picks values from a list of options
func (t FieldType) IsChoice() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio || t == FieldTypeMultiSelect
}

// String returns the string representation of the field type
func (t FieldType) String() string {
	return string(t)
}

// ParseFieldType parses a string into a FieldType
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(s)
	if !t.IsValid() {
		return "", goerr.New("invalid field type", goerr.V("type", s))
	}
	return t, nil
}
