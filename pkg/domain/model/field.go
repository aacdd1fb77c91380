package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Range defaults applied when a range field is created without bounds
const (
	DefaultRangeMin  = 0.0
	DefaultRangeMax  = 100.0
	DefaultRangeStep = 1.0
)

// FieldSpec is the type-specific part of a CategoryField. It is one of
// InputSpec, ChoiceSpec, RangeSpec or UnknownSpec.
type FieldSpec interface {
	FieldType() types.FieldType
	isFieldSpec()
}

// InputSpec describes a field that takes a single free-form value and
// carries no options.
type InputSpec struct {
	Type types.FieldType
}

// ChoiceSpec describes select, radio and multiselect fields.
type ChoiceSpec struct {
	Type    types.FieldType
	Options []string
}

// RangeSpec describes a numeric slider.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// UnknownSpec holds a stored field whose type is outside the supported set.
// It is never produced by NewFieldSpec and only appears when decoding rows
// written by other clients.
type UnknownSpec struct {
	Type types.FieldType
}

func (s InputSpec) FieldType() types.FieldType   { return s.Type }
func (s ChoiceSpec) FieldType() types.FieldType  { return s.Type }
func (s RangeSpec) FieldType() types.FieldType   { return types.FieldTypeRange }
func (s UnknownSpec) FieldType() types.FieldType { return s.Type }

func (InputSpec) isFieldSpec()   {}
func (ChoiceSpec) isFieldSpec()  {}
func (RangeSpec) isFieldSpec()   {}
func (UnknownSpec) isFieldSpec() {}

// NewInputSpec creates an InputSpec. Choice and range types are rejected.
func NewInputSpec(t types.FieldType) (InputSpec, error) {
	if !t.IsValid() {
		return InputSpec{}, goerr.Wrap(ErrInvalidFieldType, "unsupported field type", goerr.V(FieldTypeKey, t))
	}
	if t.IsChoice() || t == types.FieldTypeRange {
		return InputSpec{}, goerr.Wrap(ErrInvalidFieldType, "field type is not a plain input", goerr.V(FieldTypeKey, t))
	}
	return InputSpec{Type: t}, nil
}

// NewChoiceSpec creates a ChoiceSpec. Options are trimmed and must be
// non-empty and unique.
func NewChoiceSpec(t types.FieldType, options []string) (ChoiceSpec, error) {
	if !t.IsChoice() {
		return ChoiceSpec{}, goerr.Wrap(ErrInvalidFieldType, "field type does not take options", goerr.V(FieldTypeKey, t))
	}

	cleaned := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return ChoiceSpec{}, goerr.Wrap(ErrInvalidOption, "option cannot be empty", goerr.V(FieldTypeKey, t))
		}
		if _, ok := seen[opt]; ok {
			return ChoiceSpec{}, goerr.Wrap(ErrInvalidOption, "duplicate option", goerr.V(OptionKey, opt))
		}
		seen[opt] = struct{}{}
		cleaned = append(cleaned, opt)
	}
	if len(cleaned) == 0 {
		return ChoiceSpec{}, goerr.Wrap(ErrMissingOptions, "choice field requires at least one option", goerr.V(FieldTypeKey, t))
	}

	return ChoiceSpec{Type: t, Options: cleaned}, nil
}

// NewRangeSpec creates a RangeSpec, requiring min < max and step > 0.
func NewRangeSpec(minValue, maxValue, step float64) (RangeSpec, error) {
	if minValue >= maxValue {
		return RangeSpec{}, goerr.Wrap(ErrInvalidRange, "min must be less than max",
			goerr.V(MinKey, minValue), goerr.V(MaxKey, maxValue))
	}
	if step <= 0 {
		return RangeSpec{}, goerr.Wrap(ErrInvalidRange, "step must be positive", goerr.V(StepKey, step))
	}
	return RangeSpec{Min: minValue, Max: maxValue, Step: step}, nil
}

// FieldSpecInput is the flat shape of a field spec as it arrives from an API
// request or a seed file.
type FieldSpecInput struct {
	Type    types.FieldType
	Options []string
	Min     *float64
	Max     *float64
	Step    *float64
}

// NewFieldSpec builds the variant matching in.Type. Options on a non-choice
// type, or bounds on a non-range type, are rejected.
func NewFieldSpec(in FieldSpecInput) (FieldSpec, error) {
	if !in.Type.IsValid() {
		return nil, goerr.Wrap(ErrInvalidFieldType, "unsupported field type", goerr.V(FieldTypeKey, in.Type))
	}

	hasBounds := in.Min != nil || in.Max != nil || in.Step != nil

	switch {
	case in.Type.IsChoice():
		if hasBounds {
			return nil, goerr.Wrap(ErrUnexpectedAttribute, "choice field does not take min/max/step", goerr.V(FieldTypeKey, in.Type))
		}
		return NewChoiceSpec(in.Type, in.Options)

	case in.Type == types.FieldTypeRange:
		if len(in.Options) > 0 {
			return nil, goerr.Wrap(ErrUnexpectedAttribute, "range field does not take options", goerr.V(FieldTypeKey, in.Type))
		}
		return NewRangeSpec(
			floatOr(in.Min, DefaultRangeMin),
			floatOr(in.Max, DefaultRangeMax),
			floatOr(in.Step, DefaultRangeStep),
		)

	default:
		if len(in.Options) > 0 {
			return nil, goerr.Wrap(ErrUnexpectedAttribute, "field type does not take options", goerr.V(FieldTypeKey, in.Type))
		}
		if hasBounds {
			return nil, goerr.Wrap(ErrUnexpectedAttribute, "field type does not take min/max/step", goerr.V(FieldTypeKey, in.Type))
		}
		return NewInputSpec(in.Type)
	}
}

// DecodeFieldSpec rebuilds a spec from stored attributes. Unlike NewFieldSpec
// it never fails: unsupported types become UnknownSpec and attributes that do
// not belong to the type are dropped.
func DecodeFieldSpec(in FieldSpecInput) FieldSpec {
	switch {
	case in.Type.IsChoice():
		return ChoiceSpec{Type: in.Type, Options: append([]string{}, in.Options...)}
	case in.Type == types.FieldTypeRange:
		return RangeSpec{
			Min:  floatOr(in.Min, DefaultRangeMin),
			Max:  floatOr(in.Max, DefaultRangeMax),
			Step: floatOr(in.Step, DefaultRangeStep),
		}
	case in.Type.IsValid():
		return InputSpec{Type: in.Type}
	default:
		return UnknownSpec{Type: in.Type}
	}
}

// EncodeFieldSpec flattens a spec for storage.
func EncodeFieldSpec(spec FieldSpec) FieldSpecInput {
	switch s := spec.(type) {
	case ChoiceSpec:
		return FieldSpecInput{Type: s.Type, Options: append([]string{}, s.Options...)}
	case RangeSpec:
		return FieldSpecInput{Type: types.FieldTypeRange, Min: &s.Min, Max: &s.Max, Step: &s.Step}
	case nil:
		return FieldSpecInput{}
	default:
		return FieldSpecInput{Type: s.FieldType()}
	}
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// CategoryField is one dynamic input of a category's form
type CategoryField struct {
	ID          types.FieldID
	CategoryID  types.CategoryID
	Label       string
	Name        string // key in FieldValueRecord
	Required    bool
	Placeholder string
	Order       int
	Spec        FieldSpec
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Type returns the declared field type
func (f *CategoryField) Type() types.FieldType {
	if f.Spec == nil {
		return ""
	}
	return f.Spec.FieldType()
}

// Options returns the choice options, or nil for non-choice fields
func (f *CategoryField) Options() []string {
	if s, ok := f.Spec.(ChoiceSpec); ok {
		return s.Options
	}
	return nil
}

// Validate checks the field definition itself
func (f *CategoryField) Validate() error {
	if err := f.CategoryID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid category ID")
	}
	if strings.TrimSpace(f.Label) == "" {
		return goerr.Wrap(ErrEmptyLabel, "field label is required", goerr.V(FieldIDKey, f.ID))
	}
	if err := ValidateFieldName(f.Name); err != nil {
		return goerr.Wrap(err, "invalid field name", goerr.V(FieldIDKey, f.ID))
	}
	if f.Spec == nil {
		return goerr.Wrap(ErrInvalidFieldType, "field spec is required", goerr.V(FieldIDKey, f.ID))
	}
	if _, ok := f.Spec.(UnknownSpec); ok {
		return goerr.Wrap(ErrInvalidFieldType, "unsupported field type",
			goerr.V(FieldIDKey, f.ID), goerr.V(FieldTypeKey, f.Spec.FieldType()))
	}
	if f.Order < 0 {
		return goerr.New("field order cannot be negative", goerr.V(FieldIDKey, f.ID), goerr.V(OrderKey, f.Order))
	}
	return nil
}

// ValidateFieldName accepts only names DeriveFieldName could have produced:
// lowercase letters and digits joined by single underscores.
func ValidateFieldName(name string) error {
	derived, err := DeriveFieldName(name)
	if err != nil || derived != name {
		return goerr.Wrap(ErrInvalidFieldName, "field name must be lowercase letters and digits separated by single underscores",
			goerr.V(FieldNameKey, name))
	}
	return nil
}

// DeriveFieldName turns a label into a record key: lowercase, with runs of
// non-alphanumeric characters collapsed into a single underscore.
func DeriveFieldName(label string) (string, error) {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	name := b.String()
	if name == "" {
		return "", goerr.Wrap(ErrInvalidFieldName, "label has no usable characters for a field name", goerr.V(LabelKey, label))
	}
	return name, nil
}
