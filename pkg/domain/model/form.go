package model

import (
	"sort"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// ControlKind names the control a client draws for a field
type ControlKind string

const (
	ControlInput       ControlKind = "input"
	ControlTextarea    ControlKind = "textarea"
	ControlSelect      ControlKind = "select"
	ControlRadio       ControlKind = "radio"
	ControlMultiSelect ControlKind = "multiselect"
	ControlCheckbox    ControlKind = "checkbox"
	ControlFile        ControlKind = "file"
	ControlRange       ControlKind = "range"
)

// Control is the rendered descriptor of a single field
type Control struct {
	FieldID     types.FieldID `json:"field_id"`
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Control     ControlKind   `json:"control"`
	InputType   string        `json:"input_type,omitempty"`
	Required    bool          `json:"required"`
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []string      `json:"options,omitempty"`
	Min         *float64      `json:"min,omitempty"`
	Max         *float64      `json:"max,omitempty"`
	Step        *float64      `json:"step,omitempty"`
	Value       any           `json:"value"`
}

// RenderField maps a field and its current value to a control. A missing or
// empty value is replaced by the field's default.
func RenderField(field *CategoryField, value any) Control {
	c := Control{
		FieldID:     field.ID,
		Name:        field.Name,
		Label:       field.Label,
		Required:    field.Required,
		Placeholder: field.Placeholder,
		Value:       bindValue(field, value),
	}

	switch spec := field.Spec.(type) {
	case ChoiceSpec:
		c.Options = append([]string{}, spec.Options...)
		switch spec.Type {
		case types.FieldTypeRadio:
			c.Control = ControlRadio
		case types.FieldTypeMultiSelect:
			c.Control = ControlMultiSelect
		default:
			c.Control = ControlSelect
		}

	case RangeSpec:
		c.Control = ControlRange
		c.Min, c.Max, c.Step = &spec.Min, &spec.Max, &spec.Step

	case InputSpec:
		switch spec.Type {
		case types.FieldTypeTextarea:
			c.Control = ControlTextarea
		case types.FieldTypeCheckbox:
			c.Control = ControlCheckbox
		case types.FieldTypeFile:
			c.Control = ControlFile
		default:
			// text, number, date, url
			c.Control = ControlInput
			c.InputType = spec.Type.String()
		}

	default:
		// Unsupported types fall back to a plain input using the declared type
		c.Control = ControlInput
		c.InputType = field.Type().String()
		if c.InputType == "" {
			c.InputType = types.FieldTypeText.String()
		}
	}

	return c
}

func bindValue(field *CategoryField, value any) any {
	if IsEmptyValue(field, value) {
		return DefaultValue(field)
	}
	return value
}

// Form is a category's rendered form bound to an in-memory record
type Form struct {
	CategoryID types.CategoryID `json:"category_id"`
	Controls   []Control        `json:"controls"`
	Record     FieldValueRecord `json:"record"`
}

// BuildForm renders fields in order against record. The form's record holds
// the defaults of every field overlaid with record, including orphaned keys.
func BuildForm(categoryID types.CategoryID, fields []*CategoryField, record FieldValueRecord) *Form {
	sorted := SortFields(fields)

	form := &Form{
		CategoryID: categoryID,
		Controls:   make([]Control, 0, len(sorted)),
		Record:     MergeRecord(sorted, record),
	}
	for _, f := range sorted {
		form.Controls = append(form.Controls, RenderField(f, form.Record[f.Name]))
	}
	return form
}

// Set binds a new value to name without any validation
func (f *Form) Set(name string, value any) {
	if f.Record == nil {
		f.Record = make(FieldValueRecord)
	}
	f.Record[name] = value
	for i := range f.Controls {
		if f.Controls[i].Name == name {
			f.Controls[i].Value = value
		}
	}
}

// SortFields returns a copy of fields sorted by Order
func SortFields(fields []*CategoryField) []*CategoryField {
	sorted := append([]*CategoryField{}, fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
