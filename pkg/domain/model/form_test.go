package model_test

import (
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestRenderField_Dispatch(t *testing.T) {
	tests := []struct {
		spec      model.FieldSpec
		control   model.ControlKind
		inputType string
	}{
		{spec: model.InputSpec{Type: types.FieldTypeText}, control: model.ControlInput, inputType: "text"},
		{spec: model.InputSpec{Type: types.FieldTypeTextarea}, control: model.ControlTextarea},
		{spec: model.InputSpec{Type: types.FieldTypeNumber}, control: model.ControlInput, inputType: "number"},
		{spec: model.InputSpec{Type: types.FieldTypeCheckbox}, control: model.ControlCheckbox},
		{spec: model.InputSpec{Type: types.FieldTypeDate}, control: model.ControlInput, inputType: "date"},
		{spec: model.InputSpec{Type: types.FieldTypeFile}, control: model.ControlFile},
		{spec: model.InputSpec{Type: types.FieldTypeURL}, control: model.ControlInput, inputType: "url"},
		{spec: model.ChoiceSpec{Type: types.FieldTypeSelect, Options: []string{"a"}}, control: model.ControlSelect},
		{spec: model.ChoiceSpec{Type: types.FieldTypeRadio, Options: []string{"a"}}, control: model.ControlRadio},
		{spec: model.ChoiceSpec{Type: types.FieldTypeMultiSelect, Options: []string{"a"}}, control: model.ControlMultiSelect},
		{spec: model.RangeSpec{Min: 0, Max: 10, Step: 1}, control: model.ControlRange},
		{spec: model.UnknownSpec{Type: "email"}, control: model.ControlInput, inputType: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.spec.FieldType().String(), func(t *testing.T) {
			field := &model.CategoryField{ID: "f", Name: "f", Label: "F", Spec: tt.spec}
			c := model.RenderField(field, nil)
			gt.Value(t, c.Control).Equal(tt.control)
			gt.Value(t, c.InputType).Equal(tt.inputType)
		})
	}
}

func TestRenderField_Defaults(t *testing.T) {
	tests := []struct {
		name string
		spec model.FieldSpec
		want any
	}{
		{name: "text", spec: model.InputSpec{Type: types.FieldTypeText}, want: ""},
		{name: "number", spec: model.InputSpec{Type: types.FieldTypeNumber}, want: ""},
		{name: "checkbox", spec: model.InputSpec{Type: types.FieldTypeCheckbox}, want: false},
		{name: "select", spec: model.ChoiceSpec{Type: types.FieldTypeSelect, Options: []string{"a"}}, want: ""},
		{name: "multiselect", spec: model.ChoiceSpec{Type: types.FieldTypeMultiSelect, Options: []string{"a"}}, want: []string{}},
		{name: "range", spec: model.RangeSpec{Min: 3, Max: 10, Step: 1}, want: 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := &model.CategoryField{Name: "f", Spec: tt.spec}
			gt.Value(t, model.RenderField(field, nil).Value).Equal(tt.want)
			gt.Value(t, model.RenderField(field, "").Value).Equal(tt.want)
		})
	}
}

func TestRenderField_Attributes(t *testing.T) {
	field := &model.CategoryField{
		ID:          "level-id",
		Name:        "level",
		Label:       "Level",
		Required:    true,
		Placeholder: "Pick one",
		Spec:        model.ChoiceSpec{Type: types.FieldTypeSelect, Options: []string{"junior", "senior"}},
	}

	c := model.RenderField(field, "senior")
	gt.Value(t, c.Name).Equal("level")
	gt.Value(t, c.Label).Equal("Level")
	gt.B(t, c.Required).True()
	gt.Value(t, c.Placeholder).Equal("Pick one")
	gt.A(t, c.Options).Length(2)
	gt.Value(t, c.Value).Equal(any("senior"))

	rng := model.RenderField(&model.CategoryField{Name: "r", Spec: model.RangeSpec{Min: 1, Max: 9, Step: 2}}, 4.0)
	gt.Value(t, *rng.Min).Equal(1.0)
	gt.Value(t, *rng.Max).Equal(9.0)
	gt.Value(t, *rng.Step).Equal(2.0)
	gt.Value(t, rng.Value).Equal(any(4.0))
}

func TestBuildForm(t *testing.T) {
	t.Run("zero fields render no controls", func(t *testing.T) {
		form := model.BuildForm("empty-id", nil, nil)
		gt.A(t, form.Controls).Length(0)
		gt.Value(t, len(form.Record)).Equal(0)
	})

	t.Run("controls follow order and record is prefilled", func(t *testing.T) {
		fields := []*model.CategoryField{
			{Name: "remote", Label: "Remote", Order: 1, Spec: model.InputSpec{Type: types.FieldTypeCheckbox}},
			{Name: "salary", Label: "Salary", Order: 0, Spec: model.InputSpec{Type: types.FieldTypeNumber}},
		}

		form := model.BuildForm("jobs-id", fields, model.FieldValueRecord{"salary": 50000.0, "old": "kept"})
		gt.A(t, form.Controls).Length(2)
		gt.Value(t, form.Controls[0].Name).Equal("salary")
		gt.Value(t, form.Controls[0].Value).Equal(any(50000.0))
		gt.Value(t, form.Controls[1].Name).Equal("remote")
		gt.Value(t, form.Controls[1].Value).Equal(any(false))
		gt.Value(t, form.Record["old"]).Equal(any("kept"))
	})

	t.Run("set binds without validation", func(t *testing.T) {
		fields := []*model.CategoryField{
			{Name: "salary", Label: "Salary", Spec: model.InputSpec{Type: types.FieldTypeNumber}},
		}
		form := model.BuildForm("jobs-id", fields, nil)
		form.Set("salary", "not a number")
		gt.Value(t, form.Record["salary"]).Equal(any("not a number"))
		gt.Value(t, form.Controls[0].Value).Equal(any("not a number"))
	})
}
