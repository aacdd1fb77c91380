package model_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func testFields() []*model.CategoryField {
	return []*model.CategoryField{
		{Name: "salary", Label: "Salary", Spec: model.InputSpec{Type: types.FieldTypeNumber}, Order: 0},
		{Name: "remote", Label: "Remote", Spec: model.InputSpec{Type: types.FieldTypeCheckbox}, Order: 1},
		{Name: "level", Label: "Level", Required: true, Spec: model.ChoiceSpec{Type: types.FieldTypeSelect, Options: []string{"junior", "senior"}}, Order: 2},
		{Name: "skills", Label: "Skills", Spec: model.ChoiceSpec{Type: types.FieldTypeMultiSelect, Options: []string{"go", "sql"}}, Order: 3},
		{Name: "score", Label: "Score", Spec: model.RangeSpec{Min: 1, Max: 5, Step: 1}, Order: 4},
		{Name: "start", Label: "Start", Spec: model.InputSpec{Type: types.FieldTypeDate}, Order: 5},
		{Name: "site", Label: "Site", Spec: model.InputSpec{Type: types.FieldTypeURL}, Order: 6},
		{Name: "summary", Label: "Summary", Spec: model.InputSpec{Type: types.FieldTypeTextarea}, Order: 7},
	}
}

func TestRecordValidator_Validate(t *testing.T) {
	tests := []struct {
		name       string
		record     model.FieldValueRecord
		wantFields []string
	}{
		{
			name: "valid record",
			record: model.FieldValueRecord{
				"salary":  50000.0,
				"remote":  true,
				"level":   "senior",
				"skills":  []any{"go", "sql"},
				"score":   3.0,
				"start":   "2026-01-15",
				"site":    "https://example.com/jobs/1",
				"summary": "hello",
			},
		},
		{
			name:   "only required field",
			record: model.FieldValueRecord{"level": "junior"},
		},
		{
			name:   "numeric strings are accepted",
			record: model.FieldValueRecord{"level": "junior", "salary": "42", "score": "5"},
		},
		{
			name:   "empty values of optional fields pass",
			record: model.FieldValueRecord{"level": "junior", "salary": "", "skills": []any{}, "remote": false},
		},
		{
			name:   "orphaned keys are ignored",
			record: model.FieldValueRecord{"level": "junior", "deleted_field": 123},
		},
		{
			name:       "missing required",
			record:     model.FieldValueRecord{},
			wantFields: []string{"level"},
		},
		{
			name:       "empty required",
			record:     model.FieldValueRecord{"level": ""},
			wantFields: []string{"level"},
		},
		{
			name: "wrong shapes",
			record: model.FieldValueRecord{
				"level":   "junior",
				"salary":  "lots",
				"remote":  "yes",
				"summary": 12,
			},
			wantFields: []string{"salary", "remote", "summary"},
		},
		{
			name: "choices outside options",
			record: model.FieldValueRecord{
				"level":  "principal",
				"skills": []any{"go", "rust"},
			},
			wantFields: []string{"level", "skills"},
		},
		{
			name:       "range out of bounds",
			record:     model.FieldValueRecord{"level": "junior", "score": 6},
			wantFields: []string{"score"},
		},
		{
			name:       "NaN and infinity are not numbers",
			record:     model.FieldValueRecord{"level": "junior", "salary": "Inf", "score": "NaN"},
			wantFields: []string{"salary", "score"},
		},
		{
			name:       "infinite float in range",
			record:     model.FieldValueRecord{"level": "junior", "score": math.Inf(1)},
			wantFields: []string{"score"},
		},
		{
			name:       "unparseable date and url",
			record:     model.FieldValueRecord{"level": "junior", "start": "next week", "site": "example.com"},
			wantFields: []string{"start", "site"},
		},
	}

	v := model.NewRecordValidator(testFields())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.record)
			if len(tt.wantFields) == 0 {
				gt.NoError(t, err)
				return
			}

			gt.Error(t, err).Is(model.ErrValidation)
			var verr *model.ValidationError
			gt.B(t, errors.As(err, &verr)).True()
			fields := verr.FieldErrors()
			gt.Value(t, len(fields)).Equal(len(tt.wantFields))
			for _, name := range tt.wantFields {
				_, ok := fields[name]
				gt.B(t, ok).Describef("expected error for %s", name).True()
			}
		})
	}
}

func TestRecordValidator_RequiredCheckbox(t *testing.T) {
	v := model.NewRecordValidator([]*model.CategoryField{
		{Name: "agree", Label: "Agree", Required: true, Spec: model.InputSpec{Type: types.FieldTypeCheckbox}},
	})

	gt.Error(t, v.Validate(model.FieldValueRecord{"agree": false})).Is(model.ErrValidation)
	gt.NoError(t, v.Validate(model.FieldValueRecord{"agree": true}))
}

func TestRecordValidator_UnknownTypePasses(t *testing.T) {
	v := model.NewRecordValidator([]*model.CategoryField{
		{Name: "contact", Label: "Contact", Spec: model.UnknownSpec{Type: "email"}},
	})
	gt.NoError(t, v.Validate(model.FieldValueRecord{"contact": 1}))
}

func TestValidationError(t *testing.T) {
	verr := model.NewValidationError()
	gt.NoError(t, verr.OrNil())

	verr.Add("title", "title is required")
	verr.Add("title", "ignored")
	verr.Add("deadline", "bad date")

	err := verr.OrNil()
	gt.Error(t, err).Is(model.ErrValidation)
	gt.String(t, err.Error()).Equal("validation failed: deadline: bad date; title: title is required")

	outer := model.NewValidationError()
	outer.Merge("config.", verr)
	gt.Value(t, outer.FieldErrors()["config.title"]).Equal("title is required")
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 3.5, want: 3.5, ok: true},
		{in: 7, want: 7, ok: true},
		{in: "42", want: 42, ok: true},
		{in: json.Number("1e3"), want: 1000, ok: true},
		{in: "NaN"},
		{in: "nan"},
		{in: "Inf"},
		{in: "-infinity"},
		{in: math.NaN()},
		{in: math.Inf(-1)},
		{in: json.Number("NaN")},
		{in: "abc"},
		{in: true},
	}

	for _, tt := range tests {
		got, ok := model.ToNumber(tt.in)
		gt.Value(t, ok).Equal(tt.ok)
		gt.Value(t, got).Equal(tt.want)
	}
}
