package model_test

import (
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestMergeRecord(t *testing.T) {
	fields := []*model.CategoryField{
		{Name: "salary", Spec: model.InputSpec{Type: types.FieldTypeNumber}},
		{Name: "remote", Spec: model.InputSpec{Type: types.FieldTypeCheckbox}},
	}

	got := model.MergeRecord(fields, model.FieldValueRecord{"salary": 50000, "orphan": "x", "remote": nil})
	gt.Value(t, got["salary"]).Equal(any(50000))
	gt.Value(t, got["remote"]).Equal(any(false))
	gt.Value(t, got["orphan"]).Equal(any("x"))
}

func TestFieldValueRecord_Clone(t *testing.T) {
	original := model.FieldValueRecord{"skills": []string{"go"}}
	cloned := original.Clone()
	cloned["skills"].([]string)[0] = "sql"
	gt.Value(t, original["skills"].([]string)[0]).Equal("go")
	gt.A(t, original.Keys()).Length(1)
}
