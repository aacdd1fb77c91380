package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/memory"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestFieldUseCase_CreateField(t *testing.T) {
	t.Run("appends fields in creation order", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")

		a := createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Job Title", Type: types.FieldTypeText, Required: true})
		b := createField(t, uc, "jobs-id", usecase.FieldInput{
			Label:   "Level",
			Type:    types.FieldTypeSelect,
			Options: []string{"junior", " senior "},
		})
		c := createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Experience", Type: types.FieldTypeRange})

		gt.Value(t, a.Order).Equal(0)
		gt.Value(t, a.Name).Equal("job_title")
		gt.Value(t, b.Order).Equal(1)
		gt.A(t, b.Options()).Equal([]string{"junior", "senior"})
		gt.Value(t, c.Order).Equal(2)
		gt.Value(t, c.Spec).Equal(model.FieldSpec(model.RangeSpec{Min: 0, Max: 100, Step: 1}))
	})

	t.Run("invalid definitions are rejected per attribute", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")
		ctx := adminCtx()

		_, err := uc.Field.CreateField(ctx, "jobs-id", usecase.FieldInput{Label: "", Type: "color"})
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey("label")
		gt.Map(t, fields).HasKey("type")

		_, err = uc.Field.CreateField(ctx, "jobs-id", usecase.FieldInput{Label: "Agree", Type: types.FieldTypeCheckbox, Options: []string{"yes"}})
		gt.Map(t, fieldErrors(t, err)).HasKey("type")

		_, err = uc.Field.CreateField(ctx, "jobs-id", usecase.FieldInput{Label: "Pick", Type: types.FieldTypeRadio})
		gt.Map(t, fieldErrors(t, err)).HasKey("options")

		_, err = uc.Field.CreateField(ctx, "jobs-id", usecase.FieldInput{Label: "Score", Type: types.FieldTypeRange, Min: ptr(10.0), Max: ptr(5.0)})
		gt.Map(t, fieldErrors(t, err)).HasKey("range")
	})

	t.Run("names are unique within a category", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")
		createCategory(t, uc, "grants-id")
		createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Salary", Type: types.FieldTypeNumber})

		_, err := uc.Field.CreateField(adminCtx(), "jobs-id", usecase.FieldInput{Label: "salary!", Type: types.FieldTypeText})
		gt.Map(t, fieldErrors(t, err)).HasKey("name")

		createField(t, uc, "grants-id", usecase.FieldInput{Label: "Salary", Type: types.FieldTypeNumber})
	})

	t.Run("concurrent creates of one label yield one field", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")
		createField(t, uc, "jobs-id", usecase.FieldInput{Label: "First", Type: types.FieldTypeText})

		const workers = 4
		results := make([]*model.CategoryField, workers)
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = uc.Field.CreateField(adminCtx(), "jobs-id", usecase.FieldInput{Label: "Same", Type: types.FieldTypeText})
			}()
		}
		wg.Wait()

		var created int
		for i, err := range errs {
			if err != nil {
				gt.Map(t, fieldErrors(t, err)).HasKey("name")
				continue
			}
			created++
			gt.Value(t, results[i].Name).Equal("same")
			gt.Value(t, results[i].Order).Equal(1)
		}
		gt.Value(t, created).Equal(1)

		listed, err := uc.Field.ListFields(context.Background(), "jobs-id")
		gt.NoError(t, err).Required()
		gt.A(t, fieldOrders(listed)).Equal([]int{0, 1})
	})

	t.Run("explicit names follow the derived name rules", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")
		ctx := adminCtx()

		for _, name := range []string{"a b", "config.x", "Salary", "_salary", "salary__min", "work-mode"} {
			_, err := uc.Field.CreateField(ctx, "jobs-id", usecase.FieldInput{Label: "Field", Name: name, Type: types.FieldTypeText})
			gt.Map(t, fieldErrors(t, err)).HasKey("name")
		}

		f := createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Minimum salary", Name: " salary_min2 ", Type: types.FieldTypeNumber})
		gt.Value(t, f.Name).Equal("salary_min2")
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Field.CreateField(adminCtx(), "missing", usecase.FieldInput{Label: "A", Type: types.FieldTypeText})
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("companies cannot edit fields", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")
		_, err := uc.Field.CreateField(companyCtx("company-1"), "jobs-id", usecase.FieldInput{Label: "A", Type: types.FieldTypeText})
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})
}

func fieldIDs(fields []*model.CategoryField) []types.FieldID {
	ids := make([]types.FieldID, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	return ids
}

func fieldOrders(fields []*model.CategoryField) []int {
	orders := make([]int, len(fields))
	for i, f := range fields {
		orders[i] = f.Order
	}
	return orders
}

func TestFieldUseCase_ReorderFields(t *testing.T) {
	setup := func(t *testing.T) (*usecase.UseCases, []*model.CategoryField) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "jobs-id")
		a := createField(t, uc, "jobs-id", usecase.FieldInput{Label: "A", Type: types.FieldTypeText})
		b := createField(t, uc, "jobs-id", usecase.FieldInput{Label: "B", Type: types.FieldTypeText})
		c := createField(t, uc, "jobs-id", usecase.FieldInput{Label: "C", Type: types.FieldTypeText})
		return uc, []*model.CategoryField{a, b, c}
	}

	t.Run("moving C to the front persists C0 A1 B2", func(t *testing.T) {
		uc, f := setup(t)
		a, b, c := f[0], f[1], f[2]

		got, err := uc.Field.ReorderFields(adminCtx(), "jobs-id", []types.FieldID{c.ID, a.ID, b.ID})
		gt.NoError(t, err).Required()
		gt.A(t, fieldIDs(got)).Equal([]types.FieldID{c.ID, a.ID, b.ID})
		gt.A(t, fieldOrders(got)).Equal([]int{0, 1, 2})

		listed, err := uc.Field.ListFields(context.Background(), "jobs-id")
		gt.NoError(t, err).Required()
		gt.A(t, fieldIDs(listed)).Equal([]types.FieldID{c.ID, a.ID, b.ID})
	})

	t.Run("same order is a no-op", func(t *testing.T) {
		uc, f := setup(t)
		got, err := uc.Field.ReorderFields(adminCtx(), "jobs-id", fieldIDs(f))
		gt.NoError(t, err).Required()
		gt.A(t, fieldOrders(got)).Equal([]int{0, 1, 2})
	})

	t.Run("any permutation persists contiguous orders", func(t *testing.T) {
		tests := []struct {
			name  string
			n     int
			order []int
		}{
			{name: "single field", n: 1, order: []int{0}},
			{name: "swap pair", n: 2, order: []int{1, 0}},
			{name: "no-op", n: 4, order: []int{0, 1, 2, 3}},
			{name: "reverse", n: 4, order: []int{3, 2, 1, 0}},
			{name: "move last to middle", n: 5, order: []int{0, 1, 4, 2, 3}},
			{name: "rotate left", n: 5, order: []int{1, 2, 3, 4, 0}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				uc := usecase.New(memory.New())
				createCategory(t, uc, "jobs-id")
				created := make([]*model.CategoryField, tt.n)
				for i := range tt.n {
					created[i] = createField(t, uc, "jobs-id", usecase.FieldInput{
						Label: fmt.Sprintf("Field %d", i),
						Type:  types.FieldTypeText,
					})
				}

				want := make([]types.FieldID, tt.n)
				for i, idx := range tt.order {
					want[i] = created[idx].ID
				}

				_, err := uc.Field.ReorderFields(adminCtx(), "jobs-id", want)
				gt.NoError(t, err).Required()

				listed, err := uc.Field.ListFields(context.Background(), "jobs-id")
				gt.NoError(t, err).Required()
				gt.A(t, fieldIDs(listed)).Equal(want)
				for i, f := range listed {
					gt.Value(t, f.Order).Equal(i)
				}
			})
		}
	})

	t.Run("stale ID lists are a conflict", func(t *testing.T) {
		uc, f := setup(t)
		ctx := adminCtx()

		_, err := uc.Field.ReorderFields(ctx, "jobs-id", []types.FieldID{f[0].ID, f[1].ID})
		gt.Error(t, err).Is(usecase.ErrConflict)

		_, err = uc.Field.ReorderFields(ctx, "jobs-id", []types.FieldID{f[0].ID, f[0].ID, f[1].ID})
		gt.Error(t, err).Is(usecase.ErrConflict)

		_, err = uc.Field.ReorderFields(ctx, "jobs-id", []types.FieldID{f[0].ID, f[1].ID, "unknown"})
		gt.Error(t, err).Is(usecase.ErrConflict)

		listed, err := uc.Field.ListFields(ctx, "jobs-id")
		gt.NoError(t, err).Required()
		gt.A(t, fieldIDs(listed)).Equal(fieldIDs(f))
	})
}

func TestFieldUseCase_DeleteField(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	setupJobs(t, uc)
	level := createField(t, uc, "jobs-id", usecase.FieldInput{
		Label:   "Level",
		Type:    types.FieldTypeSelect,
		Options: []string{"junior", "senior"},
	})

	fields, err := uc.Field.ListFields(context.Background(), "jobs-id")
	gt.NoError(t, err).Required()
	salary := fields[0]

	opp, err := uc.Opportunity.CreateOpportunity(companyCtx("company-1"), usecase.OpportunityInput{
		Title:      "Engineer",
		CategoryID: "jobs-id",
		Config:     model.FieldValueRecord{"salary": 50000, "remote": true, "level": "senior"},
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Field.DeleteField(adminCtx(), "jobs-id", salary.ID)).Required()

	t.Run("field disappears and orders are compacted", func(t *testing.T) {
		remaining, err := uc.Field.ListFields(context.Background(), "jobs-id")
		gt.NoError(t, err).Required()
		gt.A(t, remaining).Length(2)
		gt.A(t, fieldOrders(remaining)).Equal([]int{0, 1})
		gt.Value(t, remaining[1].ID).Equal(level.ID)
	})

	t.Run("stored records keep the deleted key", func(t *testing.T) {
		stored, err := repo.Opportunity().Get(context.Background(), opp.ID)
		gt.NoError(t, err).Required()
		gt.Map(t, stored.Config).HasKey("salary")
		gt.Value(t, stored.Config["salary"]).Equal(any(50000))
	})

	t.Run("deleting again is not found", func(t *testing.T) {
		err := uc.Field.DeleteField(adminCtx(), "jobs-id", salary.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestFieldUseCase_GetForm(t *testing.T) {
	t.Run("zero-field category renders nothing", func(t *testing.T) {
		uc := usecase.New(memory.New())
		createCategory(t, uc, "empty")

		form, err := uc.Field.GetForm(context.Background(), "empty", "")
		gt.NoError(t, err).Required()
		gt.A(t, form.Controls).Length(0)
		gt.Number(t, len(form.Record)).Equal(0)
	})

	t.Run("new form binds defaults", func(t *testing.T) {
		uc := usecase.New(memory.New())
		setupJobs(t, uc)

		form, err := uc.Field.GetForm(context.Background(), "jobs-id", "")
		gt.NoError(t, err).Required()
		gt.A(t, form.Controls).Length(2)
		gt.Value(t, form.Controls[0].Control).Equal(model.ControlInput)
		gt.Value(t, form.Controls[0].InputType).Equal("number")
		gt.Value(t, form.Controls[1].Control).Equal(model.ControlCheckbox)
		gt.Value(t, form.Record["remote"]).Equal(any(false))
	})

	t.Run("editing prefills from the opportunity", func(t *testing.T) {
		uc := usecase.New(memory.New())
		setupJobs(t, uc)
		opp, err := uc.Opportunity.CreateOpportunity(companyCtx("company-1"), usecase.OpportunityInput{
			Title:      "Engineer",
			CategoryID: "jobs-id",
			Config:     model.FieldValueRecord{"salary": 50000, "remote": true},
		})
		gt.NoError(t, err).Required()

		form, err := uc.Field.GetForm(context.Background(), "jobs-id", opp.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, form.Controls[0].Value).Equal(any(50000))
		gt.Value(t, form.Controls[1].Value).Equal(any(true))
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Field.GetForm(context.Background(), "missing", "")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}
