package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func runCategoryFieldRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	seed := func(t *testing.T, repo interfaces.Repository, categoryID types.CategoryID) []*model.CategoryField {
		t.Helper()
		ctx := context.Background()
		specs := []struct {
			id   types.FieldID
			name string
			spec model.FieldSpec
		}{
			{id: "a", name: "salary", spec: model.InputSpec{Type: types.FieldTypeNumber}},
			{id: "b", name: "level", spec: model.ChoiceSpec{Type: types.FieldTypeSelect, Options: []string{"junior", "senior"}}},
			{id: "c", name: "score", spec: model.RangeSpec{Min: 1, Max: 5, Step: 1}},
		}

		fields := make([]*model.CategoryField, 0, len(specs))
		for i, s := range specs {
			created, err := repo.CategoryField().Create(ctx, &model.CategoryField{
				ID:         s.id,
				CategoryID: categoryID,
				Label:      s.name,
				Name:       s.name,
				Spec:       s.spec,
				Order:      i,
			})
			gt.NoError(t, err).Required()
			fields = append(fields, created)
		}
		return fields
	}

	t.Run("Create and List sorted by order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		seed(t, repo, categoryID)

		fields, err := repo.CategoryField().List(ctx, categoryID)
		gt.NoError(t, err).Required()
		gt.Array(t, fields).Length(3)
		gt.Value(t, fields[0].Name).Equal("salary")
		gt.Value(t, fields[1].Options()).Equal([]string{"junior", "senior"})
		gt.Value(t, fields[2].Spec).Equal(model.FieldSpec(model.RangeSpec{Min: 1, Max: 5, Step: 1}))
	})

	t.Run("Create assigns order and rejects a used name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		seed(t, repo, categoryID)

		created, err := repo.CategoryField().Create(ctx, &model.CategoryField{
			ID:         "d",
			CategoryID: categoryID,
			Label:      "Notes",
			Name:       "notes",
			Spec:       model.InputSpec{Type: types.FieldTypeText},
			Order:      42,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.Order).Equal(3)

		_, err = repo.CategoryField().Create(ctx, &model.CategoryField{
			ID:         "e",
			CategoryID: categoryID,
			Label:      "Salary again",
			Name:       "salary",
			Spec:       model.InputSpec{Type: types.FieldTypeNumber},
		})
		gt.Error(t, err).Is(interfaces.ErrAlreadyExists)

		// The same name in another category is fine
		_, err = repo.CategoryField().Create(ctx, &model.CategoryField{
			ID:         "a",
			CategoryID: uniqueCategoryID(),
			Label:      "Salary",
			Name:       "salary",
			Spec:       model.InputSpec{Type: types.FieldTypeNumber},
		})
		gt.NoError(t, err)
	})

	t.Run("concurrent creates keep names unique and orders contiguous", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()

		names := []string{"alpha", "beta", "gamma", "delta", "same", "same", "same"}
		errs := make([]error, len(names))
		var wg sync.WaitGroup
		for i, name := range names {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = repo.CategoryField().Create(ctx, &model.CategoryField{
					ID:         types.FieldID(fmt.Sprintf("f%d", i)),
					CategoryID: categoryID,
					Label:      name,
					Name:       name,
					Spec:       model.InputSpec{Type: types.FieldTypeText},
				})
			}()
		}
		wg.Wait()

		var duplicates int
		for i, err := range errs {
			if names[i] == "same" && err != nil {
				gt.Error(t, err).Is(interfaces.ErrAlreadyExists)
				duplicates++
				continue
			}
			gt.NoError(t, err)
		}
		gt.Value(t, duplicates).Equal(2)

		fields, err := repo.CategoryField().List(ctx, categoryID)
		gt.NoError(t, err).Required()
		gt.Array(t, fields).Length(5)
		seen := make(map[string]bool)
		for i, f := range fields {
			gt.Value(t, f.Order).Equal(i)
			gt.B(t, seen[f.Name]).False()
			seen[f.Name] = true
		}
	})

	t.Run("Get and Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		seed(t, repo, categoryID)

		got, err := repo.CategoryField().Get(ctx, categoryID, "b")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Type()).Equal(types.FieldTypeSelect)

		gt.NoError(t, repo.CategoryField().Delete(ctx, categoryID, "b"))
		_, err = repo.CategoryField().Get(ctx, categoryID, "b")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		gt.Error(t, repo.CategoryField().Delete(ctx, categoryID, "b")).Is(interfaces.ErrNotFound)
	})

	t.Run("UpdateOrders renumbers only the given fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		seed(t, repo, categoryID)

		err := repo.CategoryField().UpdateOrders(ctx, categoryID, map[types.FieldID]int{"c": 0, "a": 1, "b": 2})
		gt.NoError(t, err).Required()

		fields, err := repo.CategoryField().List(ctx, categoryID)
		gt.NoError(t, err).Required()
		gt.Array(t, fields).Length(3)
		gt.Value(t, fields[0].ID).Equal(types.FieldID("c"))
		gt.Value(t, fields[1].ID).Equal(types.FieldID("a"))
		gt.Value(t, fields[2].ID).Equal(types.FieldID("b"))
		for i, f := range fields {
			gt.Value(t, f.Order).Equal(i)
		}
	})

	t.Run("UpdateOrders with unknown field fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		seed(t, repo, categoryID)

		err := repo.CategoryField().UpdateOrders(ctx, categoryID, map[types.FieldID]int{"zzz": 0})
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("DeleteByCategory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		other := uniqueCategoryID()
		seed(t, repo, categoryID)
		seed(t, repo, other)

		gt.NoError(t, repo.CategoryField().DeleteByCategory(ctx, categoryID))

		fields, err := repo.CategoryField().List(ctx, categoryID)
		gt.NoError(t, err).Required()
		gt.Array(t, fields).Length(0)

		fields, err = repo.CategoryField().List(ctx, other)
		gt.NoError(t, err).Required()
		gt.Array(t, fields).Length(3)
	})
}

func TestCategoryFieldRepository(t *testing.T) {
	runAllBackends(t, runCategoryFieldRepositoryTest)
}
