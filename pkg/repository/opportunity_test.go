package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func runOpportunityRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create stores fixed fields and config", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()

		created, err := repo.Opportunity().Create(ctx, &model.Opportunity{
			Title:      "Engineer",
			CategoryID: categoryID,
			Deadline:   "2030-01-31",
			Config:     model.FieldValueRecord{"salary": 50000, "remote": true},
		})
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Value(t, created.Status).Equal(types.OpportunityStatusOpen)

		got, err := repo.Opportunity().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Engineer")
		gt.Value(t, got.CategoryID).Equal(categoryID)
		gt.Value(t, got.Deadline).Equal("2030-01-31")

		salary, ok := model.ToNumber(got.Config["salary"])
		gt.Bool(t, ok).True()
		gt.Value(t, salary).Equal(50000.0)
		gt.Value(t, got.Config["remote"]).Equal(any(true))
	})

	t.Run("List filters and limits", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		categoryID := uniqueCategoryID()
		companyID := uniqueUserID()

		for i := 0; i < 3; i++ {
			_, err := repo.Opportunity().Create(ctx, &model.Opportunity{
				Title:      "Listing",
				CategoryID: categoryID,
				CompanyID:  companyID,
			})
			gt.NoError(t, err).Required()
			time.Sleep(time.Millisecond)
		}
		_, err := repo.Opportunity().Create(ctx, &model.Opportunity{
			Title:      "Closed listing",
			CategoryID: categoryID,
			Status:     types.OpportunityStatusClosed,
		})
		gt.NoError(t, err).Required()

		all, err := repo.Opportunity().List(ctx, interfaces.WithCategory(categoryID))
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(4)
		gt.Value(t, all[0].Title).Equal("Closed listing")

		byCompany, err := repo.Opportunity().List(ctx, interfaces.WithCompany(companyID))
		gt.NoError(t, err).Required()
		gt.Array(t, byCompany).Length(3)

		open, err := repo.Opportunity().List(ctx,
			interfaces.WithCategory(categoryID),
			interfaces.WithOpportunityStatus(types.OpportunityStatusOpen))
		gt.NoError(t, err).Required()
		gt.Array(t, open).Length(3)

		limited, err := repo.Opportunity().List(ctx, interfaces.WithCategory(categoryID), interfaces.WithLimit(2))
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(2)
	})

	t.Run("Update and Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Opportunity().Create(ctx, &model.Opportunity{Title: "Draft", CategoryID: uniqueCategoryID()})
		gt.NoError(t, err).Required()

		created.Title = "Published"
		created.Config = model.FieldValueRecord{"level": "senior"}
		updated, err := repo.Opportunity().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal("Published")
		gt.Value(t, updated.Config["level"]).Equal(any("senior"))
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()

		gt.NoError(t, repo.Opportunity().Delete(ctx, created.ID))
		_, err = repo.Opportunity().Get(ctx, created.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		_, err = repo.Opportunity().Update(ctx, created)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("CountByCategory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		a, b := uniqueCategoryID(), uniqueCategoryID()

		for _, id := range []types.CategoryID{a, a, b} {
			_, err := repo.Opportunity().Create(ctx, &model.Opportunity{Title: "x", CategoryID: id})
			gt.NoError(t, err).Required()
		}

		counts, err := repo.Opportunity().CountByCategory(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, counts[a]).Equal(2)
		gt.Value(t, counts[b]).Equal(1)
	})
}

func TestOpportunityRepository(t *testing.T) {
	runAllBackends(t, runOpportunityRepositoryTest)
}
