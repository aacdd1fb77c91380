package usecase_test

import (
	"context"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/memory"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestValidateDB(t *testing.T) {
	t.Run("clean data has no issues", func(t *testing.T) {
		uc := usecase.New(memory.New())
		setupJobs(t, uc)
		_, err := uc.Opportunity.CreateOpportunity(companyCtx("company-1"), usecase.OpportunityInput{
			Title:      "Engineer",
			CategoryID: "jobs-id",
			Config:     model.FieldValueRecord{"salary": 1, "remote": true},
		})
		gt.NoError(t, err).Required()

		result, err := uc.ValidateDB(context.Background())
		gt.NoError(t, err).Required()
		gt.B(t, result.HasIssues()).False()
		gt.Value(t, result.Scanned).Equal(1)
	})

	t.Run("orphaned keys and stale options are reported", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		setupJobs(t, uc)
		createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Level", Type: types.FieldTypeSelect, Options: []string{"junior", "senior"}})

		opp, err := uc.Opportunity.CreateOpportunity(companyCtx("company-1"), usecase.OpportunityInput{
			Title:      "Engineer",
			CategoryID: "jobs-id",
			Config:     model.FieldValueRecord{"level": "senior"},
		})
		gt.NoError(t, err).Required()

		// write records directly, bypassing validation
		_, err = repo.CategoryResponse().Put(context.Background(), &model.CategoryResponse{
			CategoryID: "jobs-id",
			UserID:     "user-1",
			Config:     model.FieldValueRecord{"level": "principal"},
		})
		gt.NoError(t, err).Required()

		fields, err := uc.Field.ListFields(context.Background(), "jobs-id")
		gt.NoError(t, err).Required()
		gt.NoError(t, uc.Field.DeleteField(adminCtx(), "jobs-id", fields[0].ID)).Required()

		result, err := uc.ValidateDB(context.Background())
		gt.NoError(t, err).Required()
		gt.A(t, result.Issues).Length(2)

		gt.Value(t, result.Issues[0].Source).Equal(usecase.SourceOpportunity)
		gt.Value(t, result.Issues[0].RecordID).Equal(opp.ID.String())
		gt.Value(t, result.Issues[0].Key).Equal("salary")

		gt.Value(t, result.Issues[1].Source).Equal(usecase.SourceResponse)
		gt.Value(t, result.Issues[1].Key).Equal("level")
		gt.Value(t, result.Issues[1].Actual).Equal("principal")
	})
}
