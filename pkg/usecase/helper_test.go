package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func adminCtx() context.Context {
	return auth.ContextWithSession(context.Background(), &auth.Session{UserID: "admin-1", Role: types.RoleAdmin})
}

func companyCtx(id types.UserID) context.Context {
	return auth.ContextWithSession(context.Background(), &auth.Session{UserID: id, Role: types.RoleCompany})
}

func userCtx(id types.UserID) context.Context {
	return auth.ContextWithSession(context.Background(), &auth.Session{UserID: id, Role: types.RoleUser})
}

// spyRepository counts every repository access
type spyRepository struct {
	interfaces.Repository
	calls atomic.Int32
}

func (s *spyRepository) Category() interfaces.CategoryRepository {
	s.calls.Add(1)
	return s.Repository.Category()
}

func (s *spyRepository) CategoryField() interfaces.CategoryFieldRepository {
	s.calls.Add(1)
	return s.Repository.CategoryField()
}

func (s *spyRepository) Opportunity() interfaces.OpportunityRepository {
	s.calls.Add(1)
	return s.Repository.Opportunity()
}

func (s *spyRepository) Application() interfaces.ApplicationRepository {
	s.calls.Add(1)
	return s.Repository.Application()
}

func (s *spyRepository) CategoryResponse() interfaces.CategoryResponseRepository {
	s.calls.Add(1)
	return s.Repository.CategoryResponse()
}

func (s *spyRepository) Profile() interfaces.ProfileRepository {
	s.calls.Add(1)
	return s.Repository.Profile()
}

func ptr[T any](v T) *T {
	return &v
}

func createCategory(t *testing.T, uc *usecase.UseCases, id types.CategoryID) *model.Category {
	t.Helper()
	c, err := uc.Category.CreateCategory(adminCtx(), usecase.CategoryInput{ID: id, Title: string(id)})
	gt.NoError(t, err).Required()
	return c
}

func createField(t *testing.T, uc *usecase.UseCases, categoryID types.CategoryID, in usecase.FieldInput) *model.CategoryField {
	t.Helper()
	f, err := uc.Field.CreateField(adminCtx(), categoryID, in)
	gt.NoError(t, err).Required()
	return f
}

// setupJobs creates the "jobs-id" category with a salary number field and a
// remote checkbox.
func setupJobs(t *testing.T, uc *usecase.UseCases) {
	t.Helper()
	createCategory(t, uc, "jobs-id")
	createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Salary", Type: types.FieldTypeNumber})
	createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Remote", Type: types.FieldTypeCheckbox})
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	gt.Error(t, err).Is(model.ErrValidation)
	var ve *model.ValidationError
	gt.B(t, errorsAs(err, &ve)).True()
	return ve.FieldErrors()
}
