package usecase

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ResponseUseCase manages users' configuration responses to a category
type ResponseUseCase struct {
	repo interfaces.Repository
}

func NewResponseUseCase(repo interfaces.Repository) *ResponseUseCase {
	return &ResponseUseCase{
		repo: repo,
	}
}

func (uc *ResponseUseCase) schema(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error) {
	if _, err := uc.repo.Category().Get(ctx, categoryID); err != nil {
		return nil, goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, categoryID))
	}
	fields, err := uc.repo.CategoryField().List(ctx, categoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list fields", goerr.V(CategoryIDKey, categoryID))
	}
	return fields, nil
}

// GetResponse returns the caller's response with defaults filled in. A
// caller who never answered gets the defaults and a zero UpdatedAt.
func (uc *ResponseUseCase) GetResponse(ctx context.Context, categoryID types.CategoryID) (*model.CategoryResponse, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	fields, err := uc.schema(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	stored, err := uc.repo.CategoryResponse().Get(ctx, categoryID, sess.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get response",
			goerr.V(CategoryIDKey, categoryID), goerr.V(UserIDKey, sess.UserID))
	}

	resp := &model.CategoryResponse{
		CategoryID: categoryID,
		UserID:     sess.UserID,
	}
	var record model.FieldValueRecord
	if stored != nil {
		record = stored.Config
		resp.UpdatedAt = stored.UpdatedAt
	}
	resp.Config = model.MergeRecord(fields, record)
	return resp, nil
}

// SubmitResponse validates config and replaces the caller's response
func (uc *ResponseUseCase) SubmitResponse(ctx context.Context, categoryID types.CategoryID, config model.FieldValueRecord) (*model.CategoryResponse, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	fields, err := uc.schema(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	record := model.MergeRecord(fields, config)
	if err := checkRecord(fields, record, "config."); err != nil {
		return nil, err
	}

	saved, err := uc.repo.CategoryResponse().Put(ctx, &model.CategoryResponse{
		CategoryID: categoryID,
		UserID:     sess.UserID,
		Config:     record,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save response",
			goerr.V(CategoryIDKey, categoryID), goerr.V(UserIDKey, sess.UserID))
	}
	return saved, nil
}
