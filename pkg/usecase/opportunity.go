package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

type OpportunityUseCase struct {
	repo interfaces.Repository
}

func NewOpportunityUseCase(repo interfaces.Repository) *OpportunityUseCase {
	return &OpportunityUseCase{
		repo: repo,
	}
}

// OpportunityInput is the full submitted state of the opportunity form:
// fixed fields plus the dynamic record under Config.
type OpportunityInput struct {
	Title       string
	Description string
	CategoryID  types.CategoryID
	Location    string
	Deadline    string
	ApplyURL    string
	Status      types.OpportunityStatus
	Config      model.FieldValueRecord
}

// ListOpportunitiesInput filters ListOpportunities. Zero values mean no filter.
type ListOpportunitiesInput struct {
	CategoryID types.CategoryID
	CompanyID  types.UserID
	Status     types.OpportunityStatus
	Limit      int
}

func (in OpportunityInput) apply(o *model.Opportunity) {
	o.Title = strings.TrimSpace(in.Title)
	o.Description = in.Description
	o.CategoryID = in.CategoryID
	o.Location = in.Location
	o.Deadline = strings.TrimSpace(in.Deadline)
	o.ApplyURL = strings.TrimSpace(in.ApplyURL)
	o.Status = in.Status.Normalize()
}

// loadSchema confirms the category exists and returns its fields. A missing
// category is reported against category_id.
func (uc *OpportunityUseCase) loadSchema(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error) {
	if _, err := uc.repo.Category().Get(ctx, categoryID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			verr := model.NewValidationError()
			verr.Add("category_id", "category does not exist")
			return nil, verr
		}
		return nil, goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, categoryID))
	}

	fields, err := uc.repo.CategoryField().List(ctx, categoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list fields", goerr.V(CategoryIDKey, categoryID))
	}
	return fields, nil
}

// checkRecord validates record against fields, reporting messages under
// "<prefix><field name>".
func checkRecord(fields []*model.CategoryField, record model.FieldValueRecord, prefix string) error {
	err := model.NewRecordValidator(fields).Validate(record)
	if err == nil {
		return nil
	}
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return goerr.Wrap(err, "failed to validate record")
	}
	out := model.NewValidationError()
	out.Merge(prefix, ve)
	return out
}

func (uc *OpportunityUseCase) adjustCount(ctx context.Context, categoryID types.CategoryID, delta int) {
	// A failed adjustment is repaired by the count worker
	if err := uc.repo.Category().AdjustCount(ctx, categoryID, delta); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to adjust category count",
			goerr.V(CategoryIDKey, categoryID), goerr.V("delta", delta)), "category count drift")
	}
}

// CreateOpportunity validates and stores a new opportunity owned by the
// caller. Fixed fields are checked before anything is read from storage.
func (uc *OpportunityUseCase) CreateOpportunity(ctx context.Context, in OpportunityInput) (*model.Opportunity, error) {
	sess, err := requirePublisher(ctx)
	if err != nil {
		return nil, err
	}

	o := &model.Opportunity{CompanyID: sess.UserID}
	in.apply(o)
	if verr := o.ValidateFixed(); !verr.Empty() {
		return nil, verr
	}

	fields, err := uc.loadSchema(ctx, o.CategoryID)
	if err != nil {
		return nil, err
	}

	o.Config = model.MergeRecord(fields, in.Config)
	if err := checkRecord(fields, o.Config, "config."); err != nil {
		return nil, err
	}

	created, err := uc.repo.Opportunity().Create(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create opportunity", goerr.V(CategoryIDKey, o.CategoryID))
	}
	uc.adjustCount(ctx, created.CategoryID, 1)

	return created, nil
}

func (uc *OpportunityUseCase) GetOpportunity(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	o, err := uc.repo.Opportunity().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, id))
	}
	return o, nil
}

func (uc *OpportunityUseCase) ListOpportunities(ctx context.Context, in ListOpportunitiesInput) ([]*model.Opportunity, error) {
	var opts []interfaces.ListOpportunityOption
	if in.CategoryID != "" {
		opts = append(opts, interfaces.WithCategory(in.CategoryID))
	}
	if in.CompanyID != "" {
		opts = append(opts, interfaces.WithCompany(in.CompanyID))
	}
	if in.Status != "" {
		opts = append(opts, interfaces.WithOpportunityStatus(in.Status))
	}
	if in.Limit > 0 {
		opts = append(opts, interfaces.WithLimit(in.Limit))
	}

	list, err := uc.repo.Opportunity().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list opportunities")
	}
	return list, nil
}

// UpdateOpportunity replaces the opportunity's fixed fields and record.
// Within the same category the stored record is kept underneath the
// submitted one, so keys of deleted fields survive. Moving to another
// category resets the record to that category's defaults before the
// submitted values are applied.
func (uc *OpportunityUseCase) UpdateOpportunity(ctx context.Context, id types.OpportunityID, in OpportunityInput) (*model.Opportunity, error) {
	sess, err := requirePublisher(ctx)
	if err != nil {
		return nil, err
	}

	o := &model.Opportunity{ID: id}
	in.apply(o)
	if verr := o.ValidateFixed(); !verr.Empty() {
		return nil, verr
	}

	existing, err := uc.repo.Opportunity().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, id))
	}
	if err := requireOwner(sess, existing); err != nil {
		return nil, err
	}
	o.CompanyID = existing.CompanyID
	o.CreatedAt = existing.CreatedAt

	fields, err := uc.loadSchema(ctx, o.CategoryID)
	if err != nil {
		return nil, err
	}

	categoryChanged := existing.CategoryID != o.CategoryID
	if categoryChanged {
		o.Config = model.MergeRecord(fields, in.Config)
	} else {
		base := existing.Config.Clone()
		for k, v := range in.Config {
			base[k] = v
		}
		o.Config = model.MergeRecord(fields, base)
	}
	if err := checkRecord(fields, o.Config, "config."); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Opportunity().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update opportunity", goerr.V(OpportunityIDKey, id))
	}

	if categoryChanged {
		uc.adjustCount(ctx, existing.CategoryID, -1)
		uc.adjustCount(ctx, updated.CategoryID, 1)
	}
	return updated, nil
}

// DeleteOpportunity removes the opportunity and its applications
func (uc *OpportunityUseCase) DeleteOpportunity(ctx context.Context, id types.OpportunityID) error {
	sess, err := requirePublisher(ctx)
	if err != nil {
		return err
	}

	existing, err := uc.repo.Opportunity().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, id))
	}
	if err := requireOwner(sess, existing); err != nil {
		return err
	}

	if err := uc.repo.Opportunity().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete opportunity", goerr.V(OpportunityIDKey, id))
	}
	if err := uc.repo.Application().DeleteByOpportunity(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete applications", goerr.V(OpportunityIDKey, id))
	}
	uc.adjustCount(ctx, existing.CategoryID, -1)

	return nil
}
