package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

type FieldUseCase struct {
	repo interfaces.Repository
}

func NewFieldUseCase(repo interfaces.Repository) *FieldUseCase {
	return &FieldUseCase{
		repo: repo,
	}
}

// FieldInput is a new field definition. Name is derived from Label when empty.
type FieldInput struct {
	Label       string
	Name        string
	Type        types.FieldType
	Required    bool
	Placeholder string
	Options     []string
	Min         *float64
	Max         *float64
	Step        *float64
}

// specErrorField maps a spec construction error to the request attribute at fault
func specErrorField(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidOption), errors.Is(err, model.ErrMissingOptions):
		return "options"
	case errors.Is(err, model.ErrInvalidRange):
		return "range"
	default:
		return "type"
	}
}

func (uc *FieldUseCase) CreateField(ctx context.Context, categoryID types.CategoryID, in FieldInput) (*model.CategoryField, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	verr := model.NewValidationError()

	label := strings.TrimSpace(in.Label)
	if label == "" {
		verr.Add("label", "label is required")
	}

	spec, err := model.NewFieldSpec(model.FieldSpecInput{
		Type:    in.Type,
		Options: in.Options,
		Min:     in.Min,
		Max:     in.Max,
		Step:    in.Step,
	})
	if err != nil {
		verr.Add(specErrorField(err), err.Error())
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "" && label != "":
		derived, err := model.DeriveFieldName(label)
		if err != nil {
			verr.Add("name", "a field name cannot be derived from the label")
		}
		name = derived
	case name != "":
		if err := model.ValidateFieldName(name); err != nil {
			verr.Add("name", "name must be lowercase letters and digits separated by single underscores")
		}
	}

	if !verr.Empty() {
		return nil, verr
	}

	if _, err := uc.repo.Category().Get(ctx, categoryID); err != nil {
		return nil, goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, categoryID))
	}

	// Order is assigned by the repository
	field := &model.CategoryField{
		ID:          types.NewFieldID(),
		CategoryID:  categoryID,
		Label:       label,
		Name:        name,
		Required:    in.Required,
		Placeholder: in.Placeholder,
		Spec:        spec,
	}
	if err := field.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid field definition")
	}

	created, err := uc.repo.CategoryField().Create(ctx, field)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			verr.Add("name", "field name \""+name+"\" is already used in this category")
			return nil, verr
		}
		return nil, goerr.Wrap(err, "failed to create field", goerr.V(CategoryIDKey, categoryID))
	}
	return created, nil
}

// ListFields returns the category's fields sorted by order
func (uc *FieldUseCase) ListFields(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error) {
	fields, err := uc.repo.CategoryField().List(ctx, categoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list fields", goerr.V(CategoryIDKey, categoryID))
	}
	return model.SortFields(fields), nil
}

// DeleteField removes a field and closes the gap in the sibling orders.
// Stored records keep the deleted field's key.
func (uc *FieldUseCase) DeleteField(ctx context.Context, categoryID types.CategoryID, fieldID types.FieldID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := uc.repo.CategoryField().Delete(ctx, categoryID, fieldID); err != nil {
		return goerr.Wrap(err, "failed to delete field",
			goerr.V(CategoryIDKey, categoryID), goerr.V(FieldIDKey, fieldID))
	}

	remaining, err := uc.ListFields(ctx, categoryID)
	if err != nil {
		return err
	}

	ids := make([]types.FieldID, len(remaining))
	for i, f := range remaining {
		ids[i] = f.ID
	}
	return uc.persistOrders(ctx, categoryID, remaining, ids)
}

// ReorderFields assigns each field the index of its ID in orderedIDs. The
// IDs must be exactly the category's current fields; a list that has gone
// stale is a conflict.
func (uc *FieldUseCase) ReorderFields(ctx context.Context, categoryID types.CategoryID, orderedIDs []types.FieldID) ([]*model.CategoryField, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	current, err := uc.ListFields(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if len(orderedIDs) != len(current) {
		return nil, goerr.Wrap(ErrConflict, "field list does not match current fields",
			goerr.V(CategoryIDKey, categoryID), goerr.V("given", len(orderedIDs)), goerr.V("current", len(current)))
	}
	known := make(map[types.FieldID]bool, len(current))
	for _, f := range current {
		known[f.ID] = false
	}
	for _, id := range orderedIDs {
		seen, ok := known[id]
		if !ok || seen {
			return nil, goerr.Wrap(ErrConflict, "field list does not match current fields",
				goerr.V(CategoryIDKey, categoryID), goerr.V(FieldIDKey, id))
		}
		known[id] = true
	}

	if err := uc.persistOrders(ctx, categoryID, current, orderedIDs); err != nil {
		return nil, err
	}
	return uc.ListFields(ctx, categoryID)
}

// persistOrders writes order = index for every field in orderedIDs whose
// stored order differs.
func (uc *FieldUseCase) persistOrders(ctx context.Context, categoryID types.CategoryID, current []*model.CategoryField, orderedIDs []types.FieldID) error {
	stored := make(map[types.FieldID]int, len(current))
	for _, f := range current {
		stored[f.ID] = f.Order
	}

	changed := make(map[types.FieldID]int)
	for i, id := range orderedIDs {
		if stored[id] != i {
			changed[id] = i
		}
	}
	if len(changed) == 0 {
		return nil
	}

	if err := uc.repo.CategoryField().UpdateOrders(ctx, categoryID, changed); err != nil {
		return goerr.Wrap(err, "failed to update field orders",
			goerr.V(CategoryIDKey, categoryID), goerr.V("changed", len(changed)))
	}
	return nil
}

// GetForm renders the category's form. When opportunityID is set the form is
// prefilled from that opportunity's stored record.
func (uc *FieldUseCase) GetForm(ctx context.Context, categoryID types.CategoryID, opportunityID types.OpportunityID) (*model.Form, error) {
	var (
		fields []*model.CategoryField
		opp    *model.Opportunity
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if _, err := uc.repo.Category().Get(egCtx, categoryID); err != nil {
			return goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, categoryID))
		}
		return nil
	})
	eg.Go(func() error {
		list, err := uc.ListFields(egCtx, categoryID)
		if err != nil {
			return err
		}
		fields = list
		return nil
	})
	if opportunityID != "" {
		eg.Go(func() error {
			o, err := uc.repo.Opportunity().Get(egCtx, opportunityID)
			if err != nil {
				return goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, opportunityID))
			}
			opp = o
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var record model.FieldValueRecord
	if opp != nil && opp.CategoryID == categoryID {
		record = opp.Config
	}
	return model.BuildForm(categoryID, fields, record), nil
}
