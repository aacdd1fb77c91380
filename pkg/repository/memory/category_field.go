package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type categoryFieldRepository struct {
	mu     sync.RWMutex
	fields map[types.CategoryID]map[types.FieldID]*model.CategoryField
}

func newCategoryFieldRepository() *categoryFieldRepository {
	return &categoryFieldRepository{
		fields: make(map[types.CategoryID]map[types.FieldID]*model.CategoryField),
	}
}

// copyCategoryField creates a deep copy of a field, including its options
func copyCategoryField(f *model.CategoryField) *model.CategoryField {
	copied := *f
	if spec, ok := f.Spec.(model.ChoiceSpec); ok {
		copied.Spec = model.ChoiceSpec{Type: spec.Type, Options: append([]string{}, spec.Options...)}
	}
	return &copied
}

func (r *categoryFieldRepository) Create(ctx context.Context, f *model.CategoryField) (*model.CategoryField, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fields[f.CategoryID]; !exists {
		r.fields[f.CategoryID] = make(map[types.FieldID]*model.CategoryField)
	}
	siblings := r.fields[f.CategoryID]
	if _, exists := siblings[f.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "field already exists", goerr.V("id", f.ID))
	}
	for _, sibling := range siblings {
		if sibling.Name == f.Name {
			return nil, goerr.Wrap(ErrAlreadyExists, "field name already used",
				goerr.V("category_id", f.CategoryID), goerr.V("name", f.Name))
		}
	}

	now := time.Now().UTC()
	created := copyCategoryField(f)
	created.Order = len(siblings)
	created.CreatedAt = now
	created.UpdatedAt = now

	r.fields[f.CategoryID][created.ID] = created
	return copyCategoryField(created), nil
}

func (r *categoryFieldRepository) Get(ctx context.Context, categoryID types.CategoryID, id types.FieldID) (*model.CategoryField, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.fields[categoryID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "field not found",
			goerr.V("category_id", categoryID), goerr.V("id", id))
	}
	return copyCategoryField(f), nil
}

func (r *categoryFieldRepository) List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := make([]*model.CategoryField, 0, len(r.fields[categoryID]))
	for _, f := range r.fields[categoryID] {
		fields = append(fields, copyCategoryField(f))
	}
	return model.SortFields(fields), nil
}

func (r *categoryFieldRepository) Delete(ctx context.Context, categoryID types.CategoryID, id types.FieldID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fields[categoryID][id]; !exists {
		return goerr.Wrap(ErrNotFound, "field not found",
			goerr.V("category_id", categoryID), goerr.V("id", id))
	}
	delete(r.fields[categoryID], id)
	return nil
}

func (r *categoryFieldRepository) DeleteByCategory(ctx context.Context, categoryID types.CategoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.fields, categoryID)
	return nil
}

func (r *categoryFieldRepository) UpdateOrders(ctx context.Context, categoryID types.CategoryID, orders map[types.FieldID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	siblings := r.fields[categoryID]
	for id := range orders {
		if _, exists := siblings[id]; !exists {
			return goerr.Wrap(ErrNotFound, "field not found",
				goerr.V("category_id", categoryID), goerr.V("id", id))
		}
	}

	now := time.Now().UTC()
	for id, order := range orders {
		siblings[id].Order = order
		siblings[id].UpdatedAt = now
	}
	return nil
}
