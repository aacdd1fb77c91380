package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type categoryRepository struct {
	mu         sync.RWMutex
	categories map[types.CategoryID]*model.Category
}

func newCategoryRepository() *categoryRepository {
	return &categoryRepository{
		categories: make(map[types.CategoryID]*model.Category),
	}
}

func copyCategory(c *model.Category) *model.Category {
	copied := *c
	return &copied
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[c.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "category already exists", goerr.V("id", c.ID))
	}

	now := time.Now().UTC()
	created := copyCategory(c)
	created.CreatedAt = now
	created.UpdatedAt = now

	r.categories[created.ID] = created
	return copyCategory(created), nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.categories[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
	}
	return copyCategory(c), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, copyCategory(c))
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Title == categories[j].Title {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Title < categories[j].Title
	})
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.categories[c.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", c.ID))
	}

	updated := copyCategory(c)
	updated.Count = existing.Count
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.categories[updated.ID] = updated
	return copyCategory(updated), nil
}

func (r *categoryRepository) Delete(ctx context.Context, id types.CategoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
	}
	delete(r.categories, id)
	return nil
}

func (r *categoryRepository) AdjustCount(ctx context.Context, id types.CategoryID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.categories[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
	}
	c.Count += delta
	if c.Count < 0 {
		c.Count = 0
	}
	return nil
}

func (r *categoryRepository) SetCount(ctx context.Context, id types.CategoryID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.categories[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
	}
	c.Count = count
	return nil
}
