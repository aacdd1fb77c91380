package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

type categoryResponseKey struct {
	categoryID types.CategoryID
	userID     types.UserID
}

type categoryResponseRepository struct {
	mu        sync.RWMutex
	responses map[categoryResponseKey]*model.CategoryResponse
}

func newCategoryResponseRepository() *categoryResponseRepository {
	return &categoryResponseRepository{
		responses: make(map[categoryResponseKey]*model.CategoryResponse),
	}
}

func copyCategoryResponse(r *model.CategoryResponse) *model.CategoryResponse {
	copied := *r
	if r.Config != nil {
		copied.Config = r.Config.Clone()
	}
	return &copied
}

func (r *categoryResponseRepository) Get(ctx context.Context, categoryID types.CategoryID, userID types.UserID) (*model.CategoryResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resp, exists := r.responses[categoryResponseKey{categoryID: categoryID, userID: userID}]
	if !exists {
		return nil, nil
	}
	return copyCategoryResponse(resp), nil
}

func (r *categoryResponseRepository) Put(ctx context.Context, resp *model.CategoryResponse) (*model.CategoryResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyCategoryResponse(resp)
	stored.UpdatedAt = time.Now().UTC()
	r.responses[categoryResponseKey{categoryID: resp.CategoryID, userID: resp.UserID}] = stored
	return copyCategoryResponse(stored), nil
}

func (r *categoryResponseRepository) List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.CategoryResponse, 0)
	for key, resp := range r.responses {
		if key.categoryID == categoryID {
			result = append(result, copyCategoryResponse(resp))
		}
	}
	return result, nil
}
