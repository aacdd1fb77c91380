package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type opportunityRepository struct {
	mu            sync.RWMutex
	opportunities map[types.OpportunityID]*model.Opportunity
}

func newOpportunityRepository() *opportunityRepository {
	return &opportunityRepository{
		opportunities: make(map[types.OpportunityID]*model.Opportunity),
	}
}

func copyOpportunity(o *model.Opportunity) *model.Opportunity {
	copied := *o
	if o.Config != nil {
		copied.Config = o.Config.Clone()
	}
	return &copied
}

func (r *opportunityRepository) Create(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyOpportunity(o)
	if created.ID == "" {
		created.ID = types.NewOpportunityID()
	}
	created.Status = created.Status.Normalize()
	if _, exists := r.opportunities[created.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "opportunity already exists", goerr.V("id", created.ID))
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.opportunities[created.ID] = created
	return copyOpportunity(created), nil
}

func (r *opportunityRepository) Get(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.opportunities[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", id))
	}
	return copyOpportunity(o), nil
}

func (r *opportunityRepository) List(ctx context.Context, opts ...interfaces.ListOpportunityOption) ([]*model.Opportunity, error) {
	cfg := interfaces.BuildListOpportunityConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Opportunity, 0)
	for _, o := range r.opportunities {
		if cfg.Match(o) {
			result = append(result, copyOpportunity(o))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit := cfg.Limit(); limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *opportunityRepository) Update(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.opportunities[o.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", o.ID))
	}

	updated := copyOpportunity(o)
	updated.Status = updated.Status.Normalize()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.opportunities[updated.ID] = updated
	return copyOpportunity(updated), nil
}

func (r *opportunityRepository) Delete(ctx context.Context, id types.OpportunityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.opportunities[id]; !exists {
		return goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", id))
	}
	delete(r.opportunities, id)
	return nil
}

func (r *opportunityRepository) CountByCategory(ctx context.Context) (map[types.CategoryID]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[types.CategoryID]int)
	for _, o := range r.opportunities {
		counts[o.CategoryID]++
	}
	return counts, nil
}
