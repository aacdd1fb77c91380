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

type applicationKey struct {
	opportunityID types.OpportunityID
	userID        types.UserID
}

type applicationRepository struct {
	mu           sync.RWMutex
	applications map[types.ApplicationID]*model.Application
	byApplicant  map[applicationKey]types.ApplicationID
}

func newApplicationRepository() *applicationRepository {
	return &applicationRepository{
		applications: make(map[types.ApplicationID]*model.Application),
		byApplicant:  make(map[applicationKey]types.ApplicationID),
	}
}

func copyApplication(a *model.Application) *model.Application {
	copied := *a
	if a.Answers != nil {
		copied.Answers = a.Answers.Clone()
	}
	return &copied
}

func (r *applicationRepository) Create(ctx context.Context, a *model.Application) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := applicationKey{opportunityID: a.OpportunityID, userID: a.UserID}
	if _, exists := r.byApplicant[key]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "application already exists",
			goerr.V("opportunity_id", a.OpportunityID), goerr.V("user_id", a.UserID))
	}

	now := time.Now().UTC()
	created := copyApplication(a)
	if created.ID == "" {
		created.ID = types.NewApplicationID()
	}
	if created.Status == "" {
		created.Status = types.ApplicationStatusPending
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.applications[created.ID] = created
	r.byApplicant[key] = created.ID
	return copyApplication(created), nil
}

func (r *applicationRepository) Get(ctx context.Context, id types.ApplicationID) (*model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.applications[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
	}
	return copyApplication(a), nil
}

func (r *applicationRepository) list(match func(*model.Application) bool) []*model.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Application, 0)
	for _, a := range r.applications {
		if match(a) {
			result = append(result, copyApplication(a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *applicationRepository) ListByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Application, error) {
	return r.list(func(a *model.Application) bool { return a.OpportunityID == opportunityID }), nil
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Application, error) {
	return r.list(func(a *model.Application) bool { return a.UserID == userID }), nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id types.ApplicationID, status types.ApplicationStatus) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.applications[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return copyApplication(a), nil
}

func (r *applicationRepository) DeleteByOpportunity(ctx context.Context, opportunityID types.OpportunityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.applications {
		if a.OpportunityID == opportunityID {
			delete(r.byApplicant, applicationKey{opportunityID: a.OpportunityID, userID: a.UserID})
			delete(r.applications, id)
		}
	}
	return nil
}
