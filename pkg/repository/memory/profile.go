package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[types.UserID]*model.Profile
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[types.UserID]*model.Profile),
	}
}

func copyProfile(p *model.Profile) *model.Profile {
	copied := *p
	return &copied
}

func (r *profileRepository) Get(ctx context.Context, id types.UserID) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.profiles[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
	}
	return copyProfile(p), nil
}

func (r *profileRepository) Put(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyProfile(p)
	if existing, exists := r.profiles[p.ID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.profiles[stored.ID] = stored
	return copyProfile(stored), nil
}
