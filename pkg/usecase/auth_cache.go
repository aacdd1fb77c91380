package usecase

import (
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

const (
	profileCacheTTL = time.Minute
)

type cachedProfile struct {
	profile   *model.Profile
	expiresAt time.Time
}

// profileCache keeps recently resolved profiles so that every request does
// not hit the repository for the caller's role.
type profileCache struct {
	cache sync.Map
}

func newProfileCache() *profileCache {
	return &profileCache{}
}

func (c *profileCache) get(id types.UserID) (*model.Profile, bool) {
	val, ok := c.cache.Load(id)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedProfile)
	if time.Now().After(cached.expiresAt) {
		c.cache.Delete(id)
		return nil, false
	}

	return cached.profile, true
}

func (c *profileCache) set(p *model.Profile) {
	c.cache.Store(p.ID, &cachedProfile{
		profile:   p,
		expiresAt: time.Now().Add(profileCacheTTL),
	})
}

func (c *profileCache) remove(id types.UserID) {
	c.cache.Delete(id)
}
