package interfaces

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// ProfileRepository defines the interface for Profile data access
type ProfileRepository interface {
	// Get retrieves a profile by user ID
	Get(ctx context.Context, id types.UserID) (*model.Profile, error)

	// Put creates or replaces a profile
	Put(ctx context.Context, p *model.Profile) (*model.Profile, error)
}
