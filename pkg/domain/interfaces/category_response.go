package interfaces

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// CategoryResponseRepository defines the interface for CategoryResponse data access
type CategoryResponseRepository interface {
	// Get retrieves a user's response to a category.
	// Returns nil, nil if the user has not responded yet.
	Get(ctx context.Context, categoryID types.CategoryID, userID types.UserID) (*model.CategoryResponse, error)

	// Put creates or replaces a response
	Put(ctx context.Context, r *model.CategoryResponse) (*model.CategoryResponse, error)

	// List retrieves every stored response of a category
	List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryResponse, error)
}
