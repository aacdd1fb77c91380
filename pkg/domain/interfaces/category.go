package interfaces

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// CategoryRepository defines the interface for Category data access
type CategoryRepository interface {
	// Create stores a new category. ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, c *model.Category) (*model.Category, error)

	// Get retrieves a category by ID
	Get(ctx context.Context, id types.CategoryID) (*model.Category, error)

	// List retrieves all categories ordered by title
	List(ctx context.Context) ([]*model.Category, error)

	// Update updates title, description, icon and color. Count is not touched.
	Update(ctx context.Context, c *model.Category) (*model.Category, error)

	// Delete deletes a category by ID
	Delete(ctx context.Context, id types.CategoryID) error

	// AdjustCount adds delta to the category's opportunity count
	AdjustCount(ctx context.Context, id types.CategoryID, delta int) error

	// SetCount overwrites the opportunity count
	SetCount(ctx context.Context, id types.CategoryID, count int) error
}

// CategoryFieldRepository defines the interface for CategoryField data access
type CategoryFieldRepository interface {
	// Create appends a new field to its category. The repository assigns
	// Order as the current number of siblings, ignoring f.Order, and returns
	// ErrAlreadyExists when the ID or the name is already used in the
	// category. Both rules hold under concurrent creates.
	Create(ctx context.Context, f *model.CategoryField) (*model.CategoryField, error)

	// Get retrieves a field of a category
	Get(ctx context.Context, categoryID types.CategoryID, id types.FieldID) (*model.CategoryField, error)

	// List retrieves the fields of a category sorted by order
	List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error)

	// Delete deletes a single field
	Delete(ctx context.Context, categoryID types.CategoryID, id types.FieldID) error

	// DeleteByCategory deletes every field of a category
	DeleteByCategory(ctx context.Context, categoryID types.CategoryID) error

	// UpdateOrders sets the order of the given fields in one atomic write.
	// Fields not in orders are left unchanged.
	UpdateOrders(ctx context.Context, categoryID types.CategoryID, orders map[types.FieldID]int) error
}
