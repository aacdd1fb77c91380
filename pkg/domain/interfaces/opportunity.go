package interfaces

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// OpportunityRepository defines the interface for Opportunity data access
type OpportunityRepository interface {
	Create(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error)
	Get(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error)

	// List retrieves opportunities, newest first
	List(ctx context.Context, opts ...ListOpportunityOption) ([]*model.Opportunity, error)

	Update(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error)
	Delete(ctx context.Context, id types.OpportunityID) error

	// CountByCategory returns the number of opportunities per category
	CountByCategory(ctx context.Context) (map[types.CategoryID]int, error)
}

// ListOpportunityOption is a functional option for filtering opportunities in List
type ListOpportunityOption func(*listOpportunityConfig)

type listOpportunityConfig struct {
	categoryID *types.CategoryID
	companyID  *types.UserID
	status     *types.OpportunityStatus
	limit      int
}

// WithCategory filters opportunities by category
func WithCategory(id types.CategoryID) ListOpportunityOption {
	return func(c *listOpportunityConfig) {
		c.categoryID = &id
	}
}

// WithCompany filters opportunities by publishing company
func WithCompany(id types.UserID) ListOpportunityOption {
	return func(c *listOpportunityConfig) {
		c.companyID = &id
	}
}

// WithOpportunityStatus filters opportunities by status
func WithOpportunityStatus(status types.OpportunityStatus) ListOpportunityOption {
	return func(c *listOpportunityConfig) {
		c.status = &status
	}
}

// WithLimit caps the number of results. Zero or negative means no limit.
func WithLimit(n int) ListOpportunityOption {
	return func(c *listOpportunityConfig) {
		c.limit = n
	}
}

// BuildListOpportunityConfig builds a listOpportunityConfig from options
func BuildListOpportunityConfig(opts ...ListOpportunityOption) *listOpportunityConfig {
	cfg := &listOpportunityConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// CategoryID returns the category filter, or nil if not set
func (c *listOpportunityConfig) CategoryID() *types.CategoryID {
	return c.categoryID
}

// CompanyID returns the company filter, or nil if not set
func (c *listOpportunityConfig) CompanyID() *types.UserID {
	return c.companyID
}

// Status returns the status filter, or nil if not set
func (c *listOpportunityConfig) Status() *types.OpportunityStatus {
	return c.status
}

// Limit returns the result cap, 0 when unlimited
func (c *listOpportunityConfig) Limit() int {
	if c.limit < 0 {
		return 0
	}
	return c.limit
}

// Match reports whether o passes the filters. Limit is not considered.
func (c *listOpportunityConfig) Match(o *model.Opportunity) bool {
	if c.categoryID != nil && o.CategoryID != *c.categoryID {
		return false
	}
	if c.companyID != nil && o.CompanyID != *c.companyID {
		return false
	}
	if c.status != nil && o.Status.Normalize() != *c.status {
		return false
	}
	return true
}
