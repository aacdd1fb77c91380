package interfaces

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// ApplicationRepository defines the interface for Application data access
type ApplicationRepository interface {
	// Create stores a new application. ErrAlreadyExists if the user already
	// applied to the opportunity.
	Create(ctx context.Context, a *model.Application) (*model.Application, error)

	Get(ctx context.Context, id types.ApplicationID) (*model.Application, error)

	// ListByOpportunity retrieves the applications of an opportunity, newest first
	ListByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Application, error)

	// ListByUser retrieves a user's applications, newest first
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Application, error)

	// UpdateStatus changes the status of an application
	UpdateStatus(ctx context.Context, id types.ApplicationID, status types.ApplicationStatus) (*model.Application, error)

	// DeleteByOpportunity removes every application of an opportunity
	DeleteByOpportunity(ctx context.Context, opportunityID types.OpportunityID) error
}
