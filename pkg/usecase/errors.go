package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Access control errors
	ErrUnauthorized = goerr.New("authentication required")
	ErrForbidden    = goerr.New("permission denied")

	// State errors
	ErrConflict          = goerr.New("conflict")
	ErrOpportunityClosed = goerr.New("opportunity is not accepting applications")

	// Other errors
	ErrUploadDisabled = goerr.New("uploads are not configured")
)

// Context keys for error values
const (
	CategoryIDKey    = "category_id"
	FieldIDKey       = "field_id"
	OpportunityIDKey = "opportunity_id"
	ApplicationIDKey = "application_id"
	UserIDKey        = "user_id"
)
