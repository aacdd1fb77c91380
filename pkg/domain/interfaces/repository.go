package interfaces

import "github.com/m-mizutani/goerr/v2"

// Errors shared by every repository backend
var (
	ErrNotFound      = goerr.New("not found")
	ErrAlreadyExists = goerr.New("already exists")
)

// Repository defines the interface for data persistence
type Repository interface {
	Category() CategoryRepository
	CategoryField() CategoryFieldRepository
	Opportunity() OpportunityRepository
	Application() ApplicationRepository
	CategoryResponse() CategoryResponseRepository
	Profile() ProfileRepository

	Close() error
}
