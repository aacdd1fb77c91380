package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client           *firestore.Client
	category         *categoryRepository
	categoryField    *categoryFieldRepository
	opportunity      *opportunityRepository
	application      *applicationRepository
	categoryResponse *categoryResponseRepository
	profile          *profileRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. "test" gives
// "test_categories"
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.category.collectionPrefix = prefix
		f.categoryField.collectionPrefix = prefix
		f.opportunity.collectionPrefix = prefix
		f.application.collectionPrefix = prefix
		f.categoryResponse.collectionPrefix = prefix
		f.profile.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:           client,
		category:         newCategoryRepository(client),
		categoryField:    newCategoryFieldRepository(client),
		opportunity:      newOpportunityRepository(client),
		application:      newApplicationRepository(client),
		categoryResponse: newCategoryResponseRepository(client),
		profile:          newProfileRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// CollectionName applies the optional prefix to a base collection name
func CollectionName(prefix, base string) string {
	if prefix != "" {
		return prefix + "_" + base
	}
	return base
}

func (f *Firestore) Category() interfaces.CategoryRepository {
	return f.category
}

func (f *Firestore) CategoryField() interfaces.CategoryFieldRepository {
	return f.categoryField
}

func (f *Firestore) Opportunity() interfaces.OpportunityRepository {
	return f.opportunity
}

func (f *Firestore) Application() interfaces.ApplicationRepository {
	return f.application
}

func (f *Firestore) CategoryResponse() interfaces.CategoryResponseRepository {
	return f.categoryResponse
}

func (f *Firestore) Profile() interfaces.ProfileRepository {
	return f.profile
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
