package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type opportunityDocument struct {
	ID          string         `firestore:"id"`
	Title       string         `firestore:"title"`
	Description string         `firestore:"description"`
	CategoryID  string         `firestore:"category_id"`
	CompanyID   string         `firestore:"company_id"`
	Location    string         `firestore:"location"`
	Deadline    string         `firestore:"deadline"`
	ApplyURL    string         `firestore:"apply_url"`
	Status      string         `firestore:"status"`
	Config      map[string]any `firestore:"config"`
	CreatedAt   time.Time      `firestore:"created_at"`
	UpdatedAt   time.Time      `firestore:"updated_at"`
}

type opportunityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOpportunityRepository(client *firestore.Client) *opportunityRepository {
	return &opportunityRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *opportunityRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "opportunities"))
}

func opportunityToDocument(o *model.Opportunity) *opportunityDocument {
	config := map[string]any(o.Config)
	if config == nil {
		config = map[string]any{}
	}
	return &opportunityDocument{
		ID:          string(o.ID),
		Title:       o.Title,
		Description: o.Description,
		CategoryID:  string(o.CategoryID),
		CompanyID:   string(o.CompanyID),
		Location:    o.Location,
		Deadline:    o.Deadline,
		ApplyURL:    o.ApplyURL,
		Status:      string(o.Status.Normalize()),
		Config:      config,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func opportunityToModel(doc *opportunityDocument) *model.Opportunity {
	config := model.FieldValueRecord(doc.Config)
	if config == nil {
		config = model.FieldValueRecord{}
	}
	return &model.Opportunity{
		ID:          types.OpportunityID(doc.ID),
		Title:       doc.Title,
		Description: doc.Description,
		CategoryID:  types.CategoryID(doc.CategoryID),
		CompanyID:   types.UserID(doc.CompanyID),
		Location:    doc.Location,
		Deadline:    doc.Deadline,
		ApplyURL:    doc.ApplyURL,
		Status:      types.OpportunityStatus(doc.Status),
		Config:      config,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *opportunityRepository) Create(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	now := time.Now().UTC()
	doc := opportunityToDocument(o)
	if doc.ID == "" {
		doc.ID = types.NewOpportunityID().String()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "opportunity already exists", goerr.V("id", doc.ID))
		}
		return nil, goerr.Wrap(err, "failed to create opportunity", goerr.V("id", doc.ID))
	}

	return opportunityToModel(doc), nil
}

func (r *opportunityRepository) Get(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V("id", id))
	}

	var doc opportunityDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal opportunity", goerr.V("id", id))
	}
	return opportunityToModel(&doc), nil
}

func (r *opportunityRepository) List(ctx context.Context, opts ...interfaces.ListOpportunityOption) ([]*model.Opportunity, error) {
	cfg := interfaces.BuildListOpportunityConfig(opts...)

	query := r.collection().Query
	if id := cfg.CategoryID(); id != nil {
		query = query.Where("category_id", "==", string(*id))
	}
	if id := cfg.CompanyID(); id != nil {
		query = query.Where("company_id", "==", string(*id))
	}
	if s := cfg.Status(); s != nil {
		query = query.Where("status", "==", string(*s))
	}
	query = query.OrderBy("created_at", firestore.Desc)
	if limit := cfg.Limit(); limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Opportunity, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate opportunities")
		}

		var doc opportunityDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal opportunity")
		}
		result = append(result, opportunityToModel(&doc))
	}

	return result, nil
}

func (r *opportunityRepository) Update(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	ref := r.collection().Doc(string(o.ID))

	var updated *opportunityDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", o.ID))
			}
			return goerr.Wrap(err, "failed to get opportunity", goerr.V("id", o.ID))
		}

		var existing opportunityDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal opportunity", goerr.V("id", o.ID))
		}

		updated = opportunityToDocument(o)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update opportunity", goerr.V("id", o.ID))
	}

	return opportunityToModel(updated), nil
}

func (r *opportunityRepository) Delete(ctx context.Context, id types.OpportunityID) error {
	ref := r.collection().Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get opportunity", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete opportunity", goerr.V("id", id))
	}
	return nil
}

func (r *opportunityRepository) CountByCategory(ctx context.Context) (map[types.CategoryID]int, error) {
	iter := r.collection().Select("category_id").Documents(ctx)
	defer iter.Stop()

	counts := make(map[types.CategoryID]int)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate opportunities")
		}

		v, err := snap.DataAt("category_id")
		if err != nil {
			continue
		}
		if id, ok := v.(string); ok {
			counts[types.CategoryID(id)]++
		}
	}

	return counts, nil
}
