package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type applicationDocument struct {
	ID            string         `firestore:"id"`
	OpportunityID string         `firestore:"opportunity_id"`
	UserID        string         `firestore:"user_id"`
	Status        string         `firestore:"status"`
	CoverLetter   string         `firestore:"cover_letter"`
	ResumeURL     string         `firestore:"resume_url"`
	Answers       map[string]any `firestore:"answers"`
	CreatedAt     time.Time      `firestore:"created_at"`
	UpdatedAt     time.Time      `firestore:"updated_at"`
}

type applicationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newApplicationRepository(client *firestore.Client) *applicationRepository {
	return &applicationRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *applicationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "applications"))
}

func applicationToDocument(a *model.Application) *applicationDocument {
	answers := map[string]any(a.Answers)
	if answers == nil {
		answers = map[string]any{}
	}
	return &applicationDocument{
		ID:            string(a.ID),
		OpportunityID: string(a.OpportunityID),
		UserID:        string(a.UserID),
		Status:        string(a.Status),
		CoverLetter:   a.CoverLetter,
		ResumeURL:     a.ResumeURL,
		Answers:       answers,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func applicationToModel(doc *applicationDocument) *model.Application {
	answers := model.FieldValueRecord(doc.Answers)
	if answers == nil {
		answers = model.FieldValueRecord{}
	}
	return &model.Application{
		ID:            types.ApplicationID(doc.ID),
		OpportunityID: types.OpportunityID(doc.OpportunityID),
		UserID:        types.UserID(doc.UserID),
		Status:        types.ApplicationStatus(doc.Status),
		CoverLetter:   doc.CoverLetter,
		ResumeURL:     doc.ResumeURL,
		Answers:       answers,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func (r *applicationRepository) Create(ctx context.Context, a *model.Application) (*model.Application, error) {
	now := time.Now().UTC()
	doc := applicationToDocument(a)
	if doc.ID == "" {
		doc.ID = types.NewApplicationID().String()
	}
	if doc.Status == "" {
		doc.Status = types.ApplicationStatusPending.String()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	existing := r.collection().
		Where("opportunity_id", "==", doc.OpportunityID).
		Where("user_id", "==", doc.UserID).
		Limit(1)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.Documents(existing).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query existing application")
		}
		if len(snaps) > 0 {
			return goerr.Wrap(ErrAlreadyExists, "application already exists",
				goerr.V("opportunity_id", doc.OpportunityID), goerr.V("user_id", doc.UserID))
		}
		return tx.Create(r.collection().Doc(doc.ID), doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create application", goerr.V("id", doc.ID))
	}

	return applicationToModel(doc), nil
}

func (r *applicationRepository) Get(ctx context.Context, id types.ApplicationID) (*model.Application, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get application", goerr.V("id", id))
	}

	var doc applicationDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal application", goerr.V("id", id))
	}
	return applicationToModel(&doc), nil
}

func (r *applicationRepository) listWhere(ctx context.Context, path, value string) ([]*model.Application, error) {
	iter := r.collection().
		Where(path, "==", value).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Application, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate applications", goerr.V(path, value))
		}

		var doc applicationDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal application")
		}
		result = append(result, applicationToModel(&doc))
	}
	return result, nil
}

func (r *applicationRepository) ListByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Application, error) {
	return r.listWhere(ctx, "opportunity_id", string(opportunityID))
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Application, error) {
	return r.listWhere(ctx, "user_id", string(userID))
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id types.ApplicationID, s types.ApplicationStatus) (*model.Application, error) {
	ref := r.collection().Doc(string(id))
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: string(s)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to update application status", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}

func (r *applicationRepository) DeleteByOpportunity(ctx context.Context, opportunityID types.OpportunityID) error {
	iter := r.collection().Where("opportunity_id", "==", string(opportunityID)).Documents(ctx)
	defer iter.Stop()

	bulkWriter := r.client.BulkWriter(ctx)

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to iterate applications for deletion", goerr.V("opportunity_id", opportunityID))
		}

		if _, err := bulkWriter.Delete(snap.Ref); err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to delete application", goerr.V("opportunity_id", opportunityID))
		}
	}

	bulkWriter.End()

	return nil
}
